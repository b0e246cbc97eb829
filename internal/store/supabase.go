package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
	"github.com/tidwall/gjson"

	"github.com/pujanggalabs/puspagen/internal/models"
)

const (
	accountsTable  = "poet_data"
	creationsTable = "poet_creation_data"
)

// Supabase talks to the hosted store over its PostgREST API.
type Supabase struct {
	client *supa.Client
}

func NewSupabase(url, key string) (*Supabase, error) {
	client, err := supa.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &Supabase{client: client}, nil
}

func (s *Supabase) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	data, _, err := s.client.From(accountsTable).
		Select("*", "", false).
		Eq("email", email).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", accountsTable, err)
	}
	return firstAccount(data), nil
}

func (s *Supabase) FindByID(_ context.Context, id int64) (*models.Account, error) {
	data, _, err := s.client.From(accountsTable).
		Select("*", "", false).
		Eq("id", strconv.FormatInt(id, 10)).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", accountsTable, err)
	}
	return firstAccount(data), nil
}

func (s *Supabase) CreateAccount(_ context.Context, email, token string, credit int) (*models.Account, error) {
	row := map[string]interface{}{
		"email":      email,
		"token":      token,
		"credit":     credit,
		"created_at": time.Now().UTC().Format(time.RFC3339),
	}
	data, _, err := s.client.From(accountsTable).
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", accountsTable, err)
	}
	acct := firstAccount(data)
	if acct == nil {
		return nil, fmt.Errorf("insert %s: empty response", accountsTable)
	}
	return acct, nil
}

func (s *Supabase) UpdateCredit(_ context.Context, id int64, credit int) error {
	_, _, err := s.client.From(accountsTable).
		Update(map[string]interface{}{"credit": credit}, "minimal", "").
		Eq("id", strconv.FormatInt(id, 10)).
		Execute()
	if err != nil {
		return fmt.Errorf("update %s: %w", accountsTable, err)
	}
	return nil
}

func (s *Supabase) InsertCreation(_ context.Context, creation models.Creation) error {
	row := map[string]interface{}{
		"poet":       creation.Poet,
		"title":      creation.Title,
		"text":       creation.Text,
		"type":       creation.Type,
		"created_at": creation.CreatedAt.UTC().Format(time.RFC3339),
	}
	_, _, err := s.client.From(creationsTable).
		Insert(row, false, "", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("insert %s: %w", creationsTable, err)
	}
	return nil
}

func (s *Supabase) ListCreations(_ context.Context, poetID int64, limit int) ([]models.Creation, error) {
	data, _, err := s.client.From(creationsTable).
		Select("*", "", false).
		Eq("poet", strconv.FormatInt(poetID, 10)).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(limit, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", creationsTable, err)
	}

	var creations []models.Creation
	for _, row := range gjson.ParseBytes(data).Array() {
		creations = append(creations, models.Creation{
			Poet:      row.Get("poet").Int(),
			Title:     row.Get("title").String(),
			Text:      row.Get("text").String(),
			Type:      row.Get("type").String(),
			CreatedAt: parseTimestamp(row.Get("created_at").String()),
		})
	}
	return creations, nil
}

func firstAccount(data []byte) *models.Account {
	rows := gjson.ParseBytes(data).Array()
	if len(rows) == 0 {
		return nil
	}
	row := rows[0]
	return &models.Account{
		ID:        row.Get("id").Int(),
		Email:     row.Get("email").String(),
		Token:     row.Get("token").String(),
		Credit:    int(row.Get("credit").Int()),
		CreatedAt: parseTimestamp(row.Get("created_at").String()),
	}
}

// parseTimestamp accepts the timestamp shapes PostgREST emits, with or
// without a zone suffix. A zero time is fine for rows that predate the
// created_at column.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
