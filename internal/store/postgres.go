package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pujanggalabs/puspagen/internal/models"
)

// Postgres talks to the store over a direct SQL connection. Supabase exposes
// the same tables through its Postgres connection string, so this backend is
// interchangeable with the PostgREST one.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var acct models.Account
	err := p.db.GetContext(ctx, &acct,
		"SELECT id, email, token, credit, created_at FROM poet_data WHERE email = $1", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select poet_data: %w", err)
	}
	return &acct, nil
}

func (p *Postgres) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	var acct models.Account
	err := p.db.GetContext(ctx, &acct,
		"SELECT id, email, token, credit, created_at FROM poet_data WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select poet_data: %w", err)
	}
	return &acct, nil
}

func (p *Postgres) CreateAccount(ctx context.Context, email, token string, credit int) (*models.Account, error) {
	var acct models.Account
	err := p.db.GetContext(ctx, &acct,
		`INSERT INTO poet_data (email, token, credit) VALUES ($1, $2, $3)
		 RETURNING id, email, token, credit, created_at`,
		email, token, credit)
	if err != nil {
		return nil, fmt.Errorf("insert poet_data: %w", err)
	}
	return &acct, nil
}

func (p *Postgres) UpdateCredit(ctx context.Context, id int64, credit int) error {
	if _, err := p.db.ExecContext(ctx,
		"UPDATE poet_data SET credit = $1 WHERE id = $2", credit, id); err != nil {
		return fmt.Errorf("update poet_data: %w", err)
	}
	return nil
}

func (p *Postgres) InsertCreation(ctx context.Context, creation models.Creation) error {
	if _, err := p.db.ExecContext(ctx,
		"INSERT INTO poet_creation_data (poet, title, text, type) VALUES ($1, $2, $3, $4)",
		creation.Poet, creation.Title, creation.Text, creation.Type); err != nil {
		return fmt.Errorf("insert poet_creation_data: %w", err)
	}
	return nil
}

func (p *Postgres) ListCreations(ctx context.Context, poetID int64, limit int) ([]models.Creation, error) {
	var creations []models.Creation
	err := p.db.SelectContext(ctx, &creations,
		`SELECT poet, title, text, type, created_at FROM poet_creation_data
		 WHERE poet = $1 ORDER BY created_at DESC LIMIT $2`,
		poetID, limit)
	if err != nil {
		return nil, fmt.Errorf("select poet_creation_data: %w", err)
	}
	return creations, nil
}
