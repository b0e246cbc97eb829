package poem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pujanggalabs/puspagen/internal/models"
	"github.com/pujanggalabs/puspagen/internal/store"
)

var (
	// ErrEmptyTitle rejects a generation before any credit is spent.
	ErrEmptyTitle = errors.New("title is required")
	// ErrNoCredit means the account's quota is exhausted.
	ErrNoCredit = errors.New("no credit remaining")
	// ErrBusy means a generation for the same account is already in flight.
	ErrBusy = errors.New("generation already in progress")
)

// guardTTL caps how long an in-flight guard can outlive a crashed request.
const guardTTL = 60 * time.Second

// Service orchestrates one generation: quota check, prompt, model call,
// cleanup, persistence, credit spend.
type Service struct {
	Store     store.Store
	Generator Generator
	Redis     *redis.Client
}

func NewService(st store.Store, gen Generator, rdb *redis.Client) *Service {
	return &Service{Store: st, Generator: gen, Redis: rdb}
}

// Compose generates text for an account and returns the display result plus
// the remaining credit. Validation and quota problems come back as errors;
// a model failure comes back as the result text itself, with no credit spent
// and nothing persisted.
func (s *Service) Compose(ctx context.Context, acct *models.Account, genre, title string) (string, int, error) {
	if title == "" {
		return "", acct.Credit, ErrEmptyTitle
	}
	if acct.Credit <= 0 {
		return "", acct.Credit, ErrNoCredit
	}

	release, ok := s.acquire(ctx, acct.ID)
	if !ok {
		return "", acct.Credit, ErrBusy
	}
	defer release()

	raw, err := s.Generator.Generate(ctx, Prompt(genre, title))
	if err != nil {
		return fmt.Sprintf("Exception saat menghubungi Gemini/Gemma API: %v", err), acct.Credit, nil
	}

	cleaned := Clean(raw, title, genre)
	display := title
	if cleaned != "" {
		display = title + "\n\n" + cleaned
	}

	creation := models.Creation{
		Poet:      acct.ID,
		Title:     title,
		Text:      cleaned,
		Type:      genre,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.InsertCreation(ctx, creation); err != nil {
		return fmt.Sprintf("Exception saat menghubungi Gemini/Gemma API: %v", err), acct.Credit, nil
	}
	if err := s.Store.UpdateCredit(ctx, acct.ID, acct.Credit-1); err != nil {
		return fmt.Sprintf("Exception saat menghubungi Gemini/Gemma API: %v", err), acct.Credit, nil
	}

	return display, acct.Credit - 1, nil
}

// acquire takes a short per-account guard so two concurrent generations
// cannot interleave the credit read and write. The guard is advisory: with
// Redis down or absent the request proceeds unguarded.
func (s *Service) acquire(ctx context.Context, accountID int64) (func(), bool) {
	if s.Redis == nil {
		return func() {}, true
	}
	key := fmt.Sprintf("generate:%d", accountID)
	ok, err := s.Redis.SetNX(ctx, key, "1", guardTTL).Result()
	if err != nil {
		slog.Error("Generation guard unavailable", "error", err)
		return func() {}, true
	}
	if !ok {
		return nil, false
	}
	return func() {
		if err := s.Redis.Del(context.Background(), key).Err(); err != nil {
			slog.Error("Failed to release generation guard", "key", key, "error", err)
		}
	}, true
}
