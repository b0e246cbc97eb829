package store

import (
	"context"

	"github.com/pujanggalabs/puspagen/internal/models"
)

// Store reads and writes account and creation records in the external
// relational store. Lookups return (nil, nil) when no record exists; callers
// treat nil accounts and empty lists as "no such record". No caching, no
// retries: every call is one remote round trip.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	CreateAccount(ctx context.Context, email, token string, credit int) (*models.Account, error)
	FindByID(ctx context.Context, id int64) (*models.Account, error)
	UpdateCredit(ctx context.Context, id int64, credit int) error
	InsertCreation(ctx context.Context, creation models.Creation) error
	ListCreations(ctx context.Context, poetID int64, limit int) ([]models.Creation, error)
}

// Disabled is the store used when no backend is configured. Every operation
// degrades to an empty result so the rest of the app keeps serving.
type Disabled struct{}

func (Disabled) FindByEmail(context.Context, string) (*models.Account, error) { return nil, nil }

func (Disabled) CreateAccount(context.Context, string, string, int) (*models.Account, error) {
	return nil, nil
}

func (Disabled) FindByID(context.Context, int64) (*models.Account, error) { return nil, nil }

func (Disabled) UpdateCredit(context.Context, int64, int) error { return nil }

func (Disabled) InsertCreation(context.Context, models.Creation) error { return nil }

func (Disabled) ListCreations(context.Context, int64, int) ([]models.Creation, error) {
	return nil, nil
}
