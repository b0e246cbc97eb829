package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

func NewRedis(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func NewPostgres(dbURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the poet tables if they do not exist. Only the direct
// SQL backend runs this; on Supabase the tables are managed in the project.
func EnsureSchema(db *sqlx.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS poet_data (
		id SERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		token TEXT NOT NULL,
		credit INTEGER NOT NULL DEFAULT 10,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS poet_creation_data (
		id SERIAL PRIMARY KEY,
		poet INTEGER NOT NULL REFERENCES poet_data(id),
		title TEXT NOT NULL,
		text TEXT NOT NULL,
		type TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create poet tables: %w", err)
	}

	slog.Info("✅ Poet tables are ready!")
	return nil
}
