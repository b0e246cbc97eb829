package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/pujanggalabs/puspagen/internal/api"
	"github.com/pujanggalabs/puspagen/internal/config"
	"github.com/pujanggalabs/puspagen/internal/mailer"
	"github.com/pujanggalabs/puspagen/internal/poem"
	"github.com/pujanggalabs/puspagen/internal/store"
	"github.com/pujanggalabs/puspagen/pkg/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on system environment")
	}

	// Load configuration
	cfg := config.LoadConfig()
	ctx := context.Background()

	// Pick a store backend. Neither configured means every store call
	// degrades to an empty result, but the server still serves.
	var st store.Store
	switch {
	case cfg.Supabase.URL != "" && cfg.Supabase.Key != "":
		supabaseStore, err := store.NewSupabase(cfg.Supabase.URL, cfg.Supabase.Key)
		if err != nil {
			slog.Error("❌ Supabase client failed", "error", err)
			os.Exit(1)
		}
		st = supabaseStore
		slog.Info("✅ Using Supabase store")
	case cfg.Database.URL != "":
		db, err := database.NewPostgres(cfg.Database.URL)
		if err != nil {
			slog.Error("❌ Database connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := database.EnsureSchema(db); err != nil {
			slog.Error("❌ Schema setup failed", "error", err)
			os.Exit(1)
		}
		st = store.NewPostgres(db)
		slog.Info("✅ Connected to PostgreSQL")
	default:
		slog.Warn("⚠️ No store configured, account operations are disabled")
		st = store.Disabled{}
	}

	// The Redis guard is advisory; without it generations run unguarded.
	redisClient, err := database.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		slog.Warn("⚠️ Redis unavailable, generation guard disabled", "error", err)
		redisClient = nil
	} else {
		slog.Info("✅ Connected to Redis")
	}

	var generator poem.Generator = poem.Unconfigured{}
	if cfg.Gemini.APIKey != "" {
		gemini, err := poem.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			slog.Error("❌ Gemini client failed", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		generator = gemini
		slog.Info("✅ Gemini client ready", "model", cfg.Gemini.Model)
	} else {
		slog.Warn("⚠️ GOOGLE_AI_API_KEY not set, generation will fail per request")
	}

	notifier := mailer.New(cfg.SMTP, cfg.App.ContactEmail)
	poems := poem.NewService(st, generator, redisClient)

	server := api.NewServer(cfg, st, notifier, poems)
	go func() {
		slog.Info("🚀 Server running", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			slog.Error("❌ Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	slog.Info("🛑 Server shutting down...")
	if err := server.Shutdown(); err != nil {
		slog.Error("❌ Shutdown failed", "error", err)
		os.Exit(1)
	}
}
