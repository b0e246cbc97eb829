package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pujanggalabs/puspagen/internal/models"
)

type Config struct {
	Server   ServerConfig
	Supabase SupabaseConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	SMTP     SMTPConfig
	Gemini   GeminiConfig
	App      AppConfig
}

type ServerConfig struct {
	Port           string
	MaxRequests    int
	RequestTimeout time.Duration
	Environment    string
}

type SupabaseConfig struct {
	URL string
	Key string
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type AppConfig struct {
	ContactEmail  string
	InitialCredit int
	HistoryLimit  int
}

func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           loadEnv("PORT", ":8080"),
			MaxRequests:    loadEnvAsInt("SERVER_MAX_REQUESTS", 100),
			RequestTimeout: time.Duration(loadEnvAsInt("SERVER_REQUEST_TIMEOUT", 60)) * time.Second,
			Environment:    loadEnv("GO_ENV", "development"),
		},
		Supabase: SupabaseConfig{
			URL: loadEnv("SUPABASE_URL", ""),
			Key: loadEnv("SUPABASE_KEY", ""),
		},
		Database: DatabaseConfig{
			URL: loadEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Addr:     loadEnv("REDIS_ADDR", "localhost:6379"),
			Password: loadEnv("REDIS_PASSWORD", ""),
			DB:       loadEnvAsInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			Secret: loadEnv("SECRET_KEY", "changeme"),
			TTL:    time.Duration(loadEnvAsInt("SESSION_TTL", 24)) * time.Hour,
		},
		SMTP: SMTPConfig{
			Host:     loadEnv("SMTP_SERVER", ""),
			Port:     loadEnvAsInt("SMTP_PORT", 587),
			User:     loadEnv("SMTP_USER", ""),
			Password: loadEnv("SMTP_PASSWORD", ""),
		},
		Gemini: GeminiConfig{
			APIKey: loadEnv("GOOGLE_AI_API_KEY", ""),
			Model:  loadEnv("GEMINI_MODEL", "gemma-3-27b-it"),
		},
		App: AppConfig{
			ContactEmail:  loadEnv("CONTACT_EMAIL", "your@email.com"),
			InitialCredit: loadEnvAsInt("INITIAL_CREDIT", models.DefaultCredit),
			HistoryLimit:  loadEnvAsInt("HISTORY_LIMIT", 20),
		},
	}
}

func loadEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func loadEnvAsInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
