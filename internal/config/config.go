package config

import (
	"log"
	"os"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	DatabaseURL string
	RedisURL    string

	GenerationURL    string
	GenerationSecret string
	GenerationStub   bool

	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
	SessionSecret      string
	ContentKey         string // base64 AES-256 key for entry content at rest

	FrontendURL   string
	DefaultLocale string
	SweepSchedule string // cron expression for the periodic insight sweep
	SweepTimezone string

	Env       string
	Port      string
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           getEnvWithDefault("REDIS_URL", "redis://localhost:6379/0"),
		GenerationURL:      os.Getenv("GENERATION_URL"),
		GenerationSecret:   os.Getenv("GENERATION_SECRET"),
		GenerationStub:     os.Getenv("GENERATION_STUB") == "true",
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCallbackURL:  os.Getenv("GOOGLE_CALLBACK_URL"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		ContentKey:         os.Getenv("CONTENT_ENCRYPTION_KEY"),
		FrontendURL:        getEnvWithDefault("FRONTEND_URL", "http://localhost:5173"),
		DefaultLocale:      getEnvWithDefault("DEFAULT_LOCALE", "ru"),
		SweepSchedule:      getEnvWithDefault("INSIGHT_SWEEP_SCHEDULE", "0 9 * * *"),
		SweepTimezone:      getEnvWithDefault("INSIGHT_SWEEP_TIMEZONE", "UTC"),
		Env:                getEnvWithDefault("ENV", "development"),
		Port:               getEnvWithDefault("PORT", "8080"),
		LogLevel:           getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat:          getEnvWithDefault("LOG_FORMAT", "text"),
	}

	// Warn if using default session secret (insecure for production)
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "dev-secret-change-in-production-use-openssl-rand-hex-32"
		log.Println("WARNING: Using default SESSION_SECRET. Generate a secure secret with: openssl rand -hex 32")
	}

	if cfg.ContentKey == "" {
		// base64 of a fixed 32-byte key, development only
		cfg.ContentKey = "ZGV2LWNvbnRlbnQta2V5LWRldi1jb250ZW50LWtleSE="
		log.Println("WARNING: Using default CONTENT_ENCRYPTION_KEY. Generate a secure key with: openssl rand -base64 32")
	}

	// Stub mode keeps local development working without a generation service
	if cfg.GenerationURL == "" && !cfg.GenerationStub {
		cfg.GenerationStub = true
		log.Println("WARNING: GENERATION_URL not set, falling back to stub generation responses")
	}

	return cfg
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
