// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr   string
	DBPath       string
	DataDir      string
	JWTSecret    string
	SessionTTL   time.Duration
	OpenAIAPIKey string
	OpenAIModel  string
}

// HasOpenAIKey returns true when an OpenAI API key is configured. Used by the
// composition root to decide whether the assistant endpoint is live.
func (c *Config) HasOpenAIKey() bool {
	return c.OpenAIAPIKey != ""
}

// Load reads configuration from environment variables and returns a validated
// Config. OPSBOARD_JWT_SECRET is required; OPSBOARD_OPENAI_API_KEY is optional
// and leaves the assistant disabled when absent. Optional variables with
// defaults: OPSBOARD_LISTEN_ADDR (127.0.0.1:8080), OPSBOARD_DB_PATH
// (opsboard.db), OPSBOARD_DATA_DIR (data), OPSBOARD_SESSION_TTL (12h),
// OPSBOARD_OPENAI_MODEL (gpt-4o-mini).
func Load() (*Config, error) {
	jwtSecret := os.Getenv("OPSBOARD_JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("OPSBOARD_JWT_SECRET is required")
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("OPSBOARD_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "opsboard.db"
	if v, ok := os.LookupEnv("OPSBOARD_DB_PATH"); ok {
		dbPath = v
	}

	dataDir := "data"
	if v, ok := os.LookupEnv("OPSBOARD_DATA_DIR"); ok {
		dataDir = v
	}

	sessionTTL := 12 * time.Hour
	if v, ok := os.LookupEnv("OPSBOARD_SESSION_TTL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("OPSBOARD_SESSION_TTL has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("OPSBOARD_SESSION_TTL must be positive, got %q", v)
		}
		sessionTTL = parsed
	}

	openAIModel := "gpt-4o-mini"
	if v, ok := os.LookupEnv("OPSBOARD_OPENAI_MODEL"); ok {
		openAIModel = v
	}

	return &Config{
		ListenAddr:   listenAddr,
		DBPath:       dbPath,
		DataDir:      dataDir,
		JWTSecret:    jwtSecret,
		SessionTTL:   sessionTTL,
		OpenAIAPIKey: os.Getenv("OPSBOARD_OPENAI_API_KEY"),
		OpenAIModel:  openAIModel,
	}, nil
}
