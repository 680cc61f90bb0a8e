// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds the application configuration loaded from environment
// variables.
type Config struct {
	// Port the HTTP server listens on.
	// Environment variable: PORT
	Port string `koanf:"PORT"`

	// StoreBackend selects snapshot persistence: memory, file, or sqlite.
	// Environment variable: STORE_BACKEND
	StoreBackend string `koanf:"STORE_BACKEND"`

	// DataFile is the snapshot path for the file backend.
	// Environment variable: DATA_FILE
	DataFile string `koanf:"DATA_FILE"`

	// SQLitePath is the database path for the sqlite backend.
	// Environment variable: SQLITE_PATH
	SQLitePath string `koanf:"SQLITE_PATH"`

	// GeminiAPIKey authenticates calls to the AI collaborator. Empty means
	// AI-assisted features degrade to their safe defaults.
	// Environment variable: GEMINI_API_KEY
	GeminiAPIKey string `koanf:"GEMINI_API_KEY"`

	// GeminiBaseURL overrides the collaborator endpoint (tests, proxies).
	// Environment variable: GEMINI_BASE_URL
	GeminiBaseURL string `koanf:"GEMINI_BASE_URL"`

	// LogLevel sets the zap level: debug, info, warn, error.
	// Environment variable: LOG_LEVEL
	LogLevel string `koanf:"LOG_LEVEL"`

	// AllowedOrigins is a comma-separated CORS allow-list.
	// Environment variable: ALLOWED_ORIGINS
	AllowedOrigins string `koanf:"ALLOWED_ORIGINS"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", nil), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{
		Port:         "8111",
		StoreBackend: "file",
		DataFile:     "data/snapshot.json",
		SQLitePath:   "data/moneymind.db",
		LogLevel:     "info",
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Origins returns the CORS allow-list, defaulting to the local frontend.
func (c *Config) Origins() []string {
	if c.AllowedOrigins == "" {
		return []string{"http://localhost:1234", "http://127.0.0.1:1234"}
	}
	parts := strings.Split(c.AllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
