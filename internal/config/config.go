// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds application configuration.
type Config struct {
	DataDir    string // directory for persisted session state (portfolio, theme)
	APIBaseURL string // empty means the public CoinPaprika endpoint
	LogLevel   string
	NoColor    bool
}

// Load reads configuration from environment variables, with a .env file as
// an optional source.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("COINFOLIO_DATA_DIR", "")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("home: %w", err)
		}
		dataDir = filepath.Join(home, ".coinfolio")
	}
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	return &Config{
		DataDir:    absDataDir,
		APIBaseURL: getEnv("COINFOLIO_API_URL", ""),
		LogLevel:   getEnv("LOG_LEVEL", "warn"),
		NoColor:    os.Getenv("NO_COLOR") != "",
	}, nil
}

// NewLogger builds the application logger. Output goes to stderr so it never
// interleaves with rendered UI on stdout.
func NewLogger(cfg *Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: cfg.NoColor}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
