package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/tatianab/explorations/internal/dice"
)

// Store drivers.
const (
	StoreYAML   = "yaml"
	StoreSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	SaveDir      string        `env:"EXPLORE_SAVE_DIR" envDefault:".saves"`
	Store        string        `env:"EXPLORE_STORE" envDefault:"yaml"`
	SQLitePath   string        `env:"EXPLORE_SQLITE_PATH" envDefault:".saves/explorations.db"`
	GeminiAPIKey string        `env:"GEMINI_API_KEY"`
	GeminiModel  string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	LoadTimeout  time.Duration `env:"EXPLORE_LOAD_TIMEOUT" envDefault:"5s"`
	DiceNotation string        `env:"EXPLORE_DICE" envDefault:"3d10+2"`
	// Seed fixes every roll and generated player; 0 seeds from crypto/rand.
	Seed int64 `env:"EXPLORE_SEED"`
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values env parsing cannot.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreYAML, StoreSQLite:
	default:
		return fmt.Errorf("EXPLORE_STORE must be %q or %q, got %q", StoreYAML, StoreSQLite, c.Store)
	}
	if c.LoadTimeout <= 0 {
		return fmt.Errorf("EXPLORE_LOAD_TIMEOUT must be positive, got %s", c.LoadTimeout)
	}
	if _, err := dice.Parse(c.DiceNotation); err != nil {
		return fmt.Errorf("EXPLORE_DICE: %w", err)
	}
	return nil
}

// RequireGemini reports an error when no Gemini API key is configured.
func (c *Config) RequireGemini() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is not set")
	}
	return nil
}
