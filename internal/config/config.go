package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const defaultRedirectURL = "http://localhost:8080/callback"

// Config holds the Miro OAuth application settings and the location of the
// persisted token file.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	TokenFile    string
}

// Load reads configuration from the process environment. A .env file in the
// working directory is honored if present. The token storage directory is
// created if it does not exist.
func Load() (*Config, error) {
	// Missing .env is fine, real environments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		ClientID:     os.Getenv("MIRO_CLIENT_ID"),
		ClientSecret: os.Getenv("MIRO_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("MIRO_REDIRECT_URL"),
	}
	if cfg.RedirectURL == "" {
		cfg.RedirectURL = defaultRedirectURL
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	storageDir := filepath.Join(home, ".miro-mcp")
	if err := os.MkdirAll(storageDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create token storage directory: %w", err)
	}
	cfg.TokenFile = filepath.Join(storageDir, "tokens.json")

	return cfg, nil
}

// Validate reports an error if a required setting is absent.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("MIRO_CLIENT_ID environment variable is required")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("MIRO_CLIENT_SECRET environment variable is required")
	}
	return nil
}
