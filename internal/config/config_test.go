package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MIRO_CLIENT_ID", "cid")
	t.Setenv("MIRO_CLIENT_SECRET", "secret")
	t.Setenv("MIRO_REDIRECT_URL", "http://example.com/cb")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "cid", cfg.ClientID)
	assert.Equal(t, "secret", cfg.ClientSecret)
	assert.Equal(t, "http://example.com/cb", cfg.RedirectURL)
	assert.Equal(t, filepath.Join(home, ".miro-mcp", "tokens.json"), cfg.TokenFile)

	// The storage directory is created with owner-only permissions.
	info, err := os.Stat(filepath.Join(home, ".miro-mcp"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}

func TestLoad_DefaultRedirectURL(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MIRO_CLIENT_ID", "cid")
	t.Setenv("MIRO_CLIENT_SECRET", "secret")
	t.Setenv("MIRO_REDIRECT_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/callback", cfg.RedirectURL)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MIRO_CLIENT_ID")

	cfg.ClientID = "cid"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MIRO_CLIENT_SECRET")

	cfg.ClientSecret = "secret"
	assert.NoError(t, cfg.Validate())
}
