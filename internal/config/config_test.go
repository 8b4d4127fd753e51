package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:3001", cfg.Addr())
	assert.Equal(t, "storage/legastream.db", cfg.Database.Path)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "hybrid", cfg.AI.Strategy)
	assert.Equal(t, int64(50*1024*1024), cfg.Storage.MaxUploadBytes())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("AI_PROVIDER", "Gemini")
	t.Setenv("AI_STRATEGY", "LOCAL")
	t.Setenv("MAX_UPLOAD_MB", "10")
	t.Setenv("CLAUDE_API_KEY", "legacy-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "gemini", cfg.AI.Provider, "provider name is lowercased")
	assert.Equal(t, "local", cfg.AI.Strategy)
	assert.Equal(t, int64(10*1024*1024), cfg.Storage.MaxUploadBytes())
	assert.Equal(t, "legacy-key", cfg.AI.AnthropicKey, "CLAUDE_API_KEY is accepted as a legacy alias")
}

func TestLoadAnthropicKeyPrecedence(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "primary")
	t.Setenv("CLAUDE_API_KEY", "legacy")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "primary", cfg.AI.AnthropicKey)
}

func TestLoadRejectsBadInts(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Path = "x.db"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg.Auth.JWTSecret = "secret"
	assert.NoError(t, cfg.Validate())
}
