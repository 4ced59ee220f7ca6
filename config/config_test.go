package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsWithoutFile(t *testing.T) {
	v, err := newViper(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	cfg := fromViper(v)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, time.Monday, cfg.Weekday())
}

func TestFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"app": {"port": "9000", "jwtsecret": "from-file"},
		"analytics": {"timezone": "UTC", "weekstart": "sunday"}
	}`), 0o600))
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	v, err := newViper(path)
	require.NoError(t, err)
	cfg := fromViper(v)

	assert.Equal(t, "9000", cfg.AppPort)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, time.Sunday, cfg.Weekday())
	assert.Equal(t, "UTC", cfg.Location().String())
}

func TestMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"app":`), 0o600))
	_, err := newViper(path)
	assert.Error(t, err)
}
