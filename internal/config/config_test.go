package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, 3003, c.Server.Port)
	assert.Equal(t, "0.0.0.0:3003", c.Server.GetServerAddr())
	assert.True(t, c.Testing.Enabled)
	assert.Equal(t, time.Hour, c.Auth.TokenTTL)
	assert.NoError(t, c.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 4000
auth:
  jwt_secret: s3cret
  token_ttl: 30m
testing:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	require.NoError(t, LoadFromFile(path))
	c := Get()

	assert.Equal(t, 4000, c.Server.Port)
	assert.Equal(t, "s3cret", c.Auth.JWTSecret)
	assert.Equal(t, 30*time.Minute, c.Auth.TokenTTL)
	assert.False(t, c.Testing.Enabled)
	// untouched keys keep their defaults
	assert.Equal(t, 10, c.Auth.BcryptCost)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	require.NoError(t, Load(t.TempDir()))
	assert.Equal(t, 3003, Get().Server.Port)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("BLOGLIST_SERVER_PORT", "3999")

	require.NoError(t, Load(t.TempDir()))
	assert.Equal(t, 3999, Get().Server.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"empty dsn", func(c *Config) { c.Database.DSN = "" }},
		{"empty secret", func(c *Config) { c.Auth.JWTSecret = "" }},
		{"zero ttl", func(c *Config) { c.Auth.TokenTTL = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestGinMode(t *testing.T) {
	tests := []struct {
		app  AppConfig
		want string
	}{
		{AppConfig{Env: "development"}, "debug"},
		{AppConfig{Env: "production"}, "release"},
		{AppConfig{Env: "production", Debug: true}, "debug"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.app.GinMode(), "%+v", tt.app)
	}
}
