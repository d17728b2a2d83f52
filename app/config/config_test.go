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

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "data/badger", cfg.DataDir)
	assert.Equal(t, 720*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.TracingEnabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("INKWELL_ADDR", ":9090")
	t.Setenv("INKWELL_TOKEN_TTL", "1h")
	t.Setenv("INKWELL_IMAGE_BUCKET", "blog-images")
	t.Setenv("INKWELL_OTEL_ENDPOINT", "localhost:4318")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, "blog-images", cfg.ImageBucket)
	assert.True(t, cfg.TracingEnabled())
}

func TestLoadError(t *testing.T) {
	t.Setenv("INKWELL_READ_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Addr:      ":8080",
			DataDir:   "data",
			JWTSecret: "0123456789abcdef",
			TokenTTL:  time.Hour,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "short secret", mutate: func(c *Config) { c.JWTSecret = "short" }, wantErr: "JWT_SECRET"},
		{name: "empty addr", mutate: func(c *Config) { c.Addr = "" }, wantErr: "ADDR"},
		{name: "zero ttl", mutate: func(c *Config) { c.TokenTTL = 0 }, wantErr: "TOKEN_TTL"},
		{name: "cdn without bucket", mutate: func(c *Config) { c.ImageCDNDomain = "cdn.example.com" }, wantErr: "IMAGE_BUCKET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
