package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Prefix is prepended to every environment variable name.
const Prefix = "INKWELL_"

// Config holds the process configuration read from the environment.
type Config struct {
	Addr    string `env:"ADDR" envDefault:":8080"`
	DataDir string `env:"DATA_DIR" envDefault:"data/badger"`
	LogMode string `env:"LOG_MODE" envDefault:"development"`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"720h"`

	ClientURL string `env:"CLIENT_URL" envDefault:"http://localhost:3000"`

	ImageBucket    string `env:"IMAGE_BUCKET"`
	ImageCDNDomain string `env:"IMAGE_CDN_DOMAIN"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"false"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses the environment into a Config with defaults applied.
func Load() (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// TracingEnabled reports whether spans should be exported.
func (c *Config) TracingEnabled() bool {
	return c.OTelEnabled || c.OTelEndpoint != ""
}

// Validate checks the settings the HTTP server cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New(Prefix+"ADDR must not be empty"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New(Prefix+"DATA_DIR must not be empty"))
	}
	if len(c.JWTSecret) < 16 {
		errs = append(errs, errors.New(Prefix+"JWT_SECRET must be at least 16 characters"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New(Prefix+"TOKEN_TTL must be positive"))
	}
	if c.ImageCDNDomain != "" && c.ImageBucket == "" {
		errs = append(errs, errors.New(Prefix+"IMAGE_CDN_DOMAIN requires "+Prefix+"IMAGE_BUCKET"))
	}
	return errors.Join(errs...)
}
