package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backend selectors for recipe images.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Config holds all configuration for the application, parsed from
// environment variables.
type Config struct {
	// Server configuration
	ServerHost string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	ServerPort string `env:"SERVER_PORT" envDefault:"8000"`

	// Database configuration
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"recipe"`
	DBSSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`

	// Redis configuration (token store)
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Auth token lifetime. Tokens are refreshed to the full TTL on every
	// successful authenticated request.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"720h"`

	// Media storage configuration
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"local"`
	MediaRoot      string `env:"MEDIA_ROOT" envDefault:"/vol/web/media"`
	MediaURL       string `env:"MEDIA_URL" envDefault:"/media"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`

	// S3 configuration, used when STORAGE_BACKEND=s3
	S3Bucket  string `env:"S3_BUCKET_NAME"`
	AWSRegion string `env:"AWS_REGION"`
}

// Load parses configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that cannot be defaulted sensibly.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageLocal:
	case StorageS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET_NAME is required when STORAGE_BACKEND=s3")
		}
		if c.AWSRegion == "" {
			return fmt.Errorf("AWS_REGION is required when STORAGE_BACKEND=s3")
		}
	default:
		return fmt.Errorf("unknown storage backend: %s", c.StorageBackend)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}
