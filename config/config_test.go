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

	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Equal(t, StorageLocal, cfg.StorageBackend)
	assert.Equal(t, 720*time.Hour, cfg.TokenTTL)
	assert.Equal(t, int64(5242880), cfg.MaxUploadBytes)
	assert.Equal(t, "/vol/web/media", cfg.MediaRoot)
	assert.Equal(t, "/media", cfg.MediaURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("TOKEN_TTL", "24h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Addr())
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Contains(t, cfg.DSN(), "host=db.internal")
	assert.Contains(t, cfg.DSN(), "password=secret")
}

func TestLoadUnknownStorageBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "ftp")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadS3RequiresBucketAndRegion(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "s3")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("S3_BUCKET_NAME", "recipe-media")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("AWS_REGION", "us-east-1")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageS3, cfg.StorageBackend)
}

func TestValidateRejectsNonPositiveLimits(t *testing.T) {
	t.Setenv("TOKEN_TTL", "-1h")
	_, err := Load()
	assert.Error(t, err)
}
