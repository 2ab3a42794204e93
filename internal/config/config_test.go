package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "APP_ENV", "STORAGE_BUCKET", "STORAGE_USE_SSL", "STORAGE_TIMEOUT",
		"MAX_UPLOAD_MB", "ALLOWED_EXTENSIONS", "CORS_ORIGINS", "LOCAL_STORAGE_DIR",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "5001", cfg.Port)
	assert.Equal(t, "communal-collage", cfg.StorageBucket)
	assert.False(t, cfg.StorageUseSSL)
	assert.Equal(t, 5*time.Second, cfg.StorageTimeout)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, []string{"jpg", "jpeg", "png", "gif", "bmp"}, cfg.AllowedExtensions)
	assert.Equal(t, "local_storage", cfg.LocalStorageDir)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_USE_SSL", "true")
	t.Setenv("STORAGE_TIMEOUT", "750ms")
	t.Setenv("MAX_UPLOAD_MB", "2")
	t.Setenv("ALLOWED_EXTENSIONS", " png , webp ,,")
	t.Setenv("CORS_ORIGINS", "https://collage.example.com")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.StorageUseSSL)
	assert.Equal(t, 750*time.Millisecond, cfg.StorageTimeout)
	assert.Equal(t, int64(2*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, []string{"png", "webp"}, cfg.AllowedExtensions)
	assert.Equal(t, []string{"https://collage.example.com"}, cfg.CORSOrigins)
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("MAX_UPLOAD_MB", "lots")
	t.Setenv("STORAGE_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, 5*time.Second, cfg.StorageTimeout)
}
