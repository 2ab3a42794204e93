// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the service.
type Config struct {
	Port   string
	AppEnv string

	// Object storage (S3-compatible: MinIO locally or any hosted provider)
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageRegion    string // empty means the client discovers bucket locations
	StorageUseSSL    bool
	StorageTimeout   time.Duration // dial/response-header timeout of the storage client

	LocalStorageDir string // fallback root when the object store is unreachable
	UploadTempDir   string

	MaxUploadBytes    int64
	AllowedExtensions []string

	CORSOrigins []string
}

// Load reads configuration from a .env file (if present) and environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading from environment")
	}

	return &Config{
		Port:   getEnv("PORT", "5001"),
		AppEnv: getEnv("APP_ENV", "development"),

		StorageEndpoint:  getEnv("STORAGE_ENDPOINT", "localhost:9000"),
		StorageAccessKey: getEnv("STORAGE_ACCESS_KEY", "admin"),
		StorageSecretKey: getEnv("STORAGE_SECRET_KEY", "password123"),
		StorageBucket:    getEnv("STORAGE_BUCKET", "communal-collage"),
		StorageRegion:    getEnv("STORAGE_REGION", ""),
		StorageUseSSL:    getEnv("STORAGE_USE_SSL", "false") == "true",
		StorageTimeout:   getEnvDuration("STORAGE_TIMEOUT", 5*time.Second),

		LocalStorageDir: getEnv("LOCAL_STORAGE_DIR", "local_storage"),
		UploadTempDir:   getEnv("UPLOAD_TEMP_DIR", "temp_uploads"),

		MaxUploadBytes:    getEnvInt64("MAX_UPLOAD_MB", 10) * 1024 * 1024,
		AllowedExtensions: getEnvList("ALLOWED_EXTENSIONS", []string{"jpg", "jpeg", "png", "gif", "bmp"}),

		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://127.0.0.1:5001", "http://localhost:5001"}),
	}
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		log.Printf("config: invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Printf("config: invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

// getEnvList splits a comma-separated variable, dropping blanks.
func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
