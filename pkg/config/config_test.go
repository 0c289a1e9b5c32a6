package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Set test environment variables
	os.Setenv("SERVER_PORT", "8080")
	os.Setenv("DB_HOST", "localhost")
	os.Setenv("DB_PORT", "5432")
	os.Setenv("DB_USER", "testuser")
	os.Setenv("DB_PASSWORD", "testpass")
	os.Setenv("DB_NAME", "testdb")
	os.Setenv("REDIS_HOST", "localhost")
	os.Setenv("REDIS_PORT", "6379")
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("IMAGE_STORE_URL", "http://localhost:9000/upload/image")
	os.Setenv("UPLOAD_CONCURRENCY", "8")

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Assertions
	assert.NotNil(t, cfg)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "testuser", cfg.DBUser)
	assert.Equal(t, "testpass", cfg.DBPassword)
	assert.Equal(t, "testdb", cfg.DBName)
	assert.Equal(t, "localhost", cfg.RedisHost)
	assert.Equal(t, "6379", cfg.RedisPort)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "http://localhost:9000/upload/image", cfg.ImageStoreURL)
	assert.Equal(t, 8, cfg.UploadConcurrency)

	// Cleanup
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("DB_HOST")
	os.Unsetenv("DB_PORT")
	os.Unsetenv("DB_USER")
	os.Unsetenv("DB_PASSWORD")
	os.Unsetenv("DB_NAME")
	os.Unsetenv("REDIS_HOST")
	os.Unsetenv("REDIS_PORT")
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("IMAGE_STORE_URL")
	os.Unsetenv("UPLOAD_CONCURRENCY")
}

func TestLoadConfig_Defaults(t *testing.T) {
	// Clear environment variables
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("IMAGE_STORE_BACKEND")
	os.Unsetenv("IMAGE_STORE_URL")
	os.Unsetenv("UPLOAD_CONCURRENCY")

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Assertions - check that defaults are used
	assert.NotNil(t, cfg)
	assert.Equal(t, "http", cfg.ImageStoreBackend)
	assert.Equal(t, "http://localhost:8070/upload/image", cfg.ImageStoreURL)
	assert.Equal(t, 4, cfg.UploadConcurrency)
}

func TestLoadConfig_InvalidConcurrency(t *testing.T) {
	os.Setenv("UPLOAD_CONCURRENCY", "not-a-number")
	defer os.Unsetenv("UPLOAD_CONCURRENCY")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Falls back to the default when the value is unparsable
	assert.Equal(t, 4, cfg.UploadConcurrency)
}
