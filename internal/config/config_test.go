package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Addr())
	assert.Equal(t, "zeta_exams", cfg.DBName)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, time.Minute, cfg.RequestTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, StorageNone, cfg.Storage.Driver)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("STORAGE_DRIVER", "S3")
	t.Setenv("BUCKET_NAME", "zeta-assets")
	t.Setenv("REQUEST_TIMEOUT", "15s")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, StorageS3, cfg.Storage.Driver)
	assert.Equal(t, "zeta-assets", cfg.Storage.Bucket)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestLoadDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DB_NAME=from_file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("DB_NAME") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from_file", cfg.DBName)
}

func TestValidateStorage(t *testing.T) {
	tests := []struct {
		name    string
		storage StorageConfig
		wantErr bool
	}{
		{"none", StorageConfig{Driver: StorageNone}, false},
		{"s3 without bucket", StorageConfig{Driver: StorageS3}, true},
		{"s3", StorageConfig{Driver: StorageS3, Bucket: "b"}, false},
		{"r2 without endpoint", StorageConfig{Driver: StorageR2, Bucket: "b", PublicBaseURL: "https://cdn"}, true},
		{"r2", StorageConfig{Driver: StorageR2, Bucket: "b", R2Endpoint: "https://r2", PublicBaseURL: "https://cdn"}, false},
		{"unknown", StorageConfig{Driver: "ftp"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{TokenTTL: time.Hour, Storage: tt.storage}
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
