package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LISTEN_ADDR", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "cabpool.db", cfg.DSN())
	assert.Equal(t, "/static/uploads", cfg.UploadURLPath)
	assert.Equal(t, int64(10<<20), cfg.UploadMaxBytes)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", " 9090 ")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/cab")
	t.Setenv("UPLOAD_URL_PATH", "media/")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("SITE_BASE_URL", "https://cabpool.example/")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "postgres://u:p@localhost:5432/cab", cfg.DSN())
	assert.Equal(t, "/media", cfg.UploadURLPath)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, "https://cabpool.example", cfg.SiteBaseURL)
}

func TestFromEnvRejectsBadDuration(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")

	_, err := FromEnv()
	assert.Error(t, err)
}
