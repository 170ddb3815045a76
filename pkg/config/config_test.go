package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AMARHADIS_JWT_SECRET", "test-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime.Std())
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration.Std())
	assert.Equal(t, 9090, cfg.TCP.Port)
	assert.Equal(t, 9091, cfg.UDP.Port)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("AMARHADIS_JWT_SECRET", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt secret")
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("AMARHADIS_JWT_SECRET", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  host: 127.0.0.1
  port: 9000
database:
  host: db.internal
  conn_max_lifetime: 10m
  timeout: 3s
jwt:
  secret: file-secret
  expiration: 48h
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 10*time.Minute, cfg.Database.ConnMaxLifetime.Std())
	assert.Equal(t, 3*time.Second, cfg.Database.Timeout.Std())
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, 48*time.Hour, cfg.JWT.Expiration.Std())
	// Untouched keys keep their defaults
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("AMARHADIS_JWT_SECRET", "env-secret")
	t.Setenv("AMARHADIS_DB_HOST", "env-db")
	t.Setenv("AMARHADIS_HTTP_PORT", "8888")
	t.Setenv("AMARHADIS_REDIS_ADDR", "redis.internal:6379")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, "env-db", cfg.Database.Host)
	assert.Equal(t, 8888, cfg.Server.Port)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
	// Setting a Redis address implies enabling the cache
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDurationUnmarshal(t *testing.T) {
	var d Duration
	require.NoError(t, yaml.Unmarshal([]byte(`"90s"`), &d))
	assert.Equal(t, 90*time.Second, d.Std())

	require.NoError(t, yaml.Unmarshal([]byte(`"1h30m"`), &d))
	assert.Equal(t, 90*time.Minute, d.Std())

	assert.Error(t, yaml.Unmarshal([]byte(`"five minutes"`), &d))
	assert.Error(t, yaml.Unmarshal([]byte(`"10"`), &d))
}
