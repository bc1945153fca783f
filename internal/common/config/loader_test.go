package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
zeebe:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    port: 5432
    database: scholarships
    user: app
`

func TestLoadFromFile(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
		require.NoError(t, err)

		assert.Equal(t, 10, cfg.Zeebe.MaxJobsActive)
		assert.Equal(t, 25, cfg.Database.Postgres.MaxConnections)
		assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
		assert.Equal(t, 300, cfg.Directory.CacheTTLSeconds)
		assert.Equal(t, "workflow-transitions", cfg.Audit.Index)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "json", cfg.Logging.Format)
	})

	t.Run("missing broker address rejected", func(t *testing.T) {
		_, err := LoadFromFile(writeConfig(t, `
database:
  postgres:
    host: localhost
    database: scholarships
    user: app
`))
		assert.ErrorContains(t, err, "zeebe.broker_address")
	})

	t.Run("cache enabled requires redis address", func(t *testing.T) {
		_, err := LoadFromFile(writeConfig(t, minimalConfig+`
directory:
  cache_enabled: true
`))
		assert.ErrorContains(t, err, "database.redis.address")
	})

	t.Run("notifications require region and sender", func(t *testing.T) {
		_, err := LoadFromFile(writeConfig(t, minimalConfig+`
notifications:
  enabled: true
`))
		assert.ErrorContains(t, err, "notifications.aws_region")
	})
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	dsn := PostgresConfig{
		Host: "db", Port: 5432, Database: "scholarships",
		User: "app", Password: "secret", SSLMode: "disable",
	}.GetDSN()

	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=scholarships sslmode=disable", dsn)
}

func TestGetWorkerConfig(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"submit-grade": {Enabled: true, MaxJobsActive: 2, Timeout: 1000},
	}}

	assert.Equal(t, 2, GetWorkerConfig(cfg, "submit-grade").MaxJobsActive)

	fallback := GetWorkerConfig(cfg, "unknown-task")
	assert.True(t, fallback.Enabled)
	assert.Equal(t, 5, fallback.MaxJobsActive)
}
