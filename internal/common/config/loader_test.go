// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalConfig = `
database:
  postgres:
    host: db
    database: chaysh
    user: chaysh
  redis:
    address: redis:6379
`

// ==========================
// LoadFromFile
// ==========================

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "chaysh", cfg.App.Name)
	assert.Equal(t, ":8000", cfg.Server.Address)
	assert.Equal(t, "en", cfg.Server.DefaultLanguage)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.OpenRouter.BaseURL)
	assert.Equal(t, 0.7, cfg.OpenRouter.Temperature)
	assert.Equal(t, 500, cfg.OpenRouter.MaxTokens)
	assert.Equal(t, 30*time.Second, GetDuration(cfg.OpenRouter.Timeout))
	assert.Equal(t, 10*time.Second, GetDuration(cfg.Fetch.Timeout))
	assert.Equal(t, 5, cfg.Search.MaxContextLines)
	assert.False(t, cfg.Search.SequentialVariations)
	assert.Equal(t, 100, cfg.Storage.HistoryLimit)
	assert.Equal(t, 50, cfg.Storage.FavoritesLimit)
	assert.Equal(t, 10, cfg.Storage.RecentSearchesLimit)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "chaysh-searches", cfg.Database.Elasticsearch.Index)
	assert.False(t, cfg.Database.Elasticsearch.Enabled)
}

func TestLoadFromFile_EnvironmentOverrides(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("LOGGING_LEVEL", "debug")

	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.OpenRouter.APIKey)
	assert.True(t, cfg.OpenRouter.HasCredential())
	assert.Equal(t, "secret", cfg.Database.Postgres.Password)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromFile_ExpandsVariables(t *testing.T) {
	t.Setenv("CHAYSH_TEST_REDIS", "cache:6380")

	cfg, err := LoadFromFile(writeConfig(t, `
database:
  postgres:
    host: db
    database: chaysh
    user: chaysh
  redis:
    address: ${CHAYSH_TEST_REDIS}
`))
	require.NoError(t, err)

	assert.Equal(t, "cache:6380", cfg.Database.Redis.Address)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing postgres host",
			body:    "database:\n  postgres:\n    database: x\n    user: x\n  redis:\n    address: r:1\n",
			wantErr: "database.postgres.host is required",
		},
		{
			name:    "elasticsearch enabled without addresses",
			body:    minimalConfig + "  elasticsearch:\n    enabled: true\n",
			wantErr: "database.elasticsearch.addresses is required when enabled",
		},
		{
			name:    "unsupported default language",
			body:    minimalConfig + "server:\n  default_language: de\n",
			wantErr: "server.default_language must be en or pl",
		},
		{
			name:    "temperature out of range",
			body:    minimalConfig + "openrouter:\n  temperature: 3\n",
			wantErr: "openrouter.temperature out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "chaysh", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=chaysh sslmode=disable", p.GetDSN())
}
