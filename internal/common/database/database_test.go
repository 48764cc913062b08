// internal/common/database/database_test.go
package database

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chaysh/internal/common/config"
)

func TestPostgresClient_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS search_history")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS user_interactions")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX IF NOT EXISTS idx_search_history_query")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX IF NOT EXISTS idx_user_interactions_search_id")).WillReturnResult(sqlmock.NewResult(0, 0))

	client := &PostgresClient{DB: db}
	require.NoError(t, client.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClient_EnsureSchema_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE").WillReturnError(assert.AnError)

	err = (&PostgresClient{DB: db}).EnsureSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema statement 1 failed")
}

func TestRedisClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()))

	mr.Close()
	assert.Error(t, client.Ping(context.Background()))
}

func TestNewRedis_RequiresAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}

func TestElasticsearchClient_EnsureIndex(t *testing.T) {
	tests := []struct {
		name       string
		existsCode int
		createCode int
		createBody string
		wantCreate bool
		wantErr    bool
	}{
		{name: "already exists", existsCode: http.StatusOK, wantCreate: false},
		{name: "created", existsCode: http.StatusNotFound, createCode: http.StatusOK, createBody: `{"acknowledged":true}`, wantCreate: true},
		{name: "lost the race", existsCode: http.StatusNotFound, createCode: http.StatusBadRequest, createBody: `{"error":{"type":"resource_already_exists_exception"}}`, wantCreate: true},
		{name: "create fails", existsCode: http.StatusNotFound, createCode: http.StatusInternalServerError, createBody: `{"error":"boom"}`, wantCreate: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created := false
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Elastic-Product", "Elasticsearch")
				w.Header().Set("Content-Type", "application/json")
				switch r.Method {
				case http.MethodHead:
					w.WriteHeader(tt.existsCode)
				case http.MethodPut:
					created = true
					w.WriteHeader(tt.createCode)
					_, _ = w.Write([]byte(tt.createBody))
				default:
					w.WriteHeader(http.StatusOK)
					_, _ = w.Write([]byte(`{}`))
				}
			}))
			defer server.Close()

			client, err := NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{server.URL}})
			require.NoError(t, err)

			err = client.EnsureIndex(context.Background(), "chaysh-searches", `{"mappings":{}}`)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCreate, created)
		})
	}
}
