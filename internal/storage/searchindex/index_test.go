// internal/storage/searchindex/index_test.go
package searchindex

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "chaysh/internal/common/errors"
	"chaysh/internal/common/logger"
	"chaysh/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

func createTestIndex(t *testing.T, status int, response string) (*Index, *[]recordedRequest) {
	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &rec.Body)
		}
		requests = append(requests, rec)

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)

	return NewIndex(client, "chaysh-searches", logger.NewTestLogger(t)), &requests
}

// ==========================
// IndexSearch
// ==========================

func TestIndex_IndexSearch(t *testing.T) {
	index, requests := createTestIndex(t, http.StatusCreated, `{"result":"created"}`)

	err := index.IndexSearch(context.Background(), models.SearchRecord{
		ID:           "abc-123",
		Query:        "  iPhone 15 ",
		Language:     "en",
		ResultsCount: 1,
		Timestamp:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/chaysh-searches/_doc/abc-123", req.Path)
	assert.Equal(t, "iphone 15", req.Body["query_lower"])
	assert.Equal(t, "2024-05-01T12:00:00Z", req.Body["timestamp"])
}

func TestIndex_IndexSearch_Error(t *testing.T) {
	index, _ := createTestIndex(t, http.StatusBadRequest, `{"error":"mapper_parsing_exception"}`)

	err := index.IndexSearch(context.Background(), models.SearchRecord{ID: "x", Query: "q"})

	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}

// ==========================
// Suggest
// ==========================

func TestIndex_Suggest(t *testing.T) {
	index, requests := createTestIndex(t, http.StatusOK, `{
		"hits": {"total": {"value": 4}, "hits": []},
		"aggregations": {"queries": {"buckets": [
			{"key": "iphone 15", "doc_count": 3},
			{"key": "iphone 14", "doc_count": 1}
		]}}
	}`)

	got, err := index.Suggest(context.Background(), " IPh ", 5)

	require.NoError(t, err)
	assert.Equal(t, []string{"iphone 15", "iphone 14"}, got)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.True(t, strings.HasSuffix(req.Path, "/chaysh-searches/_search"))
	prefix := req.Body["query"].(map[string]interface{})["prefix"].(map[string]interface{})["query_lower"].(map[string]interface{})
	assert.Equal(t, "iph", prefix["value"])
	terms := req.Body["aggs"].(map[string]interface{})["queries"].(map[string]interface{})["terms"].(map[string]interface{})
	assert.Equal(t, float64(5), terms["size"])
}

func TestIndex_Suggest_EmptyPrefixSkipsRequest(t *testing.T) {
	index, requests := createTestIndex(t, http.StatusOK, `{}`)

	got, err := index.Suggest(context.Background(), "   ", 5)

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, *requests)
}

func TestIndex_Suggest_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		response string
	}{
		{name: "missing index", status: http.StatusNotFound, response: `{"error":{"type":"index_not_found_exception"}}`},
		{name: "garbage body", status: http.StatusOK, response: `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, _ := createTestIndex(t, tt.status, tt.response)

			_, err := index.Suggest(context.Background(), "iph", 5)

			assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
		})
	}
}
