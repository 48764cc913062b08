// internal/storage/searchindex/index.go
package searchindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	apperrors "chaysh/internal/common/errors"
	"chaysh/internal/common/logger"
	"chaysh/internal/models"
)

const storeName = "elasticsearch"

// Mapping keeps the query verbatim for aggregation and lowercased for prefix lookups.
const Mapping = `{
  "mappings": {
    "properties": {
      "query":         {"type": "keyword"},
      "query_lower":   {"type": "keyword"},
      "language":      {"type": "keyword"},
      "results_count": {"type": "integer"},
      "timestamp":     {"type": "date"}
    }
  }
}`

// MaxSuggestions bounds Suggest regardless of the requested limit.
const MaxSuggestions = 20

// Index records searches in Elasticsearch and answers prefix lookups over them.
type Index struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewIndex(client *elasticsearch.Client, index string, log logger.Logger) *Index {
	return &Index{
		client: client,
		index:  index,
		logger: log.With(map[string]interface{}{
			"store": "searchindex",
			"index": index,
		}),
	}
}

type document struct {
	Query        string `json:"query"`
	QueryLower   string `json:"query_lower"`
	Language     string `json:"language"`
	ResultsCount int    `json:"results_count"`
	Timestamp    string `json:"timestamp"`
}

// IndexSearch stores record. The document id is the record id when set.
func (i *Index) IndexSearch(ctx context.Context, record models.SearchRecord) error {
	body, err := json.Marshal(document{
		Query:        record.Query,
		QueryLower:   strings.ToLower(strings.TrimSpace(record.Query)),
		Language:     record.Language,
		ResultsCount: record.ResultsCount,
		Timestamp:    record.Timestamp.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("encode search document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: record.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, i.client)
	if err != nil {
		return apperrors.NewStorageUnavailableError(storeName, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		i.logger.Error("failed to index search", map[string]interface{}{
			"status": res.StatusCode,
		})
		return apperrors.NewStorageUnavailableError(storeName, fmt.Errorf("index error: %s", res.Status()))
	}
	return nil
}

// Suggest returns the most frequent previous queries starting with prefix.
func (i *Index) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return []string{}, nil
	}
	if limit <= 0 || limit > MaxSuggestions {
		limit = MaxSuggestions
	}

	query := map[string]interface{}{
		"size": 0,
		"query": map[string]interface{}{
			"prefix": map[string]interface{}{
				"query_lower": map[string]interface{}{"value": prefix},
			},
		},
		"aggs": map[string]interface{}{
			"queries": map[string]interface{}{
				"terms": map[string]interface{}{
					"field": "query",
					"size":  limit,
				},
			},
		},
	}
	body, _ := json.Marshal(query)

	req := esapi.SearchRequest{
		Index: []string{i.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, i.client)
	if err != nil {
		return nil, apperrors.NewStorageUnavailableError(storeName, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, apperrors.NewStorageUnavailableError(storeName, fmt.Errorf("search error: %s", res.Status()))
	}

	var parsed struct {
		Aggregations struct {
			Queries struct {
				Buckets []struct {
					Key string `json:"key"`
				} `json:"buckets"`
			} `json:"queries"`
		} `json:"aggregations"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewStorageUnavailableError(storeName, fmt.Errorf("decode search response: %w", err))
	}

	out := make([]string, 0, len(parsed.Aggregations.Queries.Buckets))
	for _, b := range parsed.Aggregations.Queries.Buckets {
		out = append(out, b.Key)
	}
	return out, nil
}
