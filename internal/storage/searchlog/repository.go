// internal/storage/searchlog/repository.go
package searchlog

import (
	"context"
	"database/sql"
	"fmt"

	apperrors "chaysh/internal/common/errors"
	"chaysh/internal/common/logger"
	"chaysh/internal/models"
)

const storeName = "postgres"

// TopQueriesLimit is how many queries Stats ranks.
const TopQueriesLimit = 5

// Repository records searches and interactions in PostgreSQL.
type Repository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewRepository(db *sql.DB, log logger.Logger) *Repository {
	return &Repository{
		db: db,
		logger: log.With(map[string]interface{}{
			"store": "searchlog",
		}),
	}
}

// LogSearch stores one search and returns its id, or -1 when the insert fails.
func (r *Repository) LogSearch(ctx context.Context, query string, resultsCount int, lang string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO search_history (query, language, timestamp, results_count)
		 VALUES ($1, $2, NOW(), $3)
		 RETURNING id`,
		query, lang, resultsCount,
	).Scan(&id)
	if err != nil {
		r.logger.Error("failed to log search", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return -1, apperrors.NewStorageUnavailableError(storeName, err)
	}
	return id, nil
}

// LogInteraction records an action taken on a logged search. An ai_chat
// interaction marks the search as converted; view_result stores the url.
func (r *Repository) LogInteraction(ctx context.Context, in models.Interaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStorageUnavailableError(storeName, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_interactions (search_id, action_type, target_url, timestamp)
		 VALUES ($1, $2, $3, NOW())`,
		in.SearchID, in.ActionType, in.TargetURL,
	); err != nil {
		r.logger.Error("failed to log interaction", map[string]interface{}{
			"searchId":   in.SearchID,
			"actionType": in.ActionType,
			"error":      err.Error(),
		})
		return apperrors.NewStorageUnavailableError(storeName, err)
	}

	switch in.ActionType {
	case models.InteractionAIChat:
		_, err = tx.ExecContext(ctx,
			`UPDATE search_history SET ai_chat_initiated = TRUE WHERE id = $1`,
			in.SearchID)
	case models.InteractionViewResult:
		_, err = tx.ExecContext(ctx,
			`UPDATE search_history SET selected_result_url = $2 WHERE id = $1`,
			in.SearchID, in.TargetURL)
	}
	if err != nil {
		return apperrors.NewStorageUnavailableError(storeName, err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStorageUnavailableError(storeName, err)
	}
	return nil
}

// Stats returns totals, the most frequent queries and the share of searches
// that led to an assistant chat, as a percentage.
func (r *Repository) Stats(ctx context.Context) (*models.Stats, error) {
	stats := &models.Stats{TopQueries: []models.QueryCount{}}

	var aiChats int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN ai_chat_initiated THEN 1 ELSE 0 END), 0)
		 FROM search_history`,
	).Scan(&stats.TotalSearches, &aiChats); err != nil {
		r.logger.Error("failed to count searches", map[string]interface{}{"error": err.Error()})
		return &models.Stats{TopQueries: []models.QueryCount{}}, apperrors.NewStorageUnavailableError(storeName, err)
	}
	if stats.TotalSearches > 0 {
		stats.AIConversionRate = float64(aiChats) / float64(stats.TotalSearches) * 100
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT query, COUNT(*) AS count
		 FROM search_history
		 GROUP BY query
		 ORDER BY count DESC, query ASC
		 LIMIT $1`,
		TopQueriesLimit,
	)
	if err != nil {
		return stats, apperrors.NewStorageUnavailableError(storeName, err)
	}
	defer rows.Close()

	for rows.Next() {
		var qc models.QueryCount
		if err := rows.Scan(&qc.Query, &qc.Count); err != nil {
			return stats, apperrors.NewStorageUnavailableError(storeName, fmt.Errorf("scan top query: %w", err))
		}
		stats.TopQueries = append(stats.TopQueries, qc)
	}
	if err := rows.Err(); err != nil {
		return stats, apperrors.NewStorageUnavailableError(storeName, err)
	}
	return stats, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
