// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"chaysh/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres creates a new PostgreSQL client
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// schemaStatements create the search log tables. They are idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS search_history (
		id BIGSERIAL PRIMARY KEY,
		query TEXT NOT NULL,
		language VARCHAR(8) NOT NULL DEFAULT 'en',
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		results_count INTEGER NOT NULL DEFAULT 0,
		selected_result_url TEXT,
		ai_chat_initiated BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS user_interactions (
		id BIGSERIAL PRIMARY KEY,
		search_id BIGINT REFERENCES search_history (id) ON DELETE CASCADE,
		action_type TEXT NOT NULL,
		target_url TEXT,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_search_history_query ON search_history (query)`,
	`CREATE INDEX IF NOT EXISTS idx_user_interactions_search_id ON user_interactions (search_id)`,
}

// EnsureSchema creates the tables the search log needs.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	for i, stmt := range schemaStatements {
		if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d failed: %w", i+1, err)
		}
	}
	return nil
}
