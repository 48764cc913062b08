// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration, built once in main and handed to constructors.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Search     SearchConfig     `mapstructure:"search"`
	Fetch      FetchConfig      `mapstructure:"fetch"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string   `mapstructure:"address"`
	CORSOrigins     []string `mapstructure:"cors_origins"`
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
	DefaultLanguage string   `mapstructure:"default_language"`
}

// OpenRouterConfig describes the remote chat-completion API.
type OpenRouterConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
	Referer     string  `mapstructure:"referer"`
	Title       string  `mapstructure:"title"`
}

// HasCredential reports whether an API key is configured.
func (o OpenRouterConfig) HasCredential() bool {
	return o.APIKey != ""
}

// SearchConfig tunes the result shaper.
type SearchConfig struct {
	SequentialVariations bool `mapstructure:"sequential_variations"`
	MaxContextLines      int  `mapstructure:"max_context_lines"`
}

type FetchConfig struct {
	Timeout   int    `mapstructure:"timeout"` // milliseconds
	MaxChars  int    `mapstructure:"max_chars"`
	UserAgent string `mapstructure:"user_agent"`
}

type StorageConfig struct {
	HistoryLimit        int    `mapstructure:"history_limit"`
	FavoritesLimit      int    `mapstructure:"favorites_limit"`
	RecentSearchesLimit int    `mapstructure:"recent_searches_limit"`
	KeyPrefix           string `mapstructure:"key_prefix"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN builds a lib/pq connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// ElasticsearchConfig is optional; the search index is skipped when Enabled is false.
type ElasticsearchConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// GetDuration converts a millisecond setting into a time.Duration.
func GetDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
