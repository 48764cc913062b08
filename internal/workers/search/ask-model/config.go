// internal/workers/search/ask-model/config.go
package askmodel

import (
	"time"

	"chaysh/internal/common/config"
)

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	Referer     string
	Title       string
}

// NewConfig maps the openrouter section onto the client config.
func NewConfig(cfg config.OpenRouterConfig) *Config {
	return &Config{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     config.GetDuration(cfg.Timeout),
		Referer:     cfg.Referer,
		Title:       cfg.Title,
	}
}
