// internal/workers/search/shape-results/config.go
package shaperesults

import "chaysh/internal/common/config"

type Config struct {
	// ParallelVariations issues the info and variations calls concurrently.
	ParallelVariations bool
	// MaxContextLines bounds how many previous messages are embedded in the prompt.
	MaxContextLines int
}

func DefaultConfig() *Config {
	return &Config{
		ParallelVariations: true,
		MaxContextLines:    5,
	}
}

func NewConfig(cfg config.SearchConfig) *Config {
	c := DefaultConfig()
	c.ParallelVariations = !cfg.SequentialVariations
	if cfg.MaxContextLines > 0 {
		c.MaxContextLines = cfg.MaxContextLines
	}
	return c
}
