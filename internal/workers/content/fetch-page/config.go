// internal/workers/content/fetch-page/config.go
package fetchpage

import (
	"time"

	"chaysh/internal/common/config"
)

const defaultUserAgent = "Mozilla/5.0 (compatible; ChayshBot/1.0; +https://chaysh.com)"

type Config struct {
	Timeout   time.Duration
	MaxChars  int
	UserAgent string
	// MaxPages bounds how many urls Collect will fetch.
	MaxPages int
}

func NewConfig(cfg config.FetchConfig) *Config {
	c := &Config{
		Timeout:   config.GetDuration(cfg.Timeout),
		MaxChars:  cfg.MaxChars,
		UserAgent: cfg.UserAgent,
		MaxPages:  10,
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.MaxChars <= 0 {
		c.MaxChars = 12000
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	return c
}
