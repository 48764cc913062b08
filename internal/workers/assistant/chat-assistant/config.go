// internal/workers/assistant/chat-assistant/config.go
package chatassistant

import "time"

type Config struct {
	Timeout time.Duration
	// MaxAssistantMessage bounds messages accepted by Assist.
	MaxAssistantMessage int
	MaxContextLines     int
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:             30 * time.Second,
		MaxAssistantMessage: 100,
		MaxContextLines:     10,
	}
}
