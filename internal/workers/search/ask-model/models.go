// internal/workers/search/ask-model/models.go
package askmodel

// Options override the configured sampling settings for one call. Zero values keep
// the configured defaults.
type Options struct {
	Temperature float64
	MaxTokens   int
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}
