// internal/models/records.go
package models

import "time"

// Interaction types recorded against a logged search.
const (
	InteractionAIChat       = "ai_chat"
	InteractionViewResult   = "view_result"
	InteractionSearchRefine = "search_refine"
)

type SearchRecord struct {
	ID           string    `json:"id"`
	Query        string    `json:"query"`
	Language     string    `json:"language"`
	ResultsCount int       `json:"results_count"`
	Timestamp    time.Time `json:"timestamp"`
}

type ChatRecord struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Language  string    `json:"language"`
	Timestamp time.Time `json:"timestamp"`
}

type Interaction struct {
	SearchID   int64  `json:"search_id"`
	ActionType string `json:"action_type"`
	TargetURL  string `json:"target_url"`
}

type Preferences struct {
	Theme           string   `json:"theme"`
	Language        string   `json:"language"`
	RecentSearches  []string `json:"recent_searches"`
	FavoriteResults []string `json:"favorite_results"`
}

// DefaultPreferences is what a fresh user sees.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Theme:           "light",
		Language:        "en",
		RecentSearches:  []string{},
		FavoriteResults: []string{},
	}
}

type Favorite struct {
	ID        string      `json:"id"`
	Result    *ResultCard `json:"result"`
	Timestamp time.Time   `json:"timestamp"`
}

type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

type Stats struct {
	TotalSearches    int64        `json:"total_searches"`
	TopQueries       []QueryCount `json:"top_queries"`
	AIConversionRate float64      `json:"ai_conversion_rate"`
}

// ChatResponse is the assistant reply returned to the chat endpoints.
type ChatResponse struct {
	Response string   `json:"response"`
	Steps    []string `json:"steps,omitempty"`
	Error    string   `json:"error,omitempty"`
}
