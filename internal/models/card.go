// internal/models/card.go
package models

// Action box types.
const (
	BoxTypeInfo        = "info"
	BoxTypeVariations  = "variations"
	BoxTypeOpinions    = "opinions"
	BoxTypeManuals     = "manuals"
	BoxTypePlaceholder = "placeholder"
)

// Action types.
const (
	ActionTypeChat   = "chat"
	ActionTypeSearch = "search"
	ActionTypeView   = "view"
)

// ChatActionLabel is the label of the assistant action attached to every card.
const ChatActionLabel = "Chaysh Assistant"

// ResultCard is the unit returned to the front end for a search.
type ResultCard struct {
	Name        string       `json:"name"`
	Description []string     `json:"description"`
	SourceInfo  string       `json:"source_info"`
	ActionBoxes []ActionBox  `json:"action_boxes"`
	Suggestions []Suggestion `json:"suggestions"`
	Actions     []Action     `json:"actions"`
}

// ActionBox is a tagged box. Only the payload fields matching Type are set:
// Message for info and placeholder, Variations and Actions for variations,
// Opinions for opinions, Manuals for manuals.
type ActionBox struct {
	Type       string      `json:"type"`
	Title      string      `json:"title"`
	Message    string      `json:"message,omitempty"`
	Variations []Variation `json:"variations,omitempty"`
	Actions    []Action    `json:"actions,omitempty"`
	Opinions   []Opinion   `json:"opinions,omitempty"`
	Manuals    []Manual    `json:"manuals,omitempty"`
}

type Suggestion struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// Action is clickable. Query is set for chat and search, URL for view.
type Action struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Query string `json:"query,omitempty"`
	URL   string `json:"url,omitempty"`
}

// ChatAction returns the assistant action for query.
func ChatAction(query string) Action {
	return Action{Type: ActionTypeChat, Label: ChatActionLabel, Query: query}
}

// Source is a (title, url) pair backing an aggregated card.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}
