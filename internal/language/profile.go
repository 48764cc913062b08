// internal/language/profile.go
package language

import (
	"fmt"
	"strings"

	"chaysh/internal/models"
)

const (
	English = "en"
	Polish  = "pl"
)

// Suggestion categories, in the order they appear on a card.
const (
	CategoryHelp        = "help"
	CategoryManual      = "manual"
	CategoryModelSearch = "model_search"
	CategoryOpinions    = "opinions"
)

type BoxTitles struct {
	CurrentModel string
	SelectModel  string
	Opinions     string
	Manuals      string
}

type SuggestionTemplate struct {
	Template string // a single %s receives the query
	Category string
}

// Messages are the localized strings the result shaper and chat assistant need.
type Messages struct {
	SpecificModel    string
	NoOpinions       string
	NoManuals        string
	AISourceInfo     string
	ProcessingFailed string
	GenericFailure   string
	ErrorSourceInfo  string
	ChatSystemPrompt string
}

// Profile is immutable once built.
type Profile struct {
	Code        string
	Instruction string
	Boxes       BoxTitles
	Suggestions []SuggestionTemplate
	Messages    Messages
}

var profiles = map[string]*Profile{
	English: {
		Code:        English,
		Instruction: "Answer in English.",
		Boxes: BoxTitles{
			CurrentModel: "Current Model",
			SelectModel:  "Select Model",
			Opinions:     "User Opinions",
			Manuals:      "Manuals & Tutorials",
		},
		Suggestions: []SuggestionTemplate{
			{Template: "Having trouble with '%s'? Some help would be needed.", Category: CategoryHelp},
			{Template: "Wondering what exactly '%s' is?", Category: CategoryManual},
			{Template: "Not sure what is exact name of '%s'?", Category: CategoryModelSearch},
			{Template: "Let's see what others think about '%s'.", Category: CategoryOpinions},
		},
		Messages: Messages{
			SpecificModel:    "You are viewing a specific model",
			NoOpinions:       "No opinions available yet",
			NoManuals:        "No manuals available yet",
			AISourceInfo:     "AI-generated information based on available data",
			ProcessingFailed: "Unable to process the search request. Please try again.",
			GenericFailure:   "An error occurred while processing your search.",
			ErrorSourceInfo:  "Error processing request",
			ChatSystemPrompt: "Answer only in English. Ignore other languages.",
		},
	},
	Polish: {
		Code:        Polish,
		Instruction: "Odpowiadaj wyłącznie po polsku.",
		Boxes: BoxTitles{
			CurrentModel: "Aktualny Model",
			SelectModel:  "Wybierz Model",
			Opinions:     "Opinie Użytkowników",
			Manuals:      "Instrukcje i Poradniki",
		},
		Suggestions: []SuggestionTemplate{
			{Template: "Masz problem z '%s'? Potrzebna pomoc.", Category: CategoryHelp},
			{Template: "Zastanawiasz się czym dokładnie jest '%s'?", Category: CategoryManual},
			{Template: "Nie jesteś pewien dokładnej nazwy '%s'?", Category: CategoryModelSearch},
			{Template: "Zobaczmy co inni myślą o '%s'.", Category: CategoryOpinions},
		},
		Messages: Messages{
			SpecificModel:    "Przeglądasz konkretny model",
			NoOpinions:       "Brak dostępnych opinii",
			NoManuals:        "Brak dostępnych instrukcji",
			AISourceInfo:     "Informacje wygenerowane przez AI na podstawie dostępnych danych",
			ProcessingFailed: "Nie można przetworzyć zapytania. Spróbuj ponownie.",
			GenericFailure:   "Wystąpił błąd podczas przetwarzania wyszukiwania.",
			ErrorSourceInfo:  "Błąd przetwarzania zapytania",
			ChatSystemPrompt: "Odpowiadaj wyłącznie po polsku. Ignoruj inne języki.",
		},
	},
}

// Lookup returns the profile for code, falling back to English.
func Lookup(code string) *Profile {
	if p, ok := profiles[Normalize(code)]; ok {
		return p
	}
	return profiles[English]
}

// Normalize lowercases code and maps anything unsupported to English.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if _, ok := profiles[code]; ok {
		return code
	}
	return English
}

// Supported reports whether code names a profile without falling back.
func Supported(code string) bool {
	_, ok := profiles[strings.ToLower(strings.TrimSpace(code))]
	return ok
}

// SuggestionsFor renders the four static suggestions for query.
func (p *Profile) SuggestionsFor(query string) []models.Suggestion {
	out := make([]models.Suggestion, 0, len(p.Suggestions))
	for _, s := range p.Suggestions {
		out = append(out, models.Suggestion{
			Text:     fmt.Sprintf(s.Template, query),
			Category: s.Category,
		})
	}
	return out
}
