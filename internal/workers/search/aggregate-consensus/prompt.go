// internal/workers/search/aggregate-consensus/prompt.go
package aggregateconsensus

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BuildPrompt asks for one neutral summary of infos. titles are expected to be capped already.
func BuildPrompt(infos []map[string]interface{}, query string, suggestions, titles []string) (string, error) {
	infosJSON, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode infos: %w", err)
	}
	titlesJSON, err := json.Marshal(nonNil(titles))
	if err != nil {
		return "", fmt.Errorf("encode titles: %w", err)
	}
	suggestionsJSON, err := json.Marshal(nonNil(suggestions))
	if err != nil {
		return "", fmt.Errorf("encode suggestions: %w", err)
	}
	queryJSON, _ := json.Marshal(query)

	var parts []string

	parts = append(parts, fmt.Sprintf("Given the following product information from %d different sources, generate a single neutral summary with:", len(infos)))
	parts = append(parts, "1. Name/title")
	parts = append(parts, "2. Description (3 parts: short product/brand description, rating/quality, price/value)")
	parts = append(parts, "3. Small info about where the sources were collected from")
	parts = append(parts, fmt.Sprintf("4. Up to %d source links", MaxSources))
	parts = append(parts, fmt.Sprintf("5. 5 suggestions for more specific searches (based on the most common words/models in the %d titles)", MaxTitles))
	parts = append(parts, fmt.Sprintf("6. Here are the page titles (each max %d chars): %s", MaxTitleLength, titlesJSON))

	parts = append(parts, "\nInfos: "+string(infosJSON))
	parts = append(parts, "Query: "+query)
	parts = append(parts, "Suggestions: "+string(suggestionsJSON))

	parts = append(parts, "\nRespond ONLY with a valid JSON object, no code block, no explanation, no markdown, no extra text:")
	parts = append(parts, fmt.Sprintf(`{
    "name": "string",
    "description": ["short description", "rating/quality", "price/value"],
    "source_info": "string",
    "actions": [
        {"type": "view", "label": "View Source 1", "url": "url1"},
        {"type": "chat", "label": "Chaysh Assistant", "query": %s}
    ],
    "suggestions": ["string"]
}`, queryJSON))

	return strings.Join(parts, "\n"), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
