// internal/workers/search/resolve-variations/prompt.go
package resolvevariations

import (
	"fmt"
	"strings"
)

// BuildPrompt asks the model to classify query and enumerate variations.
func BuildPrompt(query string) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("You are a product expert. For the query: %s", query))
	parts = append(parts, "\nTask: Generate a list of specific models, variations, or options that would help narrow down the search.")

	parts = append(parts, "\nRules:")
	parts = append(parts, "1. For general terms (like \"iphone\"), list specific models")
	parts = append(parts, "2. For specific models (like \"iphone 15 pro max\"), return empty list")
	parts = append(parts, "3. For products with few options (like \"knockout midi controller\"), list available versions")
	parts = append(parts, fmt.Sprintf("4. For products with many options, list the most relevant ones (max %d)", MaxVariations))
	parts = append(parts, "5. Each variation should be specific enough to create a new detailed search")

	parts = append(parts, "\nExamples:")
	parts = append(parts, "- For \"iphone\": list specific iPhone models")
	parts = append(parts, "- For \"knockout midi controller\": list available versions (1, 2, extra)")
	parts = append(parts, "- For \"guitar\": list popular types (acoustic, electric, bass)")
	parts = append(parts, "- For \"camera\": list popular brands and models")
	parts = append(parts, "- For \"laptop\": list popular brands and series")

	parts = append(parts, "\nRespond in JSON format:")
	parts = append(parts, `{
    "variations": [
        {"name": "Specific model/version name", "query": "Search query to use for this specific model"}
    ],
    "is_specific": boolean,
    "category": "string (e.g., 'smartphone', 'midi_controller', 'camera')"
}`)

	parts = append(parts, "\nExample for \"iphone\":")
	parts = append(parts, `{"variations": [{"name": "iPhone 15 Pro Max", "query": "iphone 15 pro max"}, {"name": "iPhone 15 Pro", "query": "iphone 15 pro"}, {"name": "iPhone 15 Plus", "query": "iphone 15 plus"}, {"name": "iPhone 15", "query": "iphone 15"}], "is_specific": false, "category": "smartphone"}`)
	parts = append(parts, "\nExample for \"knockout midi controller\":")
	parts = append(parts, `{"variations": [{"name": "Knockout 2", "query": "knockout 2 midi controller"}, {"name": "Knockout 1", "query": "knockout 1 midi controller"}, {"name": "Knockout Extra", "query": "knockout extra midi controller"}], "is_specific": false, "category": "midi_controller"}`)
	parts = append(parts, "\nExample for \"iphone 15 pro max\":")
	parts = append(parts, `{"variations": [], "is_specific": true, "category": "smartphone"}`)

	return strings.Join(parts, "\n")
}
