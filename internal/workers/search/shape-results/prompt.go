// internal/workers/search/shape-results/prompt.go
package shaperesults

import (
	"fmt"
	"strings"

	"chaysh/internal/language"
)

const infoSchema = `{
    "basic_info": "A brief overview (max 100 chars)",
    "detailed_info": "What is this item? What information can be found about it? (max 150 chars)",
    "product_info": "If it's a product, include pricing and opinions (max 150 chars)",
    "summary": "A concise explanation of what we know about this item (max 300 chars total)",
    "opinions": [
        {"text": "A user opinion or review (max 100 chars)", "rating": "positive/negative/neutral"}
    ],
    "manuals": [
        {"title": "Manual or tutorial title", "type": "manual/tutorial/guide", "url": "placeholder_url"}
    ]
}`

// BuildPrompt renders the structured information request for query.
func BuildPrompt(query string, prior []string, profile *language.Profile, maxContext int) string {
	var parts []string

	parts = append(parts, profile.Instruction)
	parts = append(parts, fmt.Sprintf("\nAnalyze the following query: \"%s\"", query))

	if ctxLines := tail(prior, maxContext); len(ctxLines) > 0 {
		parts = append(parts, "\nEarlier in this conversation the user searched for:")
		for _, line := range ctxLines {
			parts = append(parts, "- "+line)
		}
	}

	parts = append(parts, "\nPlease provide information in this exact format:")
	parts = append(parts, infoSchema)

	parts = append(parts, "\nRules:")
	parts = append(parts, "1. Keep all responses under the specified character limits")
	parts = append(parts, "2. Focus on factual, verifiable information")
	parts = append(parts, "3. If it's a product, include pricing and user opinions")
	parts = append(parts, "4. Make the summary clear and easy to understand")
	parts = append(parts, "5. Return ONLY valid JSON format")
	parts = append(parts, "6. "+profile.Instruction)

	return strings.Join(parts, "\n")
}

func tail(lines []string, n int) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if s := strings.TrimSpace(l); s != "" {
			out = append(out, s)
		}
	}
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}
