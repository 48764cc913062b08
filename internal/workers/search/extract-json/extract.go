// internal/workers/search/extract-json/extract.go
package extractjson

import (
	"encoding/json"
	"regexp"
)

// flatObject matches brace-delimited text with no inner braces. Nested objects are
// therefore never recovered by the scan, only by the whole-text parse.
var flatObject = regexp.MustCompile(`\{[^{}]*\}`)

const (
	DegradedName        = "Unknown"
	DegradedDescription = "No valid description found in the response."
	DegradedSourceInfo  = "AI response parsing failed"
)

// ExtractFirstJSON returns the first JSON object found in text. It never returns nil:
// when nothing parses the degraded mapping is returned.
func ExtractFirstJSON(text string) map[string]interface{} {
	if m, ok := parseObject(text); ok {
		return m
	}

	for _, match := range flatObject.FindAllString(text, -1) {
		if m, ok := parseObject(match); ok {
			return m
		}
	}

	return Degraded()
}

// Degraded builds a fresh copy of the fallback mapping.
func Degraded() map[string]interface{} {
	return map[string]interface{}{
		"name":        DegradedName,
		"description": []interface{}{DegradedDescription},
		"source_info": DegradedSourceInfo,
		"suggestions": []interface{}{},
		"actions":     []interface{}{},
	}
}

// IsDegraded reports whether m is the fallback mapping (or empty), i.e. carries no
// usable model output.
func IsDegraded(m map[string]interface{}) bool {
	if len(m) == 0 {
		return true
	}
	name, _ := m["name"].(string)
	src, _ := m["source_info"].(string)
	return name == DegradedName && src == DegradedSourceInfo
}

func parseObject(s string) (map[string]interface{}, bool) {
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(s), &m); err != nil || m == nil {
		return nil, false
	}
	return m, true
}
