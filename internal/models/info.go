// internal/models/info.go
package models

import (
	"encoding/json"
	"strings"
)

// Opinion ratings and manual types as requested from the model.
const (
	RatingPositive = "positive"
	RatingNegative = "negative"
	RatingNeutral  = "neutral"
)

type Opinion struct {
	Text   string `json:"text"`
	Rating string `json:"rating"`
}

type Manual struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

// ExtractedInfo is the structured answer for a product query.
type ExtractedInfo struct {
	BasicInfo    string    `json:"basic_info"`
	DetailedInfo string    `json:"detailed_info"`
	ProductInfo  string    `json:"product_info"`
	Summary      string    `json:"summary"`
	Opinions     []Opinion `json:"opinions"`
	Manuals      []Manual  `json:"manuals"`
}

// Description returns basic, detailed and product info with empty entries dropped,
// followed by the summary when present.
func (e *ExtractedInfo) Description() []string {
	out := make([]string, 0, 4)
	for _, s := range []string{e.BasicInfo, e.DetailedInfo, e.ProductInfo, e.Summary} {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// ExtractedInfoFromMap decodes a loosely typed mapping. Fields of the wrong type are
// left at their zero value instead of failing the whole record.
func ExtractedInfoFromMap(m map[string]interface{}) *ExtractedInfo {
	info := &ExtractedInfo{
		BasicInfo:    stringField(m, "basic_info"),
		DetailedInfo: stringField(m, "detailed_info"),
		ProductInfo:  stringField(m, "product_info"),
		Summary:      stringField(m, "summary"),
		Opinions:     []Opinion{},
		Manuals:      []Manual{},
	}
	decodeField(m, "opinions", &info.Opinions)
	decodeField(m, "manuals", &info.Manuals)

	// drop entries that failed to decode
	opinions := info.Opinions[:0]
	for _, o := range info.Opinions {
		if o.Text != "" {
			opinions = append(opinions, o)
		}
	}
	info.Opinions = opinions

	manuals := info.Manuals[:0]
	for _, man := range info.Manuals {
		if man.Title != "" || man.URL != "" {
			manuals = append(manuals, man)
		}
	}
	info.Manuals = manuals

	return info
}

type Variation struct {
	Name  string `json:"name"`
	Query string `json:"query"`
}

// VariationSet lists narrower searches for a general query. IsSpecific queries
// conventionally carry no variations.
type VariationSet struct {
	Variations []Variation `json:"variations"`
	IsSpecific bool        `json:"is_specific"`
	Category   string      `json:"category"`
}

// DefaultVariationSet treats the query as already specific.
func DefaultVariationSet() *VariationSet {
	return &VariationSet{
		Variations: []Variation{},
		IsSpecific: true,
		Category:   "unknown",
	}
}

func stringField(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, p := range v {
			if s, ok := p.(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	}
	return ""
}

func decodeField(m map[string]interface{}, key string, dst interface{}) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, dst)
}
