// internal/workers/search/resolve-variations/handler.go
package resolvevariations

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"chaysh/internal/common/logger"
	"chaysh/internal/models"
	extractjson "chaysh/internal/workers/search/extract-json"
)

const (
	TaskType = "resolve-variations"

	// MaxVariations bounds the picker regardless of what the model returns.
	MaxVariations = 20
)

// Asker is the slice of the model client this handler needs.
type Asker interface {
	Ask(ctx context.Context, prompt, lang string) string
}

type Handler struct {
	asker  Asker
	logger logger.Logger
}

func NewHandler(asker Asker, log logger.Logger) *Handler {
	return &Handler{
		asker: asker,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// Resolve asks whether query is already a specific model and, if not, for narrower
// variations. Any failure yields models.DefaultVariationSet().
func (h *Handler) Resolve(ctx context.Context, query string) (out *models.VariationSet) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("variation resolve panicked", map[string]interface{}{
				"query": query,
				"panic": fmt.Sprint(r),
			})
			out = models.DefaultVariationSet()
		}
	}()

	reply := h.asker.Ask(ctx, BuildPrompt(query), "en")
	if strings.TrimSpace(reply) == "" {
		h.logger.Warn("empty variations reply", map[string]interface{}{"query": query})
		return models.DefaultVariationSet()
	}

	data := extractjson.ExtractFirstJSON(reply)
	if extractjson.IsDegraded(data) {
		h.logger.Warn("variations reply could not be parsed", map[string]interface{}{"query": query})
		return models.DefaultVariationSet()
	}

	set, err := decode(data)
	if err != nil {
		h.logger.Warn("variations reply has unexpected shape", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return models.DefaultVariationSet()
	}

	h.logger.Info("variations resolved", map[string]interface{}{
		"query":      query,
		"isSpecific": set.IsSpecific,
		"category":   set.Category,
		"count":      len(set.Variations),
	})
	return set
}

func decode(data map[string]interface{}) (*models.VariationSet, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var set models.VariationSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, err
	}

	if _, ok := data["is_specific"]; !ok {
		if _, hasList := data["variations"]; !hasList {
			return nil, fmt.Errorf("neither is_specific nor variations present")
		}
	}

	if set.Variations == nil {
		set.Variations = []models.Variation{}
	}
	kept := set.Variations[:0]
	for _, v := range set.Variations {
		if v.Name == "" {
			continue
		}
		if v.Query == "" {
			v.Query = strings.ToLower(v.Name)
		}
		kept = append(kept, v)
	}
	set.Variations = kept
	if len(set.Variations) > MaxVariations {
		set.Variations = set.Variations[:MaxVariations]
	}
	return &set, nil
}
