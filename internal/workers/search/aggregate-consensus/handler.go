// internal/workers/search/aggregate-consensus/handler.go
package aggregateconsensus

import (
	"context"
	"fmt"
	"strings"

	apperrors "chaysh/internal/common/errors"
	"chaysh/internal/common/logger"
	"chaysh/internal/language"
	"chaysh/internal/models"
	askmodel "chaysh/internal/workers/search/ask-model"
	extractjson "chaysh/internal/workers/search/extract-json"
)

const (
	TaskType = "aggregate-consensus"

	// NoDataDescription stands in when no source carried a description.
	NoDataDescription = "No detailed info found."

	// SuggestionCategory tags suggestions produced by the merge.
	SuggestionCategory = "search"

	MaxSources     = 3
	MaxTitles      = 30
	MaxTitleLength = 50
)

type Sender interface {
	Send(ctx context.Context, systemPrompt, userPrompt string, opts askmodel.Options) (string, error)
}

type Handler struct {
	sender Sender
	logger logger.Logger
}

func NewHandler(sender Sender, log logger.Logger) *Handler {
	return &Handler{
		sender: sender,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// Aggregate merges per-source info mappings into one card. With fewer than two
// non-empty infos no remote call is made. It returns nil only when the remote call
// fails after the merge branch is entered.
func (h *Handler) Aggregate(ctx context.Context, infos []map[string]interface{}, query string,
	topSources []models.Source, suggestions []string, allTitles []string) *models.ResultCard {

	present := nonEmpty(infos)
	sources := topSources
	if len(sources) > MaxSources {
		sources = sources[:MaxSources]
	}

	if len(present) < 2 {
		h.logger.Info("too few sources for consensus, building card directly", map[string]interface{}{
			"query":   query,
			"infos":   len(present),
			"sources": len(sources),
		})
		descriptions := collectDescriptions(present)
		if len(descriptions) == 0 {
			descriptions = []string{NoDataDescription}
		}
		return &models.ResultCard{
			Name:        query,
			Description: descriptions,
			SourceInfo:  sourceInfo(sources),
			ActionBoxes: []models.ActionBox{},
			Suggestions: toSuggestions(suggestions),
			Actions:     sourceActions(sources, query),
		}
	}

	prompt, err := BuildPrompt(present, query, suggestions, capTitles(allTitles))
	if err != nil {
		h.logger.Error("failed to build consensus prompt", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return nil
	}

	system := askmodel.JSONSystemPrompt + " " + language.Lookup(language.English).Instruction
	reply, err := h.sender.Send(ctx, system, prompt, askmodel.Options{})
	if err != nil {
		h.logger.Error("consensus request failed", map[string]interface{}{
			"query": query,
			"code":  string(apperrors.CodeOf(err)),
		})
		return nil
	}

	data := extractjson.ExtractFirstJSON(reply)
	if extractjson.IsDegraded(data) {
		h.logger.Warn("consensus reply could not be parsed, using defaults", map[string]interface{}{"query": query})
		data = map[string]interface{}{}
	}

	card := &models.ResultCard{
		Name:        stringValue(data["name"]),
		Description: stringList(data["description"]),
		SourceInfo:  stringValue(data["source_info"]),
		ActionBoxes: []models.ActionBox{},
		Actions:     sourceActions(sources, query),
	}
	if card.Name == "" {
		card.Name = query
	}
	if len(card.Description) == 0 {
		card.Description = []string{NoDataDescription}
	}
	if card.SourceInfo == "" {
		card.SourceInfo = sourceInfo(sources)
	}
	if raw, ok := data["suggestions"]; ok && raw != nil {
		card.Suggestions = toSuggestions(stringList(raw))
	} else {
		card.Suggestions = toSuggestions(suggestions)
	}

	h.logger.Info("consensus built", map[string]interface{}{
		"query":       query,
		"infos":       len(present),
		"sources":     len(sources),
		"suggestions": len(card.Suggestions),
	})
	return card
}

func nonEmpty(infos []map[string]interface{}) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(infos))
	for _, info := range infos {
		if len(info) > 0 {
			out = append(out, info)
		}
	}
	return out
}

func collectDescriptions(infos []map[string]interface{}) []string {
	var out []string
	for _, info := range infos {
		out = append(out, stringList(info["description"])...)
	}
	return out
}

func sourceInfo(sources []models.Source) string {
	titles := make([]string, 0, len(sources))
	for _, s := range sources {
		titles = append(titles, s.Title)
	}
	return "Sources: " + strings.Join(titles, ", ")
}

func sourceActions(sources []models.Source, query string) []models.Action {
	actions := make([]models.Action, 0, len(sources)+1)
	for i, s := range sources {
		actions = append(actions, models.Action{
			Type:  models.ActionTypeView,
			Label: fmt.Sprintf("View Source %d", i+1),
			URL:   s.URL,
		})
	}
	return append(actions, models.ChatAction(query))
}

func toSuggestions(texts []string) []models.Suggestion {
	out := make([]models.Suggestion, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t) == "" {
			continue
		}
		out = append(out, models.Suggestion{Text: t, Category: SuggestionCategory})
	}
	return out
}

func capTitles(titles []string) []string {
	if len(titles) > MaxTitles {
		titles = titles[:MaxTitles]
	}
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		if r := []rune(t); len(r) > MaxTitleLength {
			t = string(r[:MaxTitleLength])
		}
		out = append(out, t)
	}
	return out
}

func stringValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// stringList accepts a single string or a list and keeps the non-empty strings.
// Suggestion objects contribute their text field.
func stringList(v interface{}) []string {
	switch val := v.(type) {
	case string:
		if strings.TrimSpace(val) == "" {
			return nil
		}
		return []string{val}
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			switch it := item.(type) {
			case string:
				if strings.TrimSpace(it) != "" {
					out = append(out, it)
				}
			case map[string]interface{}:
				if text := stringValue(it["text"]); text != "" {
					out = append(out, text)
				}
			}
		}
		return out
	case []string:
		return val
	}
	return nil
}
