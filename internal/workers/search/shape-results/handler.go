// internal/workers/search/shape-results/handler.go
package shaperesults

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	apperrors "chaysh/internal/common/errors"
	"chaysh/internal/common/logger"
	"chaysh/internal/common/metrics"
	"chaysh/internal/language"
	"chaysh/internal/models"
	askmodel "chaysh/internal/workers/search/ask-model"
	extractjson "chaysh/internal/workers/search/extract-json"
)

const TaskType = "shape-results"

// Search outcomes used for metrics.
const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded"
	OutcomeFailed   = "failed"
)

type Sender interface {
	Send(ctx context.Context, systemPrompt, userPrompt string, opts askmodel.Options) (string, error)
}

type VariationResolver interface {
	Resolve(ctx context.Context, query string) *models.VariationSet
}

// Recorder receives one observation per search.
type Recorder interface {
	RecordSearch(ctx context.Context, language, outcome string, duration time.Duration)
}

type Handler struct {
	config   *Config
	sender   Sender
	resolver VariationResolver
	recorder Recorder
	logger   logger.Logger
}

func NewHandler(config *Config, sender Sender, resolver VariationResolver, log logger.Logger) *Handler {
	if config == nil {
		config = DefaultConfig()
	}
	return &Handler{
		config:   config,
		sender:   sender,
		resolver: resolver,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// WithRecorder attaches an observability recorder.
func (h *Handler) WithRecorder(r Recorder) *Handler {
	h.recorder = r
	return h
}

// Search shapes one result card for query. It never panics and always returns at
// least one card; failures surface as a degraded card.
func (h *Handler) Search(ctx context.Context, query string, prior []string, lang string) (cards []models.ResultCard) {
	start := time.Now()
	profile := language.Lookup(lang)
	outcome := OutcomeOK

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("search panicked", map[string]interface{}{
				"query": query,
				"panic": fmt.Sprint(r),
			})
			outcome = OutcomeFailed
			cards = []models.ResultCard{errorCard(query, profile)}
		}
		metrics.SearchesTotal.WithLabelValues(profile.Code, outcome).Inc()
		if h.recorder != nil {
			h.recorder.RecordSearch(ctx, profile.Code, outcome, time.Since(start))
		}
	}()

	card, ok := h.shape(ctx, query, prior, profile)
	if !ok {
		outcome = OutcomeDegraded
	}
	return []models.ResultCard{card}
}

func (h *Handler) shape(ctx context.Context, query string, prior []string, profile *language.Profile) (models.ResultCard, bool) {
	prompt := BuildPrompt(query, prior, profile, h.config.MaxContextLines)
	system := askmodel.JSONSystemPrompt + " " + profile.Instruction

	var (
		reply      string
		sendErr    error
		variations *models.VariationSet
	)

	if h.config.ParallelVariations {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			variations = h.resolve(ctx, query)
		}()
		reply, sendErr = h.sender.Send(ctx, system, prompt, askmodel.Options{})
		wg.Wait()
	} else {
		reply, sendErr = h.sender.Send(ctx, system, prompt, askmodel.Options{})
	}

	if sendErr != nil {
		h.logger.Warn("info request failed", map[string]interface{}{
			"query":    query,
			"code":     string(apperrors.CodeOf(sendErr)),
			"language": profile.Code,
		})
		return degradedCard(query, profile), false
	}
	if strings.TrimSpace(reply) == "" {
		h.logger.Warn("empty info reply", map[string]interface{}{"query": query})
		return degradedCard(query, profile), false
	}

	data := extractjson.ExtractFirstJSON(reply)
	if extractjson.IsDegraded(data) {
		h.logger.Warn("info reply could not be parsed", map[string]interface{}{"query": query})
		return degradedCard(query, profile), false
	}

	info := models.ExtractedInfoFromMap(data)
	description := info.Description()
	if len(description) == 0 {
		h.logger.Warn("info reply has no description fields", map[string]interface{}{"query": query})
		return degradedCard(query, profile), false
	}

	if variations == nil {
		variations = h.resolve(ctx, query)
	}

	card := models.ResultCard{
		Name:        query,
		Description: description,
		SourceInfo:  profile.Messages.AISourceInfo,
		ActionBoxes: buildBoxes(info, variations, profile),
		Suggestions: profile.SuggestionsFor(query),
		Actions:     []models.Action{models.ChatAction(query)},
	}

	h.logger.Info("search shaped", map[string]interface{}{
		"query":      query,
		"language":   profile.Code,
		"isSpecific": variations.IsSpecific,
		"opinions":   len(info.Opinions),
		"manuals":    len(info.Manuals),
	})
	return card, true
}

func (h *Handler) resolve(ctx context.Context, query string) (set *models.VariationSet) {
	defer func() {
		if r := recover(); r != nil {
			set = models.DefaultVariationSet()
		}
	}()
	if set = h.resolver.Resolve(ctx, query); set == nil {
		set = models.DefaultVariationSet()
	}
	return set
}
