// internal/api/search.go
package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "chaysh/internal/common/errors"
	"chaysh/internal/common/validation"
	"chaysh/internal/language"
	"chaysh/internal/models"
)

const (
	HeaderLanguage = "X-Language"

	DefaultDescription = "No description available."
	DefaultSourceInfo  = "AI-generated summary"
)

type searchRequest struct {
	Query    string   `json:"query"`
	Context  []string `json:"context"`
	Language string   `json:"language"`
}

type aggregateRequest struct {
	Query       string   `json:"query"`
	URLs        []string `json:"urls"`
	Suggestions []string `json:"suggestions"`
}

type interactionRequest struct {
	SearchID   int64  `json:"search_id"`
	ActionType string `json:"type"`
	TargetURL  string `json:"data"`
}

func (s *Server) search(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": false,
			"error":   "Query is required",
		})
	}

	ctx := c.Request().Context()
	lang := s.language(c, req.Language)

	cards := s.deps.Searcher.Search(ctx, query, req.Context, lang)
	if len(cards) == 0 {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": false,
			"error":   "No results found",
			"results": []models.ResultCard{noResultsCard(query)},
		})
	}
	normalizeCards(cards, query)
	s.validateCards(query, cards)

	resp := map[string]interface{}{
		"success": true,
		"results": cards,
	}

	if id, err := s.deps.Store.LogSearch(ctx, query, len(cards), lang); err == nil {
		resp["search_id"] = id
	}
	if err := s.deps.Store.SaveSearch(ctx, query, len(cards), lang); err != nil {
		s.logger.Warn("failed to save search history", map[string]interface{}{
			"query": query,
			"code":  string(apperrors.CodeOf(err)),
		})
	}

	return c.JSON(http.StatusOK, resp)
}

// aggregate fetches the given pages and merges what they say about query into one card.
func (s *Server) aggregate(c echo.Context) error {
	var req aggregateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": false,
			"error":   "Query is required",
		})
	}

	links := make([]string, 0, len(req.URLs))
	for _, u := range req.URLs {
		if validation.ValidateURL(u) {
			links = append(links, u)
		}
	}
	if len(links) == 0 {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": false,
			"error":   "At least one http(s) url is required",
		})
	}

	ctx := c.Request().Context()
	collected := s.deps.Pages.Collect(ctx, query, links)
	card := s.deps.Aggregator.Aggregate(ctx, collected.Infos, query, collected.Sources, req.Suggestions, collected.Titles)
	if card == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": false,
			"error":   "Failed to aggregate sources",
		})
	}

	cards := []models.ResultCard{*card}
	normalizeCards(cards, query)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"results": cards,
	})
}

func (s *Server) interaction(c echo.Context) error {
	var req interactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}

	switch req.ActionType {
	case models.InteractionAIChat, models.InteractionViewResult, models.InteractionSearchRefine:
	default:
		return apperrors.NewInvalidRequestError("unknown interaction type: " + req.ActionType)
	}

	in := models.Interaction{
		SearchID:   req.SearchID,
		ActionType: req.ActionType,
		TargetURL:  req.TargetURL,
	}
	if err := s.deps.Store.LogInteraction(c.Request().Context(), in); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

// language picks the body value, then the X-Language header, then the server default.
func (s *Server) language(c echo.Context, fromBody string) string {
	if language.Supported(fromBody) {
		return language.Normalize(fromBody)
	}
	if h := c.Request().Header.Get(HeaderLanguage); language.Supported(h) {
		return language.Normalize(h)
	}
	return language.Normalize(s.config.DefaultLanguage)
}

func (s *Server) validateCards(query string, cards []models.ResultCard) {
	result, err := validation.ValidateResultCards(cards)
	if err != nil {
		s.logger.Error("card validation unavailable", map[string]interface{}{"error": err.Error()})
		return
	}
	if !result.Valid {
		s.logger.Warn("result cards violate schema", map[string]interface{}{
			"query":  query,
			"errors": result.GetErrorMessages(),
		})
	}
}

// normalizeCards fills the fields the front end always expects.
func normalizeCards(cards []models.ResultCard, query string) {
	for i := range cards {
		card := &cards[i]
		if card.Name == "" {
			card.Name = query
		}
		if len(card.Description) == 0 {
			card.Description = []string{DefaultDescription}
		}
		if card.SourceInfo == "" {
			card.SourceInfo = DefaultSourceInfo
		}
		if card.ActionBoxes == nil {
			card.ActionBoxes = []models.ActionBox{}
		}
		if card.Suggestions == nil {
			card.Suggestions = []models.Suggestion{}
		}
		if len(card.Actions) == 0 {
			card.Actions = []models.Action{models.ChatAction(query)}
		}
	}
}

func noResultsCard(query string) models.ResultCard {
	return models.ResultCard{
		Name:        query,
		Description: []string{"No results found for your search."},
		SourceInfo:  "Search returned no results",
		ActionBoxes: []models.ActionBox{},
		Suggestions: []models.Suggestion{},
		Actions:     []models.Action{models.ChatAction(query)},
	}
}
