// internal/api/user.go
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "chaysh/internal/common/errors"
	"chaysh/internal/models"
	"chaysh/internal/storage/userstore"
)

const (
	DefaultHistoryLimit    = 10
	DefaultSuggestionLimit = 5
)

type favoriteRequest struct {
	Result *models.ResultCard `json:"result"`
}

func (s *Server) searchHistory(c echo.Context) error {
	history, err := s.deps.Store.SearchHistory(c.Request().Context(), limitParam(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"history": history,
	})
}

func (s *Server) suggest(c echo.Context) error {
	limit := DefaultSuggestionLimit
	if n, err := strconv.Atoi(c.QueryParam("limit")); err == nil && n > 0 {
		limit = n
	}
	suggestions, err := s.deps.Store.SuggestQueries(c.Request().Context(), c.QueryParam("q"), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":     true,
		"suggestions": suggestions,
	})
}

func (s *Server) preferences(c echo.Context) error {
	prefs, err := s.deps.Store.Preferences(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prefs)
}

func (s *Server) updatePreferences(c echo.Context) error {
	updates := map[string]interface{}{}
	if err := c.Bind(&updates); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if len(updates) == 0 {
		return apperrors.NewInvalidRequestError("no preferences provided")
	}

	prefs, err := s.deps.Store.UpdatePreferences(c.Request().Context(), updates)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":     true,
		"preferences": prefs,
	})
}

func (s *Server) favorites(c echo.Context) error {
	favorites, err := s.deps.Store.Favorites(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":   true,
		"favorites": favorites,
	})
}

func (s *Server) addFavorite(c echo.Context) error {
	var req favoriteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if req.Result == nil {
		return apperrors.NewInvalidRequestError("No result provided")
	}

	favorite, err := s.deps.Store.AddFavorite(c.Request().Context(), req.Result)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"favorite": favorite,
	})
}

func (s *Server) removeFavorite(c echo.Context) error {
	err := s.deps.Store.RemoveFavorite(c.Request().Context(), c.Param("id"))
	if errors.Is(err, userstore.ErrFavoriteNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "favorite not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

func (s *Server) stats(c echo.Context) error {
	stats, err := s.deps.Store.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"stats":   stats,
	})
}

func limitParam(c echo.Context) int {
	if n, err := strconv.Atoi(c.QueryParam("limit")); err == nil && n > 0 {
		return n
	}
	return DefaultHistoryLimit
}
