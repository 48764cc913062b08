// internal/api/server.go
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chaysh/internal/common/config"
	apperrors "chaysh/internal/common/errors"
	"chaysh/internal/common/logger"
	"chaysh/internal/models"
	"chaysh/internal/storage"
	fetchpage "chaysh/internal/workers/content/fetch-page"
)

type Searcher interface {
	Search(ctx context.Context, query string, prior []string, lang string) []models.ResultCard
}

type Assistant interface {
	Reply(ctx context.Context, message string, history []string) *models.ChatResponse
	Assist(ctx context.Context, message, lang string) (*models.ChatResponse, error)
}

type Aggregator interface {
	Aggregate(ctx context.Context, infos []map[string]interface{}, query string,
		topSources []models.Source, suggestions []string, allTitles []string) *models.ResultCard
}

type PageCollector interface {
	Collect(ctx context.Context, query string, links []string) *fetchpage.Collection
}

// Deps are the collaborators the HTTP layer dispatches to.
type Deps struct {
	Searcher   Searcher
	Assistant  Assistant
	Aggregator Aggregator
	Pages      PageCollector
	Store      storage.Store
}

type Server struct {
	config *config.ServerConfig
	deps   Deps
	echo   *echo.Echo
	logger logger.Logger
}

func NewServer(cfg *config.ServerConfig, deps Deps, log logger.Logger) *Server {
	s := &Server{
		config: cfg,
		deps:   deps,
		echo:   echo.New(),
		logger: log.With(map[string]interface{}{
			"component": "api",
		}),
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = apperrors.NewErrorHandler(s.logger).Handle

	s.echo.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			s.logger.Error("handler panicked", map[string]interface{}{
				"path":  c.Path(),
				"error": err.Error(),
			})
			return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
		},
	}))
	s.echo.Use(requestID())
	s.echo.Use(requestLogger(s.logger))
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, HeaderLanguage, HeaderRequestID},
	}))

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.health)
	s.echo.GET("/ready", s.ready)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")
	api.POST("/search", s.search)
	api.POST("/aggregate", s.aggregate)
	api.POST("/interaction", s.interaction)

	api.POST("/chat", s.chat)
	api.POST("/assistant", s.assistant)
	api.GET("/chat/history", s.chatHistory)

	api.GET("/history", s.searchHistory)
	api.GET("/history/suggest", s.suggest)
	api.GET("/preferences", s.preferences)
	api.POST("/preferences", s.updatePreferences)
	api.GET("/favorites", s.favorites)
	api.POST("/favorites", s.addFavorite)
	api.DELETE("/favorites/:id", s.removeFavorite)
	api.GET("/stats", s.stats)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start blocks serving on the configured address until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{"address": s.config.Address})
	if err := s.echo.Start(s.config.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
