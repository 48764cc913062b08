// internal/storage/storage.go
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"chaysh/internal/common/logger"
	"chaysh/internal/models"
)

// Store is everything the HTTP layer persists or reads back.
type Store interface {
	LogSearch(ctx context.Context, query string, resultsCount int, lang string) (int64, error)
	LogInteraction(ctx context.Context, in models.Interaction) error
	SaveSearch(ctx context.Context, query string, resultsCount int, lang string) error
	SaveChat(ctx context.Context, message, response, lang string) error
	SearchHistory(ctx context.Context, limit int) ([]models.SearchRecord, error)
	ChatHistory(ctx context.Context, limit int) ([]models.ChatRecord, error)
	Preferences(ctx context.Context) (*models.Preferences, error)
	UpdatePreferences(ctx context.Context, updates map[string]interface{}) (*models.Preferences, error)
	Favorites(ctx context.Context) ([]models.Favorite, error)
	AddFavorite(ctx context.Context, card *models.ResultCard) (*models.Favorite, error)
	RemoveFavorite(ctx context.Context, id string) error
	Stats(ctx context.Context) (*models.Stats, error)
	SuggestQueries(ctx context.Context, prefix string, limit int) ([]string, error)
	Health(ctx context.Context) map[string]error
}

type SearchLog interface {
	LogSearch(ctx context.Context, query string, resultsCount int, lang string) (int64, error)
	LogInteraction(ctx context.Context, in models.Interaction) error
	Stats(ctx context.Context) (*models.Stats, error)
	Ping(ctx context.Context) error
}

type UserStore interface {
	SaveSearch(ctx context.Context, query string, resultsCount int, lang string) error
	SaveChat(ctx context.Context, message, response, lang string) error
	SearchHistory(ctx context.Context, limit int) ([]models.SearchRecord, error)
	ChatHistory(ctx context.Context, limit int) ([]models.ChatRecord, error)
	Preferences(ctx context.Context) (*models.Preferences, error)
	UpdatePreferences(ctx context.Context, updates map[string]interface{}) (*models.Preferences, error)
	Favorites(ctx context.Context) ([]models.Favorite, error)
	AddFavorite(ctx context.Context, card *models.ResultCard) (*models.Favorite, error)
	RemoveFavorite(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

type SearchIndex interface {
	IndexSearch(ctx context.Context, record models.SearchRecord) error
	Suggest(ctx context.Context, prefix string, limit int) ([]string, error)
}

// Pinger is implemented by indexes that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Service combines the search log, the user store and the optional search index.
type Service struct {
	searchLog   SearchLog
	userStore   UserStore
	searchIndex SearchIndex
	indexPinger Pinger
	logger      logger.Logger
}

// NewService wires the stores. index may be nil when search indexing is disabled.
func NewService(searchLog SearchLog, userStore UserStore, index SearchIndex, log logger.Logger) *Service {
	return &Service{
		searchLog:   searchLog,
		userStore:   userStore,
		searchIndex: index,
		logger: log.With(map[string]interface{}{
			"component": "storage",
		}),
	}
}

// WithIndexPinger makes Health report on the search index too.
func (s *Service) WithIndexPinger(p Pinger) *Service {
	s.indexPinger = p
	return s
}

func (s *Service) LogSearch(ctx context.Context, query string, resultsCount int, lang string) (int64, error) {
	return s.searchLog.LogSearch(ctx, query, resultsCount, lang)
}

func (s *Service) LogInteraction(ctx context.Context, in models.Interaction) error {
	return s.searchLog.LogInteraction(ctx, in)
}

// SaveSearch records the search in the user history and, when enabled, the search
// index. Index failures are logged and do not fail the call.
func (s *Service) SaveSearch(ctx context.Context, query string, resultsCount int, lang string) error {
	if err := s.userStore.SaveSearch(ctx, query, resultsCount, lang); err != nil {
		return err
	}
	if s.searchIndex == nil {
		return nil
	}

	record := models.SearchRecord{
		ID:           uuid.NewString(),
		Query:        query,
		Language:     lang,
		ResultsCount: resultsCount,
		Timestamp:    time.Now().UTC(),
	}
	if err := s.searchIndex.IndexSearch(ctx, record); err != nil {
		s.logger.Warn("failed to index search", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
	}
	return nil
}

func (s *Service) SaveChat(ctx context.Context, message, response, lang string) error {
	return s.userStore.SaveChat(ctx, message, response, lang)
}

func (s *Service) SearchHistory(ctx context.Context, limit int) ([]models.SearchRecord, error) {
	return s.userStore.SearchHistory(ctx, limit)
}

func (s *Service) ChatHistory(ctx context.Context, limit int) ([]models.ChatRecord, error) {
	return s.userStore.ChatHistory(ctx, limit)
}

func (s *Service) Preferences(ctx context.Context) (*models.Preferences, error) {
	return s.userStore.Preferences(ctx)
}

func (s *Service) UpdatePreferences(ctx context.Context, updates map[string]interface{}) (*models.Preferences, error) {
	return s.userStore.UpdatePreferences(ctx, updates)
}

func (s *Service) Favorites(ctx context.Context) ([]models.Favorite, error) {
	return s.userStore.Favorites(ctx)
}

func (s *Service) AddFavorite(ctx context.Context, card *models.ResultCard) (*models.Favorite, error) {
	return s.userStore.AddFavorite(ctx, card)
}

func (s *Service) RemoveFavorite(ctx context.Context, id string) error {
	return s.userStore.RemoveFavorite(ctx, id)
}

func (s *Service) Stats(ctx context.Context) (*models.Stats, error) {
	return s.searchLog.Stats(ctx)
}

// SuggestQueries falls back to matching the recent searches when no index is configured.
func (s *Service) SuggestQueries(ctx context.Context, prefix string, limit int) ([]string, error) {
	if s.searchIndex != nil {
		return s.searchIndex.Suggest(ctx, prefix, limit)
	}

	prefs, err := s.userStore.Preferences(ctx)
	if err != nil {
		return nil, err
	}
	return matchPrefix(prefs.RecentSearches, prefix, limit), nil
}

// Health pings every configured store. A nil value means the store is reachable.
func (s *Service) Health(ctx context.Context) map[string]error {
	out := map[string]error{
		"postgres": s.searchLog.Ping(ctx),
		"redis":    s.userStore.Ping(ctx),
	}
	if s.indexPinger != nil {
		out["elasticsearch"] = s.indexPinger.Ping(ctx)
	}
	return out
}
