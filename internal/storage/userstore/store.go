// internal/storage/userstore/store.go
package userstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "chaysh/internal/common/errors"
	"chaysh/internal/common/logger"
	"chaysh/internal/language"
	"chaysh/internal/models"
)

const storeName = "redis"

// ErrFavoriteNotFound is returned by RemoveFavorite for unknown ids.
var ErrFavoriteNotFound = errors.New("favorite not found")

type Config struct {
	KeyPrefix           string
	HistoryLimit        int
	FavoritesLimit      int
	RecentSearchesLimit int
}

// Store keeps per-user history, preferences and favorites in Redis lists and keys.
// Lists are newest first.
type Store struct {
	client *redis.Client
	config Config
	logger logger.Logger
	now    func() time.Time
}

func NewStore(client *redis.Client, config Config, log logger.Logger) *Store {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "chaysh"
	}
	if config.HistoryLimit <= 0 {
		config.HistoryLimit = 100
	}
	if config.FavoritesLimit <= 0 {
		config.FavoritesLimit = 50
	}
	if config.RecentSearchesLimit <= 0 {
		config.RecentSearchesLimit = 10
	}
	return &Store{
		client: client,
		config: config,
		logger: log.With(map[string]interface{}{
			"store": "userstore",
		}),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) key(name string) string {
	return s.config.KeyPrefix + ":" + name
}

// SaveSearch appends a search to the history and to the recent searches.
func (s *Store) SaveSearch(ctx context.Context, query string, resultsCount int, lang string) error {
	record := models.SearchRecord{
		ID:           uuid.NewString(),
		Query:        query,
		Language:     lang,
		ResultsCount: resultsCount,
		Timestamp:    s.now(),
	}
	if err := s.pushCapped(ctx, s.key("searches"), record, s.config.HistoryLimit); err != nil {
		return err
	}

	prefs, err := s.Preferences(ctx)
	if err != nil {
		return err
	}
	prefs.RecentSearches = addRecent(prefs.RecentSearches, query, s.config.RecentSearchesLimit)
	return s.savePreferences(ctx, prefs)
}

// SaveChat appends a chat exchange to the chat history.
func (s *Store) SaveChat(ctx context.Context, message, response, lang string) error {
	record := models.ChatRecord{
		ID:        uuid.NewString(),
		Message:   message,
		Response:  response,
		Language:  lang,
		Timestamp: s.now(),
	}
	return s.pushCapped(ctx, s.key("chats"), record, s.config.HistoryLimit)
}

func (s *Store) SearchHistory(ctx context.Context, limit int) ([]models.SearchRecord, error) {
	out := []models.SearchRecord{}
	err := s.readList(ctx, s.key("searches"), limit, func(raw string) error {
		var r models.SearchRecord
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return err
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

func (s *Store) ChatHistory(ctx context.Context, limit int) ([]models.ChatRecord, error) {
	out := []models.ChatRecord{}
	err := s.readList(ctx, s.key("chats"), limit, func(raw string) error {
		var r models.ChatRecord
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return err
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

// Preferences returns the stored preferences, or the defaults when none exist.
func (s *Store) Preferences(ctx context.Context) (*models.Preferences, error) {
	prefs := models.DefaultPreferences()

	raw, err := s.client.Get(ctx, s.key("preferences")).Result()
	if errors.Is(err, redis.Nil) {
		return prefs, nil
	}
	if err != nil {
		return prefs, apperrors.NewStorageUnavailableError(storeName, err)
	}

	if err := json.Unmarshal([]byte(raw), prefs); err != nil {
		s.logger.Warn("stored preferences are corrupt, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		return models.DefaultPreferences(), nil
	}
	normalizePreferences(prefs)
	return prefs, nil
}

// UpdatePreferences merges the known fields of updates into the stored preferences.
func (s *Store) UpdatePreferences(ctx context.Context, updates map[string]interface{}) (*models.Preferences, error) {
	if lang, ok := updates["language"].(string); ok && !language.Supported(lang) {
		return nil, apperrors.NewInvalidRequestError(fmt.Sprintf("unsupported language %q", lang))
	}

	prefs, err := s.Preferences(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(updates)
	if err != nil {
		return nil, apperrors.NewInvalidRequestError(err.Error())
	}
	if err := json.Unmarshal(data, prefs); err != nil {
		return nil, apperrors.NewInvalidRequestError(err.Error())
	}
	normalizePreferences(prefs)
	if len(prefs.RecentSearches) > s.config.RecentSearchesLimit {
		prefs.RecentSearches = prefs.RecentSearches[:s.config.RecentSearchesLimit]
	}

	if err := s.savePreferences(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *Store) Favorites(ctx context.Context) ([]models.Favorite, error) {
	out := []models.Favorite{}
	err := s.readList(ctx, s.key("favorites"), 0, func(raw string) error {
		var f models.Favorite
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			return err
		}
		out = append(out, f)
		return nil
	})
	return out, err
}

// AddFavorite stores card, keeping only the newest FavoritesLimit entries.
func (s *Store) AddFavorite(ctx context.Context, card *models.ResultCard) (*models.Favorite, error) {
	if card == nil {
		return nil, apperrors.NewInvalidRequestError("result is required")
	}
	fav := &models.Favorite{
		ID:        uuid.NewString(),
		Result:    card,
		Timestamp: s.now(),
	}
	if err := s.pushCapped(ctx, s.key("favorites"), fav, s.config.FavoritesLimit); err != nil {
		return nil, err
	}
	return fav, nil
}

func (s *Store) RemoveFavorite(ctx context.Context, id string) error {
	key := s.key("favorites")
	items, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return apperrors.NewStorageUnavailableError(storeName, err)
	}
	for _, raw := range items {
		var f models.Favorite
		if json.Unmarshal([]byte(raw), &f) != nil || f.ID != id {
			continue
		}
		if err := s.client.LRem(ctx, key, 1, raw).Err(); err != nil {
			return apperrors.NewStorageUnavailableError(storeName, err)
		}
		return nil
	}
	return ErrFavoriteNotFound
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) pushCapped(ctx context.Context, key string, v interface{}, limit int) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s entry: %w", key, err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, data)
		pipe.LTrim(ctx, key, 0, int64(limit-1))
		return nil
	})
	if err != nil {
		s.logger.Error("failed to append list entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return apperrors.NewStorageUnavailableError(storeName, err)
	}
	return nil
}

// readList decodes up to limit entries, all when limit is not positive.
// Entries that fail to decode are skipped.
func (s *Store) readList(ctx context.Context, key string, limit int, decode func(string) error) error {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	items, err := s.client.LRange(ctx, key, 0, stop).Result()
	if err != nil {
		return apperrors.NewStorageUnavailableError(storeName, err)
	}
	for _, raw := range items {
		if err := decode(raw); err != nil {
			s.logger.Warn("skipping corrupt list entry", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
	return nil
}

func (s *Store) savePreferences(ctx context.Context, prefs *models.Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := s.client.Set(ctx, s.key("preferences"), data, 0).Err(); err != nil {
		return apperrors.NewStorageUnavailableError(storeName, err)
	}
	return nil
}

func normalizePreferences(p *models.Preferences) {
	if p.Theme == "" {
		p.Theme = "light"
	}
	p.Language = language.Normalize(p.Language)
	if p.RecentSearches == nil {
		p.RecentSearches = []string{}
	}
	if p.FavoriteResults == nil {
		p.FavoriteResults = []string{}
	}
}

// addRecent puts query first, dropping an earlier case-insensitive duplicate.
func addRecent(recent []string, query string, limit int) []string {
	out := make([]string, 0, limit)
	out = append(out, query)
	for _, q := range recent {
		if strings.EqualFold(q, query) {
			continue
		}
		out = append(out, q)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
