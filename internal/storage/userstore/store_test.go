// internal/storage/userstore/store_test.go
package userstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "chaysh/internal/common/errors"
	"chaysh/internal/common/logger"
	"chaysh/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestStore(t *testing.T, cfg Config) (*Store, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewStore(client, cfg, logger.NewTestLogger(t))
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }
	return store, mr
}

func testCard(name string) *models.ResultCard {
	return &models.ResultCard{
		Name:        name,
		Description: []string{"A smartphone"},
		ActionBoxes: []models.ActionBox{},
		Suggestions: []models.Suggestion{},
		Actions:     []models.Action{models.ChatAction(name)},
	}
}

// ==========================
// History
// ==========================

func TestStore_SaveSearch_NewestFirstAndCapped(t *testing.T) {
	store, mr := createTestStore(t, Config{HistoryLimit: 3, RecentSearchesLimit: 2})
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, store.SaveSearch(ctx, fmt.Sprintf("query %d", i), 1, "en"))
	}

	history, err := store.SearchHistory(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "query 5", history[0].Query)
	assert.Equal(t, "query 3", history[2].Query)
	assert.NotEmpty(t, history[0].ID)
	assert.Equal(t, "en", history[0].Language)

	length, err := mr.List("chaysh:searches")
	require.NoError(t, err)
	assert.Len(t, length, 3)

	prefs, err := store.Preferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"query 5", "query 4"}, prefs.RecentSearches)
}

func TestStore_SearchHistory_Limit(t *testing.T) {
	store, _ := createTestStore(t, Config{})
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, store.SaveSearch(ctx, fmt.Sprintf("q%d", i), 1, "pl"))
	}

	history, err := store.SearchHistory(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	empty, err := (&Store{client: store.client, config: Config{KeyPrefix: "other"}, logger: store.logger}).SearchHistory(ctx, 10)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestStore_SaveChat(t *testing.T) {
	store, _ := createTestStore(t, Config{})
	ctx := context.Background()

	require.NoError(t, store.SaveChat(ctx, "reset router", "1. Unplug it", "en"))
	require.NoError(t, store.SaveChat(ctx, "and then?", "2. Plug it back", "en"))

	chats, err := store.ChatHistory(ctx, 10)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, "and then?", chats[0].Message)
	assert.Equal(t, "1. Unplug it", chats[1].Response)
}

func TestStore_ReadList_SkipsCorruptEntries(t *testing.T) {
	store, mr := createTestStore(t, Config{})
	ctx := context.Background()

	require.NoError(t, store.SaveChat(ctx, "hi", "hello", "en"))
	_, err := mr.Lpush("chaysh:chats", "{not json")
	require.NoError(t, err)

	chats, err := store.ChatHistory(ctx, 10)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, "hi", chats[0].Message)
}

// ==========================
// Preferences
// ==========================

func TestStore_Preferences_Defaults(t *testing.T) {
	store, _ := createTestStore(t, Config{})

	prefs, err := store.Preferences(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.DefaultPreferences(), prefs)
}

func TestStore_Preferences_CorruptFallsBackToDefaults(t *testing.T) {
	store, mr := createTestStore(t, Config{})
	require.NoError(t, mr.Set("chaysh:preferences", "{{{"))

	prefs, err := store.Preferences(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.DefaultPreferences(), prefs)
}

func TestStore_UpdatePreferences(t *testing.T) {
	store, _ := createTestStore(t, Config{})
	ctx := context.Background()

	prefs, err := store.UpdatePreferences(ctx, map[string]interface{}{
		"theme":    "dark",
		"language": "pl",
		"unknown":  "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, "dark", prefs.Theme)
	assert.Equal(t, "pl", prefs.Language)

	stored, err := store.Preferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, prefs, stored)

	again, err := store.UpdatePreferences(ctx, map[string]interface{}{"theme": "light"})
	require.NoError(t, err)
	assert.Equal(t, "pl", again.Language, "fields not named in the update are kept")
}

func TestStore_UpdatePreferences_Invalid(t *testing.T) {
	store, _ := createTestStore(t, Config{})

	tests := []struct {
		name    string
		updates map[string]interface{}
	}{
		{name: "unsupported language", updates: map[string]interface{}{"language": "de"}},
		{name: "wrong type", updates: map[string]interface{}{"recent_searches": "iphone"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.UpdatePreferences(context.Background(), tt.updates)
			assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
		})
	}
}

// ==========================
// Favorites
// ==========================

func TestStore_Favorites(t *testing.T) {
	store, _ := createTestStore(t, Config{FavoritesLimit: 2})
	ctx := context.Background()

	first, err := store.AddFavorite(ctx, testCard("iphone"))
	require.NoError(t, err)
	_, err = store.AddFavorite(ctx, testCard("iphone 15"))
	require.NoError(t, err)
	third, err := store.AddFavorite(ctx, testCard("iphone 15 pro"))
	require.NoError(t, err)

	favs, err := store.Favorites(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, third.ID, favs[0].ID)
	assert.Equal(t, "iphone 15 pro", favs[0].Result.Name)

	assert.ErrorIs(t, store.RemoveFavorite(ctx, first.ID), ErrFavoriteNotFound, "evicted favorites are gone")

	require.NoError(t, store.RemoveFavorite(ctx, third.ID))
	favs, err = store.Favorites(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "iphone 15", favs[0].Result.Name)
}

func TestStore_AddFavorite_NilCard(t *testing.T) {
	store, _ := createTestStore(t, Config{})

	_, err := store.AddFavorite(context.Background(), nil)

	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
}

// ==========================
// Redis Failures
// ==========================

func TestStore_RedisErrors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, Config{}, logger.NewTestLogger(t))
	ctx := context.Background()

	mock.ExpectGet("chaysh:preferences").SetErr(assert.AnError)
	prefs, err := store.Preferences(ctx)
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
	assert.Equal(t, models.DefaultPreferences(), prefs)

	mock.ExpectLRange("chaysh:searches", 0, 9).SetErr(assert.AnError)
	_, err = store.SearchHistory(ctx, 10)
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)

	mock.ExpectLRange("chaysh:favorites", 0, -1).SetErr(assert.AnError)
	err = store.RemoveFavorite(ctx, "abc")
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Preferences_MissingKeyUsesDefaults(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, Config{KeyPrefix: "tenant"}, logger.NewTestLogger(t))

	mock.ExpectGet("tenant:preferences").RedisNil()

	prefs, err := store.Preferences(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "light", prefs.Theme)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveSearch_ServerDown(t *testing.T) {
	store, mr := createTestStore(t, Config{})
	mr.Close()

	err := store.SaveSearch(context.Background(), "iphone", 1, "en")

	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}

func TestAddRecent(t *testing.T) {
	assert.Equal(t, []string{"iPhone", "drill"}, addRecent([]string{"drill", "iphone"}, "iPhone", 10))
	assert.Equal(t, []string{"c", "a"}, addRecent([]string{"a", "b"}, "c", 2))
	assert.Equal(t, []string{"x"}, addRecent(nil, "x", 10))
}
