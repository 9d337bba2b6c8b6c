package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/voxnota/core"
	"github.com/poiesic/voxnota/storage"
)

// seedConversations stores three conversations a day apart, oldest first,
// and returns their timestamps.
func seedConversations(t *testing.T, store *Store) []time.Time {
	t.Helper()
	ctx := context.Background()

	base := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)
	fixtures := []struct {
		text     string
		keywords []core.WordScore
	}{
		{"Planned the quarterly budget review.", []core.WordScore{
			{Word: "budget", Score: 0.5}, {Word: "quarterly", Score: 0.3}}},
		{"Discussed vacation schedules for summer.", []core.WordScore{
			{Word: "vacation", Score: 0.6}, {Word: "summer", Score: 0.2}}},
		{"Budget overruns on the vacation project.", []core.WordScore{
			{Word: "budget", Score: 0.4}, {Word: "vacation", Score: 0.4}}},
	}

	timestamps := make([]time.Time, len(fixtures))
	for i, f := range fixtures {
		timestamps[i] = base.AddDate(0, 0, i)
		_, err := store.StoreConversation(ctx, f.text, timestamps[i], f.keywords)
		require.NoError(t, err)
	}
	return timestamps
}

func TestKeywords(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		store := newTestStore(t)
		words, err := store.Keywords(ctx)
		require.NoError(t, err)
		assert.Empty(t, words)
	})

	t.Run("distinct and sorted", func(t *testing.T) {
		store := newTestStore(t)
		seedConversations(t, store)

		words, err := store.Keywords(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"budget", "quarterly", "summer", "vacation"}, words)
	})
}

func TestConversationKeywords(t *testing.T) {
	ctx := context.Background()

	t.Run("highest score first", func(t *testing.T) {
		store := newTestStore(t)
		when := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)
		id, err := store.StoreConversation(ctx, "Budget planning session.", when,
			[]core.WordScore{{Word: "planning", Score: 0.2}, {Word: "budget", Score: 0.7}})
		require.NoError(t, err)

		keywords, err := store.ConversationKeywords(ctx, id)
		require.NoError(t, err)
		require.Len(t, keywords, 2)
		assert.Equal(t, "budget", keywords[0].Word)
		assert.Equal(t, "planning", keywords[1].Word)
		assert.Equal(t, id, keywords[0].ConversationId)
		assert.True(t, keywords[0].Timestamp.Equal(when))
	})

	t.Run("conversation without keywords", func(t *testing.T) {
		store := newTestStore(t)
		id, err := store.StoreConversation(ctx, "Nothing indexed.", time.Time{}, nil)
		require.NoError(t, err)

		keywords, err := store.ConversationKeywords(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, keywords)
	})

	t.Run("missing conversation", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.ConversationKeywords(ctx, 999)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestSearchConversations(t *testing.T) {
	ctx := context.Background()

	t.Run("exact word", func(t *testing.T) {
		store := newTestStore(t)
		seedConversations(t, store)

		hits, err := store.SearchConversations(ctx, "budget")
		require.NoError(t, err)
		require.Len(t, hits, 2)

		// Newest conversation first.
		assert.Equal(t, "Budget overruns on the vacation project.", hits[0].Text)
		assert.Equal(t, "Planned the quarterly budget review.", hits[1].Text)
		assert.True(t, hits[0].Timestamp.After(hits[1].Timestamp))
	})

	t.Run("substring match", func(t *testing.T) {
		store := newTestStore(t)
		seedConversations(t, store)

		hits, err := store.SearchConversations(ctx, "vaca")
		require.NoError(t, err)
		assert.Len(t, hits, 2)
	})

	t.Run("case insensitive", func(t *testing.T) {
		store := newTestStore(t)
		seedConversations(t, store)

		hits, err := store.SearchConversations(ctx, "BUDGET")
		require.NoError(t, err)
		assert.Len(t, hits, 2)
	})

	t.Run("no matches", func(t *testing.T) {
		store := newTestStore(t)
		seedConversations(t, store)

		hits, err := store.SearchConversations(ctx, "nonexistent")
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		store := newTestStore(t)
		seedConversations(t, store)

		hits, err := store.SearchConversations(ctx, "%")
		require.NoError(t, err)
		assert.Empty(t, hits)

		hits, err = store.SearchConversations(ctx, "_")
		require.NoError(t, err)
		assert.Empty(t, hits)
	})
}

func TestFilteredLogs(t *testing.T) {
	ctx := context.Background()

	t.Run("no filters returns everything newest first", func(t *testing.T) {
		store := newTestStore(t)
		timestamps := seedConversations(t, store)

		logs, err := store.FilteredLogs(ctx, nil, nil, "")
		require.NoError(t, err)
		require.Len(t, logs, 3)
		assert.True(t, logs[0].Timestamp.Equal(timestamps[2]))
		assert.True(t, logs[2].Timestamp.Equal(timestamps[0]))
	})

	t.Run("start bound is inclusive", func(t *testing.T) {
		store := newTestStore(t)
		timestamps := seedConversations(t, store)

		logs, err := store.FilteredLogs(ctx, &timestamps[1], nil, "")
		require.NoError(t, err)
		require.Len(t, logs, 2)
		for _, entry := range logs {
			assert.False(t, entry.Timestamp.Before(timestamps[1]))
		}
	})

	t.Run("end bound is inclusive", func(t *testing.T) {
		store := newTestStore(t)
		timestamps := seedConversations(t, store)

		logs, err := store.FilteredLogs(ctx, nil, &timestamps[1], "")
		require.NoError(t, err)
		require.Len(t, logs, 2)
		for _, entry := range logs {
			assert.False(t, entry.Timestamp.After(timestamps[1]))
		}
	})

	t.Run("keyword filter", func(t *testing.T) {
		store := newTestStore(t)
		seedConversations(t, store)

		logs, err := store.FilteredLogs(ctx, nil, nil, "quarterly")
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "Planned the quarterly budget review.", logs[0].Text)
		assert.ElementsMatch(t, []string{"budget", "quarterly"}, logs[0].Keywords)
	})

	t.Run("combined filters are anded", func(t *testing.T) {
		store := newTestStore(t)
		timestamps := seedConversations(t, store)

		logs, err := store.FilteredLogs(ctx, &timestamps[1], nil, "budget")
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "Budget overruns on the vacation project.", logs[0].Text)
	})

	t.Run("conversation without keywords has empty list", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.StoreConversation(ctx, "Nothing worth indexing here.", time.Time{}, nil)
		require.NoError(t, err)

		logs, err := store.FilteredLogs(ctx, nil, nil, "")
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Empty(t, logs[0].Keywords)
		assert.NotNil(t, logs[0].Keywords)
	})
}
