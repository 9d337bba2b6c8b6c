package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/voxnota/core"
	"github.com/poiesic/voxnota/storage"
	"github.com/poiesic/voxnota/storage/sqlite"
)

func newTestEngine(t *testing.T) (*Engine, storage.ConversationRepository) {
	t.Helper()

	store, err := sqlite.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	engine, err := NewEngine(store)
	require.NoError(t, err)
	return engine, store
}

func storeFixture(t *testing.T, store storage.ConversationRepository, text string, when time.Time, words ...string) {
	t.Helper()

	keywords := make([]core.WordScore, len(words))
	for i, w := range words {
		keywords[i] = core.WordScore{Word: w, Score: 0.5}
	}
	_, err := store.StoreConversation(context.Background(), text, when, keywords)
	require.NoError(t, err)
}

func TestNewEngine(t *testing.T) {
	_, err := NewEngine(nil)
	assert.ErrorIs(t, err, ErrRepositoryRequired)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("blank keyword rejected", func(t *testing.T) {
		engine, _ := newTestEngine(t)
		_, err := engine.Search(ctx, "   ")
		assert.ErrorIs(t, err, ErrInvalidFilter)
	})

	t.Run("trims keyword before matching", func(t *testing.T) {
		engine, store := newTestEngine(t)
		storeFixture(t, store, "Budget talk.", time.Time{}, "budget")

		hits, err := engine.Search(ctx, "  budget  ")
		require.NoError(t, err)
		assert.Len(t, hits, 1)
	})

	t.Run("no matches is empty not error", func(t *testing.T) {
		engine, _ := newTestEngine(t)
		hits, err := engine.Search(ctx, "anything")
		require.NoError(t, err)
		assert.Empty(t, hits)
	})
}

func TestLogs(t *testing.T) {
	ctx := context.Background()

	day := func(d int) time.Time {
		return time.Date(2025, 5, d, 10, 30, 0, 0, time.UTC)
	}

	t.Run("empty filter returns everything", func(t *testing.T) {
		engine, store := newTestEngine(t)
		storeFixture(t, store, "First conversation.", day(1), "first")
		storeFixture(t, store, "Second conversation.", day(2), "second")

		logs, err := engine.Logs(ctx, Filter{})
		require.NoError(t, err)
		assert.Len(t, logs, 2)
	})

	t.Run("date only bounds cover whole days", func(t *testing.T) {
		engine, store := newTestEngine(t)
		storeFixture(t, store, "Before the window.", day(1), "before")
		storeFixture(t, store, "Inside the window.", day(2), "inside")
		storeFixture(t, store, "Late inside the window.", time.Date(2025, 5, 3, 23, 59, 0, 0, time.UTC), "late")
		storeFixture(t, store, "After the window.", day(4), "after")

		logs, err := engine.Logs(ctx, Filter{StartDate: "2025-05-02", EndDate: "2025-05-03"})
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, "Late inside the window.", logs[0].Text)
		assert.Equal(t, "Inside the window.", logs[1].Text)
	})

	t.Run("rfc3339 bounds", func(t *testing.T) {
		engine, store := newTestEngine(t)
		storeFixture(t, store, "Morning conversation.", day(1), "morning")
		storeFixture(t, store, "Evening conversation.", time.Date(2025, 5, 1, 20, 0, 0, 0, time.UTC), "evening")

		logs, err := engine.Logs(ctx, Filter{StartDate: "2025-05-01T15:00:00Z"})
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "Evening conversation.", logs[0].Text)
	})

	t.Run("keyword filter combines with dates", func(t *testing.T) {
		engine, store := newTestEngine(t)
		storeFixture(t, store, "Old budget talk.", day(1), "budget")
		storeFixture(t, store, "New budget talk.", day(3), "budget")
		storeFixture(t, store, "New vacation talk.", day(3), "vacation")

		logs, err := engine.Logs(ctx, Filter{StartDate: "2025-05-02", Keyword: "budget"})
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "New budget talk.", logs[0].Text)
	})

	t.Run("unparsable date", func(t *testing.T) {
		engine, _ := newTestEngine(t)
		_, err := engine.Logs(ctx, Filter{StartDate: "05/02/2025"})
		assert.ErrorIs(t, err, ErrInvalidFilter)
	})

	t.Run("end before start", func(t *testing.T) {
		engine, _ := newTestEngine(t)
		_, err := engine.Logs(ctx, Filter{StartDate: "2025-05-10", EndDate: "2025-05-01"})
		assert.ErrorIs(t, err, ErrInvalidFilter)
	})

	t.Run("no matches is empty not error", func(t *testing.T) {
		engine, _ := newTestEngine(t)
		logs, err := engine.Logs(ctx, Filter{Keyword: "nothing"})
		require.NoError(t, err)
		assert.Empty(t, logs)
	})
}

func TestConversationDetail(t *testing.T) {
	ctx := context.Background()

	t.Run("returns conversation with keywords", func(t *testing.T) {
		engine, store := newTestEngine(t)

		id, err := store.StoreConversation(ctx, "Budget planning session.", time.Time{},
			[]core.WordScore{{Word: "budget", Score: 0.7}, {Word: "planning", Score: 0.2}})
		require.NoError(t, err)

		conversation, keywords, err := engine.Conversation(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Budget planning session.", conversation.Text)
		require.Len(t, keywords, 2)
		assert.Equal(t, "budget", keywords[0].Word)
	})

	t.Run("missing conversation", func(t *testing.T) {
		engine, _ := newTestEngine(t)
		_, _, err := engine.Conversation(ctx, 999)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestKeywordsPassthrough(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)
	storeFixture(t, store, "Mixed topics.", time.Time{}, "zebra", "apple")

	words, err := engine.Keywords(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "zebra"}, words)
}
