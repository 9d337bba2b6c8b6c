package storage

import (
	"context"
	"time"

	"github.com/poiesic/voxnota/core"
)

// ConversationRepository provides transactional writes and filtered reads
// over stored conversations and their keywords.
// Implementations must be thread-safe and support concurrent access.
type ConversationRepository interface {
	// StoreConversation atomically persists a conversation and all of its
	// keywords. Either every row is committed or none are; on failure the
	// returned error wraps ErrPersistence and no partial state is visible
	// to readers. A zero timestamp defaults to the current time.
	// Returns the store-assigned conversation id.
	StoreConversation(ctx context.Context, text string, timestamp time.Time, keywords []core.WordScore) (int64, error)

	// GetConversation retrieves a single conversation by id.
	// Returns ErrNotFound if the conversation doesn't exist.
	GetConversation(ctx context.Context, id int64) (*core.Conversation, error)

	// ConversationKeywords returns the stored keyword rows of one
	// conversation, highest score first. Returns ErrNotFound if the
	// conversation doesn't exist.
	ConversationKeywords(ctx context.Context, conversationId int64) ([]core.Keyword, error)

	// Keywords returns every distinct keyword across all conversations,
	// lexicographically sorted and case-normalized.
	Keywords(ctx context.Context) ([]string, error)

	// SearchConversations returns keyword matches joined to their parent
	// conversations. The match is a case-insensitive substring match
	// against the stored word. Results are ordered newest first.
	SearchConversations(ctx context.Context, keyword string) ([]core.SearchHit, error)

	// FilteredLogs returns conversations with their aggregated keyword
	// lists, restricted by optional inclusive timestamp bounds and an
	// optional keyword substring filter. All provided filters are ANDed;
	// nil bounds and an empty keyword impose no constraint.
	// Results are ordered newest first.
	FilteredLogs(ctx context.Context, start, end *time.Time, keyword string) ([]core.LogEntry, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
