package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/poiesic/voxnota/core"
	"github.com/poiesic/voxnota/storage"
	_ "modernc.org/sqlite"
)

// schema creates the two-table relational layout. Timestamps are stored
// as Unix milliseconds so range comparisons happen on integers.
// Statements are idempotent so initialization is safe to repeat.
const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	text      TEXT NOT NULL,
	timestamp INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS keywords (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation_id INTEGER NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
	word            TEXT NOT NULL,
	score           REAL NOT NULL,
	timestamp       INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_keywords_conversation ON keywords(conversation_id);
CREATE INDEX IF NOT EXISTS idx_keywords_word ON keywords(word);
CREATE INDEX IF NOT EXISTS idx_conversations_timestamp ON conversations(timestamp);
`

// memStoreSeq distinguishes in-memory databases from each other so tests
// never share state through SQLite's shared cache.
var memStoreSeq atomic.Int64

// Store implements storage.ConversationRepository on SQLite using the
// pure-Go driver. Schema creation is lazy and idempotent; the first
// operation initializes the tables.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	initMu      sync.Mutex
	initialized bool

	// beforeKeywordInsert, when set, runs inside the write transaction
	// between the conversation insert and the keyword inserts. Tests use
	// it to simulate I/O failures mid-write.
	beforeKeywordInsert func() error
}

var _ storage.ConversationRepository = (*Store)(nil)

// OpenStore opens a SQLite database at the specified path, creating the
// parent directory if it doesn't exist.
//
// Returns storage.ConversationRepository interface to enforce abstraction.
func OpenStore(filePath string) (storage.ConversationRepository, error) {
	return openStore(filePath, false)
}

func openStore(filePath string, inMemory bool) (*Store, error) {
	var dsn string
	if inMemory {
		dsn = fmt.Sprintf("file:voxnota-mem-%d?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
			memStoreSeq.Add(1))
	} else {
		if dir := filepath.Dir(filePath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("%w: %w", storage.ErrPersistence, err)
			}
		}
		dsn = "file:" + filePath +
			"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrPersistence, err)
	}

	if inMemory {
		// A shared-cache memory database disappears when its last
		// connection closes, so pin the pool to a single connection.
		db.SetMaxOpenConns(1)
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "sqlite-store"),
	}, nil
}

// ensureSchema creates the tables on first use. Later calls are no-ops
// once initialization has succeeded; a failed initialization may be
// retried by the next operation.
func (s *Store) ensureSchema(ctx context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	if s.initialized {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: create schema: %w", storage.ErrPersistence, err)
	}
	s.initialized = true
	return nil
}

// StoreConversation atomically persists a conversation together with its
// keywords. The keyword rows inherit the conversation's timestamp.
func (s *Store) StoreConversation(ctx context.Context, text string, timestamp time.Time, keywords []core.WordScore) (int64, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return 0, err
	}

	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	} else {
		timestamp = timestamp.UTC()
	}

	conversation := &core.Conversation{Text: text, Timestamp: timestamp}
	if err := core.ValidateConversation(conversation); err != nil {
		return 0, err
	}
	for i := range keywords {
		if err := core.ValidateWordScore(&keywords[i]); err != nil {
			return 0, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin transaction: %w", storage.ErrPersistence, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO conversations (text, timestamp) VALUES (?, ?)`,
		text, toEpochMillis(timestamp))
	if err != nil {
		return 0, fmt.Errorf("%w: insert conversation: %w", storage.ErrPersistence, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", storage.ErrPersistence, err)
	}

	if s.beforeKeywordInsert != nil {
		if err := s.beforeKeywordInsert(); err != nil {
			return 0, fmt.Errorf("%w: %w", storage.ErrPersistence, err)
		}
	}

	for _, ws := range keywords {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO keywords (conversation_id, word, score, timestamp) VALUES (?, ?, ?, ?)`,
			id, ws.Word, ws.Score, toEpochMillis(timestamp))
		if err != nil {
			return 0, fmt.Errorf("%w: insert keyword %q: %w", storage.ErrPersistence, ws.Word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %w", storage.ErrPersistence, err)
	}

	s.logger.Debug("stored conversation", "id", id, "keywords", len(keywords))
	return id, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// toEpochMillis converts a timestamp to its stored representation.
func toEpochMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

// fromEpochMillis converts a stored timestamp back to time.Time.
func fromEpochMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
