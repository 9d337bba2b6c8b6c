package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/voxnota/core"
	"github.com/poiesic/voxnota/storage"
)

// likeEscaper protects user-supplied substrings from acting as LIKE
// wildcards.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a case-normalized substring pattern for LIKE.
func likePattern(keyword string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(keyword)) + "%"
}

// GetConversation retrieves a single conversation by id.
func (s *Store) GetConversation(ctx context.Context, id int64) (*core.Conversation, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	var conversation core.Conversation
	var ms int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, text, timestamp FROM conversations WHERE id = ?`, id).
		Scan(&conversation.Id, &conversation.Text, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get conversation %d: %w", storage.ErrPersistence, id, err)
	}
	conversation.Timestamp = fromEpochMillis(ms)
	return &conversation, nil
}

// ConversationKeywords returns the keyword rows of one conversation,
// highest score first.
func (s *Store) ConversationKeywords(ctx context.Context, conversationId int64) ([]core.Keyword, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	var exists int64
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM conversations WHERE id = ?`, conversationId).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: conversation keywords %d: %w", storage.ErrPersistence, conversationId, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, word, score, timestamp
		 FROM keywords WHERE conversation_id = ?
		 ORDER BY score DESC, id ASC`, conversationId)
	if err != nil {
		return nil, fmt.Errorf("%w: conversation keywords %d: %w", storage.ErrPersistence, conversationId, err)
	}
	defer rows.Close()

	keywords := []core.Keyword{}
	for rows.Next() {
		var keyword core.Keyword
		var ms int64
		if err := rows.Scan(&keyword.Id, &keyword.ConversationId, &keyword.Word, &keyword.Score, &ms); err != nil {
			return nil, fmt.Errorf("%w: %w", storage.ErrPersistence, err)
		}
		keyword.Timestamp = fromEpochMillis(ms)
		keywords = append(keywords, keyword)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrPersistence, err)
	}
	return keywords, nil
}

// Keywords returns the distinct keyword universe, lexicographically sorted.
func (s *Store) Keywords(ctx context.Context) ([]string, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT word FROM keywords ORDER BY word`)
	if err != nil {
		return nil, fmt.Errorf("%w: list keywords: %w", storage.ErrPersistence, err)
	}
	defer rows.Close()

	words := []string{}
	for rows.Next() {
		var word string
		if err := rows.Scan(&word); err != nil {
			return nil, fmt.Errorf("%w: %w", storage.ErrPersistence, err)
		}
		words = append(words, word)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrPersistence, err)
	}
	return words, nil
}

// SearchConversations returns keyword substring matches joined to their
// parent conversations, newest first.
func (s *Store) SearchConversations(ctx context.Context, keyword string) ([]core.SearchHit, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.text, c.timestamp, k.word, k.score
		FROM conversations c
		JOIN keywords k ON c.id = k.conversation_id
		WHERE k.word LIKE ? ESCAPE '\'
		ORDER BY c.timestamp DESC, c.id DESC, k.score DESC`,
		likePattern(keyword))
	if err != nil {
		return nil, fmt.Errorf("%w: search conversations: %w", storage.ErrPersistence, err)
	}
	defer rows.Close()

	hits := []core.SearchHit{}
	for rows.Next() {
		var hit core.SearchHit
		var ms int64
		if err := rows.Scan(&hit.ConversationId, &hit.Text, &ms, &hit.Word, &hit.Score); err != nil {
			return nil, fmt.Errorf("%w: %w", storage.ErrPersistence, err)
		}
		hit.Timestamp = fromEpochMillis(ms)
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrPersistence, err)
	}
	return hits, nil
}

// FilteredLogs returns conversations with aggregated keywords, restricted
// by the provided bounds and keyword substring. Absent filters impose no
// constraint.
func (s *Store) FilteredLogs(ctx context.Context, start, end *time.Time, keyword string) ([]core.LogEntry, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT c.id, c.text, c.timestamp, GROUP_CONCAT(k.word)
		FROM conversations c
		LEFT JOIN keywords k ON c.id = k.conversation_id`

	var conditions []string
	var args []any

	if start != nil {
		conditions = append(conditions, "c.timestamp >= ?")
		args = append(args, toEpochMillis(*start))
	}
	if end != nil {
		conditions = append(conditions, "c.timestamp <= ?")
		args = append(args, toEpochMillis(*end))
	}
	if keyword != "" {
		conditions = append(conditions, `EXISTS (
			SELECT 1 FROM keywords kf
			WHERE kf.conversation_id = c.id AND kf.word LIKE ? ESCAPE '\'
		)`)
		args = append(args, likePattern(keyword))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " GROUP BY c.id ORDER BY c.timestamp DESC, c.id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: filter logs: %w", storage.ErrPersistence, err)
	}
	defer rows.Close()

	entries := []core.LogEntry{}
	for rows.Next() {
		var entry core.LogEntry
		var ms int64
		var words sql.NullString
		if err := rows.Scan(&entry.ConversationId, &entry.Text, &ms, &words); err != nil {
			return nil, fmt.Errorf("%w: %w", storage.ErrPersistence, err)
		}
		entry.Timestamp = fromEpochMillis(ms)
		if words.Valid && words.String != "" {
			entry.Keywords = strings.Split(words.String, ",")
		} else {
			entry.Keywords = []string{}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrPersistence, err)
	}
	return entries, nil
}
