package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/voxnota/core"
	"github.com/poiesic/voxnota/storage"
)

// dateOnlyLayout is the format the UI sends for date pickers.
const dateOnlyLayout = "2006-01-02"

// Engine composes conversation store reads for the search and logs views.
type Engine struct {
	repository storage.ConversationRepository
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// NewEngine creates a query engine over the repository.
func NewEngine(repository storage.ConversationRepository, opts ...Option) (*Engine, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}

	e := &Engine{
		repository: repository,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Filter carries human-entered criteria for the logs view. Empty fields
// impose no constraint.
type Filter struct {
	// StartDate is the inclusive lower bound, as "2006-01-02" or RFC 3339.
	StartDate string
	// EndDate is the inclusive upper bound. A date-only value covers the
	// whole day it names.
	EndDate string
	// Keyword restricts results to conversations with a keyword
	// containing this substring, case-insensitively.
	Keyword string
}

// Keywords returns the distinct keyword universe, lexicographically sorted.
func (e *Engine) Keywords(ctx context.Context) ([]string, error) {
	return e.repository.Keywords(ctx)
}

// Conversation returns one conversation with its stored keyword rows,
// highest score first, for the detail view.
func (e *Engine) Conversation(ctx context.Context, id int64) (*core.Conversation, []core.Keyword, error) {
	conversation, err := e.repository.GetConversation(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	keywords, err := e.repository.ConversationKeywords(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return conversation, keywords, nil
}

// Search returns conversations with a keyword containing the given
// substring, newest first. A blank keyword is rejected with
// ErrInvalidFilter; a keyword matching nothing yields an empty slice.
func (e *Engine) Search(ctx context.Context, keyword string) ([]core.SearchHit, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("%w: search keyword is required", ErrInvalidFilter)
	}
	return e.repository.SearchConversations(ctx, keyword)
}

// Logs returns conversations restricted by the filter, newest first.
// All provided criteria are ANDed.
func (e *Engine) Logs(ctx context.Context, filter Filter) ([]core.LogEntry, error) {
	start, err := parseDateBound(filter.StartDate, false)
	if err != nil {
		return nil, err
	}
	end, err := parseDateBound(filter.EndDate, true)
	if err != nil {
		return nil, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, fmt.Errorf("%w: end date %q precedes start date %q",
			ErrInvalidFilter, filter.EndDate, filter.StartDate)
	}

	return e.repository.FilteredLogs(ctx, start, end, strings.TrimSpace(filter.Keyword))
}

// parseDateBound turns a human-entered date string into a timestamp
// bound. Date-only upper bounds are pushed to the end of their day so
// the bound stays inclusive. An empty string means no bound.
func parseDateBound(value string, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(dateOnlyLayout, value); err == nil {
		t = t.UTC()
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t, nil
	}

	return nil, fmt.Errorf("%w: cannot parse date %q", ErrInvalidFilter, value)
}
