package core

import "time"

// Conversation represents one stored transcript.
// Conversations are created exactly once and are immutable thereafter.
type Conversation struct {
	Id        int64
	Text      string
	Timestamp time.Time // When the conversation was captured
}

// WordScore pairs a normalized word with its relative importance
// within the source text. Scores are non-negative.
type WordScore struct {
	Word  string
	Score float64
}

// Keyword is a scored word owned by exactly one conversation.
// It is removed together with its parent conversation.
type Keyword struct {
	Id             int64
	ConversationId int64
	Word           string
	Score          float64
	Timestamp      time.Time // Inherited from the parent conversation
}

// SearchHit is a keyword match joined to its parent conversation.
type SearchHit struct {
	ConversationId int64
	Text           string
	Timestamp      time.Time
	Word           string // The stored keyword that matched the query
	Score          float64
}

// LogEntry is one conversation with its aggregated keyword list,
// as returned by the filtered logs view.
type LogEntry struct {
	ConversationId int64
	Text           string
	Timestamp      time.Time
	Keywords       []string
}
