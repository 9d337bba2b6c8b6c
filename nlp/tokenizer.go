package nlp

import (
	"strings"
	"unicode"
)

// DefaultMinWordLength is the token length cutoff: only tokens strictly
// longer than this qualify as keyword candidates.
const DefaultMinWordLength = 3

// defaultStopWords is the fixed set of common function words excluded
// from keyword candidacy: articles, conjunctions, auxiliary verbs and
// prepositions.
var defaultStopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "with": true,
	"is": true, "am": true, "are": true, "was": true, "were": true, "be": true,
	"been": true, "being": true, "have": true, "has": true, "had": true,
	"do": true, "does": true, "did": true, "will": true, "would": true,
	"shall": true, "should": true, "can": true, "could": true, "may": true,
	"might": true, "must": true, "that": true, "this": true, "these": true,
	"those": true, "of": true, "from": true, "as": true, "by": true,
	"about": true, "like": true, "through": true, "over": true, "before": true,
	"after": true, "between": true, "under": true, "above": true, "below": true,
	"up": true, "down": true, "into": true, "onto": true, "upon": true,
}

// Tokenizer normalizes transcript text into keyword candidate tokens.
// It is deterministic for identical input and configuration and safe
// for concurrent use.
type Tokenizer struct {
	minWordLength int
	stopWords     map[string]bool
}

// TokenizerOption configures a Tokenizer.
type TokenizerOption func(*Tokenizer)

// WithMinWordLength sets the token length cutoff. Tokens with length
// less than or equal to n are dropped.
func WithMinWordLength(n int) TokenizerOption {
	return func(t *Tokenizer) {
		if n < 0 {
			n = 0
		}
		t.minWordLength = n
	}
}

// WithStopWords replaces the default stop-word set.
func WithStopWords(words []string) TokenizerOption {
	return func(t *Tokenizer) {
		set := make(map[string]bool, len(words))
		for _, w := range words {
			set[strings.ToLower(w)] = true
		}
		t.stopWords = set
	}
}

// NewTokenizer creates a tokenizer with the default cutoff and stop words.
func NewTokenizer(opts ...TokenizerOption) *Tokenizer {
	t := &Tokenizer{
		minWordLength: DefaultMinWordLength,
		stopWords:     defaultStopWords,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tokenize lowercases the text, strips every rune outside the word and
// whitespace classes, splits on whitespace runs, and drops tokens that
// are too short or are stop words. Token order follows the input text.
func (t *Tokenizer) Tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if isWordRune(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, strings.ToLower(text))

	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, word := range fields {
		if len(word) <= t.minWordLength {
			continue
		}
		if t.stopWords[word] {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// SplitSentences splits text on runs of sentence terminators, trims the
// pieces and discards empty ones. Used only by the embedding path.
func (t *Tokenizer) SplitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

// isWordRune reports whether the rune belongs to the word class.
func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
}
