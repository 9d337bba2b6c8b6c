package extract

import (
	"context"
	"log/slog"
	"sort"

	"github.com/poiesic/voxnota/core"
	"github.com/poiesic/voxnota/nlp"
)

// DefaultKeywordLimit is the number of keywords returned when the caller
// doesn't specify a limit.
const DefaultKeywordLimit = 5

// Extractor orchestrates the scoring strategies. It tries the primary
// embedding strategy when the model is ready and falls back to the
// deterministic frequency strategy on any failure, so extraction never
// blocks on model availability.
// Extraction is stateless and safely parallelizable across texts.
type Extractor struct {
	primary   *EmbeddingScorer // nil when running fallback-only
	fallback  *FrequencyScorer
	tokenizer *nlp.Tokenizer
	logger    *slog.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithPrimaryScorer sets the embedding scorer tried before the fallback.
// A nil scorer leaves the extractor in fallback-only mode.
func WithPrimaryScorer(scorer *EmbeddingScorer) ExtractorOption {
	return func(e *Extractor) {
		e.primary = scorer
	}
}

// WithTokenizer sets a custom tokenizer shared by the strategies.
func WithTokenizer(tokenizer *nlp.Tokenizer) ExtractorOption {
	return func(e *Extractor) {
		if tokenizer == nil {
			tokenizer = nlp.NewTokenizer()
		}
		e.tokenizer = tokenizer
		e.fallback = NewFrequencyScorer(tokenizer)
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ExtractorOption {
	return func(e *Extractor) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// NewExtractor creates a keyword extractor. Without options it runs the
// frequency strategy with the default tokenizer.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	tokenizer := nlp.NewTokenizer()
	e := &Extractor{
		fallback:  NewFrequencyScorer(tokenizer),
		tokenizer: tokenizer,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractKeywords returns up to limit keywords for the text, sorted by
// descending score with ties broken by first occurrence. A limit <= 0
// means DefaultKeywordLimit.
// Returns core.ErrEmptyText if the text is empty or whitespace-only;
// text with no qualifying tokens yields an empty slice, not an error.
func (e *Extractor) ExtractKeywords(ctx context.Context, text string, limit int) ([]core.WordScore, error) {
	if core.IsBlank(text) {
		return nil, core.ErrEmptyText
	}
	if limit <= 0 {
		limit = DefaultKeywordLimit
	}

	var scores []core.WordScore
	if e.primary != nil && e.primary.Ready() {
		primaryScores, err := e.primary.Score(ctx, text)
		if err != nil {
			e.logger.Warn("embedding scorer failed, falling back to frequency", "err", err)
		} else {
			scores = primaryScores
		}
	}
	if scores == nil {
		var err error
		scores, err = e.fallback.Score(ctx, text)
		if err != nil {
			return nil, err
		}
	}

	// Stable sort keeps first-seen order on ties.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	if len(scores) > limit {
		scores = scores[:limit]
	}
	return scores, nil
}
