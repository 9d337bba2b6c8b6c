package extract

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/poiesic/voxnota/core"
	"github.com/poiesic/voxnota/nlp"
)

// initProbeText is embedded once during initialization to verify the
// backend is reachable and the model is loaded.
const initProbeText = "hello"

// EmbeddingScorer is the primary, best-effort scoring strategy. It
// weights each word's frequency score by how central the sentences
// containing it are to the document, measured as cosine similarity of
// sentence embeddings to the document centroid.
//
// The scorer must be initialized before use; initialization failure is
// cached so callers are not charged a model round-trip on every call.
// After initialization the underlying model is a shared read-only
// resource and Score is safe for concurrent use.
type EmbeddingScorer struct {
	embedder  nlp.Embedder
	tokenizer *nlp.Tokenizer
	frequency *FrequencyScorer
	logger    *slog.Logger

	mu          sync.Mutex
	initialized bool
	initErr     error
}

var _ Scorer = (*EmbeddingScorer)(nil)

// NewEmbeddingScorer creates an embedding scorer. The scorer is not
// usable until Initialize succeeds. A nil tokenizer gets the default
// configuration.
func NewEmbeddingScorer(embedder nlp.Embedder, tokenizer *nlp.Tokenizer) (*EmbeddingScorer, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if tokenizer == nil {
		tokenizer = nlp.NewTokenizer()
	}
	return &EmbeddingScorer{
		embedder:  embedder,
		tokenizer: tokenizer,
		frequency: NewFrequencyScorer(tokenizer),
		logger:    slog.Default().With("component", "embedding-scorer"),
	}, nil
}

// Initialize probes the embedding backend once. Subsequent calls are
// no-ops: a successful probe stays successful and a failed probe stays
// failed until Reinitialize. Initialization failure must not crash the
// caller; it leaves the scorer unavailable and the extractor in
// fallback-only mode.
func (s *EmbeddingScorer) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return s.initErr
	}

	if _, err := s.embedder.EmbedText(ctx, initProbeText); err != nil {
		s.initErr = fmt.Errorf("%w: %w", ErrModelUnavailable, err)
		s.logger.Warn("embedding model initialization failed", "err", err)
	} else {
		s.initErr = nil
		s.logger.Info("embedding model initialized")
	}
	s.initialized = true
	return s.initErr
}

// Reinitialize clears a cached initialization result and probes again.
func (s *EmbeddingScorer) Reinitialize(ctx context.Context) error {
	s.mu.Lock()
	s.initialized = false
	s.initErr = nil
	s.mu.Unlock()
	return s.Initialize(ctx)
}

// Ready reports whether the scorer was initialized successfully.
func (s *EmbeddingScorer) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized && s.initErr == nil
}

// Score computes frequency scores and weights them by sentence
// similarity. Any model failure is reported as ErrModelUnavailable;
// callers fall back to the frequency strategy for that call.
func (s *EmbeddingScorer) Score(ctx context.Context, text string) ([]core.WordScore, error) {
	if !s.Ready() {
		return nil, ErrModelUnavailable
	}

	base := s.frequency.ScoreTokens(s.tokenizer.Tokenize(text))
	if len(base) == 0 {
		return base, nil
	}

	sentences := s.tokenizer.SplitSentences(text)
	if len(sentences) < 2 {
		// A single sentence carries no similarity signal: the result
		// degrades exactly to the frequency output.
		return base, nil
	}

	vectors, err := s.embedder.EmbedTexts(ctx, sentences)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}
	if len(vectors) != len(sentences) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d sentences",
			ErrModelUnavailable, len(vectors), len(sentences))
	}

	centroid := meanVector(vectors)
	similarities := make([]float64, len(vectors))
	for i, vector := range vectors {
		similarities[i] = clamp01(cosineSimilarity(vector, centroid))
	}

	// Map each word to the sentences it appears in.
	occurrences := make(map[string][]int)
	for i, sentence := range sentences {
		for _, token := range s.tokenizer.Tokenize(sentence) {
			occurrences[token] = append(occurrences[token], i)
		}
	}

	scores := make([]core.WordScore, len(base))
	for i, ws := range base {
		weight := 1.0
		if idxs := occurrences[ws.Word]; len(idxs) > 0 {
			var sum float64
			for _, idx := range idxs {
				sum += similarities[idx]
			}
			mean := sum / float64(len(idxs))
			// Keep the weight in [0.5, 1] so scores stay non-negative
			// and no word is zeroed out by a single off-topic sentence.
			weight = 0.5 + 0.5*mean
		}
		scores[i] = core.WordScore{Word: ws.Word, Score: ws.Score * weight}
	}
	return scores, nil
}

// meanVector computes the element-wise mean of the vectors.
func meanVector(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	mean := make([]float32, len(vectors[0]))
	for _, vector := range vectors {
		for i := 0; i < len(mean) && i < len(vector); i++ {
			mean[i] += vector[i]
		}
	}
	for i := range mean {
		mean[i] /= float32(len(vectors))
	}
	return mean
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Zero-magnitude vectors yield 0.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// clamp01 restricts v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
