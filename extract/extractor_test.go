package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/voxnota/core"
	"github.com/poiesic/voxnota/nlp/mock"
)

func TestExtractKeywords(t *testing.T) {
	ctx := context.Background()

	t.Run("empty text", func(t *testing.T) {
		extractor := NewExtractor()
		_, err := extractor.ExtractKeywords(ctx, "", 5)
		assert.ErrorIs(t, err, core.ErrEmptyText)
	})

	t.Run("whitespace only text", func(t *testing.T) {
		extractor := NewExtractor()
		_, err := extractor.ExtractKeywords(ctx, "   \t\n  ", 5)
		assert.ErrorIs(t, err, core.ErrEmptyText)
	})

	t.Run("stop words only is empty not error", func(t *testing.T) {
		extractor := NewExtractor()
		scores, err := extractor.ExtractKeywords(ctx, "the and of that", 5)
		require.NoError(t, err)
		assert.Empty(t, scores)
	})

	t.Run("sorted by descending score with first occurrence tie break", func(t *testing.T) {
		extractor := NewExtractor()
		text := "The quick brown fox jumps over the lazy dog. The quick fox jumps repeatedly."

		scores, err := extractor.ExtractKeywords(ctx, text, 10)
		require.NoError(t, err)

		words := make([]string, len(scores))
		for i, ws := range scores {
			words[i] = ws.Word
		}
		// quick and jumps appear twice each and tie; quick occurs first.
		assert.Equal(t, []string{"quick", "jumps", "repeatedly", "brown", "lazy"}, words)
		for i := 1; i < len(scores); i++ {
			assert.GreaterOrEqual(t, scores[i-1].Score, scores[i].Score)
		}
	})

	t.Run("longer words outrank at equal frequency", func(t *testing.T) {
		extractor := NewExtractor()
		text := "The quick brown fox jumps over the lazy dog repeatedly"

		scores, err := extractor.ExtractKeywords(ctx, text, 3)
		require.NoError(t, err)
		require.Len(t, scores, 3)
		// All qualifying words occur once; repeatedly wins on length and
		// the equally scored five-letter words keep input order.
		assert.Equal(t, "repeatedly", scores[0].Word)
		assert.Equal(t, "quick", scores[1].Word)
		assert.Equal(t, "brown", scores[2].Word)
	})

	t.Run("limit truncates", func(t *testing.T) {
		extractor := NewExtractor()
		text := "The quick brown fox jumps over the lazy dog. The quick fox jumps repeatedly."

		scores, err := extractor.ExtractKeywords(ctx, text, 3)
		require.NoError(t, err)
		require.Len(t, scores, 3)
		assert.Equal(t, "quick", scores[0].Word)
		assert.Equal(t, "jumps", scores[1].Word)
		assert.Equal(t, "repeatedly", scores[2].Word)
	})

	t.Run("zero limit uses default", func(t *testing.T) {
		extractor := NewExtractor()
		text := "alpha beta gamma delta epsilon zeta theta kappa"

		scores, err := extractor.ExtractKeywords(ctx, text, 0)
		require.NoError(t, err)
		assert.Len(t, scores, DefaultKeywordLimit)
	})

	t.Run("fewer qualifying words than limit", func(t *testing.T) {
		extractor := NewExtractor()
		scores, err := extractor.ExtractKeywords(ctx, "budget meeting", 5)
		require.NoError(t, err)
		assert.Len(t, scores, 2)
	})
}

func TestExtractKeywordsFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("uses primary when ready", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		primary, err := NewEmbeddingScorer(embedder, nil)
		require.NoError(t, err)
		require.NoError(t, primary.Initialize(ctx))

		extractor := NewExtractor(WithPrimaryScorer(primary))
		before := embedder.CallCount()

		_, err = extractor.ExtractKeywords(ctx, "Release planning today. Testing starts tomorrow.", 5)
		require.NoError(t, err)
		assert.Greater(t, embedder.CallCount(), before)
	})

	t.Run("skips primary when not ready", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("connection refused")
		}
		primary, err := NewEmbeddingScorer(embedder, nil)
		require.NoError(t, err)
		require.Error(t, primary.Initialize(ctx))
		probes := embedder.CallCount()

		extractor := NewExtractor(WithPrimaryScorer(primary))
		scores, err := extractor.ExtractKeywords(ctx, "Release planning today. Testing starts tomorrow.", 5)
		require.NoError(t, err)
		assert.NotEmpty(t, scores)
		assert.Equal(t, probes, embedder.CallCount())
	})

	t.Run("falls back when primary fails mid call", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		primary, err := NewEmbeddingScorer(embedder, nil)
		require.NoError(t, err)
		require.NoError(t, primary.Initialize(ctx))

		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("timeout")
		}

		extractor := NewExtractor(WithPrimaryScorer(primary))
		frequency := NewFrequencyScorer(nil)

		text := "Release planning today. Testing starts tomorrow."
		scores, err := extractor.ExtractKeywords(ctx, text, 10)
		require.NoError(t, err)

		want, err := frequency.Score(ctx, text)
		require.NoError(t, err)
		assert.Len(t, scores, len(want))
	})

	t.Run("matches fallback output without primary", func(t *testing.T) {
		extractor := NewExtractor()
		text := "budget budget meeting quarterly"

		scores, err := extractor.ExtractKeywords(ctx, text, 10)
		require.NoError(t, err)
		require.Len(t, scores, 3)
		assert.Equal(t, "budget", scores[0].Word)
	})
}
