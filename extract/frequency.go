package extract

import (
	"context"
	"math"

	"github.com/poiesic/voxnota/core"
	"github.com/poiesic/voxnota/nlp"
)

// FrequencyScorer is the deterministic fallback scoring strategy.
// It combines term frequency with a corpus-free length heuristic
// standing in for true inverse document frequency: longer words are
// weighted as more distinctive.
type FrequencyScorer struct {
	tokenizer *nlp.Tokenizer
}

var _ Scorer = (*FrequencyScorer)(nil)

// NewFrequencyScorer creates a frequency scorer. A nil tokenizer gets
// the default configuration.
func NewFrequencyScorer(tokenizer *nlp.Tokenizer) *FrequencyScorer {
	if tokenizer == nil {
		tokenizer = nlp.NewTokenizer()
	}
	return &FrequencyScorer{tokenizer: tokenizer}
}

// Score normalizes the text and scores the resulting tokens.
// It never fails; text with no qualifying tokens yields an empty slice.
func (s *FrequencyScorer) Score(ctx context.Context, text string) ([]core.WordScore, error) {
	return s.ScoreTokens(s.tokenizer.Tokenize(text)), nil
}

// ScoreTokens scores pre-normalized tokens. Each distinct word gets
//
//	tf(w)  = count(w) / totalTokens
//	idf(w) = ln(1 + len(w)/5)
//	score  = tf * idf
//
// Words are returned in first-seen order. Pure function: identical
// tokens always produce identical scores.
func (s *FrequencyScorer) ScoreTokens(tokens []string) []core.WordScore {
	if len(tokens) == 0 {
		return []core.WordScore{}
	}

	counts := make(map[string]int, len(tokens))
	order := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, seen := counts[token]; !seen {
			order = append(order, token)
		}
		counts[token]++
	}

	total := float64(len(tokens))
	scores := make([]core.WordScore, 0, len(order))
	for _, word := range order {
		tf := float64(counts[word]) / total
		idf := math.Log(1 + float64(len(word))/5)
		scores = append(scores, core.WordScore{Word: word, Score: tf * idf})
	}
	return scores
}
