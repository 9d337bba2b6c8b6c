package extract

import (
	"context"

	"github.com/poiesic/voxnota/core"
)

// Scorer maps text to scored keyword candidates.
// Implementations return candidates in first-seen token order; the
// Extractor applies the descending stable sort and the result limit, so
// ties keep their order of first occurrence.
// Implementations must be safe for concurrent use.
type Scorer interface {
	Score(ctx context.Context, text string) ([]core.WordScore, error)
}
