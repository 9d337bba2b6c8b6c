package extract

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/voxnota/core"
	"github.com/poiesic/voxnota/storage"
)

// resultBufferSize is the per-subscriber channel capacity. Results for
// slow subscribers are dropped rather than blocking ingestion.
const resultBufferSize = 16

// Result is published on the pipeline's result stream after a
// conversation and its keywords are committed.
type Result struct {
	ConversationId int64
	Text           string
	Keywords       []core.WordScore
}

// BatchItem is the outcome of one transcript in a batch ingest.
// Items are returned in input order.
type BatchItem struct {
	ConversationId int64
	Keywords       []core.WordScore
	Err            error
}

// Pipeline ties keyword extraction to the conversation store: extract,
// persist atomically, publish. Batches are processed concurrently on a
// worker pool.
type Pipeline struct {
	repository storage.ConversationRepository
	extractor  *Extractor
	pool       *ants.Pool
	limit      int
	logger     *slog.Logger

	mu          sync.Mutex
	subscribers []chan Result
	released    bool
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline) error

// WithPoolSize sets the worker pool size for batch processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) PipelineOption {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithKeywordLimit sets how many keywords are extracted per transcript.
// Default is DefaultKeywordLimit.
func WithKeywordLimit(limit int) PipelineOption {
	return func(p *Pipeline) error {
		if limit < 1 {
			limit = DefaultKeywordLimit
		}
		p.limit = limit
		return nil
	}
}

// WithPipelineLogger sets a custom logger.
// Default is slog.Default().
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(repository storage.ConversationRepository, extractor *Extractor, opts ...PipelineOption) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository: repository,
		extractor:  extractor,
		pool:       pool,
		limit:      DefaultKeywordLimit,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Subscribe returns a channel receiving a Result for every successfully
// stored conversation. The channel is closed when the pipeline is
// released. Slow subscribers miss results instead of blocking writers.
func (p *Pipeline) Subscribe() <-chan Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan Result, resultBufferSize)
	if p.released {
		close(ch)
		return ch
	}
	p.subscribers = append(p.subscribers, ch)
	return ch
}

// publish sends the result to every subscriber without blocking.
func (p *Pipeline) publish(result Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, ch := range p.subscribers {
		select {
		case ch <- result:
		default:
			p.logger.Warn("dropping result for slow subscriber",
				"conversationId", result.ConversationId)
		}
	}
}

// Ingest extracts keywords from the transcript and stores both in one
// transaction. Extraction quality degrades to the fallback strategy on
// model failure, but persistence errors are always propagated so the
// caller can retry. A zero timestamp defaults to the current time.
func (p *Pipeline) Ingest(ctx context.Context, text string, timestamp time.Time) (int64, []core.WordScore, error) {
	keywords, err := p.extractor.ExtractKeywords(ctx, text, p.limit)
	if err != nil {
		return 0, nil, err
	}

	id, err := p.repository.StoreConversation(ctx, text, timestamp, keywords)
	if err != nil {
		return 0, nil, err
	}

	p.publish(Result{ConversationId: id, Text: text, Keywords: keywords})
	return id, keywords, nil
}

// IngestBatch ingests the transcripts concurrently on the worker pool.
// All transcripts share the given timestamp; per-item failures don't
// stop the rest of the batch.
func (p *Pipeline) IngestBatch(ctx context.Context, texts []string, timestamp time.Time) []BatchItem {
	items := make([]BatchItem, len(texts))

	var wg sync.WaitGroup
	for i, text := range texts {
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			id, keywords, err := p.Ingest(ctx, text, timestamp)
			items[i] = BatchItem{ConversationId: id, Keywords: keywords, Err: err}
			if err != nil {
				p.logger.Error("error ingesting transcript", "index", i, "err", err)
			}
		})
		if submitErr != nil {
			wg.Done()
			items[i] = BatchItem{Err: submitErr}
		}
	}
	wg.Wait()

	return items
}

// Release releases the worker pool and closes all subscriber channels.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return
	}
	p.released = true
	for _, ch := range p.subscribers {
		close(ch)
	}
	p.subscribers = nil
}
