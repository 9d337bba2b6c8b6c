// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package voxnota indexes spoken-conversation transcripts: it extracts
// scored keywords from text and persists conversations with their
// keywords for substring and date-range retrieval.
//
// Engine is the facade wiring the conversation store, the keyword
// extractor and the query layer together. Components remain usable on
// their own for callers that need finer control.
package voxnota

import (
	"context"
	"log/slog"

	"github.com/poiesic/voxnota/extract"
	"github.com/poiesic/voxnota/nlp"
	"github.com/poiesic/voxnota/nlp/openai"
	"github.com/poiesic/voxnota/query"
	"github.com/poiesic/voxnota/storage"
	"github.com/poiesic/voxnota/storage/sqlite"
)

// Engine wires the conversation store, keyword extraction pipeline and
// query layer.
type Engine struct {
	store     storage.ConversationRepository
	primary   *extract.EmbeddingScorer
	extractor *extract.Extractor
	pipeline  *extract.Pipeline
	queries   *query.Engine
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	nlpConfig    *nlp.Config
	tokenizer    *nlp.Tokenizer
	keywordLimit int
	noEmbeddings bool
}

// WithNLPConfig sets the embedding backend configuration.
func WithNLPConfig(config *nlp.Config) EngineOption {
	return func(o *engineOptions) {
		o.nlpConfig = config
	}
}

// WithTokenizer sets the tokenizer shared by the scoring strategies.
func WithTokenizer(tokenizer *nlp.Tokenizer) EngineOption {
	return func(o *engineOptions) {
		o.tokenizer = tokenizer
	}
}

// WithKeywordLimit sets how many keywords are kept per conversation.
func WithKeywordLimit(limit int) EngineOption {
	return func(o *engineOptions) {
		o.keywordLimit = limit
	}
}

// WithoutEmbeddings disables the embedding strategy entirely; the engine
// runs on the deterministic frequency scorer only.
func WithoutEmbeddings() EngineOption {
	return func(o *engineOptions) {
		o.noEmbeddings = true
	}
}

// NewEngine opens (creating if necessary) the conversation database at
// filePath and wires the full extraction and query stack. A failure to
// construct the embedding client is not fatal: the engine starts in
// fallback-only mode.
func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		nlpConfig:    nlp.DefaultConfig(),
		keywordLimit: extract.DefaultKeywordLimit,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.tokenizer == nil {
		options.tokenizer = nlp.NewTokenizer()
	}

	logger := slog.Default()

	store, err := sqlite.OpenStore(filePath)
	if err != nil {
		return nil, err
	}

	var primary *extract.EmbeddingScorer
	if !options.noEmbeddings {
		embedder, err := openai.NewEmbedder(options.nlpConfig)
		if err != nil {
			logger.Warn("embedding backend unavailable, running fallback-only", "err", err)
		} else {
			primary, err = extract.NewEmbeddingScorer(embedder, options.tokenizer)
			if err != nil {
				store.Close()
				return nil, err
			}
		}
	}

	extractorOpts := []extract.ExtractorOption{
		extract.WithTokenizer(options.tokenizer),
	}
	if primary != nil {
		extractorOpts = append(extractorOpts, extract.WithPrimaryScorer(primary))
	}
	extractor := extract.NewExtractor(extractorOpts...)

	pipeline, err := extract.NewPipeline(store, extractor,
		extract.WithKeywordLimit(options.keywordLimit))
	if err != nil {
		store.Close()
		return nil, err
	}

	queries, err := query.NewEngine(store)
	if err != nil {
		pipeline.Release()
		store.Close()
		return nil, err
	}

	return &Engine{
		store:     store,
		primary:   primary,
		extractor: extractor,
		pipeline:  pipeline,
		queries:   queries,
		logger:    logger,
	}, nil
}

// InitializeModel probes the embedding backend. Probe failure is cached
// and leaves the engine in fallback-only mode; it never fails the
// caller. Idempotent: repeat calls after success are no-ops.
func (e *Engine) InitializeModel(ctx context.Context) {
	if e.primary == nil {
		return
	}
	if err := e.primary.Initialize(ctx); err != nil {
		e.logger.Warn("keyword extraction running fallback-only", "err", err)
	}
}

// Close releases the pipeline and closes the store.
func (e *Engine) Close() error {
	e.pipeline.Release()

	if err := e.store.Close(); err != nil {
		e.logger.Error("error closing conversation store", "err", err)
		return err
	}
	return nil
}

// Store returns the conversation repository.
func (e *Engine) Store() storage.ConversationRepository {
	return e.store
}

// Extractor returns the keyword extractor.
func (e *Engine) Extractor() *extract.Extractor {
	return e.extractor
}

// Pipeline returns the ingestion pipeline.
func (e *Engine) Pipeline() *extract.Pipeline {
	return e.pipeline
}

// Queries returns the query engine backing the search and logs views.
func (e *Engine) Queries() *query.Engine {
	return e.queries
}
