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


// Package extract implements keyword extraction and the ingestion
// pipeline that ties extraction to the conversation store.
//
// Two scoring strategies implement the Scorer interface:
//
//   - FrequencyScorer: deterministic term-frequency heuristic with no
//     external dependency. Always available.
//   - EmbeddingScorer: weights frequency scores by sentence-embedding
//     similarity. Requires an initialized embedding backend and degrades
//     gracefully to the frequency output on any failure.
//
// The Extractor supervises the two: it tries the embedding strategy when
// the model is ready and falls back on any error, so keyword quality may
// degrade but extraction itself never blocks conversation storage.
//
// The Pipeline runs extract-then-store as one call, fans batches out
// over a worker pool, and publishes results on a subscribable stream.
package extract
