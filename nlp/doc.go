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


// Package nlp provides text normalization and the embedding abstraction
// used by keyword extraction.
//
// The Tokenizer turns transcript text into keyword candidate tokens and
// is a pure function of its configuration. The Embedder interface hides
// the sentence-embedding backend so the extraction layer never couples
// to a specific model provider.
//
// # Usage Example
//
//	// Production usage with an OpenAI-compatible embedding service
//	config := nlp.DefaultConfig()
//	embedder, err := openai.NewEmbedder(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	vectors, err := embedder.EmbedTexts(ctx, sentences)
//
//	// Testing usage with mocks
//	embedder := mock.NewMockEmbedder()
package nlp
