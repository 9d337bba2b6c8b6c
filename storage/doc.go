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


// Package storage provides the storage abstraction layer for voxnota.
//
// This package defines the repository interface that decouples storage
// implementation from business logic, allowing different backends
// (SQLite, in-memory, etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// Public backend constructors return the storage.ConversationRepository
// interface rather than concrete types:
//
//	repo, err := sqlite.OpenStore(path)  // returns storage.ConversationRepository
//
// This design decision prioritizes:
//   - Abstraction: Prevents accidental coupling to SQLite specifics
//   - Swappability: Easy to add alternative backends
//   - Testing: Consumers can use in-memory stores without modification
//
// # Write semantics
//
// StoreConversation is one logical transaction: the conversation row and
// all of its keyword rows are committed together or not at all. Readers
// never observe a conversation without its keywords.
//
// # Usage
//
// Create a repository instance:
//
//	repo, err := sqlite.OpenStore("/path/to/db.sqlite")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
// Use in tests with in-memory storage:
//
//	repo, err := sqlite.NewMemoryStore()
package storage
