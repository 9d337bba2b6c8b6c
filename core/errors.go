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


package core

import "errors"

// Domain validation errors
var (
	// ErrEmptyText indicates extraction or storage was invoked on
	// empty or whitespace-only text.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrInvalidConversation indicates a Conversation failed validation.
	ErrInvalidConversation = errors.New("invalid conversation")

	// ErrInvalidKeyword indicates a Keyword failed validation.
	ErrInvalidKeyword = errors.New("invalid keyword")

	// ErrEmptyWord indicates the Word field is empty.
	ErrEmptyWord = errors.New("word cannot be empty")

	// ErrNegativeScore indicates a keyword score below zero.
	ErrNegativeScore = errors.New("score cannot be negative")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")
)
