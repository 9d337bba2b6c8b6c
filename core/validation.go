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

import (
	"fmt"
	"strings"
	"time"
)

// ValidateConversation validates a Conversation according to domain rules.
//
// Validation rules:
//   - Text must not be empty or whitespace-only
//   - Timestamp must not be in the future
//
// NOT validated:
//   - Id (0 is valid before the store assigns one)
func ValidateConversation(conversation *Conversation) error {
	if conversation == nil {
		return fmt.Errorf("%w: conversation is nil", ErrInvalidConversation)
	}

	if IsBlank(conversation.Text) {
		return fmt.Errorf("%w: %w", ErrInvalidConversation, ErrEmptyText)
	}

	if !conversation.Timestamp.IsZero() && !IsValidTimestamp(conversation.Timestamp) {
		return fmt.Errorf("%w: %w", ErrInvalidConversation, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateWordScore validates an extracted keyword candidate.
//
// Validation rules:
//   - Word must not be empty
//   - Score must not be negative
func ValidateWordScore(ws *WordScore) error {
	if ws == nil {
		return fmt.Errorf("%w: word score is nil", ErrInvalidKeyword)
	}

	if ws.Word == "" {
		return fmt.Errorf("%w: %w", ErrInvalidKeyword, ErrEmptyWord)
	}

	if ws.Score < 0 {
		return fmt.Errorf("%w: %w: %f", ErrInvalidKeyword, ErrNegativeScore, ws.Score)
	}

	return nil
}

// IsBlank reports whether the text is empty or whitespace-only.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
