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


// Package query is the thin composition layer over the conversation
// store used by the search and logs views.
//
// It translates human-entered date strings and free-text keywords into
// the bounds and substring arguments the store expects. Malformed filters are rejected with
// ErrInvalidFilter before they ever reach the store; queries that match
// nothing return empty well-formed results, never an error.
package query
