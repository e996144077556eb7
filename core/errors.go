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
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidRecord indicates an EmbeddingRecord failed validation.
	ErrInvalidRecord = errors.New("invalid embedding record")

	// ErrEmptyText indicates the chunk has no text to embed or store.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrEmptyDocumentID indicates the document id is missing.
	ErrEmptyDocumentID = errors.New("document id cannot be empty")

	// ErrInvalidTimeRange indicates a time range ends before it starts.
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrEmptyVector indicates a record has no embedding vector.
	ErrEmptyVector = errors.New("vector cannot be empty")
)
