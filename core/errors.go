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
	// ErrInvalidDocument indicates a RawDocument failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyContent indicates the Content field is empty or whitespace-only.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyDocID indicates the DocID field is empty.
	ErrEmptyDocID = errors.New("document id cannot be empty")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrOffsetOutOfRange indicates chunk offsets fall outside the parent text.
	ErrOffsetOutOfRange = errors.New("chunk offsets out of range")

	// ErrNegativeLimit indicates a negative result limit was requested.
	ErrNegativeLimit = errors.New("limit cannot be negative")
)
