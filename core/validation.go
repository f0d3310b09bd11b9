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
)

// ValidateDocument validates a RawDocument according to domain rules.
//
// Validation rules:
//   - DocID must not be empty
//   - Content must not be empty or whitespace-only
//
// NOT validated (populated during indexing):
//   - Id (derived from DocID)
//   - IndexedAt, ChunkCount
func ValidateDocument(doc *RawDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.DocID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyDocID)
	}

	if strings.TrimSpace(doc.Content) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}

	return nil
}

// ValidateChunk validates a Chunk against its parent document's text.
//
// Validation rules:
//   - offsets lie within the parent text and in order
//   - Content equals the parent text sliced at the declared offsets
func ValidateChunk(chunk *Chunk, parentText string) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.StartOffset < 0 || chunk.EndOffset > len(parentText) || chunk.StartOffset >= chunk.EndOffset {
		return fmt.Errorf("%w: [%d, %d) in text of length %d",
			ErrOffsetOutOfRange, chunk.StartOffset, chunk.EndOffset, len(parentText))
	}

	if chunk.Content != parentText[chunk.StartOffset:chunk.EndOffset] {
		return fmt.Errorf("%w: content does not match declared offsets", ErrInvalidChunk)
	}

	return nil
}

// NormalizeText canonicalizes document text before chunking: line endings
// become LF and surrounding whitespace is trimmed. All chunk offsets refer
// to the normalized text.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.TrimSpace(text)
}
