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


package search

import "errors"

var (
	// ErrVectorStoreRequired is returned when a vector store is not provided.
	ErrVectorStoreRequired = errors.New("vector store required")

	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrKeywordIndexRequired is returned when a keyword index is not provided.
	ErrKeywordIndexRequired = errors.New("keyword index required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmptyQuery indicates a blank query string.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrInvalidTopK indicates a negative result limit.
	ErrInvalidTopK = errors.New("topK must not be negative")

	// ErrInvalidWeights indicates negative or all-zero fusion weights.
	ErrInvalidWeights = errors.New("fusion weights must be non-negative and not both zero")
)
