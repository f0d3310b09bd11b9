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


// Package storage provides the storage abstraction layer for corpora.
//
// It defines repository interfaces that decouple the search and ingestion
// logic from the storage implementation, so backends can be swapped without
// touching business logic. The storage/badger sub-package provides the
// BadgerDB implementation used in production and, via in-memory mode, in
// tests.
//
// # Constructor Return Type Pattern
//
// Public constructors in implementation packages return interface types to
// prevent accidental coupling to backend specifics:
//
//	docs, err := badger.NewDocumentRepository(backend)  // storage.DocumentRepository
//
// Internal constructors may return concrete types since they are only used
// within the implementation package.
//
// # Architecture
//
//   - DocumentRepository: raw documents keyed by caller-supplied DocID
//   - VectorStore: indexed chunk entries with similarity search and a
//     degraded substring fallback
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and
// timeout support.
package storage
