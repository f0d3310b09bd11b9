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


// Package search provides hybrid semantic and keyword search over indexed
// chunks.
//
// The Engine runs two retrieval branches in parallel — vector similarity
// against the vector store and exact-term lookup against the keyword
// index — then fuses the candidates with weighted scores, deduplicates per
// document, applies metadata filters and an optional bounded rerank, and
// returns ranked results with a full score breakdown. A caller timeout
// cancels stragglers and yields partial results rather than an error.
package search
