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


// Package embed turns text into fixed-dimension vectors for similarity
// search.
//
// The package defines the Embedder interface and two implementations:
//
//   - LexicalEmbedder: a local, deterministic TF-IDF embedder backed by a
//     VocabularyStore that grows with the indexed corpus. No network, no
//     model downloads; the same text against the same corpus state always
//     produces the same vector.
//   - embed/openai: a remote embedder for OpenAI-compatible APIs, for
//     deployments that want model embeddings instead of lexical ones.
//
// embed/mock provides a test double with injectable behavior.
//
// Public constructors return interface types where callers should stay
// decoupled from the implementation; test constructors return concrete
// types so tests can reach assertion helpers.
package embed
