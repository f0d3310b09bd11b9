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


// Package ingestion orchestrates document indexing.
//
// The Pipeline fans documents out over a worker pool; each document is
// validated, chunked, committed to the vocabulary, embedded, upserted into
// the vector store (with retry and backoff on transient write failures)
// and added to the keyword index. Re-indexing a DocID supersedes the prior
// version: old chunks are removed from the vector store and keyword index
// before the new ones land.
//
// A pass runs to completion: per-document failures are collected and
// reported through the final progress event and the joined return error,
// never as an escaping panic.
package ingestion
