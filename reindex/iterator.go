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


package reindex

import (
	"context"

	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/storage"
)

const (
	// DefaultBatchSize is the default number of entries per batch.
	DefaultBatchSize = 100
)

// EntryIterator streams indexed entries out of a vector store in batches.
type EntryIterator struct {
	vectors   storage.VectorStore
	batchSize int
}

// NewEntryIterator creates an iterator.
// batchSize: number of entries per batch (must be > 0)
func NewEntryIterator(vectors storage.VectorStore, batchSize int) *EntryIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &EntryIterator{
		vectors:   vectors,
		batchSize: batchSize,
	}
}

// ForEach calls fn for each batch of entries in ascending chunk ID order.
// Entries are snapshotted before the first call, so fn may write back to the
// store without racing the iteration. Iteration stops on the first error
// from fn; context cancellation is checked between batches.
func (it *EntryIterator) ForEach(ctx context.Context, fn func([]*core.IndexedEntry) error) error {
	var entries []*core.IndexedEntry
	err := it.vectors.IterateEntries(ctx, func(entry *core.IndexedEntry) error {
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return err
	}

	for i := 0; i < len(entries); i += it.batchSize {
		end := i + it.batchSize
		if end > len(entries) {
			end = len(entries)
		}
		if err := fn(entries[i:end]); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	return nil
}
