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


package badger

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/storage"
)

const (
	// scanFailureThreshold is how many consecutive similarity scan failures
	// flip the store into degraded mode.
	scanFailureThreshold = 3

	// Placeholder scores for degraded substring hits: monotonically
	// decreasing from fallbackBaseScore so ordering stays stable.
	fallbackBaseScore = 0.5
	fallbackScoreStep = 0.01
	fallbackFloor     = 0.01
)

// VectorRepository implements storage.VectorStore for BadgerDB.
//
// Similarity search is a full scan over stored entries using the dot
// product, which equals cosine similarity for the normalized vectors the
// embedders produce. After repeated scan failures the repository degrades
// to substring matching over chunk text until similarity is re-enabled.
type VectorRepository struct {
	backend   *Backend
	logger    *slog.Logger
	available atomic.Bool
	failures  atomic.Int32
}

var _ storage.VectorStore = (*VectorRepository)(nil)

// NewVectorRepository creates a vector store over the backend.
//
// Returns the storage.VectorStore interface to enforce abstraction.
func NewVectorRepository(backend *Backend) (storage.VectorStore, error) {
	return newVectorRepository(backend), nil
}

// newVectorRepository is the internal constructor returning the concrete
// type, used by tests that drive degraded mode directly.
func newVectorRepository(backend *Backend) *VectorRepository {
	r := &VectorRepository{
		backend: backend,
		logger:  slog.Default().With("component", "vector-store"),
	}
	r.available.Store(true)
	return r
}

// Close is a no-op; the backend owns the database lifecycle.
func (r *VectorRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *VectorRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SetSimilarityAvailable switches the similarity scan on or off. Turning it
// on also clears the failure counter. Operators use this to force or clear
// degraded mode.
func (r *VectorRepository) SetSimilarityAvailable(available bool) {
	r.available.Store(available)
	if available {
		r.failures.Store(0)
	}
}

// SimilarityAvailable reports whether the similarity scan is active.
func (r *VectorRepository) SimilarityAvailable() bool {
	return r.available.Load()
}

// Upsert stores entries keyed by chunk ID, replacing existing entries
// wholesale, and maintains the document→chunk index.
func (r *VectorRepository) Upsert(ctx context.Context, entries ...*core.IndexedEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		for _, entry := range entries {
			key := makeVectorEntryKey(entry.Chunk.Id)
			if err := tx.Set(key, storage.MarshalIndexedEntry(entry)); err != nil {
				return err
			}
			docKey := makeVectorDocKey(entry.Chunk.DocumentId, entry.Chunk.Id)
			if err := tx.Set(docKey, storage.MarshalID(entry.Chunk.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetEntry retrieves one entry by chunk ID.
func (r *VectorRepository) GetEntry(ctx context.Context, chunkID core.ID) (*core.IndexedEntry, error) {
	var result *core.IndexedEntry
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		var err error
		result, err = readEntry(tx, makeVectorEntryKey(chunkID))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// Delete removes entries by chunk ID. Unknown IDs are ignored.
func (r *VectorRepository) Delete(ctx context.Context, chunkIDs ...core.ID) error {
	if len(chunkIDs) == 0 {
		return nil
	}
	return r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		for _, id := range chunkIDs {
			key := makeVectorEntryKey(id)
			entry, err := readEntry(tx, key)
			if err != nil {
				return err
			}
			if entry == nil {
				continue
			}
			if err := tx.Delete(makeVectorDocKey(entry.Chunk.DocumentId, id)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// DeleteByDocument removes every entry belonging to the document and
// returns the removed chunk IDs.
func (r *VectorRepository) DeleteByDocument(ctx context.Context, documentID core.ID) ([]core.ID, error) {
	var removed []core.ID
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		prefix := makePartialVectorDocKey(documentID)

		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)

		var indexKeys [][]byte
		for iter.Seek(prefix); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}
			indexKeys = append(indexKeys, slices.Clone(key))
			chunkID := core.ID(binary.BigEndian.Uint64(key[len(key)-8:]))
			removed = append(removed, chunkID)
		}
		iter.Close()

		for i, key := range indexKeys {
			if err := tx.Delete(key); err != nil {
				return err
			}
			if err := tx.Delete(makeVectorEntryKey(removed[i])); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// Search returns entries similar to the query vector, ordered by descending
// similarity with ascending chunk ID breaking ties.
func (r *VectorRepository) Search(ctx context.Context, vector []float32, opts storage.VectorSearchOptions) ([]*storage.VectorHit, error) {
	if !r.available.Load() {
		return r.fallbackSearch(ctx, opts)
	}
	if len(vector) == 0 {
		return nil, nil
	}

	var hits []*storage.VectorHit
	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = []byte(vectorEntryPrefix + ":")
		iter := tx.NewIterator(iterOpts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entry *core.IndexedEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalIndexedEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			if entry == nil || len(entry.Vector) == 0 {
				continue
			}

			similarity := dotProduct(vector, entry.Vector)
			if similarity >= opts.MinSimilarity {
				hits = append(hits, &storage.VectorHit{Entry: entry, Similarity: similarity})
			}
		}
		return nil
	}, false)

	if err != nil {
		failures := r.failures.Add(1)
		r.logger.Warn("similarity scan failed", "err", err, "consecutiveFailures", failures)
		if failures >= scanFailureThreshold {
			r.available.Store(false)
			r.logger.Error("similarity search degraded after repeated failures")
		}
		return r.fallbackSearch(ctx, opts)
	}
	r.failures.Store(0)

	slices.SortFunc(hits, func(a, b *storage.VectorHit) int {
		if a.Similarity != b.Similarity {
			if a.Similarity > b.Similarity {
				return -1
			}
			return 1
		}
		if a.Entry.Chunk.Id < b.Entry.Chunk.Id {
			return -1
		}
		if a.Entry.Chunk.Id > b.Entry.Chunk.Id {
			return 1
		}
		return 0
	})

	if opts.TopK > 0 && len(hits) > opts.TopK {
		hits = hits[:opts.TopK]
	}
	return hits, nil
}

// fallbackSearch matches the raw query text against stored chunk content.
// Hits carry decreasing placeholder scores and are tagged Degraded; the
// minimum-similarity threshold does not apply to placeholders.
func (r *VectorRepository) fallbackSearch(ctx context.Context, opts storage.VectorSearchOptions) ([]*storage.VectorHit, error) {
	needle := strings.ToLower(strings.TrimSpace(opts.QueryText))
	if needle == "" {
		return nil, nil
	}

	var hits []*storage.VectorHit
	err := r.IterateEntries(ctx, func(entry *core.IndexedEntry) error {
		if !strings.Contains(strings.ToLower(entry.Chunk.Content), needle) {
			return nil
		}
		score := fallbackBaseScore - fallbackScoreStep*float32(len(hits))
		if score < fallbackFloor {
			score = fallbackFloor
		}
		hits = append(hits, &storage.VectorHit{Entry: entry, Similarity: score, Degraded: true})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: fallback scan: %w", storage.ErrUnavailable, err)
	}

	if opts.TopK > 0 && len(hits) > opts.TopK {
		hits = hits[:opts.TopK]
	}
	return hits, nil
}

// IterateEntries calls fn for every stored entry in ascending chunk ID
// order.
func (r *VectorRepository) IterateEntries(ctx context.Context, fn func(entry *core.IndexedEntry) error) error {
	return r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = []byte(vectorEntryPrefix + ":")
		iter := tx.NewIterator(iterOpts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var entry *core.IndexedEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalIndexedEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			if entry == nil {
				continue
			}
			if err := fn(entry); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// Stats summarizes store contents.
func (r *VectorRepository) Stats(ctx context.Context) (*core.VectorStoreStats, error) {
	stats := &core.VectorStoreStats{Degraded: !r.available.Load()}

	err := r.backend.WithTx(ctx, func(tx *badger.Txn) error {
		entryPrefix := []byte(vectorEntryPrefix + ":")
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = entryPrefix
		iter := tx.NewIterator(iterOpts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			if stats.Dimensions == 0 {
				var entry *core.IndexedEntry
				if err := iter.Item().Value(func(val []byte) error {
					var err error
					entry, err = storage.UnmarshalIndexedEntry(val)
					return err
				}); err != nil {
					iter.Close()
					return err
				}
				if entry != nil {
					stats.Dimensions = len(entry.Vector)
				}
			}
			stats.Entries++
		}
		iter.Close()

		docPrefix := []byte(vectorDocPrefix + ":")
		docOpts := badger.DefaultIteratorOptions
		docOpts.Prefix = docPrefix
		docOpts.PrefetchValues = false
		docIter := tx.NewIterator(docOpts)
		defer docIter.Close()

		var lastDoc []byte
		for docIter.Rewind(); docIter.Valid(); docIter.Next() {
			key := docIter.Item().Key()
			if len(key) < len(docPrefix)+16 {
				continue
			}
			doc := key[len(docPrefix) : len(docPrefix)+8]
			if !bytes.Equal(doc, lastDoc) {
				stats.Documents++
				lastDoc = slices.Clone(doc)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// readEntry reads an indexed entry from the transaction.
// Returns nil without error when the key is absent.
func readEntry(tx *badger.Txn, key []byte) (*core.IndexedEntry, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var entry *core.IndexedEntry
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		entry, unmarshalErr = storage.UnmarshalIndexedEntry(val)
		return unmarshalErr
	})
	return entry, err
}

// dotProduct calculates the dot product of two vectors.
// Mismatched lengths score zero rather than comparing a partial overlap.
func dotProduct(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
