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
	"fmt"
	"io"
	"time"

	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/embed"
	"github.com/poiesic/corpora/ingestion"
	"github.com/poiesic/corpora/storage"
)

// Config holds configuration for a reindex pass.
type Config struct {
	// BatchSize is the number of entries to process in each batch
	BatchSize int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:  100,
		MaxRetries: 3,
		RetryDelay: 1 * time.Second,
	}
}

// Reindexer orchestrates re-embedding of every entry in a vector store.
type Reindexer struct {
	vectors   storage.VectorStore
	embedder  embed.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *EntryIterator
}

// NewReindexer creates a reindexer.
// progress: where to write progress output (typically os.Stderr); nil discards
func NewReindexer(vectors storage.VectorStore, embedder embed.Embedder, config *Config, progress io.Writer) (*Reindexer, error) {
	if vectors == nil {
		return nil, ErrVectorStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reindexer{
		vectors:   vectors,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(vectors, embedder, config.MaxRetries, config.RetryDelay),
		iterator:  NewEntryIterator(vectors, config.BatchSize),
	}, nil
}

// Run re-embeds every stored entry with the configured embedder.
// Returns the number of entries processed.
func (r *Reindexer) Run(ctx context.Context) (int, error) {
	stats, err := r.vectors.Stats(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to query store stats: %w", err)
	}

	total := stats.Entries
	if total == 0 {
		fmt.Fprintf(r.progress, "No entries found in store (0 entries)\n")
		return 0, nil
	}

	fmt.Fprintf(r.progress, "Starting reindex of %d entries (batch size: %d, target dimensions: %d)\n",
		total, r.config.BatchSize, r.embedder.Dimensions())

	tracker := ingestion.NewProgressTracker(r.progress)
	processed := 0

	err = r.iterator.ForEach(ctx, func(entries []*core.IndexedEntry) error {
		if err := r.processor.Process(ctx, entries); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		processed += len(entries)
		tracker.Report(ingestion.Progress{
			Stage:     ingestion.StageIndexing,
			Completed: processed,
			Total:     total,
			Percent:   float64(processed) / float64(total) * 100,
		})
		return nil
	})
	if err != nil {
		return processed, err
	}

	tracker.Report(ingestion.Progress{
		Stage:     ingestion.StageComplete,
		Completed: processed,
		Total:     total,
		Percent:   100,
	})
	return processed, nil
}
