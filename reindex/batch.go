package reindex

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/embed"
	"github.com/poiesic/corpora/ingestion"
	"github.com/poiesic/corpora/storage"
)

// BatchProcessor re-embeds batches of indexed entries and writes them back.
type BatchProcessor struct {
	vectors        storage.VectorStore
	embedder       embed.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a batch processor.
// maxRetries: maximum number of retry attempts for embedding and upsert calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(vectors storage.VectorStore, embedder embed.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		vectors:        vectors,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process re-embeds a batch of entries and upserts the replacements.
// Vectors are normalized after embedding so cosine similarity stays a dot
// product over the stored corpus.
func (bp *BatchProcessor) Process(ctx context.Context, entries []*core.IndexedEntry) error {
	if len(entries) == 0 {
		return nil
	}

	texts := make([]string, len(entries))
	for i, entry := range entries {
		texts[i] = entry.Chunk.Content
	}

	var vectors [][]float32
	err := ingestion.RetryWithBackoff(ctx, func() error {
		var err error
		vectors, _, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(vectors) != len(entries) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(entries), len(vectors))
	}

	for i := range entries {
		entries[i].Vector = embed.NormalizeVector(vectors[i])
	}

	err = ingestion.RetryWithBackoff(ctx, func() error {
		return bp.vectors.Upsert(ctx, entries...)
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to update entries: %w", err)
	}

	return nil
}
