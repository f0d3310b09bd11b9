package ingestion

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/embed"
	"github.com/poiesic/corpora/keyword"
	"github.com/poiesic/corpora/storage"
	badgerstore "github.com/poiesic/corpora/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pipelineEnv struct {
	pipeline *Pipeline
	docs     storage.DocumentRepository
	vectors  storage.VectorStore
	keywords *keyword.Index
	vocab    *embed.VocabularyStore
}

func newPipelineEnv(t *testing.T, opts ...Option) *pipelineEnv {
	t.Helper()
	docs, vectors, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() {
		docs.Close()
		vectors.Close()
		backend.Close()
	})

	vocab := embed.NewVocabularyStore()
	embedder, err := embed.NewLexicalEmbedder(vocab, embed.WithDimensions(32))
	require.NoError(t, err)
	keywords := keyword.NewIndex()

	pipeline, err := NewPipeline(docs, vectors, keywords, vocab, embedder, opts...)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return &pipelineEnv{
		pipeline: pipeline,
		docs:     docs,
		vectors:  vectors,
		keywords: keywords,
		vocab:    vocab,
	}
}

// progressRecorder collects events; the pipeline serializes callbacks but
// the recorder guards itself anyway so tests can read while a pass runs.
type progressRecorder struct {
	mu     sync.Mutex
	events []Progress
}

func (r *progressRecorder) record(p Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, p)
}

func (r *progressRecorder) last() Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return Progress{}
	}
	return r.events[len(r.events)-1]
}

func (r *progressRecorder) stages() map[Stage]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[Stage]int)
	for _, ev := range r.events {
		counts[ev.Stage]++
	}
	return counts
}

func sampleBatch() []Document {
	return []Document{
		{
			DocID:    "fox-1",
			Title:    "Fox Facts",
			Content:  "The quick brown fox jumps over the lazy dog. Foxes are clever hunters.",
			Metadata: core.Metadata{Category: "animals"},
		},
		{
			DocID:    "db-1",
			Title:    "Storage Engines",
			Content:  "Database storage engines organize pages into trees for fast lookups.",
			Metadata: core.Metadata{Category: "databases"},
		},
	}
}

func TestPipeline_IndexDocuments(t *testing.T) {
	env := newPipelineEnv(t)
	ctx := context.Background()
	recorder := &progressRecorder{}

	err := env.pipeline.IndexDocuments(ctx, sampleBatch(), recorder.record)
	require.NoError(t, err)

	t.Run("documents stored with chunk counts", func(t *testing.T) {
		doc, err := env.docs.GetDocument(ctx, "fox-1")
		require.NoError(t, err)
		assert.Equal(t, 1, doc.ChunkCount)
		assert.False(t, doc.IndexedAt.IsZero())

		count, err := env.docs.CountDocuments(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("vector entries present", func(t *testing.T) {
		entry, err := env.vectors.GetEntry(ctx, core.ChunkID("fox-1", 0))
		require.NoError(t, err)
		assert.Equal(t, core.IDFromContent("fox-1"), entry.Chunk.DocumentId)
		assert.NotEmpty(t, entry.Vector)
		assert.Equal(t, "animals", entry.Metadata.Category)
	})

	t.Run("keywords searchable", func(t *testing.T) {
		matches := env.keywords.Lookup("clever fox", 10)
		require.NotEmpty(t, matches)
		assert.Equal(t, core.ChunkID("fox-1", 0), matches[0].ChunkID)
	})

	t.Run("vocabulary committed", func(t *testing.T) {
		assert.Greater(t, env.vocab.Size(), 0)
		assert.Equal(t, 2, env.vocab.TotalDocuments())
	})

	t.Run("progress reaches complete", func(t *testing.T) {
		last := recorder.last()
		assert.Equal(t, StageComplete, last.Stage)
		assert.Equal(t, 2, last.Completed)
		assert.Equal(t, float64(100), last.Percent)
		assert.Empty(t, last.Errors)

		stages := recorder.stages()
		assert.Equal(t, 2, stages[StageProcessing])
		assert.Equal(t, 2, stages[StageEmbedding])
		assert.Equal(t, 2, stages[StageIndexing])
		assert.Equal(t, 1, stages[StageComplete])
	})
}

func TestPipeline_ReindexSupersedes(t *testing.T) {
	env := newPipelineEnv(t)
	ctx := context.Background()

	batch := sampleBatch()
	require.NoError(t, env.pipeline.IndexDocuments(ctx, batch, nil))

	// Same DocID, revised content.
	batch[0].Content = "Foxes are small wild canines found on every continent."
	require.NoError(t, env.pipeline.IndexDocuments(ctx, batch[:1], nil))

	entry, err := env.vectors.GetEntry(ctx, core.ChunkID("fox-1", 0))
	require.NoError(t, err)
	assert.Contains(t, entry.Chunk.Content, "wild canines")

	stats, err := env.vectors.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries, "no orphan entries after re-index")

	t.Run("old keywords retracted", func(t *testing.T) {
		matches := env.keywords.Lookup("lazy dog", 10)
		for _, m := range matches {
			assert.NotEqual(t, core.ChunkID("fox-1", 0), m.ChunkID)
		}
	})
}

func TestPipeline_InvalidDocumentCollected(t *testing.T) {
	env := newPipelineEnv(t)
	ctx := context.Background()
	recorder := &progressRecorder{}

	before := env.vocab.Size()
	batch := append(sampleBatch(), Document{DocID: "empty-1", Content: "   "})

	err := env.pipeline.IndexDocuments(ctx, batch, recorder.record)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrEmptyContent)

	t.Run("pass ran to completion", func(t *testing.T) {
		count, err := env.docs.CountDocuments(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count, "valid documents still indexed")
	})

	t.Run("rejected document leaves no trace", func(t *testing.T) {
		_, err := env.docs.GetDocument(ctx, "empty-1")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.Equal(t, 2, env.vocab.TotalDocuments())
		assert.Greater(t, env.vocab.Size(), before)
	})

	t.Run("final event carries the failure", func(t *testing.T) {
		last := recorder.last()
		assert.Equal(t, StageComplete, last.Stage)
		require.Len(t, last.Errors, 1)
		assert.ErrorIs(t, last.Errors[0], core.ErrEmptyContent)
	})
}

// flakyVectors fails the first n Upsert calls, then delegates.
type flakyVectors struct {
	storage.VectorStore
	remaining atomic.Int32
}

func (f *flakyVectors) Upsert(ctx context.Context, entries ...*core.IndexedEntry) error {
	if f.remaining.Add(-1) >= 0 {
		return errors.New("transient write failure")
	}
	return f.VectorStore.Upsert(ctx, entries...)
}

func TestPipeline_RetriesTransientWrites(t *testing.T) {
	docs, vectors, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() {
		docs.Close()
		vectors.Close()
		backend.Close()
	})

	vocab := embed.NewVocabularyStore()
	embedder, err := embed.NewLexicalEmbedder(vocab, embed.WithDimensions(32))
	require.NoError(t, err)

	flaky := &flakyVectors{VectorStore: vectors}
	flaky.remaining.Store(2)

	pipeline, err := NewPipeline(docs, flaky, keyword.NewIndex(), vocab, embedder,
		WithRetry(3, time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	ctx := context.Background()
	err = pipeline.IndexDocuments(ctx, sampleBatch()[:1], nil)
	require.NoError(t, err, "two transient failures fit in a three-attempt budget")

	_, err = vectors.GetEntry(ctx, core.ChunkID("fox-1", 0))
	assert.NoError(t, err)

	t.Run("exhausted budget is fatal for the document", func(t *testing.T) {
		flaky.remaining.Store(10)
		err := pipeline.IndexDocuments(ctx, sampleBatch()[:1], nil)
		require.Error(t, err)
		var fatal *FatalIndexingError
		require.ErrorAs(t, err, &fatal)
		assert.Equal(t, "fox-1", fatal.DocID)
	})
}

func TestNewPipeline_Validation(t *testing.T) {
	docs, vectors, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	vocab := embed.NewVocabularyStore()
	embedder, err := embed.NewLexicalEmbedder(vocab)
	require.NoError(t, err)
	keywords := keyword.NewIndex()

	_, err = NewPipeline(nil, vectors, keywords, vocab, embedder)
	assert.ErrorIs(t, err, ErrDocumentRepositoryRequired)
	_, err = NewPipeline(docs, nil, keywords, vocab, embedder)
	assert.ErrorIs(t, err, ErrVectorStoreRequired)
	_, err = NewPipeline(docs, vectors, nil, vocab, embedder)
	assert.ErrorIs(t, err, ErrKeywordIndexRequired)
	_, err = NewPipeline(docs, vectors, keywords, nil, embedder)
	assert.ErrorIs(t, err, ErrVocabularyRequired)
	_, err = NewPipeline(docs, vectors, keywords, vocab, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewPipeline(docs, vectors, keywords, vocab, embedder, WithPoolSize(0))
	assert.Error(t, err)
	_, err = NewPipeline(docs, vectors, keywords, vocab, embedder, WithRetry(0, time.Second))
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, 5, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error when exhausted", func(t *testing.T) {
		boom := errors.New("boom")
		err := RetryWithBackoff(ctx, func() error { return boom }, 2, time.Millisecond)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("rejects non-positive attempts", func(t *testing.T) {
		err := RetryWithBackoff(ctx, func() error { return nil }, 0, time.Millisecond)
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})

	t.Run("honors cancellation during backoff", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		calls := 0
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()
		err := RetryWithBackoff(cancelled, func() error {
			calls++
			return errors.New("transient")
		}, 10, time.Hour)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
