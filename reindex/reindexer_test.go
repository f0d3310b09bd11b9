package reindex

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/embed"
	"github.com/poiesic/corpora/embed/mock"
	"github.com/poiesic/corpora/storage"
	badgerstore "github.com/poiesic/corpora/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) storage.VectorStore {
	t.Helper()
	docs, vectors, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() {
		docs.Close()
		vectors.Close()
		backend.Close()
	})
	return vectors
}

func seedEntries(t *testing.T, vectors storage.VectorStore, count, dims int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < count; i++ {
		vec := make([]float32, dims)
		vec[i%dims] = 1
		entry := &core.IndexedEntry{
			Chunk: core.Chunk{
				Id:          core.ID(i + 1),
				DocumentId:  core.ID(100 + i),
				Content:     "entry content number " + string(rune('a'+i)),
				TotalChunks: 1,
				EndOffset:   20,
			},
			Vector: vec,
		}
		require.NoError(t, vectors.Upsert(ctx, entry))
	}
}

func TestReindexer_Run(t *testing.T) {
	vectors := newTestStore(t)
	seedEntries(t, vectors, 5, 8)
	ctx := context.Background()

	embedder := mock.NewMockEmbedder() // 64-dimensional
	var out bytes.Buffer

	reindexer, err := NewReindexer(vectors, embedder, &Config{
		BatchSize:  2,
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	}, &out)
	require.NoError(t, err)

	processed, err := reindexer.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, processed)

	t.Run("entries migrated to new dimensions", func(t *testing.T) {
		stats, err := vectors.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, stats.Entries)
		assert.Equal(t, mock.DefaultDimensions, stats.Dimensions)

		err = vectors.IterateEntries(ctx, func(entry *core.IndexedEntry) error {
			assert.Len(t, entry.Vector, mock.DefaultDimensions)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("vectors stay deterministic", func(t *testing.T) {
		entry, err := vectors.GetEntry(ctx, core.ID(1))
		require.NoError(t, err)
		want, _, err := embedder.EmbedText(ctx, entry.Chunk.Content)
		require.NoError(t, err)
		assert.Equal(t, embed.NormalizeVector(want), entry.Vector)
	})

	t.Run("progress reported", func(t *testing.T) {
		assert.Contains(t, out.String(), "Starting reindex of 5 entries")
		assert.Contains(t, out.String(), "5/5")
	})
}

func TestReindexer_EmptyStore(t *testing.T) {
	vectors := newTestStore(t)
	embedder := mock.NewMockEmbedder()
	var out bytes.Buffer

	reindexer, err := NewReindexer(vectors, embedder, nil, &out)
	require.NoError(t, err)

	processed, err := reindexer.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, processed)
	assert.Contains(t, out.String(), "No entries found")
}

func TestReindexer_EmbedFailurePropagates(t *testing.T) {
	vectors := newTestStore(t)
	seedEntries(t, vectors, 3, 8)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, []int, error) {
		return nil, nil, errors.New("provider down")
	}

	reindexer, err := NewReindexer(vectors, embedder, &Config{
		BatchSize:  2,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	}, nil)
	require.NoError(t, err)

	_, err = reindexer.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")
}

func TestNewReindexer_Validation(t *testing.T) {
	vectors := newTestStore(t)

	_, err := NewReindexer(nil, mock.NewMockEmbedder(), nil, nil)
	assert.ErrorIs(t, err, ErrVectorStoreRequired)
	_, err = NewReindexer(vectors, nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestEntryIterator_Batches(t *testing.T) {
	vectors := newTestStore(t)
	seedEntries(t, vectors, 5, 4)

	iterator := NewEntryIterator(vectors, 2)
	var sizes []int
	err := iterator.ForEach(context.Background(), func(batch []*core.IndexedEntry) error {
		sizes = append(sizes, len(batch))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 1}, sizes)

	t.Run("fn error stops iteration", func(t *testing.T) {
		boom := errors.New("boom")
		calls := 0
		err := iterator.ForEach(context.Background(), func([]*core.IndexedEntry) error {
			calls++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})
}
