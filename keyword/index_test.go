package keyword

import (
	"testing"

	"github.com/poiesic/corpora/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_Lookup(t *testing.T) {
	idx := NewIndex()
	idx.IndexChunk(1, "The quick brown fox jumps over the lazy dog")
	idx.IndexChunk(2, "Foxes are clever animals")
	idx.IndexChunk(3, "Database storage engines use B-trees")

	t.Run("single term matches stemmed variants", func(t *testing.T) {
		matches := idx.Lookup("fox", 0)
		require.Len(t, matches, 2)
		ids := []core.ID{matches[0].ChunkID, matches[1].ChunkID}
		assert.ElementsMatch(t, []core.ID{1, 2}, ids)
		assert.Contains(t, matches[0].MatchedTerms, "fox")
	})

	t.Run("phrase match outranks scattered terms", func(t *testing.T) {
		idx.IndexChunk(4, "A brown dog sat near a fox den")
		defer idx.RemoveChunk(4)

		matches := idx.Lookup("brown fox", 0)
		require.NotEmpty(t, matches)
		// Chunk 1 has the adjacent bigram, chunk 4 only separate words.
		assert.Equal(t, core.ID(1), matches[0].ChunkID)
		assert.Greater(t, matches[0].Score, matches[1].Score)
	})

	t.Run("full coverage scores one", func(t *testing.T) {
		matches := idx.Lookup("clever animals", 0)
		require.NotEmpty(t, matches)
		assert.Equal(t, core.ID(2), matches[0].ChunkID)
		assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
	})

	t.Run("no hits", func(t *testing.T) {
		assert.Empty(t, idx.Lookup("zephyr", 0))
	})

	t.Run("stop word only query", func(t *testing.T) {
		assert.Empty(t, idx.Lookup("the of and", 0))
	})

	t.Run("limit truncates", func(t *testing.T) {
		idx.IndexChunk(5, "another fox appears")
		defer idx.RemoveChunk(5)
		assert.Len(t, idx.Lookup("fox", 2), 2)
	})
}

func TestIndex_Reindex(t *testing.T) {
	idx := NewIndex()
	idx.IndexChunk(7, "original fox content")

	idx.IndexChunk(7, "replacement badger content")

	assert.Empty(t, idx.Lookup("fox", 0), "old terms must be gone after re-index")
	matches := idx.Lookup("badger", 0)
	require.Len(t, matches, 1)
	assert.Equal(t, core.ID(7), matches[0].ChunkID)
	assert.Equal(t, 1, idx.Stats().Chunks)
}

func TestIndex_Remove(t *testing.T) {
	idx := NewIndex()
	idx.IndexChunk(1, "fox one")
	idx.IndexChunk(2, "fox two")

	idx.RemoveChunks([]core.ID{1, 2})

	assert.Empty(t, idx.Lookup("fox", 0))
	stats := idx.Stats()
	assert.Zero(t, stats.Chunks)
	assert.Zero(t, stats.Terms)

	t.Run("unknown id is a no-op", func(t *testing.T) {
		idx.RemoveChunk(99)
		assert.Zero(t, idx.Stats().Chunks)
	})
}

func TestIndex_EmptyChunk(t *testing.T) {
	idx := NewIndex()
	idx.IndexChunk(1, "the and of")
	assert.Zero(t, idx.Stats().Chunks)
}
