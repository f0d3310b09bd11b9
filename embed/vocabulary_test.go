package embed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabularyStore_CommitDocument(t *testing.T) {
	v := NewVocabularyStore()

	v.CommitDocument([]string{"fox", "jump", "fox"})
	assert.Equal(t, 2, v.Size())
	assert.Equal(t, 1, v.TotalDocuments())
	assert.Equal(t, 1, v.DocumentFrequency("fox"), "duplicates inside one document count once")

	v.CommitDocument([]string{"fox", "dog"})
	assert.Equal(t, 3, v.Size())
	assert.Equal(t, 2, v.TotalDocuments())
	assert.Equal(t, 2, v.DocumentFrequency("fox"))
	assert.Equal(t, 1, v.DocumentFrequency("dog"))

	t.Run("empty commit is a no-op", func(t *testing.T) {
		before := v.Epoch()
		v.CommitDocument(nil)
		assert.Equal(t, before, v.Epoch())
		assert.Equal(t, 2, v.TotalDocuments())
	})

	t.Run("epoch advances per document", func(t *testing.T) {
		before := v.Epoch()
		v.CommitDocument([]string{"cat"})
		assert.Equal(t, before+1, v.Epoch())
	})
}

func TestVocabularyStore_ScoreTransient(t *testing.T) {
	v := NewVocabularyStore()
	v.CommitDocument([]string{"fox", "jump"})
	v.CommitDocument([]string{"fox", "dog"})
	v.CommitDocument([]string{"fox", "cat"})

	t.Run("leaves corpus counts untouched", func(t *testing.T) {
		weights, _ := v.ScoreTransient([]string{"fox", "dog", "wolf"})
		require.Len(t, weights, 3)
		assert.Equal(t, 3, v.TotalDocuments())
		assert.Equal(t, 3, v.DocumentFrequency("fox"))
		assert.Equal(t, 0, v.DocumentFrequency("wolf"))
	})

	t.Run("new terms gain permanent indices", func(t *testing.T) {
		before := v.Size()
		_, size := v.ScoreTransient([]string{"badger"})
		assert.Equal(t, before+1, size)
		assert.Equal(t, before+1, v.Size())
	})

	t.Run("deterministic", func(t *testing.T) {
		a, _ := v.ScoreTransient([]string{"fox", "dog", "dog"})
		b, _ := v.ScoreTransient([]string{"fox", "dog", "dog"})
		assert.Equal(t, a, b)
	})

	t.Run("rare terms outweigh common terms", func(t *testing.T) {
		weights, _ := v.ScoreTransient([]string{"fox", "wolf"})
		v.mu.Lock()
		foxIdx, wolfIdx := v.index["fox"], v.index["wolf"]
		v.mu.Unlock()
		assert.Greater(t, weights[wolfIdx], weights[foxIdx])
	})

	t.Run("empty tokens", func(t *testing.T) {
		weights, size := v.ScoreTransient(nil)
		assert.Empty(t, weights)
		assert.Equal(t, v.Size(), size)
	})
}

func TestVocabularyStore_Stats(t *testing.T) {
	v := NewVocabularyStore()
	assert.Equal(t, VocabularyStats{}, v.Stats())

	v.CommitDocument([]string{"fox", "jump"})
	v.CommitDocument([]string{"fox", "dog"})

	got := v.Stats()
	assert.Equal(t, 3, got.Terms)
	assert.Equal(t, 2, got.Documents)
	assert.Equal(t, uint64(2), got.Epoch)

	t.Run("transient scoring leaves stats untouched", func(t *testing.T) {
		v.ScoreTransient([]string{"wolf"})
		after := v.Stats()
		assert.Equal(t, 2, after.Documents)
		assert.Equal(t, uint64(2), after.Epoch)
		assert.Equal(t, 4, after.Terms, "transient terms keep their permanent indices")
	})
}

func TestVocabularyStore_TopTerms(t *testing.T) {
	v := NewVocabularyStore()
	v.CommitDocument([]string{"fox", "dog"})
	v.CommitDocument([]string{"fox", "cat"})
	v.CommitDocument([]string{"fox"})

	got := v.TopTerms(2)
	require.Len(t, got, 2)
	assert.Equal(t, "fox", got[0])
	assert.Equal(t, "cat", got[1], "ties break alphabetically")

	t.Run("n larger than vocabulary", func(t *testing.T) {
		assert.Len(t, v.TopTerms(10), 3)
	})
}
