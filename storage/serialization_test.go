package storage

import (
	"testing"
	"time"

	"github.com/poiesic/corpora/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalID_RoundTrip(t *testing.T) {
	for _, id := range []core.ID{0, 1, 42, core.IDFromContent("doc-1")} {
		got, err := UnmarshalID(MarshalID(id))
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestMarshalRawDocument_RoundTrip(t *testing.T) {
	doc := &core.RawDocument{
		Id:      core.IDFromContent("doc-1"),
		DocID:   "doc-1",
		Title:   "A Title",
		Source:  "wiki",
		Content: "The quick brown fox jumps over the lazy dog.",
		Metadata: core.Metadata{
			Category:     "animals",
			Source:       "wiki",
			DocumentType: "article",
			Platform:     "web",
			CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
			Extra:        map[string]string{"lang": "en"},
		},
		IndexedAt:  time.Now().UTC().Truncate(time.Microsecond),
		ChunkCount: 3,
	}

	got, err := UnmarshalRawDocument(MarshalRawDocument(doc))
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestMarshalIndexedEntry_RoundTrip(t *testing.T) {
	entry := &core.IndexedEntry{
		Chunk: core.Chunk{
			Id:            core.ChunkID("doc-1", 0),
			DocumentId:    core.IDFromContent("doc-1"),
			Content:       "The quick brown fox.",
			Ordinal:       0,
			TotalChunks:   2,
			StartOffset:   0,
			EndOffset:     20,
			WordCount:     4,
			SentenceCount: 1,
			Strategy:      "semantic",
		},
		Vector:   []float32{0.1, 0.2, 0.7},
		Metadata: core.Metadata{Category: "animals"},
	}

	got, err := UnmarshalIndexedEntry(MarshalIndexedEntry(entry))
	require.NoError(t, err)
	assert.Equal(t, entry, got)

	t.Run("corrupt data fails", func(t *testing.T) {
		_, err := UnmarshalIndexedEntry([]byte{0xff})
		assert.Error(t, err)
	})
}
