package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStores(t *testing.T) (storage.DocumentRepository, storage.VectorStore) {
	t.Helper()
	docs, vectors, backend, err := NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() {
		docs.Close()
		vectors.Close()
		backend.Close()
	})
	return docs, vectors
}

func sampleDocument(docID, content string) *core.RawDocument {
	return &core.RawDocument{
		DocID:   docID,
		Title:   "Sample " + docID,
		Source:  "unit-test",
		Content: content,
		Metadata: core.Metadata{
			Category:  "testing",
			CreatedAt: time.Now().UTC(),
		},
		IndexedAt: time.Now().UTC(),
	}
}

func TestDocumentRepository_PutGet(t *testing.T) {
	docs, _ := newTestStores(t)
	ctx := context.Background()

	doc := sampleDocument("doc-1", "The quick brown fox.")
	require.NoError(t, docs.PutDocument(ctx, doc))
	assert.Equal(t, core.IDFromContent("doc-1"), doc.Id)

	got, err := docs.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, doc.DocID, got.DocID)
	assert.Equal(t, doc.Title, got.Title)
	assert.Equal(t, doc.Content, got.Content)
	assert.Equal(t, doc.Metadata.Category, got.Metadata.Category)

	t.Run("lookup by content-hash id", func(t *testing.T) {
		byID, err := docs.GetDocumentByID(ctx, doc.Id)
		require.NoError(t, err)
		assert.Equal(t, "doc-1", byID.DocID)

		_, err = docs.GetDocumentByID(ctx, 12345)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := docs.GetDocument(ctx, "nope")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("invalid document rejected", func(t *testing.T) {
		err := docs.PutDocument(ctx, &core.RawDocument{DocID: "empty", Content: "   "})
		assert.ErrorIs(t, err, core.ErrInvalidDocument)
	})
}

func TestDocumentRepository_Supersede(t *testing.T) {
	docs, _ := newTestStores(t)
	ctx := context.Background()

	require.NoError(t, docs.PutDocument(ctx, sampleDocument("doc-1", "first version")))
	require.NoError(t, docs.PutDocument(ctx, sampleDocument("doc-1", "second version")))

	got, err := docs.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "second version", got.Content)

	count, err := docs.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDocumentRepository_Delete(t *testing.T) {
	docs, _ := newTestStores(t)
	ctx := context.Background()

	require.NoError(t, docs.PutDocument(ctx, sampleDocument("doc-1", "content")))
	require.NoError(t, docs.DeleteDocument(ctx, "doc-1"))

	_, err := docs.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	t.Run("deleting missing document", func(t *testing.T) {
		assert.ErrorIs(t, docs.DeleteDocument(ctx, "doc-1"), storage.ErrNotFound)
	})
}

func TestDocumentRepository_List(t *testing.T) {
	docs, _ := newTestStores(t)
	ctx := context.Background()

	for _, id := range []string{"charlie", "alpha", "bravo"} {
		require.NoError(t, docs.PutDocument(ctx, sampleDocument(id, "content of "+id)))
	}

	list, err := docs.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "alpha", list[0].DocID)
	assert.Equal(t, "bravo", list[1].DocID)
	assert.Equal(t, "charlie", list[2].DocID)

	count, err := docs.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
