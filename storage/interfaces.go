package storage

import (
	"context"

	"github.com/poiesic/corpora/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// DocumentRepository provides operations for managing raw documents,
// keyed by the caller-supplied DocID.
type DocumentRepository interface {
	Repository

	// PutDocument stores a document, replacing any prior document with the
	// same DocID.
	PutDocument(ctx context.Context, doc *core.RawDocument) error

	// GetDocument retrieves a document by DocID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, docID string) (*core.RawDocument, error)

	// GetDocumentByID retrieves a document by its content-hash ID, as
	// recorded on chunks. Returns ErrNotFound if the document doesn't exist.
	GetDocumentByID(ctx context.Context, id core.ID) (*core.RawDocument, error)

	// DeleteDocument removes a document by DocID.
	// Returns ErrNotFound if the document doesn't exist.
	DeleteDocument(ctx context.Context, docID string) error

	// ListDocuments returns all stored documents ordered by DocID.
	ListDocuments(ctx context.Context) ([]*core.RawDocument, error)

	// CountDocuments returns the number of stored documents.
	CountDocuments(ctx context.Context) (int, error)
}

// VectorSearchOptions controls a similarity search.
type VectorSearchOptions struct {
	// TopK caps the number of hits. Zero or negative means no cap.
	TopK int

	// MinSimilarity drops hits scoring below the threshold.
	MinSimilarity float32

	// QueryText feeds the degraded substring fallback when similarity
	// search is unavailable.
	QueryText string
}

// VectorHit is one entry returned by a similarity search.
type VectorHit struct {
	Entry      *core.IndexedEntry
	Similarity float32

	// Degraded marks hits produced by the substring fallback; their
	// Similarity is a placeholder ordering value, not a cosine score.
	Degraded bool
}

// VectorStore provides operations for indexed chunk entries and
// similarity search over their vectors.
type VectorStore interface {
	Repository

	// Upsert stores entries keyed by chunk ID, replacing existing entries
	// wholesale.
	Upsert(ctx context.Context, entries ...*core.IndexedEntry) error

	// GetEntry retrieves one entry by chunk ID.
	// Returns ErrNotFound if the entry doesn't exist.
	GetEntry(ctx context.Context, chunkID core.ID) (*core.IndexedEntry, error)

	// Search returns entries similar to the query vector, ordered by
	// descending similarity with ascending chunk ID breaking ties. An empty
	// query vector yields no hits and no error. When similarity search is
	// unavailable the store falls back to a substring scan over chunk text
	// and marks every hit Degraded; if that also cannot run, Search returns
	// ErrUnavailable.
	Search(ctx context.Context, vector []float32, opts VectorSearchOptions) ([]*VectorHit, error)

	// Delete removes entries by chunk ID. Unknown IDs are ignored.
	Delete(ctx context.Context, chunkIDs ...core.ID) error

	// DeleteByDocument removes every entry belonging to the document and
	// returns the removed chunk IDs so callers can retract derived indices.
	DeleteByDocument(ctx context.Context, documentID core.ID) ([]core.ID, error)

	// IterateEntries calls fn for every stored entry. Returning an error
	// from fn stops the iteration and propagates the error.
	IterateEntries(ctx context.Context, fn func(entry *core.IndexedEntry) error) error

	// Stats summarizes store contents.
	Stats(ctx context.Context) (*core.VectorStoreStats, error)
}
