package ingestion

import (
	"errors"
	"fmt"
)

var (
	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrVectorStoreRequired is returned when a vector store is not provided.
	ErrVectorStoreRequired = errors.New("vector store required")

	// ErrKeywordIndexRequired is returned when a keyword index is not provided.
	ErrKeywordIndexRequired = errors.New("keyword index required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrVocabularyRequired is returned when a vocabulary store is not provided.
	ErrVocabularyRequired = errors.New("vocabulary store required")

	// ErrInvalidMaxAttempts indicates a non-positive retry attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")
)

// FatalIndexingError marks a document whose writes kept failing after all
// retry attempts; the pass continues with the remaining documents.
type FatalIndexingError struct {
	DocID string
	Err   error
}

func (e *FatalIndexingError) Error() string {
	return fmt.Sprintf("indexing %q failed after retries: %v", e.DocID, e.Err)
}

func (e *FatalIndexingError) Unwrap() error {
	return e.Err
}
