package embed

import "errors"

var (
	// ErrInvalidDimensions indicates a non-positive embedding dimension.
	ErrInvalidDimensions = errors.New("embedding dimensions must be positive")

	// ErrNilVocabulary indicates a lexical embedder was constructed without
	// a vocabulary store.
	ErrNilVocabulary = errors.New("vocabulary store is required")
)
