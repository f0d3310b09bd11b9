package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing so identical content
// always produces the same identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ChunkID generates the ID for a chunk from its parent document identifier
// and ordinal position. Re-chunking the same document yields the same IDs,
// which makes re-indexing idempotent.
func ChunkID(docID string, ordinal int) ID {
	return IDFromContent(fmt.Sprintf("%s#%d", docID, ordinal))
}

// Metadata carries descriptive attributes for documents and chunks.
// Well-known fields are typed; anything else goes in Extra.
type Metadata struct {
	Category     string
	Source       string
	DocumentType string
	Platform     string
	CreatedAt    time.Time
	Extra        map[string]string
}

// RawDocument is an ingested text document. It is immutable once processed;
// re-indexing a document with the same DocID supersedes the prior entry.
type RawDocument struct {
	Id         ID     // content hash of DocID
	DocID      string // caller-supplied identifier
	Title      string
	Source     string
	Content    string // normalized full text
	Metadata   Metadata
	IndexedAt  time.Time
	ChunkCount int
}

// Chunk is a contiguous sub-span of a document's text and the atomic unit
// of indexing and retrieval. Content always equals the parent document's
// normalized text sliced at [StartOffset, EndOffset).
type Chunk struct {
	Id            ID
	DocumentId    ID
	Content       string
	Ordinal       int
	TotalChunks   int
	StartOffset   int
	EndOffset     int
	WordCount     int
	SentenceCount int
	Strategy      string
	OverlapWords  int
}

// IndexedEntry is a chunk together with its embedding vector and metadata,
// keyed by the chunk ID. Upserting an existing ID replaces the entry wholesale.
type IndexedEntry struct {
	Chunk    Chunk
	Vector   []float32
	Metadata Metadata
}

// MatchType identifies which retrieval branch produced a search result.
type MatchType int

const (
	// MatchTypeSemantic means the result came from vector similarity only.
	MatchTypeSemantic MatchType = iota + 1
	// MatchTypeKeyword means the result came from the keyword index only.
	MatchTypeKeyword
	// MatchTypeHybrid means both branches matched the result.
	MatchTypeHybrid
	// MatchTypeFallback means the result came from the degraded substring fallback.
	MatchTypeFallback
)

// String returns the wire name of the match type.
func (m MatchType) String() string {
	switch m {
	case MatchTypeSemantic:
		return "semantic"
	case MatchTypeKeyword:
		return "keyword"
	case MatchTypeHybrid:
		return "hybrid"
	case MatchTypeFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// SearchResult is a ranked hit with its score breakdown.
type SearchResult struct {
	Chunk         *Chunk
	Document      *RawDocument
	Score         float32
	SemanticScore float32
	KeywordScore  float32
	MatchedTerms  []string
	MatchType     MatchType
	Degraded      bool
}

// VectorStoreStats summarizes the contents of a vector store.
type VectorStoreStats struct {
	Entries    int
	Documents  int
	Dimensions int
	Degraded   bool
}
