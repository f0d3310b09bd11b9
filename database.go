// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package corpora

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/corpora/analysis"
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/embed"
	"github.com/poiesic/corpora/ingestion"
	"github.com/poiesic/corpora/keyword"
	"github.com/poiesic/corpora/reindex"
	"github.com/poiesic/corpora/search"
	"github.com/poiesic/corpora/storage"
	"github.com/poiesic/corpora/storage/badger"
)

// Database bundles the document store, vector store, vocabulary, keyword
// index and search engine behind one handle. The vocabulary and keyword
// index live in memory and are rebuilt from the vector store on open.
type Database struct {
	backend  *badger.Backend
	docs     storage.DocumentRepository
	vectors  storage.VectorStore
	keywords *keyword.Index
	vocab    *embed.VocabularyStore
	embedder embed.Embedder
	engine   *search.Engine
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	inMemory   bool
	dimensions int
	embedder   embed.Embedder
	logger     *slog.Logger
}

// WithInMemory keeps all storage in memory; filePath is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithDimensions sets the lexical embedding dimensionality.
// Ignored when a custom embedder is supplied.
func WithDimensions(dims int) DatabaseOption {
	return func(o *databaseOptions) {
		o.dimensions = dims
	}
}

// WithEmbedder replaces the built-in lexical embedder, e.g. with the
// OpenAI-compatible one from embed/openai.
func WithEmbedder(embedder embed.Embedder) DatabaseOption {
	return func(o *databaseOptions) {
		o.embedder = embedder
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewDatabase opens (or creates) a database at filePath and rebuilds the
// in-memory vocabulary and keyword index from the stored entries.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		dimensions: embed.DefaultDimensions,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	docs, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	vectors, err := badger.NewVectorRepository(backend)
	if err != nil {
		docs.Close()
		backend.Close()
		return nil, err
	}

	vocab := embed.NewVocabularyStore()
	keywords := keyword.NewIndex(keyword.WithLogger(options.logger))

	embedder := options.embedder
	if embedder == nil {
		embedder, err = embed.NewLexicalEmbedder(vocab,
			embed.WithDimensions(options.dimensions),
			embed.WithLogger(options.logger))
		if err != nil {
			vectors.Close()
			docs.Close()
			backend.Close()
			return nil, err
		}
	}

	engine, err := search.NewEngine(vectors, docs, keywords, embedder,
		search.WithVocabulary(vocab),
		search.WithLogger(options.logger))
	if err != nil {
		vectors.Close()
		docs.Close()
		backend.Close()
		return nil, err
	}

	db := &Database{
		backend:  backend,
		docs:     docs,
		vectors:  vectors,
		keywords: keywords,
		vocab:    vocab,
		embedder: embedder,
		engine:   engine,
		logger:   options.logger,
	}

	if err := db.Rehydrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Rehydrate rebuilds the vocabulary and keyword index from the vector
// store. It runs automatically on open; calling it again is harmless since
// chunk re-indexing is idempotent.
func (db *Database) Rehydrate(ctx context.Context) error {
	docTokens := make(map[core.ID][]string)
	chunks := 0

	err := db.vectors.IterateEntries(ctx, func(entry *core.IndexedEntry) error {
		db.keywords.IndexChunk(entry.Chunk.Id, entry.Chunk.Content)
		id := entry.Chunk.DocumentId
		docTokens[id] = append(docTokens[id], analysis.Tokenize(entry.Chunk.Content)...)
		chunks++
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to rehydrate derived indices: %w", err)
	}

	for _, tokens := range docTokens {
		db.vocab.CommitDocument(tokens)
	}

	if chunks > 0 {
		db.logger.Info("rehydrated derived indices",
			"chunks", chunks, "documents", len(docTokens), "terms", db.vocab.Size())
	}
	return nil
}

func (db *Database) Close() error {
	if err := db.vectors.Close(); err != nil {
		db.logger.Error("error closing vector store", "err", err)
		return err
	}
	if err := db.docs.Close(); err != nil {
		db.logger.Error("error closing document repository", "err", err)
		return err
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) DocumentRepository() storage.DocumentRepository {
	return db.docs
}

func (db *Database) VectorStore() storage.VectorStore {
	return db.vectors
}

func (db *Database) KeywordIndex() *keyword.Index {
	return db.keywords
}

func (db *Database) Vocabulary() *embed.VocabularyStore {
	return db.vocab
}

func (db *Database) Embedder() embed.Embedder {
	return db.embedder
}

// NewIngestionPipeline creates a pipeline bound to this database's stores.
func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	base := []ingestion.Option{ingestion.WithLogger(db.logger)}
	return ingestion.NewPipeline(db.docs, db.vectors, db.keywords, db.vocab, db.embedder,
		append(base, opts...)...)
}

// IndexDocuments runs an ingestion pass with default pipeline settings.
// Callers needing pool, chunking or retry control should build their own
// pipeline via NewIngestionPipeline.
func (db *Database) IndexDocuments(ctx context.Context, documents []ingestion.Document, progress ingestion.ProgressFunc) error {
	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()
	return pipeline.IndexDocuments(ctx, documents, progress)
}

// NewReindexer creates a reindexer over this database's vector store using
// the given embedder, or the database's own when embedder is nil.
func (db *Database) NewReindexer(embedder embed.Embedder, config *reindex.Config, progress io.Writer) (*reindex.Reindexer, error) {
	if embedder == nil {
		embedder = db.embedder
	}
	return reindex.NewReindexer(db.vectors, embedder, config, progress)
}

// Query runs a hybrid search.
func (db *Database) Query(ctx context.Context, req search.QueryRequest) (*search.QueryResponse, error) {
	return db.engine.Query(ctx, req)
}

// Suggest returns vocabulary terms related to the query.
func (db *Database) Suggest(query string, limit int) []string {
	return db.engine.Suggest(query, limit)
}

// DeleteDocument removes a document and everything derived from it: its
// vector-store entries, its keyword postings and the stored document
// itself. Deleting an unknown document returns storage.ErrNotFound.
func (db *Database) DeleteDocument(ctx context.Context, docID string) error {
	if _, err := db.docs.GetDocument(ctx, docID); err != nil {
		return err
	}
	removed, err := db.vectors.DeleteByDocument(ctx, core.IDFromContent(docID))
	if err != nil {
		return fmt.Errorf("failed to delete indexed chunks for %q: %w", docID, err)
	}
	db.keywords.RemoveChunks(removed)
	if err := db.docs.DeleteDocument(ctx, docID); err != nil {
		return err
	}
	db.logger.Info("deleted document", "docID", docID, "chunks", len(removed))
	return nil
}

// DatabaseStats aggregates the sizes of every store and index.
type DatabaseStats struct {
	Vectors    *core.VectorStoreStats
	Keywords   keyword.Stats
	Vocabulary embed.VocabularyStats
}

// Stats reports store and index sizes.
func (db *Database) Stats(ctx context.Context) (*DatabaseStats, error) {
	vectorStats, err := db.vectors.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &DatabaseStats{
		Vectors:    vectorStats,
		Keywords:   db.keywords.Stats(),
		Vocabulary: db.vocab.Stats(),
	}, nil
}
