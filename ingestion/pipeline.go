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


package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/corpora/analysis"
	"github.com/poiesic/corpora/chunker"
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/embed"
	"github.com/poiesic/corpora/keyword"
	"github.com/poiesic/corpora/storage"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 250 * time.Millisecond
)

// Document is the ingestion input: caller-supplied identity plus raw text.
type Document struct {
	DocID    string
	Title    string
	Source   string
	Content  string
	Metadata core.Metadata
}

// Pipeline indexes documents across the document store, vector store,
// vocabulary and keyword index using a bounded worker pool.
type Pipeline struct {
	docs        storage.DocumentRepository
	vectors     storage.VectorStore
	keywords    *keyword.Index
	vocab       *embed.VocabularyStore
	embedder    embed.Embedder
	processor   *chunker.Processor
	pool        *ants.Pool
	chunkOpts   chunker.Options
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the number of concurrent document workers.
// Default is half the CPU count, minimum one.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return fmt.Errorf("pool size must be at least 1, got %d", size)
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return fmt.Errorf("failed to create worker pool: %w", err)
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithChunkOptions sets the chunking options applied to every document.
func WithChunkOptions(opts chunker.Options) Option {
	return func(p *Pipeline) error {
		p.chunkOpts = opts
		return nil
	}
}

// WithRetry sets the attempt budget and initial backoff for storage writes.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.maxAttempts = maxAttempts
		p.baseDelay = baseDelay
		return nil
	}
}

// NewPipeline creates an ingestion pipeline over the given stores.
func NewPipeline(
	docs storage.DocumentRepository,
	vectors storage.VectorStore,
	keywords *keyword.Index,
	vocab *embed.VocabularyStore,
	embedder embed.Embedder,
	opts ...Option,
) (*Pipeline, error) {
	if docs == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if vectors == nil {
		return nil, ErrVectorStoreRequired
	}
	if keywords == nil {
		return nil, ErrKeywordIndexRequired
	}
	if vocab == nil {
		return nil, ErrVocabularyRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	processor, err := chunker.NewProcessor()
	if err != nil {
		pool.Release()
		return nil, err
	}

	p := &Pipeline{
		docs:        docs,
		vectors:     vectors,
		keywords:    keywords,
		vocab:       vocab,
		embedder:    embedder,
		processor:   processor,
		pool:        pool,
		chunkOpts:   chunker.DefaultOptions(),
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		logger:      slog.Default().With("component", "ingestion"),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			p.pool.Release()
			return nil, err
		}
	}
	return p, nil
}

// Release shuts down the worker pool. The pipeline cannot be used after.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// IndexDocuments indexes the documents concurrently and runs to completion:
// a failing document is recorded and the rest of the batch proceeds. The
// collected failures come back joined into one error and also appear on the
// final progress event. Re-submitting a DocID supersedes its prior version.
func (p *Pipeline) IndexDocuments(ctx context.Context, documents []Document, progress ProgressFunc) error {
	if progress == nil {
		progress = func(Progress) {}
	}

	total := len(documents)
	var (
		mu        sync.Mutex
		errs      []error
		completed int
	)
	emit := func(ev Progress) {
		mu.Lock()
		defer mu.Unlock()
		progress(ev)
	}

	var wg sync.WaitGroup
	for i := range documents {
		doc := documents[i]
		wg.Add(1)
		task := func() {
			defer wg.Done()
			err := p.indexOne(ctx, doc, emit)
			if err != nil {
				p.logger.Error("document indexing failed", "docId", doc.DocID, "error", err)
			}

			mu.Lock()
			completed++
			if err != nil {
				errs = append(errs, err)
			}
			ev := Progress{
				Stage:     StageIndexing,
				DocID:     doc.DocID,
				Completed: completed,
				Total:     total,
				Percent:   float64(completed) / float64(total) * 100,
			}
			progress(ev)
			mu.Unlock()
		}
		if err := p.pool.Submit(task); err != nil {
			wg.Done()
			mu.Lock()
			completed++
			errs = append(errs, fmt.Errorf("submitting %q: %w", doc.DocID, err))
			mu.Unlock()
		}
	}
	wg.Wait()

	mu.Lock()
	final := Progress{
		Stage:     StageComplete,
		Completed: completed,
		Total:     total,
		Percent:   100,
		Errors:    append([]error(nil), errs...),
	}
	joined := errors.Join(errs...)
	progress(final)
	mu.Unlock()

	p.logger.Info("indexing pass finished", "documents", total, "errors", len(final.Errors))
	return joined
}

// indexOne runs the full flow for a single document: validate, chunk,
// supersede the prior version, commit the vocabulary, embed, upsert with
// retry, and index keywords. Vocabulary commitment happens only after
// validation and chunking succeed, so rejected documents leave no trace.
func (p *Pipeline) indexOne(ctx context.Context, doc Document, emit func(Progress)) error {
	emit(Progress{Stage: StageProcessing, DocID: doc.DocID})

	raw := &core.RawDocument{
		DocID:    doc.DocID,
		Title:    doc.Title,
		Source:   doc.Source,
		Content:  core.NormalizeText(doc.Content),
		Metadata: doc.Metadata,
	}
	if err := core.ValidateDocument(raw); err != nil {
		return fmt.Errorf("document %q: %w", doc.DocID, err)
	}

	chunks, err := p.processor.Process(raw.Content, p.chunkOpts)
	if err != nil {
		return fmt.Errorf("chunking %q: %w", doc.DocID, err)
	}

	raw.Id = core.IDFromContent(raw.DocID)
	removed, err := p.vectors.DeleteByDocument(ctx, raw.Id)
	if err != nil {
		return fmt.Errorf("superseding %q: %w", doc.DocID, err)
	}
	if len(removed) > 0 {
		p.keywords.RemoveChunks(removed)
		p.logger.Debug("superseded prior version", "docId", doc.DocID, "chunks", len(removed))
	}

	p.vocab.CommitDocument(analysis.Tokenize(raw.Content))

	emit(Progress{Stage: StageEmbedding, DocID: doc.DocID})
	entries := make([]*core.IndexedEntry, len(chunks))
	for i := range chunks {
		chunks[i].Id = core.ChunkID(doc.DocID, chunks[i].Ordinal)
		chunks[i].DocumentId = raw.Id
		vector, _, err := p.embedder.EmbedText(ctx, chunks[i].Content)
		if err != nil {
			return fmt.Errorf("embedding %q chunk %d: %w", doc.DocID, chunks[i].Ordinal, err)
		}
		entries[i] = &core.IndexedEntry{
			Chunk:    chunks[i],
			Vector:   vector,
			Metadata: raw.Metadata,
		}
	}

	err = RetryWithBackoff(ctx, func() error {
		return p.vectors.Upsert(ctx, entries...)
	}, p.maxAttempts, p.baseDelay)
	if err != nil {
		return &FatalIndexingError{DocID: doc.DocID, Err: err}
	}

	for i := range chunks {
		p.keywords.IndexChunk(chunks[i].Id, chunks[i].Content)
	}

	raw.ChunkCount = len(chunks)
	raw.IndexedAt = time.Now().UTC()
	err = RetryWithBackoff(ctx, func() error {
		return p.docs.PutDocument(ctx, raw)
	}, p.maxAttempts, p.baseDelay)
	if err != nil {
		return &FatalIndexingError{DocID: doc.DocID, Err: err}
	}
	return nil
}
