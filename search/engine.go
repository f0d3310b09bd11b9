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


package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/corpora/analysis"
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/embed"
	"github.com/poiesic/corpora/keyword"
	"github.com/poiesic/corpora/storage"
)

// minCandidateLimit floors how many candidates each branch fetches so
// fusion has something to work with even for tiny topK values.
const minCandidateLimit = 30

// Engine runs hybrid semantic and keyword queries.
type Engine struct {
	vectors  storage.VectorStore
	docs     storage.DocumentRepository
	keywords *keyword.Index
	embedder embed.Embedder
	vocab    *embed.VocabularyStore
	monitor  SearchMonitor
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithMonitor sets a search monitor receiving stage callbacks.
// Default is a no-op monitor.
func WithMonitor(monitor SearchMonitor) Option {
	return func(e *Engine) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		e.monitor = monitor
		return nil
	}
}

// WithVocabulary attaches the vocabulary store used for query suggestions.
// Without it, suggestions are disabled.
func WithVocabulary(vocab *embed.VocabularyStore) Option {
	return func(e *Engine) error {
		e.vocab = vocab
		return nil
	}
}

// NewEngine creates a search engine over the given stores.
func NewEngine(
	vectors storage.VectorStore,
	docs storage.DocumentRepository,
	keywords *keyword.Index,
	embedder embed.Embedder,
	opts ...Option,
) (*Engine, error) {
	if vectors == nil {
		return nil, ErrVectorStoreRequired
	}
	if docs == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if keywords == nil {
		return nil, ErrKeywordIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	e := &Engine{
		vectors:  vectors,
		docs:     docs,
		keywords: keywords,
		embedder: embedder,
		monitor:  &noopMonitor{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

type semanticOut struct {
	hits []*storage.VectorHit
	err  error
}

type keywordOut struct {
	matches []keyword.Match
	err     error
}

// Query runs one hybrid search. A deadline on ctx bounds the whole query;
// when it fires mid-flight the engine returns whatever branches finished,
// tagged Partial, rather than an error. Stats are populated on every
// response, including empty ones.
func (e *Engine) Query(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}
	if req.TopK < 0 {
		return nil, ErrInvalidTopK
	}
	if req.SemanticWeight < 0 || req.KeywordWeight < 0 {
		return nil, ErrInvalidWeights
	}
	req = req.withDefaults()

	started := time.Now()
	logger := e.logger.With("requestID", uuid.NewString())
	logger.Debug("query started", "query", req.Query, "topK", req.TopK)
	e.monitor.Start(req.Query)

	candidateLimit := req.TopK * 3
	if candidateLimit < minCandidateLimit {
		candidateLimit = minCandidateLimit
	}

	semCh := make(chan semanticOut, 1)
	kwCh := make(chan keywordOut, 1)
	go func() {
		hits, err := e.semanticBranch(ctx, req, candidateLimit)
		semCh <- semanticOut{hits: hits, err: err}
	}()
	go func() {
		kwCh <- keywordOut{matches: e.keywords.Lookup(req.Query, candidateLimit)}
	}()

	var sem semanticOut
	var kw keywordOut
	semDone, kwDone := false, false
	partial := false
	for !semDone || !kwDone {
		select {
		case sem = <-semCh:
			semDone = true
		case kw = <-kwCh:
			kwDone = true
		case <-ctx.Done():
			partial = true
		}
		if partial {
			break
		}
	}

	resp := &QueryResponse{Partial: partial}
	if sem.err != nil {
		logger.Warn("semantic branch failed", "err", sem.err)
		resp.Partial = true
	}
	if kw.err != nil {
		logger.Warn("keyword branch failed", "err", kw.err)
		resp.Partial = true
	}
	if sem.err != nil && kw.err != nil {
		resp.Reason = "semantic and keyword search both failed"
		resp.Results = []*core.SearchResult{}
		resp.Stats = SearchStats{Duration: time.Since(started)}
		e.monitor.Finish(resp.Results)
		return resp, nil
	}
	e.monitor.AfterSemanticSearch(sem.hits)
	e.monitor.AfterKeywordSearch(kw.matches)

	for _, hit := range sem.hits {
		if hit.Degraded {
			resp.Degraded = true
			break
		}
	}

	// Fusion, filters and rerank run under the background context: the
	// remaining work is local and should finish even after a branch
	// deadline fired.
	fuseCtx := context.WithoutCancel(ctx)
	candidates := e.fuse(fuseCtx, sem.hits, kw.matches, req)
	e.monitor.AfterFusion(len(candidates))
	fused := len(candidates)

	candidates = applyFilters(candidates, req.Filters)

	documents := e.resolveDocuments(fuseCtx, candidates, logger)
	if !req.DisableRerank {
		phrase := strings.ToLower(strings.TrimSpace(req.Query))
		queryTokens := analysis.Tokenize(req.Query)
		for _, cand := range candidates {
			rerank(cand, documents[cand.entry.Chunk.DocumentId], phrase, queryTokens)
		}
	}

	rankCandidates(candidates)
	if len(candidates) > req.TopK {
		candidates = candidates[:req.TopK]
	}

	results := make([]*core.SearchResult, 0, len(candidates))
	for _, cand := range candidates {
		results = append(results, &core.SearchResult{
			Chunk:         &cand.entry.Chunk,
			Document:      documents[cand.entry.Chunk.DocumentId],
			Score:         cand.score,
			SemanticScore: cand.semantic,
			KeywordScore:  cand.keyword,
			MatchedTerms:  cand.matched,
			MatchType:     cand.matchType,
			Degraded:      cand.degraded,
		})
	}

	resp.Results = results
	if len(results) > 0 {
		bundle := AssembleContext(results, DefaultContextBudget)
		resp.Context = bundle.Text
		resp.Sources = bundle.Sources
	}
	resp.Stats = SearchStats{
		Duration:           time.Since(started),
		SemanticCandidates: len(sem.hits),
		KeywordCandidates:  len(kw.matches),
		FusedCandidates:    fused,
		Results:            len(results),
	}
	if len(results) == 0 {
		if resp.Reason == "" {
			resp.Reason = "no matching chunks"
		}
		resp.Suggestions = e.Suggest(req.Query, 5)
	}

	logger.Debug("query finished",
		"results", len(results), "partial", resp.Partial,
		"degraded", resp.Degraded, "duration", resp.Stats.Duration)
	e.monitor.Finish(results)
	return resp, nil
}

// semanticBranch embeds the query and searches the vector store. A query
// with no signal tokens contributes nothing rather than matching
// everything with a zero vector.
func (e *Engine) semanticBranch(ctx context.Context, req QueryRequest, limit int) ([]*storage.VectorHit, error) {
	vector, tokenCount, err := e.embedder.EmbedText(ctx, req.Query)
	if err != nil {
		return nil, err
	}
	if tokenCount == 0 {
		return nil, nil
	}
	return e.vectors.Search(ctx, vector, storage.VectorSearchOptions{
		TopK:          limit,
		MinSimilarity: req.MinSimilarity,
		QueryText:     req.Query,
	})
}

// resolveDocuments fetches each candidate's parent document once.
// Missing documents are tolerated; the result simply carries a nil
// Document.
func (e *Engine) resolveDocuments(ctx context.Context, candidates []*candidate, logger *slog.Logger) map[core.ID]*core.RawDocument {
	documents := make(map[core.ID]*core.RawDocument)
	for _, cand := range candidates {
		docID := cand.entry.Chunk.DocumentId
		if _, seen := documents[docID]; seen {
			continue
		}
		doc, err := e.docs.GetDocumentByID(ctx, docID)
		if err != nil {
			logger.Debug("parent document not found", "documentID", docID, "err", err)
			documents[docID] = nil
			continue
		}
		documents[docID] = doc
	}
	return documents
}
