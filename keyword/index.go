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


package keyword

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/poiesic/corpora/analysis"
	"github.com/poiesic/corpora/core"
)

const (
	unigramWeight float32 = 1
	bigramWeight  float32 = 2
)

// Match is one chunk returned by a lookup, with the fraction of the query's
// term weight it covered and the stemmed terms that matched.
type Match struct {
	ChunkID      core.ID
	Score        float32
	MatchedTerms []string
}

// Stats summarizes index contents.
type Stats struct {
	Chunks int
	Terms  int
}

// Index is an inverted index from stemmed terms to chunks.
// All methods are safe for concurrent use.
type Index struct {
	mu         sync.RWMutex
	postings   map[string]map[core.ID]float32
	chunkTerms map[core.ID][]string
	logger     *slog.Logger
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(idx *Index) {
		if logger == nil {
			logger = slog.Default()
		}
		idx.logger = logger
	}
}

// NewIndex creates an empty keyword index.
func NewIndex(opts ...Option) *Index {
	idx := &Index{
		postings:   make(map[string]map[core.ID]float32),
		chunkTerms: make(map[core.ID][]string),
		logger:     slog.Default().With("component", "keyword-index"),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// IndexChunk records the chunk's unigrams and bigrams. Re-indexing the same
// chunk replaces its previous terms, so repeated ingestion of a document is
// idempotent. A chunk with no signal tokens is simply not indexed.
func (idx *Index) IndexChunk(chunkID core.ID, text string) {
	tokens := analysis.Tokenize(text)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.removeLocked(chunkID)
	if len(tokens) == 0 {
		return
	}

	terms := make(map[string]float32, len(tokens)*2)
	for _, term := range tokens {
		terms[term] = unigramWeight
	}
	for _, bigram := range analysis.Bigrams(tokens) {
		terms[bigram] = bigramWeight
	}

	kept := make([]string, 0, len(terms))
	for term, weight := range terms {
		chunks, ok := idx.postings[term]
		if !ok {
			chunks = make(map[core.ID]float32)
			idx.postings[term] = chunks
		}
		chunks[chunkID] = weight
		kept = append(kept, term)
	}
	idx.chunkTerms[chunkID] = kept
}

// RemoveChunk drops a chunk from the index. Unknown IDs are a no-op.
func (idx *Index) RemoveChunk(chunkID core.ID) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeLocked(chunkID)
}

// RemoveChunks drops multiple chunks in one critical section.
func (idx *Index) RemoveChunks(chunkIDs []core.ID) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, id := range chunkIDs {
		idx.removeLocked(id)
	}
}

func (idx *Index) removeLocked(chunkID core.ID) {
	terms, ok := idx.chunkTerms[chunkID]
	if !ok {
		return
	}
	for _, term := range terms {
		if chunks, ok := idx.postings[term]; ok {
			delete(chunks, chunkID)
			if len(chunks) == 0 {
				delete(idx.postings, term)
			}
		}
	}
	delete(idx.chunkTerms, chunkID)
}

// Lookup scores chunks against the query's unigrams and bigrams. The score
// is the matched weight over the query's total term weight, so a chunk
// containing every query term (and phrase) scores 1. Results are ordered by
// descending score with ascending chunk ID breaking ties, truncated to
// limit when limit is positive.
func (idx *Index) Lookup(query string, limit int) []Match {
	tokens := analysis.Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	queryTerms := make(map[string]float32, len(tokens)*2)
	for _, term := range tokens {
		queryTerms[term] = unigramWeight
	}
	for _, bigram := range analysis.Bigrams(tokens) {
		queryTerms[bigram] = bigramWeight
	}
	var totalWeight float32
	for _, weight := range queryTerms {
		totalWeight += weight
	}

	idx.mu.RLock()
	scores := make(map[core.ID]float32)
	matched := make(map[core.ID][]string)
	for term, weight := range queryTerms {
		for chunkID := range idx.postings[term] {
			scores[chunkID] += weight
			matched[chunkID] = append(matched[chunkID], term)
		}
	}
	idx.mu.RUnlock()

	results := make([]Match, 0, len(scores))
	for chunkID, score := range scores {
		terms := matched[chunkID]
		sort.Strings(terms)
		results = append(results, Match{
			ChunkID:      chunkID,
			Score:        score / totalWeight,
			MatchedTerms: terms,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ChunkID < results[j].ChunkID
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Stats returns the number of indexed chunks and distinct terms.
func (idx *Index) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return Stats{Chunks: len(idx.chunkTerms), Terms: len(idx.postings)}
}
