package search

import (
	"context"
	"slices"

	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/keyword"
	"github.com/poiesic/corpora/storage"
)

// candidate accumulates branch scores for one chunk during fusion.
type candidate struct {
	entry     *core.IndexedEntry
	semantic  float32
	keyword   float32
	matched   []string
	degraded  bool
	score     float32
	matchType core.MatchType
}

// fuse combines the two branch result sets into scored candidates. A chunk
// found by only one branch gets zero from the other. Keyword-only chunks
// are resolved against the vector store; chunks that no longer exist there
// are dropped.
func (e *Engine) fuse(ctx context.Context, hits []*storage.VectorHit, matches []keyword.Match, req QueryRequest) []*candidate {
	byChunk := make(map[core.ID]*candidate, len(hits)+len(matches))

	for _, hit := range hits {
		byChunk[hit.Entry.Chunk.Id] = &candidate{
			entry:    hit.Entry,
			semantic: hit.Similarity,
			degraded: hit.Degraded,
		}
	}

	for _, match := range matches {
		cand, ok := byChunk[match.ChunkID]
		if !ok {
			entry, err := e.vectors.GetEntry(ctx, match.ChunkID)
			if err != nil {
				e.logger.Debug("keyword hit without stored entry", "chunkID", match.ChunkID, "err", err)
				continue
			}
			cand = &candidate{entry: entry}
			byChunk[match.ChunkID] = cand
		}
		cand.keyword = match.Score
		cand.matched = match.MatchedTerms
	}

	candidates := make([]*candidate, 0, len(byChunk))
	for _, cand := range byChunk {
		cand.score = req.SemanticWeight*cand.semantic + req.KeywordWeight*cand.keyword
		switch {
		case cand.degraded:
			cand.matchType = core.MatchTypeFallback
		case cand.semantic > 0 && cand.keyword > 0:
			cand.matchType = core.MatchTypeHybrid
		case cand.keyword > 0:
			cand.matchType = core.MatchTypeKeyword
		default:
			cand.matchType = core.MatchTypeSemantic
		}
		candidates = append(candidates, cand)
	}

	return dedupeByDocument(candidates)
}

// dedupeByDocument keeps only the best-scoring chunk per document.
func dedupeByDocument(candidates []*candidate) []*candidate {
	best := make(map[core.ID]*candidate, len(candidates))
	for _, cand := range candidates {
		docID := cand.entry.Chunk.DocumentId
		if prev, ok := best[docID]; !ok || cand.score > prev.score ||
			(cand.score == prev.score && cand.entry.Chunk.Id < prev.entry.Chunk.Id) {
			best[docID] = cand
		}
	}
	result := make([]*candidate, 0, len(best))
	for _, cand := range best {
		result = append(result, cand)
	}
	return result
}

// rankCandidates orders by descending score with ascending chunk ID
// breaking ties.
func rankCandidates(candidates []*candidate) {
	slices.SortFunc(candidates, func(a, b *candidate) int {
		if a.score != b.score {
			if a.score > b.score {
				return -1
			}
			return 1
		}
		if a.entry.Chunk.Id < b.entry.Chunk.Id {
			return -1
		}
		if a.entry.Chunk.Id > b.entry.Chunk.Id {
			return 1
		}
		return 0
	})
}
