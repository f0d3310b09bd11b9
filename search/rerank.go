package search

import (
	"strings"

	"github.com/poiesic/corpora/core"
)

// maxRerankBias caps the total rerank adjustment at this fraction of the
// fused score, so reranking refines ordering without overturning it.
const maxRerankBias = 0.2

const (
	phraseBias   = 0.10
	positionBias = 0.05
	titleBias    = 0.05
)

// rerank applies a bounded bias for exact phrase containment, early match
// position and title matches. The candidate's score is adjusted in place.
func rerank(cand *candidate, doc *core.RawDocument, phrase string, queryTokens []string) {
	content := strings.ToLower(cand.entry.Chunk.Content)
	var bias float32

	if idx := strings.Index(content, phrase); idx >= 0 {
		bias += phraseBias
		if idx < len(content)/3 {
			bias += positionBias
		}
	} else {
		for _, token := range queryTokens {
			if idx := strings.Index(content, token); idx >= 0 && idx < len(content)/3 {
				bias += positionBias
				break
			}
		}
	}

	if doc != nil {
		title := strings.ToLower(doc.Title)
		for _, token := range queryTokens {
			if token != "" && strings.Contains(title, token) {
				bias += titleBias
				break
			}
		}
	}

	if ceiling := maxRerankBias * cand.score; bias > ceiling {
		bias = ceiling
	}
	cand.score += bias
}
