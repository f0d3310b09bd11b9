package search

import (
	"strings"

	"github.com/poiesic/corpora/analysis"
)

// suggestionPool is how many top vocabulary terms are considered.
const suggestionPool = 100

// Suggest proposes up to limit corpus terms related to the query, by
// substring overlap with the query's stemmed tokens against the most
// frequent vocabulary terms. Best-effort: without a vocabulary or signal
// tokens it returns nothing.
func (e *Engine) Suggest(query string, limit int) []string {
	if e.vocab == nil || limit <= 0 {
		return nil
	}
	tokens := analysis.Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	var suggestions []string
	for _, term := range e.vocab.TopTerms(suggestionPool) {
		for _, token := range tokens {
			if term == token {
				continue
			}
			if strings.Contains(term, token) || strings.Contains(token, term) {
				suggestions = append(suggestions, term)
				break
			}
		}
		if len(suggestions) >= limit {
			break
		}
	}
	return suggestions
}
