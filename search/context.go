package search

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/corpora/core"
)

// DefaultContextBudget is the character budget used when none is given.
const DefaultContextBudget = 4000

// ContextBundle is assembled retrieval context ready to hand to a language
// model, with one attribution entry per contributing document.
type ContextBundle struct {
	Text    string
	Sources []string
}

// AssembleContext concatenates result chunks in rank order up to the
// character budget. A first chunk larger than the whole budget is truncated
// rather than dropped, so the bundle is never empty when results exist.
func AssembleContext(results []*core.SearchResult, charBudget int) ContextBundle {
	if charBudget <= 0 {
		charBudget = DefaultContextBudget
	}

	var b strings.Builder
	var sources []string
	seen := make(map[string]struct{})

	for _, result := range results {
		content := result.Chunk.Content
		separator := 0
		if b.Len() > 0 {
			separator = 2
		}
		if b.Len()+separator+len(content) > charBudget {
			if b.Len() > 0 {
				break
			}
			content = truncateRunes(content, charBudget)
			if content == "" {
				break
			}
		}
		if separator > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(content)

		label := sourceLabel(result)
		if _, dup := seen[label]; !dup {
			seen[label] = struct{}{}
			sources = append(sources, label)
		}
	}

	return ContextBundle{Text: b.String(), Sources: sources}
}

// sourceLabel names a result's origin for attribution.
func sourceLabel(result *core.SearchResult) string {
	if result.Document != nil {
		if result.Document.Title != "" {
			return fmt.Sprintf("%s (%s)", result.Document.Title, result.Document.DocID)
		}
		return result.Document.DocID
	}
	return fmt.Sprintf("document %d", result.Chunk.DocumentId)
}

// truncateRunes cuts s to at most n bytes without splitting a rune.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
