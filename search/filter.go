package search

import "github.com/poiesic/corpora/core"

// matchesFilters reports whether metadata satisfies every set filter field.
func matchesFilters(md core.Metadata, f *Filters) bool {
	if f.empty() {
		return true
	}
	if f.Category != "" && md.Category != f.Category {
		return false
	}
	if f.Source != "" && md.Source != f.Source {
		return false
	}
	if f.DocumentType != "" && md.DocumentType != f.DocumentType {
		return false
	}
	if f.Platform != "" && md.Platform != f.Platform {
		return false
	}
	if !f.CreatedAfter.IsZero() && md.CreatedAt.Before(f.CreatedAfter) {
		return false
	}
	if !f.CreatedBefore.IsZero() && !md.CreatedAt.Before(f.CreatedBefore) {
		return false
	}
	return true
}

// applyFilters drops candidates whose metadata fails the filters.
func applyFilters(candidates []*candidate, f *Filters) []*candidate {
	if f.empty() {
		return candidates
	}
	kept := candidates[:0]
	for _, cand := range candidates {
		if matchesFilters(cand.entry.Metadata, f) {
			kept = append(kept, cand)
		}
	}
	return kept
}
