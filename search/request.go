package search

import (
	"time"

	"github.com/poiesic/corpora/core"
)

// Default query parameters applied when the request leaves them zero.
const (
	DefaultTopK           = 10
	DefaultSemanticWeight = 0.7
	DefaultKeywordWeight  = 0.3
)

// Filters restricts results by document metadata. Zero-valued fields are
// not applied; set fields are AND-combined.
type Filters struct {
	Category      string
	Source        string
	DocumentType  string
	Platform      string
	CreatedAfter  time.Time
	CreatedBefore time.Time
}

// empty reports whether no filter field is set.
func (f *Filters) empty() bool {
	return f == nil || (f.Category == "" && f.Source == "" && f.DocumentType == "" &&
		f.Platform == "" && f.CreatedAfter.IsZero() && f.CreatedBefore.IsZero())
}

// QueryRequest describes one search. Zero values take defaults.
type QueryRequest struct {
	// Query is the free-text query. Required.
	Query string

	// TopK caps the number of results. Default DefaultTopK.
	TopK int

	// MinSimilarity drops semantic candidates below the threshold.
	MinSimilarity float32

	// SemanticWeight and KeywordWeight control fusion. Both zero means the
	// defaults (0.7 / 0.3).
	SemanticWeight float32
	KeywordWeight  float32

	// Filters restricts results by document metadata.
	Filters *Filters

	// DisableRerank turns off the bounded rerank pass.
	DisableRerank bool
}

// withDefaults normalizes the request.
func (r QueryRequest) withDefaults() QueryRequest {
	if r.TopK == 0 {
		r.TopK = DefaultTopK
	}
	if r.SemanticWeight == 0 && r.KeywordWeight == 0 {
		r.SemanticWeight = DefaultSemanticWeight
		r.KeywordWeight = DefaultKeywordWeight
	}
	return r
}

// SearchStats reports timing and candidate counts for one query.
// It is always populated, even when the query returns nothing.
type SearchStats struct {
	Duration           time.Duration
	SemanticCandidates int
	KeywordCandidates  int
	FusedCandidates    int
	Results            int
}

// QueryResponse is the outcome of one search.
type QueryResponse struct {
	Results []*core.SearchResult

	// Suggestions offers alternative query terms when the search came back
	// empty. Best-effort; may be nil.
	Suggestions []string

	// Partial marks responses assembled after the caller's deadline cut a
	// branch short or one branch failed.
	Partial bool

	// Degraded marks responses containing substring-fallback hits.
	Degraded bool

	// Reason explains an empty or partial response for diagnostics.
	Reason string

	// Context is the assembled context bundle for the results, ready to
	// hand to a generator. Empty when there are no results.
	Context string

	// Sources labels the documents contributing to Context, in result
	// order.
	Sources []string

	Stats SearchStats
}
