package search

import (
	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/keyword"
	"github.com/poiesic/corpora/storage"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps during a query.
type SearchMonitor interface {
	Start(query string)
	AfterSemanticSearch(hits []*storage.VectorHit)
	AfterKeywordSearch(matches []keyword.Match)
	AfterFusion(candidates int)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                            {}
func (n *noopMonitor) AfterSemanticSearch(_ []*storage.VectorHit) {}
func (n *noopMonitor) AfterKeywordSearch(_ []keyword.Match)      {}
func (n *noopMonitor) AfterFusion(_ int)                         {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)             {}
