package search

import "github.com/poiesic/noema/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterKeywordSearch(results []*core.SearchResult)
	AfterSemanticSearch(results []*core.SearchResult)
	AfterMerge(results []*core.SearchResult)
	Finish(results *core.SearchResults)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                              {}
func (n *noopMonitor) AfterKeywordSearch(_ []*core.SearchResult)   {}
func (n *noopMonitor) AfterSemanticSearch(_ []*core.SearchResult)  {}
func (n *noopMonitor) AfterMerge(_ []*core.SearchResult)           {}
func (n *noopMonitor) Finish(_ *core.SearchResults)                {}
