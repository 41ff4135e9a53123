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
	"sort"
	"strings"

	"github.com/poiesic/noema/core"
)

// uncategorizedGroup collects results whose items carry no category.
const uncategorizedGroup = "Uncategorized"

// Processor applies stateless transforms to result lists: filtering,
// sorting, grouping and merging. Every method returns a new slice; inputs
// are never mutated.
type Processor struct{}

// NewProcessor creates a result processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// ApplyOptions runs the full post-processing pipeline in its fixed order:
// category filter, tag filter, source-type filter, minimum relevance, sort,
// optional grouping, and finally truncation to MaxResults. Truncation comes
// last so sorting and grouping always see the fully filtered set.
func (p *Processor) ApplyOptions(results *core.SearchResults, opts core.SearchOptions) *core.SearchResults {
	filtered := p.FilterByCategories(results.Results, opts.IncludeCategories, opts.ExcludeCategories)
	filtered = p.FilterByTags(filtered, opts.IncludeTags, opts.ExcludeTags)
	filtered = p.FilterBySourceTypes(filtered, opts.SourceTypes)
	filtered = p.FilterByMinRelevance(filtered, opts.MinRelevance)
	filtered = p.Sort(filtered, opts.SortBy)

	out := &core.SearchResults{
		Query:      results.Query,
		Results:    filtered,
		TotalFound: len(filtered),
		SearchTime: results.SearchTime,
	}
	if opts.GroupByCategory {
		out.GroupedResults = p.GroupByCategory(filtered)
	}
	if opts.MaxResults > 0 && len(out.Results) > opts.MaxResults {
		out.Results = out.Results[:opts.MaxResults]
	}
	return out
}

// FilterByCategories keeps results matching the include list (any overlap,
// empty list means all) and drops results matching the exclude list.
// Category names are compared case-insensitively.
func (p *Processor) FilterByCategories(results []*core.SearchResult, include, exclude []string) []*core.SearchResult {
	return filterByNames(results, include, exclude, func(r *core.SearchResult) []string {
		return r.Item.Categories
	})
}

// FilterByTags mirrors FilterByCategories over the items' tags.
func (p *Processor) FilterByTags(results []*core.SearchResult, include, exclude []string) []*core.SearchResult {
	return filterByNames(results, include, exclude, func(r *core.SearchResult) []string {
		return r.Item.Tags
	})
}

func filterByNames(results []*core.SearchResult, include, exclude []string, names func(*core.SearchResult) []string) []*core.SearchResult {
	if len(include) == 0 && len(exclude) == 0 {
		return results
	}

	includeSet := foldedSet(include)
	excludeSet := foldedSet(exclude)

	out := make([]*core.SearchResult, 0, len(results))
	for _, result := range results {
		keep := len(includeSet) == 0
		skip := false
		for _, name := range names(result) {
			folded := strings.ToLower(name)
			if includeSet[folded] {
				keep = true
			}
			if excludeSet[folded] {
				skip = true
			}
		}
		if keep && !skip {
			out = append(out, result)
		}
	}
	return out
}

func foldedSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[strings.ToLower(name)] = true
	}
	return set
}

// FilterBySourceTypes keeps results whose source type is in the allow-list.
// An empty list keeps everything.
func (p *Processor) FilterBySourceTypes(results []*core.SearchResult, types []core.SourceType) []*core.SearchResult {
	if len(types) == 0 {
		return results
	}
	allowed := make(map[core.SourceType]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}

	out := make([]*core.SearchResult, 0, len(results))
	for _, result := range results {
		if allowed[result.Item.SourceType] {
			out = append(out, result)
		}
	}
	return out
}

// FilterByMinRelevance drops results scoring below the threshold.
func (p *Processor) FilterByMinRelevance(results []*core.SearchResult, minRelevance float64) []*core.SearchResult {
	if minRelevance <= 0 {
		return results
	}
	out := make([]*core.SearchResult, 0, len(results))
	for _, result := range results {
		if result.Relevance >= minRelevance {
			out = append(out, result)
		}
	}
	return out
}

// Sort orders results by the requested order: relevance descending, date
// (UpdatedAt) descending, or title ascending. Unknown orders sort by
// relevance. Sorting is stable and returns a new slice.
func (p *Processor) Sort(results []*core.SearchResult, order core.SortOrder) []*core.SearchResult {
	out := make([]*core.SearchResult, len(results))
	copy(out, results)

	switch order {
	case core.SortByDate:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Item.UpdatedAt.After(out[j].Item.UpdatedAt)
		})
	case core.SortByTitle:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Item.Title) < strings.ToLower(out[j].Item.Title)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Relevance > out[j].Relevance
		})
	}
	return out
}

// GroupByCategory buckets results under each category their item belongs
// to; an item in N categories appears in N groups. Items without categories
// fall into the "Uncategorized" group.
func (p *Processor) GroupByCategory(results []*core.SearchResult) map[string][]*core.SearchResult {
	groups := make(map[string][]*core.SearchResult)
	for _, result := range results {
		if len(result.Item.Categories) == 0 {
			groups[uncategorizedGroup] = append(groups[uncategorizedGroup], result)
			continue
		}
		for _, category := range result.Item.Categories {
			groups[category] = append(groups[category], result)
		}
	}
	return groups
}

// MergeResults combines two independently scored lists. An item present in
// both accumulates both weighted contributions; matched fields are unioned.
// Combined relevance is capped at 1 and the merged list is sorted by it,
// descending.
func (p *Processor) MergeResults(keyword, semantic []*core.SearchResult, keywordWeight, semanticWeight float64) []*core.SearchResult {
	type mergeSlot struct {
		result *core.SearchResult
		order  int
	}
	merged := make(map[core.ID]*mergeSlot, len(keyword)+len(semantic))

	accumulate := func(results []*core.SearchResult, weight float64) {
		for _, result := range results {
			slot, ok := merged[result.Item.Id]
			if !ok {
				slot = &mergeSlot{
					result: &core.SearchResult{
						Item:         result.Item,
						ChunkMatches: result.ChunkMatches,
					},
					order: len(merged),
				}
				merged[result.Item.Id] = slot
			}
			slot.result.Relevance += result.Relevance * weight
			slot.result.MatchedFields = unionFields(slot.result.MatchedFields, result.MatchedFields)
			if slot.result.ChunkMatches == nil {
				slot.result.ChunkMatches = result.ChunkMatches
			}
		}
	}
	accumulate(keyword, keywordWeight)
	accumulate(semantic, semanticWeight)

	slots := make([]*mergeSlot, 0, len(merged))
	for _, slot := range merged {
		if slot.result.Relevance > 1.0 {
			slot.result.Relevance = 1.0
		}
		slots = append(slots, slot)
	}
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].result.Relevance != slots[j].result.Relevance {
			return slots[i].result.Relevance > slots[j].result.Relevance
		}
		return slots[i].order < slots[j].order
	})

	out := make([]*core.SearchResult, len(slots))
	for i, slot := range slots {
		out[i] = slot.result
	}
	return out
}

func unionFields(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, field := range existing {
		seen[field] = true
	}
	for _, field := range incoming {
		if !seen[field] {
			seen[field] = true
			existing = append(existing, field)
		}
	}
	return existing
}
