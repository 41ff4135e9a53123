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
	"testing"
	"time"

	"github.com/poiesic/noema/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(id core.ID, title string, relevance float64) *core.SearchResult {
	return &core.SearchResult{
		Item:      &core.KnowledgeItem{Id: id, Title: title},
		Relevance: relevance,
	}
}

func sampleResults() []*core.SearchResult {
	a := result(1, "Alpha", 0.9)
	a.Item.Categories = []string{"programming"}
	a.Item.Tags = []string{"golang"}
	a.Item.SourceType = core.SourceTypeDocument
	a.Item.UpdatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	b := result(2, "Bravo", 0.5)
	b.Item.Categories = []string{"programming", "education"}
	b.Item.Tags = []string{"python"}
	b.Item.SourceType = core.SourceTypeWeb
	b.Item.UpdatedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	c := result(3, "Charlie", 0.2)
	c.Item.SourceType = core.SourceTypeNote
	c.Item.UpdatedAt = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	return []*core.SearchResult{a, b, c}
}

func TestFilterByCategories(t *testing.T) {
	p := NewProcessor()
	results := sampleResults()

	included := p.FilterByCategories(results, []string{"Programming"}, nil)
	assert.Len(t, included, 2)

	excluded := p.FilterByCategories(results, nil, []string{"EDUCATION"})
	assert.Len(t, excluded, 2)
	for _, r := range excluded {
		assert.NotEqual(t, core.ID(2), r.Item.Id)
	}

	assert.Len(t, p.FilterByCategories(results, nil, nil), 3)
}

func TestFilterByTags(t *testing.T) {
	p := NewProcessor()
	results := sampleResults()

	included := p.FilterByTags(results, []string{"golang", "python"}, nil)
	assert.Len(t, included, 2)

	both := p.FilterByTags(results, []string{"golang"}, []string{"golang"})
	assert.Empty(t, both)
}

func TestFilterBySourceTypes(t *testing.T) {
	p := NewProcessor()
	results := sampleResults()

	filtered := p.FilterBySourceTypes(results, []core.SourceType{core.SourceTypeWeb})
	require.Len(t, filtered, 1)
	assert.Equal(t, core.ID(2), filtered[0].Item.Id)

	assert.Len(t, p.FilterBySourceTypes(results, nil), 3)
}

func TestFilterByMinRelevance(t *testing.T) {
	p := NewProcessor()
	results := sampleResults()

	assert.Len(t, p.FilterByMinRelevance(results, 0.5), 2)
	assert.Empty(t, p.FilterByMinRelevance(results, 0.95))
}

func TestSortOrders(t *testing.T) {
	p := NewProcessor()
	results := []*core.SearchResult{
		sampleResults()[1], sampleResults()[2], sampleResults()[0],
	}

	byRelevance := p.Sort(results, core.SortByRelevance)
	assert.Equal(t, core.ID(1), byRelevance[0].Item.Id)

	byDate := p.Sort(results, core.SortByDate)
	assert.Equal(t, core.ID(3), byDate[0].Item.Id)

	byTitle := p.Sort(results, core.SortByTitle)
	assert.Equal(t, "Alpha", byTitle[0].Item.Title)

	// Input order is untouched
	assert.Equal(t, core.ID(2), results[0].Item.Id)
}

func TestGroupByCategory(t *testing.T) {
	p := NewProcessor()

	groups := p.GroupByCategory(sampleResults())
	assert.Len(t, groups["programming"], 2)
	assert.Len(t, groups["education"], 1)
	require.Len(t, groups[uncategorizedGroup], 1)
	assert.Equal(t, core.ID(3), groups[uncategorizedGroup][0].Item.Id)
}

func TestApplyOptionsHighMinRelevanceYieldsNothing(t *testing.T) {
	p := NewProcessor()

	out := p.ApplyOptions(&core.SearchResults{
		Query:   "anything",
		Results: sampleResults(),
	}, core.SearchOptions{
		MaxResults:   10,
		MinRelevance: 0.95,
		SortBy:       core.SortByRelevance,
	})

	assert.Empty(t, out.Results)
	assert.Zero(t, out.TotalFound)
}

func TestApplyOptionsTruncatesAfterGrouping(t *testing.T) {
	p := NewProcessor()

	out := p.ApplyOptions(&core.SearchResults{
		Query:   "anything",
		Results: sampleResults(),
	}, core.SearchOptions{
		MaxResults:      1,
		SortBy:          core.SortByRelevance,
		GroupByCategory: true,
	})

	// Truncation applies to the flat list only; grouping saw all survivors
	require.Len(t, out.Results, 1)
	assert.Equal(t, 3, out.TotalFound)
	assert.Len(t, out.GroupedResults["programming"], 2)
}

func TestApplyOptionsIsIdempotent(t *testing.T) {
	p := NewProcessor()
	opts := core.SearchOptions{
		MaxResults:        10,
		MinRelevance:      0.4,
		IncludeCategories: []string{"programming"},
		SortBy:            core.SortByRelevance,
	}

	once := p.ApplyOptions(&core.SearchResults{Results: sampleResults()}, opts)
	twice := p.ApplyOptions(once, opts)
	assert.Equal(t, once.Results, twice.Results)
	assert.Equal(t, once.TotalFound, twice.TotalFound)
}

func TestMergeResultsAccumulatesBothContributions(t *testing.T) {
	p := NewProcessor()

	keyword := []*core.SearchResult{
		{Item: &core.KnowledgeItem{Id: 1}, Relevance: 0.8, MatchedFields: []string{"title"}},
		{Item: &core.KnowledgeItem{Id: 2}, Relevance: 0.5, MatchedFields: []string{"content"}},
	}
	semantic := []*core.SearchResult{
		{Item: &core.KnowledgeItem{Id: 1}, Relevance: 0.6, MatchedFields: []string{"semantic"}},
		{Item: &core.KnowledgeItem{Id: 3}, Relevance: 0.9, MatchedFields: []string{"semantic"}},
	}

	merged := p.MergeResults(keyword, semantic, 0.6, 0.4)
	require.Len(t, merged, 3)

	byID := make(map[core.ID]*core.SearchResult)
	for _, r := range merged {
		byID[r.Item.Id] = r
	}

	assert.InDelta(t, 0.8*0.6+0.6*0.4, byID[1].Relevance, 1e-9)
	assert.ElementsMatch(t, []string{"title", "semantic"}, byID[1].MatchedFields)
	assert.InDelta(t, 0.5*0.6, byID[2].Relevance, 1e-9)
	assert.InDelta(t, 0.9*0.4, byID[3].Relevance, 1e-9)

	// Sorted descending
	assert.Equal(t, core.ID(1), merged[0].Item.Id)
}

func TestMergeResultsCapsAtOne(t *testing.T) {
	p := NewProcessor()

	keyword := []*core.SearchResult{{Item: &core.KnowledgeItem{Id: 1}, Relevance: 1.0}}
	semantic := []*core.SearchResult{{Item: &core.KnowledgeItem{Id: 1}, Relevance: 1.0}}

	merged := p.MergeResults(keyword, semantic, 0.9, 0.9)
	require.Len(t, merged, 1)
	assert.Equal(t, 1.0, merged[0].Relevance)
}

func TestMergeResultsDoesNotMutateInputs(t *testing.T) {
	p := NewProcessor()

	keyword := []*core.SearchResult{{Item: &core.KnowledgeItem{Id: 1}, Relevance: 0.8}}
	semantic := []*core.SearchResult{{Item: &core.KnowledgeItem{Id: 1}, Relevance: 0.6}}

	p.MergeResults(keyword, semantic, 0.6, 0.4)
	assert.Equal(t, 0.8, keyword[0].Relevance)
	assert.Equal(t, 0.6, semantic[0].Relevance)
}
