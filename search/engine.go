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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/noema/core"
	"github.com/poiesic/noema/index"
	"github.com/poiesic/noema/semantic"
	"github.com/poiesic/noema/storage"
)

// Fixed merge weights for the hybrid result combination.
const (
	keywordWeight  = 0.6
	semanticWeight = 0.4
)

// Engine provides hybrid search over the knowledge base, combining
// full-text keyword retrieval with TF-IDF semantic retrieval.
type Engine struct {
	items     storage.ItemRepository
	index     *index.Manager
	semantic  *semantic.Searcher
	processor *Processor
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a new search engine.
func NewEngine(
	items storage.ItemRepository,
	indexManager *index.Manager,
	semanticSearcher *semantic.Searcher,
	opts ...Option,
) (*Engine, error) {
	if items == nil {
		return nil, ErrItemRepositoryRequired
	}
	if indexManager == nil {
		return nil, ErrIndexManagerRequired
	}
	if semanticSearcher == nil {
		return nil, ErrSemanticSearcherRequired
	}

	e := &Engine{
		items:     items,
		index:     indexManager,
		semantic:  semanticSearcher,
		processor: NewProcessor(),
		logger:    slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Search runs the hybrid query pipeline and returns processed results.
func (e *Engine) Search(ctx context.Context, query string, opts core.SearchOptions) (*core.SearchResults, error) {
	return e.SearchWithMonitor(ctx, query, opts, nil)
}

// SearchWithMonitor runs Search with a monitor receiving callbacks at each
// stage of the pipeline.
//
// Both retrieval paths run at twice the requested result count so that
// post-merge filtering still has enough candidates to fill the final list.
// The semantic path is skipped while its model is unfit.
func (e *Engine) SearchWithMonitor(ctx context.Context, query string, opts core.SearchOptions, monitor SearchMonitor) (*core.SearchResults, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if opts.MaxResults == 0 {
		opts.MaxResults = core.DefaultSearchOptions().MaxResults
	}
	if opts.SortBy == "" {
		opts.SortBy = core.SortByRelevance
	}
	if err := core.ValidateSearchOptions(&opts); err != nil {
		return nil, err
	}

	start := time.Now()
	monitor.Start(query)
	limit := 2 * opts.MaxResults

	keywordResults, err := e.keywordSearch(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	monitor.AfterKeywordSearch(keywordResults)

	var semanticResults []*core.SearchResult
	if e.semantic.Fitted() {
		semanticResults = e.semantic.Search(query, limit, 0)
		attachChunkMatches(semanticResults, e.semantic.SearchChunks(query, limit, 0))
	}
	monitor.AfterSemanticSearch(semanticResults)

	var merged []*core.SearchResult
	switch {
	case len(keywordResults) > 0 && len(semanticResults) > 0:
		merged = e.processor.MergeResults(keywordResults, semanticResults, keywordWeight, semanticWeight)
	case len(keywordResults) > 0:
		merged = keywordResults
	default:
		merged = semanticResults
	}
	monitor.AfterMerge(merged)

	results := e.processor.ApplyOptions(&core.SearchResults{
		Query:   query,
		Results: merged,
	}, opts)
	results.SearchTime = time.Since(start)

	e.logger.Debug("search completed", "query", query,
		"keyword_hits", len(keywordResults), "semantic_hits", len(semanticResults),
		"returned", len(results.Results), "elapsed", results.SearchTime)
	monitor.Finish(results)
	return results, nil
}

// keywordSearch resolves full-text hits back into stored items. Hits whose
// items have been deleted since the last index commit are skipped.
func (e *Engine) keywordSearch(ctx context.Context, query string, limit int) ([]*core.SearchResult, error) {
	hits, err := e.index.SearchItems(query, limit)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return []*core.SearchResult{}, nil
	}

	ids := make([]core.ID, 0, len(hits))
	for _, hit := range hits {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, core.ID(id))
	}
	items, err := e.items.GetItems(ctx, ids...)
	if err != nil {
		return nil, err
	}
	byID := make(map[core.ID]*core.KnowledgeItem, len(items))
	for _, item := range items {
		byID[item.Id] = item
	}

	results := make([]*core.SearchResult, 0, len(hits))
	for _, hit := range hits {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		item, ok := byID[core.ID(id)]
		if !ok {
			continue
		}
		results = append(results, &core.SearchResult{
			Item:          item,
			Relevance:     hit.Score,
			MatchedFields: hit.MatchedFields,
		})
	}
	return results, nil
}

// attachChunkMatches groups chunk-level hits by their parent item and hangs
// them off the matching results.
func attachChunkMatches(results []*core.SearchResult, matches []*core.ChunkMatch) {
	if len(matches) == 0 {
		return
	}
	byItem := make(map[core.ID][]*core.ChunkMatch)
	for _, match := range matches {
		byItem[match.Chunk.ItemId] = append(byItem[match.Chunk.ItemId], match)
	}
	for _, result := range results {
		result.ChunkMatches = byItem[result.Item.Id]
	}
}

// Suggest returns completion candidates for a partial query: stored index
// terms with the partial as prefix, followed by the semantic model's known
// query terms. Candidates are deduplicated case-insensitively in discovery
// order and truncated to max.
func (e *Engine) Suggest(partial string, max int) []string {
	folded := strings.ToLower(strings.TrimSpace(partial))
	if len(folded) <= 1 || max <= 0 {
		return nil
	}

	var suggestions []string
	seen := make(map[string]bool)
	add := func(term string) {
		key := strings.ToLower(term)
		if len(key) <= 1 || seen[key] {
			return
		}
		seen[key] = true
		suggestions = append(suggestions, term)
	}

	for _, term := range e.index.Terms() {
		if strings.HasPrefix(strings.ToLower(term), folded) {
			add(term)
		}
	}
	for _, term := range e.semantic.QueryTerms(partial) {
		add(term)
	}

	if len(suggestions) > max {
		suggestions = suggestions[:max]
	}
	return suggestions
}

// GetSimilarItems returns up to limit items semantically similar to the
// given one. Empty while the semantic model is unfit.
func (e *Engine) GetSimilarItems(item *core.KnowledgeItem, limit int) []*core.KnowledgeItem {
	results := e.semantic.FindSimilarItems(item, limit, 0)
	items := make([]*core.KnowledgeItem, len(results))
	for i, result := range results {
		items[i] = result.Item
	}
	return items
}

// UpdateIndex fans an item upsert out to the keyword index and the semantic
// model. The two sides are not transactionally coupled: a failure in one
// after the other succeeded leaves them inconsistent until RebuildIndex.
func (e *Engine) UpdateIndex(item *core.KnowledgeItem) error {
	chunks := semantic.SplitChunks(item)
	return errors.Join(
		e.index.UpdateItem(item),
		e.index.UpdateChunksForItem(item.Id, chunks),
		e.semantic.UpdateItem(item),
		e.semantic.UpdateChunksForItem(item.Id, chunks),
	)
}

// RemoveFromIndex fans an item removal out to the keyword index and the
// semantic model.
func (e *Engine) RemoveFromIndex(id core.ID) error {
	return errors.Join(
		e.index.RemoveItem(id),
		e.index.RemoveChunksForItem(id),
		e.semantic.RemoveItem(id),
		e.semantic.RemoveChunksForItem(id),
	)
}

// RebuildIndex discards and rebuilds both retrieval paths from the given
// items, resynchronizing them after partial failures.
func (e *Engine) RebuildIndex(items []*core.KnowledgeItem) error {
	var chunks []*core.Chunk
	for _, item := range items {
		chunks = append(chunks, semantic.SplitChunks(item)...)
	}

	if err := e.index.RebuildItems(items); err != nil {
		return fmt.Errorf("rebuilding item index: %w", err)
	}
	if err := e.index.RebuildChunks(chunks); err != nil {
		return fmt.Errorf("rebuilding chunk index: %w", err)
	}
	if err := e.semantic.Fit(items); err != nil {
		return fmt.Errorf("refitting semantic model: %w", err)
	}
	if err := e.semantic.FitChunks(chunks); err != nil {
		return fmt.Errorf("refitting semantic chunk model: %w", err)
	}

	e.logger.Info("index rebuilt", "items", len(items), "chunks", len(chunks))
	return nil
}
