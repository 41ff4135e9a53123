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

package semantic

import (
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/poiesic/noema/core"
)

// Searcher ranks knowledge items and chunks by TF-IDF cosine similarity.
// It keeps the fitted corpus in memory and re-fits on every mutation, which
// keeps IDF weights exact at the cost of O(corpus) updates. Callers are
// expected to serialize access; the Searcher holds no lock of its own.
type Searcher struct {
	vectorizer *Vectorizer
	items      []*core.KnowledgeItem
	vectors    map[core.ID][]float64

	chunkVectorizer *Vectorizer
	chunks          []*core.Chunk
	chunkVectors    map[core.ID][]float64

	logger *slog.Logger
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher)

// WithLogger sets the logger used for degraded-state reporting.
func WithSearcherLogger(logger *slog.Logger) SearcherOption {
	return func(s *Searcher) {
		s.logger = logger
	}
}

// WithVectorizerOptions forwards options to both the item and chunk
// vectorizers.
func WithVectorizerOptions(opts ...VectorizerOption) SearcherOption {
	return func(s *Searcher) {
		s.vectorizer = NewVectorizer(opts...)
		s.chunkVectorizer = NewVectorizer(opts...)
	}
}

// NewSearcher creates an unfit Searcher. Call Fit before searching; until
// then every search returns empty results.
func NewSearcher(opts ...SearcherOption) *Searcher {
	s := &Searcher{
		vectorizer:      NewVectorizer(),
		chunkVectorizer: NewVectorizer(),
		vectors:         make(map[core.ID][]float64),
		chunkVectors:    make(map[core.ID][]float64),
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func itemText(item *core.KnowledgeItem) string {
	return item.Title + " " + item.Content
}

func chunkText(chunk *core.Chunk) string {
	return chunk.Heading + " " + chunk.Content
}

// Fit builds the item vector space from scratch. An unusable corpus (empty,
// or all stopwords) leaves the Searcher unfit rather than failing: searches
// degrade to empty results until a later Fit succeeds.
func (s *Searcher) Fit(items []*core.KnowledgeItem) error {
	s.items = make([]*core.KnowledgeItem, len(items))
	copy(s.items, items)
	s.vectors = make(map[core.ID][]float64, len(items))

	docs := make([]string, len(items))
	for i, item := range items {
		docs[i] = itemText(item)
	}

	if err := s.vectorizer.Fit(docs); err != nil {
		if errors.Is(err, ErrEmptyCorpus) {
			s.logger.Warn("semantic model unfit, searches degraded", "items", len(items))
			return nil
		}
		return err
	}

	for _, item := range s.items {
		if vec := s.vectorizer.Transform(itemText(item)); vec != nil {
			s.vectors[item.Id] = vec
		}
	}
	s.logger.Debug("semantic model fitted", "items", len(items), "vectors", len(s.vectors))
	return nil
}

// Fitted reports whether the item model is usable.
func (s *Searcher) Fitted() bool {
	return s.vectorizer.Fitted()
}

// Search ranks the fitted items against the query, returning up to topK
// results with similarity of at least minSimilarity. Returns an empty slice
// when the model is unfit or the query shares nothing with the vocabulary.
func (s *Searcher) Search(query string, topK int, minSimilarity float64) []*core.SearchResult {
	queryVec := s.vectorizer.Transform(query)
	if queryVec == nil {
		return []*core.SearchResult{}
	}

	start := time.Now()
	results := make([]*core.SearchResult, 0, topK)
	for _, item := range s.items {
		vec, ok := s.vectors[item.Id]
		if !ok {
			continue
		}
		sim := Cosine(queryVec, vec)
		if sim < minSimilarity || sim <= 0 {
			continue
		}
		results = append(results, &core.SearchResult{
			Item:          item,
			Relevance:     sim,
			MatchedFields: []string{"semantic"},
		})
	}

	sortResults(results)
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	s.logger.Debug("semantic search",
		"query", query, "results", len(results), "elapsed", time.Since(start))
	return results
}

// FindSimilarItems ranks items by similarity to an existing item, excluding
// the item itself. When the item is not in the fitted corpus its text is
// vectorized on the fly instead.
func (s *Searcher) FindSimilarItems(item *core.KnowledgeItem, topK int, minSimilarity float64) []*core.SearchResult {
	vec, ok := s.vectors[item.Id]
	if !ok {
		vec = s.vectorizer.Transform(itemText(item))
	}
	if vec == nil {
		return []*core.SearchResult{}
	}

	results := make([]*core.SearchResult, 0, topK)
	for _, other := range s.items {
		if other.Id == item.Id {
			continue
		}
		otherVec, ok := s.vectors[other.Id]
		if !ok {
			continue
		}
		sim := Cosine(vec, otherVec)
		if sim < minSimilarity || sim <= 0 {
			continue
		}
		results = append(results, &core.SearchResult{
			Item:          other,
			Relevance:     sim,
			MatchedFields: []string{"semantic"},
		})
	}

	sortResults(results)
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results
}

// UpdateItem adds or replaces an item and re-fits the model.
func (s *Searcher) UpdateItem(item *core.KnowledgeItem) error {
	next := make([]*core.KnowledgeItem, 0, len(s.items)+1)
	for _, existing := range s.items {
		if existing.Id != item.Id {
			next = append(next, existing)
		}
	}
	next = append(next, item)
	return s.Fit(next)
}

// RemoveItem drops an item and re-fits the model. Removing an unknown id is
// a no-op.
func (s *Searcher) RemoveItem(id core.ID) error {
	next := make([]*core.KnowledgeItem, 0, len(s.items))
	for _, existing := range s.items {
		if existing.Id != id {
			next = append(next, existing)
		}
	}
	if len(next) == len(s.items) {
		return nil
	}
	return s.Fit(next)
}

// QueryTerms returns the query's features that exist in the fitted
// vocabulary, for suggestion surfaces. Empty when unfit.
func (s *Searcher) QueryTerms(query string) []string {
	if !s.vectorizer.Fitted() {
		return nil
	}
	var terms []string
	seen := make(map[string]bool)
	for _, feature := range features(query) {
		if seen[feature] {
			continue
		}
		seen[feature] = true
		if _, ok := s.vectorizer.vocab[feature]; ok {
			terms = append(terms, feature)
		}
	}
	return terms
}

// FitChunks builds the chunk vector space, independent of the item space.
// Degrades silently the same way Fit does.
func (s *Searcher) FitChunks(chunks []*core.Chunk) error {
	s.chunks = make([]*core.Chunk, len(chunks))
	copy(s.chunks, chunks)
	s.chunkVectors = make(map[core.ID][]float64, len(chunks))

	docs := make([]string, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chunkText(chunk)
	}

	if err := s.chunkVectorizer.Fit(docs); err != nil {
		if errors.Is(err, ErrEmptyCorpus) {
			s.logger.Warn("semantic chunk model unfit", "chunks", len(chunks))
			return nil
		}
		return err
	}

	for _, chunk := range s.chunks {
		if vec := s.chunkVectorizer.Transform(chunkText(chunk)); vec != nil {
			s.chunkVectors[chunk.Id] = vec
		}
	}
	return nil
}

// SearchChunks ranks fitted chunks against the query. The returned matches
// carry similarity scores and are capped at topK.
func (s *Searcher) SearchChunks(query string, topK int, minSimilarity float64) []*core.ChunkMatch {
	queryVec := s.chunkVectorizer.Transform(query)
	if queryVec == nil {
		return []*core.ChunkMatch{}
	}

	matches := make([]*core.ChunkMatch, 0, topK)
	for _, chunk := range s.chunks {
		vec, ok := s.chunkVectors[chunk.Id]
		if !ok {
			continue
		}
		sim := Cosine(queryVec, vec)
		if sim < minSimilarity || sim <= 0 {
			continue
		}
		matches = append(matches, &core.ChunkMatch{Chunk: chunk, Relevance: sim})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Relevance != matches[j].Relevance {
			return matches[i].Relevance > matches[j].Relevance
		}
		return matches[i].Chunk.Id < matches[j].Chunk.Id
	})
	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

// UpdateChunksForItem replaces an item's chunks and re-fits the chunk model.
func (s *Searcher) UpdateChunksForItem(itemID core.ID, chunks []*core.Chunk) error {
	next := make([]*core.Chunk, 0, len(s.chunks)+len(chunks))
	for _, existing := range s.chunks {
		if existing.ItemId != itemID {
			next = append(next, existing)
		}
	}
	next = append(next, chunks...)
	return s.FitChunks(next)
}

// RemoveChunksForItem drops an item's chunks and re-fits the chunk model.
func (s *Searcher) RemoveChunksForItem(itemID core.ID) error {
	next := make([]*core.Chunk, 0, len(s.chunks))
	for _, existing := range s.chunks {
		if existing.ItemId != itemID {
			next = append(next, existing)
		}
	}
	if len(next) == len(s.chunks) {
		return nil
	}
	return s.FitChunks(next)
}

// Vector returns the stored vector for a fitted item, or nil.
func (s *Searcher) Vector(id core.ID) []float64 {
	return s.vectors[id]
}

func sortResults(results []*core.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Relevance != results[j].Relevance {
			return results[i].Relevance > results[j].Relevance
		}
		return results[i].Item.Id < results[j].Item.Id
	})
}
