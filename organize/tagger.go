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

package organize

import (
	"sort"
	"strings"

	"github.com/poiesic/noema/core"
)

const defaultMaxTags = 10

// Candidate weights relative to a single content-token occurrence.
const (
	bigramWeight   = 1.5
	titleWeight    = 2.0
	categoryWeight = 1.5
)

// tagPalette is the fixed color rotation for new tags. The palette index is
// the character-code sum of the tag name modulo the palette size, so a tag
// name always maps to the same color across runs and stores.
var tagPalette = []string{
	"#e74c3c", "#e67e22", "#f1c40f", "#2ecc71", "#1abc9c",
	"#3498db", "#9b59b6", "#34495e", "#95a5a6", "#d35400",
}

// Tagger extracts weighted tags from knowledge items. It owns the
// case-insensitive name→Tag cache that keeps tag identity and usage counts
// stable across items.
type Tagger struct {
	maxTags int
	cache   map[string]*core.Tag // keyed by lowercase name
}

// TaggerOption configures a Tagger.
type TaggerOption func(*Tagger)

// WithMaxTags bounds the number of tags generated per item. Default is 10.
func WithMaxTags(n int) TaggerOption {
	return func(t *Tagger) {
		if n > 0 {
			t.maxTags = n
		}
	}
}

// NewTagger creates a Tagger with an empty cache. Warm the cache from
// storage with WarmCache before generating tags over an existing store.
func NewTagger(opts ...TaggerOption) *Tagger {
	t := &Tagger{
		maxTags: defaultMaxTags,
		cache:   make(map[string]*core.Tag),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// WarmCache seeds the name cache with previously stored tags.
func (t *Tagger) WarmCache(tags []*core.Tag) {
	for _, tag := range tags {
		t.cache[strings.ToLower(tag.Name)] = tag
	}
}

// CachedTags returns the cache contents sorted by name.
func (t *Tagger) CachedTags() []*core.Tag {
	tags := make([]*core.Tag, 0, len(t.cache))
	for _, tag := range t.cache {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})
	return tags
}

// GenerateTags builds weighted tag candidates from the item's content
// unigrams and bigrams, its title, and its assigned categories, then
// resolves the top candidates through the cache. Existing tags get their
// usage count bumped; new tags are created with a deterministic color.
func (t *Tagger) GenerateTags(item *core.KnowledgeItem, categories []*core.Category) []*core.Tag {
	weights := make(map[string]float64)

	contentTokens := core.Tokenize(item.Content)
	for _, token := range contentTokens {
		weights[token]++
	}
	for _, bigram := range core.Bigrams(contentTokens) {
		weights[bigram] += bigramWeight
	}
	for _, token := range core.Tokenize(item.Title) {
		weights[token] += titleWeight
	}
	for _, category := range categories {
		for _, token := range core.Tokenize(category.Name + " " + category.Description) {
			weights[token] += category.Confidence * categoryWeight
		}
	}
	if len(weights) == 0 {
		return []*core.Tag{}
	}

	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if weights[names[i]] != weights[names[j]] {
			return weights[names[i]] > weights[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > t.maxTags {
		names = names[:t.maxTags]
	}

	tags := make([]*core.Tag, len(names))
	for i, name := range names {
		tags[i] = t.Resolve(name)
	}
	return tags
}

// Resolve returns the cached tag for the name, bumping its usage count, or
// creates and caches a new tag. Names are matched case-insensitively.
func (t *Tagger) Resolve(name string) *core.Tag {
	key := strings.ToLower(name)
	if tag, ok := t.cache[key]; ok {
		tag.UsageCount++
		return tag
	}

	tag := &core.Tag{
		Id:         core.IDFromContent(key),
		Name:       name,
		Color:      colorFor(name),
		UsageCount: 1,
	}
	t.cache[key] = tag
	return tag
}

func colorFor(name string) string {
	var sum int
	for _, r := range name {
		sum += int(r)
	}
	return tagPalette[sum%len(tagPalette)]
}

// MergeSimilarTags proposes renames of near-duplicate cached tags toward the
// higher-usage spelling. The proposal maps old name to surviving name; it is
// not applied to the cache or the store. Exact matches outrank substring
// matches, which outrank character-set overlap.
func (t *Tagger) MergeSimilarTags(threshold float64) map[string]string {
	names := make([]string, 0, len(t.cache))
	for name := range t.cache {
		names = append(names, name)
	}
	sort.Strings(names)

	renames := make(map[string]string)
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			a, b := t.cache[names[i]], t.cache[names[j]]
			if tagSimilarity(names[i], names[j]) < threshold {
				continue
			}
			loser, winner := a, b
			if a.UsageCount > b.UsageCount ||
				(a.UsageCount == b.UsageCount && len(a.Name) <= len(b.Name)) {
				loser, winner = b, a
			}
			renames[loser.Name] = winner.Name
		}
	}
	return renames
}

// tagSimilarity scores two lowercase tag names. Exact matches score 1,
// substring containment 0.8, anything else the Jaccard overlap of their
// character sets.
func tagSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}

	setA := make(map[rune]bool)
	for _, r := range a {
		setA[r] = true
	}
	setB := make(map[rune]bool)
	for _, r := range b {
		setB[r] = true
	}

	var shared int
	for r := range setA {
		if setB[r] {
			shared++
		}
	}
	union := len(setA) + len(setB) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}
