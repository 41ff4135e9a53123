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
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/poiesic/noema/core"
)

const (
	defaultSimilarityThreshold = 0.3
	defaultMaxRelationships    = 10

	// Decision boundaries for relationship typing.
	similarContentThreshold = 0.7
	relatedOverlapThreshold = 0.5
	derivedContentThreshold = 0.4
	referenceTitleCoverage  = 0.7
	referenceMinWordLength  = 4
)

// Similarity weights for the combined pair score.
const (
	simContentWeight  = 0.4
	simTitleWeight    = 0.2
	simCategoryWeight = 0.2
	simTagWeight      = 0.2
)

// Analyzer discovers typed relationships between a knowledge item and the
// rest of the collection by scoring every pair on content, title, category
// and tag similarity.
type Analyzer struct {
	threshold float64
	max       int
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithSimilarityThreshold sets the minimum combined score for a pair to
// produce a relationship. Default is 0.3.
func WithSimilarityThreshold(threshold float64) AnalyzerOption {
	return func(a *Analyzer) {
		a.threshold = threshold
	}
}

// WithMaxRelationships bounds the relationships returned per item.
// Default is 10.
func WithMaxRelationships(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n > 0 {
			a.max = n
		}
	}
}

// NewAnalyzer creates an Analyzer with default thresholds.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		threshold: defaultSimilarityThreshold,
		max:       defaultMaxRelationships,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// pairScore holds the per-criterion similarities of one item pair.
type pairScore struct {
	content  float64
	title    float64
	category float64
	tag      float64
}

func (p pairScore) combined() float64 {
	return simContentWeight*p.content +
		simTitleWeight*p.title +
		simCategoryWeight*p.category +
		simTagWeight*p.tag
}

// FindRelationships scans every other item and returns typed relationships
// for the pairs whose combined similarity clears the threshold, strongest
// first, capped at the configured maximum. Degenerate inputs (empty text, no
// overlap) simply produce no relationships.
func (a *Analyzer) FindRelationships(item *core.KnowledgeItem, others []*core.KnowledgeItem) ([]*core.Relationship, error) {
	relationships := make([]*core.Relationship, 0, a.max)
	for _, other := range others {
		if other.Id == item.Id {
			continue
		}

		score := pairScore{
			content:  tokenCosine(item.Content, other.Content),
			title:    tokenCosine(item.Title, other.Title),
			category: jaccardFold(item.Categories, other.Categories),
			tag:      jaccardFold(item.Tags, other.Tags),
		}
		combined := score.combined()
		if combined < a.threshold {
			continue
		}

		relType := a.relationshipType(item, other, score)
		rel, err := core.NewRelationship(item.Id, other.Id, relType, combined,
			describeRelationship(relType, other.Title, combined))
		if err != nil {
			return nil, fmt.Errorf("relating %d to %d: %w", item.Id, other.Id, err)
		}
		relationships = append(relationships, rel)
	}

	sort.SliceStable(relationships, func(i, j int) bool {
		if relationships[i].Strength != relationships[j].Strength {
			return relationships[i].Strength > relationships[j].Strength
		}
		return relationships[i].TargetId < relationships[j].TargetId
	})
	if len(relationships) > a.max {
		relationships = relationships[:a.max]
	}
	return relationships, nil
}

// relationshipType applies the typing rules in order; the first rule that
// fires wins.
func (a *Analyzer) relationshipType(item, other *core.KnowledgeItem, score pairScore) core.RelationshipType {
	switch {
	case score.content > similarContentThreshold:
		return core.RelationshipSimilar
	case (score.category > relatedOverlapThreshold || score.tag > relatedOverlapThreshold) &&
		score.content < similarContentThreshold:
		return core.RelationshipRelated
	case referencesTitle(item.Content, other.Title):
		return core.RelationshipReferences
	case item.CreatedAt.After(other.CreatedAt) && score.content > derivedContentThreshold:
		return core.RelationshipDerivedFrom
	default:
		return core.RelationshipRelated
	}
}

func describeRelationship(relType core.RelationshipType, targetTitle string, strength float64) string {
	switch relType {
	case core.RelationshipSimilar:
		return fmt.Sprintf("Content closely matches %q (%.0f%%)", targetTitle, strength*100)
	case core.RelationshipReferences:
		return fmt.Sprintf("Mentions %q in its content", targetTitle)
	case core.RelationshipDerivedFrom:
		return fmt.Sprintf("Appears derived from %q", targetTitle)
	default:
		return fmt.Sprintf("Related to %q (%.0f%%)", targetTitle, strength*100)
	}
}

// tokenCosine computes the cosine similarity of the term-frequency vectors
// of two texts. Either side empty scores zero.
func tokenCosine(a, b string) float64 {
	freqA := termFreq(a)
	freqB := termFreq(b)
	if len(freqA) == 0 || len(freqB) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for term, countA := range freqA {
		dot += float64(countA) * float64(freqB[term])
		normA += float64(countA) * float64(countA)
	}
	for _, countB := range freqB {
		normB += float64(countB) * float64(countB)
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func termFreq(text string) map[string]int {
	freq := make(map[string]int)
	for _, token := range core.Tokenize(text) {
		freq[token]++
	}
	return freq
}

// jaccardFold computes the Jaccard similarity of two name lists,
// case-insensitively. Both sides empty scores zero.
func jaccardFold(a, b []string) float64 {
	setA := foldSet(a)
	setB := foldSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	var shared int
	for name := range setA {
		if setB[name] {
			shared++
		}
	}
	union := len(setA) + len(setB) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

func foldSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[strings.ToLower(name)] = true
	}
	return set
}

// referencesTitle reports whether most of the title's significant words
// appear in the content. Short titles with no significant words never count
// as referenced.
func referencesTitle(content, title string) bool {
	var titleWords []string
	for _, token := range core.Tokenize(title) {
		if len(token) > referenceMinWordLength {
			titleWords = append(titleWords, token)
		}
	}
	if len(titleWords) == 0 {
		return false
	}

	contentSet := make(map[string]bool)
	for _, token := range core.Tokenize(content) {
		contentSet[token] = true
	}

	var matched int
	for _, word := range titleWords {
		if contentSet[word] {
			matched++
		}
	}
	return float64(matched)/float64(len(titleWords)) >= referenceTitleCoverage
}
