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

const (
	defaultMinConfidence  = 0.3
	maxCategoriesPerItem  = 3
	fallbackCategoryName  = "general"
	feedbackTokenCount    = 10
	feedbackKeywordsLimit = 5
)

// categoryProfile is a named category with the keyword set that drives
// classification scoring.
type categoryProfile struct {
	name        string
	description string
	keywords    []string
}

// Classifier assigns categories to knowledge items by scoring keyword
// overlap between the item's text and each category's keyword set. The
// category set is owned by the instance and extensible at runtime.
type Classifier struct {
	profiles      map[string]*categoryProfile // keyed by lowercase name
	minConfidence float64
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithMinConfidence sets the score threshold below which categories are
// dropped. Default is 0.3.
func WithMinConfidence(threshold float64) ClassifierOption {
	return func(c *Classifier) {
		c.minConfidence = threshold
	}
}

// NewClassifier creates a Classifier seeded with the built-in category
// ontology.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		profiles:      make(map[string]*categoryProfile),
		minConfidence: defaultMinConfidence,
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, profile := range builtinProfiles() {
		c.profiles[strings.ToLower(profile.name)] = profile
	}
	return c
}

func builtinProfiles() []*categoryProfile {
	return []*categoryProfile{
		{
			name:        "technology",
			description: "Computing, infrastructure and digital systems",
			keywords: []string{
				"computer", "software", "hardware", "internet", "digital",
				"data", "system", "network", "server", "cloud", "security",
				"database", "docker", "kubernetes", "linux",
			},
		},
		{
			name:        "programming",
			description: "Software development and programming languages",
			keywords: []string{
				"code", "coding", "programming", "python", "javascript",
				"java", "golang", "rust", "function", "variable", "algorithm",
				"debug", "compiler", "framework", "library", "api",
			},
		},
		{
			name:        "science",
			description: "Scientific research and natural sciences",
			keywords: []string{
				"research", "experiment", "theory", "hypothesis", "physics",
				"chemistry", "biology", "mathematics", "analysis",
				"scientific", "evidence",
			},
		},
		{
			name:        "business",
			description: "Commerce, management and finance",
			keywords: []string{
				"market", "company", "revenue", "profit", "strategy",
				"customer", "product", "sales", "finance", "investment",
				"startup", "management",
			},
		},
		{
			name:        "education",
			description: "Learning materials and teaching",
			keywords: []string{
				"learn", "learning", "teach", "teaching", "course",
				"tutorial", "lesson", "student", "school", "university",
				"study", "training",
			},
		},
		{
			name:        "health",
			description: "Medicine, fitness and wellbeing",
			keywords: []string{
				"health", "medical", "doctor", "disease", "treatment",
				"exercise", "nutrition", "fitness", "wellness", "medicine",
			},
		},
		{
			name:        "arts",
			description: "Creative and cultural works",
			keywords: []string{
				"art", "music", "painting", "design", "creative", "culture",
				"literature", "film", "photography", "theater",
			},
		},
	}
}

// AddCustomCategory registers a category with its keyword set, replacing any
// existing category of the same name (case-insensitive).
func (c *Classifier) AddCustomCategory(name, description string, keywords []string) {
	c.profiles[strings.ToLower(name)] = &categoryProfile{
		name:        name,
		description: description,
		keywords:    append([]string(nil), keywords...),
	}
}

// CategoryNames returns the registered category names, sorted.
func (c *Classifier) CategoryNames() []string {
	names := make([]string, 0, len(c.profiles))
	for _, profile := range c.profiles {
		names = append(names, profile.name)
	}
	sort.Strings(names)
	return names
}

// Classify scores the item against every registered category and returns up
// to three categories above the confidence threshold, best first. Items that
// match nothing get the single fallback category at full confidence, so
// every item always belongs somewhere.
func (c *Classifier) Classify(item *core.KnowledgeItem) []*core.Category {
	tokens := core.Tokenize(item.Title + " " + item.Content)
	if len(tokens) == 0 {
		return []*core.Category{fallbackCategory()}
	}

	freq := make(map[string]int, len(tokens))
	for _, token := range tokens {
		freq[token]++
	}

	type scored struct {
		profile    *categoryProfile
		confidence float64
	}
	candidates := make([]scored, 0, len(c.profiles))
	for _, profile := range c.profiles {
		confidence := scoreProfile(profile, freq, len(tokens))
		if confidence >= c.minConfidence {
			candidates = append(candidates, scored{profile, confidence})
		}
	}
	if len(candidates) == 0 {
		return []*core.Category{fallbackCategory()}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].confidence != candidates[j].confidence {
			return candidates[i].confidence > candidates[j].confidence
		}
		return candidates[i].profile.name < candidates[j].profile.name
	})
	if len(candidates) > maxCategoriesPerItem {
		candidates = candidates[:maxCategoriesPerItem]
	}

	categories := make([]*core.Category, len(candidates))
	for i, candidate := range candidates {
		categories[i] = &core.Category{
			Id:          core.IDFromContent(strings.ToLower(candidate.profile.name)),
			Name:        candidate.profile.name,
			Description: candidate.profile.description,
			Confidence:  candidate.confidence,
		}
	}
	return categories
}

// scoreProfile blends keyword term frequency with keyword-set coverage.
// Raw blends are tiny for realistic documents, so the score is scaled up
// before capping at 1.
func scoreProfile(profile *categoryProfile, freq map[string]int, totalTokens int) float64 {
	if len(profile.keywords) == 0 {
		return 0
	}

	var matched, weighted int
	for _, keyword := range profile.keywords {
		if count := freq[keyword]; count > 0 {
			matched++
			weighted += count
		}
	}
	if matched == 0 {
		return 0
	}

	termFrequency := float64(weighted) / float64(totalTokens)
	coverage := float64(matched) / float64(len(profile.keywords))
	confidence := (0.7*termFrequency + 0.3*coverage) * 10
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

func fallbackCategory() *core.Category {
	return &core.Category{
		Id:          core.IDFromContent(fallbackCategoryName),
		Name:        fallbackCategoryName,
		Description: "Uncategorized knowledge",
		Confidence:  1.0,
	}
}

// LearnFromFeedback extends the named categories' keyword sets with the
// item's dominant tokens. Learning is additive only; keywords are never
// removed or decayed. Unknown category names are registered as custom
// categories.
func (c *Classifier) LearnFromFeedback(item *core.KnowledgeItem, categoryNames []string) {
	keywords := dominantTokens(item.Title + " " + item.Content)
	if len(keywords) == 0 {
		return
	}

	for _, name := range categoryNames {
		key := strings.ToLower(name)
		profile, ok := c.profiles[key]
		if !ok {
			profile = &categoryProfile{name: name}
			c.profiles[key] = profile
		}

		existing := make(map[string]bool, len(profile.keywords))
		for _, keyword := range profile.keywords {
			existing[keyword] = true
		}

		added := 0
		for _, keyword := range keywords {
			if added == feedbackKeywordsLimit {
				break
			}
			if existing[keyword] {
				continue
			}
			profile.keywords = append(profile.keywords, keyword)
			existing[keyword] = true
			added++
		}
	}
}

// dominantTokens returns the text's most frequent tokens, limited to those
// appearing more than once, best first.
func dominantTokens(text string) []string {
	freq := make(map[string]int)
	for _, token := range core.Tokenize(text) {
		freq[token]++
	}

	tokens := make([]string, 0, len(freq))
	for token, count := range freq {
		if count > 1 {
			tokens = append(tokens, token)
		}
	}
	sort.Slice(tokens, func(i, j int) bool {
		if freq[tokens[i]] != freq[tokens[j]] {
			return freq[tokens[i]] > freq[tokens[j]]
		}
		return tokens[i] < tokens[j]
	})
	if len(tokens) > feedbackTokenCount {
		tokens = tokens[:feedbackTokenCount]
	}
	return tokens
}
