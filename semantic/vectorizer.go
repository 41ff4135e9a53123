package semantic

import (
	"math"
	"sort"

	"github.com/poiesic/noema/core"
)

const (
	defaultMaxFeatures = 5000
	defaultMinDocFreq  = 1
)

// Vectorizer builds a TF-IDF vector space over a corpus of documents.
// Features are stopword-filtered unigrams and bigrams; the vocabulary is
// bounded by document-frequency limits and a maximum feature count.
type Vectorizer struct {
	maxFeatures int
	minDocFreq  int
	maxDocRatio float64 // 0 disables the upper document-frequency bound

	vocab map[string]int
	idf   []float64
	fit   bool
}

// VectorizerOption configures a Vectorizer.
type VectorizerOption func(*Vectorizer)

// WithMaxFeatures bounds the vocabulary size.
// Default is 5000.
func WithMaxFeatures(n int) VectorizerOption {
	return func(v *Vectorizer) {
		if n > 0 {
			v.maxFeatures = n
		}
	}
}

// WithMinDocFreq drops features appearing in fewer than n documents.
// Default is 1.
func WithMinDocFreq(n int) VectorizerOption {
	return func(v *Vectorizer) {
		if n > 0 {
			v.minDocFreq = n
		}
	}
}

// WithMaxDocRatio drops features appearing in more than ratio×corpus
// documents. Zero disables the bound, which is the default.
func WithMaxDocRatio(ratio float64) VectorizerOption {
	return func(v *Vectorizer) {
		v.maxDocRatio = ratio
	}
}

// NewVectorizer creates an unfit vectorizer.
func NewVectorizer(opts ...VectorizerOption) *Vectorizer {
	v := &Vectorizer{
		maxFeatures: defaultMaxFeatures,
		minDocFreq:  defaultMinDocFreq,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// features analyzes a document into its unigram and bigram features.
func features(doc string) []string {
	tokens := core.Tokenize(doc)
	return append(tokens, core.Bigrams(tokens)...)
}

// Fit builds the vocabulary and IDF weights from the corpus.
// A corpus with no usable features leaves the vectorizer unfit and
// returns ErrEmptyCorpus.
func (v *Vectorizer) Fit(docs []string) error {
	v.vocab = nil
	v.idf = nil
	v.fit = false

	if len(docs) == 0 {
		return ErrEmptyCorpus
	}

	docFreq := make(map[string]int)
	totalFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, feature := range features(doc) {
			totalFreq[feature]++
			if !seen[feature] {
				seen[feature] = true
				docFreq[feature]++
			}
		}
	}

	// Apply document-frequency bounds
	candidates := make([]string, 0, len(docFreq))
	for feature, df := range docFreq {
		if df < v.minDocFreq {
			continue
		}
		if v.maxDocRatio > 0 && float64(df) > v.maxDocRatio*float64(len(docs)) {
			continue
		}
		candidates = append(candidates, feature)
	}
	if len(candidates) == 0 {
		return ErrEmptyCorpus
	}

	// Bound the vocabulary, keeping the most frequent features.
	// Alphabetical tiebreak keeps fits deterministic.
	sort.Slice(candidates, func(i, j int) bool {
		if totalFreq[candidates[i]] != totalFreq[candidates[j]] {
			return totalFreq[candidates[i]] > totalFreq[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) > v.maxFeatures {
		candidates = candidates[:v.maxFeatures]
	}
	sort.Strings(candidates)

	v.vocab = make(map[string]int, len(candidates))
	v.idf = make([]float64, len(candidates))
	n := float64(len(docs))
	for i, feature := range candidates {
		v.vocab[feature] = i
		// Smoothed IDF, never zero
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[feature]))) + 1
	}
	v.fit = true
	return nil
}

// Fitted reports whether Fit has succeeded.
func (v *Vectorizer) Fitted() bool {
	return v.fit
}

// Transform projects a document into the fitted space as an L2-normalized
// TF-IDF vector. Returns nil when the vectorizer is unfit or the document
// shares no features with the vocabulary.
func (v *Vectorizer) Transform(doc string) []float64 {
	if !v.fit {
		return nil
	}

	vec := make([]float64, len(v.idf))
	var any bool
	for _, feature := range features(doc) {
		if i, ok := v.vocab[feature]; ok {
			vec[i]++
			any = true
		}
	}
	if !any {
		return nil
	}

	var norm float64
	for i := range vec {
		vec[i] *= v.idf[i]
		norm += vec[i] * vec[i]
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return nil
	}
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// Cosine computes the cosine similarity of two vectors from Transform.
// Vectors are already L2 normalized, so this is the dot product.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
