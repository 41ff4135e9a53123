// Package memdex is an in-memory implementation of the full-text index
// contract defined by the index package. It keeps an inverted index per
// field, stages mutations until Commit, and supports substring wildcard
// terms. The index has no durable form; it is rebuilt from storage.
package memdex

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/poiesic/noema/index"
)

// Field score boosts. Title matches count double, per the item schema.
var defaultBoosts = map[string]float64{
	index.FieldTitle:        2.0,
	index.ChunkFieldHeading: 2.0,
}

// Memdex is an in-memory inverted index implementing index.Index.
type Memdex struct {
	mu sync.RWMutex

	docs map[string]index.Document
	// postings: field -> term -> docID -> term frequency
	postings map[string]map[string]map[string]int
	boosts   map[string]float64

	pendingAdds    map[string]index.Document
	pendingDeletes map[string]bool
}

var _ index.Index = (*Memdex)(nil)

// New creates an empty in-memory index with default field boosts.
func New() *Memdex {
	return &Memdex{
		docs:           make(map[string]index.Document),
		postings:       make(map[string]map[string]map[string]int),
		boosts:         defaultBoosts,
		pendingAdds:    make(map[string]index.Document),
		pendingDeletes: make(map[string]bool),
	}
}

// Add stages a document for indexing.
func (m *Memdex) Add(doc index.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingAdds[doc.ID] = doc
	return nil
}

// Delete stages removal of a document by ID.
func (m *Memdex) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pendingAdds, id)
	m.pendingDeletes[id] = true
	return nil
}

// Commit applies staged deletes then staged adds atomically.
func (m *Memdex) Commit() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id := range m.pendingDeletes {
		m.unindex(id)
	}
	for id, doc := range m.pendingAdds {
		m.unindex(id) // replace semantics
		m.docs[id] = doc
		for field, text := range doc.Fields {
			for term, tf := range termFrequencies(text) {
				fieldPostings := m.postings[field]
				if fieldPostings == nil {
					fieldPostings = make(map[string]map[string]int)
					m.postings[field] = fieldPostings
				}
				docList := fieldPostings[term]
				if docList == nil {
					docList = make(map[string]int)
					fieldPostings[term] = docList
				}
				docList[id] = tf
			}
		}
	}

	m.pendingAdds = make(map[string]index.Document)
	m.pendingDeletes = make(map[string]bool)
	return nil
}

// Cancel discards staged mutations.
func (m *Memdex) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingAdds = make(map[string]index.Document)
	m.pendingDeletes = make(map[string]bool)
}

// unindex removes a committed document and its postings. Caller holds the lock.
func (m *Memdex) unindex(id string) {
	if _, ok := m.docs[id]; !ok {
		return
	}
	delete(m.docs, id)
	for field, fieldPostings := range m.postings {
		for term, docList := range fieldPostings {
			delete(docList, id)
			if len(docList) == 0 {
				delete(fieldPostings, term)
			}
		}
		if len(fieldPostings) == 0 {
			delete(m.postings, field)
		}
	}
}

// queryTerm is one parsed query token.
type queryTerm struct {
	text     string
	wildcard bool
}

// parseQuery splits a query into terms. *term* is a substring wildcard,
// "term" is an exact term, anything else is an exact term after analysis.
// An unbalanced quote is a parse error.
func parseQuery(query string) ([]queryTerm, error) {
	var terms []queryTerm
	for _, tok := range strings.Fields(query) {
		switch {
		case strings.HasPrefix(tok, "\""):
			if !strings.HasSuffix(tok, "\"") || len(tok) < 2 {
				return nil, index.ErrQueryParse
			}
			terms = append(terms, queryTerm{text: strings.ToLower(strings.Trim(tok, "\""))})
		case strings.Contains(tok, "\""):
			return nil, index.ErrQueryParse
		case strings.HasPrefix(tok, "*") && strings.HasSuffix(tok, "*") && len(tok) > 2:
			terms = append(terms, queryTerm{text: strings.ToLower(strings.Trim(tok, "*")), wildcard: true})
		default:
			for term := range termFrequencies(tok) {
				terms = append(terms, queryTerm{text: term})
			}
		}
	}
	return terms, nil
}

// Search runs an OR query over the given fields.
func (m *Memdex) Search(query string, fields []string, limit int) ([]index.Hit, error) {
	terms, err := parseQuery(query)
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 || limit <= 0 {
		return nil, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	scores := make(map[string]float64)
	matched := make(map[string]map[string]bool)

	record := func(field, docID string, tf int) {
		boost := m.boosts[field]
		if boost == 0 {
			boost = 1.0
		}
		scores[docID] += float64(tf) * boost
		if matched[docID] == nil {
			matched[docID] = make(map[string]bool)
		}
		matched[docID][field] = true
	}

	for _, field := range fields {
		fieldPostings := m.postings[field]
		if fieldPostings == nil {
			continue
		}
		for _, qt := range terms {
			if qt.wildcard {
				for term, docList := range fieldPostings {
					if strings.Contains(term, qt.text) {
						for docID, tf := range docList {
							record(field, docID, tf)
						}
					}
				}
				continue
			}
			for docID, tf := range fieldPostings[qt.text] {
				record(field, docID, tf)
			}
		}
	}

	hits := make([]index.Hit, 0, len(scores))
	for docID, score := range scores {
		fields := make([]string, 0, len(matched[docID]))
		for f := range matched[docID] {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		hits = append(hits, index.Hit{
			ID:            docID,
			Score:         score,
			Fields:        m.docs[docID].Fields,
			MatchedFields: fields,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Terms returns all indexed terms across fields in sorted order.
func (m *Memdex) Terms() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	for _, fieldPostings := range m.postings {
		for term := range fieldPostings {
			seen[term] = true
		}
	}
	terms := make([]string, 0, len(seen))
	for term := range seen {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// DocCount returns the number of committed documents.
func (m *Memdex) DocCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// Reset discards the index contents and recreates it empty.
func (m *Memdex) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = make(map[string]index.Document)
	m.postings = make(map[string]map[string]map[string]int)
	m.pendingAdds = make(map[string]index.Document)
	m.pendingDeletes = make(map[string]bool)
	return nil
}

// termFrequencies analyzes text into lowercase terms with counts.
// ASCII words split on non-alphanumeric runes; CJK runs additionally
// contribute 2-grams and 3-grams so unsegmented queries can match.
func termFrequencies(text string) map[string]int {
	freqs := make(map[string]int)
	var word []rune
	var cjkRun []rune

	flushWord := func() {
		if len(word) > 0 {
			freqs[strings.ToLower(string(word))]++
			word = word[:0]
		}
	}
	flushCJK := func() {
		for n := 2; n <= 3; n++ {
			for i := 0; i+n <= len(cjkRun); i++ {
				freqs[string(cjkRun[i:i+n])]++
			}
		}
		if len(cjkRun) == 1 {
			freqs[string(cjkRun)]++
		}
		cjkRun = cjkRun[:0]
	}

	for _, r := range text {
		switch {
		case isCJK(r):
			flushWord()
			cjkRun = append(cjkRun, r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			flushCJK()
			word = append(word, r)
		default:
			flushWord()
			flushCJK()
		}
	}
	flushWord()
	flushCJK()
	return freqs
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}
