package index

import (
	"strings"
	"unicode"
)

// ExtractQueryTerms expands a raw query into the search terms applied
// before every search: the raw query itself, its whitespace-split terms,
// and 2/3-gram segments for any term containing CJK characters.
// Terms are deduplicated with first-seen order preserved.
func ExtractQueryTerms(query string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	var terms []string
	seen := make(map[string]bool)

	add := func(term string) {
		if term == "" || seen[term] {
			return
		}
		seen[term] = true
		terms = append(terms, term)
	}

	add(query)

	for _, word := range strings.Fields(query) {
		add(word)
		if containsCJK(word) {
			// No segmentation dictionary is wired; short n-grams are the
			// fallback for unsegmented CJK runs.
			for _, gram := range cjkNGrams(word, 2) {
				add(gram)
			}
			for _, gram := range cjkNGrams(word, 3) {
				add(gram)
			}
		}
	}

	return terms
}

// containsCJK reports whether the string has at least one CJK rune.
func containsCJK(s string) bool {
	for _, r := range s {
		if isCJK(r) {
			return true
		}
	}
	return false
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}

// cjkNGrams slides a rune window of size n over the CJK runs of the word.
// Non-CJK runes break the run.
func cjkNGrams(word string, n int) []string {
	var grams []string
	var run []rune
	flush := func() {
		for i := 0; i+n <= len(run); i++ {
			grams = append(grams, string(run[i:i+n]))
		}
		run = run[:0]
	}
	for _, r := range word {
		if isCJK(r) {
			run = append(run, r)
			continue
		}
		flush()
	}
	flush()
	return grams
}
