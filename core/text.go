package core

import "strings"

// Stop words filtered out of all text analysis: classification scoring,
// tag candidates, relationship similarity and TF-IDF features.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "were": true, "to": true, "of": true, "and": true, "in": true,
	"that": true, "have": true, "has": true, "it": true, "for": true, "not": true,
	"on": true, "with": true, "as": true, "you": true, "do": true, "at": true,
	"this": true, "but": true, "by": true, "from": true, "or": true, "can": true,
	"will": true, "all": true, "about": true, "into": true, "than": true,
	"its": true, "also": true, "been": true, "when": true, "which": true,
	"their": true, "there": true, "what": true, "how": true, "who": true,
	"they": true, "them": true, "these": true, "those": true, "your": true,
	"more": true, "most": true, "other": true, "some": true, "such": true,
	"only": true, "over": true, "very": true, "may": true, "any": true,
	"each": true, "between": true, "both": true, "through": true, "using": true,
	"used": true, "use": true,
}

// IsStopWord reports whether the lowercase token is a stop word.
func IsStopWord(token string) bool {
	return stopWords[token]
}

// Tokenize splits text into analysis tokens: lowercased, split on
// non-alphanumeric runes, with stop words and tokens of two characters or
// fewer dropped.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r < 0x80
	})

	tokens := make([]string, 0, len(fields))
	for _, token := range fields {
		if len(token) <= 2 || stopWords[token] {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// Bigrams returns the adjacent token pairs of the token stream,
// joined by a single space.
func Bigrams(tokens []string) []string {
	if len(tokens) < 2 {
		return nil
	}
	bigrams := make([]string, 0, len(tokens)-1)
	for i := 0; i+1 < len(tokens); i++ {
		bigrams = append(bigrams, tokens[i]+" "+tokens[i+1])
	}
	return bigrams
}
