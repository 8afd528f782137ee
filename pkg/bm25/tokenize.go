// Package bm25 implements HelixDB's full-text index: tokenization, postings
// maintenance against pkg/storage's bm25_postings_db/bm25_doclen_db/
// bm25_stats_db buckets, and Okapi BM25 scoring.
package bm25

import (
	"strings"
	"unicode"
)

// Tokenize lowercases text, splits on any non-alphanumeric rune, and drops
// tokens shorter than two characters. No stopword list, no stemmer: recall
// over precision is a deliberate property of this index, not an oversight.
func Tokenize(text string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() >= 2 {
			tokens = append(tokens, cur.String())
		}
		cur.Reset()
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			cur.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

func uniqueTerms(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
