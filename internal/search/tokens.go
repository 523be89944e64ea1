package search

import (
	"regexp"
	"strings"
)

// wordRE matches Unicode letter runs with optional trailing digits
// (e.g. "capacity", "q3", "gmc2025").
var wordRE = regexp.MustCompile(`\p{L}+\p{N}*`)

// tokenize lowercases s, extracts word tokens, and drops stopwords.
// The result is a set: duplicate tokens collapse, which is what Jaccard
// scoring expects.
func tokenize(s string, stopwords map[string]struct{}) map[string]struct{} {
	s = strings.ToLower(s)
	out := make(map[string]struct{})
	for _, tok := range wordRE.FindAllString(s, -1) {
		if stopwords != nil {
			if _, stop := stopwords[tok]; stop {
				continue
			}
		}
		out[tok] = struct{}{}
	}
	return out
}

// DefaultStopwords is a minimal English stop-word list suitable for short
// search queries over educational content.
var DefaultStopwords = []string{
	"the", "a", "an", "and", "or", "of", "to", "in",
	"is", "are", "for", "on", "with", "by", "from",
	"at", "as", "that", "this", "it", "be", "was", "were",
	"how", "what", "which", "do", "does",
}
