package utils

import (
	"strings"
	"unicode"
)

// Common question words (English + Indonesian) that carry no topic.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "was": true,
	"what": true, "which": true, "who": true, "whom": true, "how": true,
	"why": true, "when": true, "where": true, "does": true, "did": true,
	"this": true, "that": true, "these": true, "those": true, "with": true,
	"from": true, "about": true, "into": true, "have": true, "has": true,
	"can": true, "could": true, "would": true, "should": true, "will": true,
	"say": true, "says": true, "tell": true, "explain": true, "please": true,
	"you": true, "your": true, "our": true, "their": true, "its": true,
	"there": true, "here": true, "been": true, "being": true, "any": true,
	"apa": true, "yang": true, "saya": true, "aku": true, "kamu": true,
	"ini": true, "itu": true, "dari": true, "untuk": true, "dengan": true,
	"adalah": true, "ada": true, "tentang": true, "bagaimana": true,
}

// ExtractKeywords returns the distinct topic words of a query in first-seen
// order, lowercased. Words shorter than three characters and stop words are
// dropped; numbers are always kept.
func ExtractKeywords(query string) []string {
	words := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool, len(words))
	keywords := make([]string, 0, len(words))
	for _, w := range words {
		if seen[w] || stopWords[w] {
			continue
		}
		if len([]rune(w)) < 3 && !isNumber(w) {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
	}
	return keywords
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
