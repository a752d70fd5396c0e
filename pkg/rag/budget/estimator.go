package budget

import (
	"strings"
	"unicode/utf8"
)

// DefaultCharsPerToken is the usual English-text ratio for BPE tokenizers.
const DefaultCharsPerToken = 4

// Estimator approximates the token count of a text.
type Estimator func(text string) int

// CharRatio estimates tokens as characters divided by charsPerToken, rounded up.
func CharRatio(charsPerToken int) Estimator {
	if charsPerToken <= 0 {
		charsPerToken = DefaultCharsPerToken
	}
	return func(text string) int {
		n := utf8.RuneCountInString(text)
		return (n + charsPerToken - 1) / charsPerToken
	}
}

// JoinFragments is the plain assembly used when no packager is wired in.
func JoinFragments(fragments []Fragment) string {
	parts := make([]string, len(fragments))
	for i, f := range fragments {
		parts[i] = f.Text
	}
	return strings.Join(parts, "\n\n")
}
