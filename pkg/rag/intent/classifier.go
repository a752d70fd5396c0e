// FILE: pkg/rag/intent/classifier.go
// PURPOSE: Decide between narrow relevance search and broad multi-document synthesis

package intent

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Mode selects how the knowledge base is read for a query.
type Mode string

const (
	ModeNormal    Mode = "normal"
	ModeSynthesis Mode = "synthesis"
)

// Rule names the classifier rule that produced a Decision.
type Rule string

const (
	RuleNone     Rule = "none"
	RuleExplicit Rule = "explicit_phrase"
	RuleBroad    Rule = "broad_phrase"
)

// Rules is the full rule table. Explicit phrases fire at any length; broad
// phrases fire only when the query is at least BroadMinLength characters long.
type Rules struct {
	ExplicitPhrases []string
	BroadPhrases    []string
	BroadMinLength  int
}

// DefaultRules returns the production rule table.
func DefaultRules() Rules {
	return Rules{
		ExplicitPhrases: []string{
			"summarize all",
			"summarise all",
			"synthesize",
			"synthesise",
			"comprehensive",
			"combine all",
			"overview of all",
		},
		BroadPhrases: []string{
			"all sources",
			"all documents",
			"all the documents",
			"all my documents",
			"all files",
			"all materials",
			"every document",
			"every source",
		},
		BroadMinLength: 25,
	}
}

// Decision is the classifier output together with the rule that fired.
type Decision struct {
	Mode   Mode   `json:"mode"`
	Rule   Rule   `json:"rule"`
	Phrase string `json:"phrase,omitempty"`
}

// Classifier applies a Rules table. It holds no mutable state.
type Classifier struct {
	explicit  []string
	broad     []string
	minLength int
}

// NewClassifier normalizes the phrase lists once.
func NewClassifier(rules Rules) *Classifier {
	return &Classifier{
		explicit:  normalizePhrases(rules.ExplicitPhrases),
		broad:     normalizePhrases(rules.BroadPhrases),
		minLength: rules.BroadMinLength,
	}
}

// Classify returns the mode for a query.
func (c *Classifier) Classify(query string) Mode {
	return c.Decide(query).Mode
}

// Decide returns the mode along with the rule and phrase that selected it.
func (c *Classifier) Decide(query string) Decision {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return Decision{Mode: ModeNormal, Rule: RuleNone}
	}

	text := " " + normalize(trimmed) + " "

	for _, phrase := range c.explicit {
		if strings.Contains(text, " "+phrase+" ") {
			return Decision{Mode: ModeSynthesis, Rule: RuleExplicit, Phrase: phrase}
		}
	}

	if utf8.RuneCountInString(trimmed) >= c.minLength {
		for _, phrase := range c.broad {
			if strings.Contains(text, " "+phrase+" ") {
				return Decision{Mode: ModeSynthesis, Rule: RuleBroad, Phrase: phrase}
			}
		}
	}

	return Decision{Mode: ModeNormal, Rule: RuleNone}
}

// normalize lowercases, turns punctuation into spaces and collapses whitespace,
// so phrases match on word boundaries only.
func normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

func normalizePhrases(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if n := normalize(p); n != "" {
			out = append(out, n)
		}
	}
	return out
}
