package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(DefaultRules())

	tests := []struct {
		name     string
		query    string
		wantMode Mode
		wantRule Rule
	}{
		{"explicit summarize all", "summarize all sources", ModeSynthesis, RuleExplicit},
		{"explicit is case and punctuation insensitive", "SUMMARIZE ALL, please", ModeSynthesis, RuleExplicit},
		{"explicit short query", "Synthesize", ModeSynthesis, RuleExplicit},
		{"comprehensive pass", "Give me a comprehensive review", ModeSynthesis, RuleExplicit},
		{"broad phrase with long query", "Please go through all sources and list key dates", ModeSynthesis, RuleBroad},
		{"broad phrase with short query", "all sources?", ModeNormal, RuleNone},
		{"narrow question", "what does document A say about X", ModeNormal, RuleNone},
		{"incidental all", "all the things are great today", ModeNormal, RuleNone},
		{"phrase inside a longer word", "explain how plants photosynthesize", ModeNormal, RuleNone},
		{"empty", "", ModeNormal, RuleNone},
		{"whitespace", "   \t\n", ModeNormal, RuleNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := c.Decide(tt.query)
			assert.Equal(t, tt.wantMode, d.Mode)
			assert.Equal(t, tt.wantRule, d.Rule)
			assert.Equal(t, tt.wantMode, c.Classify(tt.query))
		})
	}
}

func TestBroadThresholdIsInclusive(t *testing.T) {
	c := NewClassifier(Rules{
		BroadPhrases:   []string{"all documents"},
		BroadMinLength: len("read all documents"),
	})

	assert.Equal(t, ModeSynthesis, c.Classify("read all documents"))
	assert.Equal(t, ModeNormal, c.Classify("all documents"))
}

func TestDecideReportsPhrase(t *testing.T) {
	c := NewClassifier(DefaultRules())

	d := c.Decide("Could you synthesize my lecture notes?")
	assert.Equal(t, "synthesize", d.Phrase)

	d = c.Decide("what is in chapter two")
	assert.Empty(t, d.Phrase)
}

func TestCustomRulesAreNormalized(t *testing.T) {
	c := NewClassifier(Rules{
		ExplicitPhrases: []string{"  Big   Picture ", ""},
	})

	assert.Equal(t, ModeSynthesis, c.Classify("give me the big picture"))
	assert.Equal(t, ModeNormal, c.Classify("picture this"))
}
