package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSplitText_Short(t *testing.T) {
	assert.Equal(t, []string{"hello world"}, SplitText("  hello world \n", 50, 10))
	assert.Empty(t, SplitText("   ", 50, 10))
}

func TestSplitText_BreaksAtWhitespace(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta ", 20)
	chunks := SplitText(text, 40, 0)

	assert.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 40)
		for _, w := range strings.Fields(c) {
			assert.Contains(t, []string{"alpha", "beta", "gamma", "delta"}, w, "no word is cut")
		}
	}
}

func TestSplitText_Overlap(t *testing.T) {
	text := "0123456789abcdefghij"
	chunks := SplitText(text, 10, 3)

	assert.Equal(t, "0123456789", chunks[0])
	assert.Equal(t, "789abcdefg", chunks[1])
	assert.Equal(t, "efghij", chunks[2])
}

func TestSplitText_MultiByte(t *testing.T) {
	text := strings.Repeat("é", 25)
	chunks := SplitText(text, 10, 0)

	assert.Len(t, chunks, 3)
	assert.Equal(t, strings.Repeat("é", 5), chunks[2])
}

func TestSplitText_BadOverlapIgnored(t *testing.T) {
	chunks := SplitText("abcdefghijkl", 4, 9)
	assert.Equal(t, []string{"abcd", "efgh", "ijkl"}, chunks)
}
