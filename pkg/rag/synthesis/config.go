package synthesis

import (
	"errors"
	"fmt"

	"studyroom-be/pkg/rag/intent"
	"studyroom-be/pkg/store"
)

// Config holds every engine tunable. None of these are user-facing.
type Config struct {
	DocumentCap       int // max documents in a bundle
	ChunkCap          int // max chunks across all documents
	ChunksPerDocument int // synthesis sampling quota
	FragmentCharLimit int // max characters per fragment
	TokenBudget       int // estimated tokens before falling back to summaries
	CharsPerToken     int // ratio used by the default estimator
	SummaryChars      int // length of a fallback digest
	TopK              int // ranked chunks in normal mode
	Rules             intent.Rules
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		DocumentCap:       5,
		ChunkCap:          10,
		ChunksPerDocument: 2,
		FragmentCharLimit: 1500,
		TokenBudget:       3000,
		CharsPerToken:     4,
		SummaryChars:      400,
		TopK:              3,
		Rules:             intent.DefaultRules(),
	}
}

// Validate rejects configurations the caps cannot be enforced with.
func (c Config) Validate() error {
	var errs []error
	for _, f := range []struct {
		name  string
		value int
	}{
		{"document cap", c.DocumentCap},
		{"chunk cap", c.ChunkCap},
		{"chunks per document", c.ChunksPerDocument},
		{"fragment char limit", c.FragmentCharLimit},
		{"token budget", c.TokenBudget},
		{"chars per token", c.CharsPerToken},
		{"summary chars", c.SummaryChars},
		{"top k", c.TopK},
	} {
		if f.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", f.name, f.value))
		}
	}
	if c.SummaryChars > store.LeadChars {
		errs = append(errs, fmt.Errorf("summary chars must not exceed %d, got %d", store.LeadChars, c.SummaryChars))
	}
	if c.Rules.BroadMinLength < 0 {
		errs = append(errs, fmt.Errorf("broad min length must not be negative, got %d", c.Rules.BroadMinLength))
	}
	return errors.Join(errs...)
}
