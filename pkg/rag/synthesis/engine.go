// FILE: pkg/rag/synthesis/engine.go
// PURPOSE: Single entry point that turns a room query into a bounded context block

package synthesis

import (
	"context"
	"fmt"

	"studyroom-be/pkg/rag/budget"
	"studyroom-be/pkg/rag/gate"
	"studyroom-be/pkg/rag/intent"
	"studyroom-be/pkg/rag/prompt"
	"studyroom-be/pkg/rag/selector"
	"studyroom-be/pkg/store"
)

// Engine is stateless between requests and safe for concurrent use.
type Engine struct {
	gate       gate.Gate
	classifier *intent.Classifier
	selector   *selector.Selector
	enforcer   *budget.Enforcer
	packager   *prompt.Packager
}

type options struct {
	estimate budget.Estimator
}

// Option customizes an Engine.
type Option func(*options)

// WithEstimator replaces the characters-per-token heuristic, e.g. with a
// provider tokenizer.
func WithEstimator(estimate budget.Estimator) Option {
	return func(o *options) {
		o.estimate = estimate
	}
}

// New wires the pipeline. The configuration is validated once here.
func New(chunkStore store.ChunkStore, g gate.Gate, cfg Config, opts ...Option) (*Engine, error) {
	if chunkStore == nil {
		return nil, fmt.Errorf("synthesis: chunk store is required")
	}
	if g == nil {
		return nil, fmt.Errorf("synthesis: gate is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("synthesis: invalid config: %w", err)
	}

	o := options{estimate: budget.CharRatio(cfg.CharsPerToken)}
	for _, opt := range opts {
		opt(&o)
	}

	return &Engine{
		gate:       g,
		classifier: intent.NewClassifier(cfg.Rules),
		selector: selector.New(chunkStore, selector.Config{
			TopK:              cfg.TopK,
			DocumentCap:       cfg.DocumentCap,
			ChunksPerDocument: cfg.ChunksPerDocument,
		}),
		enforcer: budget.NewEnforcer(budget.Config{
			DocumentCap:       cfg.DocumentCap,
			ChunkCap:          cfg.ChunkCap,
			FragmentCharLimit: cfg.FragmentCharLimit,
			TokenBudget:       cfg.TokenBudget,
			SummaryChars:      cfg.SummaryChars,
			Estimate:          o.estimate,
			Assemble:          prompt.Render,
		}),
		packager: prompt.NewPackager(),
	}, nil
}

// Classify exposes the intent decision without touching the store.
func (e *Engine) Classify(query string) intent.Decision {
	return e.classifier.Decide(query)
}

// BuildContext returns the context block for a query over a room's knowledge base.
//
// The gate is read exactly once, before any store access. A closed gate yields an
// empty text and a manifest with GateDisabled set. An empty result with NoContent
// set means nothing matched. The error is non-nil only for store failures, in
// which case it matches store.ErrUnavailable and no partial result is returned.
func (e *Engine) BuildContext(ctx context.Context, roomID, query string) (string, prompt.Manifest, error) {
	enabled := e.gate.IsEnabled(ctx)
	decision := e.classifier.Decide(query)

	if !enabled {
		manifest := prompt.DisabledManifest()
		manifest.Mode = decision.Mode
		manifest.IntentRule = decision.Rule
		manifest.IntentPhrase = decision.Phrase
		return "", manifest, nil
	}

	plan, err := e.selector.Select(ctx, decision.Mode, roomID, query)
	if err != nil {
		return "", prompt.Manifest{}, err
	}

	text, manifest := e.packager.Package(e.enforcer.Enforce(plan))
	manifest.IntentRule = decision.Rule
	manifest.IntentPhrase = decision.Phrase
	return text, manifest, nil
}
