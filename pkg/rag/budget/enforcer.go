// FILE: pkg/rag/budget/enforcer.go
// PURPOSE: Apply document/chunk caps, fragment truncation and the token budget to a selection plan

package budget

import (
	"slices"
	"strings"

	"studyroom-be/pkg/rag/intent"
	"studyroom-be/pkg/rag/selector"
	"studyroom-be/pkg/store"
)

// Reason records why a bundle differs from what was selected.
type Reason string

const (
	ReasonNone        Reason = "none"
	ReasonDocumentCap Reason = "document-cap"
	ReasonChunkCap    Reason = "chunk-cap"
	ReasonTokenBudget Reason = "token-budget"
)

// Fragment is one unit of admitted text. Summary fragments have ChunkIndex -1.
type Fragment struct {
	DocumentID    string `json:"document_id"`
	DocumentTitle string `json:"document_title,omitempty"`
	ChunkIndex    int    `json:"chunk_index"`
	Text          string `json:"text"`
	Truncated     bool   `json:"truncated"`
	Summary       bool   `json:"summary"`
}

// Bundle is the budgeted result, fragments grouped by document in plan order.
type Bundle struct {
	Mode             intent.Mode
	Fragments        []Fragment
	UsedFallback     bool
	Reason           Reason
	EstimatedTokens  int
	DroppedDocuments int
	DroppedChunks    int
}

// DocumentIDs returns the distinct document ids in fragment order.
func (b Bundle) DocumentIDs() []string {
	ids := make([]string, 0)
	for _, f := range b.Fragments {
		if len(ids) == 0 || ids[len(ids)-1] != f.DocumentID {
			ids = append(ids, f.DocumentID)
		}
	}
	return ids
}

// Config holds the caps. Estimate and Assemble default to CharRatio(4) and JoinFragments.
type Config struct {
	DocumentCap       int
	ChunkCap          int
	FragmentCharLimit int
	TokenBudget       int
	SummaryChars      int
	Estimate          Estimator
	Assemble          func([]Fragment) string
}

// Enforcer is pure: it never reads the Chunk Store and keeps no state between calls.
type Enforcer struct {
	cfg Config
}

func NewEnforcer(cfg Config) *Enforcer {
	if cfg.Estimate == nil {
		cfg.Estimate = CharRatio(DefaultCharsPerToken)
	}
	if cfg.Assemble == nil {
		cfg.Assemble = JoinFragments
	}
	return &Enforcer{cfg: cfg}
}

// Enforce applies, in order: document cap, chunk cap, fragment truncation, token budget.
func (e *Enforcer) Enforce(plan selector.Plan) Bundle {
	bundle := Bundle{Mode: plan.Mode, Reason: ReasonNone}

	docs := clonePlan(plan.Documents)

	if e.cfg.DocumentCap > 0 && len(docs) > e.cfg.DocumentCap {
		for _, d := range docs[e.cfg.DocumentCap:] {
			bundle.DroppedChunks += len(d.Chunks)
		}
		bundle.DroppedDocuments = len(docs) - e.cfg.DocumentCap
		docs = docs[:e.cfg.DocumentCap]
		bundle.Reason = ReasonDocumentCap
	}

	if dropped, docsGone := e.applyChunkCap(plan.Mode, &docs); dropped > 0 {
		bundle.DroppedChunks += dropped
		bundle.DroppedDocuments += docsGone
		if bundle.Reason == ReasonNone {
			bundle.Reason = ReasonChunkCap
		}
	}

	for _, d := range docs {
		for _, c := range d.Chunks {
			text, cut := truncate(c.Text, e.cfg.FragmentCharLimit)
			bundle.Fragments = append(bundle.Fragments, Fragment{
				DocumentID:    d.Document.ID,
				DocumentTitle: d.Document.Title,
				ChunkIndex:    c.Index,
				Text:          text,
				Truncated:     cut,
			})
		}
	}

	bundle.EstimatedTokens = e.cfg.Estimate(e.cfg.Assemble(bundle.Fragments))
	if e.cfg.TokenBudget > 0 && bundle.EstimatedTokens > e.cfg.TokenBudget {
		bundle.Fragments = e.summaries(docs)
		bundle.UsedFallback = true
		bundle.Reason = ReasonTokenBudget
		bundle.EstimatedTokens = e.cfg.Estimate(e.cfg.Assemble(bundle.Fragments))
	}

	return bundle
}

// applyChunkCap removes one chunk at a time from the document holding the most
// chunks, the lower-priority one on ties, so no document is emptied while
// another still has spares. Only when every document is down to a single chunk
// are whole documents dropped from the tail. Returns chunks and documents removed.
func (e *Enforcer) applyChunkCap(mode intent.Mode, docs *[]selector.DocumentSelection) (int, int) {
	limit := e.cfg.ChunkCap
	if limit <= 0 {
		return 0, 0
	}

	ds := *docs
	total := 0
	for _, d := range ds {
		total += len(d.Chunks)
	}

	dropped := 0
	for total > limit {
		widest := -1
		for i := range ds {
			if widest < 0 || len(ds[i].Chunks) >= len(ds[widest].Chunks) {
				widest = i
			}
		}
		if len(ds[widest].Chunks) <= 1 {
			break
		}
		ds[widest].Chunks = dropOne(mode, ds[widest].Chunks)
		total--
		dropped++
	}

	docsGone := 0
	for total > limit && len(ds) > 0 {
		total -= len(ds[len(ds)-1].Chunks)
		dropped += len(ds[len(ds)-1].Chunks)
		ds = ds[:len(ds)-1]
		docsGone++
	}

	*docs = ds
	return dropped, docsGone
}

// dropOne removes a single chunk. Sampled chunks lose an interior one first so
// the head and tail survive; ranked chunks lose the lowest ranked.
func dropOne(mode intent.Mode, chunks []store.Chunk) []store.Chunk {
	n := len(chunks)
	if mode != intent.ModeSynthesis || n <= 2 {
		return chunks[:n-1]
	}
	mid := n / 2
	return append(chunks[:mid:mid], chunks[mid+1:]...)
}

func (e *Enforcer) summaries(docs []selector.DocumentSelection) []Fragment {
	limit := e.cfg.SummaryChars
	if e.cfg.FragmentCharLimit > 0 && (limit <= 0 || limit > e.cfg.FragmentCharLimit) {
		limit = e.cfg.FragmentCharLimit
	}

	out := make([]Fragment, 0, len(docs))
	for _, d := range docs {
		source := strings.TrimSpace(d.Document.Summary)
		if source == "" {
			source = d.Lead
		}
		if source == "" {
			source = store.Lead(d.Chunks, 0)
		}
		text, cut := truncate(source, limit)
		out = append(out, Fragment{
			DocumentID:    d.Document.ID,
			DocumentTitle: d.Document.Title,
			ChunkIndex:    -1,
			Text:          text,
			Truncated:     cut,
			Summary:       true,
		})
	}
	return out
}

func clonePlan(in []selector.DocumentSelection) []selector.DocumentSelection {
	out := make([]selector.DocumentSelection, len(in))
	for i, d := range in {
		out[i] = selector.DocumentSelection{Document: d.Document, Chunks: slices.Clone(d.Chunks), Lead: d.Lead}
	}
	return out
}

// truncate cuts s to at most limit characters. limit <= 0 means no limit.
func truncate(s string, limit int) (string, bool) {
	if limit <= 0 {
		return s, false
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i], true
		}
		count++
	}
	return s, false
}
