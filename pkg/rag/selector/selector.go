package selector

import (
	"context"
	"slices"
	"strings"

	"studyroom-be/pkg/rag/intent"
	"studyroom-be/pkg/store"
)

// Config holds the selection tunables.
type Config struct {
	TopK              int // Normal mode: ranked chunks to take
	DocumentCap       int // Synthesis mode: recent documents to read
	ChunksPerDocument int // Synthesis mode: per-document sampling quota
}

// DocumentSelection is one document of a plan with the chunks chosen from it.
type DocumentSelection struct {
	Document store.Document // metadata only; Chunks of the source document are not kept
	Chunks   []store.Chunk
	// Lead is the document's opening text, up to store.LeadChars. Empty when
	// the store did not provide it.
	Lead string
}

// Indices returns the positions of the chosen chunks.
func (d DocumentSelection) Indices() []int {
	out := make([]int, len(d.Chunks))
	for i, c := range d.Chunks {
		out[i] = c.Index
	}
	return out
}

// Plan lists documents in priority order: newest first in synthesis mode,
// best ranked first in normal mode. Budgeting drops from the tail.
type Plan struct {
	Mode      intent.Mode
	Documents []DocumentSelection
}

// ChunkCount is the total number of chosen chunks.
func (p Plan) ChunkCount() int {
	n := 0
	for _, d := range p.Documents {
		n += len(d.Chunks)
	}
	return n
}

// Selector reads the Chunk Store. It is only called once the gate is open.
type Selector struct {
	store store.ChunkStore
	cfg   Config
}

func New(chunkStore store.ChunkStore, cfg Config) *Selector {
	return &Selector{store: chunkStore, cfg: cfg}
}

// Select builds the plan for one request. Store failures come back as *store.Error.
func (s *Selector) Select(ctx context.Context, mode intent.Mode, roomID, query string) (Plan, error) {
	if mode == intent.ModeSynthesis {
		return s.selectSynthesis(ctx, roomID)
	}
	return s.selectNormal(ctx, roomID, query)
}

func (s *Selector) selectNormal(ctx context.Context, roomID, query string) (Plan, error) {
	plan := Plan{Mode: intent.ModeNormal}

	chunks, err := s.store.GetRankedChunks(ctx, roomID, strings.TrimSpace(query), s.cfg.TopK)
	if err != nil {
		return Plan{}, &store.Error{Op: "GetRankedChunks", RoomID: roomID, Err: err}
	}
	if len(chunks) > s.cfg.TopK {
		chunks = chunks[:s.cfg.TopK]
	}

	// Group by document, keeping rank order of first appearance.
	position := make(map[string]int)
	for _, c := range chunks {
		i, ok := position[c.DocumentID]
		if !ok {
			i = len(plan.Documents)
			position[c.DocumentID] = i
			plan.Documents = append(plan.Documents, DocumentSelection{
				Document: store.Document{
					ID:      c.DocumentID,
					RoomID:  roomID,
					Title:   c.DocumentTitle,
					Summary: c.DocumentSummary,
				},
				Lead: c.DocumentLead,
			})
		}
		plan.Documents[i].Chunks = append(plan.Documents[i].Chunks, c)
	}

	return plan, nil
}

func (s *Selector) selectSynthesis(ctx context.Context, roomID string) (Plan, error) {
	plan := Plan{Mode: intent.ModeSynthesis}

	docs, err := s.store.GetRecentDocuments(ctx, roomID, s.cfg.DocumentCap)
	if err != nil {
		return Plan{}, &store.Error{Op: "GetRecentDocuments", RoomID: roomID, Err: err}
	}

	docs = slices.Clone(docs)
	slices.SortStableFunc(docs, func(a, b store.Document) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	for _, doc := range docs {
		if len(doc.Chunks) == 0 {
			continue
		}

		ordered := slices.Clone(doc.Chunks)
		slices.SortStableFunc(ordered, func(a, b store.Chunk) int {
			return a.Index - b.Index
		})

		picked := SampleIndices(len(ordered), s.cfg.ChunksPerDocument)
		chosen := make([]store.Chunk, len(picked))
		for i, idx := range picked {
			chosen[i] = ordered[idx]
		}

		meta := doc
		meta.Chunks = nil
		plan.Documents = append(plan.Documents, DocumentSelection{
			Document: meta,
			Chunks:   chosen,
			Lead:     store.Lead(ordered, store.LeadChars),
		})
	}

	return plan, nil
}
