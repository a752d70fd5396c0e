package store

import (
	"context"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// LeadChars bounds the document lead attached to ranked chunks.
const LeadChars = 2000

// Chunk is a pre-segmented span of a document. Immutable once indexed.
//
// Ranked chunks also carry their document's precomputed summary and lead, so
// a summary fallback does not need a second read.
type Chunk struct {
	ID              string `json:"id" yaml:"id"`
	DocumentID      string `json:"document_id" yaml:"document_id"`
	DocumentTitle   string `json:"document_title,omitempty" yaml:"document_title,omitempty"`
	DocumentSummary string `json:"document_summary,omitempty" yaml:"-"`
	DocumentLead    string `json:"document_lead,omitempty" yaml:"-"`
	Index           int    `json:"index" yaml:"index"` // 0-based position within its document
	Text            string `json:"text" yaml:"text"`
}

// Length returns the chunk length in characters.
func (c Chunk) Length() int {
	return utf8.RuneCountInString(c.Text)
}

// Document is an indexed upload inside a room, with its chunks in order.
type Document struct {
	ID        string    `json:"id" yaml:"id"`
	RoomID    string    `json:"room_id" yaml:"room_id"`
	Title     string    `json:"title" yaml:"title"`
	Summary   string    `json:"summary,omitempty" yaml:"summary,omitempty"`
	Chunks    []Chunk   `json:"chunks" yaml:"chunks"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// ChunkStore is the read side of the knowledge base.
// Retry and timeout policy belong to the implementation.
type ChunkStore interface {
	// GetRankedChunks returns up to limit chunks of the room, best match first.
	GetRankedChunks(ctx context.Context, roomID, query string, limit int) ([]Chunk, error)
	// GetRecentDocuments returns up to limit documents of the room, newest first,
	// each with its chunks ordered by Index.
	GetRecentDocuments(ctx context.Context, roomID string, limit int) ([]Document, error)
}

// Lead is the opening text of a document: chunks joined in Index order with
// whitespace collapsed, cut to limit characters. limit <= 0 means no limit.
func Lead(chunks []Chunk, limit int) string {
	ordered := slices.Clone(chunks)
	slices.SortStableFunc(ordered, func(a, b Chunk) int {
		return a.Index - b.Index
	})

	var sb strings.Builder
	count := 0
	for _, c := range ordered {
		for _, word := range strings.Fields(c.Text) {
			if count > 0 {
				if limit > 0 && count == limit {
					return sb.String()
				}
				sb.WriteByte(' ')
				count++
			}
			for _, r := range word {
				if limit > 0 && count == limit {
					return sb.String()
				}
				sb.WriteRune(r)
				count++
			}
		}
	}
	return sb.String()
}
