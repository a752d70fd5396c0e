package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded file after chunking and indexing.
type Document struct {
	Id        uuid.UUID
	RoomId    uuid.UUID
	Title     string
	Summary   string // optional, written by the indexer
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool

	Chunks []*DocumentChunk // ordered by ChunkIndex when loaded
}

type DocumentChunk struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	ChunkIndex int // 0-based index for ordering
	Content    string
	CreatedAt  time.Time
}

// ScoredDocumentChunk is a chunk with its full-text rank and owning document's
// title, summary and opening text.
type ScoredDocumentChunk struct {
	Chunk           *DocumentChunk
	DocumentTitle   string
	DocumentSummary string
	DocumentLead    string
	Rank            float64
}
