package contract

import (
	"context"

	"studyroom-be/internal/entity"
	"studyroom-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	// Create stores the document together with its chunks.
	Create(ctx context.Context, document *entity.Document) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// FindRecentWithChunks returns the newest documents of a room with chunks ordered by position.
	FindRecentWithChunks(ctx context.Context, roomId uuid.UUID, limit int) ([]*entity.Document, error)
	// SearchChunks ranks matching chunks of a room by full-text relevance, then recency.
	SearchChunks(ctx context.Context, roomId uuid.UUID, query string, limit int) ([]*entity.ScoredDocumentChunk, error)
}
