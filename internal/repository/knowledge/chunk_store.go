// FILE: internal/repository/knowledge/chunk_store.go
// PURPOSE: Postgres-backed ChunkStore for the synthesis engine

package knowledge

import (
	"context"
	"fmt"

	"studyroom-be/internal/entity"
	"studyroom-be/internal/repository/unitofwork"
	"studyroom-be/pkg/store"

	"github.com/google/uuid"
)

// ChunkStore serves engine reads from the documents and document_chunks tables.
type ChunkStore struct {
	repoFactory unitofwork.RepositoryFactory
}

func NewChunkStore(repoFactory unitofwork.RepositoryFactory) *ChunkStore {
	return &ChunkStore{repoFactory: repoFactory}
}

func (s *ChunkStore) GetRankedChunks(ctx context.Context, roomID, query string, limit int) ([]store.Chunk, error) {
	roomUUID, err := uuid.Parse(roomID)
	if err != nil {
		return nil, fmt.Errorf("invalid room id %q: %w", roomID, err)
	}
	if query == "" {
		return []store.Chunk{}, nil
	}

	uow := s.repoFactory.NewUnitOfWork(ctx)
	scored, err := uow.DocumentRepository().SearchChunks(ctx, roomUUID, query, limit)
	if err != nil {
		return nil, err
	}

	chunks := make([]store.Chunk, 0, len(scored))
	for _, sc := range scored {
		c := toStoreChunk(sc.Chunk, sc.DocumentTitle)
		c.DocumentSummary = sc.DocumentSummary
		c.DocumentLead = store.Lead([]store.Chunk{{Text: sc.DocumentLead}}, store.LeadChars)
		chunks = append(chunks, c)
	}
	return chunks, nil
}

func (s *ChunkStore) GetRecentDocuments(ctx context.Context, roomID string, limit int) ([]store.Document, error) {
	roomUUID, err := uuid.Parse(roomID)
	if err != nil {
		return nil, fmt.Errorf("invalid room id %q: %w", roomID, err)
	}

	uow := s.repoFactory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().FindRecentWithChunks(ctx, roomUUID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]store.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, ToStoreDocument(d))
	}
	return out, nil
}

// ToStoreDocument converts a persisted document, chunks included.
func ToStoreDocument(d *entity.Document) store.Document {
	doc := store.Document{
		ID:        d.Id.String(),
		RoomID:    d.RoomId.String(),
		Title:     d.Title,
		Summary:   d.Summary,
		CreatedAt: d.CreatedAt,
		Chunks:    make([]store.Chunk, 0, len(d.Chunks)),
	}
	for _, c := range d.Chunks {
		doc.Chunks = append(doc.Chunks, toStoreChunk(c, d.Title))
	}
	return doc
}

func toStoreChunk(c *entity.DocumentChunk, title string) store.Chunk {
	return store.Chunk{
		ID:            c.Id.String(),
		DocumentID:    c.DocumentId.String(),
		DocumentTitle: title,
		Index:         c.ChunkIndex,
		Text:          c.Content,
	}
}
