// Package storetest provides an in-memory ChunkStore double that counts calls.
package storetest

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"studyroom-be/pkg/store"
)

// FakeStore serves fixed documents. Ranked results are whatever Ranked holds,
// in order; recent documents are sorted newest first and cut to the limit.
type FakeStore struct {
	mu        sync.Mutex
	Documents []store.Document
	Ranked    []store.Chunk
	Err       error

	RankedCalls int
	RecentCalls int
	LastLimit   int
	LastQuery   string
}

func (f *FakeStore) GetRankedChunks(_ context.Context, _ string, query string, limit int) ([]store.Chunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RankedCalls++
	f.LastLimit = limit
	f.LastQuery = query
	if f.Err != nil {
		return nil, f.Err
	}
	return slices.Clone(f.Ranked), nil
}

func (f *FakeStore) GetRecentDocuments(_ context.Context, roomID string, limit int) ([]store.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RecentCalls++
	f.LastLimit = limit
	if f.Err != nil {
		return nil, f.Err
	}
	docs := slices.Clone(f.Documents)
	slices.SortStableFunc(docs, func(a, b store.Document) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// Calls is the total number of store reads.
func (f *FakeStore) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.RankedCalls + f.RecentCalls
}

// Doc builds a document with n chunks whose text is "<id>-<index> " repeated width times.
// Documents built with a larger age are older.
func Doc(id string, n int, age time.Duration, width int) store.Document {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	doc := store.Document{
		ID:        id,
		RoomID:    "room-1",
		Title:     "Title " + id,
		CreatedAt: base.Add(-age),
	}
	for i := 0; i < n; i++ {
		doc.Chunks = append(doc.Chunks, store.Chunk{
			ID:            fmt.Sprintf("%s-c%d", id, i),
			DocumentID:    id,
			DocumentTitle: doc.Title,
			Index:         i,
			Text:          strings.Repeat(fmt.Sprintf("%s-%d ", id, i), max(width, 1)),
		})
	}
	return doc
}
