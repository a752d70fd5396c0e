package memory

import (
	"context"
	"testing"
	"time"

	"studyroom-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(id string, created time.Time, texts ...string) store.Document {
	d := store.Document{ID: id, RoomID: "room-1", Title: "Title " + id, CreatedAt: created}
	// stored out of order on purpose
	for i := len(texts) - 1; i >= 0; i-- {
		d.Chunks = append(d.Chunks, store.Chunk{ID: id + "-" + texts[i], DocumentID: id, Index: i, Text: texts[i]})
	}
	return d
}

func TestDocumentStore_RecentNewestFirst(t *testing.T) {
	s := NewDocumentStore(0)
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	s.Put(doc("old", base, "a"))
	s.Put(doc("new", base.Add(time.Hour), "b", "c"))
	s.Put(doc("mid", base.Add(time.Minute), "d"))

	docs, err := s.GetRecentDocuments(context.Background(), "room-1", 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "new", docs[0].ID)
	assert.Equal(t, "mid", docs[1].ID)
	assert.Equal(t, 0, docs[0].Chunks[0].Index)
	assert.Equal(t, 1, docs[0].Chunks[1].Index)
}

func TestDocumentStore_PutReplaces(t *testing.T) {
	s := NewDocumentStore(time.Hour)
	now := time.Now()
	s.Put(doc("x", now, "first"))
	s.Put(doc("x", now, "second"))

	docs, err := s.GetRecentDocuments(context.Background(), "room-1", 5)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "second", docs[0].Chunks[0].Text)
}

func TestDocumentStore_Ranked(t *testing.T) {
	s := NewDocumentStore(0)
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	s.Put(doc("bio", base, "Photosynthesis converts light", "Cells divide"))
	s.Put(doc("chem", base.Add(time.Hour), "Light and photosynthesis, photosynthesis again"))

	chunks, err := s.GetRankedChunks(context.Background(), "room-1", "photosynthesis light", 3)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "chem", chunks[0].DocumentID)
	assert.Equal(t, "Title chem", chunks[0].DocumentTitle)
	assert.Equal(t, "bio", chunks[1].DocumentID)
	assert.Equal(t, 0, chunks[1].Index)
}

func TestDocumentStore_RankedIgnoresQuestionWords(t *testing.T) {
	s := NewDocumentStore(0)
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	s.Put(doc("chatter", base.Add(time.Hour), "What is this? What is that? What does the teacher say about what is what?"))
	bio := doc("bio", base, "Chlorophyll absorbs light.", "The Calvin cycle fixes carbon dioxide into sugar.")
	bio.Summary = "Plant energy notes"
	s.Put(bio)

	chunks, err := s.GetRankedChunks(context.Background(), "room-1", "What does the lecture say about the Calvin cycle?", 3)
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.Equal(t, "bio", chunks[0].DocumentID)
	assert.Equal(t, 1, chunks[0].Index)
	assert.Equal(t, "Plant energy notes", chunks[0].DocumentSummary)
	assert.Equal(t, "Chlorophyll absorbs light. The Calvin cycle fixes carbon dioxide into sugar.", chunks[0].DocumentLead)
}

func TestDocumentStore_RankedPrefersDistinctMatches(t *testing.T) {
	s := NewDocumentStore(0)
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	s.Put(doc("repeat", base.Add(time.Hour), "light light light light"))
	s.Put(doc("both", base, "light reactions and the calvin cycle"))

	chunks, err := s.GetRankedChunks(context.Background(), "room-1", "light calvin", 2)
	require.NoError(t, err)

	require.Len(t, chunks, 2)
	assert.Equal(t, "both", chunks[0].DocumentID)
	assert.Equal(t, "repeat", chunks[1].DocumentID)
}

func TestDocumentStore_RoomsAreIsolated(t *testing.T) {
	s := NewDocumentStore(0)
	d := doc("a", time.Now(), "shared words")
	d.RoomID = "room-2"
	s.Put(d)

	docs, err := s.GetRecentDocuments(context.Background(), "room-1", 5)
	require.NoError(t, err)
	assert.Empty(t, docs)

	chunks, err := s.GetRankedChunks(context.Background(), "room-1", "shared words", 5)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestDocumentStore_CancelledContext(t *testing.T) {
	s := NewDocumentStore(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetRankedChunks(ctx, "room-1", "q", 3)
	assert.ErrorIs(t, err, context.Canceled)
}
