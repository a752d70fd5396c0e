package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode"

	"studyroom-be/pkg/store"
	"studyroom-be/pkg/utils"

	"github.com/patrickmn/go-cache"
)

// DocumentStore is an in-process ChunkStore for local runs and demos.
// Rooms are cache entries; ranking counts distinct query keywords per chunk.
type DocumentStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewDocumentStore(ttl time.Duration) *DocumentStore {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &DocumentStore{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

// Put adds or replaces a document in its room.
func (s *DocumentStore) Put(doc store.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.room(doc.RoomID)
	docs = slices.DeleteFunc(docs, func(d store.Document) bool { return d.ID == doc.ID })
	docs = append(docs, doc)
	s.cache.Set(doc.RoomID, docs, cache.DefaultExpiration)
}

func (s *DocumentStore) room(roomID string) []store.Document {
	if x, found := s.cache.Get(roomID); found {
		return slices.Clone(x.([]store.Document))
	}
	return nil
}

func (s *DocumentStore) GetRecentDocuments(ctx context.Context, roomID string, limit int) ([]store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	docs := s.room(roomID)
	s.mu.Unlock()

	slices.SortStableFunc(docs, func(a, b store.Document) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	for i := range docs {
		chunks := slices.Clone(docs[i].Chunks)
		slices.SortStableFunc(chunks, func(a, b store.Chunk) int { return a.Index - b.Index })
		docs[i].Chunks = chunks
	}
	return docs, nil
}

func (s *DocumentStore) GetRankedChunks(ctx context.Context, roomID, query string, limit int) ([]store.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	terms := utils.ExtractKeywords(query)
	if len(terms) == 0 {
		return []store.Chunk{}, nil
	}

	s.mu.Lock()
	docs := s.room(roomID)
	s.mu.Unlock()

	type scored struct {
		chunk   store.Chunk
		matched int
		count   int
		created time.Time
	}
	var hits []scored
	for _, d := range docs {
		lead := ""
		for _, c := range d.Chunks {
			matched, occurrences := overlap(terms, tokenize(c.Text))
			if matched == 0 {
				continue
			}
			if c.DocumentTitle == "" {
				c.DocumentTitle = d.Title
			}
			if lead == "" {
				lead = store.Lead(d.Chunks, store.LeadChars)
			}
			c.DocumentSummary = d.Summary
			c.DocumentLead = lead
			hits = append(hits, scored{chunk: c, matched: matched, count: occurrences, created: d.CreatedAt})
		}
	}

	// Distinct keywords first, then keyword frequency, then the Postgres
	// tie-breaks: newer document, lower index.
	slices.SortStableFunc(hits, func(a, b scored) int {
		if a.matched != b.matched {
			return b.matched - a.matched
		}
		if a.count != b.count {
			return b.count - a.count
		}
		if c := b.created.Compare(a.created); c != 0 {
			return c
		}
		return a.chunk.Index - b.chunk.Index
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]store.Chunk, len(hits))
	for i, h := range hits {
		out[i] = h.chunk
	}
	return out, nil
}

func tokenize(s string) map[string]int {
	counts := make(map[string]int)
	for _, f := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		counts[f]++
	}
	return counts
}

// overlap returns how many keywords appear in the text and their total count.
func overlap(keywords []string, text map[string]int) (int, int) {
	matched, occurrences := 0, 0
	for _, k := range keywords {
		if n := text[k]; n > 0 {
			matched++
			occurrences += n
		}
	}
	return matched, occurrences
}
