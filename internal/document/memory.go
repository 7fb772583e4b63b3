package document

import (
	"context"
	"sort"
	"sync"

	"github.com/askdocs/askdocs/internal/vector"
)

// MemoryStore is the reference in-memory Store implementation. A single
// coarse-grained mutex guards the document map against concurrent
// structural mutation; FindAll sorts a snapshot on every call rather than
// maintaining a sorted index, which is acceptable for a reference
// implementation. Similarity search is served by a chromem-backed index
// fed through IndexEmbedding.
type MemoryStore struct {
	mu    sync.RWMutex
	docs  map[string]Document
	index *vector.Index
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() (*MemoryStore, error) {
	ix, err := vector.NewIndex()
	if err != nil {
		return nil, err
	}
	return &MemoryStore{
		docs:  make(map[string]Document),
		index: ix,
	}, nil
}

func (s *MemoryStore) Save(_ context.Context, doc Document) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
	return doc, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

func (s *MemoryStore) FindAll(_ context.Context, limit, offset int) ([]Document, error) {
	if limit <= 0 || offset < 0 {
		return []Document{}, nil
	}

	snapshot := s.snapshot()
	sortByCreatedAt(snapshot)

	if offset >= len(snapshot) {
		return []Document{}, nil
	}
	end := offset + limit
	if end > len(snapshot) {
		end = len(snapshot)
	}
	return snapshot[offset:end], nil
}

func (s *MemoryStore) SearchByEmbedding(ctx context.Context, embedding []float32, topK int) ([]Document, error) {
	if topK <= 0 {
		return []Document{}, nil
	}

	matches, err := s.index.Search(ctx, embedding, topK)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	docs := make([]Document, 0, len(matches))
	similarity := make(map[string]float32, len(matches))
	for _, m := range matches {
		doc, ok := s.docs[m.ID]
		if !ok {
			// Index entry outlived its document; skip it.
			continue
		}
		docs = append(docs, doc)
		similarity[doc.ID] = m.Similarity
	}
	s.mu.RUnlock()

	// Descending similarity, ties broken by created-at ascending.
	sort.SliceStable(docs, func(i, j int) bool {
		si, sj := similarity[docs[i].ID], similarity[docs[j].ID]
		if si != sj {
			return si > sj
		}
		return docs[i].CreatedAt.Before(docs[j].CreatedAt)
	})

	if len(docs) > topK {
		docs = docs[:topK]
	}
	return docs, nil
}

func (s *MemoryStore) Update(_ context.Context, doc Document) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[doc.ID]; !ok {
		return Document{}, ErrNotFound
	}
	s.docs[doc.ID] = doc
	return doc, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	_, ok := s.docs[id]
	if ok {
		delete(s.docs, id)
	}
	s.mu.Unlock()

	if ok {
		if err := s.index.Delete(ctx, id); err != nil {
			return true, err
		}
	}
	return ok, nil
}

func (s *MemoryStore) DeleteAll(_ context.Context) (int, error) {
	s.mu.Lock()
	count := len(s.docs)
	s.docs = make(map[string]Document)
	s.mu.Unlock()

	if err := s.index.Clear(); err != nil {
		return count, err
	}
	return count, nil
}

// IndexEmbedding registers the embedding vector for an existing document.
func (s *MemoryStore) IndexEmbedding(ctx context.Context, id string, embedding []float32) error {
	s.mu.RLock()
	doc, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	return s.index.Add(ctx, id, doc.Content, embedding)
}

// snapshot copies the current documents under the read lock so sorting
// never observes a torn read.
func (s *MemoryStore) snapshot() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	return docs
}

// sortByCreatedAt orders documents by created-at ascending, ties broken
// by ID for a stable pagination order.
func sortByCreatedAt(docs []Document) {
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.Before(docs[j].CreatedAt)
		}
		return docs[i].ID < docs[j].ID
	})
}
