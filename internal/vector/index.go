package vector

import (
	"context"
	"errors"
	"fmt"

	chromem "github.com/philippgille/chromem-go"
)

const collectionName = "documents"

// Match pairs a document ID with its similarity to a query embedding.
type Match struct {
	ID         string
	Similarity float32
}

// Index is an in-memory similarity index over precomputed embeddings,
// backed by chromem-go. It never computes embeddings itself; callers
// supply vectors for both documents and queries.
type Index struct {
	db  *chromem.DB
	col *chromem.Collection
}

// noEmbedFunc guards against accidental text-based queries. Every code
// path through Index supplies precomputed embeddings, so chromem should
// never invoke its embedding function.
func noEmbedFunc(_ context.Context, _ string) ([]float32, error) {
	return nil, errors.New("vector index requires precomputed embeddings")
}

// NewIndex creates an empty in-memory index.
func NewIndex() (*Index, error) {
	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(collectionName, nil, noEmbedFunc)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &Index{db: db, col: col}, nil
}

// Add inserts or replaces the embedding for the given document ID.
func (ix *Index) Add(ctx context.Context, id, content string, embedding []float32) error {
	err := ix.col.AddDocument(ctx, chromem.Document{
		ID:        id,
		Content:   content,
		Embedding: embedding,
	})
	if err != nil {
		return fmt.Errorf("indexing document %s: %w", id, err)
	}
	return nil
}

// Search returns up to limit matches ordered by descending similarity.
func (ix *Index) Search(ctx context.Context, embedding []float32, limit int) ([]Match, error) {
	count := ix.col.Count()
	if count == 0 || limit <= 0 {
		return nil, nil
	}

	// chromem-go requires nResults <= collection size.
	if limit > count {
		limit = count
	}

	results, err := ix.col.QueryEmbedding(ctx, embedding, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{ID: r.ID, Similarity: r.Similarity}
	}
	return matches, nil
}

// Delete removes the embedding for the given document ID, if present.
func (ix *Index) Delete(ctx context.Context, id string) error {
	if ix.col.Count() == 0 {
		return nil
	}
	return ix.col.Delete(ctx, nil, nil, id)
}

// Clear removes all embeddings from the index.
func (ix *Index) Clear() error {
	if err := ix.db.DeleteCollection(collectionName); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	col, err := ix.db.GetOrCreateCollection(collectionName, nil, noEmbedFunc)
	if err != nil {
		return fmt.Errorf("recreate collection: %w", err)
	}
	ix.col = col
	return nil
}

// Count returns the number of indexed embeddings.
func (ix *Index) Count() int {
	return ix.col.Count()
}
