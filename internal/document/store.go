package document

import (
	"context"
	"errors"
)

// ErrNotFound reports an update against a missing document identifier.
// Lookups return an explicit absence instead of this error.
var ErrNotFound = errors.New("document not found")

// Store is the document storage contract. Any backend is a legal
// implementation as long as it honors created-at-ascending pagination,
// not-found on missing update, and idempotent save.
type Store interface {
	// Save inserts or overwrites by identifier. Saving the same document
	// twice leaves the store with exactly one entry.
	Save(ctx context.Context, doc Document) (Document, error)

	// FindByID returns the document or nil on miss; a miss is not an error.
	FindByID(ctx context.Context, id string) (*Document, error)

	// FindAll returns documents ordered by created-at ascending. An offset
	// beyond the available count yields an empty slice; at most limit
	// documents are returned.
	FindAll(ctx context.Context, limit, offset int) ([]Document, error)

	// SearchByEmbedding returns up to topK documents ordered by descending
	// similarity to the given vector, ties broken by created-at ascending.
	SearchByEmbedding(ctx context.Context, embedding []float32, topK int) ([]Document, error)

	// Update replaces the stored document entirely. Returns ErrNotFound if
	// no document with that identifier exists.
	Update(ctx context.Context, doc Document) (Document, error)

	// Delete returns true if a document was removed, false on miss.
	Delete(ctx context.Context, id string) (bool, error)

	// DeleteAll removes everything and returns the number removed.
	DeleteAll(ctx context.Context) (int, error)
}

// EmbeddingIndexer is an optional Store capability for registering
// document embeddings used by SearchByEmbedding.
type EmbeddingIndexer interface {
	IndexEmbedding(ctx context.Context, id string, embedding []float32) error
}

// Indexer receives newly created documents so a retrieval strategy can
// keep its embedding index current. A nil Indexer disables indexing.
type Indexer interface {
	IndexDocument(ctx context.Context, doc Document) error
}
