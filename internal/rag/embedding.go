package rag

import (
	"context"
	"fmt"

	"github.com/askdocs/askdocs/internal/document"
	"github.com/askdocs/askdocs/internal/llm"
)

// EmbeddingStrategy ranks documents by embedding similarity. The query is
// embedded through the generation client and matched against the store's
// embedding search; the orchestrator needs no changes when this strategy
// replaces a pagination-based one.
type EmbeddingStrategy struct {
	store  document.Store
	client llm.Client
}

// NewEmbeddingStrategy creates an embedding-based retrieval strategy.
// The store must support embedding indexing for IndexDocument to work.
func NewEmbeddingStrategy(store document.Store, client llm.Client) *EmbeddingStrategy {
	return &EmbeddingStrategy{store: store, client: client}
}

func (s *EmbeddingStrategy) RetrieveDocuments(ctx context.Context, queryText string, topK int) ([]document.Document, error) {
	vec, err := s.client.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return s.store.SearchByEmbedding(ctx, vec, topK)
}

func (s *EmbeddingStrategy) Execute(ctx context.Context, q Query) (QueryResult, error) {
	docs, err := s.RetrieveDocuments(ctx, q.Text, q.TopK)
	if err != nil {
		return QueryResult{}, err
	}
	return templateResult(q, docs), nil
}

// IndexDocument embeds a document's content and registers the vector with
// the store so SearchByEmbedding can find it.
func (s *EmbeddingStrategy) IndexDocument(ctx context.Context, doc document.Document) error {
	indexer, ok := s.store.(document.EmbeddingIndexer)
	if !ok {
		return fmt.Errorf("store %T does not support embedding indexing", s.store)
	}

	vec, err := s.client.Embed(ctx, doc.Content)
	if err != nil {
		return fmt.Errorf("embedding document %s: %w", doc.ID, err)
	}
	return indexer.IndexEmbedding(ctx, doc.ID, vec)
}
