package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/askdocs/askdocs/internal/document"
)

// Strategy decides which documents are relevant to a query. Retrieval and
// self-contained execution are callable independently: the orchestrator
// reuses RetrieveDocuments and supplies its own generation step, while
// Execute produces a template answer with no generation backend at all.
type Strategy interface {
	// RetrieveDocuments returns up to topK relevant documents. Pure
	// retrieval policy; never performs generation.
	RetrieveDocuments(ctx context.Context, queryText string, topK int) ([]document.Document, error)

	// Execute runs retrieval and synthesizes a template answer, for
	// environments without an external generation backend.
	Execute(ctx context.Context, q Query) (QueryResult, error)
}

// MockStrategy ignores the query text and returns the first topK
// documents in creation order. Deterministic, for tests and local
// development.
type MockStrategy struct {
	store document.Store
}

// NewMockStrategy creates a mock retrieval strategy over the given store.
func NewMockStrategy(store document.Store) *MockStrategy {
	return &MockStrategy{store: store}
}

func (s *MockStrategy) RetrieveDocuments(ctx context.Context, _ string, topK int) ([]document.Document, error) {
	return s.store.FindAll(ctx, topK, 0)
}

func (s *MockStrategy) Execute(ctx context.Context, q Query) (QueryResult, error) {
	docs, err := s.RetrieveDocuments(ctx, q.Text, q.TopK)
	if err != nil {
		return QueryResult{}, err
	}
	return templateResult(q, docs), nil
}

// SimpleStrategy returns the most recent topK documents. It is
// behaviorally identical to MockStrategy today; it exists as the named
// seam where lexical or embedding ranking replaces pagination order.
type SimpleStrategy struct {
	store document.Store
}

// NewSimpleStrategy creates a simple retrieval strategy over the given store.
func NewSimpleStrategy(store document.Store) *SimpleStrategy {
	return &SimpleStrategy{store: store}
}

func (s *SimpleStrategy) RetrieveDocuments(ctx context.Context, _ string, topK int) ([]document.Document, error) {
	return s.store.FindAll(ctx, topK, 0)
}

func (s *SimpleStrategy) Execute(ctx context.Context, q Query) (QueryResult, error) {
	docs, err := s.RetrieveDocuments(ctx, q.Text, q.TopK)
	if err != nil {
		return QueryResult{}, err
	}
	return templateResult(q, docs), nil
}

// templateResult synthesizes a QueryResult without a generation backend.
// Sources are the non-empty source fields of the retrieved documents, in
// retrieval order, truncated to top_k.
func templateResult(q Query, docs []document.Document) QueryResult {
	var answer string
	if len(docs) == 0 {
		answer = fmt.Sprintf("No documents found to answer: %s", q.Text)
	} else {
		answer = fmt.Sprintf("Based on %d documents, here is a mock response to: %s", len(docs), q.Text)
	}

	sources := []string{}
	for _, doc := range docs {
		if len(sources) == q.TopK {
			break
		}
		if strings.TrimSpace(doc.Source) != "" {
			sources = append(sources, doc.Source)
		}
	}

	return QueryResult{Query: q, Answer: answer, Sources: sources}
}
