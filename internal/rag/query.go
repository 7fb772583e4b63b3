package rag

import (
	"errors"
	"fmt"
	"strings"
)

// Bounds for the per-query document count.
const (
	MinTopK     = 1
	MaxTopK     = 100
	DefaultTopK = 5
)

// ErrInvalidQuery reports that query input failed validation. It is raised
// before any retrieval or generation I/O occurs.
var ErrInvalidQuery = errors.New("invalid query")

// Query is a single validated retrieval+generation request.
type Query struct {
	Text string `json:"text"`
	TopK int    `json:"top_k"`
}

// NewQuery validates and constructs a Query. This is the single point
// where bad input is rejected; the text is stored trimmed.
func NewQuery(text string, topK int) (Query, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Query{}, fmt.Errorf("%w: text cannot be empty", ErrInvalidQuery)
	}
	if topK < MinTopK || topK > MaxTopK {
		return Query{}, fmt.Errorf("%w: top_k must be between %d and %d, got %d", ErrInvalidQuery, MinTopK, MaxTopK, topK)
	}
	return Query{Text: trimmed, TopK: topK}, nil
}

// QueryResult is the output of one pipeline execution. Sources preserve
// retrieval order and never exceed the query's top_k.
type QueryResult struct {
	Query   Query    `json:"query"`
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}
