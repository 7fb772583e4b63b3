package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/askdocs/askdocs/internal/document"
	"github.com/askdocs/askdocs/internal/llm"
)

// stubClient implements llm.Client for tests.
type stubClient struct {
	answer        string
	genErr        error
	block         bool // block generation until the context is done
	embedFn       func(text string) []float32
	generateCalls int
	lastRequest   llm.GenerationRequest
}

func (c *stubClient) GenerateAnswer(ctx context.Context, req llm.GenerationRequest) (string, error) {
	c.generateCalls++
	c.lastRequest = req
	if c.block {
		<-ctx.Done()
		return "", fmt.Errorf("%w: %w", llm.ErrUnavailable, ctx.Err())
	}
	if c.genErr != nil {
		return "", c.genErr
	}
	return c.answer, nil
}

func (c *stubClient) Embed(_ context.Context, text string) ([]float32, error) {
	if c.embedFn != nil {
		return c.embedFn(text), nil
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (c *stubClient) Name() string { return "stub" }

// stubStrategy lets tests control retrieval results directly.
type stubStrategy struct {
	docs          []document.Document
	err           error
	retrieveCalls int
}

func (s *stubStrategy) RetrieveDocuments(_ context.Context, _ string, topK int) ([]document.Document, error) {
	s.retrieveCalls++
	if s.err != nil {
		return nil, s.err
	}
	if len(s.docs) > topK {
		return s.docs[:topK], nil
	}
	return s.docs, nil
}

func (s *stubStrategy) Execute(ctx context.Context, q Query) (QueryResult, error) {
	docs, err := s.RetrieveDocuments(ctx, q.Text, q.TopK)
	if err != nil {
		return QueryResult{}, err
	}
	return templateResult(q, docs), nil
}

func makeDocs(t *testing.T, n int, withSources bool) []document.Document {
	t.Helper()
	docs := make([]document.Document, n)
	for i := range docs {
		source := ""
		if withSources {
			source = fmt.Sprintf("source_%d.pdf", i)
		}
		doc, err := document.New(fmt.Sprintf("Doc %d", i), fmt.Sprintf("Content %d", i), source)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		docs[i] = doc
	}
	return docs
}

func TestExecuteEmptyRetrieval(t *testing.T) {
	client := &stubClient{answer: "should never be used"}
	orch := NewOrchestrator(&stubStrategy{}, client, GenerationParams{})

	result, err := orch.Execute(context.Background(), "anything", DefaultTopK)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Answer != SentinelNoDocuments {
		t.Errorf("expected sentinel answer %q, got %q", SentinelNoDocuments, result.Answer)
	}
	if len(result.Sources) != 0 {
		t.Errorf("expected no sources, got %v", result.Sources)
	}
	if client.generateCalls != 0 {
		t.Errorf("generation client should not be invoked on empty retrieval, got %d calls", client.generateCalls)
	}
}

func TestExecuteWithDocuments(t *testing.T) {
	docs := makeDocs(t, 3, true)
	client := &stubClient{answer: "  Go is a compiled language. \n"}
	orch := NewOrchestrator(&stubStrategy{docs: docs}, client, GenerationParams{})

	result, err := orch.Execute(context.Background(), "What is Go?", DefaultTopK)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Answer != "Go is a compiled language." {
		t.Errorf("expected trimmed answer, got %q", result.Answer)
	}
	if result.Query.Text != "What is Go?" || result.Query.TopK != DefaultTopK {
		t.Errorf("unexpected query: %+v", result.Query)
	}
	if len(result.Sources) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(result.Sources))
	}
	for i, source := range result.Sources {
		want := fmt.Sprintf("source_%d.pdf", i)
		if source != want {
			t.Errorf("source %d: expected %q, got %q", i, want, source)
		}
	}
	if client.generateCalls != 1 {
		t.Errorf("expected exactly one generation call, got %d", client.generateCalls)
	}
}

func TestExecutePromptConstruction(t *testing.T) {
	docs := makeDocs(t, 2, true)
	client := &stubClient{answer: "answer"}
	params := GenerationParams{Temperature: 0.2, MaxTokens: 512, Timeout: 10 * time.Second}
	orch := NewOrchestrator(&stubStrategy{docs: docs}, client, params)

	if _, err := orch.Execute(context.Background(), "What is Go?", DefaultTopK); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	req := client.lastRequest
	if req.System == "" {
		t.Error("expected a system instruction")
	}
	if !strings.Contains(req.User, "Title: Doc 0") || !strings.Contains(req.User, "Content: Content 1") {
		t.Errorf("expected context block with document titles and content, got %q", req.User)
	}
	if !strings.Contains(req.User, contextSeparator) {
		t.Error("expected documents separated by the context delimiter")
	}
	if !strings.HasSuffix(req.User, "Question: What is Go?") {
		t.Errorf("expected the literal question after the context, got %q", req.User)
	}
	if req.Temperature != 0.2 || req.MaxTokens != 512 {
		t.Errorf("generation params not passed through: %+v", req)
	}
}

func TestExecuteFallbackSourceLabels(t *testing.T) {
	docs := makeDocs(t, 3, false)
	client := &stubClient{answer: "answer"}
	orch := NewOrchestrator(&stubStrategy{docs: docs}, client, GenerationParams{})

	result, err := orch.Execute(context.Background(), "q", DefaultTopK)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(result.Sources) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(result.Sources))
	}
	for i, source := range result.Sources {
		want := fmt.Sprintf("%s (ID: %s)", docs[i].Title, docs[i].ID)
		if source != want {
			t.Errorf("source %d: expected %q, got %q", i, want, source)
		}
	}
}

func TestExecuteTruncatesSources(t *testing.T) {
	docs := makeDocs(t, 5, true)
	client := &stubClient{answer: "answer"}
	orch := NewOrchestrator(&stubStrategy{docs: docs}, client, GenerationParams{})

	result, err := orch.Execute(context.Background(), "q", 2)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(result.Sources) != 2 {
		t.Errorf("expected sources truncated to 2, got %d", len(result.Sources))
	}
}

func TestExecuteValidationFailsFast(t *testing.T) {
	strategy := &stubStrategy{docs: makeDocs(t, 1, true)}
	client := &stubClient{answer: "answer"}
	orch := NewOrchestrator(strategy, client, GenerationParams{})

	for _, tt := range []struct {
		name string
		text string
		topK int
	}{
		{"empty text", "", 5},
		{"whitespace text", "  ", 5},
		{"top_k too small", "q", 0},
		{"top_k too large", "q", 101},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := orch.Execute(context.Background(), tt.text, tt.topK)
			if !errors.Is(err, ErrInvalidQuery) {
				t.Fatalf("expected ErrInvalidQuery, got %v", err)
			}
		})
	}

	if strategy.retrieveCalls != 0 {
		t.Errorf("retrieval must not run on invalid input, got %d calls", strategy.retrieveCalls)
	}
	if client.generateCalls != 0 {
		t.Errorf("generation must not run on invalid input, got %d calls", client.generateCalls)
	}
}

func TestExecuteRetrievalErrorPropagates(t *testing.T) {
	retrievalErr := errors.New("store unavailable")
	client := &stubClient{answer: "answer"}
	orch := NewOrchestrator(&stubStrategy{err: retrievalErr}, client, GenerationParams{})

	_, err := orch.Execute(context.Background(), "q", DefaultTopK)
	if !errors.Is(err, retrievalErr) {
		t.Fatalf("expected retrieval error to propagate, got %v", err)
	}
	if client.generateCalls != 0 {
		t.Error("generation must not run after retrieval failure")
	}
}

func TestExecuteGenerationErrorPropagates(t *testing.T) {
	docs := makeDocs(t, 1, true)
	client := &stubClient{genErr: fmt.Errorf("%w: quota exceeded", llm.ErrUnavailable)}
	orch := NewOrchestrator(&stubStrategy{docs: docs}, client, GenerationParams{})

	_, err := orch.Execute(context.Background(), "q", DefaultTopK)
	if !errors.Is(err, llm.ErrUnavailable) {
		t.Fatalf("expected llm.ErrUnavailable, got %v", err)
	}
}

func TestExecuteGenerationTimeout(t *testing.T) {
	docs := makeDocs(t, 1, true)
	client := &stubClient{block: true}
	orch := NewOrchestrator(&stubStrategy{docs: docs}, client, GenerationParams{Timeout: 10 * time.Millisecond})

	_, err := orch.Execute(context.Background(), "q", DefaultTopK)
	if !errors.Is(err, ErrGenerationTimeout) {
		t.Fatalf("expected ErrGenerationTimeout, got %v", err)
	}
}

func TestExecuteNilClientUsesTemplate(t *testing.T) {
	docs := makeDocs(t, 2, true)
	orch := NewOrchestrator(&stubStrategy{docs: docs}, nil, GenerationParams{})

	result, err := orch.Execute(context.Background(), "What is Go?", DefaultTopK)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := "Based on 2 documents, here is a mock response to: What is Go?"
	if result.Answer != want {
		t.Errorf("expected template answer %q, got %q", want, result.Answer)
	}
	if len(result.Sources) != 2 {
		t.Errorf("expected 2 sources, got %v", result.Sources)
	}
}

func TestExecuteCallerCancellation(t *testing.T) {
	docs := makeDocs(t, 1, true)
	client := &stubClient{block: true}
	orch := NewOrchestrator(&stubStrategy{docs: docs}, client, GenerationParams{Timeout: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := orch.Execute(ctx, "q", DefaultTopK)
	if err == nil {
		t.Fatal("expected error after caller cancellation")
	}
	// Caller cancellation is not a generation timeout.
	if errors.Is(err, ErrGenerationTimeout) {
		t.Errorf("caller cancellation misreported as timeout: %v", err)
	}
}
