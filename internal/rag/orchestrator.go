package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/askdocs/askdocs/internal/document"
	"github.com/askdocs/askdocs/internal/llm"
)

// SentinelNoDocuments is the fixed answer returned when retrieval yields
// nothing; the generation client is never invoked in that case.
const SentinelNoDocuments = "no relevant documents found"

// ErrGenerationTimeout reports that the generation call exceeded the
// configured deadline. It is never silently degraded to a sentinel answer.
var ErrGenerationTimeout = errors.New("generation timed out")

// GenerationParams are the fixed generation settings for every query: a
// low temperature prioritizing factual adherence and a bounded output
// length capping cost and latency.
type GenerationParams struct {
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// DefaultGenerationParams returns the standard generation settings.
func DefaultGenerationParams() GenerationParams {
	return GenerationParams{
		Temperature: 0.1,
		MaxTokens:   1000,
		Timeout:     30 * time.Second,
	}
}

// Orchestrator is the single authoritative pipeline turning a question
// into a grounded answer: validate, retrieve, assemble context, generate,
// attribute sources. Each call is an independent, strictly linear pass;
// no state is carried across invocations.
type Orchestrator struct {
	strategy Strategy
	client   llm.Client
	params   GenerationParams
}

// NewOrchestrator composes a retrieval strategy with a generation client.
// Zero-valued params fall back to the defaults field by field.
func NewOrchestrator(strategy Strategy, client llm.Client, params GenerationParams) *Orchestrator {
	defaults := DefaultGenerationParams()
	if params.Temperature == 0 {
		params.Temperature = defaults.Temperature
	}
	if params.MaxTokens == 0 {
		params.MaxTokens = defaults.MaxTokens
	}
	if params.Timeout == 0 {
		params.Timeout = defaults.Timeout
	}
	return &Orchestrator{strategy: strategy, client: client, params: params}
}

// Execute runs one query through the pipeline. Validation failures and
// retrieval/generation backend failures propagate without retry; there is
// no partial result.
func (o *Orchestrator) Execute(ctx context.Context, text string, topK int) (QueryResult, error) {
	q, err := NewQuery(text, topK)
	if err != nil {
		return QueryResult{}, err
	}

	// Without a generation client the strategy answers on its own with a
	// template response. Mock mode runs like this end to end.
	if o.client == nil {
		return o.strategy.Execute(ctx, q)
	}

	docs, err := o.strategy.RetrieveDocuments(ctx, q.Text, q.TopK)
	if err != nil {
		return QueryResult{}, fmt.Errorf("retrieving documents: %w", err)
	}

	if len(docs) == 0 {
		return QueryResult{Query: q, Answer: SentinelNoDocuments, Sources: []string{}}, nil
	}

	user := buildUserPrompt(buildContext(docs), q.Text)

	genCtx, cancel := context.WithTimeout(ctx, o.params.Timeout)
	defer cancel()

	answer, err := o.client.GenerateAnswer(genCtx, llm.GenerationRequest{
		System:      systemPrompt,
		User:        user,
		Temperature: o.params.Temperature,
		MaxTokens:   o.params.MaxTokens,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return QueryResult{}, fmt.Errorf("%w after %s", ErrGenerationTimeout, o.params.Timeout)
		}
		return QueryResult{}, fmt.Errorf("generating answer: %w", err)
	}

	return QueryResult{
		Query:   q,
		Answer:  strings.TrimSpace(answer),
		Sources: sourceLabels(docs, q.TopK),
	}, nil
}

// sourceLabels builds the attribution list in retrieval order: the
// document's source field verbatim, or a synthesized title/ID label so no
// retrieved document is silently dropped. The list is truncated to topK.
func sourceLabels(docs []document.Document, topK int) []string {
	sources := []string{}
	for _, doc := range docs {
		if len(sources) == topK {
			break
		}
		label := doc.Source
		if strings.TrimSpace(label) == "" {
			label = fmt.Sprintf("%s (ID: %s)", doc.Title, doc.ID)
		}
		sources = append(sources, label)
	}
	return sources
}
