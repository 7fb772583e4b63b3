package llm

import (
	"context"
	"errors"
)

// ErrUnavailable reports that the generation backend could not serve the
// request (network, auth, quota, timeout, malformed response). Callers may
// retry; the client itself does not.
var ErrUnavailable = errors.New("generation backend unavailable")

// GenerationRequest contains the parameters for an answer generation call.
type GenerationRequest struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// Client defines the interface for generation backends. Embed exists for
// embedding-based retrieval; the template strategies never call it.
type Client interface {
	// GenerateAnswer sends a two-message (system + user) completion request
	// and returns the generated text.
	GenerateAnswer(ctx context.Context, req GenerationRequest) (string, error)
	// Embed returns the embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// Name returns the name of this client.
	Name() string
}
