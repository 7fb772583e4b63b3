package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Client using the OpenAI Chat Completions and
// Embeddings APIs. It also serves Azure OpenAI deployments through the
// Azure-flavored client configuration.
type OpenAIClient struct {
	client         *openai.Client
	name           string
	model          string
	embeddingModel string
}

// NewOpenAIClient creates a client against the public OpenAI API.
func NewOpenAIClient(apiKey, model, embeddingModel string) *OpenAIClient {
	return &OpenAIClient{
		client:         openai.NewClient(apiKey),
		name:           "openai",
		model:          model,
		embeddingModel: embeddingModel,
	}
}

// NewAzureClient creates a client against an Azure OpenAI endpoint. The
// model and embedding model name the Azure deployments to use.
func NewAzureClient(apiKey, endpoint, model, embeddingModel string) *OpenAIClient {
	cfg := openai.DefaultAzureConfig(apiKey, endpoint)
	return &OpenAIClient{
		client:         openai.NewClientWithConfig(cfg),
		name:           "azure",
		model:          model,
		embeddingModel: embeddingModel,
	}
}

func (c *OpenAIClient) Name() string {
	return c.name
}

func (c *OpenAIClient) GenerateAnswer(ctx context.Context, req GenerationRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %w", ErrUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: chat completion returned no choices", ErrUnavailable)
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: embedding request: %w", ErrUnavailable, err)
	}

	if len(resp.Data) != 1 {
		return nil, fmt.Errorf("%w: expected 1 embedding, got %d", ErrUnavailable, len(resp.Data))
	}

	return resp.Data[0].Embedding, nil
}
