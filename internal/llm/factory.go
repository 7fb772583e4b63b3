package llm

import (
	"fmt"
	"os"

	"github.com/askdocs/askdocs/internal/config"
)

// NewClient creates a generation client based on the configured provider.
// API keys are read from the provider's conventional environment variable.
func NewClient(cfg *config.Config) (Client, error) {
	apiKey := os.Getenv(config.APIKeyEnvVar(cfg.Provider))

	switch cfg.Provider {
	case config.ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIClient(apiKey, cfg.Model, cfg.EmbeddingModel), nil

	case config.ProviderAzure:
		if apiKey == "" {
			return nil, fmt.Errorf("AZURE_OPENAI_API_KEY environment variable is not set")
		}
		return NewAzureClient(apiKey, cfg.AzureEndpoint, cfg.Model, cfg.EmbeddingModel), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", cfg.Provider)
	}
}
