package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (ASKDOCS_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: ASKDOCS_PORT -> port, etc.
	if err := k.Load(env.Provider("ASKDOCS_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "ASKDOCS_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderAzure:  true,
}

// validStrategies is the set of recognized retrieval strategy values.
var validStrategies = map[StrategyType]bool{
	StrategyMock:      true,
	StrategySimple:    true,
	StrategyEmbedding: true,
}

// validStorageDrivers is the set of recognized storage backend values.
var validStorageDrivers = map[StorageDriver]bool{
	StorageMemory: true,
	StorageSQLite: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of openai, azure", c.Provider)
	}
	if c.Provider == ProviderAzure && c.AzureEndpoint == "" {
		return fmt.Errorf("azure_endpoint is required when provider is azure")
	}

	if c.Model == "" {
		return fmt.Errorf("model is required")
	}

	if !validStrategies[c.Strategy] {
		return fmt.Errorf("invalid strategy %q: must be one of mock, simple, embedding", c.Strategy)
	}
	if c.Strategy == StrategyEmbedding && c.EmbeddingModel == "" {
		return fmt.Errorf("embedding_model is required when strategy is embedding")
	}

	if !validStorageDrivers[c.Storage] {
		return fmt.Errorf("invalid storage %q: must be one of memory, sqlite", c.Storage)
	}
	if c.Storage == StorageSQLite && c.DataDir == "" {
		return fmt.Errorf("data_dir is required when storage is sqlite")
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %v", c.Temperature)
	}

	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive")
	}

	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive")
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAzure:
		return "AZURE_OPENAI_API_KEY"
	default:
		return ""
	}
}
