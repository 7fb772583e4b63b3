package config

// ProviderType identifies a generation backend.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderAzure  ProviderType = "azure"
)

// StrategyType identifies a retrieval strategy.
type StrategyType string

const (
	// StrategyMock returns the first top_k documents in creation order.
	// Deterministic, used for tests and local development.
	StrategyMock StrategyType = "mock"
	// StrategySimple is behaviorally identical to mock but named as the
	// placeholder for a future ranking implementation.
	StrategySimple StrategyType = "simple"
	// StrategyEmbedding ranks documents by embedding similarity.
	StrategyEmbedding StrategyType = "embedding"
)

// StorageDriver identifies a document store backend.
type StorageDriver string

const (
	StorageMemory StorageDriver = "memory"
	StorageSQLite StorageDriver = "sqlite"
)

// Config is the top-level askdocs configuration, corresponding to .askdocs.yml.
type Config struct {
	Port            int           `yaml:"port" koanf:"port"`
	AllowAllOrigins bool          `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	Provider        ProviderType  `yaml:"provider" koanf:"provider"`
	Model           string        `yaml:"model" koanf:"model"`
	EmbeddingModel  string        `yaml:"embedding_model" koanf:"embedding_model"`
	AzureEndpoint   string        `yaml:"azure_endpoint" koanf:"azure_endpoint"`
	Strategy        StrategyType  `yaml:"strategy" koanf:"strategy"`
	Storage         StorageDriver `yaml:"storage" koanf:"storage"`
	DataDir         string        `yaml:"data_dir" koanf:"data_dir"`
	Temperature     float64       `yaml:"temperature" koanf:"temperature"`
	MaxTokens       int           `yaml:"max_tokens" koanf:"max_tokens"`
	TimeoutSeconds  int           `yaml:"timeout_seconds" koanf:"timeout_seconds"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:           8000,
		Provider:       ProviderOpenAI,
		Model:          "gpt-4o-mini",
		EmbeddingModel: "text-embedding-3-small",
		Strategy:       StrategyMock,
		Storage:        StorageMemory,
		DataDir:        "data",
		Temperature:    0.1,
		MaxTokens:      1000,
		TimeoutSeconds: 30,
	}
}
