package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Port)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected default provider %q, got %q", ProviderOpenAI, cfg.Provider)
	}
	if cfg.Strategy != StrategyMock {
		t.Errorf("expected default strategy %q, got %q", StrategyMock, cfg.Strategy)
	}
	if cfg.Storage != StorageMemory {
		t.Errorf("expected default storage %q, got %q", StorageMemory, cfg.Storage)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.askdocs.yml")

	original := DefaultConfig()
	original.Port = 9090
	original.Provider = ProviderAzure
	original.AzureEndpoint = "https://example.openai.azure.com/"
	original.Model = "gpt-4o"
	original.Strategy = StrategyEmbedding
	original.Storage = StorageSQLite
	original.Temperature = 0.3

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify round-trip.
	if loaded.Port != original.Port {
		t.Errorf("port: got %d, want %d", loaded.Port, original.Port)
	}
	if loaded.Provider != original.Provider {
		t.Errorf("provider: got %q, want %q", loaded.Provider, original.Provider)
	}
	if loaded.AzureEndpoint != original.AzureEndpoint {
		t.Errorf("azure_endpoint: got %q, want %q", loaded.AzureEndpoint, original.AzureEndpoint)
	}
	if loaded.Strategy != original.Strategy {
		t.Errorf("strategy: got %q, want %q", loaded.Strategy, original.Strategy)
	}
	if loaded.Storage != original.Storage {
		t.Errorf("storage: got %q, want %q", loaded.Storage, original.Storage)
	}
	if loaded.Temperature != original.Temperature {
		t.Errorf("temperature: got %v, want %v", loaded.Temperature, original.Temperature)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected default provider, got %q", cfg.Provider)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	t.Setenv("ASKDOCS_MODEL", "gpt-4o")
	t.Setenv("ASKDOCS_STRATEGY", "simple")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("expected env override model gpt-4o, got %q", cfg.Model)
	}
	if cfg.Strategy != StrategySimple {
		t.Errorf("expected env override strategy simple, got %q", cfg.Strategy)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero port", func(c *Config) { c.Port = 0 }, true},
		{"unknown provider", func(c *Config) { c.Provider = "cohere" }, true},
		{"azure without endpoint", func(c *Config) { c.Provider = ProviderAzure }, true},
		{"azure with endpoint", func(c *Config) {
			c.Provider = ProviderAzure
			c.AzureEndpoint = "https://example.openai.azure.com/"
		}, false},
		{"empty model", func(c *Config) { c.Model = "" }, true},
		{"unknown strategy", func(c *Config) { c.Strategy = "hybrid" }, true},
		{"embedding without model", func(c *Config) {
			c.Strategy = StrategyEmbedding
			c.EmbeddingModel = ""
		}, true},
		{"unknown storage", func(c *Config) { c.Storage = "postgres" }, true},
		{"sqlite without data_dir", func(c *Config) {
			c.Storage = StorageSQLite
			c.DataDir = ""
		}, true},
		{"negative temperature", func(c *Config) { c.Temperature = -1 }, true},
		{"zero max_tokens", func(c *Config) { c.MaxTokens = 0 }, true},
		{"zero timeout", func(c *Config) { c.TimeoutSeconds = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
