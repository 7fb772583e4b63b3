package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and saves the
// resulting Config to the given path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to askdocs! Let's configure your document store.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select generation provider",
		Items: []string{string(ProviderOpenAI), string(ProviderAzure)},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)

	if cfg.Provider == ProviderAzure {
		endpointPrompt := promptui.Prompt{
			Label: "Azure OpenAI endpoint URL",
		}
		endpoint, err := endpointPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("azure endpoint: %w", err)
		}
		cfg.AzureEndpoint = endpoint
	}

	// 2. Retrieval strategy.
	strategyPrompt := promptui.Select{
		Label: "Select retrieval strategy",
		Items: []string{
			"mock      — first N documents, template answers",
			"simple    — first N documents",
			"embedding — ranked by vector similarity",
		},
	}
	strategyIdx, _, err := strategyPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("strategy selection: %w", err)
	}
	strategies := []StrategyType{StrategyMock, StrategySimple, StrategyEmbedding}
	cfg.Strategy = strategies[strategyIdx]

	// 3. Storage backend.
	storagePrompt := promptui.Select{
		Label: "Select document storage",
		Items: []string{
			"memory — fast, lost on restart",
			"sqlite — persisted to disk",
		},
	}
	storageIdx, _, err := storagePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("storage selection: %w", err)
	}
	drivers := []StorageDriver{StorageMemory, StorageSQLite}
	cfg.Storage = drivers[storageIdx]

	if cfg.Storage == StorageSQLite {
		dataDirPrompt := promptui.Prompt{
			Label:   "Data directory",
			Default: cfg.DataDir,
		}
		dataDir, err := dataDirPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("data dir: %w", err)
		}
		cfg.DataDir = dataDir
	}

	// 4. Server port.
	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(input string) error {
			port, err := strconv.Atoi(input)
			if err != nil || port < 1 || port > 65535 {
				return fmt.Errorf("port must be 1-65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	// Check for API key.
	envVar := APIKeyEnvVar(cfg.Provider)
	if os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running askdocs serve.\n", envVar)
	}

	fmt.Printf("\nConfiguration written to %s\n", path)
	return cfg, nil
}
