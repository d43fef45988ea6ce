package cmd

import (
	"fmt"
	"os"

	"github.com/nexuscore/vaultd/internal/config"
	"github.com/nexuscore/vaultd/internal/llm"
	"github.com/nexuscore/vaultd/internal/vectorindex"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `vaultd init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createProviderFromConfig creates the chat LLM provider based on config.
func createProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	return llm.NewProvider(string(cfg.Provider), cfg.Model)
}

// createEmbedderFromConfig creates the embedder for the semantic catalog
// index based on config.
func createEmbedderFromConfig(cfg *config.Config) (vectorindex.Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}
	model := cfg.EmbeddingModel
	if model == "" {
		model = "text-embedding-3-small"
	}

	switch provider {
	case config.ProviderOllama:
		return vectorindex.NewOllamaEmbedder(model, os.Getenv("OLLAMA_HOST")), nil
	default:
		// All cloud providers use OpenAI embeddings.
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for embeddings (provider %s)", provider)
		}
		return vectorindex.NewOpenAIEmbedder(apiKey, model), nil
	}
}
