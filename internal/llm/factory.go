package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/veracity/internal/model"
)

// OllamaBaseURL is Ollama's OpenAI-compatible endpoint
const OllamaBaseURL = "http://localhost:11434/v1"

// NewProvider creates a provider from configuration; "" returns nil (disabled)
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		p, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "ollama":
		if config.BaseURL == "" {
			config.BaseURL = OllamaBaseURL
		}
		if config.Model == "" {
			config.Model = "llama3.1"
		}
		p, err := newOpenAICompatible(config, "ollama", false)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", config.Provider)
	}
}

// ConfigFromModel converts the application config into an llm.Config
func ConfigFromModel(llmCfg model.LLMConfig, httpCfg model.HTTPConfig) Config {
	return Config{
		Provider:       llmCfg.Provider,
		Model:          llmCfg.Model,
		APIKey:         llmCfg.APIKey,
		BaseURL:        llmCfg.BaseURL,
		Timeout:        llmCfg.Timeout,
		StrictEvidence: llmCfg.StrictEvidence,
		MaxTokens:      llmCfg.MaxTokens,
		HTTPProxy:      httpCfg.HTTPProxy,
		HTTPSProxy:     httpCfg.HTTPSProxy,
		NoProxy:        httpCfg.NoProxy,
	}
}
