package factory

import (
	"fmt"

	"deal-intake-be/pkg/llm"
	"deal-intake-be/pkg/llm/ollama"
)

// NewLLMProvider builds the configured provider. "none" returns nil, which
// callers treat as "degrade to rule-based output".
func NewLLMProvider(providerType, modelName, baseURL string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
