package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// NewProvider creates a streaming provider by name.
// Supported: "scripted", "openai", "openrouter", "minimax", "ollama".
func NewProvider(providerType string, model string) (Provider, error) {
	switch providerType {
	case "scripted", "":
		return &ScriptedProvider{Delay: 30 * time.Millisecond}, nil

	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIProvider(apiKey, model), nil

	case "openrouter":
		apiKey := os.Getenv("OPENROUTER_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY environment variable is not set")
		}
		return NewCompatibleProvider("openrouter", "https://openrouter.ai/api/v1", apiKey, model), nil

	case "minimax":
		apiKey := os.Getenv("MINIMAX_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("MINIMAX_API_KEY environment variable is not set")
		}
		return NewCompatibleProvider("minimax", "https://api.minimax.io/v1", apiKey, model), nil

	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewCompatibleProvider("ollama", strings.TrimRight(host, "/")+"/v1", "ollama", model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
