package config

// DefaultEndpoint is the hosted generation service.
const DefaultEndpoint = "wss://backend.buildpicoapps.com/ask_ai_streaming_v2"

// relayModels maps each relay provider to its default model.
var relayModels = map[string]string{
	"scripted":   "",
	"openai":     "gpt-4o-mini",
	"openrouter": "minimax/minimax-m2.5",
	"minimax":    "MiniMax-M2.5-highspeed",
	"ollama":     "llama3",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Endpoint: DefaultEndpoint,
		AppID:    "economic-light",
		Tone:     ToneProfessional,
		Length:   "500",
		Relay: RelayConfig{
			Provider:     "scripted",
			Port:         8080,
			ChunkDelayMS: 30,
		},
	}
}

// DefaultModel returns the model used for a relay provider when none is
// configured.
func DefaultModel(provider string) string {
	return relayModels[provider]
}
