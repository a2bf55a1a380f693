package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to blogforge! Let's set up your defaults.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Generation service.
	endpointPrompt := promptui.Prompt{
		Label:   "Generation service endpoint",
		Default: cfg.Endpoint,
		Validate: func(s string) error {
			if !strings.HasPrefix(s, "ws://") && !strings.HasPrefix(s, "wss://") {
				return errors.New("endpoint must start with ws:// or wss://")
			}
			return nil
		},
	}
	endpoint, err := endpointPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("endpoint: %w", err)
	}
	cfg.Endpoint = endpoint

	// 2. Default tone and length.
	if cfg.Tone, err = PromptTone(cfg.Tone); err != nil {
		return nil, err
	}
	if cfg.Length, err = PromptLength(cfg.Length); err != nil {
		return nil, err
	}

	// 3. Relay backend.
	providerPrompt := promptui.Select{
		Label: "Relay backend (used by `blogforge relay`)",
		Items: []string{"scripted", "openai", "openrouter", "minimax", "ollama"},
	}
	_, provider, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("relay provider selection: %w", err)
	}
	cfg.Relay.Provider = provider
	cfg.Relay.Model = DefaultModel(provider)

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// PromptTopic asks for a blog topic.
func PromptTopic() (string, error) {
	p := promptui.Prompt{
		Label: "Blog topic",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("topic is required")
			}
			return nil
		},
	}
	topic, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("topic: %w", err)
	}
	return topic, nil
}

// PromptTone asks the user to pick a tone, starting on def.
func PromptTone(def Tone) (Tone, error) {
	cursor := 0
	for i, t := range Tones {
		if t == def {
			cursor = i
		}
	}
	p := promptui.Select{
		Label:     "Tone",
		Items:     Tones,
		CursorPos: cursor,
	}
	idx, _, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("tone selection: %w", err)
	}
	return Tones[idx], nil
}

// PromptLength asks for an approximate word count.
func PromptLength(def string) (string, error) {
	p := promptui.Prompt{
		Label:   "Approximate length in words",
		Default: def,
		Validate: func(s string) error {
			if !ValidLength(s) {
				return errors.New("length must be a positive number")
			}
			return nil
		},
	}
	length, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("length: %w", err)
	}
	return strings.TrimSpace(length), nil
}

// SplitAndTrim splits a comma-separated string and drops empty entries.
func SplitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
