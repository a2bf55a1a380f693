package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override. Nested keys use a
// double underscore: BLOGFORGE_RELAY__PORT sets relay.port.
const EnvPrefix = "BLOGFORGE_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (BLOGFORGE_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps BLOGFORGE_RELAY__CHUNK_DELAY_MS to relay.chunk_delay_ms.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
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

// ValidTone reports whether t is a supported tone.
func ValidTone(t Tone) bool {
	for _, v := range Tones {
		if v == t {
			return true
		}
	}
	return false
}

// ValidLength reports whether s is a positive integer word target.
func ValidLength(s string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil && n > 0
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	if !strings.HasPrefix(c.Endpoint, "ws://") && !strings.HasPrefix(c.Endpoint, "wss://") {
		return fmt.Errorf("invalid endpoint %q: must use ws:// or wss://", c.Endpoint)
	}
	if c.AppID == "" {
		return fmt.Errorf("app_id is required")
	}
	if !ValidTone(c.Tone) {
		return fmt.Errorf("invalid tone %q: must be one of %s", c.Tone, toneList())
	}
	if !ValidLength(c.Length) {
		return fmt.Errorf("invalid length %q: must be a positive number of words", c.Length)
	}

	if _, ok := relayModels[c.Relay.Provider]; !ok {
		return fmt.Errorf("invalid relay provider %q", c.Relay.Provider)
	}
	if c.Relay.Port <= 0 || c.Relay.Port > 65535 {
		return fmt.Errorf("relay port %d out of range", c.Relay.Port)
	}
	if c.Relay.RPM < 0 {
		return fmt.Errorf("relay rpm must be non-negative")
	}
	if c.Relay.ChunkDelayMS < 0 {
		return fmt.Errorf("relay chunk_delay_ms must be non-negative")
	}

	return nil
}

// DataPath returns the directory holding local state. An empty data_dir
// resolves to the XDG data home.
func (c *Config) DataPath() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return filepath.Join(xdg.DataHome, "blogforge")
}

// RelayModel returns the configured relay model or the provider default.
func (c *Config) RelayModel() string {
	if c.Relay.Model != "" {
		return c.Relay.Model
	}
	return DefaultModel(c.Relay.Provider)
}

func toneList() string {
	names := make([]string, len(Tones))
	for i, t := range Tones {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
