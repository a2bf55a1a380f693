package config

// Tone is the voice requested for a generated post.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneFriendly     Tone = "friendly"
	ToneFormal       Tone = "formal"
	ToneHumorous     Tone = "humorous"
	TonePersuasive   Tone = "persuasive"
)

// Tones lists every supported tone in display order.
var Tones = []Tone{
	ToneProfessional,
	ToneCasual,
	ToneFriendly,
	ToneFormal,
	ToneHumorous,
	TonePersuasive,
}

// Config is the top-level blogforge configuration, corresponding to .blogforge.yml.
type Config struct {
	Endpoint string      `yaml:"endpoint" koanf:"endpoint"`
	AppID    string      `yaml:"app_id" koanf:"app_id"`
	Tone     Tone        `yaml:"tone" koanf:"tone"`
	Length   string      `yaml:"length" koanf:"length"`
	DataDir  string      `yaml:"data_dir" koanf:"data_dir"`
	Relay    RelayConfig `yaml:"relay" koanf:"relay"`
}

// RelayConfig holds settings for the self-hosted generation service.
type RelayConfig struct {
	Provider     string   `yaml:"provider" koanf:"provider"`
	Model        string   `yaml:"model" koanf:"model"`
	Port         int      `yaml:"port" koanf:"port"`
	RPM          int      `yaml:"rpm" koanf:"rpm"`
	ChunkDelayMS int      `yaml:"chunk_delay_ms" koanf:"chunk_delay_ms"`
	AppIDs       []string `yaml:"app_ids" koanf:"app_ids"`
}
