package model

import "time"

// Config is the complete sigil configuration, loadable from
// ~/.sigil/config.yaml, SIGIL_* environment variables and CLI flags.
type Config struct {
	Digest       DigestConfig       `json:"digest" yaml:"digest" mapstructure:"digest"`
	Segmentation SegmentationConfig `json:"segmentation" yaml:"segmentation" mapstructure:"segmentation"`
	Analysis     AnalysisConfig     `json:"analysis" yaml:"analysis" mapstructure:"analysis"`
	Providers    ProvidersConfig    `json:"providers" yaml:"providers" mapstructure:"providers"`
	Concurrency  ConcurrencyConfig  `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`
	Output       OutputConfig       `json:"output" yaml:"output" mapstructure:"output"`
}

// DigestConfig selects the one-way hash used for leaf and node hashing.
type DigestConfig struct {
	Algorithm string `json:"algorithm" yaml:"algorithm" mapstructure:"algorithm"` // "sha256" or "blake3"
}

// SegmentationConfig holds segment-extraction boundary defaults.
type SegmentationConfig struct {
	SegmentSeconds float64 `json:"segment_seconds" yaml:"segment_seconds" mapstructure:"segment_seconds"`
	UnitSizeBytes  int64   `json:"unit_size_bytes" yaml:"unit_size_bytes" mapstructure:"unit_size_bytes"`
}

// AnalysisConfig tunes the provider fan-out.
type AnalysisConfig struct {
	Providers       []string      `json:"providers" yaml:"providers" mapstructure:"providers"`
	ProviderTimeout time.Duration `json:"provider_timeout" yaml:"provider_timeout" mapstructure:"provider_timeout"`
	RatePerSecond   float64       `json:"rate_per_second" yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst       int           `json:"rate_burst" yaml:"rate_burst" mapstructure:"rate_burst"`
	RecordTTL       time.Duration `json:"record_ttl" yaml:"record_ttl" mapstructure:"record_ttl"`
}

// ProvidersConfig configures the concrete anomaly-detection clients.
type ProvidersConfig struct {
	OpenAI OpenAIConfig `json:"openai" yaml:"openai" mapstructure:"openai"`
	Remote RemoteConfig `json:"remote" yaml:"remote" mapstructure:"remote"`
}

// OpenAIConfig configures the model-backed provider.
type OpenAIConfig struct {
	APIKey    string `json:"-" yaml:"api_key,omitempty" mapstructure:"api_key"`
	Model     string `json:"model" yaml:"model" mapstructure:"model"`
	BaseURL   string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
	MaxTokens int    `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`
}

// RemoteConfig configures the external detection-service provider.
type RemoteConfig struct {
	BaseURL        string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// ConcurrencyConfig bounds parallelism for batch operations.
type ConcurrencyConfig struct {
	BatchWorkers int `json:"batch_workers" yaml:"batch_workers" mapstructure:"batch_workers"`
}

// OutputConfig controls CLI output behavior.
type OutputConfig struct {
	Verbose bool `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Digest: DigestConfig{Algorithm: "sha256"},
		Segmentation: SegmentationConfig{
			SegmentSeconds: 5,
			UnitSizeBytes:  4096,
		},
		Analysis: AnalysisConfig{
			Providers:       []string{"mock"},
			ProviderTimeout: 30 * time.Second,
			RatePerSecond:   5,
			RateBurst:       5,
			RecordTTL:       24 * time.Hour,
		},
		Providers: ProvidersConfig{
			OpenAI: OpenAIConfig{Model: "gpt-4o-mini", MaxTokens: 500},
			Remote: RemoteConfig{BaseURL: "http://localhost:8489", TimeoutSeconds: 30},
		},
		Concurrency: ConcurrencyConfig{BatchWorkers: 4},
		Output:      OutputConfig{},
	}
}
