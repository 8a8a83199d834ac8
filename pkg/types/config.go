package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "psi-audit/0.1"). Per prd002-scoring R5.3.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScoringConfig holds settings for the scoring stage.
// Per prd002-scoring R5.1-R5.3, prd003-batch R3.1.
type ScoringConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the PageSpeed Insights API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// CallDelay is the unconditional pause after every scoring call
	// (default 800ms), applied on success and failure alike.
	CallDelay time.Duration `json:"call_delay" yaml:"call_delay"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxTokens bounds the length of the model's reply (default 1024).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature controls sampling randomness (default 0.2).
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// AdviceConfig holds settings for the remediation-advice stage.
// Per prd005-advice R4.1-R4.3.
type AdviceConfig struct {
	AIConfig `yaml:",inline"`

	// Timeout is the advisory request timeout, deliberately shorter than
	// the scoring timeout (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// SessionConfig holds settings for the session persistence stage.
// Per prd004-session R1.1.
type SessionConfig struct {
	// DataDir is the directory holding the session database (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Scoring ScoringConfig `json:"scoring" yaml:"scoring"`
	Advice  AdviceConfig  `json:"advice" yaml:"advice"`
	Session SessionConfig `json:"session" yaml:"session"`
}
