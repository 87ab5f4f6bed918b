// Package config loads the pipeline configuration from YAML or JSON5
// files, with $include composition and environment variable expansion.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration.
type Config struct {
	// DataDir holds the exported feedback pairs, one directory per
	// record.
	DataDir string `yaml:"data_dir"`

	Store      StoreConfig      `yaml:"store"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	Search     SearchConfig     `yaml:"search"`
	LLM        LLMConfig        `yaml:"llm"`
	Judge      JudgeConfig      `yaml:"judge"`
	Bench      BenchConfig      `yaml:"bench"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// StoreConfig locates the summary vector store.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// EmbeddingsConfig selects and configures the embedding backend.
type EmbeddingsConfig struct {
	// Provider is "openai" or "ollama".
	Provider  string `yaml:"provider"`
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	BatchSize int    `yaml:"batch_size"`
}

// SearchConfig tunes retrieval.
type SearchConfig struct {
	TopK      int     `yaml:"top_k"`
	Threshold float32 `yaml:"threshold"`
}

// LLMConfig selects the completion provider for answer generation.
type LLMConfig struct {
	// DefaultProvider is "openai", "groq", or "anthropic".
	DefaultProvider string                       `yaml:"default_provider"`
	Model           string                       `yaml:"model"`
	MaxTokens       int                          `yaml:"max_tokens"`
	Providers       map[string]LLMProviderConfig `yaml:"providers"`
}

// LLMProviderConfig holds per-provider credentials.
type LLMProviderConfig struct {
	APIKey       string `yaml:"api_key"`
	BaseURL      string `yaml:"base_url"`
	DefaultModel string `yaml:"default_model"`
}

// JudgeConfig configures the coherence judge.
type JudgeConfig struct {
	Enabled     *bool         `yaml:"enabled"`
	Model       string        `yaml:"model"`
	MaxTokens   int           `yaml:"max_tokens"`
	MaxRetries  int           `yaml:"max_retries"`
	RetryDelay  time.Duration `yaml:"retry_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
}

// On reports whether the judge should run. Defaults to true when the
// config leaves it unset.
func (j JudgeConfig) On() bool {
	return j.Enabled == nil || *j.Enabled
}

// BenchConfig configures benchmark runs.
type BenchConfig struct {
	Queries    []string      `yaml:"queries"`
	OutputPath string        `yaml:"output_path"`
	Pause      time.Duration `yaml:"pause"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a config with all defaults applied and no file loaded.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads path, resolves includes, expands environment variables, and
// applies defaults. An empty path returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := LoadRaw(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	cfg, err := decodeRawConfig(raw)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = ".verbatim/summaries.db"
	}
	if cfg.Embeddings.Provider == "" {
		cfg.Embeddings.Provider = "openai"
	}
	if cfg.Embeddings.BatchSize == 0 {
		cfg.Embeddings.BatchSize = 64
	}
	if cfg.Search.TopK == 0 {
		cfg.Search.TopK = 5
	}
	if cfg.LLM.DefaultProvider == "" {
		cfg.LLM.DefaultProvider = "openai"
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 1024
	}
	if cfg.Judge.Model == "" {
		cfg.Judge.Model = "gpt-4o"
	}
	if cfg.Judge.MaxTokens == 0 {
		cfg.Judge.MaxTokens = 256
	}
	if cfg.Judge.MaxRetries == 0 {
		cfg.Judge.MaxRetries = 3
	}
	if cfg.Judge.RetryDelay == 0 {
		cfg.Judge.RetryDelay = time.Second
	}
	if cfg.Judge.MaxDelay == 0 {
		cfg.Judge.MaxDelay = 30 * time.Second
	}
	if cfg.Bench.OutputPath == "" {
		cfg.Bench.OutputPath = "outputs/benchmark_results.json"
	}
	if cfg.Bench.Pause == 0 {
		cfg.Bench.Pause = 500 * time.Millisecond
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

// Provider returns the credentials block for the default provider.
func (c *Config) Provider() LLMProviderConfig {
	if c.LLM.Providers == nil {
		return LLMProviderConfig{}
	}
	return c.LLM.Providers[c.LLM.DefaultProvider]
}
