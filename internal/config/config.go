// Package config loads and persists askdocs settings from a TOML file
// in the user's config directory (~/.askdocs/config.toml by default).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Provider names accepted in the [embedding] and [llm] sections.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderNone   = "none"
)

// Config holds all askdocs settings.
type Config struct {
	Chunking  ChunkingConfig  `toml:"chunking"`
	Embedding EmbeddingConfig `toml:"embedding"`
	LLM       LLMConfig       `toml:"llm"`
	Watch     WatchConfig     `toml:"watch"`
}

// ChunkingConfig controls how documents are split.
type ChunkingConfig struct {
	ChunkSize int `toml:"chunk_size"`
	Overlap   int `toml:"overlap"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider          string  `toml:"provider"`
	Model             string  `toml:"model"`
	BaseURL           string  `toml:"base_url"`
	APIKey            string  `toml:"api_key"`
	Dimensions        int     `toml:"dimensions"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// LLMConfig selects and configures the completion provider.
type LLMConfig struct {
	Provider          string  `toml:"provider"`
	Model             string  `toml:"model"`
	BaseURL           string  `toml:"base_url"`
	APIKey            string  `toml:"api_key"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// WatchConfig configures the directory ingest watcher.
type WatchConfig struct {
	Dir        string   `toml:"dir"`
	Extensions []string `toml:"extensions"`
}

// Default returns the configuration used when no file exists.
// Providers default to "none" so a fresh install works fully offline
// on the lexical path.
func Default() Config {
	return Config{
		Chunking: ChunkingConfig{
			ChunkSize: 500,
			Overlap:   50,
		},
		Embedding: EmbeddingConfig{
			Provider:          ProviderNone,
			Model:             "nomic-embed-text",
			BaseURL:           "http://localhost:11434",
			Dimensions:        768,
			RequestsPerSecond: 10,
		},
		LLM: LLMConfig{
			Provider:          ProviderNone,
			Model:             "gpt-4o-mini",
			RequestsPerSecond: 2,
		},
		Watch: WatchConfig{
			Extensions: []string{".txt", ".md", ".pdf"},
		},
	}
}

// DefaultDir returns ~/.askdocs.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".askdocs"), nil
}

// Load reads the config file from dir, applying defaults for anything
// unset. A missing file is not an error; the defaults are returned.
func Load(dir string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to dir/config.toml, creating dir as needed.
// Written with restricted permissions since it can hold API keys.
func Save(dir string, cfg Config) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "config.toml"), data, 0600)
}
