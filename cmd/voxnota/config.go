package main

import (
	"fmt"
	"os"

	"github.com/poiesic/voxnota/extract"
	"gopkg.in/yaml.v3"
)

// fileConfig is the optional YAML configuration file layout.
type fileConfig struct {
	// Database is the path to the SQLite database file.
	Database string `yaml:"database"`

	// KeywordLimit is the number of keywords kept per conversation.
	KeywordLimit int `yaml:"keyword_limit"`

	Embeddings struct {
		// Host is the OpenAI-compatible embedding service base URL.
		Host string `yaml:"host"`
		// Model is the embedding model identifier.
		Model string `yaml:"model"`
		// Disabled turns the embedding strategy off entirely.
		Disabled bool `yaml:"disabled"`
	} `yaml:"embeddings"`
}

func defaultFileConfig() *fileConfig {
	cfg := &fileConfig{
		Database:     "voxnota.sqlite",
		KeywordLimit: extract.DefaultKeywordLimit,
	}
	cfg.Embeddings.Host = "http://localhost:11434/v1"
	cfg.Embeddings.Model = "embeddinggemma"
	return cfg
}

// loadConfig reads the YAML config file at path, falling back to
// defaults for anything left unset. An empty path means defaults only.
func loadConfig(path string) (*fileConfig, error) {
	cfg := defaultFileConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.KeywordLimit < 1 {
		cfg.KeywordLimit = extract.DefaultKeywordLimit
	}
	return cfg, nil
}
