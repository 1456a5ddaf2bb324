// Package config loads the recall configuration file. The file is TOML,
// stored at ~/.recall/config.toml by default, and carries the data directory,
// embedding endpoint settings, pipeline tuning, and per-owner connector
// credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Embedding configures the inference endpoint used for embeddings.
type Embedding struct {
	// BaseURL is the inference API root. Empty uses the client default.
	BaseURL string `toml:"base_url"`

	// Model is the embedding model identifier.
	Model string `toml:"model"`

	// APIKey is the bearer token for the inference API.
	APIKey string `toml:"api_key"`

	// Dimensions is the expected vector size.
	Dimensions int `toml:"dimensions"`

	// QueryInstruction overrides the retrieval instruction prefix.
	QueryInstruction string `toml:"query_instruction"`

	// RequestsPerSecond caps the client-side request rate. Zero disables
	// the limiter.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Chunking tunes the text splitter.
type Chunking struct {
	ChunkSize int `toml:"chunk_size"`
	Overlap   int `toml:"overlap"`
}

// Upload tunes the background upload workers.
type Upload struct {
	Workers int `toml:"workers"`
}

// Retrieval tunes similarity search.
type Retrieval struct {
	TopK int `toml:"top_k"`
}

// Config is the full recall configuration.
type Config struct {
	// DataDir holds the SQLite database. Empty uses ~/.recall/data.
	DataDir string `toml:"data_dir"`

	Embedding Embedding `toml:"embedding"`
	Chunking  Chunking  `toml:"chunking"`
	Upload    Upload    `toml:"upload"`
	Retrieval Retrieval `toml:"retrieval"`

	// Credentials maps owner -> provider -> credential fields, e.g.
	//
	//   [credentials.alice.google_drive]
	//   access_token = "..."
	Credentials map[string]map[string]map[string]string `toml:"credentials"`
}

// DefaultPath returns the default configuration file location,
// ~/.recall/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".recall", "config.toml"), nil
}

// Load reads the configuration from path. An empty path uses DefaultPath. A
// missing file is not an error: every setting has a working default.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to path with restricted permissions, creating
// the parent directory when needed. Credentials live in this file, hence 0600.
func (c *Config) Save(path string) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
