package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`

	// Tokens maps API bearer tokens to the owner identity they act as.
	// Empty means every request is rejected.
	Tokens map[string]string `yaml:"tokens,omitempty"`
}

// BadgerConfig contains settings for the embedded Badger backend.
type BadgerConfig struct {
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory,omitempty"`
}

// PostgresConfig contains connection details for the PostgreSQL backend.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// StorageConfig selects and configures the storage backend.
type StorageConfig struct {
	Type     string          `yaml:"type"`
	Badger   *BadgerConfig   `yaml:"badger,omitempty"`
	Postgres *PostgresConfig `yaml:"postgres,omitempty"`
}

// AIConfig configures the Google AI provider.
type AIConfig struct {
	// APIKeyEnv names the environment variable holding the API key.
	// The key itself never lives in the config file.
	APIKeyEnv           string `yaml:"api_key_env"`
	EmbeddingModel      string `yaml:"embedding_model"`
	ChatModel           string `yaml:"chat_model"`
	EmbedTimeoutSecs    int    `yaml:"embed_timeout_secs"`
	GenerateTimeoutSecs int    `yaml:"generate_timeout_secs"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	AI      AIConfig      `yaml:"ai"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks that the config is internally consistent.
func (c *AppConfig) Validate() error {
	switch c.Storage.Type {
	case "badger":
		if c.Storage.Badger == nil || (c.Storage.Badger.Path == "" && !c.Storage.Badger.InMemory) {
			return fmt.Errorf("storage.badger.path is required")
		}
	case "postgres":
		if c.Storage.Postgres == nil || c.Storage.Postgres.DSN == "" {
			return fmt.Errorf("storage.postgres.dsn is required")
		}
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}
	if c.AI.APIKeyEnv == "" {
		return fmt.Errorf("ai.api_key_env is required")
	}
	return nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{Addr: ":8080"},
		Storage: StorageConfig{
			Type:   "badger",
			Badger: &BadgerConfig{Path: "shikipilot.db"},
		},
		AI: AIConfig{
			APIKeyEnv:           "GOOGLE_API_KEY",
			EmbeddingModel:      "gemini-embedding-001",
			ChatModel:           "gemini-flash-latest",
			EmbedTimeoutSecs:    15,
			GenerateTimeoutSecs: 120,
		},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "badger"
	}
	if cfg.Storage.Type == "badger" && cfg.Storage.Badger == nil {
		cfg.Storage.Badger = &BadgerConfig{Path: "shikipilot.db"}
	}
	if cfg.AI.APIKeyEnv == "" {
		cfg.AI.APIKeyEnv = "GOOGLE_API_KEY"
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = "gemini-embedding-001"
	}
	if cfg.AI.ChatModel == "" {
		cfg.AI.ChatModel = "gemini-flash-latest"
	}
	if cfg.AI.EmbedTimeoutSecs == 0 {
		cfg.AI.EmbedTimeoutSecs = 15
	}
	if cfg.AI.GenerateTimeoutSecs == 0 {
		cfg.AI.GenerateTimeoutSecs = 120
	}
}
