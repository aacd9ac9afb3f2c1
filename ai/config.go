// Copyright 2025 ShikiPilot
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"time"
)

// Config holds configuration for AI service providers.
type Config struct {
	// APIKey authenticates against the model service.
	APIKey string

	// EmbeddingModel is the model identifier for text embeddings.
	// Example: "gemini-embedding-001"
	EmbeddingModel string

	// ChatModel is the model identifier for answer generation.
	// Example: "gemini-flash-latest"
	ChatModel string

	// EmbedTimeout bounds a single embedding call.
	// Default: 15s
	EmbedTimeout time.Duration

	// GenerateTimeout bounds a single generation call, including streaming.
	// Default: 2m
	GenerateTimeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAPIKey sets the model service API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithChatModel sets the generative model identifier.
func WithChatModel(model string) ConfigOption {
	return func(c *Config) {
		c.ChatModel = model
	}
}

// WithEmbedTimeout sets the embedding call timeout.
func WithEmbedTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.EmbedTimeout = d
	}
}

// WithGenerateTimeout sets the generation call timeout.
func WithGenerateTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.GenerateTimeout = d
	}
}

// DefaultConfig returns a Config with the models the assistant ships with.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingModel:  "gemini-embedding-001",
		ChatModel:       "gemini-flash-latest",
		EmbedTimeout:    15 * time.Second,
		GenerateTimeout: 2 * time.Minute,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithAPIKey(os.Getenv("GOOGLE_API_KEY")),
//	    ai.WithChatModel("gemini-flash-latest"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("ai config: APIKey is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.ChatModel == "" {
		return errors.New("ai config: ChatModel is required")
	}
	if c.EmbedTimeout <= 0 {
		return errors.New("ai config: EmbedTimeout must be positive")
	}
	if c.GenerateTimeout <= 0 {
		return errors.New("ai config: GenerateTimeout must be positive")
	}
	return nil
}
