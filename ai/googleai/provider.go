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


package googleai

import (
	"context"
	"log/slog"

	"github.com/Semara-26/shiki-pilot/ai"
	lcgoogleai "github.com/tmc/langchaingo/llms/googleai"
)

// Provider implements ai.AIProvider using Gemini models.
// It manages embedder and chat model instances over one shared client.
type Provider struct {
	config    *ai.Config
	embedder  *Embedder
	chatModel *ChatModel
	logger    *slog.Logger
}

// newClient builds the shared langchaingo Gemini client for a config.
func newClient(ctx context.Context, config *ai.Config) (*lcgoogleai.GoogleAI, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return lcgoogleai.New(ctx,
		lcgoogleai.WithAPIKey(config.APIKey),
		lcgoogleai.WithDefaultModel(config.ChatModel),
		lcgoogleai.WithDefaultEmbeddingModel(config.EmbeddingModel),
	)
}

// NewProvider creates a new AI provider backed by Gemini models.
// The config is validated before use.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to Gemini-specific implementation details.
func NewProvider(ctx context.Context, config *ai.Config) (ai.AIProvider, error) {
	client, err := newClient(ctx, config)
	if err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(client, config.EmbedTimeout)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:    config,
		embedder:  embedder,
		chatModel: newChatModel(client, config.GenerateTimeout),
		logger:    slog.Default().With("component", "googleai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// ChatModel returns the answer generation service.
func (p *Provider) ChatModel() ai.ChatModel {
	return p.chatModel
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying client doesn't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing googleai provider")
	return nil
}
