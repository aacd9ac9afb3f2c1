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


package shikipilot

import (
	"errors"
	"log/slog"

	"github.com/Semara-26/shiki-pilot/ai"
	"github.com/Semara-26/shiki-pilot/catalog"
	"github.com/Semara-26/shiki-pilot/chat"
	"github.com/Semara-26/shiki-pilot/retrieval"
	"github.com/Semara-26/shiki-pilot/storage"
	"github.com/Semara-26/shiki-pilot/storage/badger"
)

// ErrProviderRequired is returned when Open is called without an AI provider.
var ErrProviderRequired = errors.New("ai provider is required")

// Pilot bundles the storage backend, repositories and AI provider into a
// single handle for embedding the assistant as a library.
type Pilot struct {
	backend     *badger.Backend
	storeRepo   storage.StoreRepository
	productRepo storage.ProductRepository
	chatRepo    storage.ChatRepository
	provider    ai.AIProvider
	logger      *slog.Logger
}

// PilotOption configures a Pilot.
type PilotOption func(*pilotOptions)

type pilotOptions struct {
	inMemory bool
}

// WithInMemory keeps all data in memory. Used for tests and throwaway runs.
func WithInMemory() PilotOption {
	return func(o *pilotOptions) {
		o.inMemory = true
	}
}

// Open opens the database at filePath and wires the repository set on top of
// it. The caller supplies the AI provider and keeps ownership of nothing: Close
// releases the provider along with the storage.
func Open(filePath string, provider ai.AIProvider, opts ...PilotOption) (*Pilot, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}

	options := &pilotOptions{}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	storeRepo, err := badger.NewStoreRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	productRepo, err := badger.NewProductRepository(backend)
	if err != nil {
		storeRepo.Close()
		backend.Close()
		return nil, err
	}

	chatRepo, err := badger.NewChatRepository(backend)
	if err != nil {
		productRepo.Close()
		storeRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Pilot{
		backend:     backend,
		storeRepo:   storeRepo,
		productRepo: productRepo,
		chatRepo:    chatRepo,
		provider:    provider,
		logger:      slog.Default(),
	}, nil
}

func (p *Pilot) Close() error {
	if err := p.provider.Close(); err != nil {
		p.logger.Error("error closing AI provider", "err", err)
	}

	if err := p.chatRepo.Close(); err != nil {
		p.logger.Error("error closing chat repository", "err", err)
		return err
	}
	if err := p.productRepo.Close(); err != nil {
		p.logger.Error("error closing product repository", "err", err)
		return err
	}
	if err := p.storeRepo.Close(); err != nil {
		p.logger.Error("error closing store repository", "err", err)
		return err
	}

	if err := p.backend.Close(); err != nil {
		p.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (p *Pilot) StoreRepository() storage.StoreRepository {
	return p.storeRepo
}

func (p *Pilot) ProductRepository() storage.ProductRepository {
	return p.productRepo
}

func (p *Pilot) ChatRepository() storage.ChatRepository {
	return p.chatRepo
}

// NewCatalogService builds the catalog write path over this Pilot's storage.
func (p *Pilot) NewCatalogService(opts ...catalog.Option) (*catalog.Service, error) {
	return catalog.NewService(p.storeRepo, p.productRepo, p.provider.Embedder(), opts...)
}

// NewSessionManager builds the chat session layer over this Pilot's storage.
func (p *Pilot) NewSessionManager(opts ...chat.SessionOption) (*chat.SessionManager, error) {
	return chat.NewSessionManager(p.storeRepo, p.chatRepo, opts...)
}

// NewOrchestrator wires retrieval, sessions and the chat model into the
// streaming answer pipeline.
func (p *Pilot) NewOrchestrator(opts ...chat.OrchestratorOption) (*chat.Orchestrator, error) {
	sessions, err := p.NewSessionManager()
	if err != nil {
		return nil, err
	}

	retriever, err := retrieval.NewRetriever(p.productRepo, p.provider.Embedder())
	if err != nil {
		return nil, err
	}

	return chat.NewOrchestrator(sessions, retriever, p.provider.ChatModel(), opts...)
}
