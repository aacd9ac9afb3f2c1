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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/Semara-26/shiki-pilot/ai"
	"github.com/Semara-26/shiki-pilot/ai/googleai"
	"github.com/Semara-26/shiki-pilot/catalog"
	"github.com/Semara-26/shiki-pilot/chat"
	"github.com/Semara-26/shiki-pilot/config"
	"github.com/Semara-26/shiki-pilot/reembed"
	"github.com/Semara-26/shiki-pilot/retrieval"
	"github.com/Semara-26/shiki-pilot/server"
	"github.com/Semara-26/shiki-pilot/storage"
	"github.com/Semara-26/shiki-pilot/storage/badger"
	"github.com/Semara-26/shiki-pilot/storage/postgres"
)

func main() {
	app := &cli.App{
		Name:  "shikipilot",
		Usage: "Inventory and catalog assistant backend for small stores",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				Value:   "shikipilot.yaml",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serveCommand,
			},
			{
				Name:   "reembed",
				Usage:  "Backfill product embeddings across all stores",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Reembed every product, not just those without a vector",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of products embedded per API call",
						Value: 50,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of batches processed concurrently",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N products",
						Value: 50,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	stores, products, chats, closeStorage, err := openRepositories(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer closeStorage()

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	catalogService, err := catalog.NewService(stores, products, provider.Embedder())
	if err != nil {
		return fmt.Errorf("failed to create catalog service: %w", err)
	}

	sessions, err := chat.NewSessionManager(stores, chats)
	if err != nil {
		return fmt.Errorf("failed to create session manager: %w", err)
	}

	retriever, err := retrieval.NewRetriever(products, provider.Embedder())
	if err != nil {
		return fmt.Errorf("failed to create retriever: %w", err)
	}

	answers, err := chat.NewOrchestrator(sessions, retriever, provider.ChatModel())
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	srv, err := server.New(catalogService, sessions, answers, stores, products,
		server.WithTokens(cfg.Server.Tokens))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	slog.Info("starting server", "addr", cfg.Server.Addr, "storage", cfg.Storage.Type)
	return srv.Run(ctx, cfg.Server.Addr)
}

func reembedCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	stores, products, _, closeStorage, err := openRepositories(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer closeStorage()

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		Workers:        c.Int("workers"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		All:            c.Bool("all"),
	}

	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder := reembed.NewReembedder(stores, products, provider.Embedder(), reembedConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Storage: %s\n", cfg.Storage.Type)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", cfg.AI.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}

	return nil
}

func loadConfig(c *cli.Context) (*config.AppConfig, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openRepositories builds the repository set for the configured backend.
// The returned closer releases the repositories and the backend beneath them.
func openRepositories(ctx context.Context, cfg *config.AppConfig) (storage.StoreRepository, storage.ProductRepository, storage.ChatRepository, func(), error) {
	switch cfg.Storage.Type {
	case "badger":
		backend, err := badger.OpenBackend(cfg.Storage.Badger.Path, cfg.Storage.Badger.InMemory)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		stores, err := badger.NewStoreRepository(backend)
		if err != nil {
			backend.Close()
			return nil, nil, nil, nil, err
		}
		products, err := badger.NewProductRepository(backend)
		if err != nil {
			stores.Close()
			backend.Close()
			return nil, nil, nil, nil, err
		}
		chats, err := badger.NewChatRepository(backend)
		if err != nil {
			products.Close()
			stores.Close()
			backend.Close()
			return nil, nil, nil, nil, err
		}
		closer := func() {
			chats.Close()
			products.Close()
			stores.Close()
			backend.Close()
		}
		return stores, products, chats, closer, nil

	case "postgres":
		backend, err := postgres.OpenBackend(ctx, cfg.Storage.Postgres.DSN)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		stores, err := postgres.NewStoreRepository(backend)
		if err != nil {
			backend.Close()
			return nil, nil, nil, nil, err
		}
		products, err := postgres.NewProductRepository(backend)
		if err != nil {
			backend.Close()
			return nil, nil, nil, nil, err
		}
		chats, err := postgres.NewChatRepository(backend)
		if err != nil {
			backend.Close()
			return nil, nil, nil, nil, err
		}
		closer := func() {
			backend.Close()
		}
		return stores, products, chats, closer, nil

	default:
		return nil, nil, nil, nil, fmt.Errorf("unsupported storage type %q", cfg.Storage.Type)
	}
}

func newProvider(ctx context.Context, cfg *config.AppConfig) (ai.AIProvider, error) {
	apiKey := os.Getenv(cfg.AI.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("environment variable %s is not set", cfg.AI.APIKeyEnv)
	}

	aiConfig := ai.NewConfig(
		ai.WithAPIKey(apiKey),
		ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
		ai.WithChatModel(cfg.AI.ChatModel),
		ai.WithEmbedTimeout(time.Duration(cfg.AI.EmbedTimeoutSecs)*time.Second),
		ai.WithGenerateTimeout(time.Duration(cfg.AI.GenerateTimeoutSecs)*time.Second),
	)

	return googleai.NewProvider(ctx, aiConfig)
}

func setup(c *cli.Context) error {
	// Local development keeps the API key in a .env file. Absence is fine.
	_ = godotenv.Load()

	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
