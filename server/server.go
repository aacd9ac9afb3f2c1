package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Semara-26/shiki-pilot/catalog"
	"github.com/Semara-26/shiki-pilot/chat"
	"github.com/Semara-26/shiki-pilot/storage"
)

// Server is the HTTP surface over the catalog and chat services.
type Server struct {
	catalog  *catalog.Service
	sessions *chat.SessionManager
	answers  *chat.Orchestrator
	stores   storage.StoreRepository
	products storage.ProductRepository
	tokens   map[string]string
	logger   *slog.Logger
	engine   *gin.Engine
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithTokens sets the bearer token to owner identity mapping.
func WithTokens(tokens map[string]string) Option {
	return func(s *Server) error {
		s.tokens = tokens
		return nil
	}
}

// New creates the server and wires its routes.
func New(
	catalogService *catalog.Service,
	sessions *chat.SessionManager,
	answers *chat.Orchestrator,
	stores storage.StoreRepository,
	products storage.ProductRepository,
	opts ...Option,
) (*Server, error) {
	if catalogService == nil {
		return nil, ErrCatalogServiceRequired
	}
	if sessions == nil {
		return nil, ErrSessionManagerRequired
	}
	if answers == nil {
		return nil, ErrOrchestratorRequired
	}
	if stores == nil {
		return nil, ErrStoreRepositoryRequired
	}
	if products == nil {
		return nil, ErrProductRepositoryRequired
	}

	s := &Server{
		catalog:  catalogService,
		sessions: sessions,
		answers:  answers,
		stores:   stores,
		products: products,
		tokens:   map[string]string{},
		logger:   slog.Default().With("component", "server"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.SetTrustedProxies(nil)

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/api/v1")
	v1.Use(s.bearerAuth())
	{
		v1.POST("/store", s.createStore)

		owned := v1.Group("/")
		owned.Use(s.requireStore())
		{
			owned.GET("/store", s.getStore)
			owned.PUT("/store", s.updateStore)

			owned.GET("/products", s.listProducts)
			owned.POST("/products", s.createProduct)
			owned.PUT("/products/:id", s.updateProduct)

			owned.GET("/chat/history", s.chatHistory)
			owned.POST("/chat", s.chatStream)
		}
	}

	s.engine = engine
	return s, nil
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return srv.Shutdown(shutdownCtx)
}
