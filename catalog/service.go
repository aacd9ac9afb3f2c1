package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Semara-26/shiki-pilot/ai"
	"github.com/Semara-26/shiki-pilot/core"
	"github.com/Semara-26/shiki-pilot/retrieval"
	"github.com/Semara-26/shiki-pilot/storage"
)

// Service implements store and product writes.
type Service struct {
	stores   storage.StoreRepository
	products storage.ProductRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates a new catalog service.
func NewService(stores storage.StoreRepository, products storage.ProductRepository, embedder ai.Embedder, opts ...Option) (*Service, error) {
	if stores == nil {
		return nil, ErrStoreRepositoryRequired
	}
	if products == nil {
		return nil, ErrProductRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Service{
		stores:   stores,
		products: products,
		embedder: embedder,
		logger:   slog.Default().With("component", "catalog"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// CreateStore creates the owner's store. Each owner gets at most one; a
// second attempt returns ErrStoreExists. Slug collisions with other stores
// get a random suffix.
func (s *Service) CreateStore(ctx context.Context, ownerID, name, description string) (*core.Store, error) {
	store := &core.Store{
		OwnerID:     ownerID,
		Name:        name,
		Slug:        generateSlug(name),
		Description: description,
	}
	if err := core.ValidateStore(store); err != nil {
		return nil, err
	}

	if _, err := s.stores.GetStoreByOwner(ctx, ownerID); err == nil {
		return nil, ErrStoreExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	if _, err := s.stores.GetStoreBySlug(ctx, store.Slug); err == nil {
		store.Slug = fmt.Sprintf("%s-%s", store.Slug, randomSuffix())
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	created, err := s.stores.CreateStore(ctx, store)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			// Lost a race on the owner or slug key
			return nil, fmt.Errorf("%w: %w", ErrStoreExists, err)
		}
		return nil, err
	}

	s.logger.Info("Store created", "store_id", created.Id, "slug", created.Slug)
	return created, nil
}

// UpdateStoreInfo updates a store's name and description. The slug is
// fixed at creation so shared links keep working.
func (s *Service) UpdateStoreInfo(ctx context.Context, storeID core.ID, name, description string) (*core.Store, error) {
	store, err := s.stores.GetStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	store.Name = name
	store.Description = description
	if err := core.ValidateStore(store); err != nil {
		return nil, err
	}

	return s.stores.UpdateStore(ctx, store)
}

// ProductInput carries the writable fields of a product.
type ProductInput struct {
	Name        string
	Price       int64
	Stock       int64
	Description string
}

// AddProduct validates and saves a new product, embedding its description
// so it is immediately retrievable. If the embedding call fails the product
// is saved without a vector and logged for the reembed batch.
func (s *Service) AddProduct(ctx context.Context, storeID core.ID, input ProductInput) (*core.Product, error) {
	product := &core.Product{
		StoreId:     storeID,
		Name:        input.Name,
		Price:       input.Price,
		Stock:       input.Stock,
		Description: input.Description,
	}
	if err := core.ValidateProduct(product); err != nil {
		return nil, err
	}

	if _, err := s.stores.GetStore(ctx, storeID); err != nil {
		return nil, err
	}

	product.Embedding = s.embedDescription(ctx, product.Description)

	return s.products.AddProduct(ctx, product)
}

// UpdateProduct validates and saves changes to a product owned by the given
// store. The embedding is recomputed only when the description changed.
func (s *Service) UpdateProduct(ctx context.Context, storeID, productID core.ID, input ProductInput) (*core.Product, error) {
	existing, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if existing.StoreId != storeID {
		s.logger.Warn("Rejected cross-store product update",
			"store_id", storeID, "product_store_id", existing.StoreId)
		return nil, ErrProductNotOwned
	}

	updated := &core.Product{
		Id:          existing.Id,
		StoreId:     existing.StoreId,
		Name:        input.Name,
		Price:       input.Price,
		Stock:       input.Stock,
		Description: input.Description,
		Embedding:   existing.Embedding,
		CreatedAt:   existing.CreatedAt,
	}
	if err := core.ValidateProduct(updated); err != nil {
		return nil, err
	}

	if input.Description != existing.Description {
		updated.Embedding = s.embedDescription(ctx, input.Description)
	}

	return s.products.UpdateProduct(ctx, updated)
}

// embedDescription embeds a product description fitted to the index width.
// Returns nil when the embedding is unavailable.
func (s *Service) embedDescription(ctx context.Context, description string) []float32 {
	vector, err := s.embedder.EmbedText(ctx, description)
	if err != nil {
		s.logger.Warn("Embedding unavailable, product saved without vector", "error", err)
		return nil
	}
	if !retrieval.UsableVector(vector) {
		s.logger.Warn("Unusable embedding response, product saved without vector",
			"length", len(vector))
		return nil
	}
	return retrieval.FitDimension(vector)
}
