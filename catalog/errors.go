package catalog

import "errors"

var (
	// ErrStoreRepositoryRequired is returned when no store repository is provided.
	ErrStoreRepositoryRequired = errors.New("store repository is required")

	// ErrProductRepositoryRequired is returned when no product repository is provided.
	ErrProductRepositoryRequired = errors.New("product repository is required")

	// ErrEmbedderRequired is returned when no embedder is provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrStoreExists is returned when the owner already has a store.
	ErrStoreExists = errors.New("owner already has a store")

	// ErrProductNotOwned is returned when a product belongs to another store.
	ErrProductNotOwned = errors.New("product belongs to another store")
)
