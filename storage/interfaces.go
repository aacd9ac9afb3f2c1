package storage

import (
	"context"

	"github.com/Semara-26/shiki-pilot/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Close closes the repository and releases resources.
	Close() error
}

// StoreRepository provides operations for managing stores.
type StoreRepository interface {
	Repository

	// CreateStore adds a store. At most one store may exist per owner
	// identity and slugs are unique; a violation of either returns
	// ErrDuplicateKey. Returns the store with ID and CreatedAt populated.
	CreateStore(ctx context.Context, store *core.Store) (*core.Store, error)

	// UpdateStore updates the mutable store fields (name, description).
	// Returns ErrNotFound if the store doesn't exist.
	UpdateStore(ctx context.Context, store *core.Store) (*core.Store, error)

	// GetStore retrieves a store by ID.
	// Returns ErrNotFound if the store doesn't exist.
	GetStore(ctx context.Context, id core.ID) (*core.Store, error)

	// GetStoreByOwner retrieves the store belonging to an owner identity.
	// Returns ErrNotFound if the owner has no store yet.
	GetStoreByOwner(ctx context.Context, ownerID string) (*core.Store, error)

	// GetStoreBySlug retrieves a store by its unique slug.
	// Returns ErrNotFound if no store has the slug.
	GetStoreBySlug(ctx context.Context, slug string) (*core.Store, error)

	// ListStores returns all stores in storage order.
	ListStores(ctx context.Context) ([]*core.Store, error)
}

// ProductRepository provides operations for managing the catalog.
type ProductRepository interface {
	Repository

	// AddProduct adds a product to a store's catalog.
	// Returns the product with ID and CreatedAt populated.
	AddProduct(ctx context.Context, product *core.Product) (*core.Product, error)

	// UpdateProduct replaces an existing product, embedding included,
	// as one atomic write. Returns ErrNotFound if the product doesn't exist.
	UpdateProduct(ctx context.Context, product *core.Product) (*core.Product, error)

	// SetEmbedding atomically replaces one product's embedding vector.
	// Returns ErrNotFound if the product doesn't exist.
	SetEmbedding(ctx context.Context, id core.ID, vector []float32) error

	// GetProduct retrieves a product by ID.
	// Returns ErrNotFound if the product doesn't exist.
	GetProduct(ctx context.Context, id core.ID) (*core.Product, error)

	// ListProducts returns all products of one store in creation order.
	ListProducts(ctx context.Context, storeID core.ID) ([]*core.Product, error)

	// CountProducts returns the number of products in one store's catalog,
	// with or without embeddings.
	CountProducts(ctx context.Context, storeID core.ID) (int, error)

	// RankByDistance returns up to limit products of the given store that
	// carry an embedding, ordered by ascending cosine distance to the query
	// vector. Products of other stores are never returned. Equal distances
	// keep creation order. An empty result is not an error.
	RankByDistance(ctx context.Context, storeID core.ID, vector []float32, limit int) ([]*core.RankedProduct, error)
}

// ChatRepository provides operations for the single conversation thread of
// each store and its message log.
type ChatRepository interface {
	Repository

	// GetOrCreateChat returns the store's chat, creating it if absent.
	// Safe under concurrent invocation for the same store: the uniqueness
	// invariant (one chat per store) holds even when two calls race.
	GetOrCreateChat(ctx context.Context, storeID core.ID) (*core.Chat, error)

	// GetChat retrieves a chat by ID.
	// Returns ErrNotFound if the chat doesn't exist.
	GetChat(ctx context.Context, id core.ID) (*core.Chat, error)

	// AppendMessage appends one message to a chat as a single atomic insert.
	// Returns the message with ID and CreatedAt populated.
	AppendMessage(ctx context.Context, message *core.Message) (*core.Message, error)

	// GetMessages returns all messages of a chat ordered by creation time
	// ascending.
	GetMessages(ctx context.Context, chatID core.ID) ([]*core.Message, error)
}
