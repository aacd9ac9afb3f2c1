package postgres

import (
	"context"

	"github.com/Semara-26/shiki-pilot/core"
	"github.com/Semara-26/shiki-pilot/storage"
)

// StoreRepository implements storage.StoreRepository on PostgreSQL.
type StoreRepository struct {
	backend *Backend
}

var _ storage.StoreRepository = (*StoreRepository)(nil)

// NewStoreRepository creates a new StoreRepository.
func NewStoreRepository(backend *Backend) (*StoreRepository, error) {
	return &StoreRepository{backend: backend}, nil
}

// Close is a no-op; the shared pool is owned by the backend.
func (r *StoreRepository) Close() error {
	return nil
}

// CreateStore inserts a store. Owner and slug uniqueness are enforced by
// the table constraints.
func (r *StoreRepository) CreateStore(ctx context.Context, store *core.Store) (*core.Store, error) {
	row := r.backend.pool.QueryRow(ctx, `
		INSERT INTO stores (owner_id, name, slug, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, store.OwnerID, store.Name, store.Slug, store.Description)

	if err := row.Scan(&store.Id, &store.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return store, nil
}

// UpdateStore updates the mutable fields of a store.
func (r *StoreRepository) UpdateStore(ctx context.Context, store *core.Store) (*core.Store, error) {
	tag, err := r.backend.pool.Exec(ctx, `
		UPDATE stores SET name = $2, description = $3 WHERE id = $1
	`, store.Id, store.Name, store.Description)
	if err != nil {
		return nil, mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, storage.ErrNotFound
	}
	return r.GetStore(ctx, store.Id)
}

// GetStore retrieves a store by ID.
func (r *StoreRepository) GetStore(ctx context.Context, id core.ID) (*core.Store, error) {
	return r.queryOne(ctx, `WHERE id = $1`, id)
}

// GetStoreByOwner retrieves the store owned by the given user.
func (r *StoreRepository) GetStoreByOwner(ctx context.Context, ownerID string) (*core.Store, error) {
	return r.queryOne(ctx, `WHERE owner_id = $1`, ownerID)
}

// GetStoreBySlug retrieves a store by its public slug.
func (r *StoreRepository) GetStoreBySlug(ctx context.Context, slug string) (*core.Store, error) {
	return r.queryOne(ctx, `WHERE slug = $1`, slug)
}

// ListStores returns all stores in creation order.
func (r *StoreRepository) ListStores(ctx context.Context) ([]*core.Store, error) {
	rows, err := r.backend.pool.Query(ctx, `
		SELECT id, owner_id, name, slug, description, created_at
		FROM stores ORDER BY id
	`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var results []*core.Store
	for rows.Next() {
		store := &core.Store{}
		if err := rows.Scan(&store.Id, &store.OwnerID, &store.Name, &store.Slug, &store.Description, &store.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, store)
	}
	return results, rows.Err()
}

func (r *StoreRepository) queryOne(ctx context.Context, where string, arg any) (*core.Store, error) {
	store := &core.Store{}
	row := r.backend.pool.QueryRow(ctx, `
		SELECT id, owner_id, name, slug, description, created_at
		FROM stores `+where, arg)
	if err := row.Scan(&store.Id, &store.OwnerID, &store.Name, &store.Slug, &store.Description, &store.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return store, nil
}
