package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Semara-26/shiki-pilot/core"
	"github.com/Semara-26/shiki-pilot/storage"
)

// ProductRepository implements storage.ProductRepository on PostgreSQL,
// using pgvector for similarity ranking.
type ProductRepository struct {
	backend *Backend
}

var _ storage.ProductRepository = (*ProductRepository)(nil)

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(backend *Backend) (*ProductRepository, error) {
	return &ProductRepository{backend: backend}, nil
}

// Close is a no-op; the shared pool is owned by the backend.
func (r *ProductRepository) Close() error {
	return nil
}

// AddProduct adds a product to a store's catalog.
func (r *ProductRepository) AddProduct(ctx context.Context, product *core.Product) (*core.Product, error) {
	row := r.backend.pool.QueryRow(ctx, `
		INSERT INTO products (store_id, name, price, stock, description, embedding)
		VALUES ($1, $2, $3, $4, $5, $6::vector)
		RETURNING id, created_at
	`, product.StoreId, product.Name, product.Price, product.Stock, product.Description, vectorParam(product.Embedding))

	if err := row.Scan(&product.Id, &product.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return product, nil
}

// UpdateProduct replaces the mutable fields and embedding of a product as
// one statement. Store ownership and creation time never change.
func (r *ProductRepository) UpdateProduct(ctx context.Context, product *core.Product) (*core.Product, error) {
	tag, err := r.backend.pool.Exec(ctx, `
		UPDATE products
		SET name = $2, price = $3, stock = $4, description = $5, embedding = $6::vector
		WHERE id = $1
	`, product.Id, product.Name, product.Price, product.Stock, product.Description, vectorParam(product.Embedding))
	if err != nil {
		return nil, mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, storage.ErrNotFound
	}
	return r.GetProduct(ctx, product.Id)
}

// SetEmbedding atomically replaces one product's embedding vector.
func (r *ProductRepository) SetEmbedding(ctx context.Context, id core.ID, vector []float32) error {
	tag, err := r.backend.pool.Exec(ctx, `
		UPDATE products SET embedding = $2::vector WHERE id = $1
	`, id, vectorParam(vector))
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetProduct retrieves a product by ID.
func (r *ProductRepository) GetProduct(ctx context.Context, id core.ID) (*core.Product, error) {
	product := &core.Product{}
	var embedding *string
	row := r.backend.pool.QueryRow(ctx, `
		SELECT id, store_id, name, price, stock, description, embedding::text, created_at
		FROM products WHERE id = $1
	`, id)
	if err := row.Scan(&product.Id, &product.StoreId, &product.Name, &product.Price, &product.Stock, &product.Description, &embedding, &product.CreatedAt); err != nil {
		return nil, mapError(err)
	}

	vec, err := parseVector(embedding)
	if err != nil {
		return nil, err
	}
	product.Embedding = vec
	return product, nil
}

// ListProducts returns all products of one store in creation order.
func (r *ProductRepository) ListProducts(ctx context.Context, storeID core.ID) ([]*core.Product, error) {
	rows, err := r.backend.pool.Query(ctx, `
		SELECT id, store_id, name, price, stock, description, embedding::text, created_at
		FROM products WHERE store_id = $1 ORDER BY id
	`, storeID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var results []*core.Product
	for rows.Next() {
		product := &core.Product{}
		var embedding *string
		if err := rows.Scan(&product.Id, &product.StoreId, &product.Name, &product.Price, &product.Stock, &product.Description, &embedding, &product.CreatedAt); err != nil {
			return nil, err
		}
		vec, err := parseVector(embedding)
		if err != nil {
			return nil, err
		}
		product.Embedding = vec
		results = append(results, product)
	}
	return results, rows.Err()
}

// CountProducts returns the catalog size of one store.
func (r *ProductRepository) CountProducts(ctx context.Context, storeID core.ID) (int, error) {
	var count int
	err := r.backend.pool.QueryRow(ctx, `
		SELECT count(*) FROM products WHERE store_id = $1
	`, storeID).Scan(&count)
	return count, mapError(err)
}

// RankByDistance returns up to limit of the store's embedded products in
// ascending cosine distance order. Ties break on insertion order so repeated
// calls return the same ranking.
func (r *ProductRepository) RankByDistance(ctx context.Context, storeID core.ID, vector []float32, limit int) ([]*core.RankedProduct, error) {
	rows, err := r.backend.pool.Query(ctx, `
		SELECT id, store_id, name, price, stock, description, embedding::text, created_at,
		       embedding <=> $2::vector AS distance
		FROM products
		WHERE store_id = $1 AND embedding IS NOT NULL
		ORDER BY distance, id
		LIMIT $3
	`, storeID, formatVector(vector), limit)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var results []*core.RankedProduct
	for rows.Next() {
		product := &core.Product{}
		var embedding *string
		var distance float64
		if err := rows.Scan(&product.Id, &product.StoreId, &product.Name, &product.Price, &product.Stock, &product.Description, &embedding, &product.CreatedAt, &distance); err != nil {
			return nil, err
		}
		vec, err := parseVector(embedding)
		if err != nil {
			return nil, err
		}
		product.Embedding = vec
		results = append(results, &core.RankedProduct{Product: product, Distance: float32(distance)})
	}
	return results, rows.Err()
}

// formatVector renders a vector in pgvector's text format.
func formatVector(vector []float32) string {
	parts := make([]string, len(vector))
	for i, f := range vector {
		parts[i] = strconv.FormatFloat(float64(f), 'f', -1, 32)
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ","))
}

// vectorParam converts an optional embedding for an insert or update,
// preserving NULL for products that have no vector yet.
func vectorParam(vector []float32) *string {
	if len(vector) == 0 {
		return nil
	}
	s := formatVector(vector)
	return &s
}

// parseVector parses pgvector's text format, mapping NULL to nil.
func parseVector(text *string) ([]float32, error) {
	if text == nil {
		return nil, nil
	}
	trimmed := strings.Trim(*text, "[]")
	if trimmed == "" {
		return nil, nil
	}

	parts := strings.Split(trimmed, ",")
	vector := make([]float32, len(parts))
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("%w: bad vector element %q", storage.ErrSerializationFailed, part)
		}
		vector[i] = float32(f)
	}
	return vector, nil
}
