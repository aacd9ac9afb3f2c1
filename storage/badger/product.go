package badger

import (
	"context"
	"math"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/Semara-26/shiki-pilot/core"
	"github.com/Semara-26/shiki-pilot/storage"
)

// ProductRepository implements storage.ProductRepository for BadgerDB.
type ProductRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.ProductRepository = (*ProductRepository)(nil)

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(backend *Backend) (*ProductRepository, error) {
	idSeq, err := backend.GetSequence(productIDSeq)
	if err != nil {
		return nil, err
	}

	return &ProductRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *ProductRepository) Close() error {
	return r.idSeq.Release()
}

// AddProduct adds a product to a store's catalog.
func (r *ProductRepository) AddProduct(ctx context.Context, product *core.Product) (*core.Product, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		nextID, err := r.idSeq.Next()
		if err != nil {
			return err
		}
		// BadgerDB sequences can return 0 on first call, so we skip it
		if nextID == 0 {
			nextID, err = r.idSeq.Next()
			if err != nil {
				return err
			}
		}
		product.Id = core.ID(nextID)
		product.CreatedAt = time.Now().UTC()

		value := storage.MarshalProduct(product)
		if err := tx.Set(makeProductKey(product.Id), value); err != nil {
			return err
		}
		if err := tx.Set(makeProductStoreKey(product.StoreId, product.Id), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return product, err
}

// UpdateProduct replaces an existing product as one atomic write.
func (r *ProductRepository) UpdateProduct(ctx context.Context, product *core.Product) (*core.Product, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		old, err := r.readProduct(tx, makeProductKey(product.Id))
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		product.StoreId = old.StoreId
		product.CreatedAt = old.CreatedAt

		value := storage.MarshalProduct(product)
		if err := tx.Set(makeProductKey(product.Id), value); err != nil {
			return err
		}
		if err := tx.Set(makeProductStoreKey(product.StoreId, product.Id), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return product, err
}

// SetEmbedding atomically replaces one product's embedding vector.
func (r *ProductRepository) SetEmbedding(ctx context.Context, id core.ID, vector []float32) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		product, err := r.readProduct(tx, makeProductKey(id))
		if err != nil {
			return err
		}
		if product == nil {
			return storage.ErrNotFound
		}

		product.Embedding = vector

		value := storage.MarshalProduct(product)
		if err := tx.Set(makeProductKey(product.Id), value); err != nil {
			return err
		}
		if err := tx.Set(makeProductStoreKey(product.StoreId, product.Id), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetProduct retrieves a product by ID.
func (r *ProductRepository) GetProduct(ctx context.Context, id core.ID) (*core.Product, error) {
	var result *core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readProduct(tx, makeProductKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListProducts returns all products of one store in creation order.
func (r *ProductRepository) ListProducts(ctx context.Context, storeID core.ID) ([]*core.Product, error) {
	var results []*core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return r.scanStore(tx, storeID, func(product *core.Product) {
			results = append(results, product)
		})
	}, false)
	return results, err
}

// CountProducts returns the catalog size of one store.
func (r *ProductRepository) CountProducts(ctx context.Context, storeID core.ID) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialProductStoreKey(storeID)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// RankByDistance returns up to limit of the store's embedded products
// ordered by ascending cosine distance to the query vector. The scan visits
// products in creation order and the sort is stable, so equal distances keep
// that order across repeated calls.
func (r *ProductRepository) RankByDistance(ctx context.Context, storeID core.ID, vector []float32, limit int) ([]*core.RankedProduct, error) {
	var results []*core.RankedProduct

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return r.scanStore(tx, storeID, func(product *core.Product) {
			// Products without embeddings are absent from the candidate set
			if len(product.Embedding) == 0 {
				return
			}
			results = append(results, &core.RankedProduct{
				Product:  product,
				Distance: cosineDistance(vector, product.Embedding),
			})
		})
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(results, func(a, b *core.RankedProduct) int {
		if a.Distance < b.Distance {
			return -1
		}
		if a.Distance > b.Distance {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// scanStore iterates one store's catalog index in key order.
func (r *ProductRepository) scanStore(tx *badger.Txn, storeID core.ID, visit func(*core.Product)) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makePartialProductStoreKey(storeID)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		var product *core.Product
		err := iter.Item().Value(func(val []byte) error {
			var err error
			product, err = storage.UnmarshalProduct(val)
			return err
		})
		if err != nil {
			return err
		}
		visit(product)
	}
	return nil
}

// readProduct reads a product record; returns nil without error when absent.
func (r *ProductRepository) readProduct(tx *badger.Txn, key []byte) (*core.Product, error) {
	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var product *core.Product
	err = item.Value(func(val []byte) error {
		var err error
		product, err = storage.UnmarshalProduct(val)
		return err
	})
	return product, err
}

// cosineDistance is 1 minus the cosine similarity of two vectors.
// Both vectors are expected to share the fixed index width; a zero vector
// yields the maximum distance of 1.
func cosineDistance(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return float32(1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)))
}
