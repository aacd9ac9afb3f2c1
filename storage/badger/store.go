package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/Semara-26/shiki-pilot/core"
	"github.com/Semara-26/shiki-pilot/storage"
)

// StoreRepository implements storage.StoreRepository for BadgerDB.
type StoreRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.StoreRepository = (*StoreRepository)(nil)

// NewStoreRepository creates a new StoreRepository.
func NewStoreRepository(backend *Backend) (*StoreRepository, error) {
	idSeq, err := backend.GetSequence(storeIDSeq)
	if err != nil {
		return nil, err
	}

	return &StoreRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *StoreRepository) Close() error {
	return r.idSeq.Release()
}

// CreateStore adds a store, enforcing owner and slug uniqueness through the
// index keys. The transaction commit fails if a racing call wrote the same
// index key first.
func (r *StoreRepository) CreateStore(ctx context.Context, store *core.Store) (*core.Store, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		ownerKey := makeStoreOwnerKey(store.OwnerID)
		if _, err := tx.Get(ownerKey); err == nil {
			return storage.ErrDuplicateKey
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		slugKey := makeStoreSlugKey(store.Slug)
		if _, err := tx.Get(slugKey); err == nil {
			return storage.ErrDuplicateKey
		} else if err != badger.ErrKeyNotFound {
			return err
		}

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
		store.Id = core.ID(nextID)
		store.CreatedAt = time.Now().UTC()

		if err := tx.Set(makeStoreKey(store.Id), storage.MarshalStore(store)); err != nil {
			return err
		}
		if err := tx.Set(ownerKey, storage.MarshalID(store.Id)); err != nil {
			return err
		}
		if err := tx.Set(slugKey, storage.MarshalID(store.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err == badger.ErrConflict {
		err = storage.ErrDuplicateKey
	}

	return store, err
}

// UpdateStore updates the mutable fields of an existing store.
// The owner and slug indexes are immutable here.
func (r *StoreRepository) UpdateStore(ctx context.Context, store *core.Store) (*core.Store, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeStoreKey(store.Id)
		old, err := r.readStore(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		old.Name = store.Name
		old.Description = store.Description
		*store = *old

		if err := tx.Set(key, storage.MarshalStore(store)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return store, err
}

// GetStore retrieves a store by ID.
func (r *StoreRepository) GetStore(ctx context.Context, id core.ID) (*core.Store, error) {
	var result *core.Store
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readStore(tx, makeStoreKey(id))
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

// GetStoreByOwner retrieves the store belonging to an owner identity.
func (r *StoreRepository) GetStoreByOwner(ctx context.Context, ownerID string) (*core.Store, error) {
	return r.getByIndex(makeStoreOwnerKey(ownerID))
}

// GetStoreBySlug retrieves a store by its unique slug.
func (r *StoreRepository) GetStoreBySlug(ctx context.Context, slug string) (*core.Store, error) {
	return r.getByIndex(makeStoreSlugKey(slug))
}

// ListStores returns all stores in key (creation) order.
func (r *StoreRepository) ListStores(ctx context.Context) ([]*core.Store, error) {
	var results []*core.Store
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(storeRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var store *core.Store
			err := iter.Item().Value(func(val []byte) error {
				var err error
				store, err = storage.UnmarshalStore(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, store)
		}
		return nil
	}, false)
	return results, err
}

func (r *StoreRepository) getByIndex(indexKey []byte) (*core.Store, error) {
	var result *core.Store
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(indexKey)
		if err == badger.ErrKeyNotFound {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}

		var id core.ID
		if err := item.Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		}); err != nil {
			return err
		}

		result, err = r.readStore(tx, makeStoreKey(id))
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

// readStore reads a store record; returns nil without error when absent.
func (r *StoreRepository) readStore(tx *badger.Txn, key []byte) (*core.Store, error) {
	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var store *core.Store
	err = item.Value(func(val []byte) error {
		var err error
		store, err = storage.UnmarshalStore(val)
		return err
	})
	return store, err
}
