package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/Semara-26/shiki-pilot/core"
	"github.com/Semara-26/shiki-pilot/storage"
)

// ChatRepository implements storage.ChatRepository for BadgerDB.
type ChatRepository struct {
	backend *Backend
	msgSeq  *badger.Sequence
}

var _ storage.ChatRepository = (*ChatRepository)(nil)

// NewChatRepository creates a new ChatRepository.
func NewChatRepository(backend *Backend) (*ChatRepository, error) {
	msgSeq, err := backend.GetSequence(messageIDSeq)
	if err != nil {
		return nil, err
	}

	return &ChatRepository{
		backend: backend,
		msgSeq:  msgSeq,
	}, nil
}

// Close releases the message ID sequence.
func (r *ChatRepository) Close() error {
	return r.msgSeq.Release()
}

// GetOrCreateChat returns the store's single chat, creating it on first use.
// The chat ID is derived from the store ID, so two racing creators write an
// identical record and either commit leaves the same chat behind.
func (r *ChatRepository) GetOrCreateChat(ctx context.Context, storeID core.ID) (*core.Chat, error) {
	var result *core.Chat

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		existing, err := r.readChat(tx, makeChatStoreKey(storeID))
		if err != nil {
			return err
		}
		if existing != nil {
			result = existing
			return nil
		}

		chat := &core.Chat{
			Id:        chatIDForStore(storeID),
			StoreId:   storeID,
			CreatedAt: time.Now().UTC(),
		}

		value := storage.MarshalChat(chat)
		if err := tx.Set(makeChatStoreKey(storeID), value); err != nil {
			return err
		}
		if err := tx.Set(makeChatKey(chat.Id), value); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			if err == badger.ErrConflict {
				return r.backend.WithTx(func(retry *badger.Txn) error {
					existing, err := r.readChat(retry, makeChatStoreKey(storeID))
					if err != nil {
						return err
					}
					if existing == nil {
						return storage.ErrNotFound
					}
					result = existing
					return nil
				}, false)
			}
			return err
		}

		result = chat
		return nil
	}, true)

	return result, err
}

// GetChat retrieves a chat by ID.
func (r *ChatRepository) GetChat(ctx context.Context, id core.ID) (*core.Chat, error) {
	var result *core.Chat
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readChat(tx, makeChatKey(id))
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

// AppendMessage appends one message to a chat as a single atomic insert.
func (r *ChatRepository) AppendMessage(ctx context.Context, message *core.Message) (*core.Message, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		chat, err := r.readChat(tx, makeChatKey(message.ChatId))
		if err != nil {
			return err
		}
		if chat == nil {
			return storage.ErrNotFound
		}

		nextID, err := r.msgSeq.Next()
		if err != nil {
			return err
		}
		// BadgerDB sequences can return 0 on first call, so we skip it
		if nextID == 0 {
			nextID, err = r.msgSeq.Next()
			if err != nil {
				return err
			}
		}
		message.Id = core.ID(nextID)
		message.CreatedAt = time.Now().UTC()

		key := makeMessageKey(message.ChatId, message.Id)
		if err := tx.Set(key, storage.MarshalMessage(message)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return message, err
}

// GetMessages returns all messages of a chat in ascending creation order.
// Message IDs are monotonic per process and the composite key embeds them
// big-endian, so the prefix scan already yields insertion order.
func (r *ChatRepository) GetMessages(ctx context.Context, chatID core.ID) ([]*core.Message, error) {
	var results []*core.Message

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialMessageKey(chatID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				message, err := storage.UnmarshalMessage(val)
				if err != nil {
					return err
				}
				results = append(results, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)

	return results, err
}

// readChat reads a chat record; returns nil without error when absent.
func (r *ChatRepository) readChat(tx *badger.Txn, key []byte) (*core.Chat, error) {
	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var chat *core.Chat
	err = item.Value(func(val []byte) error {
		var err error
		chat, err = storage.UnmarshalChat(val)
		return err
	})
	return chat, err
}
