package postgres

import (
	"context"

	"github.com/Semara-26/shiki-pilot/core"
	"github.com/Semara-26/shiki-pilot/storage"
)

// ChatRepository implements storage.ChatRepository on PostgreSQL.
type ChatRepository struct {
	backend *Backend
}

var _ storage.ChatRepository = (*ChatRepository)(nil)

// NewChatRepository creates a new ChatRepository.
func NewChatRepository(backend *Backend) (*ChatRepository, error) {
	return &ChatRepository{backend: backend}, nil
}

// Close is a no-op; the shared pool is owned by the backend.
func (r *ChatRepository) Close() error {
	return nil
}

// GetOrCreateChat returns the store's single chat, creating it on first
// use. The unique constraint on store_id makes concurrent creators
// converge: the losing insert affects no rows and the follow-up select
// sees the winner's row.
func (r *ChatRepository) GetOrCreateChat(ctx context.Context, storeID core.ID) (*core.Chat, error) {
	_, err := r.backend.pool.Exec(ctx, `
		INSERT INTO chats (store_id) VALUES ($1)
		ON CONFLICT (store_id) DO NOTHING
	`, storeID)
	if err != nil {
		return nil, mapError(err)
	}

	chat := &core.Chat{}
	row := r.backend.pool.QueryRow(ctx, `
		SELECT id, store_id, created_at FROM chats WHERE store_id = $1
	`, storeID)
	if err := row.Scan(&chat.Id, &chat.StoreId, &chat.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return chat, nil
}

// GetChat retrieves a chat by ID.
func (r *ChatRepository) GetChat(ctx context.Context, id core.ID) (*core.Chat, error) {
	chat := &core.Chat{}
	row := r.backend.pool.QueryRow(ctx, `
		SELECT id, store_id, created_at FROM chats WHERE id = $1
	`, id)
	if err := row.Scan(&chat.Id, &chat.StoreId, &chat.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return chat, nil
}

// AppendMessage appends one message to a chat as a single atomic insert.
func (r *ChatRepository) AppendMessage(ctx context.Context, message *core.Message) (*core.Message, error) {
	row := r.backend.pool.QueryRow(ctx, `
		INSERT INTO messages (chat_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, message.ChatId, message.Role.String(), message.Content)

	if err := row.Scan(&message.Id, &message.CreatedAt); err != nil {
		// Missing chats surface as a foreign key violation
		return nil, mapForeignKey(err)
	}
	return message, nil
}

// GetMessages returns all messages of a chat in ascending creation order.
func (r *ChatRepository) GetMessages(ctx context.Context, chatID core.ID) ([]*core.Message, error) {
	rows, err := r.backend.pool.Query(ctx, `
		SELECT id, chat_id, role, content, created_at
		FROM messages WHERE chat_id = $1 ORDER BY id
	`, chatID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var results []*core.Message
	for rows.Next() {
		message := &core.Message{}
		var role string
		if err := rows.Scan(&message.Id, &message.ChatId, &role, &message.Content, &message.CreatedAt); err != nil {
			return nil, err
		}
		parsed, ok := core.ParseMessageRole(role)
		if !ok {
			// Unknown roles are dropped from the view, not an error.
			continue
		}
		message.Role = parsed
		results = append(results, message)
	}
	return results, rows.Err()
}
