package chat

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Semara-26/shiki-pilot/core"
	"github.com/Semara-26/shiki-pilot/storage"
)

// SessionManager provides tenant-scoped access to conversation threads.
type SessionManager struct {
	stores storage.StoreRepository
	chats  storage.ChatRepository
	logger *slog.Logger
}

// SessionOption configures a SessionManager.
type SessionOption func(*SessionManager) error

// WithSessionLogger sets a custom logger.
// Default is slog.Default().
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(m *SessionManager) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewSessionManager creates a new session manager.
func NewSessionManager(stores storage.StoreRepository, chats storage.ChatRepository, opts ...SessionOption) (*SessionManager, error) {
	if stores == nil {
		return nil, ErrStoreRepositoryRequired
	}
	if chats == nil {
		return nil, ErrChatRepositoryRequired
	}

	m := &SessionManager{
		stores: stores,
		chats:  chats,
		logger: slog.Default().With("component", "session"),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// GetOrCreate returns the store's conversation thread, creating it on first
// use. The store must exist; callers resolve the store before any model
// work happens.
func (m *SessionManager) GetOrCreate(ctx context.Context, storeID core.ID) (*core.Chat, error) {
	if _, err := m.stores.GetStore(ctx, storeID); err != nil {
		return nil, err
	}
	return m.chats.GetOrCreateChat(ctx, storeID)
}

// AppendMessage appends one message to the store's thread after checking
// that the thread actually belongs to the store. Blank content is rejected.
func (m *SessionManager) AppendMessage(ctx context.Context, storeID, chatID core.ID, role core.MessageRole, content string) (*core.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, core.ErrEmptyContent
	}
	if err := core.ValidateMessageRole(role); err != nil {
		return nil, err
	}

	chat, err := m.chats.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat.StoreId != storeID {
		m.logger.Warn("Rejected cross-store message append",
			"store_id", storeID, "chat_store_id", chat.StoreId)
		return nil, ErrAccessDenied
	}

	return m.chats.AppendMessage(ctx, &core.Message{
		ChatId:  chatID,
		Role:    role,
		Content: content,
	})
}

// History returns the store's conversation ascending by creation time,
// filtered to user and assistant turns.
func (m *SessionManager) History(ctx context.Context, storeID core.ID) ([]*core.Message, error) {
	chat, err := m.GetOrCreate(ctx, storeID)
	if err != nil {
		return nil, err
	}

	messages, err := m.chats.GetMessages(ctx, chat.Id)
	if err != nil {
		return nil, err
	}

	filtered := messages[:0]
	for _, message := range messages {
		if message.Role == core.MessageRoleUser || message.Role == core.MessageRoleAssistant {
			filtered = append(filtered, message)
		}
	}
	return filtered, nil
}
