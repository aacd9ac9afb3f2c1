package chat

import "errors"

var (
	// ErrStoreRepositoryRequired is returned when no store repository is provided.
	ErrStoreRepositoryRequired = errors.New("store repository is required")

	// ErrChatRepositoryRequired is returned when no chat repository is provided.
	ErrChatRepositoryRequired = errors.New("chat repository is required")

	// ErrSessionManagerRequired is returned when no session manager is provided.
	ErrSessionManagerRequired = errors.New("session manager is required")

	// ErrRetrieverRequired is returned when no retriever is provided.
	ErrRetrieverRequired = errors.New("retriever is required")

	// ErrChatModelRequired is returned when no chat model is provided.
	ErrChatModelRequired = errors.New("chat model is required")

	// ErrAccessDenied is returned when a caller addresses a chat that
	// belongs to another store.
	ErrAccessDenied = errors.New("chat belongs to another store")

	// ErrGenerationFailed is returned when the model stream errors or is
	// cancelled before completing.
	ErrGenerationFailed = errors.New("answer generation failed")

	// ErrPersistenceFailed is returned when a completed answer could not be
	// written to the conversation log. The turn counts as failed even
	// though the client may have seen the full answer streamed.
	ErrPersistenceFailed = errors.New("failed to persist assistant message")
)
