package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/Semara-26/shiki-pilot/core"
	"github.com/Semara-26/shiki-pilot/storage"
	"github.com/Semara-26/shiki-pilot/storage/badger"
)

func newTestSession(t *testing.T) (*SessionManager, storage.StoreRepository) {
	t.Helper()

	storeRepo, _, chatRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	manager, err := NewSessionManager(storeRepo, chatRepo)
	require.NoError(t, err)
	return manager, storeRepo
}

func createTestStore(t *testing.T, stores storage.StoreRepository, owner, slug string) *core.Store {
	t.Helper()
	store, err := stores.CreateStore(context.Background(), &core.Store{
		OwnerID: owner, Name: "Toko " + slug, Slug: slug,
	})
	require.NoError(t, err)
	return store
}

func TestNewSessionManager(t *testing.T) {
	storeRepo, _, chatRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	t.Run("valid configuration", func(t *testing.T) {
		manager, err := NewSessionManager(storeRepo, chatRepo)
		require.NoError(t, err)
		assert.NotNil(t, manager)
	})

	t.Run("nil store repository", func(t *testing.T) {
		_, err := NewSessionManager(nil, chatRepo)
		assert.Equal(t, ErrStoreRepositoryRequired, err)
	})

	t.Run("nil chat repository", func(t *testing.T) {
		_, err := NewSessionManager(storeRepo, nil)
		assert.Equal(t, ErrChatRepositoryRequired, err)
	})
}

func TestSessionGetOrCreate(t *testing.T) {
	ctx := context.Background()
	manager, stores := newTestSession(t)
	store := createTestStore(t, stores, "user-1", "toko-berkah")

	t.Run("creates then returns same session", func(t *testing.T) {
		first, err := manager.GetOrCreate(ctx, store.Id)
		require.NoError(t, err)

		second, err := manager.GetOrCreate(ctx, store.Id)
		require.NoError(t, err)
		assert.Equal(t, first.Id, second.Id)
	})

	t.Run("unknown store rejected", func(t *testing.T) {
		_, err := manager.GetOrCreate(ctx, 9999)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestSessionAppendMessage(t *testing.T) {
	ctx := context.Background()
	manager, stores := newTestSession(t)
	store := createTestStore(t, stores, "user-1", "toko-berkah")

	session, err := manager.GetOrCreate(ctx, store.Id)
	require.NoError(t, err)

	t.Run("appends user message", func(t *testing.T) {
		message, err := manager.AppendMessage(ctx, store.Id, session.Id, core.MessageRoleUser, "Berapa stok beras?")
		require.NoError(t, err)
		assert.NotZero(t, message.Id)
		assert.Equal(t, core.MessageRoleUser, message.Role)
	})

	t.Run("rejects blank content", func(t *testing.T) {
		_, err := manager.AppendMessage(ctx, store.Id, session.Id, core.MessageRoleUser, "   ")
		assert.ErrorIs(t, err, core.ErrEmptyContent)
	})

	t.Run("rejects invalid role", func(t *testing.T) {
		_, err := manager.AppendMessage(ctx, store.Id, session.Id, core.MessageRole(99), "halo")
		assert.ErrorIs(t, err, core.ErrInvalidMessageRole)
	})

	t.Run("rejects cross-store append", func(t *testing.T) {
		other := createTestStore(t, stores, "user-2", "toko-lain")

		_, err := manager.AppendMessage(ctx, other.Id, session.Id, core.MessageRoleUser, "intip punya tetangga")
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestSessionHistory(t *testing.T) {
	ctx := context.Background()
	manager, stores := newTestSession(t)
	store := createTestStore(t, stores, "user-1", "toko-berkah")

	session, err := manager.GetOrCreate(ctx, store.Id)
	require.NoError(t, err)

	turns := []struct {
		role    core.MessageRole
		content string
	}{
		{core.MessageRoleUser, "Berapa stok beras?"},
		{core.MessageRoleAssistant, "Stok beras 20 karung."},
		{core.MessageRoleUser, "Terima kasih"},
	}
	for _, turn := range turns {
		_, err := manager.AppendMessage(ctx, store.Id, session.Id, turn.role, turn.content)
		require.NoError(t, err)
	}

	history, err := manager.History(ctx, store.Id)
	require.NoError(t, err)
	require.Len(t, history, len(turns))
	for i, turn := range turns {
		assert.Equal(t, turn.role, history[i].Role)
		assert.Equal(t, turn.content, history[i].Content)
	}

	t.Run("empty for fresh store", func(t *testing.T) {
		fresh := createTestStore(t, stores, "user-3", "toko-baru")

		history, err := manager.History(ctx, fresh.Id)
		require.NoError(t, err)
		assert.Empty(t, history)
	})
}

func TestSessionHistoryDropsUnknownRoles(t *testing.T) {
	ctx := context.Background()

	storeRepo, _, chatRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	manager, err := NewSessionManager(storeRepo, chatRepo)
	require.NoError(t, err)
	store := createTestStore(t, storeRepo, "user-1", "toko-berkah")

	session, err := manager.GetOrCreate(ctx, store.Id)
	require.NoError(t, err)

	_, err = manager.AppendMessage(ctx, store.Id, session.Id, core.MessageRoleUser, "Berapa stok beras?")
	require.NoError(t, err)

	// A rogue role written straight through the repository must be dropped
	// from the view, not surfaced as an error.
	_, err = chatRepo.AppendMessage(ctx, &core.Message{
		ChatId:  session.Id,
		Role:    core.MessageRole(99),
		Content: "catatan sistem",
	})
	require.NoError(t, err)

	_, err = manager.AppendMessage(ctx, store.Id, session.Id, core.MessageRoleAssistant, "Stok beras 20 karung.")
	require.NoError(t, err)

	history, err := manager.History(ctx, store.Id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, core.MessageRoleUser, history[0].Role)
	assert.Equal(t, core.MessageRoleAssistant, history[1].Role)
}
