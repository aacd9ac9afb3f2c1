package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/Semara-26/shiki-pilot/ai"
	"github.com/Semara-26/shiki-pilot/ai/mock"
	"github.com/Semara-26/shiki-pilot/core"
	"github.com/Semara-26/shiki-pilot/retrieval"
	"github.com/Semara-26/shiki-pilot/storage/badger"
)

type orchestratorFixture struct {
	orchestrator *Orchestrator
	manager      *SessionManager
	model        *mock.MockChatModel
	embedder     *mock.MockEmbedder
	store        *core.Store
}

func newOrchestratorFixture(t *testing.T) *orchestratorFixture {
	t.Helper()
	ctx := context.Background()

	storeRepo, productRepo, chatRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	store, err := storeRepo.CreateStore(ctx, &core.Store{
		OwnerID: "user-1", Name: "Toko Berkah", Slug: "toko-berkah",
	})
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	for _, name := range []string{"Beras Premium", "Gula Pasir"} {
		vector, err := embedder.EmbedText(ctx, name)
		require.NoError(t, err)
		_, err = productRepo.AddProduct(ctx, &core.Product{
			StoreId: store.Id, Name: name, Description: name,
			Price: 10000, Stock: 5,
			Embedding: retrieval.FitDimension(vector),
		})
		require.NoError(t, err)
	}

	manager, err := NewSessionManager(storeRepo, chatRepo)
	require.NoError(t, err)
	retriever, err := retrieval.NewRetriever(productRepo, embedder)
	require.NoError(t, err)
	model := mock.NewMockChatModel()
	orchestrator, err := NewOrchestrator(manager, retriever, model)
	require.NoError(t, err)

	return &orchestratorFixture{
		orchestrator: orchestrator,
		manager:      manager,
		model:        model,
		embedder:     embedder,
		store:        store,
	}
}

func TestAnswerHappyPath(t *testing.T) {
	ctx := context.Background()
	f := newOrchestratorFixture(t)
	f.model.Answer = "Stok Beras Premium ada 5."

	var streamed strings.Builder
	answer, err := f.orchestrator.Answer(ctx, f.store.Id, "Berapa stok beras premium?", func(ctx context.Context, chunk []byte) error {
		streamed.Write(chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Stok Beras Premium ada 5.", answer)
	assert.Equal(t, answer, streamed.String())

	// The model saw the grounded instruction with catalog data.
	assert.Contains(t, f.model.LastSystem, "Data Produk")
	assert.Contains(t, f.model.LastSystem, "Beras Premium")

	// The question was already part of the history handed to the model.
	require.NotEmpty(t, f.model.LastHistory)
	last := f.model.LastHistory[len(f.model.LastHistory)-1]
	assert.Equal(t, "user", last.Role)
	assert.Equal(t, "Berapa stok beras premium?", last.Content)

	// Both turns are durable.
	history, err := f.manager.History(ctx, f.store.Id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, core.MessageRoleUser, history[0].Role)
	assert.Equal(t, core.MessageRoleAssistant, history[1].Role)
	assert.Equal(t, answer, history[1].Content)
}

func TestAnswerStreamAbort(t *testing.T) {
	ctx := context.Background()
	f := newOrchestratorFixture(t)

	f.model.StreamAnswerFunc = func(ctx context.Context, system string, history []ai.Turn, onToken ai.StreamFunc) (string, error) {
		if err := onToken(ctx, []byte("Stok beras")); err != nil {
			return "", err
		}
		return "", errors.New("connection reset mid-stream")
	}

	_, err := f.orchestrator.Answer(ctx, f.store.Id, "Berapa stok beras?",
		func(context.Context, []byte) error { return nil })
	assert.ErrorIs(t, err, ErrGenerationFailed)

	// The question survives, the partial answer does not.
	history, err := f.manager.History(ctx, f.store.Id)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, core.MessageRoleUser, history[0].Role)
}

func TestAnswerContextCancelled(t *testing.T) {
	f := newOrchestratorFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	f.model.StreamAnswerFunc = func(ctx context.Context, system string, history []ai.Turn, onToken ai.StreamFunc) (string, error) {
		cancel()
		return "", ctx.Err()
	}

	_, err := f.orchestrator.Answer(ctx, f.store.Id, "Berapa stok beras?", nil)
	assert.ErrorIs(t, err, ErrGenerationFailed)

	history, err := f.manager.History(context.Background(), f.store.Id)
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestAnswerEmbeddingFailureStillAnswers(t *testing.T) {
	ctx := context.Background()
	f := newOrchestratorFixture(t)

	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("deadline exceeded")
	}
	f.model.Answer = "Maaf, saya belum bisa mengecek katalog."

	answer, err := f.orchestrator.Answer(ctx, f.store.Id, "Berapa stok beras?", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, answer)

	// Ungrounded: no product data in the instruction.
	assert.NotContains(t, f.model.LastSystem, "Data Produk")
}

func TestAnswerRejectsBlankQuestion(t *testing.T) {
	ctx := context.Background()
	f := newOrchestratorFixture(t)

	_, err := f.orchestrator.Answer(ctx, f.store.Id, "  ", nil)
	assert.ErrorIs(t, err, core.ErrEmptyContent)
	assert.Zero(t, f.model.CallCount())
}

func TestAnswerUnknownStore(t *testing.T) {
	ctx := context.Background()
	f := newOrchestratorFixture(t)

	_, err := f.orchestrator.Answer(ctx, 9999, "Berapa stok beras?", nil)
	assert.Error(t, err)
	assert.Zero(t, f.model.CallCount())
}
