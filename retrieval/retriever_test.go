package retrieval

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/Semara-26/shiki-pilot/ai/mock"
	"github.com/Semara-26/shiki-pilot/core"
	"github.com/Semara-26/shiki-pilot/storage/badger"
)

func TestNewRetriever(t *testing.T) {
	_, productRepo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	embedder := mock.NewMockEmbedder()

	t.Run("valid configuration", func(t *testing.T) {
		retriever, err := NewRetriever(productRepo, embedder)
		require.NoError(t, err)
		assert.NotNil(t, retriever)
	})

	t.Run("nil product repository", func(t *testing.T) {
		_, err := NewRetriever(nil, embedder)
		assert.Equal(t, ErrProductRepositoryRequired, err)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewRetriever(productRepo, nil)
		assert.Equal(t, ErrEmbedderRequired, err)
	})
}

func TestRetrieve(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*mock.MockEmbedder, *Retriever, core.ID) {
		t.Helper()

		storeRepo, productRepo, _, backend, err := badger.NewMemoryRepositories()
		require.NoError(t, err)
		t.Cleanup(func() { backend.Close() })

		store, err := storeRepo.CreateStore(ctx, &core.Store{
			OwnerID: "user-1", Name: "Toko Berkah", Slug: "toko-berkah",
		})
		require.NoError(t, err)

		embedder := mock.NewMockEmbedder()
		for _, name := range []string{"Beras Premium", "Gula Pasir", "Minyak Goreng", "Kopi Bubuk"} {
			vector, err := embedder.EmbedText(ctx, name)
			require.NoError(t, err)
			_, err = productRepo.AddProduct(ctx, &core.Product{
				StoreId:     store.Id,
				Name:        name,
				Description: name,
				Embedding:   FitDimension(vector),
			})
			require.NoError(t, err)
		}

		retriever, err := NewRetriever(productRepo, embedder)
		require.NoError(t, err)
		return embedder, retriever, store.Id
	}

	t.Run("returns top candidates ascending by distance", func(t *testing.T) {
		_, retriever, storeID := setup(t)

		result, err := retriever.Retrieve(ctx, storeID, "Beras Premium")
		require.NoError(t, err)

		assert.False(t, result.QuerySkipped)
		assert.Equal(t, 4, result.CatalogCount)
		require.Len(t, result.Candidates, TopK)
		// The mock embedder is deterministic, so the identical text is the
		// closest match.
		assert.Equal(t, "Beras Premium", result.Candidates[0].Product.Name)
		for i := 1; i < len(result.Candidates); i++ {
			assert.GreaterOrEqual(t, result.Candidates[i].Distance, result.Candidates[i-1].Distance)
		}
	})

	t.Run("blank query skips retrieval", func(t *testing.T) {
		embedder, retriever, storeID := setup(t)
		embedder.Reset()

		result, err := retriever.Retrieve(ctx, storeID, "   ")
		require.NoError(t, err)
		assert.True(t, result.QuerySkipped)
		assert.Empty(t, result.Candidates)
		assert.Zero(t, embedder.CallCount())
	})

	t.Run("embedding failure degrades to ungrounded", func(t *testing.T) {
		embedder, retriever, storeID := setup(t)
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("deadline exceeded")
		}

		result, err := retriever.Retrieve(ctx, storeID, "berapa stok beras?")
		require.NoError(t, err)
		assert.Empty(t, result.Candidates)
		assert.Equal(t, 4, result.CatalogCount)
	})

	t.Run("NaN embedding degrades to ungrounded", func(t *testing.T) {
		embedder, retriever, storeID := setup(t)
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return []float32{float32(math.NaN())}, nil
		}

		result, err := retriever.Retrieve(ctx, storeID, "berapa stok beras?")
		require.NoError(t, err)
		assert.Empty(t, result.Candidates)
	})

	t.Run("empty catalog short-circuits before embedding", func(t *testing.T) {
		storeRepo, productRepo, _, backend, err := badger.NewMemoryRepositories()
		require.NoError(t, err)
		defer backend.Close()

		store, err := storeRepo.CreateStore(ctx, &core.Store{
			OwnerID: "user-2", Name: "Toko Kosong", Slug: "toko-kosong",
		})
		require.NoError(t, err)

		embedder := mock.NewMockEmbedder()
		retriever, err := NewRetriever(productRepo, embedder)
		require.NoError(t, err)

		result, err := retriever.Retrieve(ctx, store.Id, "ada beras?")
		require.NoError(t, err)
		assert.Zero(t, result.CatalogCount)
		assert.Empty(t, result.Candidates)
		assert.Zero(t, embedder.CallCount())
	})

	t.Run("other store's products never surface", func(t *testing.T) {
		storeRepo, productRepo, _, backend, err := badger.NewMemoryRepositories()
		require.NoError(t, err)
		defer backend.Close()

		embedder := mock.NewMockEmbedder()

		storeA, err := storeRepo.CreateStore(ctx, &core.Store{OwnerID: "a", Name: "Toko A", Slug: "toko-a"})
		require.NoError(t, err)
		storeB, err := storeRepo.CreateStore(ctx, &core.Store{OwnerID: "b", Name: "Toko B", Slug: "toko-b"})
		require.NoError(t, err)

		vector, err := embedder.EmbedText(ctx, "Beras")
		require.NoError(t, err)
		_, err = productRepo.AddProduct(ctx, &core.Product{
			StoreId: storeB.Id, Name: "Beras", Embedding: FitDimension(vector),
		})
		require.NoError(t, err)
		_, err = productRepo.AddProduct(ctx, &core.Product{
			StoreId: storeA.Id, Name: "Sabun", Embedding: FitDimension(mustEmbed(t, embedder.EmbedText, ctx, "Sabun")),
		})
		require.NoError(t, err)

		retriever, err := NewRetriever(productRepo, embedder)
		require.NoError(t, err)

		result, err := retriever.Retrieve(ctx, storeA.Id, "Beras")
		require.NoError(t, err)
		require.Len(t, result.Candidates, 1)
		assert.Equal(t, "Sabun", result.Candidates[0].Product.Name)
	})
}

func mustEmbed(t *testing.T, embed func(context.Context, string) ([]float32, error), ctx context.Context, text string) []float32 {
	t.Helper()
	vector, err := embed(ctx, text)
	require.NoError(t, err)
	return vector
}
