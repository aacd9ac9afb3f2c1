package catalog

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/Semara-26/shiki-pilot/ai/mock"
	"github.com/Semara-26/shiki-pilot/core"
	"github.com/Semara-26/shiki-pilot/storage/badger"
)

func newTestService(t *testing.T) (*Service, *mock.MockEmbedder) {
	t.Helper()

	storeRepo, productRepo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	embedder := mock.NewMockEmbedder()
	service, err := NewService(storeRepo, productRepo, embedder)
	require.NoError(t, err)
	return service, embedder
}

func TestCreateStore(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with generated slug", func(t *testing.T) {
		service, _ := newTestService(t)

		store, err := service.CreateStore(ctx, "user-1", "Warung Bu Siti", "Sembako lengkap")
		require.NoError(t, err)
		assert.Equal(t, "warung-bu-siti", store.Slug)
		assert.NotZero(t, store.Id)
	})

	t.Run("one store per owner", func(t *testing.T) {
		service, _ := newTestService(t)

		_, err := service.CreateStore(ctx, "user-1", "Toko Pertama", "")
		require.NoError(t, err)

		_, err = service.CreateStore(ctx, "user-1", "Toko Kedua", "")
		assert.ErrorIs(t, err, ErrStoreExists)
	})

	t.Run("slug collision gets random suffix", func(t *testing.T) {
		service, _ := newTestService(t)

		first, err := service.CreateStore(ctx, "user-1", "Toko Jaya", "")
		require.NoError(t, err)
		assert.Equal(t, "toko-jaya", first.Slug)

		second, err := service.CreateStore(ctx, "user-2", "Toko Jaya", "")
		require.NoError(t, err)
		assert.NotEqual(t, first.Slug, second.Slug)
		assert.True(t, strings.HasPrefix(second.Slug, "toko-jaya-"))
		assert.Len(t, second.Slug, len("toko-jaya-")+6)
	})

	t.Run("validation failures", func(t *testing.T) {
		service, _ := newTestService(t)

		_, err := service.CreateStore(ctx, "", "Toko", "")
		assert.ErrorIs(t, err, core.ErrEmptyOwner)

		_, err = service.CreateStore(ctx, "user-1", "", "")
		assert.ErrorIs(t, err, core.ErrEmptyName)

		_, err = service.CreateStore(ctx, "user-1", strings.Repeat("x", core.MaxStoreNameLen+1), "")
		assert.ErrorIs(t, err, core.ErrNameTooLong)
	})
}

func TestUpdateStoreInfo(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	store, err := service.CreateStore(ctx, "user-1", "Toko Lama", "")
	require.NoError(t, err)

	updated, err := service.UpdateStoreInfo(ctx, store.Id, "Toko Baru", "Pindah lokasi")
	require.NoError(t, err)
	assert.Equal(t, "Toko Baru", updated.Name)
	assert.Equal(t, "toko-lama", updated.Slug)
}

func TestAddProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("embeds the description", func(t *testing.T) {
		service, _ := newTestService(t)
		store, err := service.CreateStore(ctx, "user-1", "Toko Berkah", "")
		require.NoError(t, err)

		product, err := service.AddProduct(ctx, store.Id, ProductInput{
			Name:        "Beras Premium 5kg",
			Price:       75000,
			Stock:       20,
			Description: "Beras pulen kualitas premium",
		})
		require.NoError(t, err)
		assert.Len(t, product.Embedding, core.EmbeddingDimensions)
	})

	t.Run("embedding failure degrades to vectorless save", func(t *testing.T) {
		service, embedder := newTestService(t)
		store, err := service.CreateStore(ctx, "user-1", "Toko Berkah", "")
		require.NoError(t, err)

		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("deadline exceeded")
		}

		product, err := service.AddProduct(ctx, store.Id, ProductInput{
			Name: "Gula Pasir", Price: 16000, Stock: 30, Description: "Gula pasir 1kg",
		})
		require.NoError(t, err)
		assert.Nil(t, product.Embedding)
	})

	t.Run("NaN embedding degrades to vectorless save", func(t *testing.T) {
		service, embedder := newTestService(t)
		store, err := service.CreateStore(ctx, "user-1", "Toko Berkah", "")
		require.NoError(t, err)

		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return []float32{float32(math.NaN()), 1}, nil
		}

		product, err := service.AddProduct(ctx, store.Id, ProductInput{
			Name: "Beras", Price: 75000, Stock: 20, Description: "Beras pulen",
		})
		require.NoError(t, err)
		assert.Nil(t, product.Embedding)
	})

	t.Run("validation failures", func(t *testing.T) {
		service, _ := newTestService(t)
		store, err := service.CreateStore(ctx, "user-1", "Toko Berkah", "")
		require.NoError(t, err)

		cases := []struct {
			input ProductInput
			want  error
		}{
			{ProductInput{Name: "", Description: "d"}, core.ErrEmptyName},
			{ProductInput{Name: strings.Repeat("x", core.MaxProductNameLen+1), Description: "d"}, core.ErrNameTooLong},
			{ProductInput{Name: "Beras", Description: ""}, core.ErrEmptyDescription},
			{ProductInput{Name: "Beras", Description: strings.Repeat("x", core.MaxDescriptionLen+1)}, core.ErrDescriptionTooLong},
			{ProductInput{Name: "Beras", Description: "d", Price: -1}, core.ErrNegativePrice},
			{ProductInput{Name: "Beras", Description: "d", Stock: -1}, core.ErrNegativeStock},
		}
		for _, tc := range cases {
			_, err := service.AddProduct(ctx, store.Id, tc.input)
			assert.ErrorIs(t, err, tc.want)
		}
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("recomputes embedding only when description changes", func(t *testing.T) {
		service, embedder := newTestService(t)
		store, err := service.CreateStore(ctx, "user-1", "Toko Berkah", "")
		require.NoError(t, err)

		product, err := service.AddProduct(ctx, store.Id, ProductInput{
			Name: "Kopi Bubuk", Price: 15000, Stock: 10, Description: "Kopi robusta asli",
		})
		require.NoError(t, err)
		callsAfterAdd := embedder.CallCount()

		// Price change only: no new embedding call
		updated, err := service.UpdateProduct(ctx, store.Id, product.Id, ProductInput{
			Name: "Kopi Bubuk", Price: 17000, Stock: 10, Description: "Kopi robusta asli",
		})
		require.NoError(t, err)
		assert.Equal(t, callsAfterAdd, embedder.CallCount())
		assert.Equal(t, product.Embedding, updated.Embedding)

		// Description change: recomputed
		_, err = service.UpdateProduct(ctx, store.Id, product.Id, ProductInput{
			Name: "Kopi Bubuk", Price: 17000, Stock: 10, Description: "Kopi arabika premium",
		})
		require.NoError(t, err)
		assert.Equal(t, callsAfterAdd+1, embedder.CallCount())
	})

	t.Run("rejects cross-store update", func(t *testing.T) {
		service, _ := newTestService(t)
		owner, err := service.CreateStore(ctx, "user-1", "Toko A", "")
		require.NoError(t, err)
		intruder, err := service.CreateStore(ctx, "user-2", "Toko B", "")
		require.NoError(t, err)

		product, err := service.AddProduct(ctx, owner.Id, ProductInput{
			Name: "Beras", Price: 1000, Stock: 1, Description: "Beras",
		})
		require.NoError(t, err)

		_, err = service.UpdateProduct(ctx, intruder.Id, product.Id, ProductInput{
			Name: "Beras Curian", Price: 1, Stock: 1, Description: "Beras",
		})
		assert.ErrorIs(t, err, ErrProductNotOwned)
	})
}
