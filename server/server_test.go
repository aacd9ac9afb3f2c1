package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/Semara-26/shiki-pilot/ai/mock"
	"github.com/Semara-26/shiki-pilot/catalog"
	"github.com/Semara-26/shiki-pilot/chat"
	"github.com/Semara-26/shiki-pilot/retrieval"
	"github.com/Semara-26/shiki-pilot/storage/badger"
)

type serverFixture struct {
	server *Server
	model  *mock.MockChatModel
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	storeRepo, productRepo, chatRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	embedder := mock.NewMockEmbedder()
	model := mock.NewMockChatModel()

	catalogService, err := catalog.NewService(storeRepo, productRepo, embedder)
	require.NoError(t, err)
	sessions, err := chat.NewSessionManager(storeRepo, chatRepo)
	require.NoError(t, err)
	retriever, err := retrieval.NewRetriever(productRepo, embedder)
	require.NoError(t, err)
	orchestrator, err := chat.NewOrchestrator(sessions, retriever, model)
	require.NoError(t, err)

	srv, err := New(catalogService, sessions, orchestrator, storeRepo, productRepo,
		WithTokens(map[string]string{"token-1": "user-1", "token-2": "user-2"}))
	require.NoError(t, err)

	return &serverFixture{server: srv, model: model}
}

func (f *serverFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewBuffer(data)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (f *serverFixture) createStore(t *testing.T, token, name string) {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/store", token, jsonBody{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

type jsonBody = map[string]any

func TestAuthRejection(t *testing.T) {
	f := newServerFixture(t)

	t.Run("missing token", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/store", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/store", "bogus", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("chat never reaches the model unauthenticated", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/chat", "", jsonBody{"message": "halo"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Zero(t, f.model.CallCount())
	})
}

func TestStoreGating(t *testing.T) {
	f := newServerFixture(t)

	t.Run("storeless caller gets actionable 404", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/products", "token-1", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Buat toko terlebih dahulu.")
	})

	t.Run("store creation then access", func(t *testing.T) {
		f.createStore(t, "token-1", "Toko Berkah")

		rec := f.do(t, http.MethodGet, "/api/v1/store", "token-1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "toko-berkah")
	})

	t.Run("second store rejected", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/store", "token-1", jsonBody{"name": "Toko Kedua"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestProductEndpoints(t *testing.T) {
	f := newServerFixture(t)
	f.createStore(t, "token-1", "Toko Berkah")
	f.createStore(t, "token-2", "Toko Lain")

	rec := f.do(t, http.MethodPost, "/api/v1/products", "token-1", jsonBody{
		"name": "Beras Premium", "price": 75000, "stock": 20, "description": "Beras pulen 5kg",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created productResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.Embedded)

	t.Run("listing is tenant scoped", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/products", "token-2", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "Beras Premium")
	})

	t.Run("update", func(t *testing.T) {
		rec := f.do(t, http.MethodPut, "/api/v1/products/1", "token-1", jsonBody{
			"name": "Beras Premium 5kg", "price": 78000, "stock": 18, "description": "Beras pulen 5kg",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "78000")
	})

	t.Run("cross-tenant update hidden as 404", func(t *testing.T) {
		rec := f.do(t, http.MethodPut, "/api/v1/products/1", "token-2", jsonBody{
			"name": "Curian", "price": 1, "stock": 1, "description": "x",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("validation error", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/products", "token-1", jsonBody{
			"name": "Tanpa Deskripsi",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestChatEndpoints(t *testing.T) {
	f := newServerFixture(t)
	f.createStore(t, "token-1", "Toko Berkah")
	f.model.Answer = "Stok beras ada 20 karung."

	t.Run("streaming answer", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/chat", "token-1", jsonBody{"message": "Berapa stok beras?"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/event-stream")

		body := rec.Body.String()
		assert.Contains(t, body, "event:token")
		assert.Contains(t, body, "event:done")
		assert.Contains(t, body, "Stok beras ada 20 karung.")
	})

	t.Run("history round trip", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/chat/history", "token-1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var parsed struct {
			Messages []messageResponse `json:"messages"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
		require.Len(t, parsed.Messages, 2)
		assert.Equal(t, "user", parsed.Messages[0].Role)
		assert.Equal(t, "Berapa stok beras?", parsed.Messages[0].Content)
		assert.Equal(t, "assistant", parsed.Messages[1].Role)
	})

	t.Run("blank message rejected", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/chat", "token-1", jsonBody{"message": ""})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
