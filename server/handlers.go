package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Semara-26/shiki-pilot/catalog"
	"github.com/Semara-26/shiki-pilot/chat"
	"github.com/Semara-26/shiki-pilot/core"
	"github.com/Semara-26/shiki-pilot/storage"
)

type storeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type storeResponse struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func toStoreResponse(store *core.Store) storeResponse {
	return storeResponse{
		ID:          uint64(store.Id),
		Name:        store.Name,
		Slug:        store.Slug,
		Description: store.Description,
	}
}

func (s *Server) createStore(c *gin.Context) {
	var req storeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store, err := s.catalog.CreateStore(c.Request.Context(), c.GetString(ctxOwnerID), req.Name, req.Description)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, catalog.ErrStoreExists) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toStoreResponse(store))
}

func (s *Server) getStore(c *gin.Context) {
	store, err := s.stores.GetStore(c.Request.Context(), core.ID(c.GetUint64(ctxStoreID)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load store"})
		return
	}
	c.JSON(http.StatusOK, toStoreResponse(store))
}

func (s *Server) updateStore(c *gin.Context) {
	var req storeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store, err := s.catalog.UpdateStoreInfo(c.Request.Context(), core.ID(c.GetUint64(ctxStoreID)), req.Name, req.Description)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toStoreResponse(store))
}

type productRequest struct {
	Name        string `json:"name" binding:"required"`
	Price       int64  `json:"price"`
	Stock       int64  `json:"stock"`
	Description string `json:"description" binding:"required"`
}

type productResponse struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Stock       int64  `json:"stock"`
	Description string `json:"description"`
	Embedded    bool   `json:"embedded"`
}

func toProductResponse(product *core.Product) productResponse {
	return productResponse{
		ID:          uint64(product.Id),
		Name:        product.Name,
		Price:       product.Price,
		Stock:       product.Stock,
		Description: product.Description,
		Embedded:    len(product.Embedding) > 0,
	}
}

func (s *Server) listProducts(c *gin.Context) {
	products, err := s.products.ListProducts(c.Request.Context(), core.ID(c.GetUint64(ctxStoreID)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}

	out := make([]productResponse, len(products))
	for i, product := range products {
		out[i] = toProductResponse(product)
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

func (s *Server) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := s.catalog.AddProduct(c.Request.Context(), core.ID(c.GetUint64(ctxStoreID)), catalog.ProductInput{
		Name:        req.Name,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toProductResponse(product))
}

func (s *Server) updateProduct(c *gin.Context) {
	var productID uint64
	if _, err := fmt.Sscanf(c.Param("id"), "%d", &productID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := s.catalog.UpdateProduct(c.Request.Context(), core.ID(c.GetUint64(ctxStoreID)), core.ID(productID), catalog.ProductInput{
		Name:        req.Name,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
	})
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, storage.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, catalog.ErrProductNotOwned):
			// The product exists but not for this caller
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

type messageResponse struct {
	ID      uint64 `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (s *Server) chatHistory(c *gin.Context) {
	history, err := s.sessions.History(c.Request.Context(), core.ID(c.GetUint64(ctxStoreID)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	out := make([]messageResponse, len(history))
	for i, message := range history {
		out[i] = messageResponse{
			ID:      uint64(message.Id),
			Role:    message.Role.String(),
			Content: message.Content,
		}
	}
	c.JSON(http.StatusOK, gin.H{"messages": out})
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

// chatStream answers one question over server-sent events. Token chunks
// arrive as "token" events; the turn closes with a "done" event carrying
// the full answer, or an "error" event if generation or persistence failed
// mid-turn.
func (s *Server) chatStream(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	storeID := core.ID(c.GetUint64(ctxStoreID))

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	answer, err := s.answers.Answer(c.Request.Context(), storeID, req.Message,
		func(ctx context.Context, chunk []byte) error {
			c.SSEvent("token", string(chunk))
			c.Writer.Flush()
			return nil
		})
	if err != nil {
		s.logger.Warn("Chat turn failed", "store_id", storeID, "error", err)
		c.SSEvent("error", publicTurnError(err))
		c.Writer.Flush()
		return
	}

	c.SSEvent("done", gin.H{"answer": answer})
	c.Writer.Flush()
}

// publicTurnError maps turn failures to client-safe messages.
func publicTurnError(err error) string {
	switch {
	case errors.Is(err, chat.ErrGenerationFailed):
		return "Jawaban gagal dibuat. Silakan coba lagi."
	case errors.Is(err, chat.ErrPersistenceFailed):
		return "Jawaban gagal disimpan. Silakan coba lagi."
	case errors.Is(err, core.ErrEmptyContent):
		return "Pesan tidak boleh kosong."
	default:
		return "Terjadi kesalahan."
	}
}
