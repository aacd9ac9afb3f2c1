package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Semara-26/shiki-pilot/storage"
)

const (
	ctxOwnerID = "owner_id"
	ctxStoreID = "store_id"
)

// bearerAuth resolves the Authorization header to an owner identity.
// Requests without a valid token never reach a handler.
func (s *Server) bearerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		ownerID, ok := s.tokens[token]
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ctxOwnerID, ownerID)
		c.Next()
	}
}

// requireStore resolves the caller's store and aborts with an actionable
// message when they have none yet.
func (s *Server) requireStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID := c.GetString(ctxOwnerID)

		store, err := s.stores.GetStoreByOwner(c.Request.Context(), ownerID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Buat toko terlebih dahulu."})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve store"})
			return
		}

		c.Set(ctxStoreID, uint64(store.Id))
		c.Next()
	}
}
