package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// EmbeddingDimensions is the fixed width of every stored and query vector.
// Product embeddings and query embeddings must share this width for cosine
// distance to be meaningful.
const EmbeddingDimensions = 768

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// MessageRole identifies the author of a conversation message.
type MessageRole int

const (
	// MessageRoleUser represents the store operator or customer.
	MessageRoleUser MessageRole = iota + 1
	// MessageRoleAssistant represents the AI assistant.
	MessageRoleAssistant
)

// String returns the wire representation of the role.
func (r MessageRole) String() string {
	switch r {
	case MessageRoleUser:
		return "user"
	case MessageRoleAssistant:
		return "assistant"
	default:
		return "unknown"
	}
}

// ParseMessageRole converts a wire role string to a MessageRole.
// Returns false for any value other than "user" or "assistant"; callers
// drop such messages rather than propagating them.
func ParseMessageRole(s string) (MessageRole, bool) {
	switch s {
	case "user":
		return MessageRoleUser, true
	case "assistant":
		return MessageRoleAssistant, true
	default:
		return 0, false
	}
}

// Store is an isolated business whose catalog and conversation are never
// visible to another store. At most one Store exists per owner identity.
type Store struct {
	Id          ID
	OwnerID     string // external authentication identity
	Name        string
	Slug        string
	Description string
	CreatedAt   time.Time
}

// Product is a catalog entry belonging to exactly one store.
// Price is in the minor currency unit. Embedding is nil until computed,
// and exactly EmbeddingDimensions long afterwards.
type Product struct {
	Id          ID
	StoreId     ID
	Name        string
	Price       int64
	Stock       int64
	Description string
	Embedding   []float32
	CreatedAt   time.Time
}

// Chat is the single conversation thread of a store.
// At most one Chat exists per store.
type Chat struct {
	Id        ID
	StoreId   ID
	CreatedAt time.Time
}

// Message is one turn in a chat. Messages are append-only and ordered by
// CreatedAt ascending.
type Message struct {
	Id        ID
	ChatId    ID
	Role      MessageRole
	Content   string
	CreatedAt time.Time
}

// RankedProduct is a retrieval candidate with its cosine distance to the
// query vector. Lower distance means more relevant.
type RankedProduct struct {
	Product  *Product
	Distance float32
}
