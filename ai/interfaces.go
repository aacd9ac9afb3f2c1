package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// The width of the returned vector is whatever the model produced;
	// callers normalize it to the fixed index width.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Turn is one prior message handed to the generative model as history.
type Turn struct {
	// Role is the wire role, "user" or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// StreamFunc receives each output chunk as the model produces it.
// Returning a non-nil error stops the stream.
type StreamFunc func(ctx context.Context, chunk []byte) error

// ChatModel generates grounded answers from a system instruction and a
// message history. Implementations must be thread-safe for concurrent use.
type ChatModel interface {
	// StreamAnswer invokes the generative model in streaming mode.
	// Each produced chunk is relayed to onToken before the call returns.
	// On clean completion the full answer text is returned; if the stream
	// fails or the context is cancelled mid-stream, an error is returned
	// and the partial output must not be treated as an answer.
	StreamAnswer(ctx context.Context, system string, history []Turn, onToken StreamFunc) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and ChatModel instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// ChatModel returns the answer generation service.
	// The returned ChatModel is safe for concurrent use.
	ChatModel() ChatModel

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
