package retrieval

import "errors"

var (
	// ErrProductRepositoryRequired is returned when no product repository is provided.
	ErrProductRepositoryRequired = errors.New("product repository is required")

	// ErrEmbedderRequired is returned when no embedder is provided.
	ErrEmbedderRequired = errors.New("embedder is required")
)
