package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/Semara-26/shiki-pilot/ai"
	"github.com/Semara-26/shiki-pilot/core"
	"github.com/Semara-26/shiki-pilot/retrieval"
	"github.com/Semara-26/shiki-pilot/storage"
)

// BatchProcessor embeds one batch of products and writes the vectors back.
type BatchProcessor struct {
	products       storage.ProductRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(products storage.ProductRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		products:       products,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// embeddingInput is the text a product is indexed under: the name carries
// the vocabulary customers actually ask with, the description the detail.
func embeddingInput(product *core.Product) string {
	return fmt.Sprintf("%s. %s", product.Name, product.Description)
}

// Process embeds a batch of products and stores the fitted vectors.
func (bp *BatchProcessor) Process(ctx context.Context, batch []*core.Product) error {
	if len(batch) == 0 {
		return nil
	}

	texts := make([]string, len(batch))
	for i, product := range batch {
		texts[i] = embeddingInput(product)
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(batch) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(embeddings))
	}

	for i, product := range batch {
		// An unusable response (empty or NaN) is left unpersisted so a
		// later run can retry the product.
		if !retrieval.UsableVector(embeddings[i]) {
			continue
		}
		vector := retrieval.FitDimension(embeddings[i])
		if err := bp.products.SetEmbedding(ctx, product.Id, vector); err != nil {
			return fmt.Errorf("failed to store embedding for product %d: %w", product.Id, err)
		}
	}

	return nil
}
