package retrieval

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Semara-26/shiki-pilot/ai"
	"github.com/Semara-26/shiki-pilot/core"
	"github.com/Semara-26/shiki-pilot/storage"
)

// TopK is the number of catalog candidates retrieved per question.
const TopK = 3

// Result carries the grounding material for one question.
type Result struct {
	// Candidates are the closest catalog matches, ascending by distance.
	Candidates []*core.RankedProduct

	// CatalogCount is the store's total catalog size, retrieved or not.
	CatalogCount int

	// QuerySkipped is set when the question was blank and retrieval never
	// ran. The prompt assembler falls back to the general instruction.
	QuerySkipped bool
}

// Retriever ranks a store's catalog against a question.
type Retriever struct {
	products storage.ProductRepository
	embedder ai.Embedder
	topK     int
	logger   *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithTopK overrides the number of candidates retrieved per question.
func WithTopK(topK int) Option {
	return func(r *Retriever) error {
		if topK > 0 {
			r.topK = topK
		}
		return nil
	}
}

// NewRetriever creates a new retriever.
func NewRetriever(products storage.ProductRepository, embedder ai.Embedder, opts ...Option) (*Retriever, error) {
	if products == nil {
		return nil, ErrProductRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Retriever{
		products: products,
		embedder: embedder,
		topK:     TopK,
		logger:   slog.Default().With("component", "retriever"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve embeds the question and ranks the store's catalog against it.
// A blank question skips retrieval entirely. An embedding failure degrades
// to an empty candidate set rather than failing the turn; only repository
// errors propagate.
func (r *Retriever) Retrieve(ctx context.Context, storeID core.ID, query string) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return &Result{QuerySkipped: true}, nil
	}

	catalogCount, err := r.products.CountProducts(ctx, storeID)
	if err != nil {
		return nil, err
	}
	result := &Result{CatalogCount: catalogCount}
	if catalogCount == 0 {
		return result, nil
	}

	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Warn("Embedding unavailable, answering without catalog context",
			"store_id", storeID, "error", err)
		return result, nil
	}
	if !UsableVector(vector) {
		r.logger.Warn("Embedding response unusable, answering without catalog context",
			"store_id", storeID, "length", len(vector))
		return result, nil
	}

	candidates, err := r.products.RankByDistance(ctx, storeID, FitDimension(vector), r.topK)
	if err != nil {
		return nil, err
	}

	result.Candidates = candidates
	return result, nil
}
