// Copyright 2025 ShikiPilot
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/Semara-26/shiki-pilot/ai"
	"github.com/Semara-26/shiki-pilot/core"
	"github.com/Semara-26/shiki-pilot/storage"
)

// Config holds configuration for the backfill operation.
type Config struct {
	// BatchSize is the number of products embedded per API call
	BatchSize int

	// Workers is the number of batches processed concurrently
	Workers int

	// ReportInterval is how often to report progress (number of products)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// All reembeds every product, not just those without a vector.
	// Set it after switching embedding models.
	All bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      50,
		Workers:        4,
		ReportInterval: 50,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder walks every store's catalog and backfills embeddings.
type Reembedder struct {
	stores    storage.StoreRepository
	products  storage.ProductRepository
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(stores storage.StoreRepository, products storage.ProductRepository, embedder ai.Embedder, config *Config, progress io.Writer) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		stores:    stores,
		products:  products,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(products, embedder, config.MaxRetries, config.RetryDelay),
	}
}

// Run executes the backfill. Batches are dispatched to a worker pool; the
// first batch failure stops submission and is returned after in-flight
// batches drain.
func (r *Reembedder) Run(ctx context.Context) error {
	pending, err := r.collect(ctx)
	if err != nil {
		return err
	}

	total := len(pending)
	if total == 0 {
		fmt.Fprintf(r.progress, "Nothing to embed (0 products)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Embedding %d products (batch size: %d, workers: %d)\n",
		total, r.config.BatchSize, r.config.Workers)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	pool, err := ants.NewPool(r.config.Workers)
	if err != nil {
		return fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for start := 0; start < total; start += r.config.BatchSize {
		mu.Lock()
		failed := firstErr != nil
		mu.Unlock()
		if failed {
			break
		}

		end := start + r.config.BatchSize
		if end > total {
			end = total
		}
		batch := pending[start:end]

		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if err := r.processor.Process(ctx, batch); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			tracker.Increment(len(batch))
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to submit batch: %w", err)
			}
			mu.Unlock()
			break
		}
	}

	wg.Wait()

	if firstErr != nil {
		return firstErr
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Backfill complete. Embedded %d products in %v (%.1f products/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}

// collect gathers the products to embed across all stores.
func (r *Reembedder) collect(ctx context.Context) ([]*core.Product, error) {
	stores, err := r.stores.ListStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}

	var pending []*core.Product
	for _, store := range stores {
		products, err := r.products.ListProducts(ctx, store.Id)
		if err != nil {
			return nil, fmt.Errorf("failed to list products of store %d: %w", store.Id, err)
		}
		for _, product := range products {
			if r.config.All || len(product.Embedding) == 0 {
				pending = append(pending, product)
			}
		}
	}
	return pending, nil
}
