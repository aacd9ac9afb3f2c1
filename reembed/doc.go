// Package reembed backfills product embeddings in batches.
//
// Products saved while the embedding service was unavailable, or indexed
// under an older embedding model, carry no vector and are invisible to
// retrieval. The reembedder walks every store's catalog, embeds the missing
// products from their name and description, and writes the vectors back.
// Batches run on a worker pool with retry and progress reporting.
package reembed
