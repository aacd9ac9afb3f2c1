// Package postgres implements the storage repositories on PostgreSQL with
// the pgvector extension. Similarity ranking runs in the database via the
// cosine distance operator, so it scales past the in-process scan the
// Badger backend does.
package postgres
