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


// Package storage defines the repository interfaces for stores, products,
// and conversations, plus the MUS serialization helpers shared by backends.
//
// Two backend implementations exist:
//
//   - storage/badger: embedded BadgerDB backend, also usable in-memory for
//     tests
//   - storage/postgres: PostgreSQL backend using pgx and pgvector-style
//     cosine distance ranking
//
// Tenant isolation is a storage-level contract: every product and chat read
// is scoped by store ID, and RankByDistance never returns another store's
// products regardless of vector similarity. The one-chat-per-store and
// one-store-per-owner invariants are enforced by each backend with a unique
// key or constraint, not with a read-then-write.
package storage
