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


// Package ai provides abstractions for the AI services used by the store
// assistant.
//
// This package defines interfaces for the two external model boundaries:
// text embeddings and streamed answer generation. It follows the dependency
// inversion principle, allowing the retrieval and conversation logic to
// depend on abstractions rather than concrete implementations.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - ChatModel: Streams generated answers grounded in a system instruction
//   - AIProvider: Aggregates AI services for convenient initialization
//
// Both boundaries are treated as unreliable external dependencies: every
// call takes a context, should be bounded by a timeout, and surfaces its
// failure as an error result rather than a fault.
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/googleai: Production implementation using Gemini models via langchaingo
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (googleai.NewProvider, googleai.NewEmbedder) return
// INTERFACE types to enforce abstraction. Test utility constructors
// (mock.NewMockEmbedder, mock.NewMockChatModel) return CONCRETE types to
// enable behavior injection and call-count assertions.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithAPIKey(key))
//	provider, err := googleai.NewProvider(ctx, config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "kerupuk pedas")
package ai
