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


// Package retrieval turns a user's question into grounding context for the
// assistant.
//
// The pipeline embeds the query text, fits the vector to the fixed index
// width, and ranks the store's catalog by cosine distance. Failures on the
// embedding side never fail a turn: the retriever logs them and returns an
// empty candidate set, which the prompt assembler renders as an ungrounded
// answer instruction.
package retrieval
