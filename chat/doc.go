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


// Package chat manages conversation sessions and runs answer turns.
//
// Each store owns exactly one conversation thread. The session manager
// guards access to it: every read and append is checked against the store
// that the caller was resolved to, so one tenant can never touch another's
// messages.
//
// The orchestrator runs one question-answer turn. The user's message is
// persisted before the model is called; the assistant's message is
// persisted only after the stream finished cleanly. An aborted stream
// therefore leaves the user's question in the log and nothing else, and a
// turn is only successful once both sides of it are durable.
package chat
