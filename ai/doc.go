// Copyright 2025 Poiesic Systems
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


// Package ai provides abstractions for AI services used in lectern.
//
// The package is designed around three interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - Completer: Generates text from a chat conversation
//   - AIProvider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors in ai/openai return interface types. Mock constructors
// return concrete types so tests can inject behavior and read call counts.
//
// # Configuration
//
// Config is built once, usually from the config package or CLI flags, and
// passed explicitly to providers. Nothing in this package reads the
// environment.
//
//	cfg := ai.NewConfig(
//	    ai.WithEmbeddingAPIKey(googleKey),
//	    ai.WithCompletionAPIKey(groqKey),
//	)
//	provider, err := openai.NewProvider(cfg)
//
// # Caching
//
// CachingEmbedder wraps any Embedder with an in-process cache of query
// embeddings keyed by a BLAKE2b hash of the text.
package ai
