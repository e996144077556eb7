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


package openai

import (
	"log/slog"

	"github.com/poiesic/lectern/ai"
)

// Provider implements ai.AIProvider over two OpenAI-compatible endpoints that
// may live on different hosts: the embedding endpoint vectorizes chunks and
// queries, and the chat completion endpoint labels query intent and writes
// answers from retrieved context.
type Provider struct {
	config    *ai.Config
	embedder  *Embedder
	completer *Completer
	logger    *slog.Logger
}

// NewProvider validates config and builds the embedding and completion clients.
// Each client has its own API key and rate limiter.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}

	completer, err := newCompleter(config)
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "openai-provider")
	logger.Debug("AI provider ready",
		"embedding_host", config.EmbeddingHost,
		"embedding_model", config.EmbeddingModel,
		"dimensions", config.Dimensions,
		"completion_host", config.CompletionHost,
		"completion_model", config.CompletionModel)

	return &Provider{
		config:    config,
		embedder:  embedder,
		completer: completer,
		logger:    logger,
	}, nil
}

// Embedder returns the embedding client. Its vectors have config.Dimensions entries.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Completer returns the chat completion client used for intent labels and answers.
func (p *Provider) Completer() ai.Completer {
	return p.completer
}

// Close releases resources held by the provider. The HTTP clients hold no
// per-provider state, so there is nothing to release yet.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
