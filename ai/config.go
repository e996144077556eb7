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


package ai

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultEmbeddingHost   = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultEmbeddingModel  = "text-embedding-004"
	DefaultDimensions      = 768
	DefaultCompletionHost  = "https://api.groq.com/openai/v1"
	DefaultCompletionModel = "llama-3.3-70b-versatile"
	DefaultTimeout         = 10 * time.Second
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "https://generativelanguage.googleapis.com/v1beta/openai"
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Ingestion and querying must use the same model.
	EmbeddingModel string

	// EmbeddingAPIKey authenticates against the embedding host.
	// Empty is allowed for local servers that don't check keys.
	EmbeddingAPIKey string

	// Dimensions is the expected embedding vector length.
	// Vectors of any other length are rejected. Default: 768
	Dimensions int

	// CompletionHost is the base URL for the text-generation API used for
	// intent classification and answer synthesis.
	CompletionHost string

	// CompletionModel is the model identifier for text generation.
	CompletionModel string

	// CompletionAPIKey authenticates against the completion host.
	CompletionAPIKey string

	// Timeout bounds every individual provider call. Default: 10s
	Timeout time.Duration

	// RequestsPerSecond caps calls to each host. Zero disables limiting.
	RequestsPerSecond float64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithCompletionHost sets the completion service host URL.
func WithCompletionHost(host string) ConfigOption {
	return func(c *Config) {
		c.CompletionHost = host
	}
}

// WithHost sets both embedding and completion hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.CompletionHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithCompletionModel sets the completion model identifier.
func WithCompletionModel(model string) ConfigOption {
	return func(c *Config) {
		c.CompletionModel = model
	}
}

// WithEmbeddingAPIKey sets the embedding API key.
func WithEmbeddingAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingAPIKey = key
	}
}

// WithCompletionAPIKey sets the completion API key.
func WithCompletionAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.CompletionAPIKey = key
	}
}

// WithDimensions sets the expected embedding dimensionality.
func WithDimensions(dims int) ConfigOption {
	return func(c *Config) {
		c.Dimensions = dims
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithRequestsPerSecond sets the per-host request rate limit.
func WithRequestsPerSecond(rps float64) ConfigOption {
	return func(c *Config) {
		c.RequestsPerSecond = rps
	}
}

// DefaultConfig returns a Config pointing at the hosted Google embedding
// endpoint and the Groq completion endpoint. API keys are left empty.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost:   DefaultEmbeddingHost,
		EmbeddingModel:  DefaultEmbeddingModel,
		Dimensions:      DefaultDimensions,
		CompletionHost:  DefaultCompletionHost,
		CompletionModel: DefaultCompletionModel,
		Timeout:         DefaultTimeout,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("http://localhost:11434"),
//	    WithEmbeddingModel("nomic-embed-text"),
//	    WithDimensions(768),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// Trailing slashes are removed. A bare host with no path, such as a local
// Ollama server, gets the /v1 suffix most OpenAI-compatible APIs require.
// Hosts that already carry a path are kept as given.
func (c *Config) Normalize() {
	c.EmbeddingHost = normalizeHost(c.EmbeddingHost)
	c.CompletionHost = normalizeHost(c.CompletionHost)
}

func normalizeHost(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return host
	}
	u, err := url.Parse(host)
	if err != nil || u.Host == "" {
		return host
	}
	if u.Path == "" {
		return host + "/v1"
	}
	return host
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.CompletionHost == "" {
		return errors.New("ai config: CompletionHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.CompletionModel == "" {
		return errors.New("ai config: CompletionModel is required")
	}
	if c.Dimensions < 1 {
		return errors.New("ai config: Dimensions must be positive")
	}
	if c.Timeout <= 0 {
		return errors.New("ai config: Timeout must be positive")
	}
	if c.RequestsPerSecond < 0 {
		return errors.New("ai config: RequestsPerSecond must not be negative")
	}
	return nil
}
