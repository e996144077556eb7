package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat turn sent to a Completer.
type Message struct {
	Role    Role
	Content string
}

// SystemMessage builds a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage builds a user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// CompleteOptions holds per-call generation settings.
type CompleteOptions struct {
	Temperature float64
	MaxTokens   int // Zero leaves the provider default
}

// CompleteOption is a functional option for a single completion call.
type CompleteOption func(*CompleteOptions)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) CompleteOption {
	return func(o *CompleteOptions) {
		o.Temperature = t
	}
}

// WithMaxTokens caps the length of the generated reply.
func WithMaxTokens(n int) CompleteOption {
	return func(o *CompleteOptions) {
		o.MaxTokens = n
	}
}

// ApplyCompleteOptions returns the options with defaults (temperature 0) applied.
func ApplyCompleteOptions(opts ...CompleteOption) CompleteOptions {
	var o CompleteOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Completer generates text from a chat conversation.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Complete returns the model's reply to messages, cleaned of surrounding
	// whitespace and markdown code fences.
	// Returns ErrEmptyResponse if the model produced no text.
	Complete(ctx context.Context, messages []Message, opts ...CompleteOption) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and Completer instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Completer returns the text generation service.
	// The returned Completer is safe for concurrent use.
	Completer() Completer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
