package openai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/lectern/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"
)

// Completer implements ai.Completer using OpenAI-compatible chat APIs.
type Completer struct {
	client  llms.Model
	timeout time.Duration
	limiter *rate.Limiter
	logger  *slog.Logger
}

// newCompleter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCompleter(config *ai.Config) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.CompletionHost),
		openai.WithToken(tokenOrNone(config.CompletionAPIKey)),
		openai.WithModel(config.CompletionModel),
		openai.WithHTTPClient(newHTTPClient(config.Timeout)),
	)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client:  client,
		timeout: config.Timeout,
		limiter: newLimiter(config.RequestsPerSecond),
		logger:  slog.Default().With("component", "openai-completer", "model", config.CompletionModel),
	}, nil
}

// NewCompleter creates a new completer using the provided configuration.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(config *ai.Config) (ai.Completer, error) {
	return newCompleter(config)
}

func toMessageContent(messages []ai.Message) []llms.MessageContent {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		role := llms.ChatMessageTypeHuman
		switch m.Role {
		case ai.RoleSystem:
			role = llms.ChatMessageTypeSystem
		case ai.RoleAssistant:
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(m.Content)},
		})
	}
	return content
}

// Complete sends the conversation to the model and returns the cleaned reply.
func (c *Completer) Complete(ctx context.Context, messages []ai.Message, opts ...ai.CompleteOption) (string, error) {
	o := ai.ApplyCompleteOptions(opts...)

	if err := wait(ctx, c.limiter); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	callOpts := []llms.CallOption{llms.WithTemperature(o.Temperature)}
	if o.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(o.MaxTokens))
	}

	response, err := c.client.GenerateContent(ctx, toMessageContent(messages), callOpts...)
	if err != nil {
		c.logger.Error("failed to generate content", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		c.logger.Debug("no choices returned from model")
		return "", fmt.Errorf("%w: no choices", ai.ErrEmptyResponse)
	}

	text := ai.CleanResponse(response.Choices[0].Content)
	if text == "" {
		return "", fmt.Errorf("%w: blank content", ai.ErrEmptyResponse)
	}
	return text, nil
}
