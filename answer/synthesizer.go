package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/retrieval"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultTemperature = 0.2
	defaultMaxTokens   = 1024
)

// Synthesizer turns retrieved passages into an answer with a text-generation model.
type Synthesizer struct {
	completer    ai.Completer
	systemPrompt string
	temperature  float64
	maxTokens    int
	timeout      time.Duration
	logger       *slog.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synthesizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithSystemPrompt replaces the default instructions.
func WithSystemPrompt(prompt string) Option {
	return func(s *Synthesizer) error {
		if strings.TrimSpace(prompt) == "" {
			return fmt.Errorf("system prompt cannot be empty")
		}
		s.systemPrompt = prompt
		return nil
	}
}

// WithTemperature sets the sampling temperature. Default is 0.2.
func WithTemperature(t float64) Option {
	return func(s *Synthesizer) error {
		if t < 0 || t > 2 {
			return fmt.Errorf("temperature must be between 0 and 2, got %v", t)
		}
		s.temperature = t
		return nil
	}
}

// WithMaxTokens caps the answer length. Default is 1024.
func WithMaxTokens(n int) Option {
	return func(s *Synthesizer) error {
		if n < 1 {
			return fmt.Errorf("max tokens must be positive, got %d", n)
		}
		s.maxTokens = n
		return nil
	}
}

// WithTimeout bounds each completion call. Default is 30s.
func WithTimeout(d time.Duration) Option {
	return func(s *Synthesizer) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", d)
		}
		s.timeout = d
		return nil
	}
}

// NewSynthesizer creates a synthesizer backed by completer.
func NewSynthesizer(completer ai.Completer, opts ...Option) (*Synthesizer, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}

	s := &Synthesizer{
		completer:    completer,
		systemPrompt: defaultSystemPrompt,
		temperature:  defaultTemperature,
		maxTokens:    defaultMaxTokens,
		timeout:      defaultTimeout,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "synthesizer")
	return s, nil
}

// Answer asks the model to answer question from passages, in rank order.
func (s *Synthesizer) Answer(ctx context.Context, question string, passages []core.Passage) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}
	if len(passages) == 0 {
		return "", ErrNoContext
	}
	return s.AnswerFromContext(ctx, question, retrieval.BuildContext(passages))
}

// AnswerFromContext answers question from an already assembled context string.
func (s *Synthesizer) AnswerFromContext(ctx context.Context, question, contextText string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}
	if strings.TrimSpace(contextText) == "" {
		return "", ErrNoContext
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	messages := []ai.Message{
		ai.SystemMessage(s.systemPrompt),
		ai.UserMessage(buildPrompt(question, contextText)),
	}

	start := time.Now()
	reply, err := s.completer.Complete(ctx, messages,
		ai.WithTemperature(s.temperature),
		ai.WithMaxTokens(s.maxTokens))
	if err != nil {
		s.logger.Error("completion failed", "err", err)
		return "", fmt.Errorf("%w: %w", ErrSynthesisFailed, err)
	}

	reply = ai.CleanResponse(reply)
	if reply == "" {
		return "", fmt.Errorf("%w: %w", ErrSynthesisFailed, ai.ErrEmptyResponse)
	}

	s.logger.Debug("answered question",
		"context_chars", len(contextText),
		"answer_chars", len(reply),
		"duration", time.Since(start))
	return reply, nil
}
