package intent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/lectern/ai"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultMaxTokens = 16
)

// Classifier maps a free-text query to an Intent using a text-generation model.
// The model's label is cleaned but not validated; unknown labels are returned as is.
type Classifier struct {
	completer ai.Completer
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithTimeout bounds each classification call. Default is 10s.
func WithTimeout(d time.Duration) Option {
	return func(c *Classifier) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", d)
		}
		c.timeout = d
		return nil
	}
}

// NewClassifier creates a classifier backed by completer.
func NewClassifier(completer ai.Completer, opts ...Option) (*Classifier, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}

	c := &Classifier{
		completer: completer,
		timeout:   defaultTimeout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.logger = c.logger.With("component", "intent-classifier")
	return c, nil
}

// Classify returns the intent label the model assigns to query.
func (c *Classifier) Classify(ctx context.Context, query string) (Intent, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reply, err := c.completer.Complete(ctx, []ai.Message{
		ai.SystemMessage(classificationPrompt),
		ai.UserMessage(query),
	}, ai.WithTemperature(0), ai.WithMaxTokens(defaultMaxTokens))
	if err != nil {
		c.logger.Warn("classification call failed", "err", err)
		return "", fmt.Errorf("%w: %w", ErrClassificationUnavailable, err)
	}

	label := ai.CleanResponse(reply)
	if label == "" {
		return "", fmt.Errorf("%w: blank label", ErrClassificationUnavailable)
	}

	result := Intent(label)
	if !result.IsKnown() {
		c.logger.Debug("model returned unrecognized intent", "label", label)
	}
	return result, nil
}
