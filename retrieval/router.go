package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/intent"
	"github.com/poiesic/lectern/strategy"
)

// IntentClassifier labels a query with an intent.
type IntentClassifier interface {
	Classify(ctx context.Context, query string) (intent.Intent, error)
}

// Request is a query against one document.
// When Intent is empty the router classifies the query.
type Request struct {
	Query      string
	DocumentID string
	Intent     intent.Intent
}

// Result is the outcome of routing a query.
type Result struct {
	Passages []core.Passage
	Context  string // Passages assembled for a language model
	Intent   intent.Intent
	Strategy strategy.Strategy

	// Fallback is set when classification failed and the default strategy was used.
	Fallback bool

	// Truncated is set when an exhaustive strategy returned fewer chunks than
	// the store holds for the document.
	Truncated bool
	Stored    int // Chunk count for the document, only read for exhaustive strategies
}

// Texts returns the retrieved passage texts in rank order.
func (r *Result) Texts() []string {
	return core.Texts(r.Passages)
}

// Router classifies a query, picks a strategy from its profile and retrieves passages.
type Router struct {
	classifier IntentClassifier
	retriever  *Retriever
	profile    strategy.Profile
	logger     *slog.Logger
}

// RouterOption configures a Router.
type RouterOption func(*Router) error

// WithRouterLogger sets a custom logger.
// Default is slog.Default().
func WithRouterLogger(logger *slog.Logger) RouterOption {
	return func(r *Router) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRouter creates a router. classifier may be nil, in which case requests
// without an explicit intent use the profile's default strategy.
func NewRouter(classifier IntentClassifier, retriever *Retriever, profile strategy.Profile, opts ...RouterOption) (*Router, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	r := &Router{
		classifier: classifier,
		retriever:  retriever,
		profile:    profile.Clone(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "router", "profile", profile.Name)
	return r, nil
}

// Profile returns a copy of the router's profile.
func (r *Router) Profile() strategy.Profile {
	return r.profile.Clone()
}

// Route answers req. See RouteWithMonitor.
func (r *Router) Route(ctx context.Context, req Request) (*Result, error) {
	return r.RouteWithMonitor(ctx, req, &noopMonitor{})
}

// RouteWithMonitor resolves the intent, selects a strategy and retrieves the
// passages. Classification failure never fails the request: the default
// strategy is used and Result.Fallback is set. Retrieval failures are returned
// wrapped in ErrRetrievalUnavailable.
func (r *Router) RouteWithMonitor(ctx context.Context, req Request, monitor Monitor) (*Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, intent.ErrEmptyQuery
	}
	if err := core.ValidateDocumentID(req.DocumentID); err != nil {
		return nil, err
	}
	monitor.Start(req)

	result := &Result{}
	result.Intent, result.Fallback = r.resolveIntent(ctx, req)
	monitor.Classified(result.Intent, result.Fallback)

	if result.Fallback {
		result.Strategy = r.profile.Default
	} else {
		result.Strategy = r.profile.Select(result.Intent)
	}
	monitor.StrategySelected(result.Strategy)

	passages, err := r.retriever.RetrieveWithMonitor(ctx, req.Query, req.DocumentID, result.Strategy.K, monitor)
	if err != nil {
		return nil, err
	}
	result.Passages = passages

	if result.Strategy.IsExhaustive() {
		r.checkCoverage(ctx, req.DocumentID, result, monitor)
	}

	result.Context = BuildContext(result.Passages)

	r.logger.Debug("routed query",
		"document_id", req.DocumentID,
		"intent", result.Intent,
		"strategy", result.Strategy.String(),
		"fallback", result.Fallback,
		"passages", len(result.Passages))
	monitor.Finish(result)
	return result, nil
}

// resolveIntent returns the request's intent, classifying when absent.
// The boolean is true when the default strategy must be used instead.
func (r *Router) resolveIntent(ctx context.Context, req Request) (intent.Intent, bool) {
	if req.Intent != "" {
		return req.Intent, false
	}
	if r.classifier == nil {
		return "", true
	}

	i, err := r.classifier.Classify(ctx, req.Query)
	if err != nil {
		if !errors.Is(err, intent.ErrClassificationUnavailable) {
			err = fmt.Errorf("%w: %w", intent.ErrClassificationUnavailable, err)
		}
		r.logger.Warn("classification failed, using default strategy", "err", err)
		return "", true
	}
	return i, false
}

// checkCoverage compares an exhaustive result with the stored chunk count.
// A failed count is logged and otherwise ignored.
func (r *Router) checkCoverage(ctx context.Context, documentID string, result *Result, monitor Monitor) {
	stored, err := r.retriever.CountByDocument(ctx, documentID)
	if err != nil {
		r.logger.Warn("could not count document chunks", "document_id", documentID, "err", err)
		return
	}
	result.Stored = stored
	if stored > len(result.Passages) {
		result.Truncated = true
		monitor.Truncated(stored, len(result.Passages))
		r.logger.Warn("exhaustive retrieval truncated",
			"document_id", documentID,
			"stored", stored,
			"retrieved", len(result.Passages),
			"ceiling", result.Strategy.K)
	}
}
