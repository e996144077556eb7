package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/intent"
	"github.com/poiesic/lectern/storage"
	"github.com/poiesic/lectern/strategy"
)

const defaultTimeout = 10 * time.Second

// Retriever runs similarity search for a query and narrows the results to one document.
type Retriever struct {
	embedder ai.Embedder
	store    storage.VectorStore
	timeout  time.Duration
	logger   *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithTimeout bounds each embedder and store call. Default is 10s.
func WithTimeout(d time.Duration) Option {
	return func(r *Retriever) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", d)
		}
		r.timeout = d
		return nil
	}
}

// NewRetriever creates a retriever. embedder must be the model used at ingestion.
func NewRetriever(embedder ai.Embedder, store storage.VectorStore, opts ...Option) (*Retriever, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	r := &Retriever{
		embedder: embedder,
		store:    store,
		timeout:  defaultTimeout,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "retriever", "table", store.Table())
	return r, nil
}

// Retrieve returns up to k passages of documentID most similar to query.
// See RetrieveWithMonitor.
func (r *Retriever) Retrieve(ctx context.Context, query, documentID string, k int) ([]core.Passage, error) {
	return r.RetrieveWithMonitor(ctx, query, documentID, k, &noopMonitor{})
}

// RetrieveWithMonitor searches the whole table for the k nearest chunks, then
// keeps those belonging to documentID. The result keeps store rank order, is
// not deduplicated, and may be shorter than k when other documents hold closer
// matches. No matches yields an empty, non-nil slice.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, query, documentID string, k int, monitor Monitor) ([]core.Passage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, intent.ErrEmptyQuery
	}
	if err := core.ValidateDocumentID(documentID); err != nil {
		return nil, err
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", strategy.ErrInvalidK, k)
	}

	vector, err := r.embed(ctx, query)
	if err != nil {
		r.logger.Error("failed to embed query", "err", err)
		return nil, fmt.Errorf("%w: embedding query: %w", ErrRetrievalUnavailable, err)
	}

	results, err := r.search(ctx, vector, k)
	if err != nil {
		r.logger.Error("similarity search failed", "k", k, "err", err)
		return nil, fmt.Errorf("%w: similarity search: %w", ErrRetrievalUnavailable, err)
	}

	passages := make([]core.Passage, 0, len(results))
	for _, result := range results {
		if result.Record.DocumentID == documentID {
			passages = append(passages, core.PassageFromRecord(result.Record, result.Score))
		}
	}
	monitor.AfterSearch(len(results), len(passages))

	r.logger.Debug("retrieved passages",
		"document_id", documentID,
		"k", k,
		"returned", len(results),
		"kept", len(passages))
	return passages, nil
}

// CountByDocument returns how many chunks the store holds for documentID.
func (r *Retriever) CountByDocument(ctx context.Context, documentID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.store.CountByDocument(ctx, documentID)
}

func (r *Retriever) embed(ctx context.Context, query string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(vector) == 0 {
		return nil, core.ErrEmptyVector
	}
	return vector, nil
}

func (r *Retriever) search(ctx context.Context, vector []float32, k int) ([]*core.SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.store.SimilaritySearch(ctx, vector, k)
}
