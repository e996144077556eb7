package ai

import (
	"context"
	"log/slog"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/poiesic/lectern/core"
)

const (
	defaultCacheEntries = 4096
)

// CachingEmbedder memoizes single-text embeddings, which is the query path.
// Batch calls pass straight through since ingestion rarely repeats text.
type CachingEmbedder struct {
	next   Embedder
	cache  *ristretto.Cache[uint64, []float32]
	logger *slog.Logger
}

var _ Embedder = (*CachingEmbedder)(nil)

// NewCachingEmbedder wraps next with a cache holding up to maxEntries vectors.
// maxEntries of zero or less uses a default size.
func NewCachingEmbedder(next Embedder, maxEntries int64) (*CachingEmbedder, error) {
	if maxEntries <= 0 {
		maxEntries = defaultCacheEntries
	}
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, []float32]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
		// Cost counts entries, not bytes
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &CachingEmbedder{
		next:   next,
		cache:  cache,
		logger: slog.Default().With("component", "embedding-cache"),
	}, nil
}

func cacheKey(text string) uint64 {
	return uint64(core.IDFromContent(text))
}

// EmbedText returns a cached vector when one exists, otherwise delegates.
func (c *CachingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(text)
	if vector, ok := c.cache.Get(key); ok {
		c.logger.Debug("embedding cache hit", "length", len(text))
		return vector, nil
	}

	vector, err := c.next.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(vector) > 0 {
		c.cache.Set(key, vector, 1)
		// Set is buffered; wait so the next identical query hits.
		c.cache.Wait()
	}
	return vector, nil
}

// EmbedTexts delegates without caching.
func (c *CachingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	return c.next.EmbedTexts(ctx, texts)
}

// Close releases the cache.
func (c *CachingEmbedder) Close() {
	c.cache.Close()
}
