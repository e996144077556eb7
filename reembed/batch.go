package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/storage"
)

// BatchProcessor re-embeds batches of records and writes the new vectors back.
type BatchProcessor struct {
	store          storage.VectorStore
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of attempts for each embedding call
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(store storage.VectorStore, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		store:          store,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds the embedding text of each record (falling back to its text)
// and replaces the stored vectors with the embedder's output as returned,
// the same vectors ingestion would have written.
func (bp *BatchProcessor) Process(ctx context.Context, records []*core.EmbeddingRecord) error {
	if len(records) == 0 {
		return nil
	}

	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = record.EmbeddingText
		if texts[i] == "" {
			texts[i] = record.Text
		}
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(records) {
		return fmt.Errorf("%w: expected %d, got %d", ai.ErrEmbeddingCount, len(records), len(embeddings))
	}

	updates := make([]*core.EmbeddingRecord, len(records))
	for i, record := range records {
		updates[i] = &core.EmbeddingRecord{Id: record.Id, Vector: embeddings[i]}
	}

	if err := bp.store.UpdateVectors(ctx, updates...); err != nil {
		return fmt.Errorf("failed to update records: %w", err)
	}
	return nil
}
