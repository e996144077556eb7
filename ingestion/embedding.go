package ingestion

import (
	"context"
	"fmt"

	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/reembed"
)

// embedInBatches embeds texts batchSize at a time, retrying each batch.
// The result has one vector per input text, in input order.
func (p *Pipeline) embedInBatches(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += p.batchSize {
		end := min(start+p.batchSize, len(texts))
		batch := texts[start:end]

		var embeddings [][]float32
		err := reembed.RetryWithBackoff(ctx, func() error {
			callCtx, cancel := context.WithTimeout(ctx, p.timeout)
			defer cancel()

			var err error
			embeddings, err = p.embedder.EmbedTexts(callCtx, batch)
			if err != nil {
				return err
			}
			if len(embeddings) != len(batch) {
				return fmt.Errorf("%w: expected %d, received %d", ai.ErrEmbeddingCount, len(batch), len(embeddings))
			}
			return nil
		}, p.maxAttempts, p.baseDelay)
		if err != nil {
			p.logger.Error("failed to embed batch",
				"batch_start", start,
				"batch_size", len(batch),
				"attempts", p.maxAttempts,
				"err", err)
			return nil, fmt.Errorf("chunks %d-%d: %w", start, end-1, err)
		}
		vectors = append(vectors, embeddings...)
	}
	return vectors, nil
}
