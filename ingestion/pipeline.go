package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/core"
	"github.com/poiesic/lectern/storage"
)

const (
	defaultBatchSize   = 32
	defaultMaxAttempts = 3
	defaultBaseDelay   = 500 * time.Millisecond
	defaultTimeout     = 10 * time.Second
)

// Pipeline turns pre-split chunks of one document into stored embedding records.
type Pipeline struct {
	store       storage.VectorStore
	embedder    ai.Embedder
	batchSize   int
	maxAttempts int
	baseDelay   time.Duration
	timeout     time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithBatchSize sets how many chunks are sent to the embedder per call.
// Default is 32.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return fmt.Errorf("batch size must be positive, got %d", size)
		}
		p.batchSize = size
		return nil
	}
}

// WithRetry sets the attempts per embedding batch and the initial backoff,
// which doubles after each failure. Default is 3 attempts from 500ms.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts < 1 {
			return fmt.Errorf("max attempts must be positive, got %d", maxAttempts)
		}
		if baseDelay < 0 {
			return fmt.Errorf("base delay cannot be negative, got %s", baseDelay)
		}
		p.maxAttempts = maxAttempts
		p.baseDelay = baseDelay
		return nil
	}
}

// WithTimeout bounds each embedder and store call. Default is 10s.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", d)
		}
		p.timeout = d
		return nil
	}
}

// NewPipeline creates a pipeline writing to store.
// embedder must be the model queries will be embedded with.
func NewPipeline(store storage.VectorStore, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	p := &Pipeline{
		store:       store,
		embedder:    embedder,
		batchSize:   defaultBatchSize,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		timeout:     defaultTimeout,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.logger = p.logger.With("component", "ingestion", "table", store.Table())
	return p, nil
}

// Rejection reports a chunk that was not ingested.
type Rejection struct {
	Index  int // Position in the input slice
	Reason string
	Err    error
}

// Result summarizes one ingestion call. Ingested may be zero, which is a
// successful outcome the caller decides how to handle.
type Result struct {
	DocumentID string
	Total      int
	Ingested   int
	Rejected   []Rejection
	RecordIDs  []core.ID
}

// Ingest validates, embeds and stores chunks under documentID.
//
// Invalid chunks are reported in Result.Rejected and the rest proceed. If any
// valid chunk cannot be embedded the call fails with ErrIngestionPartialFailure
// and nothing is written. All records are written in one store transaction.
// Ingesting the same document twice appends a second copy of its chunks.
func (p *Pipeline) Ingest(ctx context.Context, documentID string, chunks []core.Chunk) (*Result, error) {
	if err := core.ValidateDocumentID(documentID); err != nil {
		return nil, err
	}

	result := &Result{
		DocumentID: documentID,
		Total:      len(chunks),
		Rejected:   []Rejection{},
		RecordIDs:  []core.ID{},
	}

	records := p.buildRecords(documentID, chunks, result)
	if len(records) == 0 {
		p.logger.Warn("no valid chunks to ingest", "document_id", documentID, "total", len(chunks))
		return result, nil
	}

	if err := p.embedRecords(ctx, records); err != nil {
		return result, fmt.Errorf("%w: document %s: %w", ErrIngestionPartialFailure, documentID, err)
	}

	added, err := p.insert(ctx, records)
	if err != nil {
		p.logger.Error("failed to write records", "document_id", documentID, "records", len(records), "err", err)
		return result, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	for _, record := range added {
		result.RecordIDs = append(result.RecordIDs, record.Id)
	}
	result.Ingested = len(added)

	p.logger.Info("ingested document",
		"document_id", documentID,
		"ingested", result.Ingested,
		"total", result.Total,
		"rejected", len(result.Rejected))
	return result, nil
}

// DeleteDocument removes every stored chunk of documentID and returns how many were removed.
func (p *Pipeline) DeleteDocument(ctx context.Context, documentID string) (int, error) {
	if err := core.ValidateDocumentID(documentID); err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	removed, err := p.store.DeleteByDocument(ctx, documentID)
	if err != nil {
		return 0, err
	}
	p.logger.Info("deleted document", "document_id", documentID, "removed", removed)
	return removed, nil
}

// Replace deletes the stored chunks of documentID and ingests chunks in their place.
// The two steps are separate transactions: if ingestion fails the document is left empty.
func (p *Pipeline) Replace(ctx context.Context, documentID string, chunks []core.Chunk) (*Result, error) {
	if _, err := p.DeleteDocument(ctx, documentID); err != nil {
		return nil, err
	}
	return p.Ingest(ctx, documentID, chunks)
}

// buildRecords converts valid chunks to records and records rejections on result.
func (p *Pipeline) buildRecords(documentID string, chunks []core.Chunk, result *Result) []*core.EmbeddingRecord {
	dims := p.store.Dimensions()
	records := make([]*core.EmbeddingRecord, 0, len(chunks))

	for i := range chunks {
		chunk := &chunks[i]
		if err := core.ValidateChunk(chunk); err != nil {
			p.reject(result, i, err)
			continue
		}
		if chunk.Vector != nil && dims > 0 && len(chunk.Vector) != dims {
			p.reject(result, i, fmt.Errorf("%w: precomputed vector has %d dimensions, table expects %d",
				storage.ErrDimensionMismatch, len(chunk.Vector), dims))
			continue
		}

		createdAt := chunk.CreatedAt
		if createdAt.IsZero() {
			createdAt = p.now()
		}
		records = append(records, &core.EmbeddingRecord{
			Vector:        chunk.Vector,
			Text:          chunk.Text,
			EmbeddingText: chunk.TextForEmbedding(),
			SequenceIndex: chunk.SequenceIndex,
			TimeRange:     chunk.TimeRange,
			Analytics:     chunk.Analytics,
			CreatedAt:     createdAt,
			Metadata:      core.DocumentMetadata(documentID),
			DocumentID:    documentID,
		})
	}
	return records
}

func (p *Pipeline) reject(result *Result, index int, err error) {
	result.Rejected = append(result.Rejected, Rejection{Index: index, Reason: err.Error(), Err: err})
	p.logger.Debug("rejected chunk", "document_id", result.DocumentID, "index", index, "err", err)
}

// embedRecords fills in vectors for records that arrived without one.
func (p *Pipeline) embedRecords(ctx context.Context, records []*core.EmbeddingRecord) error {
	var (
		pending []*core.EmbeddingRecord
		texts   []string
	)
	for _, record := range records {
		if len(record.Vector) == 0 {
			pending = append(pending, record)
			texts = append(texts, record.EmbeddingText)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	p.logger.Debug("embedding chunks", "chunks", len(texts), "precomputed", len(records)-len(pending))
	vectors, err := p.embedInBatches(ctx, texts)
	if err != nil {
		return err
	}
	for i, record := range pending {
		record.Vector = vectors[i]
	}
	return nil
}

func (p *Pipeline) insert(ctx context.Context, records []*core.EmbeddingRecord) ([]*core.EmbeddingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.store.Insert(ctx, records...)
}
