package storage

import (
	"context"

	"github.com/poiesic/lectern/core"
)

// Logical table names. Each content type gets its own table so that document
// chunks and transcript chunks never compete in the same similarity search.
const (
	// TableDocuments holds chunks extracted from uploaded documents (PDF text).
	TableDocuments = "embedding_documents"

	// TableTranscripts holds time-coded video transcript chunks.
	TableTranscripts = "youtube_transcript_embeddings"
)

// VectorStore stores embedding records for one logical table and answers
// similarity queries over them. Implementations must be safe for concurrent use.
type VectorStore interface {
	// Table returns the logical table name this store is scoped to.
	Table() string

	// Dimensions returns the configured vector dimensionality.
	// Zero means the table accepts any dimensionality.
	Dimensions() int

	// Insert writes one or more records in a single transaction.
	// Generates IDs from the table sequence and sets InsertedAt.
	// Returns ErrDimensionMismatch, and writes nothing, if any vector has the wrong length.
	Insert(ctx context.Context, records ...*core.EmbeddingRecord) ([]*core.EmbeddingRecord, error)

	// SimilaritySearch returns up to k records nearest to vector across the whole
	// table, ordered by similarity score (highest first).
	SimilaritySearch(ctx context.Context, vector []float32, k int) ([]*core.SearchResult, error)

	// UpdateVectors replaces the vectors of existing records.
	// Returns ErrNotFound if any record doesn't exist.
	UpdateVectors(ctx context.Context, records ...*core.EmbeddingRecord) error

	// DeleteByDocument removes every record of a document and returns how many
	// were removed. Deleting an unknown document is not an error.
	DeleteByDocument(ctx context.Context, documentID string) (int, error)

	// CountByDocument returns the number of records stored for a document.
	CountByDocument(ctx context.Context, documentID string) (int, error)

	// ListByDocument returns all records of a document ordered by SequenceIndex.
	ListByDocument(ctx context.Context, documentID string) ([]*core.EmbeddingRecord, error)

	// Count returns the number of records in the table.
	Count(ctx context.Context) (int, error)

	// ForEach calls fn with batches of at most batchSize records until every
	// record in the table has been visited or fn returns an error.
	ForEach(ctx context.Context, batchSize int, fn func([]*core.EmbeddingRecord) error) error

	// Close releases resources held by the store. The backend is not closed.
	Close() error
}

// CheckpointStore persists progress markers for long-running jobs over a table,
// such as re-embedding, so they can resume after interruption.
type CheckpointStore interface {
	SaveCheckpoint(ctx context.Context, name string, lastID core.ID) error
	LoadCheckpoint(ctx context.Context, name string) (core.ID, bool, error)
	ClearCheckpoint(ctx context.Context, name string) error
}
