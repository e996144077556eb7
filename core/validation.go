package core

import (
	"fmt"
	"strings"
)

// ValidateDocumentID checks that a document id is usable as a scoping key.
// Document ids are opaque; only emptiness is rejected.
func ValidateDocumentID(documentID string) error {
	if strings.TrimSpace(documentID) == "" {
		return ErrEmptyDocumentID
	}
	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be blank (EmbeddingText alone is not enough to store a passage)
//   - TimeRange, when present, must not end before it starts
//
// NOT validated:
//   - DocumentID (attached by the ingestion pipeline)
//   - Vector (populated by the embedder unless precomputed)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if strings.TrimSpace(chunk.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}

	if err := ValidateTimeRange(chunk.TimeRange); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, err)
	}

	return nil
}

// ValidateTimeRange validates an optional time range.
func ValidateTimeRange(tr *TimeRange) error {
	if tr == nil {
		return nil
	}
	if tr.Start < 0 || tr.End < tr.Start {
		return fmt.Errorf("%w: start %.2f end %.2f", ErrInvalidTimeRange, tr.Start, tr.End)
	}
	return nil
}

// ValidateRecord validates an EmbeddingRecord before it is written.
func ValidateRecord(record *EmbeddingRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}
	if record.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyText)
	}
	if len(record.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyVector)
	}
	if _, ok := DocumentIDFromMetadata(record.Metadata); !ok {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyDocumentID)
	}
	return nil
}
