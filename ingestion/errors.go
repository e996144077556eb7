package ingestion

import "errors"

var (
	// ErrStoreRequired is returned when a vector store is not provided.
	ErrStoreRequired = errors.New("vector store required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrIngestionPartialFailure is returned when one or more chunks could not be
	// embedded after retries. Nothing is written when it is returned.
	ErrIngestionPartialFailure = errors.New("ingestion partial failure")

	// ErrWriteFailed is returned when the store rejects the batch write.
	ErrWriteFailed = errors.New("writing records failed")

	// ErrInvalidTranscript is returned when transcript JSON cannot be decoded at all.
	ErrInvalidTranscript = errors.New("invalid transcript data")
)
