package ai

import "errors"

var (
	// ErrEmptyResponse indicates the model returned no usable content.
	ErrEmptyResponse = errors.New("model returned empty response")

	// ErrDimensionMismatch indicates an embedding whose length differs from
	// the configured dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingCount indicates the provider returned a different number of
	// embeddings than texts submitted.
	ErrEmbeddingCount = errors.New("embedding count mismatch")
)
