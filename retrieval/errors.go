package retrieval

import "errors"

var (
	// ErrRetrievalUnavailable is returned when the embedder or the vector store
	// fails. It is distinct from an empty result, which is not an error.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrStoreRequired is returned when a vector store is not provided.
	ErrStoreRequired = errors.New("vector store required")

	// ErrRetrieverRequired is returned when a retriever is not provided.
	ErrRetrieverRequired = errors.New("retriever required")
)
