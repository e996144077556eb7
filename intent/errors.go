package intent

import "errors"

var (
	// ErrClassificationUnavailable is returned when the text-generation service
	// fails or returns no usable label. Callers fall back to a default strategy.
	ErrClassificationUnavailable = errors.New("classification unavailable")

	// ErrEmptyQuery is returned for blank queries.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrCompleterRequired is returned when no completer is provided.
	ErrCompleterRequired = errors.New("completer required")
)
