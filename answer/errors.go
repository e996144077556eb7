package answer

import "errors"

var (
	// ErrCompleterRequired is returned when a completer is not provided.
	ErrCompleterRequired = errors.New("completer required")

	// ErrEmptyQuestion is returned for a blank question.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrNoContext is returned when there are no passages to answer from.
	ErrNoContext = errors.New("no passages to answer from")

	// ErrSynthesisFailed wraps completer failures.
	ErrSynthesisFailed = errors.New("answer synthesis failed")
)
