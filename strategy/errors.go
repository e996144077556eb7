package strategy

import "errors"

var (
	// ErrInvalidK indicates a strategy with K below 1.
	ErrInvalidK = errors.New("strategy K must be at least 1")

	// ErrUnknownKind indicates an unrecognized strategy kind.
	ErrUnknownKind = errors.New("unknown strategy kind")

	// ErrUnknownProfile indicates a profile name that has no definition.
	ErrUnknownProfile = errors.New("unknown retrieval profile")
)
