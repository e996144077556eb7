package strategy

import (
	"fmt"
)

// Kind tags how a Strategy retrieves passages.
type Kind int

const (
	// KindTopK retrieves the K most similar chunks.
	KindTopK Kind = iota + 1

	// KindExhaustiveWithCeiling aims to retrieve every chunk of a document by
	// searching with a large K. Documents with more chunks than the ceiling
	// are truncated, and the router reports it.
	KindExhaustiveWithCeiling
)

func (k Kind) String() string {
	switch k {
	case KindTopK:
		return "top_k"
	case KindExhaustiveWithCeiling:
		return "exhaustive"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Strategy is a retrieval depth: either top-K or exhaustive up to a ceiling.
type Strategy struct {
	Kind Kind
	K    int // Result budget for top-K, ceiling for exhaustive
}

// TopK returns a strategy retrieving the k most similar chunks.
func TopK(k int) Strategy {
	return Strategy{Kind: KindTopK, K: k}
}

// ExhaustiveWithCeiling returns a strategy retrieving up to maxK chunks,
// intended to cover a whole document.
func ExhaustiveWithCeiling(maxK int) Strategy {
	return Strategy{Kind: KindExhaustiveWithCeiling, K: maxK}
}

// IsExhaustive reports whether the strategy aims for full coverage.
func (s Strategy) IsExhaustive() bool {
	return s.Kind == KindExhaustiveWithCeiling
}

// Validate checks the kind is known and K is at least 1.
func (s Strategy) Validate() error {
	if s.Kind != KindTopK && s.Kind != KindExhaustiveWithCeiling {
		return fmt.Errorf("%w: %s", ErrUnknownKind, s.Kind)
	}
	if s.K < 1 {
		return fmt.Errorf("%w: %s with K=%d", ErrInvalidK, s.Kind, s.K)
	}
	return nil
}

func (s Strategy) String() string {
	if s.IsExhaustive() {
		return fmt.Sprintf("exhaustive(ceiling=%d)", s.K)
	}
	return fmt.Sprintf("top(%d)", s.K)
}

// ParseKind converts "top_k" or "exhaustive" into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "top_k", "top", "topk":
		return KindTopK, nil
	case "exhaustive", "exhaustive_with_ceiling", "all":
		return KindExhaustiveWithCeiling, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}
