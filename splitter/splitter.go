package splitter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/poiesic/lectern/core"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	// DefaultChunkSize is the maximum chunk length in characters.
	DefaultChunkSize = 300

	// DefaultChunkOverlap is how many characters consecutive chunks share.
	DefaultChunkOverlap = 50
)

// ErrInvalidSize is returned for a chunk size or overlap that cannot be used.
var ErrInvalidSize = errors.New("invalid chunk size")

// Splitter cuts extracted text into bounded chunks ready for ingestion.
// Whitespace runs are collapsed to single spaces before splitting.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
	inner        textsplitter.RecursiveCharacter
}

// Option configures a Splitter.
type Option func(*Splitter) error

// WithChunkSize sets the maximum chunk length. Default is 300.
func WithChunkSize(n int) Option {
	return func(s *Splitter) error {
		if n < 1 {
			return fmt.Errorf("%w: size %d", ErrInvalidSize, n)
		}
		s.chunkSize = n
		return nil
	}
}

// WithChunkOverlap sets the overlap between consecutive chunks. Default is 50.
func WithChunkOverlap(n int) Option {
	return func(s *Splitter) error {
		if n < 0 {
			return fmt.Errorf("%w: overlap %d", ErrInvalidSize, n)
		}
		s.chunkOverlap = n
		return nil
	}
}

// New creates a splitter.
func New(opts ...Option) (*Splitter, error) {
	s := &Splitter{
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.chunkOverlap >= s.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than size %d", ErrInvalidSize, s.chunkOverlap, s.chunkSize)
	}

	s.inner = textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(s.chunkSize),
		textsplitter.WithChunkOverlap(s.chunkOverlap),
		textsplitter.WithSeparators([]string{" ", ""}),
	)
	return s, nil
}

// SplitText returns the chunk texts for one span of text.
func (s *Splitter) SplitText(text string) ([]string, error) {
	text = CollapseWhitespace(text)
	if text == "" {
		return []string{}, nil
	}

	parts, err := s.inner.SplitText(text)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out, nil
}

// Split splits each page independently and numbers the resulting chunks
// consecutively across pages. Blank pages produce no chunks.
func (s *Splitter) Split(documentID string, pages ...string) ([]core.Chunk, error) {
	var chunks []core.Chunk
	for i, page := range pages {
		texts, err := s.SplitText(page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		for _, text := range texts {
			chunks = append(chunks, core.Chunk{
				Text:          text,
				DocumentID:    documentID,
				SequenceIndex: len(chunks),
			})
		}
	}
	if chunks == nil {
		chunks = []core.Chunk{}
	}
	return chunks, nil
}

// CollapseWhitespace replaces every whitespace run with one space and trims the ends.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
