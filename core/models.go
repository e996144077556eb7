package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored embedding records.
// It is generated from a database sequence.
type ID uint64

// IDFromContent derives a deterministic 64-bit identifier from text using BLAKE2b.
// Identical content always produces the same value.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// TimeRange locates a chunk inside a time-coded source such as a video transcript.
// Start, End and Duration are in seconds.
type TimeRange struct {
	Start     float64
	End       float64
	Duration  float64
	Formatted string // e.g. "00:00 - 00:30"
}

// Analytics holds derived statistics for a transcript chunk.
type Analytics struct {
	WordCount    int
	SpeakingRate float64 // words per second
}

// Chunk is a bounded span of source text produced by upstream splitting.
// It is the unit of embedding and retrieval.
type Chunk struct {
	Text          string
	EmbeddingText string // Text used for vectorization; falls back to Text when empty
	DocumentID    string
	SequenceIndex int
	TimeRange     *TimeRange
	Analytics     *Analytics
	CreatedAt     time.Time
	Vector        []float32 // Optional precomputed embedding
}

// TextForEmbedding returns the text that should be sent to the embedding model.
func (c *Chunk) TextForEmbedding() string {
	if c.EmbeddingText != "" {
		return c.EmbeddingText
	}
	return c.Text
}

// EmbeddingRecord is the persisted vector representation of a Chunk.
type EmbeddingRecord struct {
	Id            ID
	Vector        []float32
	Text          string
	EmbeddingText string
	SequenceIndex int
	TimeRange     *TimeRange
	Analytics     *Analytics
	CreatedAt     time.Time         // When the source chunk was produced
	InsertedAt    time.Time         // When the record was written
	Metadata      map[string]string // Always carries the document id (see DocumentIDFromMetadata)

	// DocumentID is the canonical document id, normalized from Metadata on read.
	// It is not serialized separately.
	DocumentID string
}

// Passage is a retrieved span of text ready to be placed in a model context.
type Passage struct {
	Text          string
	DocumentID    string
	SequenceIndex int
	TimeRange     *TimeRange
	Score         float32
}

// PassageFromRecord converts a stored record and its similarity score into a Passage.
func PassageFromRecord(record *EmbeddingRecord, score float32) Passage {
	return Passage{
		Text:          record.Text,
		DocumentID:    record.DocumentID,
		SequenceIndex: record.SequenceIndex,
		TimeRange:     record.TimeRange,
		Score:         score,
	}
}

// Texts returns the passage texts in order.
func Texts(passages []Passage) []string {
	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	return texts
}

// SearchResult is a record returned by vector similarity search with its score.
type SearchResult struct {
	Record *EmbeddingRecord
	Score  float32
}

// FormatTimeRange renders a time range in seconds as "mm:ss - mm:ss",
// switching to "h:mm:ss" for positions past one hour.
func FormatTimeRange(start, end float64) string {
	return formatClock(start) + " - " + formatClock(end)
}

func formatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
