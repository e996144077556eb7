package ingestion

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/poiesic/lectern/core"
)

// transcriptChunk is one chunk as written by the transcript service.
// Pointers distinguish missing numbers from zero.
type transcriptChunk struct {
	ID            *float64 `json:"id"`
	Text          string   `json:"text"`
	EmbeddingText string   `json:"embedding_text"`
	Timestamp     *struct {
		Start     *float64 `json:"start"`
		End       *float64 `json:"end"`
		Duration  *float64 `json:"duration"`
		Formatted string   `json:"formatted"`
	} `json:"timestamp"`
	Analytics *struct {
		WordCount    *float64 `json:"word_count"`
		SpeakingRate float64  `json:"speaking_rate"`
	} `json:"analytics"`
	Embedding []float32 `json:"embedding"`
	CreatedAt int64     `json:"createdAt"` // Unix milliseconds
}

type transcriptEnvelope struct {
	Transcript *struct {
		Chunks []json.RawMessage `json:"chunks"`
	} `json:"transcript"`
}

var errMissingField = errors.New("missing required field")

// DecodeTranscript reads transcript JSON of the form
// {"transcript": {"chunks": [...]}} and returns the valid chunks in order.
// Chunks that are malformed or lack id, text, timestamp start/end/duration or
// analytics word_count are reported as rejections, indexed by input position.
// A missing transcript or chunk list yields no chunks and no error.
func DecodeTranscript(r io.Reader) ([]core.Chunk, []Rejection, error) {
	var envelope transcriptEnvelope
	if err := json.NewDecoder(r).Decode(&envelope); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidTranscript, err)
	}
	if envelope.Transcript == nil {
		return []core.Chunk{}, []Rejection{}, nil
	}

	chunks := make([]core.Chunk, 0, len(envelope.Transcript.Chunks))
	rejected := []Rejection{}
	for i, raw := range envelope.Transcript.Chunks {
		chunk, err := decodeTranscriptChunk(raw)
		if err != nil {
			rejected = append(rejected, Rejection{Index: i, Reason: err.Error(), Err: err})
			continue
		}
		chunk.SequenceIndex = i
		chunks = append(chunks, chunk)
	}
	return chunks, rejected, nil
}

func decodeTranscriptChunk(raw json.RawMessage) (core.Chunk, error) {
	var tc transcriptChunk
	if err := json.Unmarshal(raw, &tc); err != nil {
		return core.Chunk{}, fmt.Errorf("%w: %w", core.ErrInvalidChunk, err)
	}

	switch {
	case tc.ID == nil:
		return core.Chunk{}, missing("id")
	case tc.Text == "":
		return core.Chunk{}, fmt.Errorf("%w: %w", core.ErrInvalidChunk, core.ErrEmptyText)
	case tc.Timestamp == nil || tc.Timestamp.Start == nil || tc.Timestamp.End == nil || tc.Timestamp.Duration == nil:
		return core.Chunk{}, missing("timestamp")
	case tc.Analytics == nil || tc.Analytics.WordCount == nil:
		return core.Chunk{}, missing("analytics.word_count")
	}

	tr := &core.TimeRange{
		Start:     *tc.Timestamp.Start,
		End:       *tc.Timestamp.End,
		Duration:  *tc.Timestamp.Duration,
		Formatted: tc.Timestamp.Formatted,
	}
	if tr.Formatted == "" {
		tr.Formatted = core.FormatTimeRange(tr.Start, tr.End)
	}

	chunk := core.Chunk{
		Text:          tc.Text,
		EmbeddingText: tc.EmbeddingText,
		TimeRange:     tr,
		Analytics: &core.Analytics{
			WordCount:    int(*tc.Analytics.WordCount),
			SpeakingRate: tc.Analytics.SpeakingRate,
		},
		Vector: tc.Embedding,
	}
	if tc.CreatedAt > 0 {
		chunk.CreatedAt = time.UnixMilli(tc.CreatedAt).UTC()
	}
	if err := core.ValidateChunk(&chunk); err != nil {
		return core.Chunk{}, err
	}
	return chunk, nil
}

func missing(field string) error {
	return fmt.Errorf("%w: %w %q", core.ErrInvalidChunk, errMissingField, field)
}
