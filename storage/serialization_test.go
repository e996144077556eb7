package storage

import (
	"testing"
	"time"

	"github.com/poiesic/lectern/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("test content")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalEmbeddingRecord(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name   string
		record *core.EmbeddingRecord
	}{
		{
			name: "document chunk",
			record: &core.EmbeddingRecord{
				Id:            7,
				Vector:        []float32{0.1, -0.2, 0.3},
				Text:          "Mitochondria are the powerhouse of the cell.",
				SequenceIndex: 3,
				InsertedAt:    now,
				Metadata:      core.DocumentMetadata("doc-A"),
			},
		},
		{
			name: "transcript chunk",
			record: &core.EmbeddingRecord{
				Id:            8,
				Vector:        []float32{1, 0},
				Text:          "so today we're going to look at enzymes",
				EmbeddingText: "[00:30 - 01:00] so today we're going to look at enzymes",
				SequenceIndex: 1,
				TimeRange:     &core.TimeRange{Start: 30, End: 60, Duration: 30, Formatted: "00:30 - 01:00"},
				Analytics:     &core.Analytics{WordCount: 8, SpeakingRate: 0.27},
				CreatedAt:     now.Add(-time.Hour),
				InsertedAt:    now,
				Metadata:      core.DocumentMetadata("video-1"),
			},
		},
		{
			name: "zero times and empty vector",
			record: &core.EmbeddingRecord{
				Id:       9,
				Text:     "bare",
				Metadata: core.DocumentMetadata("doc-B"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalEmbeddingRecord(tt.record)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalEmbeddingRecord(data)
			require.NoError(t, err)

			assert.Equal(t, tt.record.Id, decoded.Id)
			assert.Equal(t, len(tt.record.Vector), len(decoded.Vector))
			for i := range tt.record.Vector {
				assert.Equal(t, tt.record.Vector[i], decoded.Vector[i])
			}
			assert.Equal(t, tt.record.Text, decoded.Text)
			assert.Equal(t, tt.record.EmbeddingText, decoded.EmbeddingText)
			assert.Equal(t, tt.record.SequenceIndex, decoded.SequenceIndex)
			assert.Equal(t, tt.record.TimeRange, decoded.TimeRange)
			assert.Equal(t, tt.record.Analytics, decoded.Analytics)
			assert.True(t, tt.record.CreatedAt.Equal(decoded.CreatedAt))
			assert.True(t, tt.record.InsertedAt.Equal(decoded.InsertedAt))
			assert.Equal(t, tt.record.Metadata, decoded.Metadata)
		})
	}
}

func TestUnmarshalEmbeddingRecord_NormalizesDocumentID(t *testing.T) {
	legacy := &core.EmbeddingRecord{
		Id:       1,
		Text:     "old row",
		Vector:   []float32{0.5},
		Metadata: map[string]string{core.MetadataLegacyDocumentID: "legacy-doc"},
	}

	decoded, err := UnmarshalEmbeddingRecord(MarshalEmbeddingRecord(legacy))
	require.NoError(t, err)
	assert.Equal(t, "legacy-doc", decoded.DocumentID)
}

func TestUnmarshalEmbeddingRecord_Truncated(t *testing.T) {
	data := MarshalEmbeddingRecord(&core.EmbeddingRecord{
		Id:       1,
		Text:     "some text",
		Vector:   []float32{0.1, 0.2},
		Metadata: core.DocumentMetadata("doc-A"),
	})

	_, err := UnmarshalEmbeddingRecord(data[:len(data)/2])
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestUnmarshalEmbeddingRecord_MetadataWinsOverStoredDocumentID(t *testing.T) {
	record := &core.EmbeddingRecord{
		Id:         2,
		Text:       "moved",
		Metadata:   core.DocumentMetadata("doc-new"),
		DocumentID: "doc-old",
	}

	decoded, err := UnmarshalEmbeddingRecord(MarshalEmbeddingRecord(record))
	require.NoError(t, err)
	assert.Equal(t, "doc-new", decoded.DocumentID)
}

func TestUnmarshalEmbeddingRecord_ZeroTimesStayZero(t *testing.T) {
	decoded, err := UnmarshalEmbeddingRecord(MarshalEmbeddingRecord(&core.EmbeddingRecord{
		Id:       3,
		Metadata: core.DocumentMetadata("doc"),
	}))
	require.NoError(t, err)
	assert.Equal(t, time.Time{}, decoded.CreatedAt)
	assert.Equal(t, time.Time{}, decoded.InsertedAt)
}

func TestEmbeddingRecordMUS_Skip(t *testing.T) {
	record := core.EmbeddingRecord{
		Id:        4,
		Vector:    []float32{0.25, -1},
		Text:      "skip me",
		TimeRange: &core.TimeRange{Start: 1, End: 2, Duration: 1},
		Metadata:  core.DocumentMetadata("doc"),
	}
	data := MarshalEmbeddingRecord(&record)

	n, err := core.EmbeddingRecordMUS.Skip(data)
	require.NoError(t, err)
	assert.Equal(t, core.EmbeddingRecordMUS.Size(record), n)
}
