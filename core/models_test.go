package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "same content produces same ID", content: "test content"},
		{name: "empty string", content: ""},
		{name: "long content", content: "This is a much longer piece of content that should still hash consistently"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestChunk_TextForEmbedding(t *testing.T) {
	tests := []struct {
		name  string
		chunk Chunk
		want  string
	}{
		{
			name:  "falls back to text",
			chunk: Chunk{Text: "raw text"},
			want:  "raw text",
		},
		{
			name:  "prefers embedding text",
			chunk: Chunk{Text: "raw text", EmbeddingText: "[00:00] raw text"},
			want:  "[00:00] raw text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.chunk.TextForEmbedding(); got != tt.want {
				t.Errorf("Chunk.TextForEmbedding() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPassageFromRecord(t *testing.T) {
	tr := &TimeRange{Start: 0, End: 30, Duration: 30, Formatted: "00:00 - 00:30"}
	record := &EmbeddingRecord{
		Id:            7,
		Text:          "hello",
		SequenceIndex: 3,
		TimeRange:     tr,
		DocumentID:    "doc-A",
	}

	p := PassageFromRecord(record, 0.75)
	if p.Text != "hello" || p.DocumentID != "doc-A" || p.SequenceIndex != 3 || p.TimeRange != tr || p.Score != 0.75 {
		t.Errorf("PassageFromRecord() = %+v", p)
	}
}

func TestTexts(t *testing.T) {
	got := Texts([]Passage{{Text: "a"}, {Text: "b"}, {Text: "a"}})
	want := []string{"a", "b", "a"}
	if len(got) != len(want) {
		t.Fatalf("Texts() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Texts()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if empty := Texts(nil); empty == nil || len(empty) != 0 {
		t.Errorf("Texts(nil) = %v, want empty non-nil slice", empty)
	}
}

func TestFormatTimeRange(t *testing.T) {
	tests := []struct {
		start, end float64
		want       string
	}{
		{0, 30, "00:00 - 00:30"},
		{65.9, 125, "01:05 - 02:05"},
		{3599, 3725, "59:59 - 1:02:05"},
		{-4, 10, "00:00 - 00:10"},
	}
	for _, tt := range tests {
		if got := FormatTimeRange(tt.start, tt.end); got != tt.want {
			t.Errorf("FormatTimeRange(%v, %v) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}
