package strategy

import (
	"testing"

	"github.com/poiesic/lectern/intent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileSelect(t *testing.T) {
	tests := []struct {
		intent     intent.Intent
		document   Strategy
		transcript Strategy
	}{
		{intent.SpecificQuestion, TopK(12), TopK(3)},
		{intent.GeneralQuestion, TopK(18), TopK(5)},
		{intent.Instruction, TopK(18), TopK(8)},
		{intent.Summarization, ExhaustiveWithCeiling(256), ExhaustiveWithCeiling(256)},
		{intent.Other, TopK(20), TopK(10)},
		{intent.Intent(""), TopK(30), TopK(10)},
		{intent.Intent("Specific_Question!"), TopK(30), TopK(10)},
		{intent.Intent("SUMMARIZATION"), TopK(30), TopK(10)},
	}

	doc := DocumentProfile()
	tr := TranscriptProfile()
	for _, tt := range tests {
		t.Run(string(tt.intent), func(t *testing.T) {
			assert.Equal(t, tt.document, doc.Select(tt.intent))
			assert.Equal(t, tt.transcript, tr.Select(tt.intent))
		})
	}
}

func TestBuiltinProfilesAreValid(t *testing.T) {
	require.NoError(t, DocumentProfile().Validate())
	require.NoError(t, TranscriptProfile().Validate())
}

func TestBuiltin(t *testing.T) {
	p, err := Builtin("document")
	require.NoError(t, err)
	assert.Equal(t, DocumentProfileName, p.Name)

	p, err = Builtin("transcript")
	require.NoError(t, err)
	assert.Equal(t, TranscriptProfileName, p.Name)

	_, err = Builtin("slides")
	assert.ErrorIs(t, err, ErrUnknownProfile)
}

func TestStrategyValidate(t *testing.T) {
	assert.NoError(t, TopK(1).Validate())
	assert.NoError(t, ExhaustiveWithCeiling(256).Validate())
	assert.ErrorIs(t, TopK(0).Validate(), ErrInvalidK)
	assert.ErrorIs(t, ExhaustiveWithCeiling(-1).Validate(), ErrInvalidK)
	assert.ErrorIs(t, Strategy{K: 5}.Validate(), ErrUnknownKind)
}

func TestProfileValidate_ReportsEveryBadEntry(t *testing.T) {
	p := DocumentProfile()
	p.ByIntent[intent.Other] = TopK(0)
	p.Default = TopK(-3)

	err := p.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidK)
	assert.Contains(t, err.Error(), "default")
	assert.Contains(t, err.Error(), "other")
}

func TestProfileClone(t *testing.T) {
	p := TranscriptProfile()
	c := p.Clone()
	c.ByIntent[intent.SpecificQuestion] = TopK(99)

	assert.Equal(t, TopK(3), p.Select(intent.SpecificQuestion))
}

func TestStrategyString(t *testing.T) {
	assert.Equal(t, "top(12)", TopK(12).String())
	assert.Equal(t, "exhaustive(ceiling=256)", ExhaustiveWithCeiling(256).String())
	assert.True(t, ExhaustiveWithCeiling(1).IsExhaustive())
	assert.False(t, TopK(1).IsExhaustive())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("top_k")
	require.NoError(t, err)
	assert.Equal(t, KindTopK, k)

	k, err = ParseKind("exhaustive")
	require.NoError(t, err)
	assert.Equal(t, KindExhaustiveWithCeiling, k)

	_, err = ParseKind("random")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
