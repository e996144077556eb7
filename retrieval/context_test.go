package retrieval

import (
	"testing"

	"github.com/poiesic/lectern/core"
	"github.com/stretchr/testify/assert"
)

func TestBuildContext(t *testing.T) {
	assert.Equal(t, "", BuildContext(nil))

	passages := []core.Passage{
		{Text: "  first passage\n"},
		{Text: "with label", TimeRange: &core.TimeRange{Start: 0, End: 30, Formatted: "00:00 - 00:30"}},
		{Text: "computed label", TimeRange: &core.TimeRange{Start: 60, End: 90}},
	}
	want := "first passage\n\n[00:00 - 00:30] with label\n\n[01:00 - 01:30] computed label"
	assert.Equal(t, want, BuildContext(passages))
}
