package retrieval

import (
	"strings"

	"github.com/poiesic/lectern/core"
)

const passageSeparator = "\n\n"

// BuildContext joins passages in rank order into a single context string.
// Transcript passages are prefixed with their formatted time range so the
// model can cite where in the video an answer comes from.
func BuildContext(passages []core.Passage) string {
	var sb strings.Builder
	for i, p := range passages {
		if i > 0 {
			sb.WriteString(passageSeparator)
		}
		if label := timeLabel(p.TimeRange); label != "" {
			sb.WriteString("[")
			sb.WriteString(label)
			sb.WriteString("] ")
		}
		sb.WriteString(strings.TrimSpace(p.Text))
	}
	return sb.String()
}

func timeLabel(tr *core.TimeRange) string {
	if tr == nil {
		return ""
	}
	if tr.Formatted != "" {
		return tr.Formatted
	}
	return core.FormatTimeRange(tr.Start, tr.End)
}
