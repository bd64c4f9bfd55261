package tui

import (
	"bytes"

	"github.com/alecthomas/chroma/v2/quick"
)

const (
	highlightFormatter = "terminal256"
	highlightStyle     = "monokai"
)

// highlightJSON colours pretty-printed JSON for the terminal.
// Falls back to the plain text when highlighting is off or fails.
func (m *Model) highlightJSON(source string) string {
	if m.plain {
		return source
	}
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, source, "json", highlightFormatter, highlightStyle); err != nil {
		return source
	}
	return buf.String()
}
