package position

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Highlight renders the line holding pos with a caret under its column.
// Tabs before the column are preserved so the caret lines up in a terminal.
func (sf *SourceFile) Highlight(pos Position) string {
	if !pos.IsValid() || pos.Line > sf.LineCount() {
		return ""
	}

	line := sf.GetLine(pos.Line)

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%4d | %s\n", pos.Line, line))
	result.WriteString("     | ")

	runes := []rune(line)
	for i := 1; i < pos.Column; i++ {
		if i <= len(runes) && runes[i-1] == '\t' {
			result.WriteString("\t")
		} else {
			result.WriteString(" ")
		}
	}
	result.WriteString("^\n")

	return result.String()
}

// HighlightSpan is Highlight with the caret extended by '~' under the rest of
// the span's text on its first line. An invalid span falls back to its start.
func (sf *SourceFile) HighlightSpan(span Span) string {
	out := sf.Highlight(span.Start)
	if out == "" || !span.IsValid() {
		return out
	}

	text := sf.GetSpanText(span)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSuffix(text, "\r")
	if width := utf8.RuneCountInString(text); width > 1 {
		out = strings.TrimSuffix(out, "\n") + strings.Repeat("~", width-1) + "\n"
	}
	return out
}
