// Package annotate prefixes source lines with their 1-based line numbers so
// the model can reference exact locations as [n].
package annotate

import (
	"fmt"
	"regexp"
	"strings"
)

// Line is one source line and its 1-based number.
type Line struct {
	Number int
	Text   string
}

var prefixPattern = regexp.MustCompile(`^\[\d+\] ?`)

// Lines splits src into numbered lines. Leading and trailing blank lines are
// dropped first; a trailing \r is removed from every line.
func Lines(src string) []Line {
	src = strings.Trim(src, "\r\n")
	if src == "" {
		return nil
	}

	raw := strings.Split(src, "\n")
	lines := make([]Line, 0, len(raw))
	for i, text := range raw {
		lines = append(lines, Line{Number: i + 1, Text: strings.TrimSuffix(text, "\r")})
	}
	return lines
}

// Annotate renders src with every line as "[i] <content>".
func Annotate(src string) string {
	lines := Lines(src)
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[%d] %s", line.Number, line.Text)
	}
	return b.String()
}

// Strip removes the line-number prefixes added by Annotate.
func Strip(annotated string) string {
	if annotated == "" {
		return ""
	}
	lines := strings.Split(annotated, "\n")
	for i, line := range lines {
		lines[i] = prefixPattern.ReplaceAllString(line, "")
	}
	return strings.Join(lines, "\n")
}
