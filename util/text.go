package util

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// TerminalWidth returns the column width of stdout when it is a terminal,
// or fallback otherwise.
func TerminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

// Wrap fills s into lines of at most width columns. The first line is
// prefixed with initialIndent, continuation lines with subsequentIndent.
// Words longer than the width are emitted on their own line rather than
// broken.
func Wrap(s string, width int, initialIndent, subsequentIndent string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return initialIndent
	}

	var b strings.Builder
	line := initialIndent + words[0]
	for _, word := range words[1:] {
		if lineWidth(line)+1+len(word) > width {
			b.WriteString(line)
			b.WriteString("\n")
			line = subsequentIndent + word
			continue
		}
		line += " " + word
	}
	b.WriteString(line)

	return b.String()
}

// lineWidth counts tabs as 8 columns, matching how terminals expand the
// indentation used in usage output.
func lineWidth(line string) int {
	width := 0
	for _, c := range line {
		if c == '\t' {
			width += 8
		} else {
			width++
		}
	}
	return width
}
