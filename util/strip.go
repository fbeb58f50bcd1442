// Package util holds small helpers shared by the parser and renderer.
package util

import "strings"

// Strip removes surrounding whitespace and one matching layer of single or
// double quotes from s. The tokenizer keeps quote delimiters in tokens so
// that exactly one layer can be removed here, before value conversion.
func Strip(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first := s[0]
		if (first == '\'' || first == '"') && s[len(s)-1] == first {
			s = s[1 : len(s)-1]
		}
	}
	return strings.TrimSpace(s)
}
