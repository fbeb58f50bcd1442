// Package parse implements the low-level tokenizer and token cursor used by
// the mlcli parser engine.
//
// Split turns a raw command line into tokens. Unlike a plain whitespace
// splitter it understands bracket/brace grouping, quoting and escaping: a
// bracketed or quoted substring, however deeply nested, is always returned
// as a single token. This is what allows list and struct argument values to
// be re-tokenized independently of the surrounding command line.
package parse

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/ef-ds/deque"
)

var (
	// ErrUnbalancedGroup is returned when a group marker is left open at the
	// end of input.
	ErrUnbalancedGroup = errors.New("unbalanced group")
	// ErrUnterminatedQuote is returned when a quote is left open at the end
	// of input.
	ErrUnterminatedQuote = errors.New("unterminated quote")
)

// Splitter holds the character classes recognized while splitting. The zero
// value is not useful - use NewSplitter.
type Splitter struct {
	// Separators are the token separators. Empty means unicode whitespace.
	Separators []rune
	// Groups maps a group opening rune to its closing rune.
	Groups map[rune]rune
	// Escapes lists the escape runes. An escape rune is dropped and the rune
	// following it is taken literally.
	Escapes []rune
	// Quotes lists the quoting runes. Quotes are kept in the token so that
	// value conversion can strip exactly one layer later on.
	Quotes []rune
}

// NewSplitter returns a Splitter using the given separators (unicode
// whitespace when none are given), '[' ']' and '{' '}' grouping, backslash
// escaping and single/double quoting.
func NewSplitter(separators ...rune) *Splitter {
	return &Splitter{
		Separators: separators,
		Groups:     map[rune]rune{'[': ']', '{': '}'},
		Escapes:    []rune{'\\'},
		Quotes:     []rune{'\'', '"'},
	}
}

// Split tokenizes s. It never drops non-separator content and never splits
// inside an open group or quote. An error is returned when a group or quote
// is left unbalanced.
func (l *Splitter) Split(s string) ([]string, error) {
	var (
		tokens []string
		cur    strings.Builder
		groups deque.Deque // stack of pending group close markers
		quoted rune
		escape bool
	)

	flush := func() {
		if token := strings.TrimSpace(cur.String()); token != "" {
			tokens = append(tokens, token)
		}
		cur.Reset()
	}

	for _, c := range s {
		if escape {
			cur.WriteRune(c)
			escape = false
			continue
		}
		if l.isEscape(c) {
			escape = true
			continue
		}
		if l.isQuote(c) && groups.Len() == 0 {
			if quoted == c {
				quoted = 0
			} else if quoted == 0 {
				quoted = c
			}
			cur.WriteRune(c)
			continue
		}
		if quoted != 0 {
			cur.WriteRune(c)
			continue
		}
		if end, ok := l.Groups[c]; ok {
			groups.PushBack(end)
			cur.WriteRune(c)
			continue
		}
		if back, ok := groups.Back(); ok && back.(rune) == c {
			groups.PopBack()
			cur.WriteRune(c)
			continue
		}
		if groups.Len() == 0 && l.isSeparator(c) {
			flush()
			continue
		}
		cur.WriteRune(c)
	}

	flush()
	if n := groups.Len(); n > 0 {
		return nil, fmt.Errorf("%w: %q is missing %d closing marker(s)", ErrUnbalancedGroup, s, n)
	}
	if quoted != 0 {
		return nil, fmt.Errorf("%w: %q is missing a closing %q", ErrUnterminatedQuote, s, quoted)
	}

	return tokens, nil
}

func (l *Splitter) isSeparator(c rune) bool {
	if len(l.Separators) == 0 {
		return unicode.IsSpace(c)
	}
	for _, sep := range l.Separators {
		if c == sep {
			return true
		}
	}
	return false
}

func (l *Splitter) isEscape(c rune) bool {
	for _, e := range l.Escapes {
		if c == e {
			return true
		}
	}
	return false
}

func (l *Splitter) isQuote(c rune) bool {
	for _, q := range l.Quotes {
		if c == q {
			return true
		}
	}
	return false
}

// Split tokenizes s on whitespace with default grouping, escaping and
// quoting rules.
func Split(s string) ([]string, error) {
	return NewSplitter().Split(s)
}

// SplitSep tokenizes s on the given separators with default grouping,
// escaping and quoting rules. It is used to re-tokenize the interior of list
// ('[a, b]') and struct ('{k = v}') tokens on ',' and '='.
func SplitSep(s string, separators ...rune) ([]string, error) {
	return NewSplitter(separators...).Split(s)
}
