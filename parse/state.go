package parse

// State is a cursor over a token list. One State is shared by the parser
// activations of a single parse call; each activation scans its own region
// and reports how many tokens it consumed.
type State interface {
	Pos() int            // current position
	Skip(n int)          // advance the current position by n
	Current() string     // token at the current position
	Advance() bool       // advance to the next token
	Remaining() []string // tokens from the current position on
	Len() int            // length of the token list
}

// DefaultState is the default State implementation.
type DefaultState struct {
	pos    int
	tokens []string
}

// NewState creates a State over tokens, positioned before the first token.
func NewState(tokens []string) State {
	return &DefaultState{
		pos:    -1,
		tokens: tokens,
	}
}

// Pos returns the current position.
func (s *DefaultState) Pos() int {
	return s.pos
}

// Skip advances the current position by n tokens.
func (s *DefaultState) Skip(n int) {
	s.pos += n
}

// Current returns the token at the current position or "" when out of range.
func (s *DefaultState) Current() string {
	if s.pos < 0 || s.pos >= len(s.tokens) {
		return ""
	}
	return s.tokens[s.pos]
}

// Advance moves to the next token, returning false at the end of the list.
func (s *DefaultState) Advance() bool {
	if s.pos+1 < len(s.tokens) {
		s.pos++
		return true
	}
	return false
}

// Remaining returns the tokens from the current position to the end.
func (s *DefaultState) Remaining() []string {
	if s.pos < 0 {
		return s.tokens
	}
	if s.pos >= len(s.tokens) {
		return nil
	}
	return s.tokens[s.pos:]
}

// Len returns the length of the token list.
func (s *DefaultState) Len() int {
	return len(s.tokens)
}
