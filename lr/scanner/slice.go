package scanner

import (
	"github.com/npillmayer/lalr"
)

// Slice is a token source over a prepared sequence of tokens. After the
// last token it will return EOF tokens.
type Slice struct {
	tokens []lalr.Token
	pos    int
}

var _ Tokenizer = (*Slice)(nil)

// FromTokens creates a token source delivering toks. The source takes
// ownership of the tokens' values.
func FromTokens(toks ...lalr.Token) *Slice {
	return &Slice{tokens: toks}
}

// SetErrorHandler is part of the Tokenizer interface. Slices do not produce
// errors.
func (s *Slice) SetErrorHandler(func(error)) {}

// NextToken is part of the Tokenizer interface.
func (s *Slice) NextToken() lalr.Token {
	if s.pos >= len(s.tokens) {
		var end uint64
		if len(s.tokens) > 0 {
			end = s.tokens[len(s.tokens)-1].Span.To()
		}
		return lalr.Token{ID: lalr.EOF, Span: lalr.Span{end, end}}
	}
	tok := s.tokens[s.pos]
	tok.Value = s.tokens[s.pos].Value.Move()
	s.pos++
	return tok
}

// Remaining returns the number of tokens not yet delivered.
func (s *Slice) Remaining() int {
	return len(s.tokens) - s.pos
}

// Release releases the values of all tokens not yet delivered.
func (s *Slice) Release() {
	for i := s.pos; i < len(s.tokens); i++ {
		s.tokens[i].Value.Release()
	}
}
