package lalr

import (
	"fmt"
	"text/scanner"

	"github.com/npillmayer/lalr/value"
)

// --- Tokens ----------------------------------------------------------------

// TokType is a category type for a Token. Terminals and non-terminals share the
// same id space. We do not define any grammar specific constants here, as
// it is up to applications to define them.
type TokType int

// Token ids reserved by the parser runtime. Grammars must not use them for
// their own symbols.
const (
	EOF          TokType = scanner.EOF // end of input, returned by token sources when exhausted
	ErrorToken   TokType = -1024       // pseudo-token injected during error recovery
	Undetermined TokType = -1025       // no token has been fetched yet
)

// IsSentinel is a predicate: is t one of the token ids reserved by the runtime?
func IsSentinel(t TokType) bool {
	return t == EOF || t == ErrorToken || t == Undetermined
}

// TokTypeStringer is a type to be provided by a scanner/parser combination to be able
// to print out token categories.
type TokTypeStringer func(TokType) string

// StateID identifies a state of an LALR(1) automaton.
type StateID int

// Token represents an input token. Tokens are usually produced by a scanner and
// reflect terminals in a language.
//
// An example would be a token for a floating point numer:
//
//    ID     = Float       // identifier for this kind of tokens (application specific)
//    Lexeme = "3.1416"    // lexeme how it appeared in the input stream
//    Value  = 3.1416      // a value.Value holding a float64
//    Span   = 67…73       // occured from position 67 in the input stream
//
// A token owns its value. Handing a token to a parser transfers ownership of
// the value to the parser.
type Token struct {
	ID     TokType
	Lexeme string
	Value  value.Value
	Span   Span
}

// NoToken returns a token with id Undetermined, i.e. an empty token slot.
func NoToken() Token {
	return Token{ID: Undetermined}
}

func (t Token) String() string {
	switch t.ID {
	case EOF:
		return "<EOF>"
	case ErrorToken:
		return "<error>"
	case Undetermined:
		return "<none>"
	}
	return fmt.Sprintf("[%d|%q]%s", t.ID, t.Lexeme, t.Span)
}

// TokenSource is the single call a parser makes to the outside world to read
// input. Sources signal exhaustion by returning tokens with id EOF, repeatedly
// if called again.
type TokenSource interface {
	NextToken() Token
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a length of input token run. For every
// terminal and non-terminal, the parser will track which input positions
// this symbol covers. A span denotes a start position and the position just
// behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

// Extend returns the smallest span covering s and other. Null spans are neutral.
func (s Span) Extend(other Span) Span {
	if s.IsNull() {
		return other
	}
	if other.IsNull() {
		return s
	}
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
