/*
Package scanner defines an interface for scanners to be used with the parsers
of this module.

Two default scanner implementations are provided: (1) a thin wrapper over the Go std lib
'text/scanner', and (2) an adapter for lexmachine, living in sub-package `lexmach`.
Additionally, type Slice replays a prepared sequence of tokens.

Scanners may attach semantic values to tokens. Clients provide a Valuer which
converts lexemes of selected token types into values.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"fmt"
	"io"
	"text/scanner"

	"github.com/npillmayer/lalr"
	"github.com/npillmayer/lalr/value"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalr.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("lalr.scanner")
}

// EOF is identical to text/scanner.EOF.
// Token types are replicated here for practical reasons.
const (
	EOF       = scanner.EOF
	Ident     = scanner.Ident
	Int       = scanner.Int
	Float     = scanner.Float
	Char      = scanner.Char
	String    = scanner.String
	RawString = scanner.RawString
	Comment   = scanner.Comment
)

// Tokenizer is a scanner interface.
type Tokenizer interface {
	lalr.TokenSource
	SetErrorHandler(func(error))
}

// Valuer creates the semantic value for a token from its lexeme. Returning an
// empty value leaves the token without a value.
type Valuer func(tt lalr.TokType, lexeme string) (value.Value, error)

// DefaultTokenizer is a default implementation, backed by scanner.Scanner.
// Create one with GoTokenizer.
type DefaultTokenizer struct {
	scanner.Scanner
	lastToken    rune        // last token this scanner has produced
	Error        func(error) // error handler
	valuer       Valuer      // creates token values, may be nil
	unifyStrings bool        // convert single chars to strings
	unifyNumbers bool        // convert floats to ints
}

var _ Tokenizer = (*DefaultTokenizer)(nil)

// Default error reporting function for scanners
func logError(e error) {
	tracer().Errorf("scanner error: %v", e)
}

// GoTokenizer creates a scanner/tokenizer accepting tokens similar to the Go language.
func GoTokenizer(sourceID string, input io.Reader, opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{}
	t.Error = logError
	t.Init(input)
	t.Filename = sourceID
	t.Scanner.Error = func(s *scanner.Scanner, msg string) {
		t.Error(fmt.Errorf("%s: %s", s.Position, msg))
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetErrorHandler sets an error handler for the scanner.
func (t *DefaultTokenizer) SetErrorHandler(h func(error)) {
	if h == nil {
		t.Error = logError
		return
	}
	t.Error = h
}

// NextToken is part of the Tokenizer interface.
func (t *DefaultTokenizer) NextToken() lalr.Token {
	t.lastToken = t.Scan()
	if t.lastToken == scanner.EOF {
		tracer().Debugf("DefaultTokenizer reached end of input")
		pos := uint64(t.Pos().Offset)
		return lalr.Token{ID: lalr.EOF, Span: lalr.Span{pos, pos}}
	}
	if t.unifyStrings &&
		(t.lastToken == scanner.RawString || t.lastToken == scanner.Char) {
		t.lastToken = scanner.String
	}
	if t.unifyNumbers && t.lastToken == scanner.Float {
		t.lastToken = scanner.Int
	}
	tok := lalr.Token{
		ID:     lalr.TokType(t.lastToken),
		Lexeme: t.TokenText(),
		Span:   lalr.Span{uint64(t.Position.Offset), uint64(t.Pos().Offset)},
	}
	tok.Value = makeValue(t.valuer, tok.ID, tok.Lexeme, t.Error)
	return tok
}

// makeValue calls a valuer, if present, and reports errors to handler.
func makeValue(valuer Valuer, tt lalr.TokType, lexeme string, handler func(error)) value.Value {
	if valuer == nil {
		return value.Value{}
	}
	v, err := valuer(tt, lexeme)
	if err != nil {
		handler(fmt.Errorf("cannot create value for %q: %w", lexeme, err))
		v.Release()
		return value.Value{}
	}
	return v
}

// --- Scanner options for the default (Go) tokenizer ---------------------------

// Option configures a default tokenier.
type Option func(p *DefaultTokenizer)

// SkipComments sets or clears mode-flag SkipComments.
func SkipComments(b bool) Option {
	return func(t *DefaultTokenizer) {
		if b {
			t.Mode |= scanner.SkipComments
		} else {
			t.Mode &^= scanner.SkipComments
		}
	}
}

// UnifyStrings sets or clears option UnifyStrings:
// treat raw strings and single chars as strings.
func UnifyStrings(b bool) Option {
	return func(t *DefaultTokenizer) {
		t.unifyStrings = b
	}
}

// UnifyNumbers sets or clears option UnifyNumbers:
// treat floats as ints, i.e. report all numbers as Int.
func UnifyNumbers(b bool) Option {
	return func(t *DefaultTokenizer) {
		t.unifyNumbers = b
	}
}

// WithValuer sets a function to create values for tokens.
func WithValuer(v Valuer) Option {
	return func(t *DefaultTokenizer) {
		t.valuer = v
	}
}
