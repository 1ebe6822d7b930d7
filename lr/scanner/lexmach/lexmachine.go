package lexmach

import (
	"fmt"
	"strings"

	"github.com/npillmayer/lalr"
	"github.com/npillmayer/lalr/lr/scanner"
	"github.com/npillmayer/schuko/tracing"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// lexmachine adapter

// tracer traces with key 'lalr.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("lalr.scanner")
}

// LMAdapter is a lexmachine adapter to use lexmachine as a scanner.
type LMAdapter struct {
	Lexer  *lexmachine.Lexer
	Valuer scanner.Valuer // creates token values, may be nil
}

// NewLMAdapter creates a new lexmachine adapter. It receives a list of
// literals ('[', ';', …), a list of keywords ("if", "for", …) and a
// map for translating token strings to their values.
//
// NewLMAdapter will return an error if compiling the DFA failed.
func NewLMAdapter(init func(*lexmachine.Lexer), literals []string, keywords []string, tokenIds map[string]int) (*LMAdapter, error) {
	adapter := &LMAdapter{}
	adapter.Lexer = lexmachine.NewLexer()
	init(adapter.Lexer)
	for _, lit := range literals {
		r := "\\" + strings.Join(strings.Split(lit, ""), "\\")
		adapter.Lexer.Add([]byte(r), MakeToken(lit, tokenIds[lit]))
	}
	for _, name := range keywords {
		adapter.Lexer.Add([]byte(strings.ToLower(name)), MakeToken(name, tokenIds[name]))
	}
	if err := adapter.Lexer.Compile(); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// Scanner creates a scanner for a given input. The scanner will implement the
// Tokenizer interface.
func (lm *LMAdapter) Scanner(input string) (*LMScanner, error) {
	s, err := lm.Lexer.Scanner([]byte(input))
	if err != nil {
		return &LMScanner{}, err
	}
	return &LMScanner{scanner: s, valuer: lm.Valuer, end: uint64(len(input)), Error: logError}, nil
}

// LMScanner is a scanner type for lexmachine scanners, implementing the
// Tokenizer interface.
type LMScanner struct {
	scanner *lexmachine.Scanner
	valuer  scanner.Valuer
	end     uint64 // length of input
	Error   func(error)
}

var _ scanner.Tokenizer = (*LMScanner)(nil)

// SetErrorHandler sets an error handler for the scanner.
func (lms *LMScanner) SetErrorHandler(h func(error)) {
	if h == nil {
		lms.Error = logError
		return
	}
	lms.Error = h
}

// Default error reporting function for lexmachine-based scanners
func logError(e error) {
	tracer().Errorf("scanner error: %v", e)
}

// NextToken is part of the Tokenizer interface.
// Unconsumable input is reported to the error handler and skipped. Other
// scanning errors are reported as well; if the scanner cannot get past them,
// the rest of the input is dropped and EOF is returned.
func (lms *LMScanner) NextToken() lalr.Token {
	tc := lms.scanner.TC
	tok, err, eof := lms.scanner.Next()
	for err != nil {
		lms.Error(err)
		if ui, is := err.(*machines.UnconsumedInput); is {
			lms.scanner.TC = ui.FailTC
		} else if lms.scanner.TC <= tc {
			tracer().Errorf("scanner stuck at position %d, skipping rest of input", tc)
			lms.scanner.TC = int(lms.end)
		}
		tc = lms.scanner.TC
		tok, err, eof = lms.scanner.Next()
	}
	if eof {
		return lalr.Token{ID: lalr.EOF, Span: lalr.Span{lms.end, lms.end}}
	}
	tracer().Debugf("tok is %T | %v", tok, tok)
	token := tok.(*lexmachine.Token)
	t := lalr.Token{
		ID:     lalr.TokType(token.Type),
		Lexeme: string(token.Lexeme),
		Span:   lalr.Span{uint64(token.TC), uint64(token.TC + len(token.Lexeme))},
	}
	if lms.valuer != nil {
		v, err := lms.valuer(t.ID, t.Lexeme)
		if err != nil {
			lms.Error(fmt.Errorf("cannot create value for %q: %w", t.Lexeme, err))
		} else {
			t.Value = v
		}
	}
	return t
}

// ---------------------------------------------------------------------------

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken is a pre-defined action which wraps a scanned match into a token.
func MakeToken(name string, id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}
