package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/lalr"
	"github.com/npillmayer/lalr/lr/table"
	"github.com/npillmayer/lalr/value"
)

// Outcome is the overall outcome of a parse.
type Outcome int

const (
	Accepted     Outcome = iota // input accepted without errors
	SyntaxErrors                // input accepted after recovering from syntax errors
	Aborted                     // parse aborted
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case SyntaxErrors:
		return "syntax-errors"
	case Aborted:
		return "aborted"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// AbortCode is the result code of an aborted parse.
const AbortCode = -1

// Result is the result of a parse. For accepted input, Value holds the semantic
// value of the start symbol. The caller owns Value.
type Result struct {
	Outcome Outcome
	Errors  int // number of syntax errors reported
	Value   value.Value
	RunID   string
}

// Code returns 0 for accepted input, the number of syntax errors for input
// accepted after recovery and AbortCode for aborted parses.
func (r Result) Code() int {
	switch r.Outcome {
	case Accepted:
		return 0
	case SyntaxErrors:
		return r.Errors
	}
	return AbortCode
}

func (r Result) String() string {
	return fmt.Sprintf("<%s errors=%d code=%d>", r.Outcome, r.Errors, r.Code())
}

// Errors the parser returns when aborting.
var (
	ErrRecoveryExhausted = errors.New("syntax error recovery exhausted")
	ErrTableCorrupt      = errors.New("parser tables corrupt")
	ErrNoInput           = errors.New("no token source")
)

// ActionError is an error raised by a semantic action, either returned or
// through a panic.
type ActionError struct {
	Rule  table.Rule
	Err   error       // error returned by the action, if any
	Panic interface{} // value the action panicked with, if any
}

func (e *ActionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("semantic action for rule %v failed: %v", e.Rule, e.Err)
	}
	return fmt.Sprintf("semantic action for rule %v panicked: %v", e.Rule, e.Panic)
}

func (e *ActionError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	if err, ok := e.Panic.(error); ok {
		return err
	}
	return nil
}

// SyntaxError describes a syntax error reported to Hooks.OnSyntaxError.
type SyntaxError struct {
	Token    lalr.Token     // offending token, without value
	State    lalr.StateID   // state in which the error was detected
	Expected []lalr.TokType // terminals the state would have accepted
	Count    int            // number of syntax errors so far, including this one
	names    lalr.TokTypeStringer
}

func (e SyntaxError) Error() string {
	name := func(t lalr.TokType) string {
		if e.names != nil {
			return e.names(t)
		}
		return fmt.Sprintf("%d", t)
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("syntax error at %s: unexpected %s", e.Token.Span, name(e.Token.ID)))
	if e.Token.Lexeme != "" {
		b.WriteString(fmt.Sprintf(" %q", e.Token.Lexeme))
	}
	if len(e.Expected) > 0 {
		exp := make([]string, len(e.Expected))
		for i, t := range e.Expected {
			exp[i] = name(t)
		}
		b.WriteString(", expected one of " + strings.Join(exp, " "))
	}
	return b.String()
}
