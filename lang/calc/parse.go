package calc

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/npillmayer/lalr"
	"github.com/npillmayer/lalr/lr/engine"
	"github.com/npillmayer/lalr/lr/table"
	"github.com/npillmayer/lalr/value"
)

// Kinds of semantic values of the language.
var (
	Number = value.Declare[float64](1, "number", nil)
	Text   = value.Declare[string](2, "text", nil)
	Tree   = value.Declare[*Node](3, "tree", nil) // deep-cloned by (*Node).Clone
)

//go:embed tables.toml
var tablesTOML []byte

var tables *table.Tables
var types *value.TypeSet
var startErr error

var startOnce sync.Once // monitors one-time creation of tables and types

func start() error {
	startOnce.Do(func() {
		tracer().Infof("Loading parser tables")
		if tables, startErr = table.DecodeTOML(bytes.NewReader(tablesTOML)); startErr != nil {
			return
		}
		types, startErr = value.NewTypeSet("calc", Number, Text, Tree)
	})
	return startErr
}

// Tables returns the parser tables of the language.
func Tables() (*table.Tables, error) {
	if err := start(); err != nil {
		return nil, err
	}
	return tables, nil
}

// Types returns the kinds of semantic values of the language.
func Types() (*value.TypeSet, error) {
	if err := start(); err != nil {
		return nil, err
	}
	return types, nil
}

// --- Semantic actions ------------------------------------------------------

// Expr ::= Expr '+' Expr
func sum(r *engine.Reduction) error {
	left, err := Tree.Lookup(r.RHS(1))
	if err != nil {
		return err
	}
	right, err := Tree.Lookup(r.RHS(3))
	if err != nil {
		return err
	}
	op := OpPlus
	if x, err := Text.Lookup(r.RHS(2)); err == nil {
		op = *x
	}
	Tree.Assign(r.Result(), &Node{
		Op:       op,
		Span:     r.Span(0),
		Children: []*Node{*left, *right},
	})
	return nil
}

// Expr ::= number
func number(r *engine.Reduction) error {
	x, err := Number.Lookup(r.RHS(1))
	if err != nil {
		return fmt.Errorf("number token without value: %w", err)
	}
	Tree.Assign(r.Result(), &Node{Op: OpNumber, Number: *x, Span: r.Span(1)})
	return nil
}

// Expr ::= error
func errorTerm(r *engine.Reduction) error {
	tracer().Debugf("error term at %v", r.Span(0))
	Tree.Assign(r.Result(), &Node{Op: OpError, Span: r.Span(0)})
	return nil
}

var productions = []engine.Production{
	{Rule: 1, Action: sum},
	{Rule: 2, Action: number},
	{Rule: 3, Action: errorTerm},
}

// NewParser creates a parser for the language. Options are handed to the
// parser engine.
func NewParser(opts ...engine.Option) (*engine.Parser, error) {
	if err := start(); err != nil {
		return nil, err
	}
	opts = append([]engine.Option{engine.WithTypes(types)}, opts...)
	return engine.NewParser(tables, productions, opts...)
}

// ParseTokens parses the tokens of src. It returns the expression tree, if
// the input has been accepted, and the result of the parse.
//
// If the parse is aborted, an error is returned.
func ParseTokens(src lalr.TokenSource, opts ...engine.Option) (*Node, engine.Result, error) {
	parser, err := NewParser(opts...)
	if err != nil {
		return nil, engine.Result{Outcome: engine.Aborted}, err
	}
	result, err := parser.Parse(src)
	if err != nil {
		return nil, result, err
	}
	tree, err := Tree.Lookup(&result.Value)
	if err != nil {
		return nil, result, fmt.Errorf("parse did not produce an expression: %w", err)
	}
	return *tree, result, nil
}

// Parse parses an input string. See ParseTokens.
func Parse(input string, opts ...engine.Option) (*Node, engine.Result, error) {
	return ParseTokens(Tokenizer(input), opts...)
}

// Eval parses and evaluates an input string. For input with syntax errors,
// Eval returns the sum of the terms which could be parsed and ErrIncomplete.
func Eval(input string, opts ...engine.Option) (float64, engine.Result, error) {
	tree, result, err := Parse(input, opts...)
	if err != nil {
		return 0, result, err
	}
	x, err := tree.Eval()
	tracer().Debugf("%s = %g", tree, x)
	return x, result, err
}
