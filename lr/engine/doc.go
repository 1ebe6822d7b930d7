/*
Package engine provides a table-driven LALR(1) parser.

The parser does not compute tables itself. Clients load tables produced by a
parser generator (see package table), supply a semantic action for every
grammar rule and a token source, and run the parser:

	tables, err := table.Load("calc.toml")
	p, err := engine.NewParser(tables, []engine.Production{
		{Rule: 1, Action: sum},      // Expr → Expr + Expr
		{Rule: 2, Action: literal},  // Expr → number
		{Rule: 3},                   // Expr → error, default action
	})
	result, err := p.Parse(scanner.GoTokenizer("input", strings.NewReader("1+2")))

Semantic actions receive a *Reduction, giving access to the values of the
right hand side symbols of the rule and to the result value, which becomes the
value of the left hand side symbol:

	func sum(r *engine.Reduction) error {
		x := *Number.Get(r.RHS(1)) + *Number.Get(r.RHS(3))
		Number.Assign(r.Result(), x)
		return nil
	}

Actions without a function move the value of the first right hand side symbol
to the result.

Error Recovery

Grammars may contain rules with the pseudo-token 'error'. When the parser
encounters a token for which there is no action, it reports a syntax error,
pops states off the stack until it finds a state which can shift 'error', shifts
it and then skips input tokens until one is acceptable. Further syntax errors
are reported only after a number of tokens (usually 3) have been shifted
successfully, which keeps cascading errors quiet. An error which recurs before
a single token has been shifted makes the parser skip the offending token.
If no state on the stack can shift 'error', or input ends while skipping, the
parse is aborted.

Errors in semantic actions, returned or panicked, are handed to a hook, which
may either swallow them or abort the parse. Reading a semantic value as the
wrong kind is a programming error and will not be recovered.

A Parser is not safe for concurrent use, but may be reused for subsequent
parses.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package engine

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalr.engine'.
func tracer() tracing.Trace {
	return tracing.Select("lalr.engine")
}
