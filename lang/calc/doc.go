/*
Package calc provides a parser for simple sums of numbers.

The language serves as an example of how to bind semantic actions to
precomputed LALR(1) tables. Its grammar is

	Expr  ::=  Expr '+' Expr     // left associative
	Expr  ::=  number
	Expr  ::=  error

The error production lets the parser recover from syntax errors: sub-terms
which could not be parsed show up as error nodes in the expression tree.

	tree, result, err := calc.Parse("1 + 2 + 3")
	if err == nil && result.Code() == 0 {
		x, _ := tree.Eval()  // x = 6
	}

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package calc

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalr.calc'
func tracer() tracing.Trace {
	return tracing.Select("lalr.calc")
}
