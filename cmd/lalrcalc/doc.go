/*
Command lalrcalc is a command line tool for the calc example language of
package lalr.

	lalrcalc eval "1 + 2" "3 + 4.5"     // evaluate expressions
	lalrcalc repl                       // interactive mode
	lalrcalc tables calc.toml --dot calc.dot --fingerprint

Subcommand tables works on arbitrary parser tables in TOML, YAML or binary
format. It validates and prints them, and optionally stores them in a table
store.

Settings may be given in a TOML configuration file (flag --config):

	trace = "Info"
	required_tokens = 3
	stack_increment = 64
	prompt = "calc> "
	history = "/tmp/lalrcalc.history"

Exit codes are 0 for success, 1 if there were syntax errors, 2 if a parse has
been aborted and 3 for errors during initialization.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalr.cli'
func tracer() tracing.Trace {
	return tracing.Select("lalr.cli")
}
