/*
Package table holds the transition tables of LALR(1) parsers.

Tables are produced by a parser generator and are read-only for the parser
runtime. Every state of the automaton has a type, describing whether the state
contains an item with the error pseudo-token, whether it needs a lookahead
token, and whether it has a default reduction. A state's entries map token
ids (terminals and non-terminals alike) to actions:

    action < 0    reduce by rule -action
    action = 0    accept
    action > 0    shift (or goto) to state action

Lookups are linear scans of a state's entries, which are usually small.
States with a default reduction reduce on every token not listed.

Tables may be loaded from TOML or YAML files, stored in a compact binary
format and identified by a fingerprint. For inspection, tables can be
rendered as text, HTML or Graphviz.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package table

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalr.table'.
func tracer() tracing.Trace {
	return tracing.Select("lalr.table")
}
