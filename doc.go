/*
Package lalr is a runtime for table-driven LALR(1) parsers.

Parse tables are computed elsewhere (by a parser generator) and handed to the
runtime as data. The runtime drives the automaton, dispatches user-supplied
semantic actions on reductions and recovers from syntax errors in the manner of
yacc-style parsers, using an error pseudo-token.
Package structure is as follows:

■ value: Package value implements a type-safe container for semantic values,
supporting a closed set of grammar-declared payload types.

■ lr: Package lr holds the parser machinery: the dual parse stack, transition
tables with their codecs, the parse driver and token sources.

■ lang/calc: A small example language, wiring everything together.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lalr
