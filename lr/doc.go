/*
Package lr groups the packages of an LALR(1) parser runtime.
Parser tables are not computed here: they are generated elsewhere and
arrive as precomputed, immutable data.

Parser Tables

Package table holds transition tables, one descriptor per automaton state,
together with the rules of the grammar. Tables are read from TOML, YAML or a
compact binary form:

    tables, err := table.Load("calc.toml")  // validates the tables
    fmt.Println(tables)                     // one row per state

Package tablestore keeps tables in an SQLite database, keyed by fingerprint.

Parsing

Package engine drives a parse. Clients bind a semantic action to every rule
of the tables and hand tokens to the parser through a lalr.TokenSource:

    parser, err := engine.NewParser(tables, []engine.Production{
        {Rule: 1, Action: sum},            // Expr ➞ Expr + Expr
        {Rule: 2},                         // Expr ➞ number, moves $1
        {Rule: 3},                         // Expr ➞ error
    })
    result, err := parser.Parse(scanner.GoTokenizer("input", reader))

Semantic values of grammar symbols live on the parse stack (package stack)
in containers of package value. Syntax errors are recovered from using the
error pseudo-token, yacc-style.

Scanners

Package scanner wraps text/scanner, package scanner/lexmach adapts
lexmachine lexers. Both produce lalr.Token values.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr
