/*
Package value implements containers for semantic values of a parse.

Every grammar symbol may carry a semantic value: the numeric value of a
literal, the name of an identifier, a sub-tree of an AST. The types of these
values form a small, closed set declared by a grammar. Each type is declared
as a Kind, identified by a Tag:

    var Number = value.Declare[float64](1, "number", nil)
    var Name   = value.Declare[string](2, "name", nil)

A Value is a container for at most one payload of any declared kind. Values
live on the parse stack and in tokens; they are handed from one to the other
by moving, which never copies the payload. Copying a payload is an explicit
operation (Clone) and is always deep.

Plain assignment of a Value struct aliases its payload: both copies see the
same payload, and releasing one of them leaves the other empty. Clients should
use Move, MoveFrom or Clone instead.

Kinds with payloads of a reference type (pointers, slices, maps and the like)
must either implement Cloner or be declared with a clone function; Declare
panics otherwise. This keeps clones from sharing storage, and every payload is
released exactly once.

Reading a value with a kind different from the one it holds is a programming
error. Kind.Get will panic with a *TypeMismatchError in this case, Kind.Lookup
returns the error instead.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package value

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalr.value'.
func tracer() tracing.Trace {
	return tracing.Select("lalr.value")
}
