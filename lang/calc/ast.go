package calc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/lalr"
)

// Ops of expression tree nodes.
const (
	OpNumber = "number"
	OpError  = "error"
	OpPlus   = "+"
)

// ErrIncomplete is returned when evaluating a tree which contains error nodes.
var ErrIncomplete = errors.New("expression contains syntax errors")

// Node is a node of an expression tree.
type Node struct {
	Op       string
	Number   float64 // for OpNumber
	Span     lalr.Span
	Children []*Node
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, ch := range n.Children {
			c.Children[i] = ch.Clone()
		}
	}
	return &c
}

// Eval evaluates the expression tree. Error nodes count as 0; if there are
// any, Eval returns ErrIncomplete together with the sum of the remaining terms.
func (n *Node) Eval() (float64, error) {
	var incomplete bool
	var eval func(*Node) float64
	eval = func(n *Node) float64 {
		switch n.Op {
		case OpNumber:
			return n.Number
		case OpPlus:
			var x float64
			for _, ch := range n.Children {
				x += eval(ch)
			}
			return x
		}
		incomplete = true
		return 0
	}
	x := eval(n)
	if incomplete {
		return x, ErrIncomplete
	}
	return x, nil
}

// Errors returns the error nodes of the tree, from left to right.
func (n *Node) Errors() []*Node {
	var errs []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		if n.Op == OpError {
			errs = append(errs, n)
		}
		for _, ch := range n.Children {
			walk(ch)
		}
	}
	walk(n)
	return errs
}

// String returns the tree as an s-expression, e.g. "(+ 1 2)".
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Op {
	case OpNumber:
		return strconv.FormatFloat(n.Number, 'g', -1, 64)
	case OpError:
		return OpError
	}
	var b strings.Builder
	b.WriteString("(" + n.Op)
	for _, ch := range n.Children {
		b.WriteString(" " + ch.String())
	}
	b.WriteString(")")
	return b.String()
}

// Format implements fmt.Formatter. Verb %+v includes spans.
func (n *Node) Format(f fmt.State, verb rune) {
	if verb == 'v' && f.Flag('+') && n != nil {
		fmt.Fprintf(f, "%s%s", n.String(), n.Span)
		return
	}
	fmt.Fprint(f, n.String())
}
