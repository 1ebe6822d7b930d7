package engine

import (
	"fmt"

	"github.com/npillmayer/lalr"
	"github.com/npillmayer/lalr/lr/table"
	"github.com/npillmayer/lalr/value"
)

// Reduction gives semantic actions access to the symbols of the rule being
// reduced. It is valid only during the call of the action.
type Reduction struct {
	parser *Parser
	rule   table.Rule
	result value.Value
}

// Rule returns the rule being reduced.
func (r *Reduction) Rule() table.Rule {
	return r.rule
}

// Len returns the number of symbols on the right hand side of the rule.
func (r *Reduction) Len() int {
	return r.rule.Length
}

// RHS returns the value of the i-th symbol on the right hand side, starting
// at 1. Values may be read, modified or moved out; values not moved out are
// released after the action returns.
func (r *Reduction) RHS(i int) *value.Value {
	if i < 1 || i > r.rule.Length {
		panic(fmt.Sprintf("rule %v has no right hand side symbol #%d", r.rule, i))
	}
	return r.parser.stack.ValueAt(i - r.rule.Length)
}

// At returns a value relative to the top of the parse stack. 0 is the value of
// the last symbol of the right hand side. Negative offsets may reach below
// the handle, into the values of symbols left of the rule.
func (r *Reduction) At(offset int) *value.Value {
	return r.parser.stack.ValueAt(offset)
}

// Span returns the input span of the i-th symbol on the right hand side.
// Span(0) returns the span of the whole right hand side. For empty right hand
// sides this is an empty span in front of the lookahead.
func (r *Reduction) Span(i int) lalr.Span {
	st := r.parser.stack
	if i > 0 {
		if i > r.rule.Length {
			panic(fmt.Sprintf("rule %v has no right hand side symbol #%d", r.rule, i))
		}
		return st.SpanAt(i - r.rule.Length)
	}
	var span lalr.Span
	for k := 1 - r.rule.Length; k <= 0; k++ {
		span = span.Extend(st.SpanAt(k))
	}
	if span.IsNull() {
		var pos uint64
		if r.parser.saved.ID != lalr.Undetermined {
			pos = r.parser.saved.Span.From()
		} else {
			pos = st.SpanAt(0).To()
		}
		span = lalr.Span{pos, pos}
	}
	return span
}

// Result returns the value of the left hand side symbol, initially empty.
func (r *Reduction) Result() *value.Value {
	return &r.result
}

// Lookahead returns the id of the lookahead token, or lalr.Undetermined if the
// parser has not read one.
func (r *Reduction) Lookahead() lalr.TokType {
	return r.parser.saved.ID
}

// Errors returns the number of syntax errors reported so far.
func (r *Reduction) Errors() int {
	return r.parser.errors
}

// Recovering is a predicate: is the parser recovering from a syntax error?
func (r *Reduction) Recovering() bool {
	return r.parser.mode == recovering
}

// dispatch calls the semantic action for the rule of red. Errors and panics of
// the action are returned as *ActionError, except for type mismatches of
// semantic values, which keep panicking.
func (p *Parser) dispatch(red *Reduction) (err error) {
	prod := p.productions[red.rule.ID]
	if prod.Action == nil {
		if red.rule.Length > 0 {
			red.result.MoveFrom(red.RHS(1))
		}
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*value.TypeMismatchError); ok {
				panic(r)
			}
			p.tracer().Errorf("semantic action for rule %v panicked: %v", red.rule, r)
			err = &ActionError{Rule: red.rule, Panic: r}
		}
	}()
	if err = prod.Action(red); err != nil {
		return &ActionError{Rule: red.rule, Err: err}
	}
	if p.types != nil && !p.types.Contains(&red.result) {
		return &ActionError{Rule: red.rule, Err: fmt.Errorf("%w: result has undeclared kind %d",
			value.ErrTypeMismatch, red.result.Tag())}
	}
	return nil
}
