/*
Package stack implements the parse stack of an LALR(1) parser.

The stack holds, in lockstep, the automaton states of the parse, the semantic
values of the grammar symbols recognized so far and their input spans.
The bottom-most entry holds the start state; it is never popped during a parse.

Misusing the stack (popping beyond the floor, reading beyond the depth) is a
programming error in the parser and causes a panic.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package stack

import (
	"fmt"

	"github.com/npillmayer/lalr"
	"github.com/npillmayer/lalr/value"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalr.stack'.
func tracer() tracing.Trace {
	return tracing.Select("lalr.stack")
}

// DefaultIncrement is the number of entries a stack grows by if none is given.
const DefaultIncrement = 64

// Stack is a parse stack. Create one with New.
type Stack struct {
	states    []lalr.StateID
	values    []value.Value
	spans     []lalr.Span
	increment int
}

// New creates an empty stack which will grow by increment entries whenever
// it is full. An increment < 1 selects DefaultIncrement.
func New(increment int) *Stack {
	if increment < 1 {
		increment = DefaultIncrement
	}
	return &Stack{
		states:    make([]lalr.StateID, 0, increment),
		values:    make([]value.Value, 0, increment),
		spans:     make([]lalr.Span, 0, increment),
		increment: increment,
	}
}

// Depth returns the number of entries on the stack.
func (s *Stack) Depth() int {
	return len(s.states)
}

// Cap returns the number of entries the stack can hold without growing.
func (s *Stack) Cap() int {
	return cap(s.states)
}

// Increment returns the growth increment of the stack.
func (s *Stack) Increment() int {
	return s.increment
}

// Push pushes a state together with its semantic value and input span.
// The stack takes ownership of v.
func (s *Stack) Push(state lalr.StateID, v value.Value, span lalr.Span) {
	if len(s.states) == cap(s.states) {
		s.grow()
	}
	s.states = append(s.states, state)
	s.values = append(s.values, v)
	s.spans = append(s.spans, span)
}

// grow enlarges the stack by exactly one increment. Values are moved to the new
// storage, never cloned.
func (s *Stack) grow() {
	n := cap(s.states) + s.increment
	tracer().Debugf("growing parse stack from %d to %d entries", cap(s.states), n)
	states := make([]lalr.StateID, len(s.states), n)
	copy(states, s.states)
	values := make([]value.Value, len(s.values), n)
	for i := range s.values {
		values[i].MoveFrom(&s.values[i])
	}
	spans := make([]lalr.Span, len(s.spans), n)
	copy(spans, s.spans)
	s.states, s.values, s.spans = states, values, spans
}

// Pop removes count entries from the stack, releasing their values.
// Popping the floor entry, i.e. leaving an empty stack, panics.
func (s *Stack) Pop(count int) {
	if count < 0 {
		panic(fmt.Sprintf("attempt to pop %d entries from parse stack", count))
	}
	if len(s.states)-count < 1 {
		panic(fmt.Sprintf("attempt to pop %d entries from parse stack of depth %d", count, len(s.states)))
	}
	n := len(s.states) - count
	for i := n; i < len(s.values); i++ {
		s.values[i].Release()
	}
	s.states = s.states[:n]
	s.values = s.values[:n]
	s.spans = s.spans[:n]
}

// Top returns the state on top of the stack.
func (s *Stack) Top() lalr.StateID {
	return s.StateAt(0)
}

// StateAt returns the state at offset from the top. offset 0 is the top entry,
// negative offsets reach further down.
func (s *Stack) StateAt(offset int) lalr.StateID {
	return s.states[s.index(offset)]
}

// ValueAt returns the value at offset from the top, see StateAt.
// The stack retains ownership; clients may move the value out.
func (s *Stack) ValueAt(offset int) *value.Value {
	return &s.values[s.index(offset)]
}

// SpanAt returns the input span at offset from the top, see StateAt.
func (s *Stack) SpanAt(offset int) lalr.Span {
	return s.spans[s.index(offset)]
}

func (s *Stack) index(offset int) int {
	i := len(s.states) - 1 + offset
	if offset > 0 || i < 0 {
		panic(fmt.Sprintf("parse stack access at offset %d, depth is %d", offset, len(s.states)))
	}
	return i
}

// Reset releases all values and leaves the stack empty.
// The capacity of the stack is retained.
func (s *Stack) Reset() {
	for i := range s.values {
		s.values[i].Release()
	}
	s.states = s.states[:0]
	s.values = s.values[:0]
	s.spans = s.spans[:0]
}

// Start resets the stack and pushes the start state as the floor entry.
func (s *Stack) Start(state lalr.StateID) {
	s.Reset()
	s.Push(state, value.Value{}, lalr.Span{})
}

func (s *Stack) String() string {
	return fmt.Sprintf("%v", s.states)
}
