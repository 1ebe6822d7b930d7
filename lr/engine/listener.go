package engine

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/npillmayer/lalr"
	"github.com/npillmayer/lalr/lr/table"
)

// StepKind is the kind of a parser step.
type StepKind int

// Kinds of steps reported to listeners.
const (
	ShiftStep   StepKind = iota // shifted an input token
	ReduceStep                  // reduced by a rule
	ErrorStep                   // shifted the error token
	DiscardStep                 // skipped an input token during error recovery
	AcceptStep                  // accepted the input
)

func (k StepKind) String() string {
	switch k {
	case ShiftStep:
		return "shift"
	case ReduceStep:
		return "reduce"
	case ErrorStep:
		return "error"
	case DiscardStep:
		return "discard"
	case AcceptStep:
		return "accept"
	}
	return fmt.Sprintf("StepKind(%d)", int(k))
}

// Step is a single step of a parse. State is the state entered by the step,
// Rule is set for reductions only.
type Step struct {
	Kind  StepKind
	Token lalr.TokType
	Rule  table.RuleID
	State lalr.StateID
}

func (s Step) String() string {
	if s.Kind == ReduceStep {
		return fmt.Sprintf("%s(%d)→%d", s.Kind, s.Rule, s.State)
	}
	return fmt.Sprintf("%s(%d)→%d", s.Kind, s.Token, s.State)
}

// Listener observes the steps of a parse.
type Listener interface {
	Step(Step)
}

// Recorder is a Listener which records all steps.
type Recorder struct {
	steps *arraylist.List
}

var _ Listener = (*Recorder)(nil)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{steps: arraylist.New()}
}

// Step records s.
func (r *Recorder) Step(s Step) {
	r.steps.Add(s)
}

// Steps returns all steps recorded.
func (r *Recorder) Steps() []Step {
	steps := make([]Step, 0, r.steps.Size())
	it := r.steps.Iterator()
	for it.Next() {
		steps = append(steps, it.Value().(Step))
	}
	return steps
}

// Reductions returns the rules of all reduce steps, in order.
func (r *Recorder) Reductions() []table.RuleID {
	var rules []table.RuleID
	for _, s := range r.Steps() {
		if s.Kind == ReduceStep {
			rules = append(rules, s.Rule)
		}
	}
	return rules
}

// Count counts the recorded steps of kind k.
func (r *Recorder) Count(k StepKind) int {
	n := 0
	for _, x := range r.steps.Values() {
		if x.(Step).Kind == k {
			n++
		}
	}
	return n
}

// Reset clears the recorder.
func (r *Recorder) Reset() {
	r.steps.Clear()
}
