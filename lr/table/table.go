package table

import (
	"fmt"
	"math"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/lalr"
)

// --- State types -----------------------------------------------------------

// StateType is a set of flags describing a state.
type StateType uint8

// Normal is a state without any flags set.
const Normal StateType = 0

// State type flags, may be combined.
const (
	ErrorItem        StateType = 1 << iota // state contains an item 'A → α . error β'
	RequiresToken                          // state needs a lookahead token
	DefaultReduction                       // state reduces on every unlisted token
)

var stateTypeNames = []struct {
	flag StateType
	name string
}{
	{ErrorItem, "error-item"},
	{RequiresToken, "requires-token"},
	{DefaultReduction, "default-reduction"},
}

// Has is a predicate: are all flags of f set in st?
func (st StateType) Has(f StateType) bool {
	return st&f == f
}

func (st StateType) String() string {
	if st == Normal {
		return "normal"
	}
	var names []string
	for _, n := range stateTypeNames {
		if st.Has(n.flag) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// ParseStateType parses a state type from its string form, e.g.
// "error-item|requires-token". The empty string denotes Normal.
func ParseStateType(s string) (StateType, error) {
	var st StateType
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if part == "" || part == "normal" {
			continue
		}
		found := false
		for _, n := range stateTypeNames {
			if n.name == part {
				st |= n.flag
				found = true
				break
			}
		}
		if !found {
			return Normal, fmt.Errorf("unknown state type %q", part)
		}
	}
	return st, nil
}

// --- Actions ---------------------------------------------------------------

// Action is an entry of a transition table.
type Action int32

// RuleID identifies a grammar rule. Rule ids start at 1.
type RuleID int

// Accept is the action for accepting the input.
const Accept Action = 0

// NoAction denotes a missing table entry, i.e. a syntax error.
const NoAction Action = math.MinInt32

// Shift creates an action to shift (or go) to a state.
func Shift(target lalr.StateID) Action {
	return Action(target)
}

// Reduce creates an action to reduce by a rule.
func Reduce(rule RuleID) Action {
	return Action(-rule)
}

func (a Action) IsShift() bool {
	return a > 0
}

func (a Action) IsReduce() bool {
	return a < 0 && a != NoAction
}

func (a Action) IsAccept() bool {
	return a == Accept
}

// Target returns the target state of a shift action.
func (a Action) Target() lalr.StateID {
	return lalr.StateID(a)
}

// Rule returns the rule of a reduce action.
func (a Action) Rule() RuleID {
	return RuleID(-a)
}

func (a Action) String() string {
	switch {
	case a == NoAction:
		return "<none>"
	case a.IsAccept():
		return "<accept>"
	case a.IsShift():
		return fmt.Sprintf("<shift %d>", a)
	}
	return fmt.Sprintf("<reduce %d>", -a)
}

// --- Tables ----------------------------------------------------------------

// Entry is a single transition of a state.
type Entry struct {
	Token  lalr.TokType
	Action Action
}

// State is a state of the automaton. Default is the default reduction,
// relevant only if the state is of type DefaultReduction.
type State struct {
	Type    StateType
	Entries []Entry
	Default Action
}

// Rule describes a grammar rule to the parser: the non-terminal on its
// left hand side and the number of symbols on its right hand side.
type Rule struct {
	ID     RuleID
	LHS    lalr.TokType
	Length int
	Name   string // for diagnostics only
}

func (r Rule) String() string {
	if r.Name != "" {
		return fmt.Sprintf("[%d] %s", r.ID, r.Name)
	}
	return fmt.Sprintf("[%d] %d/%d", r.ID, r.LHS, r.Length)
}

// Tables is the complete set of tables for one parser type. States are indexed
// by state id, state 0 being the start state. Rules are ordered by id, starting
// with rule 1.
// Tables are read-only after construction and may be shared between parsers.
type Tables struct {
	Name           string
	RequiredTokens int // tokens to shift after an error before reporting new errors; 0 = parser default
	States         []State
	Rules          []Rule
	Symbols        map[lalr.TokType]string
}

// State returns the state with id s.
func (t *Tables) State(s lalr.StateID) *State {
	return &t.States[s]
}

// Rule returns the rule with id r.
func (t *Tables) Rule(r RuleID) Rule {
	return t.Rules[r-1]
}

// Lookup finds the action for a token in a state. If the state has no entry
// for tok, its default reduction is returned, if any. Otherwise Lookup
// returns NoAction.
func (t *Tables) Lookup(s lalr.StateID, tok lalr.TokType) Action {
	if s < 0 || int(s) >= len(t.States) {
		tracer().Errorf("table lookup for non-existent state %d", s)
		return NoAction
	}
	state := &t.States[s]
	for _, e := range state.Entries {
		if e.Token == tok {
			return e.Action
		}
	}
	if state.Type.Has(DefaultReduction) {
		return state.Default
	}
	return NoAction
}

// IsNonTerminal is a predicate: is tok the left hand side of some rule?
func (t *Tables) IsNonTerminal(tok lalr.TokType) bool {
	for _, r := range t.Rules {
		if r.LHS == tok {
			return true
		}
	}
	return false
}

// ExpectedTokens returns the terminals for which state s has an explicit entry,
// in ascending order. The error pseudo-token is not included.
func (t *Tables) ExpectedTokens(s lalr.StateID) []lalr.TokType {
	if s < 0 || int(s) >= len(t.States) {
		return nil
	}
	set := treeset.NewWith(utils.IntComparator)
	for _, e := range t.States[s].Entries {
		if e.Token == lalr.ErrorToken || t.IsNonTerminal(e.Token) {
			continue
		}
		set.Add(int(e.Token))
	}
	toks := make([]lalr.TokType, 0, set.Size())
	for _, x := range set.Values() {
		toks = append(toks, lalr.TokType(x.(int)))
	}
	return toks
}

// SymbolName returns a printable name for a token id.
func (t *Tables) SymbolName(tok lalr.TokType) string {
	if name, ok := t.Symbols[tok]; ok {
		return name
	}
	switch tok {
	case lalr.EOF:
		return "EOF"
	case lalr.ErrorToken:
		return "error"
	case lalr.Undetermined:
		return "<none>"
	}
	if tok > 32 && tok < 127 {
		return fmt.Sprintf("'%c'", rune(tok))
	}
	return fmt.Sprintf("%d", tok)
}
