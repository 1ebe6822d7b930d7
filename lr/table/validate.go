package table

import (
	"errors"
	"fmt"

	"github.com/npillmayer/lalr"
)

// ErrInvalidTables is the error class of all table validation errors.
var ErrInvalidTables = errors.New("invalid parser tables")

// Validate checks tables for consistency. It returns all problems found,
// each wrapping ErrInvalidTables.
func (t *Tables) Validate() error {
	var errs []error
	fail := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: %s: %s", ErrInvalidTables, t.Name, fmt.Sprintf(format, args...)))
	}
	if len(t.States) == 0 {
		fail("no states")
	}
	if t.RequiredTokens < 0 {
		fail("required tokens must not be negative")
	}
	for i, r := range t.Rules {
		if r.ID != RuleID(i+1) {
			fail("rule #%d has id %d, rule ids must be consecutive from 1", i, r.ID)
		}
		if lalr.IsSentinel(r.LHS) {
			fail("rule %d has reserved token %d as its left hand side", r.ID, r.LHS)
		}
		if r.Length < 0 {
			fail("rule %d has negative length", r.ID)
		}
	}
	accepts := 0
	for s := range t.States {
		state := &t.States[s]
		seen := make(map[lalr.TokType]bool, len(state.Entries))
		hasErrorEntry := false
		for _, e := range state.Entries {
			if seen[e.Token] {
				fail("state %d has more than one entry for token %d", s, e.Token)
			}
			seen[e.Token] = true
			if e.Token == lalr.Undetermined {
				fail("state %d has an entry for the undetermined token", s)
			}
			if e.Token == lalr.ErrorToken {
				hasErrorEntry = true
				if !e.Action.IsShift() {
					fail("state %d must shift the error token, has %s", s, e.Action)
				}
			}
			if e.Action.IsAccept() {
				accepts++
			}
			if err := t.checkAction(e.Action); err != nil {
				fail("state %d, token %d: %v", s, e.Token, err)
			}
		}
		if state.Type.Has(ErrorItem) != hasErrorEntry {
			fail("state %d: error-item flag and error token entry do not match", s)
		}
		if state.Type.Has(DefaultReduction) {
			if !state.Default.IsReduce() {
				fail("state %d has default reduction flag, but default action is %s", s, state.Default)
			} else if err := t.checkAction(state.Default); err != nil {
				fail("state %d, default: %v", s, err)
			}
		}
	}
	if accepts == 0 {
		fail("no state accepts")
	}
	return errors.Join(errs...)
}

func (t *Tables) checkAction(a Action) error {
	switch {
	case a == NoAction:
		return errors.New("missing action")
	case a.IsShift() && int(a.Target()) >= len(t.States):
		return fmt.Errorf("shift to non-existent state %d", a.Target())
	case a.IsReduce() && int(a.Rule()) > len(t.Rules):
		return fmt.Errorf("reduce by non-existent rule %d", a.Rule())
	}
	return nil
}
