package table

import (
	"github.com/npillmayer/lalr"
)

// ActionMatrix is a sparse matrix of actions, states × symbols, as used for
// displaying tables. Empty positions hold NoAction.
//
// The matrix uses the COO algorithm (a.k.a. triplet-encoding), with triplets
// sorted by row and column.
//
//    https://medium.com/@jmaxg3/101-ways-to-store-a-sparse-matrix-c7f2bf15a229
//
type ActionMatrix struct {
	values  []triplet
	columns []lalr.TokType
	colidx  map[lalr.TokType]int
	rowcnt  int
}

// Triplet values to store
type triplet struct {
	row, col int
	action   Action
}

// Matrix creates the action matrix of the tables. Columns are symbols with an
// entry in some state, in order of first appearance. Default reductions are
// not part of the matrix.
func (t *Tables) Matrix() *ActionMatrix {
	m := &ActionMatrix{
		colidx: make(map[lalr.TokType]int),
		rowcnt: len(t.States),
	}
	for i, s := range t.States {
		for _, e := range s.Entries {
			j, ok := m.colidx[e.Token]
			if !ok {
				j = len(m.columns)
				m.colidx[e.Token] = j
				m.columns = append(m.columns, e.Token)
			}
			m.set(i, j, e.Action)
		}
	}
	return m
}

// M returns the row count, i.e. the number of states.
func (m *ActionMatrix) M() int {
	return m.rowcnt
}

// N returns the column count.
func (m *ActionMatrix) N() int {
	return len(m.columns)
}

// Columns returns the symbols of the columns.
func (m *ActionMatrix) Columns() []lalr.TokType {
	return m.columns
}

// ValueCount returns the number of actions in the matrix.
func (m *ActionMatrix) ValueCount() int {
	return len(m.values)
}

// Value returns the action at position (i,j), or NoAction.
func (m *ActionMatrix) Value(i, j int) Action {
	for _, t := range m.values {
		if !t.storedLeftOf(i, j) { // have skipped all lesser indices
			if t.storedAt(i, j) {
				return t.action
			}
			break
		}
	}
	return NoAction
}

// Action returns the action of state s for symbol tok, or NoAction.
func (m *ActionMatrix) Action(s lalr.StateID, tok lalr.TokType) Action {
	j, ok := m.colidx[tok]
	if !ok {
		return NoAction
	}
	return m.Value(int(s), j)
}

func (m *ActionMatrix) set(i, j int, a Action) {
	at := 0 // will be position of new value
	for k, t := range m.values {
		if !t.storedLeftOf(i, j) { // have skipped all lesser indices
			if t.storedAt(i, j) { // value already present
				m.values[k].action = a
				return
			}
			break
		}
		at++
	}
	tnew := triplet{row: i, col: j, action: a}
	// the following 3 lines have to work for k being the right edge of v or not
	m.values = append(m.values, tnew)    // make room
	copy(m.values[at+1:], m.values[at:]) // copy remainder values one index to right
	m.values[at] = tnew                  // if not append-case: insert new triplet
}

func (t *triplet) storedLeftOf(i, j int) bool {
	return t.row < i || t.row == i && t.col < j
}

func (t *triplet) storedAt(i, j int) bool {
	return t.row == i && t.col == j
}
