package engine

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/lalr"
	"github.com/npillmayer/lalr/lr/scanner"
	"github.com/npillmayer/lalr/lr/table"
	"github.com/npillmayer/lalr/value"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	number lalr.TokType = scanner.Int
	plus   lalr.TokType = '+'
	semi   lalr.TokType = ';'
	expr   lalr.TokType = 1001
	stmt   lalr.TokType = 1002
)

var (
	numKind  = value.Declare[float64](1, "number", nil)
	textKind = value.Declare[string](2, "text", nil)
	resKind  = value.Declare[*resource](3, "resource", func(r *resource) *resource {
		return &resource{released: r.released}
	})
)

type resource struct {
	released *int
}

func (r *resource) Release() {
	*r.released++
}

// Expr → Expr + Expr | number | error
func calcTables() *table.Tables {
	return &table.Tables{
		Name:           "calc",
		RequiredTokens: 3,
		States: []table.State{
			{Type: table.ErrorItem | table.RequiresToken, Default: table.NoAction, Entries: []table.Entry{
				{Token: expr, Action: table.Shift(1)},
				{Token: number, Action: table.Shift(2)},
				{Token: lalr.ErrorToken, Action: table.Shift(3)},
			}},
			{Type: table.RequiresToken, Default: table.NoAction, Entries: []table.Entry{
				{Token: lalr.EOF, Action: table.Accept},
				{Token: plus, Action: table.Shift(4)},
			}},
			{Type: table.DefaultReduction, Default: table.Reduce(2)},
			{Type: table.DefaultReduction, Default: table.Reduce(3)},
			{Type: table.ErrorItem | table.RequiresToken, Default: table.NoAction, Entries: []table.Entry{
				{Token: expr, Action: table.Shift(5)},
				{Token: number, Action: table.Shift(2)},
				{Token: lalr.ErrorToken, Action: table.Shift(3)},
			}},
			{Type: table.DefaultReduction, Default: table.Reduce(1)},
		},
		Rules: []table.Rule{
			{ID: 1, LHS: expr, Length: 3, Name: "Expr → Expr + Expr"},
			{ID: 2, LHS: expr, Length: 1, Name: "Expr → number"},
			{ID: 3, LHS: expr, Length: 1, Name: "Expr → error"},
		},
		Symbols: map[lalr.TokType]string{number: "number", expr: "Expr"},
	}
}

// Expr → number, without any error items
func normalOnlyTables() *table.Tables {
	return &table.Tables{
		Name: "strict",
		States: []table.State{
			{Type: table.RequiresToken, Default: table.NoAction, Entries: []table.Entry{
				{Token: expr, Action: table.Shift(1)},
				{Token: number, Action: table.Shift(2)},
			}},
			{Type: table.RequiresToken, Default: table.NoAction, Entries: []table.Entry{
				{Token: lalr.EOF, Action: table.Accept},
			}},
			{Type: table.DefaultReduction, Default: table.Reduce(1)},
		},
		Rules: []table.Rule{{ID: 1, LHS: expr, Length: 1}},
	}
}

// Stmt → number | error ';'
func statementTables() *table.Tables {
	return &table.Tables{
		Name: "statement",
		States: []table.State{
			{Type: table.ErrorItem | table.RequiresToken, Default: table.NoAction, Entries: []table.Entry{
				{Token: number, Action: table.Shift(1)},
				{Token: stmt, Action: table.Shift(2)},
				{Token: lalr.ErrorToken, Action: table.Shift(3)},
			}},
			{Type: table.DefaultReduction, Default: table.Reduce(1)},
			{Type: table.RequiresToken, Default: table.NoAction, Entries: []table.Entry{
				{Token: lalr.EOF, Action: table.Accept},
			}},
			{Type: table.RequiresToken, Default: table.NoAction, Entries: []table.Entry{
				{Token: semi, Action: table.Shift(4)},
			}},
			{Type: table.DefaultReduction, Default: table.Reduce(2)},
		},
		Rules: []table.Rule{
			{ID: 1, LHS: stmt, Length: 1},
			{ID: 2, LHS: stmt, Length: 2},
		},
	}
}

func numOf(v *value.Value) float64 {
	if x, err := numKind.Lookup(v); err == nil {
		return *x
	}
	return 0
}

func sum(r *Reduction) error {
	numKind.Assign(r.Result(), numOf(r.RHS(1))+numOf(r.RHS(3)))
	return nil
}

func calcProductions(action Action) []Production {
	if action == nil {
		action = sum
	}
	return []Production{{Rule: 1, Action: action}, {Rule: 2}, {Rule: 3}}
}

// tokens creates tokens from a compact notation: 'n' is a number (with value
// 1, 2, 3, … in order of appearance), other characters are literal tokens.
func tokens(input string, released *int) *scanner.Slice {
	var toks []lalr.Token
	n := 0
	for i, c := range input {
		tok := lalr.Token{ID: lalr.TokType(c), Lexeme: string(c), Span: lalr.Span{uint64(i), uint64(i + 1)}}
		if c == 'n' {
			n++
			tok.ID = number
			numKind.Assign(&tok.Value, float64(n))
		} else if released != nil {
			resKind.Assign(&tok.Value, &resource{released: released})
		}
		toks = append(toks, tok)
	}
	return scanner.FromTokens(toks...)
}

type testHooks struct {
	DefaultHooks
	syntaxErrors []SyntaxError
	exceptions   []error
	consumed     []lalr.TokType
	swallow      bool
}

func (h *testHooks) OnSyntaxError(e SyntaxError) {
	h.syntaxErrors = append(h.syntaxErrors, e)
}

func (h *testHooks) OnException(err error) error {
	h.exceptions = append(h.exceptions, err)
	if h.swallow {
		return nil
	}
	return err
}

func (h *testHooks) OnTokenConsumed(tok lalr.Token) {
	h.consumed = append(h.consumed, tok.ID)
}

func TestNewParser(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.engine")
	defer teardown()
	//
	_, err := NewParser(nil, nil)
	assert.Error(t, err)
	_, err = NewParser(calcTables(), []Production{{Rule: 1}, {Rule: 2}})
	assert.Error(t, err, "rule 3 has no production")
	_, err = NewParser(calcTables(), []Production{{Rule: 1}, {Rule: 2}, {Rule: 3}, {Rule: 2}})
	assert.Error(t, err, "rule 2 bound twice")
	_, err = NewParser(calcTables(), []Production{{Rule: 1}, {Rule: 2}, {Rule: 3}, {Rule: 4}})
	assert.Error(t, err, "rule 4 does not exist")
	broken := calcTables()
	broken.States[0].Entries[0].Action = table.Shift(77)
	_, err = NewParser(broken, calcProductions(nil))
	assert.True(t, errors.Is(err, table.ErrInvalidTables))
	p, err := NewParser(calcTables(), calcProductions(nil))
	require.NoError(t, err)
	assert.Equal(t, 3, p.required)
	assert.Equal(t, "calc", p.Tables().Name)
	_, err = p.Parse(nil)
	assert.True(t, errors.Is(err, ErrNoInput))
}

func TestAccept(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.engine")
	defer teardown()
	//
	rec := NewRecorder()
	hooks := &testHooks{}
	p, err := NewParser(calcTables(), calcProductions(nil), WithListener(rec), WithHooks(hooks))
	require.NoError(t, err)
	res, err := p.Parse(tokens("n+n", nil))
	require.NoError(t, err)
	assert.Equal(t, Accepted, res.Outcome)
	assert.Equal(t, 0, res.Code())
	assert.Equal(t, 3.0, *numKind.Get(&res.Value))
	assert.NotEmpty(t, res.RunID)
	want := []Step{
		{Kind: ShiftStep, Token: number, State: 2},
		{Kind: ReduceStep, Token: expr, Rule: 2, State: 1},
		{Kind: ShiftStep, Token: plus, State: 4},
		{Kind: ShiftStep, Token: number, State: 2},
		{Kind: ReduceStep, Token: expr, Rule: 2, State: 5},
		{Kind: ReduceStep, Token: expr, Rule: 1, State: 1},
		{Kind: AcceptStep, Token: lalr.EOF, State: 1},
	}
	if diff := cmp.Diff(want, rec.Steps()); diff != "" {
		t.Errorf("parse steps differ (-want +got):\n%s", diff)
	}
	assert.Equal(t, []lalr.TokType{number, plus, number}, hooks.consumed)
	assert.Empty(t, hooks.syntaxErrors)
}

func TestLeftAssociativeReductions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.engine")
	defer teardown()
	//
	rec := NewRecorder()
	p, err := NewParser(calcTables(), calcProductions(nil), WithListener(rec), WithStackIncrement(1))
	require.NoError(t, err)
	res, err := p.Parse(tokens("n+n+n+n", nil))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Code())
	assert.Equal(t, 10.0, *numKind.Get(&res.Value))
	want := []table.RuleID{2, 2, 1, 2, 1, 2, 1}
	if diff := cmp.Diff(want, rec.Reductions()); diff != "" {
		t.Errorf("reductions differ (-want +got):\n%s", diff)
	}
}

func TestSyntaxErrorRecovery(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.engine")
	defer teardown()
	//
	rec := NewRecorder()
	hooks := &testHooks{}
	p, err := NewParser(calcTables(), calcProductions(nil), WithListener(rec), WithHooks(hooks))
	require.NoError(t, err)
	res, err := p.Parse(tokens("n++n", nil))
	require.NoError(t, err)
	assert.Equal(t, SyntaxErrors, res.Outcome)
	assert.Equal(t, 1, res.Errors)
	assert.Equal(t, 1, res.Code())
	assert.Equal(t, 3.0, *numKind.Get(&res.Value), "1 + error + 2")
	require.Len(t, hooks.syntaxErrors, 1)
	e := hooks.syntaxErrors[0]
	assert.Equal(t, plus, e.Token.ID)
	assert.Equal(t, lalr.Span{2, 3}, e.Token.Span)
	assert.Equal(t, lalr.StateID(4), e.State)
	assert.Equal(t, []lalr.TokType{number}, e.Expected)
	assert.Equal(t, 1, e.Count)
	assert.Contains(t, e.Error(), "unexpected '+'")
	assert.Contains(t, e.Error(), "expected one of number")
	assert.Equal(t, 1, rec.Count(ErrorStep))
	assert.Equal(t, 0, rec.Count(DiscardStep))
}

func TestCascadingErrorsAreSuppressed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.engine")
	defer teardown()
	//
	rec := NewRecorder()
	hooks := &testHooks{}
	p, err := NewParser(calcTables(), calcProductions(nil), WithListener(rec), WithHooks(hooks))
	require.NoError(t, err)
	res, err := p.Parse(tokens("n+++n", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Code())
	assert.Len(t, hooks.syntaxErrors, 1)
	assert.Equal(t, 2, rec.Count(ErrorStep), "second error must be recovered silently")
}

func TestErrorAfterRecoveryIsReported(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.engine")
	defer teardown()
	//
	hooks := &testHooks{}
	p, err := NewParser(calcTables(), calcProductions(nil), WithHooks(hooks))
	require.NoError(t, err)
	res, err := p.Parse(tokens("n++n+n++n", nil))
	require.NoError(t, err)
	assert.Equal(t, SyntaxErrors, res.Outcome)
	assert.Equal(t, 2, res.Code())
	assert.Len(t, hooks.syntaxErrors, 2)
	assert.Equal(t, 2, hooks.syntaxErrors[1].Count)
	// with a higher threshold the second error is suppressed
	hooks = &testHooks{}
	p, err = NewParser(calcTables(), calcProductions(nil), WithHooks(hooks), WithRequiredTokens(10))
	require.NoError(t, err)
	res, err = p.Parse(tokens("n++n+n++n", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Code())
}

func TestAbortWithoutErrorItems(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.engine")
	defer teardown()
	//
	released := 0
	hooks := &testHooks{}
	p, err := NewParser(normalOnlyTables(), []Production{{Rule: 1}}, WithHooks(hooks))
	require.NoError(t, err)
	src := tokens("nn", nil)
	res, err := p.Parse(src)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRecoveryExhausted))
	assert.Equal(t, Aborted, res.Outcome)
	assert.Equal(t, AbortCode, res.Code())
	assert.Equal(t, 1, res.Errors)
	assert.Len(t, hooks.syntaxErrors, 1)
	assert.True(t, res.Value.IsEmpty())
	//
	res, err = p.Parse(tokens("+", &released))
	assert.True(t, errors.Is(err, ErrRecoveryExhausted))
	assert.Equal(t, 1, released, "value of offending token must be released on abort")
	assert.Equal(t, AbortCode, res.Code())
}

func TestDiscardTokensWhileRecovering(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.engine")
	defer teardown()
	//
	released := 0
	rec := NewRecorder()
	p, err := NewParser(statementTables(), []Production{{Rule: 1}, {Rule: 2}},
		WithListener(rec), WithHooks(&testHooks{}))
	require.NoError(t, err)
	res, err := p.Parse(tokens("++;", &released))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Code())
	assert.Equal(t, 2, rec.Count(DiscardStep))
	assert.Equal(t, 3, released, "discarded and popped values must be released")
	//
	released = 0
	rec.Reset()
	res, err = p.Parse(tokens("++", &released))
	assert.True(t, errors.Is(err, ErrRecoveryExhausted))
	assert.Equal(t, Aborted, res.Outcome)
	assert.Equal(t, 1, res.Errors)
	assert.Equal(t, 2, released)
}

func TestActionExceptions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.engine")
	defer teardown()
	//
	failure := errors.New("division by zero")
	failing := func(r *Reduction) error { return failure }
	panicking := func(r *Reduction) error { panic("boom") }
	//
	hooks := &testHooks{}
	p, err := NewParser(calcTables(), calcProductions(failing), WithHooks(hooks))
	require.NoError(t, err)
	res, err := p.Parse(tokens("n+n", nil))
	require.Error(t, err)
	assert.Equal(t, Aborted, res.Outcome)
	assert.True(t, errors.Is(err, failure))
	var actionErr *ActionError
	require.True(t, errors.As(err, &actionErr))
	assert.Equal(t, table.RuleID(1), actionErr.Rule.ID)
	assert.Len(t, hooks.exceptions, 1)
	//
	p, err = NewParser(calcTables(), calcProductions(panicking), WithHooks(&testHooks{}))
	require.NoError(t, err)
	res, err = p.Parse(tokens("n+n", nil))
	require.True(t, errors.As(err, &actionErr))
	assert.Equal(t, "boom", actionErr.Panic)
	assert.Equal(t, AbortCode, res.Code())
	//
	hooks = &testHooks{swallow: true}
	p, err = NewParser(calcTables(), calcProductions(panicking), WithHooks(hooks))
	require.NoError(t, err)
	res, err = p.Parse(tokens("n+n+n", nil))
	require.NoError(t, err)
	assert.Equal(t, Accepted, res.Outcome)
	assert.Len(t, hooks.exceptions, 2)
	assert.True(t, res.Value.IsEmpty(), "result of a failed action stays as set")
}

func TestTypeMismatchPanics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.engine")
	defer teardown()
	//
	wrong := func(r *Reduction) error {
		textKind.Get(r.RHS(1)) // holds a number
		return nil
	}
	released := 0
	p, err := NewParser(calcTables(), calcProductions(wrong), WithHooks(&testHooks{swallow: true}))
	require.NoError(t, err)
	assert.Panics(t, func() {
		_, _ = p.Parse(tokens("n+n", &released))
	})
	assert.Equal(t, 1, released, "stack must be released when panicking")
	// parser is usable afterwards, as long as rule 1 is not reduced
	res, err := p.Parse(tokens("n", nil))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Code())
	assert.Equal(t, 1.0, *numKind.Get(&res.Value))
}

func TestUndeclaredResultKind(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.engine")
	defer teardown()
	//
	types, err := value.NewTypeSet("calc", numKind)
	require.NoError(t, err)
	texting := func(r *Reduction) error {
		textKind.Assign(r.Result(), "sum")
		return nil
	}
	p, err := NewParser(calcTables(), calcProductions(texting), WithTypes(types))
	require.NoError(t, err)
	_, err = p.Parse(tokens("n+n", nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, value.ErrTypeMismatch))
	p, err = NewParser(calcTables(), calcProductions(nil), WithTypes(types))
	require.NoError(t, err)
	_, err = p.Parse(tokens("n+n", nil))
	assert.NoError(t, err)
}

func TestValuesAreReleased(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.engine")
	defer teardown()
	//
	released := 0
	p, err := NewParser(calcTables(), calcProductions(nil))
	require.NoError(t, err)
	res, err := p.Parse(tokens("n+n+n", &released))
	require.NoError(t, err)
	assert.Equal(t, 2, released, "values of '+' tokens must be released after reduction")
	assert.Equal(t, 6.0, *numKind.Get(&res.Value))
	//
	released = 0
	res, err = p.Parse(tokens("n+++n", &released))
	require.NoError(t, err)
	assert.Equal(t, 3, released)
	assert.Equal(t, 1, res.Code())
}

func TestReductionAccess(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.engine")
	defer teardown()
	//
	var lookaheads []lalr.TokType
	var spans []lalr.Span
	inspect := func(r *Reduction) error {
		lookaheads = append(lookaheads, r.Lookahead())
		spans = append(spans, r.Span(0))
		assert.Equal(t, 3, r.Len())
		assert.Equal(t, lalr.Span{1, 2}, r.Span(2))
		assert.Equal(t, r.RHS(3), r.At(0))
		assert.False(t, r.Recovering())
		assert.Equal(t, 0, r.Errors())
		assert.Panics(t, func() { r.RHS(4) })
		// move values out of the handle
		a, b := r.RHS(1).Move(), r.RHS(3).Move()
		numKind.Assign(r.Result(), numOf(&a)*10+numOf(&b))
		return nil
	}
	p, err := NewParser(calcTables(), calcProductions(inspect))
	require.NoError(t, err)
	res, err := p.Parse(tokens("n+n", nil))
	require.NoError(t, err)
	assert.Equal(t, 12.0, *numKind.Get(&res.Value))
	// state of rule 1 reduces by default, without reading a lookahead
	assert.Equal(t, []lalr.TokType{lalr.Undetermined}, lookaheads)
	assert.Equal(t, []lalr.Span{{0, 3}}, spans)
}

func TestParserReuse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.engine")
	defer teardown()
	//
	p, err := NewParser(calcTables(), calcProductions(nil), WithHooks(&testHooks{}),
		WithTracer(tracing.Select("lalr.engine.reuse")))
	require.NoError(t, err)
	first, err := p.Parse(tokens("n++n", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, first.Code())
	second, err := p.Parse(tokens("n+n", nil))
	require.NoError(t, err)
	assert.Equal(t, 0, second.Code(), "error count must be reset between parses")
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRecoveryWithoutProgressSkipsToken(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.engine")
	defer teardown()
	//
	rec := NewRecorder()
	hooks := &testHooks{}
	p, err := NewParser(calcTables(), calcProductions(nil), WithListener(rec), WithHooks(hooks))
	require.NoError(t, err)
	res, err := p.Parse(tokens("nn", nil))
	require.NoError(t, err)
	assert.Equal(t, SyntaxErrors, res.Outcome)
	assert.Equal(t, 1, res.Code())
	assert.Len(t, hooks.syntaxErrors, 1)
	assert.Equal(t, 2, rec.Count(ErrorStep))
	assert.Equal(t, 1, rec.Count(DiscardStep))
	assert.Equal(t, AcceptStep, rec.Steps()[len(rec.Steps())-1].Kind)
}
