package calc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/npillmayer/lalr"
	"github.com/npillmayer/lalr/lr/engine"
	"github.com/npillmayer/lalr/lr/scanner"
	"github.com/npillmayer/lalr/value"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.calc")
	defer teardown()
	//
	for i, tc := range []struct {
		input string
		want  float64
	}{
		{"7", 7},
		{"1+2", 3},
		{"1 + 2.5 + 3", 6.5},
		{"// comment\n 4 + 5", 9},
		{"1+2+3+4+5+6+7+8+9+10", 55},
	} {
		x, result, err := Eval(tc.input)
		require.NoError(t, err, "test case #%d", i)
		assert.Equal(t, 0, result.Code(), "test case #%d", i)
		assert.Equal(t, tc.want, x, "test case #%d: %q", i, tc.input)
	}
}

func TestTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.calc")
	defer teardown()
	//
	tree, result, err := Parse("1+2+3")
	require.NoError(t, err)
	assert.Equal(t, engine.Accepted, result.Outcome)
	assert.Equal(t, "(+ (+ 1 2) 3)", tree.String())
	assert.Equal(t, lalr.Span{0, 5}, tree.Span)
	assert.Equal(t, lalr.Span{0, 3}, tree.Children[0].Span)
	assert.Equal(t, lalr.Span{4, 5}, tree.Children[1].Span)
	assert.Equal(t, "(+ (+ 1 2) 3)(0…5)", fmt.Sprintf("%+v", tree))
	assert.Empty(t, tree.Errors())
}

func TestSyntaxErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.calc")
	defer teardown()
	//
	for i, tc := range []struct {
		input string
		tree  string
		sum   float64
	}{
		{"1++2", "(+ (+ 1 error) 2)", 3},
		{"1 +", "(+ 1 error)", 1},
		{"1 2", "error", 0},
		{"1 * 2", "error", 0},
		{"", "error", 0},
	} {
		tree, result, err := Parse(tc.input)
		require.NoError(t, err, "test case #%d", i)
		assert.Equal(t, engine.SyntaxErrors, result.Outcome, "test case #%d", i)
		assert.Equal(t, 1, result.Code(), "test case #%d", i)
		assert.Equal(t, tc.tree, tree.String(), "test case #%d: %q", i, tc.input)
		x, err := tree.Eval()
		assert.True(t, errors.Is(err, ErrIncomplete), "test case #%d", i)
		assert.Equal(t, tc.sum, x, "test case #%d", i)
	}
}

type collector struct {
	engine.DefaultHooks
	errs []engine.SyntaxError
}

func (c *collector) OnSyntaxError(e engine.SyntaxError) {
	c.errs = append(c.errs, e)
}

func TestSyntaxErrorReport(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.calc")
	defer teardown()
	//
	hooks := &collector{}
	tree, result, err := Parse("1 ++ 2", engine.WithHooks(hooks))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Code())
	require.Len(t, hooks.errs, 1)
	assert.Equal(t, lalr.Span{3, 4}, hooks.errs[0].Token.Span)
	assert.Equal(t, "syntax error at (3…4): unexpected '+' \"+\", expected one of number",
		hooks.errs[0].Error())
	errNodes := tree.Errors()
	require.Len(t, errNodes, 1)
	assert.Equal(t, lalr.Span{3, 4}, errNodes[0].Span)
}

func TestLexmachine(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.calc")
	defer teardown()
	//
	src, err := LMTokenizer("1 + 2.5 // and a comment\n+ 10")
	require.NoError(t, err)
	tree, result, err := ParseTokens(src)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Code())
	x, err := tree.Eval()
	require.NoError(t, err)
	assert.Equal(t, 13.5, x)
	assert.Equal(t, lalr.Span{0, 29}, tree.Span)
}

func TestActionFailure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.calc")
	defer teardown()
	//
	src := scanner.FromTokens(lalr.Token{ID: NumberToken, Lexeme: "1", Span: lalr.Span{0, 1}})
	tree, result, err := ParseTokens(src)
	require.Error(t, err)
	assert.Nil(t, tree)
	assert.Equal(t, engine.Aborted, result.Outcome)
	var actionErr *engine.ActionError
	require.True(t, errors.As(err, &actionErr))
	assert.Equal(t, "Expr → number", actionErr.Rule.Name)
	assert.True(t, errors.Is(err, value.ErrTypeMismatch))
}

func TestTreeValues(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.calc")
	defer teardown()
	//
	types, err := Types()
	require.NoError(t, err)
	assert.Equal(t, 3, types.Size())
	assert.Equal(t, "tree", types.Name(Tree.Tag()))
	tables, err := Tables()
	require.NoError(t, err)
	assert.Equal(t, "calc", tables.Name)
	//
	tree, _, err := Parse("1+2")
	require.NoError(t, err)
	v := Tree.New(tree)
	c := v.Clone()
	(*Tree.Get(&c)).Children[0].Number = 100
	assert.Equal(t, "(+ 1 2)", (*Tree.Get(&v)).String(), "clone must not share nodes")
	assert.Equal(t, "(+ 100 2)", (*Tree.Get(&c)).String())
}
