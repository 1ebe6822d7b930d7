package lexmach

import (
	"errors"
	"strconv"
	"testing"

	"github.com/npillmayer/lalr"
	"github.com/npillmayer/lalr/lr/scanner"
	"github.com/npillmayer/lalr/value"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

var inputStrings = []string{
	"1",
	"1+12",
	"Hello #World",
	`x="mystring" // commented `,
	"1,22,333",
}

var TokenCounts = []int{1, 3, 2, 3, 3}

func TestLM(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.scanner")
	defer teardown()
	//
	LM, err := lispAdapter()
	if err != nil {
		t.Fatal(err)
	}
	for i, input := range inputStrings {
		t.Logf("------+-----------------+--------")
		sc, err := LM.Scanner(input)
		if err != nil {
			t.Error(err)
		}
		token := sc.NextToken()
		count := 0
		for token.ID != scanner.EOF {
			t.Logf(" %4d | %15s | @%5d", token.ID, token.Lexeme, token.Span.From())
			token = sc.NextToken()
			count++
		}
		if count != TokenCounts[i] {
			t.Errorf("Expected token count for #%d to be %d, is %d", i, TokenCounts[i], count)
		}
	}
	t.Logf("------+-----------------+--------")
}

func lispAdapter() (*LMAdapter, error) {
	initTokens()
	init := func(lexer *lexmachine.Lexer) {
		lexer.Add([]byte(`//[^\n]*\n?`), Skip)
		lexer.Add([]byte(`\"[^"]*\"`), MakeToken("STRING", tokenIds["STRING"]))
		lexer.Add([]byte(`#?([a-z]|[A-Z])([a-z]|[A-Z]|[0-9]|_|-)*[!\?]?`), MakeToken("ID", tokenIds["ID"]))
		lexer.Add([]byte(`[1-9][0-9]*`), MakeToken("NUM", tokenIds["NUM"]))
		lexer.Add([]byte(`( |\,|\t|\n|\r)+`), Skip)
	}
	return NewLMAdapter(init, literals, keywords, tokenIds)
}

var number = value.Declare[int](1, "number", nil)

func TestLMValuesAndErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.scanner")
	defer teardown()
	//
	LM, err := lispAdapter()
	require.NoError(t, err)
	LM.Valuer = func(tt lalr.TokType, lexeme string) (value.Value, error) {
		if tt != scanner.Int {
			return value.Value{}, nil
		}
		n, err := strconv.Atoi(lexeme)
		return number.New(n), err
	}
	var errs []error
	sc, err := LM.Scanner("12 ~ x")
	require.NoError(t, err)
	sc.SetErrorHandler(func(e error) { errs = append(errs, e) })
	tok := sc.NextToken()
	assert.Equal(t, lalr.TokType(scanner.Int), tok.ID)
	assert.Equal(t, 12, *number.Get(&tok.Value))
	assert.Equal(t, lalr.Span{0, 2}, tok.Span)
	tok = sc.NextToken() // skips '~'
	assert.Equal(t, lalr.TokType(scanner.Ident), tok.ID)
	assert.Equal(t, "x", tok.Lexeme)
	assert.Equal(t, lalr.Span{5, 6}, tok.Span)
	assert.NotEmpty(t, errs)
	tok = sc.NextToken()
	assert.Equal(t, lalr.EOF, tok.ID)
	assert.Equal(t, lalr.Span{6, 6}, tok.Span)
}

func TestLMActionErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lalr.scanner")
	defer teardown()
	//
	initTokens()
	bad := errors.New("no bangs")
	init := func(lexer *lexmachine.Lexer) {
		lexer.Add([]byte(`[0-9]+`), MakeToken("NUM", tokenIds["NUM"]))
		lexer.Add([]byte(`!`), func(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
			return nil, bad // input is consumed
		})
		lexer.Add([]byte(`\?`), func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
			s.TC = m.TC // input is not consumed
			return nil, bad
		})
		lexer.Add([]byte(` +`), Skip)
	}
	LM, err := NewLMAdapter(init, nil, nil, tokenIds)
	require.NoError(t, err)
	var errs []error
	sc, err := LM.Scanner("1 ! 2 ? 3")
	require.NoError(t, err)
	sc.SetErrorHandler(func(e error) { errs = append(errs, e) })
	tok := sc.NextToken()
	assert.Equal(t, "1", tok.Lexeme)
	tok = sc.NextToken()
	assert.Equal(t, "2", tok.Lexeme, "consumed input must be skipped")
	tok = sc.NextToken()
	assert.Equal(t, lalr.EOF, tok.ID, "scanner must give up where it cannot advance")
	tok = sc.NextToken()
	assert.Equal(t, lalr.EOF, tok.ID)
	require.Len(t, errs, 3) // '!' once, '?' until the scanner gives up
	for _, e := range errs {
		assert.ErrorIs(t, e, bad)
	}
}

var literals []string       // The tokens representing literal strings
var keywords []string       // The keyword tokens
var tokens []string         // All of the tokens (including literals and keywords)
var tokenIds map[string]int // A map from the token names to their int ids

func initTokens() {
	literals = []string{
		"'",
		"(",
		")",
		"[",
		"]",
		"=",
		"+",
		"-",
		"*",
		"/",
	}
	keywords = []string{
		"nil",
		"t",
	}
	tokens = []string{
		"COMMENT",
		"ID",
		"NUM",
		"STRING",
	}
	tokens = append(tokens, keywords...)
	tokens = append(tokens, literals...)
	tokenIds = make(map[string]int)
	tokenIds["COMMENT"] = scanner.Comment
	tokenIds["ID"] = scanner.Ident
	tokenIds["NUM"] = scanner.Int
	tokenIds["STRING"] = int(scanner.String)
	for i, tok := range tokens[4:] {
		tokenIds[tok] = i + 10
	}
}
