package calc

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/npillmayer/lalr"
	"github.com/npillmayer/lalr/lr/scanner"
	"github.com/npillmayer/lalr/lr/scanner/lexmach"
	"github.com/npillmayer/lalr/value"
	"github.com/timtadh/lexmachine"
)

// Token types of the language.
const (
	NumberToken lalr.TokType = scanner.Int
	PlusToken   lalr.TokType = '+'
	ExprSymbol  lalr.TokType = 1001
)

// The tokens representing literal one-char lexemes
var literals = []string{"+"}

var tokenIds = map[string]int{
	"NUMBER": int(NumberToken),
	"+":      int(PlusToken),
}

// valuer creates semantic values for numbers and operators.
func valuer(tt lalr.TokType, lexeme string) (value.Value, error) {
	switch tt {
	case NumberToken:
		x, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return value.Value{}, err
		}
		return Number.New(x), nil
	case PlusToken:
		return Text.New(lexeme), nil
	}
	return value.Value{}, nil
}

// Tokenizer creates a tokenizer for input, backed by text/scanner.
// Comments are skipped, floats and integers both are numbers.
func Tokenizer(input string) scanner.Tokenizer {
	return scanner.GoTokenizer("calc", strings.NewReader(input),
		scanner.SkipComments(true),
		scanner.UnifyNumbers(true),
		scanner.WithValuer(valuer),
	)
}

var lexer *lexmach.LMAdapter
var lexerErr error
var lexerOnce sync.Once // monitors one-time creation of the lexer

// Lexer returns a lexmachine lexer for the language. It is created once and
// shared.
func Lexer() (*lexmach.LMAdapter, error) {
	lexerOnce.Do(func() {
		tracer().Infof("Creating lexer")
		init := func(lexer *lexmachine.Lexer) {
			lexer.Add([]byte(`//[^\n]*\n?`), lexmach.Skip) // skip comments
			lexer.Add([]byte(`[0-9]+(\.[0-9]+)?`), makeToken("NUMBER"))
			lexer.Add([]byte(`( |\t|\n|\r)+`), lexmach.Skip)
		}
		lexer, lexerErr = lexmach.NewLMAdapter(init, literals, nil, tokenIds)
		if lexerErr == nil {
			lexer.Valuer = valuer
		}
	})
	return lexer, lexerErr
}

// LMTokenizer creates a tokenizer for input, backed by lexmachine.
func LMTokenizer(input string) (scanner.Tokenizer, error) {
	lm, err := Lexer()
	if err != nil {
		return nil, err
	}
	sc, err := lm.Scanner(input)
	if err != nil {
		return nil, err
	}
	return sc, nil
}

func makeToken(s string) lexmachine.Action {
	id, ok := tokenIds[s]
	if !ok {
		panic(fmt.Errorf("unknown token: %s", s))
	}
	return lexmach.MakeToken(s, id)
}
