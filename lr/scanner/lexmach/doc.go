/*
Package lexmach lets lexmachine DFAs deliver tokens to the LALR parser.

An adapter holds a compiled lexmachine.Lexer. Patterns are added in an init
function; literal one-char lexemes and keywords are added by the adapter
itself, with token types taken from a name→id map. Token types are the
terminal ids of the parse tables, so a number pattern will usually be mapped
to scanner.Int:

	ids := map[string]int{"NUMBER": scanner.Int, "+": '+'}
	lm, err := lexmach.NewLMAdapter(func(lexer *lexmachine.Lexer) {
		lexer.Add([]byte(`[0-9]+`), lexmach.MakeToken("NUMBER", ids["NUMBER"]))
		lexer.Add([]byte(`( |\t|\n)+`), lexmach.Skip)
	}, []string{"+"}, nil, ids)

Tokens arriving at the parser may carry a semantic value. The adapter's
Valuer is called for every token matched and returns the value to attach:

	lm.Valuer = func(tt lalr.TokType, lexeme string) (value.Value, error) {
		if tt != scanner.Int {
			return value.Value{}, nil
		}
		n, err := strconv.ParseFloat(lexeme, 64)
		return Number.New(n), err
	}

where Number is a value.Kind declared by the grammar. A failing Valuer is
reported to the scanner's error handler, and the token is delivered without a
value.

Every input gets its own LMScanner, which is a scanner.Tokenizer and may be
handed to engine.Parser.Parse directly. Input the DFA cannot match is
reported to the error handler and skipped. Spans are byte offsets into the
input; at the end of input the scanner returns EOF tokens with an empty span
at the input's length.

Package lang/calc shows the complete setup.

________________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexmach
