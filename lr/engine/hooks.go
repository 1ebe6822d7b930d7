package engine

import (
	"github.com/npillmayer/lalr"
)

// Hooks are called by the parser on noteworthy events. Clients usually embed
// DefaultHooks and override selected methods.
type Hooks interface {
	// OnSyntaxError is called for every syntax error reported. Errors detected
	// shortly after a previous one are not reported.
	OnSyntaxError(SyntaxError)
	// OnException is called with an *ActionError whenever a semantic action
	// fails. Returning nil swallows the error and the parse continues,
	// returning an error aborts the parse.
	OnException(error) error
	// OnTokenConsumed is called whenever an input token is shifted. The token's
	// value has already been transferred to the parse stack.
	OnTokenConsumed(lalr.Token)
}

// DefaultHooks traces syntax errors and aborts on exceptions.
type DefaultHooks struct{}

var _ Hooks = DefaultHooks{}

func (DefaultHooks) OnSyntaxError(e SyntaxError) {
	tracer().Errorf("%v", e)
}

func (DefaultHooks) OnException(err error) error {
	return err
}

func (DefaultHooks) OnTokenConsumed(lalr.Token) {}
