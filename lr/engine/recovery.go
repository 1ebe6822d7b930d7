package engine

import (
	"fmt"

	"github.com/npillmayer/lalr"
	"github.com/npillmayer/lalr/lr/table"
	"github.com/npillmayer/lalr/value"
)

// recoverFromError is called if there is no action for the current token.
//
// Errors are reported unless the parser is still recovering from a previous
// error, i.e. has shifted fewer than the required number of tokens since.
// The stack is unwound to the topmost state which has an item for the error
// token, the error token is shifted and input tokens are skipped until one
// is found which has an action in the new state.
//
// If the parser runs into an error again before having shifted a single
// token since the last one, the current token is skipped first. Otherwise
// recovery could cycle without consuming any input.
//
// Returns ErrRecoveryExhausted if the stack runs empty or input ends while
// skipping tokens.
func (p *Parser) recoverFromError() error {
	span := p.token.Span
	if p.mode == recovering && p.accepted < p.required {
		p.debugf("suppressing error at %v, %d of %d tokens shifted", p.token, p.accepted, p.required)
		if p.accepted == 0 {
			if err := p.discard(); err != nil {
				return err
			}
		}
	} else {
		p.errors++
		p.hooks.OnSyntaxError(p.syntaxError())
	}
	p.mode = erroring
	for !p.tables.State(p.stack.Top()).Type.Has(table.ErrorItem) {
		if p.stack.Depth() <= 1 {
			return fmt.Errorf("%w: no state accepts the error token", ErrRecoveryExhausted)
		}
		p.debugf("error recovery pops state %d", p.stack.Top())
		p.stack.Pop(1)
	}
	p.pushBack()
	action := p.tables.Lookup(p.stack.Top(), lalr.ErrorToken)
	if !action.IsShift() {
		return fmt.Errorf("%w: state %d does not shift the error token", ErrTableCorrupt, p.stack.Top())
	}
	p.stack.Push(action.Target(), value.Value{}, span)
	p.notify(Step{Kind: ErrorStep, Token: lalr.ErrorToken, State: action.Target()})
	p.accepted = 0
	p.mode = recovering
	for {
		if p.token.ID == lalr.Undetermined {
			p.nextToken()
		}
		if p.tables.Lookup(p.stack.Top(), p.token.ID) != table.NoAction {
			return nil
		}
		if err := p.discard(); err != nil {
			return err
		}
	}
}

// discard skips the current token during error recovery. The end of input
// cannot be skipped.
func (p *Parser) discard() error {
	if p.token.ID == lalr.EOF {
		return fmt.Errorf("%w: end of input while skipping tokens", ErrRecoveryExhausted)
	}
	p.debugf("error recovery skips token %v", p.token)
	p.notify(Step{Kind: DiscardStep, Token: p.token.ID, State: p.stack.Top()})
	p.token.Value.Release()
	p.token = lalr.NoToken()
	return nil
}

func (p *Parser) syntaxError() SyntaxError {
	s := p.stack.Top()
	return SyntaxError{
		Token:    lalr.Token{ID: p.token.ID, Lexeme: p.token.Lexeme, Span: p.token.Span},
		State:    s,
		Expected: p.tables.ExpectedTokens(s),
		Count:    p.errors,
		names:    p.tables.SymbolName,
	}
}
