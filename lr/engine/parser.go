package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/npillmayer/lalr"
	"github.com/npillmayer/lalr/lr/stack"
	"github.com/npillmayer/lalr/lr/table"
	"github.com/npillmayer/lalr/value"
	"github.com/npillmayer/schuko/tracing"
)

// DefaultRequiredTokens is the number of tokens to shift after a syntax error
// before further errors are reported, if neither tables nor options say otherwise.
const DefaultRequiredTokens = 3

// Action is a semantic action, called when reducing by a rule.
type Action func(*Reduction) error

// Production binds a semantic action to a grammar rule. A nil Action moves
// the value of the first right hand side symbol to the result.
type Production struct {
	Rule   table.RuleID
	Action Action
}

// recovery mode of the parser
type mode int

const (
	normal     mode = iota // no error pending
	erroring               // syntax error detected, unwinding
	recovering             // error token shifted, waiting for enough tokens to be shifted
	aborted
)

func (m mode) String() string {
	return [...]string{"normal", "erroring", "recovering", "aborted"}[m]
}

// Parser is an LALR(1) parser. Create one with NewParser.
type Parser struct {
	tables      *table.Tables
	productions []Production // indexed by rule id
	hooks       Hooks
	trace       tracing.Trace
	listener    Listener
	types       *value.TypeSet
	increment   int
	required    int // tokens to shift before leaving recovery
	// per-parse state
	stack    *stack.Stack
	src      lalr.TokenSource
	token    lalr.Token // current token, Undetermined if none
	saved    lalr.Token // token pushed back, Undetermined if none
	mode     mode
	errors   int // syntax errors reported
	accepted int // tokens shifted since the last error
	runID    string
	red      Reduction
}

// Option configures a parser.
type Option func(*Parser)

// WithHooks sets the hooks to call for syntax errors, exceptions and tokens.
func WithHooks(h Hooks) Option {
	return func(p *Parser) {
		if h != nil {
			p.hooks = h
		}
	}
}

// WithStackIncrement sets the number of entries the parse stack grows by.
func WithStackIncrement(n int) Option {
	return func(p *Parser) {
		p.increment = n
	}
}

// WithRequiredTokens sets the number of tokens to shift after a syntax error
// before further errors are reported. Overrides the setting of the tables.
func WithRequiredTokens(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.required = n
		}
	}
}

// WithTracer sets a tracer for debugging output of this parser, instead of
// the global one for 'lalr.engine'.
func WithTracer(t tracing.Trace) Option {
	return func(p *Parser) {
		p.trace = t
	}
}

// WithListener sets a listener to be informed about every step of a parse.
func WithListener(l Listener) Option {
	return func(p *Parser) {
		p.listener = l
	}
}

// WithTypes makes the parser check that semantic actions only produce values
// of kinds in ts.
func WithTypes(ts *value.TypeSet) Option {
	return func(p *Parser) {
		p.types = ts
	}
}

// NewParser creates a parser for tables. Every rule of the tables has to be
// bound to a production.
func NewParser(tables *table.Tables, productions []Production, opts ...Option) (*Parser, error) {
	if tables == nil {
		return nil, errors.New("cannot create parser without tables")
	}
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	p := &Parser{
		tables:      tables,
		productions: make([]Production, len(tables.Rules)+1),
		hooks:       DefaultHooks{},
		increment:   stack.DefaultIncrement,
		required:    tables.RequiredTokens,
		token:       lalr.NoToken(),
		saved:       lalr.NoToken(),
	}
	bound := make([]bool, len(tables.Rules)+1)
	for _, prod := range productions {
		if prod.Rule < 1 || int(prod.Rule) > len(tables.Rules) {
			return nil, fmt.Errorf("production for non-existent rule %d", prod.Rule)
		}
		if bound[prod.Rule] {
			return nil, fmt.Errorf("more than one production for rule %v", tables.Rule(prod.Rule))
		}
		bound[prod.Rule] = true
		p.productions[prod.Rule] = prod
	}
	for _, r := range tables.Rules {
		if !bound[r.ID] {
			return nil, fmt.Errorf("rule %v has no production", r)
		}
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.required < 1 {
		p.required = DefaultRequiredTokens
	}
	p.stack = stack.New(p.increment)
	return p, nil
}

// Tables returns the tables of the parser.
func (p *Parser) Tables() *table.Tables {
	return p.tables
}

func (p *Parser) tracer() tracing.Trace {
	if p.trace != nil {
		return p.trace
	}
	return tracer()
}

func (p *Parser) debugf(format string, args ...interface{}) {
	if t := p.tracer(); t.GetTraceLevel() >= tracing.LevelDebug {
		t.P("run", p.runID[:8]).Debugf(format, args...)
	}
}

// Parse parses the input delivered by src. It returns a Result and, for aborted
// parses, the error which caused the abort. On every return all semantic values
// but the result value have been released.
//
// Type mismatches of semantic values are programming errors and panic.
func (p *Parser) Parse(src lalr.TokenSource) (Result, error) {
	if src == nil {
		return Result{Outcome: Aborted}, ErrNoInput
	}
	p.start(src)
	defer p.cleanup()
	for {
		s := p.stack.Top()
		if p.token.ID == lalr.Undetermined && p.needsToken(s) {
			p.nextToken()
		}
		action := p.tables.Lookup(s, p.token.ID)
		p.debugf("state %d, token %s: %v", s, p.tables.SymbolName(p.token.ID), action)
		switch {
		case action == table.NoAction:
			if err := p.recoverFromError(); err != nil {
				return p.abort(err)
			}
		case action.IsAccept():
			return p.accept(), nil
		case action.IsShift():
			p.shift(action.Target())
		default:
			if err := p.reduce(action.Rule()); err != nil {
				return p.abort(err)
			}
		}
	}
}

func (p *Parser) start(src lalr.TokenSource) {
	p.src = src
	p.runID = uuid.NewString()
	p.stack.Start(0)
	p.token, p.saved = lalr.NoToken(), lalr.NoToken()
	p.mode = normal
	p.errors, p.accepted = 0, 0
	p.tracer().P("run", p.runID[:8]).Infof("starting parse with tables %s", p.tables.Name)
}

func (p *Parser) cleanup() {
	p.stack.Reset()
	p.token.Value.Release()
	p.saved.Value.Release()
	p.red.result.Release()
	p.token, p.saved = lalr.NoToken(), lalr.NoToken()
	p.red = Reduction{}
	p.src = nil
}

// needsToken is a predicate: does state s need a lookahead token to decide
// on its action?
func (p *Parser) needsToken(s lalr.StateID) bool {
	st := p.tables.State(s)
	return st.Type.Has(table.RequiresToken) || !st.Type.Has(table.DefaultReduction)
}

// nextToken makes the pushed back token current, or reads a new one from the source.
func (p *Parser) nextToken() {
	if p.saved.ID != lalr.Undetermined {
		p.token, p.saved = p.saved, lalr.NoToken()
		return
	}
	p.token = p.src.NextToken()
	if p.token.ID == lalr.Undetermined {
		p.tracer().Errorf("token source returned undetermined token, treating it as error token")
		p.token.ID = lalr.ErrorToken
	}
	p.debugf("read token %v", p.token)
}

// pushBack moves the current token into the saved-token slot.
func (p *Parser) pushBack() {
	if p.token.ID == lalr.Undetermined {
		return
	}
	if p.saved.ID != lalr.Undetermined {
		panic(fmt.Sprintf("cannot push back token %v, slot occupied by %v", p.token, p.saved))
	}
	p.saved, p.token = p.token, lalr.NoToken()
}

func (p *Parser) shift(target lalr.StateID) {
	tok := p.token
	p.token = lalr.NoToken()
	p.stack.Push(target, tok.Value.Move(), tok.Span)
	p.notify(Step{Kind: ShiftStep, Token: tok.ID, State: target})
	if tok.ID == lalr.ErrorToken {
		return
	}
	p.accepted++
	if p.mode == recovering && p.accepted >= p.required {
		p.debugf("recovered from syntax error after %d tokens", p.accepted)
		p.mode = normal
	}
	p.hooks.OnTokenConsumed(tok)
}

func (p *Parser) reduce(id table.RuleID) error {
	rule := p.tables.Rule(id)
	p.pushBack()
	if rule.Length >= p.stack.Depth() {
		return fmt.Errorf("%w: rule %v needs %d symbols, stack depth is %d",
			ErrTableCorrupt, rule, rule.Length, p.stack.Depth())
	}
	p.red = Reduction{parser: p, rule: rule}
	red := &p.red
	if err := p.dispatch(red); err != nil {
		if err = p.hooks.OnException(err); err != nil {
			return err
		}
		p.debugf("swallowed exception in rule %v", rule)
	}
	span := red.Span(0)
	p.stack.Pop(rule.Length)
	target := p.tables.Lookup(p.stack.Top(), rule.LHS)
	if !target.IsShift() {
		return fmt.Errorf("%w: no goto from state %d on %s",
			ErrTableCorrupt, p.stack.Top(), p.tables.SymbolName(rule.LHS))
	}
	p.debugf("reduced by %v, goto %d", rule, target.Target())
	p.stack.Push(target.Target(), red.result.Move(), span)
	p.notify(Step{Kind: ReduceStep, Token: rule.LHS, Rule: id, State: target.Target()})
	return nil
}

func (p *Parser) accept() Result {
	p.mode = normal
	r := Result{Outcome: Accepted, Errors: p.errors, RunID: p.runID}
	if p.errors > 0 {
		r.Outcome = SyntaxErrors
	}
	r.Value = p.stack.ValueAt(0).Move()
	p.notify(Step{Kind: AcceptStep, Token: lalr.EOF, State: p.stack.Top()})
	p.tracer().P("run", p.runID[:8]).Infof("input accepted with %d syntax error(s)", p.errors)
	return r
}

func (p *Parser) abort(err error) (Result, error) {
	p.mode = aborted
	p.tracer().P("run", p.runID[:8]).Infof("parse aborted: %v", err)
	return Result{Outcome: Aborted, Errors: p.errors, RunID: p.runID}, err
}

func (p *Parser) notify(s Step) {
	if p.listener != nil {
		p.listener.Step(s)
	}
}
