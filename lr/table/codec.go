package table

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/npillmayer/lalr"
	"gopkg.in/yaml.v3"
)

// Tables are stored in a file format which is easier to write by hand than the
// in-memory form. An example in TOML:
//
//    name = "calc"
//    required_tokens = 3
//
//    [[symbol]]
//    id = 1001
//    name = "Expr"
//
//    [[rule]]
//    id = 1
//    lhs = 1001
//    length = 3
//    name = "Expr → Expr + Expr"
//
//    [[state]]
//    id = 0
//    type = "error-item|requires-token"
//    transitions = [ { token = 1001, shift = 1 }, { token = -1024, shift = 3 } ]
//
//    [[state]]
//    id = 2
//    type = "default-reduction"
//    reduce = 2
//
// A transition has exactly one of 'shift', 'reduce' or 'accept' set.
type tablesFile struct {
	Name           string       `toml:"name" yaml:"name"`
	RequiredTokens int          `toml:"required_tokens,omitempty" yaml:"required_tokens,omitempty"`
	Symbols        []symbolFile `toml:"symbol" yaml:"symbols"`
	Rules          []ruleFile   `toml:"rule" yaml:"rules"`
	States         []stateFile  `toml:"state" yaml:"states"`
}

type symbolFile struct {
	ID   int    `toml:"id" yaml:"id"`
	Name string `toml:"name" yaml:"name"`
}

type ruleFile struct {
	ID     int    `toml:"id" yaml:"id"`
	LHS    int    `toml:"lhs" yaml:"lhs"`
	Length int    `toml:"length" yaml:"length"`
	Name   string `toml:"name,omitempty" yaml:"name,omitempty"`
}

type stateFile struct {
	ID          int              `toml:"id" yaml:"id"`
	Type        string           `toml:"type,omitempty" yaml:"type,omitempty"`
	Reduce      int              `toml:"reduce,omitempty" yaml:"reduce,omitempty"`
	Transitions []transitionFile `toml:"transitions,omitempty" yaml:"transitions,omitempty"`
}

type transitionFile struct {
	Token  int  `toml:"token" yaml:"token"`
	Shift  int  `toml:"shift,omitempty" yaml:"shift,omitempty"`
	Reduce int  `toml:"reduce,omitempty" yaml:"reduce,omitempty"`
	Accept bool `toml:"accept,omitempty" yaml:"accept,omitempty"`
}

func (f *tablesFile) tables() (*Tables, error) {
	t := &Tables{
		Name:           f.Name,
		RequiredTokens: f.RequiredTokens,
		States:         make([]State, len(f.States)),
		Rules:          make([]Rule, len(f.Rules)),
		Symbols:        make(map[lalr.TokType]string, len(f.Symbols)),
	}
	for _, s := range f.Symbols {
		t.Symbols[lalr.TokType(s.ID)] = s.Name
	}
	for _, r := range f.Rules {
		if r.ID < 1 || r.ID > len(f.Rules) {
			return nil, fmt.Errorf("%w: rule id %d out of range", ErrInvalidTables, r.ID)
		}
		t.Rules[r.ID-1] = Rule{ID: RuleID(r.ID), LHS: lalr.TokType(r.LHS), Length: r.Length, Name: r.Name}
	}
	defined := make([]bool, len(f.States))
	for _, s := range f.States {
		if s.ID < 0 || s.ID >= len(f.States) || defined[s.ID] {
			return nil, fmt.Errorf("%w: state id %d out of range or duplicate", ErrInvalidTables, s.ID)
		}
		defined[s.ID] = true
		st, err := ParseStateType(s.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: state %d: %v", ErrInvalidTables, s.ID, err)
		}
		state := State{Type: st, Default: NoAction}
		if s.Reduce != 0 {
			state.Default = Reduce(RuleID(s.Reduce))
		}
		for _, tr := range s.Transitions {
			a, err := tr.action()
			if err != nil {
				return nil, fmt.Errorf("%w: state %d, token %d: %v", ErrInvalidTables, s.ID, tr.Token, err)
			}
			state.Entries = append(state.Entries, Entry{Token: lalr.TokType(tr.Token), Action: a})
		}
		t.States[s.ID] = state
	}
	return t, nil
}

func (tr transitionFile) action() (Action, error) {
	n := 0
	a := NoAction
	if tr.Shift != 0 {
		n++
		a = Shift(lalr.StateID(tr.Shift))
	}
	if tr.Reduce != 0 {
		n++
		a = Reduce(RuleID(tr.Reduce))
	}
	if tr.Accept {
		n++
		a = Accept
	}
	if n != 1 || tr.Shift < 0 || tr.Reduce < 0 {
		return NoAction, fmt.Errorf("transition must have exactly one positive shift, reduce or accept")
	}
	return a, nil
}

func fileFormOf(t *Tables) *tablesFile {
	f := &tablesFile{Name: t.Name, RequiredTokens: t.RequiredTokens}
	ids := make([]int, 0, len(t.Symbols))
	for id := range t.Symbols {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	for _, id := range ids {
		f.Symbols = append(f.Symbols, symbolFile{ID: id, Name: t.Symbols[lalr.TokType(id)]})
	}
	for _, r := range t.Rules {
		f.Rules = append(f.Rules, ruleFile{ID: int(r.ID), LHS: int(r.LHS), Length: r.Length, Name: r.Name})
	}
	for i, s := range t.States {
		sf := stateFile{ID: i, Type: s.Type.String()}
		if s.Type == Normal {
			sf.Type = ""
		}
		if s.Default.IsReduce() {
			sf.Reduce = int(s.Default.Rule())
		}
		for _, e := range s.Entries {
			tr := transitionFile{Token: int(e.Token)}
			switch {
			case e.Action.IsShift():
				tr.Shift = int(e.Action.Target())
			case e.Action.IsReduce():
				tr.Reduce = int(e.Action.Rule())
			case e.Action.IsAccept():
				tr.Accept = true
			}
			sf.Transitions = append(sf.Transitions, tr)
		}
		f.States = append(f.States, sf)
	}
	return f
}

// --- TOML ------------------------------------------------------------------

// DecodeTOML reads tables in TOML format from r and validates them.
func DecodeTOML(r io.Reader) (*Tables, error) {
	var f tablesFile
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, fmt.Errorf("decoding TOML tables: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		tracer().Infof("ignoring unknown keys in tables %q: %v", f.Name, undecoded)
	}
	return finish(&f)
}

// EncodeTOML writes t in TOML format to w.
func (t *Tables) EncodeTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(fileFormOf(t))
}

// --- YAML ------------------------------------------------------------------

// DecodeYAML reads tables in YAML format from r and validates them.
func DecodeYAML(r io.Reader) (*Tables, error) {
	var f tablesFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding YAML tables: %w", err)
	}
	return finish(&f)
}

// EncodeYAML writes t in YAML format to w.
func (t *Tables) EncodeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(fileFormOf(t)); err != nil {
		return err
	}
	return enc.Close()
}

func finish(f *tablesFile) (*Tables, error) {
	t, err := f.tables()
	if err != nil {
		return nil, err
	}
	if err = t.Validate(); err != nil {
		return nil, err
	}
	tracer().Debugf("loaded tables %q with %d states and %d rules", t.Name, len(t.States), len(t.Rules))
	return t, nil
}

// Load reads tables from a file. The format is selected by the file's extension:
// ".toml", ".yaml"/".yml" or ".bin" for the binary format.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return DecodeTOML(bytes.NewReader(data))
	case ".yaml", ".yml":
		return DecodeYAML(bytes.NewReader(data))
	case ".bin":
		t := &Tables{}
		if err = t.UnmarshalBinary(data); err != nil {
			return nil, err
		}
		if err = t.Validate(); err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("cannot load tables from %q: unknown format %q", path, ext)
	}
}
