package table

import (
	"fmt"
	"sort"

	"github.com/dekarrin/rezi"
	"github.com/npillmayer/lalr"
)

// MarshalBinary encodes tables into a compact binary form.
// It implements encoding.BinaryMarshaler.
func (t *Tables) MarshalBinary() ([]byte, error) {
	var data []byte
	data = append(data, rezi.EncString(t.Name)...)
	data = append(data, rezi.EncInt(t.RequiredTokens)...)
	data = append(data, rezi.EncInt(len(t.States))...)
	for _, s := range t.States {
		data = append(data, rezi.EncInt(int(s.Type))...)
		data = append(data, rezi.EncInt(int(s.Default))...)
		data = append(data, rezi.EncInt(len(s.Entries))...)
		for _, e := range s.Entries {
			data = append(data, rezi.EncInt(int(e.Token))...)
			data = append(data, rezi.EncInt(int(e.Action))...)
		}
	}
	data = append(data, rezi.EncInt(len(t.Rules))...)
	for _, r := range t.Rules {
		data = append(data, rezi.EncInt(int(r.ID))...)
		data = append(data, rezi.EncInt(int(r.LHS))...)
		data = append(data, rezi.EncInt(r.Length)...)
		data = append(data, rezi.EncString(r.Name)...)
	}
	ids := make([]int, 0, len(t.Symbols))
	for id := range t.Symbols {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	data = append(data, rezi.EncInt(len(ids))...)
	for _, id := range ids {
		data = append(data, rezi.EncInt(id)...)
		data = append(data, rezi.EncString(t.Symbols[lalr.TokType(id)])...)
	}
	return data, nil
}

// UnmarshalBinary decodes tables from their binary form. It does not validate
// the tables.
// It implements encoding.BinaryUnmarshaler.
func (t *Tables) UnmarshalBinary(data []byte) error {
	d := decoder{data: data}
	name := d.str()
	required := d.int()
	states := make([]State, d.count())
	for i := range states {
		states[i].Type = StateType(d.int())
		states[i].Default = Action(d.int())
		entries := make([]Entry, d.count())
		for j := range entries {
			entries[j].Token = lalr.TokType(d.int())
			entries[j].Action = Action(d.int())
		}
		if len(entries) > 0 {
			states[i].Entries = entries
		}
	}
	rules := make([]Rule, d.count())
	for i := range rules {
		rules[i].ID = RuleID(d.int())
		rules[i].LHS = lalr.TokType(d.int())
		rules[i].Length = d.int()
		rules[i].Name = d.str()
	}
	n := d.count()
	symbols := make(map[lalr.TokType]string, n)
	for i := 0; i < n; i++ {
		id := d.int()
		symbols[lalr.TokType(id)] = d.str()
	}
	if d.err != nil {
		return fmt.Errorf("decoding binary tables: %w", d.err)
	}
	t.Name, t.RequiredTokens = name, required
	t.States, t.Rules, t.Symbols = states, rules, symbols
	return nil
}

// decoder reads consecutive rezi-encoded fields. After the first error all
// further reads return zero values.
type decoder struct {
	data []byte
	err  error
}

func (d *decoder) int() int {
	if d.err != nil {
		return 0
	}
	x, n, err := rezi.DecInt(d.data)
	if err != nil {
		d.err = err
		return 0
	}
	d.data = d.data[n:]
	return x
}

func (d *decoder) count() int {
	n := d.int()
	if n < 0 || n > len(d.data) {
		if d.err == nil {
			d.err = fmt.Errorf("implausible element count %d", n)
		}
		return 0
	}
	return n
}

func (d *decoder) str() string {
	if d.err != nil {
		return ""
	}
	s, n, err := rezi.DecString(d.data)
	if err != nil {
		d.err = err
		return ""
	}
	d.data = d.data[n:]
	return s
}
