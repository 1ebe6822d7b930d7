package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/cnf/structhash"
	"github.com/dekarrin/rosed"
	"github.com/npillmayer/schuko/tracing"
)

// String renders the tables as a text table, one row per state.
func (t *Tables) String() string {
	data := [][]string{{"State", "Type", "Default", "Transitions"}}
	for i, s := range t.States {
		def := ""
		if s.Type.Has(DefaultReduction) {
			def = s.Default.String()
		}
		trans := make([]string, len(s.Entries))
		for j, e := range s.Entries {
			trans[j] = fmt.Sprintf("%s %s", t.SymbolName(e.Token), e.Action)
		}
		data = append(data, []string{
			fmt.Sprintf("%d", i), s.Type.String(), def, strings.Join(trans, ", "),
		})
	}
	return rosed.Edit("").
		InsertTableOpts(0, data, 160, rosed.Options{
			TableHeaders: true,
			TableBorders: true,
		}).
		String()
}

// Dump is a debugging helper, tracing the tables at debug level.
func (t *Tables) Dump() {
	if tracer().GetTraceLevel() < tracing.LevelDebug {
		return
	}
	tracer().Debugf("--- tables %s ---------------------", t.Name)
	for _, r := range t.Rules {
		tracer().Debugf("rule %v: %s ⇒ %d symbols", r, t.SymbolName(r.LHS), r.Length)
	}
	for _, line := range strings.Split(t.String(), "\n") {
		tracer().Debugf(line)
	}
	tracer().Debugf("-----------------------------------")
}

// reduceRule returns the rule a reduce action refers to. Tables which have
// not been validated may hold actions pointing to no rule at all.
func (t *Tables) reduceRule(a Action) (Rule, bool) {
	if !a.IsReduce() || int(a.Rule()) > len(t.Rules) {
		return Rule{}, false
	}
	return t.Rule(a.Rule()), true
}

// WriteDot exports the automaton to the Graphviz Dot format. Error states are
// drawn in gray, edges are labelled by the symbol shifted.
func (t *Tables) WriteDot(w io.Writer) error {
	var b strings.Builder
	b.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for i, s := range t.States {
		label := s.Type.String()
		if s.Type.Has(DefaultReduction) {
			if r, ok := t.reduceRule(s.Default); ok {
				label += " | " + dotEscape(r.String())
			} else {
				label += " | " + dotEscape(s.Default.String()) + " (invalid)"
			}
		}
		b.WriteString(fmt.Sprintf("s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			i, nodecolor(s), i, label))
	}
	for i, s := range t.States {
		for _, e := range s.Entries {
			if e.Action.IsShift() {
				b.WriteString(fmt.Sprintf("s%03d -> s%03d [label=\"%s\"]\n",
					i, e.Action.Target(), dotEscape(t.SymbolName(e.Token))))
			} else if e.Action.IsAccept() {
				b.WriteString(fmt.Sprintf("s%03d -> accept [label=\"%s\"]\n",
					i, dotEscape(t.SymbolName(e.Token))))
			}
		}
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func nodecolor(s State) string {
	if s.Type.Has(ErrorItem) {
		return "lightgray"
	}
	return "white"
}

func dotEscape(s string) string {
	r := strings.NewReplacer(`"`, `\"`, `{`, `\{`, `}`, `\}`, `<`, `\<`, `>`, `\>`, `|`, `\|`)
	return r.Replace(s)
}

// WriteHTML exports the tables as an HTML matrix of states × symbols.
func (t *Tables) WriteHTML(w io.Writer) error {
	m := t.Matrix()
	var b strings.Builder
	b.WriteString("<html><body>\n")
	b.WriteString(fmt.Sprintf("<h3>%s</h3><p>%d states, %d rules<p>", t.Name, len(t.States), len(t.Rules)))
	b.WriteString("<table border=1 cellspacing=0 cellpadding=5>\n")
	b.WriteString("<tr bgcolor=#cccccc><td></td><td>default</td>\n")
	for _, sym := range m.Columns() {
		b.WriteString(fmt.Sprintf("<td>%s</td>", htmlEscape(t.SymbolName(sym))))
	}
	b.WriteString("</tr>\n")
	var td string // table cell
	for i, s := range t.States {
		b.WriteString(fmt.Sprintf("<tr><td>state %d</td>\n", i))
		if s.Type.Has(DefaultReduction) {
			td = htmlEscape(s.Default.String())
		} else {
			td = "&nbsp;"
		}
		b.WriteString("<td>" + td + "</td>\n")
		for j := 0; j < m.N(); j++ {
			td = "&nbsp;"
			if a := m.Value(i, j); a != NoAction {
				td = htmlEscape(a.String())
			}
			b.WriteString("<td>" + td + "</td>\n")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table></body></html>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func htmlEscape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}

// --- Fingerprints ----------------------------------------------------------

type fingerprintState struct {
	Type    int
	Default int
	Entries [][]int
}

type fingerprintForm struct {
	Name           string
	RequiredTokens int
	States         []fingerprintState
	Rules          [][]int
}

// Fingerprint returns a string identifying the tables. Tables with the same
// name, required-token count, transitions and rules have the same fingerprint.
// Symbol names and rule names do not contribute.
func (t *Tables) Fingerprint() (string, error) {
	f := fingerprintForm{Name: t.Name, RequiredTokens: t.RequiredTokens}
	for _, s := range t.States {
		fs := fingerprintState{Type: int(s.Type), Default: int(NoAction)}
		if s.Type.Has(DefaultReduction) {
			fs.Default = int(s.Default)
		}
		for _, e := range s.Entries {
			fs.Entries = append(fs.Entries, []int{int(e.Token), int(e.Action)})
		}
		f.States = append(f.States, fs)
	}
	for _, r := range t.Rules {
		f.Rules = append(f.Rules, []int{int(r.ID), int(r.LHS), r.Length})
	}
	return structhash.Hash(f, 1)
}
