package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/lalr/lang/calc"
	"github.com/npillmayer/lalr/lr/engine"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Evaluate expressions interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			initDisplay()
			repl, err := readline.NewEx(&readline.Config{
				Prompt:      a.config.Prompt,
				HistoryFile: a.config.History,
			})
			if err != nil {
				return err
			}
			defer repl.Close()
			intp := &Intp{repl: repl, opts: a.config.parserOptions()}
			pterm.Info.Println("Welcome to lalrcalc") // colored welcome message
			pterm.Info.Println("Enter sums, :tree to show the last tree, quit with <ctrl>D")
			intp.REPL()
			return nil
		},
	}
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	repl     *readline.Instance
	opts     []engine.Option
	lastTree *calc.Node
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if line == ":tree" {
			intp.printTree(intp.lastTree)
			continue
		}
		intp.Eval(line)
	}
	println("Good bye!")
}

// replHooks prints syntax errors.
type replHooks struct {
	engine.DefaultHooks
}

func (replHooks) OnSyntaxError(e engine.SyntaxError) {
	pterm.Error.Println(e.Error())
}

// Eval evaluates a sum, given on a line by itself.
func (intp *Intp) Eval(line string) {
	opts := append(intp.opts, engine.WithHooks(replHooks{}))
	tree, result, err := calc.Parse(line, opts...)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	tracer().Debugf("parse result: %v", result)
	intp.lastTree = tree
	x, err := tree.Eval()
	if err != nil {
		pterm.Error.Println(fmt.Sprintf("%g (%v)", x, err))
		return
	}
	pterm.Info.Println(fmt.Sprintf("%g", x))
}

func (intp *Intp) printTree(tree *calc.Node) {
	if tree == nil {
		pterm.Error.Println("no expression entered yet")
		return
	}
	root := pterm.NewTreeFromLeveledList(leveledNode(tree, pterm.LeveledList{}, 0))
	pterm.DefaultTree.WithRoot(root).Render()
}

func leveledNode(n *calc.Node, ll pterm.LeveledList, level int) pterm.LeveledList {
	text := n.Op
	if n.Op == calc.OpNumber {
		text = n.String()
	}
	ll = append(ll, pterm.LeveledListItem{
		Level: level,
		Text:  fmt.Sprintf("%s %s", text, n.Span),
	})
	for _, ch := range n.Children {
		ll = leveledNode(ch, ll, level+1)
	}
	return ll
}

// writeTree writes a tree in indented form. It is the plain text variant of
// printTree, used for non-interactive output.
func writeTree(w io.Writer, tree *calc.Node) {
	for _, item := range leveledNode(tree, pterm.LeveledList{}, 0) {
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", item.Level), item.Text)
	}
}
