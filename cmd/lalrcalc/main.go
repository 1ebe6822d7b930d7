package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/npillmayer/lalr/lang/calc"
	"github.com/npillmayer/lalr/lr/engine"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"
)

// Exit codes
const (
	exitOK           = 0
	exitSyntaxErrors = 1
	exitAborted      = 2
	exitInitError    = 3
)

// tracing keys of the packages lalrcalc uses
var traceKeys = []string{
	"lalr.cli", "lalr.calc", "lalr.engine", "lalr.scanner", "lalr.stack",
	"lalr.table", "lalr.tablestore", "lalr.value",
}

// exitError carries an exit code other than exitInitError.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// app holds global flags and settings of a run of lalrcalc.
type app struct {
	configFile string
	trace      string
	config     Config
	out        io.Writer
	errOut     io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes lalrcalc with command line arguments args and returns the
// exit code.
func run(args []string, out, errOut io.Writer) int {
	a := &app{out: out, errOut: errOut, config: DefaultConfig()}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	err := root.Execute()
	if err == nil {
		return exitOK
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintf(errOut, "Error: %v\n", err)
	return exitInitError
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lalrcalc",
		Short:         "Evaluate sums with an LALR(1) parser and inspect parser tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to TOML configuration file")
	rootCmd.PersistentFlags().StringVar(&a.trace, "trace", "Error", "Trace level [Debug|Info|Error]")
	rootCmd.AddCommand(newEvalCmd(a), newReplCmd(a), newTablesCmd(a))
	return rootCmd
}

// setup loads the configuration and sets up tracing. A trace level given on
// the command line takes precedence over the configuration file.
func (a *app) setup(cmd *cobra.Command) error {
	if a.configFile != "" {
		conf, err := LoadConfig(a.configFile)
		if err != nil {
			return err
		}
		a.config = conf
	}
	if cmd.Flags().Changed("trace") {
		a.config.Trace = a.trace
	}
	gtrace.SyntaxTracer = gologadapter.New()
	level := tracing.TraceLevelFromString(a.config.Trace)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
	tracer().Infof("Trace level is %s", a.config.Trace)
	return nil
}

func newEvalCmd(a *app) *cobra.Command {
	var useLexmachine, showTree bool
	cmd := &cobra.Command{
		Use:   "eval <expr>...",
		Short: "Evaluate expressions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := exitOK
			for _, expr := range args {
				if c := a.eval(expr, useLexmachine, showTree); c > code {
					code = c
				}
			}
			if code != exitOK {
				return &exitError{code: code, err: fmt.Errorf("evaluation failed")}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&useLexmachine, "lexmachine", false, "Use the lexmachine scanner")
	cmd.Flags().BoolVar(&showTree, "tree", false, "Print the expression tree")
	return cmd
}

// reporter reports syntax errors to a writer.
type reporter struct {
	engine.DefaultHooks
	w io.Writer
}

func (r reporter) OnSyntaxError(e engine.SyntaxError) {
	fmt.Fprintln(r.w, e.Error())
}

// eval evaluates a single expression and prints the result. It returns the
// exit code for the expression.
func (a *app) eval(expr string, useLexmachine, showTree bool) int {
	opts := append(a.config.parserOptions(), engine.WithHooks(reporter{w: a.errOut}))
	var tree *calc.Node
	var result engine.Result
	var err error
	if useLexmachine {
		src, lerr := calc.LMTokenizer(expr)
		if lerr != nil {
			fmt.Fprintf(a.errOut, "Error: %v\n", lerr)
			return exitInitError
		}
		tree, result, err = calc.ParseTokens(src, opts...)
	} else {
		tree, result, err = calc.Parse(expr, opts...)
	}
	if err != nil {
		fmt.Fprintf(a.errOut, "%s: parse aborted: %v\n", expr, err)
		return exitAborted
	}
	if showTree {
		writeTree(a.out, tree)
	}
	x, err := tree.Eval()
	if err != nil {
		fmt.Fprintf(a.out, "%s = %g (incomplete: %d syntax error(s))\n", expr, x, result.Errors)
		return exitSyntaxErrors
	}
	fmt.Fprintf(a.out, "%s = %g\n", expr, x)
	return exitOK
}
