package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/npillmayer/lalr/lr/table"
	"github.com/npillmayer/lalr/lr/tablestore"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type tablesOptions struct {
	dot         string
	html        string
	fingerprint bool
	store       string
	quiet       bool
}

func (o *tablesOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.dot, "dot", "", "Write the shift graph in Graphviz format to this file")
	fs.StringVar(&o.html, "html", "", "Write the transition table as HTML to this file")
	fs.BoolVar(&o.fingerprint, "fingerprint", false, "Print the fingerprint of the tables")
	fs.StringVar(&o.store, "store", "", "Put the tables into this table store")
	fs.BoolVarP(&o.quiet, "quiet", "q", false, "Do not print the tables")
}

func newTablesCmd(a *app) *cobra.Command {
	o := &tablesOptions{}
	cmd := &cobra.Command{
		Use:   "tables <file>",
		Short: "Validate and inspect parser tables (TOML, YAML or binary)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.tables(cmd.Context(), args[0], o)
		},
	}
	o.addFlags(cmd.Flags())
	return cmd
}

func (a *app) tables(ctx context.Context, path string, o *tablesOptions) error {
	t, err := table.Load(path)
	if err != nil {
		return err
	}
	if !o.quiet {
		fmt.Fprintln(a.out, t.String())
	}
	t.Dump()
	if o.fingerprint {
		fp, err := t.Fingerprint()
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "fingerprint: %s\n", fp)
	}
	if o.dot != "" {
		if err = writeFile(o.dot, t.WriteDot); err != nil {
			return err
		}
	}
	if o.html != "" {
		if err = writeFile(o.html, t.WriteHTML); err != nil {
			return err
		}
	}
	if o.store != "" {
		if ctx == nil {
			ctx = context.Background()
		}
		st, err := tablestore.Open(o.store)
		if err != nil {
			return err
		}
		defer st.Close()
		fp, err := st.Put(ctx, t)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "stored tables %s as %s\n", t.Name, fp)
	}
	return nil
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
