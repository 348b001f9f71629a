package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/addone/moneyguru"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/mattn/go-isatty"
)

// printMarkdown renders markdown on stdout. On a terminal it is styled with
// glamour; piped or redirected output stays raw markdown so it remains
// scriptable.
func printMarkdown(md string) {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

type fmtCmd struct {
	outputFile string
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and rewrites the document file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `mg fmt [-o <file>]

  Validates the document file and writes it back in canonical form: elements
  sorted, keys in stable order, one element per line. By default the document
  is rewritten in place; -o writes to another file, or to stdout with "-".
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputFile, "o", "", `Output file; "-" writes to stdout`)
}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	doc, err := loadDocument()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	snap := doc.Snapshot()
	switch c.outputFile {
	case "-":
		if err := moneyguru.EncodeDocument(os.Stdout, snap); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing document: %v\n", err)
			return subcommands.ExitFailure
		}
	case "":
		if err := moneyguru.SaveDocument(current.DocFile, snap); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Formatted %s\n", current.DocFile)
	default:
		if err := moneyguru.SaveDocument(c.outputFile, snap); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Formatted %s into %s\n", current.DocFile, c.outputFile)
	}
	return subcommands.ExitSuccess
}
