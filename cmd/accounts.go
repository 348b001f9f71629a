package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/addone/moneyguru/renderer"
	"github.com/google/subcommands"
)

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list the accounts of the document" }
func (*accountsCmd) Usage() string {
	return `mg accounts

  Lists every account of the document, grouped by type.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {}

func (c *accountsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	doc, err := loadDocument()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.AccountsMarkdown(doc))
	return subcommands.ExitSuccess
}
