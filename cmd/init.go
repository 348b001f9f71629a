package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/addone/moneyguru"
	"github.com/google/subcommands"
)

type initCmd struct {
	currency string
	force    bool
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create a new empty document file" }
func (*initCmd) Usage() string {
	return `mg init [-c <currency>] [-force]

  Creates a new document file with default properties. The command refuses to
  overwrite an existing document unless -force is given.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "c", "", "Default currency of the new document (defaults to the configured one)")
	f.BoolVar(&c.force, "force", false, "Overwrite an existing document file")
}

func (c *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if _, err := os.Stat(current.DocFile); err == nil && !c.force {
		fmt.Fprintf(os.Stderr, "Error: %q already exists, use -force to overwrite it.\n", current.DocFile)
		return subcommands.ExitFailure
	}

	currency := strings.ToUpper(c.currency)
	if currency == "" {
		currency = current.DefaultCurrency
	}
	if money.GetCurrency(currency) == nil {
		fmt.Fprintf(os.Stderr, "Error: unknown currency %q.\n", currency)
		return subcommands.ExitUsageError
	}

	doc := moneyguru.NewDocument()
	props := doc.Properties()
	props.DefaultCurrency = currency
	doc.SetProperties(props)

	if err := saveDocument(doc); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created %s (default currency %s)\n", current.DocFile, currency)
	return subcommands.ExitSuccess
}
