package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/addone/moneyguru"
	"github.com/addone/moneyguru/renderer"
	"github.com/google/subcommands"
)

type balancesCmd struct {
	date string
}

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "display the balance sheet" }
func (*balancesCmd) Usage() string {
	return `mg balances [-d <date>]

  Displays the balance of every asset and liability account on the given
  date, with the net worth per currency.
`
}

func (c *balancesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "0d", "Date of the balance sheet (defaults to today)")
}

func (c *balancesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := moneyguru.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	doc, err := loadDocument()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.BalancesMarkdown(doc, day))
	return subcommands.ExitSuccess
}
