package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/addone/moneyguru/renderer"
	"github.com/google/subcommands"
)

type registerCmd struct {
	account string
	period  string
	start   string
	date    string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "display the entries of one account" }
func (*registerCmd) Usage() string {
	return `mg register -a <account> [-p <period> | -s <start_date>] [-d <end_date>]

  Displays the entries of an account over a date range, with the running
  balance and the closing balance. Scheduled occurrences falling in the range
  appear as well.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account to display")
	f.StringVar(&c.period, "p", "month", "Predefined period (day, week, month, quarter, year)")
	f.StringVar(&c.start, "s", "", "Start date of a custom range, overrides -p")
	f.StringVar(&c.date, "d", "0d", "End date of the range (defaults to today)")
}

func (c *registerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	rng, err := rangeFromFlags(c.period, c.start, c.date)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	doc, err := loadDocument()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	account := doc.FindAccount(c.account)
	if account == nil {
		fmt.Fprintf(os.Stderr, "Error: unknown account %q.\n", c.account)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RegisterMarkdown(doc, account, rng))
	return subcommands.ExitSuccess
}
