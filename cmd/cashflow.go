package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/addone/moneyguru/renderer"
	"github.com/google/subcommands"
)

type cashflowCmd struct {
	period string
	start  string
	date   string
}

func (*cashflowCmd) Name() string     { return "cashflow" }
func (*cashflowCmd) Synopsis() string { return "display income, expenses and net profit over a period" }
func (*cashflowCmd) Usage() string {
	return `mg cashflow [-p <period> | -s <start_date>] [-d <end_date>]

  Displays the money flowing through income and expense accounts over the
  date range, with the net profit per currency.
`
}

func (c *cashflowCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "month", "Predefined period (day, week, month, quarter, year)")
	f.StringVar(&c.start, "s", "", "Start date of a custom range, overrides -p")
	f.StringVar(&c.date, "d", "0d", "End date of the range (defaults to today)")
}

func (c *cashflowCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	printMarkdown(renderer.CashFlowMarkdown(doc, rng))
	return subcommands.ExitSuccess
}
