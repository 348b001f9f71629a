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

type networthCmd struct {
	period string
	start  string
	date   string
}

func (*networthCmd) Name() string     { return "networth" }
func (*networthCmd) Synopsis() string { return "display the net worth history sampled by period" }
func (*networthCmd) Usage() string {
	return `mg networth [-p <period>] [-s <start_date>] [-d <end_date>]

  Displays the net worth per currency at the end of each period of the date
  range, one row per period.
`
}

func (c *networthCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "month", "Sampling period (day, week, month, quarter, year)")
	f.StringVar(&c.start, "s", "-1y", "Start date of the history")
	f.StringVar(&c.date, "d", "0d", "End date of the history (defaults to today)")
}

func (c *networthCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := moneyguru.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	start, err := moneyguru.ParseDate(c.start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
		return subcommands.ExitUsageError
	}
	end, err := moneyguru.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
		return subcommands.ExitUsageError
	}

	doc, err := loadDocument()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.NetWorthMarkdown(doc, moneyguru.NewRange(start, end), p))
	return subcommands.ExitSuccess
}
