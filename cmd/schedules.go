package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/addone/moneyguru/renderer"
	"github.com/google/subcommands"
)

type schedulesCmd struct {
	period string
	start  string
	date   string
}

func (*schedulesCmd) Name() string     { return "schedules" }
func (*schedulesCmd) Synopsis() string { return "list the schedules and their upcoming occurrences" }
func (*schedulesCmd) Usage() string {
	return `mg schedules [-p <period> | -s <start_date>] [-d <end_date>]

  Lists every schedule of the document, then the occurrences falling in the
  date range.
`
}

func (c *schedulesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "month", "Predefined period (day, week, month, quarter, year)")
	f.StringVar(&c.start, "s", "", "Start date of a custom range, overrides -p")
	f.StringVar(&c.date, "d", "0d", "End date of the range (defaults to today)")
}

func (c *schedulesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	printMarkdown(renderer.SchedulesMarkdown(doc, rng))
	return subcommands.ExitSuccess
}
