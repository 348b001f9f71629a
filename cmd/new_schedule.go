package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/addone/moneyguru"
	"github.com/google/subcommands"
)

type newScheduleCmd struct {
	date        string
	amount      string
	currency    string
	from        string
	to          string
	description string
	repeat      string
	every       int
	stop        string
}

func (*newScheduleCmd) Name() string     { return "new-schedule" }
func (*newScheduleCmd) Synopsis() string { return "create a recurring transaction" }
func (*newScheduleCmd) Usage() string {
	return `mg new-schedule -a <amount> -d <start_date> [-repeat <type>] [-every <n>] [-stop <date>]

  Creates a schedule from a reference transaction built like "mg add" would:
  the amount moves between -from and -to starting on the given date, then
  repeats every n steps of the repeat type (daily, weekly, monthly, yearly,
  weekday, weekday_last) until the optional stop date.
`
}

func (c *newScheduleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "0d", "First occurrence date")
	f.StringVar(&c.amount, "a", "", "Amount to move, a plain decimal like 12.50")
	f.StringVar(&c.currency, "c", "", "Currency of the amount, empty for the document default")
	f.StringVar(&c.from, "from", "", "Account the money comes from")
	f.StringVar(&c.to, "to", "", "Account the money goes to")
	f.StringVar(&c.description, "desc", "", "Description of the occurrences")
	f.StringVar(&c.repeat, "repeat", "monthly", "Repeat type (daily, weekly, monthly, yearly, weekday, weekday_last)")
	f.IntVar(&c.every, "every", 1, "Number of repeat steps between occurrences")
	f.StringVar(&c.stop, "stop", "", "Optional date of the last occurrence")
}

func (c *newScheduleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := moneyguru.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	repeat, err := moneyguru.ParseRepeatType(c.repeat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	var stop moneyguru.Date
	if c.stop != "" {
		stop, err = moneyguru.ParseDate(c.stop)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing stop date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	doc, err := loadDocument()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	currency := strings.ToUpper(c.currency)
	if currency == "" {
		currency = doc.DefaultCurrency()
	}
	amount, err := moneyguru.ParseAmount(c.amount, currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	from := doc.EnsureAccount(c.from, moneyguru.Asset)
	to := doc.EnsureAccount(c.to, moneyguru.Expense)
	ref := moneyguru.NewSimpleTransaction(day, c.description, from, to, amount)

	schedule, err := doc.NewSchedule(ref, repeat, c.every, stop)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := saveDocument(doc); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created schedule %d: every %d %s from %s\n", schedule.ID(), schedule.Every(), schedule.Repeat(), schedule.Start())
	return subcommands.ExitSuccess
}
