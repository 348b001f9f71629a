package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/addone/moneyguru"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type rateCmd struct {
	date string
	to   string
}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "look up or store an exchange rate" }
func (*rateCmd) Usage() string {
	return `mg rate <currency> [<value>] [-d <date>] [-to <currency>]

  With a value, stores the worth of one unit of the currency in the base
  currency of the rates database on the given date. Without one, looks up the
  conversion factor from the currency to the -to currency on that date.
  Both forms need a rates database, named by rates_db in mg.yaml or by the
  MG_RATES_DB environment variable.

Usage Examples:
# One euro is worth 1.084 dollars today
$ mg rate EUR 1.084
# Conversion factor from EUR to GBP last month
$ mg rate EUR -to GBP -d -1m
`
}

func (c *rateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "0d", "Date of the rate (defaults to today)")
	f.StringVar(&c.to, "to", "", "Target currency of a lookup, defaults to the database base currency")
}

func (c *rateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 || f.NArg() > 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if ratesDB == nil {
		fmt.Fprintln(os.Stderr, "Error: no rates database configured, set rates_db in mg.yaml or MG_RATES_DB.")
		return subcommands.ExitFailure
	}
	day, err := moneyguru.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	currency := strings.ToUpper(f.Arg(0))

	if f.NArg() == 2 {
		value, err := decimal.NewFromString(f.Arg(1))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing value %q: %v\n", f.Arg(1), err)
			return subcommands.ExitUsageError
		}
		if err := ratesDB.SetRate(day, currency, value); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Stored 1 %s = %s %s on %s\n", currency, value, ratesDB.Base(), day)
		return subcommands.ExitSuccess
	}

	to := strings.ToUpper(c.to)
	if to == "" {
		to = ratesDB.Base()
	}
	if _, _, ok := ratesDB.DateRange(currency); !ok && currency != ratesDB.Base() {
		fmt.Fprintf(os.Stderr, "Warning: no stored rates for %s, conversions fall back to 1.\n", currency)
	}
	rate, err := ratesDB.GetRate(day, currency, to)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("1 %s = %s %s on %s\n", currency, rate, to, day)
	return subcommands.ExitSuccess
}
