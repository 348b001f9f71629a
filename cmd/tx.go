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

type txCmd struct {
	period string
	start  string
	date   string
	query  string
	head   int
	tail   int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transactions of the document" }
func (*txCmd) Usage() string {
	return `mg tx [-p <period> | -s <start_date>] [-d <end_date>] [-q <text>] [-head <n>] [-tail <n>]

  Lists transactions in date order, scheduled occurrences included, with
  options for filtering and limiting the output. Without a range flag the
  whole document is listed.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.period, "p", "", "Predefined period (day, week, month, quarter, year)")
	f.StringVar(&p.start, "s", "", "Start date of a custom range, overrides -p")
	f.StringVar(&p.date, "d", "", "End date of the range (defaults to today)")
	f.StringVar(&p.query, "q", "", "Keep only transactions whose description, payee or account matches")
	f.IntVar(&p.head, "head", 0, "Show only the first N transactions")
	f.IntVar(&p.tail, "tail", 0, "Show only the last N transactions")
}

func (p *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.head > 0 && p.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}

	var filters []func(*moneyguru.Transaction) bool
	if p.period != "" || p.start != "" || p.date != "" {
		date := p.date
		if date == "" {
			date = "0d"
		}
		rng, err := rangeFromFlags(p.period, p.start, date)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		filters = append(filters, moneyguru.In(rng))
	}
	if p.query != "" {
		q := moneyguru.Query{Description: p.query, Payee: p.query, Account: p.query}
		filters = append(filters, func(t *moneyguru.Transaction) bool { return t.Matches(&q) })
	}

	doc, err := loadDocument()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var transactions []*moneyguru.Transaction
	for _, t := range doc.CookedTransactions(filters...) {
		transactions = append(transactions, t)
	}

	if p.head > 0 && len(transactions) > p.head {
		transactions = transactions[:p.head]
	}
	if p.tail > 0 && len(transactions) > p.tail {
		transactions = transactions[len(transactions)-p.tail:]
	}

	printMarkdown(renderer.Transactions(transactions))

	return subcommands.ExitSuccess
}
