package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/addone/moneyguru"
	"github.com/addone/moneyguru/renderer"
	"github.com/google/subcommands"
)

type addCmd struct {
	date        string
	amount      string
	currency    string
	from        string
	to          string
	description string
	payee       string
	checkno     string
	memo        string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a transaction moving money between two accounts" }
func (*addCmd) Usage() string {
	return `mg add -a <amount> [-d <date>] [-c <currency>] [-from <account>] [-to <account>] [-desc <text>]

  Records a transaction moving the amount from one account to the other.
  Account names that do not exist yet are created on the fly: the -from side
  as an asset, the -to side as an expense, mirroring the "type a category
  name and it exists" behavior. An omitted side stays unassigned.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "0d", "Transaction date (defaults to today)")
	f.StringVar(&c.amount, "a", "", "Amount to move, a plain decimal like 12.50")
	f.StringVar(&c.currency, "c", "", "Currency of the amount, empty for the document default")
	f.StringVar(&c.from, "from", "", "Account the money comes from")
	f.StringVar(&c.to, "to", "", "Account the money goes to")
	f.StringVar(&c.description, "desc", "", "Description of the transaction")
	f.StringVar(&c.payee, "payee", "", "Payee of the transaction")
	f.StringVar(&c.checkno, "n", "", "Check number")
	f.StringVar(&c.memo, "m", "", "An optional note attached to both sides")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
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

	t := moneyguru.NewSimpleTransaction(day, c.description, from, to, amount)
	if c.payee != "" || c.checkno != "" {
		patch := moneyguru.TransactionPatch{}
		if c.payee != "" {
			patch.Payee = &c.payee
		}
		if c.checkno != "" {
			patch.Checkno = &c.checkno
		}
		if err := t.Change(&patch); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	if c.memo != "" {
		for _, s := range t.Splits() {
			s.SetMemo(c.memo)
		}
	}

	if err := doc.AddTransaction(t); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := saveDocument(doc); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Added %s\n", renderer.Transaction(t))
	return subcommands.ExitSuccess
}
