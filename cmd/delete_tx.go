package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/addone/moneyguru"
	"github.com/addone/moneyguru/renderer"
	"github.com/google/subcommands"
)

type deleteTxCmd struct {
	date  string
	query string
	scope string
}

func (*deleteTxCmd) Name() string     { return "delete-tx" }
func (*deleteTxCmd) Synopsis() string { return "delete transactions from the document" }
func (*deleteTxCmd) Usage() string {
	return `mg delete-tx -d <date> [-q <text>] [-scope <scope>]

  Deletes the transactions of the given date, scheduled occurrences included.
  Deleting an occurrence asks for a scope: "local" removes just that
  occurrence, "global" stops the schedule from that date on, and "cancel"
  leaves everything untouched.
`
}

func (c *deleteTxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the transactions to delete")
	f.StringVar(&c.query, "q", "", "Keep only transactions whose description, payee or account matches")
	f.StringVar(&c.scope, "scope", "local", "Scope of schedule edits (local, global, cancel)")
}

func (c *deleteTxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.date == "" {
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
	switch c.scope {
	case "local":
		doc.SetScopeResolver(moneyguru.LocalScope)
	case "global":
		doc.SetScopeResolver(moneyguru.GlobalScope)
	case "cancel":
		doc.SetScopeResolver(moneyguru.CancelScope)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown scope %q, want local, global or cancel.\n", c.scope)
		return subcommands.ExitUsageError
	}

	doc.EnsureCookedUntil(day)
	var doomed []*moneyguru.Transaction
	q := moneyguru.Query{Description: c.query, Payee: c.query, Account: c.query}
	for _, t := range doc.CookedTransactions(moneyguru.In(moneyguru.NewRange(day, day))) {
		if c.query != "" && !t.Matches(&q) {
			continue
		}
		doomed = append(doomed, t)
	}
	if len(doomed) == 0 {
		fmt.Fprintf(os.Stderr, "Nothing to delete on %s.\n", day)
		return subcommands.ExitSuccess
	}
	for _, t := range doomed {
		fmt.Printf("Deleting %s\n", renderer.Transaction(t))
	}

	if err := doc.DeleteTransactions(doomed...); err != nil {
		if errors.Is(err, moneyguru.ErrAborted) {
			fmt.Println("Aborted, nothing deleted.")
			return subcommands.ExitSuccess
		}
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := saveDocument(doc); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Deleted %d transaction(s)\n", len(doomed))
	return subcommands.ExitSuccess
}
