package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/addone/moneyguru"
	"github.com/google/subcommands"
)

type deleteAccountCmd struct {
	name string
	into string
}

func (*deleteAccountCmd) Name() string     { return "delete-account" }
func (*deleteAccountCmd) Synopsis() string { return "delete an account from the document" }
func (*deleteAccountCmd) Usage() string {
	return `mg delete-account -a <name> [-into <name>]

  Deletes an account. Splits sitting on it move to the -into account, or
  become unassigned without one; transactions entirely inside the deleted
  account go away with it.
`
}

func (c *deleteAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "a", "", "Account to delete")
	f.StringVar(&c.into, "into", "", "Account receiving the orphaned splits")
}

func (c *deleteAccountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	doc, err := loadDocument()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	account := doc.FindAccount(c.name)
	if account == nil {
		fmt.Fprintf(os.Stderr, "Error: unknown account %q.\n", c.name)
		return subcommands.ExitFailure
	}
	var reassignTo *moneyguru.Account
	if c.into != "" {
		reassignTo = doc.FindAccount(c.into)
		if reassignTo == nil {
			fmt.Fprintf(os.Stderr, "Error: unknown account %q.\n", c.into)
			return subcommands.ExitFailure
		}
	}

	if err := doc.DeleteAccounts([]*moneyguru.Account{account}, reassignTo); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := saveDocument(doc); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Deleted account %q\n", c.name)
	return subcommands.ExitSuccess
}
