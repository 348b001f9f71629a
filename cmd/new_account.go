package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/addone/moneyguru"
	"github.com/google/subcommands"
)

type newAccountCmd struct {
	name     string
	typ      string
	currency string
	group    string
}

func (*newAccountCmd) Name() string     { return "new-account" }
func (*newAccountCmd) Synopsis() string { return "create an account in the document" }
func (*newAccountCmd) Usage() string {
	return `mg new-account -a <name> [-t <type>] [-c <currency>] [-g <group>]

  Creates an account. The type is one of asset, liability, income or expense;
  the currency defaults to the document's default currency.
`
}

func (c *newAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "a", "", "Account name")
	f.StringVar(&c.typ, "t", "asset", "Account type (asset, liability, income, expense)")
	f.StringVar(&c.currency, "c", "", "Account currency, empty for the document default")
	f.StringVar(&c.group, "g", "", "Optional group the account belongs to")
}

func (c *newAccountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	typ, err := moneyguru.ParseAccountType(c.typ)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	doc, err := loadDocument()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	account, err := doc.AddAccount(c.name, typ, c.currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if c.group != "" {
		group := c.group
		if err := doc.ChangeAccounts([]*moneyguru.Account{account}, &moneyguru.AccountPatch{Group: &group}); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	if err := saveDocument(doc); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created %s account %q (%s)\n", account.Type(), account.Name(), account.Currency())
	return subcommands.ExitSuccess
}
