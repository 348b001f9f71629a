package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/addone/moneyguru"
	"github.com/google/subcommands"
)

type editAccountCmd struct {
	name     string
	rename   string
	typ      string
	currency string
	group    string
	inactive string
}

func (*editAccountCmd) Name() string     { return "edit-account" }
func (*editAccountCmd) Synopsis() string { return "change properties of an account" }
func (*editAccountCmd) Usage() string {
	return `mg edit-account -a <name> [-rename <name>] [-t <type>] [-c <currency>] [-g <group>] [-inactive <bool>]

  Changes the given properties of an account, leaving the others untouched.
  Changing the currency is rejected while the account has reconciled entries;
  changing the type clears the group.
`
}

func (c *editAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "a", "", "Account to edit")
	f.StringVar(&c.rename, "rename", "", "New name of the account")
	f.StringVar(&c.typ, "t", "", "New type (asset, liability, income, expense)")
	f.StringVar(&c.currency, "c", "", "New currency")
	f.StringVar(&c.group, "g", "", "New group")
	f.StringVar(&c.inactive, "inactive", "", "Set the inactive marker (true or false)")
}

func (c *editAccountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	var patch moneyguru.AccountPatch
	if c.rename != "" {
		patch.Name = &c.rename
	}
	if c.typ != "" {
		typ, err := moneyguru.ParseAccountType(c.typ)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		patch.Type = &typ
	}
	if c.currency != "" {
		patch.Currency = &c.currency
	}
	if c.group != "" {
		patch.Group = &c.group
	}
	switch c.inactive {
	case "":
	case "true", "false":
		inactive := c.inactive == "true"
		patch.Inactive = &inactive
	default:
		fmt.Fprintf(os.Stderr, "Error: -inactive wants true or false, got %q.\n", c.inactive)
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
	if err := doc.ChangeAccounts([]*moneyguru.Account{account}, &patch); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := saveDocument(doc); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Changed account %q\n", account.Name())
	return subcommands.ExitSuccess
}
