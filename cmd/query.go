package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/addone/moneyguru"
	"github.com/google/subcommands"
)

type queryCmd struct{}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "extract document data with a JSONPath expression" }
func (*queryCmd) Usage() string {
	return `mg query <jsonpath>

  Evaluates a JSONPath expression against a JSON view of the document and
  prints the result. The view has four top level keys: properties, accounts,
  transactions and schedules.

Usage Examples:
# Names of every account
$ mg query '$.accounts[*].name'
# Transactions above 100 in absolute value
$ mg query '$.transactions[?(@.splits[0].amount > 100)]'
`
}

func (c *queryCmd) SetFlags(f *flag.FlagSet) {}

func (c *queryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	path := f.Arg(0)

	doc, err := loadDocument()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	snap := doc.Snapshot()

	// Snapshot elements marshal themselves with the file format keys; the
	// wrapper only names the four collections.
	view := struct {
		Properties   moneyguru.Properties     `json:"properties"`
		Accounts     []*moneyguru.Account     `json:"accounts"`
		Transactions []*moneyguru.Transaction `json:"transactions"`
		Schedules    []*moneyguru.Recurrence  `json:"schedules"`
	}{snap.Properties, snap.Accounts, snap.Transactions, snap.Schedules}

	raw, err := json.Marshal(view)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building document view: %v\n", err)
		return subcommands.ExitFailure
	}
	var jobj any
	if err := json.Unmarshal(raw, &jobj); err != nil {
		fmt.Fprintf(os.Stderr, "Error building document view: %v\n", err)
		return subcommands.ExitFailure
	}

	result, err := jsonpath.Get(path, jobj)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error evaluating %q: %v\n", path, err)
		return subcommands.ExitFailure
	}
	// A single-element list reads better as the element itself.
	if list, ok := result.([]any); ok && len(list) == 1 {
		result = list[0]
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error printing result: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(string(out))
	return subcommands.ExitSuccess
}
