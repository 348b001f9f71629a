// Package cmd implements the CLI application to manage a moneyguru document.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/addone/moneyguru"
	"github.com/addone/moneyguru/rates"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&initCmd{}, "document")
	c.Register(&fmtCmd{}, "document")

	c.Register(&accountsCmd{}, "accounts")
	c.Register(&newAccountCmd{}, "accounts")
	c.Register(&editAccountCmd{}, "accounts")
	c.Register(&deleteAccountCmd{}, "accounts")
	c.Register(&registerCmd{}, "accounts")

	c.Register(&addCmd{}, "transactions")
	c.Register(&txCmd{}, "transactions")
	c.Register(&deleteTxCmd{}, "transactions")

	c.Register(&schedulesCmd{}, "schedules")
	c.Register(&newScheduleCmd{}, "schedules")
	c.Register(&deleteScheduleCmd{}, "schedules")

	c.Register(&balancesCmd{}, "reports")
	c.Register(&cashflowCmd{}, "reports")
	c.Register(&networthCmd{}, "reports")
	c.Register(&queryCmd{}, "reports")

	c.Register(&rateCmd{}, "rates")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var docFile = flag.String("f", "", "Path to the document file (JSONL format), overrides MG_DOC_FILE and mg.yaml")
var workDir = flag.String("C", "", "Run as if started in that directory")
var verbose = flag.Bool("v", false, "Log internal operations to stderr")

// current holds the effective settings, resolved by Setup.
var current settings

// ratesDB is the exchange rate database, open only when settings name one.
var ratesDB *rates.DB

// Setup resolves the effective settings and opens shared resources. A main
// package calls it after flag.Parse and before executing the subcommand.
func Setup() error {
	if *workDir != "" {
		if err := os.Chdir(*workDir); err != nil {
			return fmt.Errorf("cannot enter directory %q: %w", *workDir, err)
		}
	}
	if !*verbose && os.Getenv("MG_VERBOSE") == "" {
		log.SetOutput(io.Discard)
	}

	var err error
	current, err = loadSettings()
	if err != nil {
		return err
	}

	if current.RatesDB != "" {
		ratesDB, err = rates.Open(current.RatesDB)
		if err != nil {
			return fmt.Errorf("cannot open rates database %q: %w", current.RatesDB, err)
		}
		log.Printf("using rates database %q", current.RatesDB)
	}
	return nil
}

// Cleanup releases the resources opened by Setup.
func Cleanup() {
	if ratesDB != nil {
		ratesDB.Close()
		ratesDB = nil
	}
}

// loadDocument is the central function to mount the document file into a live
// document, cooked and ready to query.
func loadDocument() (*moneyguru.Document, error) {
	snap, err := moneyguru.LoadDocument(current.DocFile)
	if err != nil {
		return nil, fmt.Errorf("cannot load document %q: %w", current.DocFile, err)
	}
	doc := moneyguru.NewDocument()
	if ratesDB != nil {
		doc.SetRateProvider(ratesDB)
	}
	doc.RestoreSnapshot(snap)
	return doc, nil
}

// saveDocument writes the document back to the document file.
func saveDocument(doc *moneyguru.Document) error {
	if err := moneyguru.SaveDocument(current.DocFile, doc.Snapshot()); err != nil {
		return fmt.Errorf("cannot save document %q: %w", current.DocFile, err)
	}
	return nil
}

// rangeFromFlags resolves the usual -p/-s/-d triplet into a date range: an
// explicit start date wins over a named period, and the end date defaults to
// today.
func rangeFromFlags(period, start, end string) (moneyguru.Range, error) {
	endDate, err := moneyguru.ParseDate(end)
	if err != nil {
		return moneyguru.Range{}, fmt.Errorf("invalid end date: %w", err)
	}
	if start != "" {
		startDate, err := moneyguru.ParseDate(start)
		if err != nil {
			return moneyguru.Range{}, fmt.Errorf("invalid start date: %w", err)
		}
		return moneyguru.NewRange(startDate, endDate), nil
	}
	p, err := moneyguru.ParsePeriod(period)
	if err != nil {
		return moneyguru.Range{}, err
	}
	return p.Range(endDate), nil
}
