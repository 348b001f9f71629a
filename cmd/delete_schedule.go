package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/addone/moneyguru"
	"github.com/google/subcommands"
)

type deleteScheduleCmd struct {
	id int64
}

func (*deleteScheduleCmd) Name() string     { return "delete-schedule" }
func (*deleteScheduleCmd) Synopsis() string { return "delete a schedule and its occurrences" }
func (*deleteScheduleCmd) Usage() string {
	return `mg delete-schedule -id <n>

  Deletes the schedule with that id, as listed by "mg schedules". Occurrences
  that were materialized into real transactions stay in the document.
`
}

func (c *deleteScheduleCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.id, "id", 0, "Id of the schedule to delete")
}

func (c *deleteScheduleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	doc, err := loadDocument()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	var doomed *moneyguru.Recurrence
	for s := range doc.Schedules() {
		if s.ID() == c.id {
			doomed = s
			break
		}
	}
	if doomed == nil {
		fmt.Fprintf(os.Stderr, "Error: no schedule with id %d.\n", c.id)
		return subcommands.ExitFailure
	}

	if err := doc.DeleteSchedules(doomed); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := saveDocument(doc); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Deleted schedule %d\n", c.id)
	return subcommands.ExitSuccess
}
