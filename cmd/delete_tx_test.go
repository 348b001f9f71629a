package cmd

import (
	"testing"

	"github.com/addone/moneyguru"
	"github.com/google/subcommands"
)

// januaryOccurrences reloads the document and counts the schedule
// occurrences cooked into January 2025.
func januaryOccurrences(t *testing.T, path string) int {
	t.Helper()
	snap, err := moneyguru.LoadDocument(path)
	if err != nil {
		t.Fatalf("cannot reload document: %v", err)
	}
	doc := moneyguru.NewDocument()
	doc.RestoreSnapshot(snap)
	january := moneyguru.NewRange(moneyguru.NewDate(2025, 1, 1), moneyguru.NewDate(2025, 1, 31))
	count := 0
	for _, txn := range doc.CookedTransactions(moneyguru.In(january)) {
		if txn.IsSpawn() {
			count++
		}
	}
	return count
}

func TestDeleteOccurrenceScopes(t *testing.T) {
	t.Setenv("MG_TESTING_TODAY", "2025-01-15")
	path := testDocument(t)
	seedAccounts(t)

	status := execute(t, &newScheduleCmd{}, map[string]string{
		"d": "2025-01-07", "a": "100", "from": "Checking", "to": "Rent",
		"desc": "rent", "repeat": "weekly",
	})
	if status != subcommands.ExitSuccess {
		t.Fatalf("new-schedule: expected ExitSuccess, got %v", status)
	}
	if got := januaryOccurrences(t, path); got != 4 {
		t.Fatalf("expected 4 occurrences in January, got %d", got)
	}

	// A local delete suppresses just that occurrence.
	status = execute(t, &deleteTxCmd{}, map[string]string{"d": "2025-01-14", "scope": "local"})
	if status != subcommands.ExitSuccess {
		t.Fatalf("local delete: expected ExitSuccess, got %v", status)
	}
	if got := januaryOccurrences(t, path); got != 3 {
		t.Errorf("after the local delete, expected 3 occurrences in January, got %d", got)
	}

	// A global delete stops the schedule from that occurrence on.
	status = execute(t, &deleteTxCmd{}, map[string]string{"d": "2025-01-21", "scope": "global"})
	if status != subcommands.ExitSuccess {
		t.Fatalf("global delete: expected ExitSuccess, got %v", status)
	}
	if got := januaryOccurrences(t, path); got != 1 {
		t.Errorf("after the global delete, expected 1 occurrence left in January, got %d", got)
	}

	// Cancelling leaves everything untouched.
	status = execute(t, &deleteTxCmd{}, map[string]string{"d": "2025-01-07", "scope": "cancel"})
	if status != subcommands.ExitSuccess {
		t.Fatalf("cancelled delete: expected ExitSuccess, got %v", status)
	}
	if got := januaryOccurrences(t, path); got != 1 {
		t.Errorf("after cancelling, expected the occurrence to survive, got %d", got)
	}
}

func TestDeleteTxRealTransaction(t *testing.T) {
	path := testDocument(t)
	seedAccounts(t)

	status := execute(t, &addCmd{}, map[string]string{
		"d": "2025-01-10", "a": "50", "from": "Checking", "to": "Groceries", "desc": "market",
	})
	if status != subcommands.ExitSuccess {
		t.Fatalf("add: expected ExitSuccess, got %v", status)
	}

	if status := execute(t, &deleteTxCmd{}, map[string]string{"d": "2025-01-10"}); status != subcommands.ExitSuccess {
		t.Fatalf("delete-tx: expected ExitSuccess, got %v", status)
	}
	snap, err := moneyguru.LoadDocument(path)
	if err != nil {
		t.Fatalf("cannot reload document: %v", err)
	}
	if len(snap.Transactions) != 0 {
		t.Errorf("expected no transactions left, got %d", len(snap.Transactions))
	}
}
