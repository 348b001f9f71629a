package cmd

import (
	"os"
	"testing"

	"github.com/google/subcommands"
)

func TestFmtStdoutMatchesFile(t *testing.T) {
	path := testDocument(t)
	seedAccounts(t)

	status := execute(t, &addCmd{}, map[string]string{
		"d": "2025-01-10", "a": "50", "from": "Checking", "to": "Groceries", "desc": "market",
	})
	if status != subcommands.ExitSuccess {
		t.Fatalf("add: expected ExitSuccess, got %v", status)
	}
	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("cannot read document: %v", err)
	}

	out := captureStdout(t, func() {
		if status := execute(t, &fmtCmd{}, map[string]string{"o": "-"}); status != subcommands.ExitSuccess {
			t.Errorf("fmt -o -: expected ExitSuccess, got %v", status)
		}
	})
	if out != string(onDisk) {
		t.Errorf("fmt output should match the canonical file.\nGot:\n%s\nWant:\n%s", out, onDisk)
	}
}

func TestFmtInPlaceIsIdempotent(t *testing.T) {
	path := testDocument(t)
	seedAccounts(t)

	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("cannot read document: %v", err)
	}
	if status := execute(t, &fmtCmd{}, nil); status != subcommands.ExitSuccess {
		t.Fatalf("fmt: expected ExitSuccess, got %v", status)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("cannot read document: %v", err)
	}
	if string(before) != string(after) {
		t.Errorf("formatting a canonical document should not change it.\nBefore:\n%s\nAfter:\n%s", before, after)
	}
}
