package moneyguru

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestAccountTypeParse(t *testing.T) {
	for _, typ := range []AccountType{Asset, Liability, Income, Expense} {
		parsed, err := ParseAccountType(typ.String())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if parsed != typ {
			t.Errorf("got %v, want %v", parsed, typ)
		}
	}
	if _, err := ParseAccountType("stocks"); err == nil {
		t.Errorf("expected an error for an unknown type")
	}
}

func TestAccountTypeConventions(t *testing.T) {
	if !Asset.IsBalanceSheet() || !Liability.IsBalanceSheet() {
		t.Errorf("assets and liabilities carry a running balance")
	}
	if Income.IsBalanceSheet() || Expense.IsBalanceSheet() {
		t.Errorf("income and expenses do not carry a running balance")
	}
	if Asset.IsCredit() || Expense.IsCredit() {
		t.Errorf("assets and expenses are debit accounts")
	}
	if !Liability.IsCredit() || !Income.IsCredit() {
		t.Errorf("liabilities and income are credit accounts")
	}
}

func TestAccountListAddAssignsIDs(t *testing.T) {
	l := NewAccountList()
	a := l.Add(NewAccount("Checking", Asset, "USD"))
	b := l.Add(NewAccount("Savings", Asset, "USD"))
	if a.ID() == 0 || b.ID() == 0 || a.ID() == b.ID() {
		t.Fatalf("ids must be distinct and non-zero, got %d and %d", a.ID(), b.ID())
	}

	// removing keeps the id, so a re-add restores the same identity
	l.Remove(a)
	if l.Contains(a) {
		t.Fatalf("account still contained after removal")
	}
	l.Add(a)
	if got := a.ID(); got != 1 {
		t.Errorf("got id %d, want the original 1", got)
	}

	// a new account never reuses a released id
	c := l.Add(NewAccount("Cash", Asset, "USD"))
	if c.ID() != 3 {
		t.Errorf("got id %d, want 3", c.ID())
	}
}

func TestAccountListFind(t *testing.T) {
	l := NewAccountList()
	checking := l.Add(NewAccount("Checking", Asset, "USD"))
	checking.accountNumber = "0042"
	savings := l.Add(NewAccount("Savings", Asset, "USD"))

	tests := []struct {
		name string
		in   string
		want *Account
	}{
		{"exact", "Checking", checking},
		{"case insensitive", "cHeCkInG", checking},
		{"padded", "  savings  ", savings},
		{"display name", "0042 - Checking", checking},
		{"unknown", "Retirement", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.Find(tt.in); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccountListHasName(t *testing.T) {
	l := NewAccountList()
	checking := l.Add(NewAccount("Checking", Asset, "USD"))
	if !l.HasName("checking", nil) {
		t.Errorf("name lookup must be case-insensitive")
	}
	if l.HasName("checking", checking) {
		t.Errorf("the excepted account must not count as a collision")
	}
	if l.HasName("Savings", nil) {
		t.Errorf("unknown name reported present")
	}
}

func TestAccountListNewNameFrom(t *testing.T) {
	l := NewAccountList()
	if got := l.NewNameFrom("New account"); got != "New account" {
		t.Errorf("got %q, want the base name when free", got)
	}
	l.Add(NewAccount("New account", Asset, "USD"))
	if got := l.NewNameFrom("New account"); got != "New account 2" {
		t.Errorf("got %q, want %q", got, "New account 2")
	}
	l.Add(NewAccount("New account 2", Asset, "USD"))
	if got := l.NewNameFrom("New account"); got != "New account 3" {
		t.Errorf("got %q, want %q", got, "New account 3")
	}
}

func TestAccountJSONRoundTrip(t *testing.T) {
	a := NewAccount("Crédit Mutuel", Asset, "EUR")
	a.id = 7
	a.group = "Banks"
	a.accountNumber = "0042"
	a.notes = "joint account"
	a.inactive = true

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out Account
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.id != 7 || out.name != a.name || out.typ != Asset || out.currency != "EUR" ||
		out.group != "Banks" || out.accountNumber != "0042" || out.notes != "joint account" || !out.inactive {
		t.Errorf("round trip lost fields: got %+v", out)
	}
}

func TestGroupListEnsure(t *testing.T) {
	l := NewGroupList()
	g := l.Ensure("Banks", Asset)
	if g == nil || g.Name() != "Banks" || g.Type() != Asset {
		t.Fatalf("got %+v, want a Banks asset group", g)
	}
	if again := l.Ensure("banks", Asset); again != g {
		t.Errorf("Ensure must be idempotent, case-insensitively")
	}
	// same name under another type is a distinct group
	other := l.Ensure("Banks", Liability)
	if other == g {
		t.Errorf("groups are keyed by name and type")
	}
	if l.Len() != 2 {
		t.Errorf("got %d groups, want 2", l.Len())
	}
}

func TestAccountsIterationOrder(t *testing.T) {
	l := NewAccountList()
	for _, name := range []string{"Checking", "Savings", "Groceries"} {
		l.Add(NewAccount(name, Asset, "USD"))
	}
	var names []string
	for a := range l.Accounts() {
		names = append(names, a.Name())
	}
	want := []string{"Checking", "Savings", "Groceries"}
	if !slices.Equal(names, want) {
		t.Errorf("got %v, want %v", names, want)
	}
}
