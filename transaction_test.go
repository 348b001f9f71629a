package moneyguru

import (
	"testing"
	"time"
)

func TestNewSimpleTransaction(t *testing.T) {
	checking := NewAccount("Checking", Asset, "USD")
	groceries := NewAccount("Groceries", Expense, "USD")
	txn := NewSimpleTransaction(day(2024, time.March, 10), "food", checking, groceries, USD(50))

	if len(txn.Splits()) != 2 {
		t.Fatalf("got %d splits, want 2", len(txn.Splits()))
	}
	to, from := txn.Splits()[0], txn.Splits()[1]
	if to.Account() != groceries || !to.Amount().Equal(USD(50)) {
		t.Errorf("to side: got %v on %v", to.Amount(), to.Account())
	}
	if from.Account() != checking || !from.Amount().Equal(USD(-50)) {
		t.Errorf("from side: got %v on %v", from.Amount(), from.Account())
	}
	if got := txn.Amount(); !got.Equal(USD(50)) {
		t.Errorf("got %v, want %v", got, USD(50))
	}
}

func TestTransactionBalanceAppendsImbalanceSplit(t *testing.T) {
	checking := NewAccount("Checking", Asset, "USD")
	groceries := NewAccount("Groceries", Expense, "USD")
	txn := NewTransaction(day(2024, time.March, 10))
	txn.AddSplit(NewSplit(checking, USD(-100)))
	txn.AddSplit(NewSplit(groceries, USD(80)))

	txn.Balance(nil, false)

	if len(txn.Splits()) != 3 {
		t.Fatalf("got %d splits, want 3", len(txn.Splits()))
	}
	extra := txn.Splits()[2]
	if !extra.Unassigned() || !extra.Amount().Equal(USD(20)) {
		t.Errorf("got %v on %v, want an unassigned 20", extra.Amount(), extra.Account())
	}
}

func TestTransactionBalanceAdjustsUnassignedSplit(t *testing.T) {
	checking := NewAccount("Checking", Asset, "USD")
	groceries := NewAccount("Groceries", Expense, "USD")
	txn := NewTransaction(day(2024, time.March, 10))
	txn.AddSplit(NewSplit(checking, USD(-100)))
	txn.AddSplit(NewSplit(groceries, USD(70)))
	txn.AddSplit(NewSplit(nil, USD(10)))

	txn.Balance(nil, false)

	if len(txn.Splits()) != 3 {
		t.Fatalf("got %d splits, want 3", len(txn.Splits()))
	}
	if got := txn.Splits()[2].Amount(); !got.Equal(USD(30)) {
		t.Errorf("got %v, want %v", got, USD(30))
	}
}

func TestTransactionBalanceSweepsZeroedSplit(t *testing.T) {
	checking := NewAccount("Checking", Asset, "USD")
	groceries := NewAccount("Groceries", Expense, "USD")
	txn := NewTransaction(day(2024, time.March, 10))
	txn.AddSplit(NewSplit(checking, USD(-100)))
	txn.AddSplit(NewSplit(groceries, USD(100)))
	txn.AddSplit(NewSplit(nil, USD(-20)))

	txn.Balance(nil, false)

	if len(txn.Splits()) != 2 {
		t.Fatalf("got %d splits, want the zeroed one swept", len(txn.Splits()))
	}
}

func TestTransactionBalanceKeepTwoSplits(t *testing.T) {
	checking := NewAccount("Checking", Asset, "USD")
	groceries := NewAccount("Groceries", Expense, "USD")
	txn := NewSimpleTransaction(day(2024, time.March, 10), "food", checking, groceries, USD(50))
	strong := txn.Splits()[1] // the checking side
	strong.setAmount(USD(-80))

	txn.Balance(strong, true)

	if len(txn.Splits()) != 2 {
		t.Fatalf("got %d splits, want 2", len(txn.Splits()))
	}
	if got := txn.Splits()[0].Amount(); !got.Equal(USD(80)) {
		t.Errorf("got %v, want the weak side mirrored to %v", got, USD(80))
	}
}

func TestTransactionBalanceLeavesMCTAlone(t *testing.T) {
	checking := NewAccount("Checking", Asset, "USD")
	sparkonto := NewAccount("Sparkonto", Asset, "EUR")
	txn := NewTransaction(day(2024, time.March, 10))
	txn.AddSplit(NewSplit(checking, USD(-100)))
	txn.AddSplit(NewSplit(sparkonto, EUR(90)))

	txn.Balance(nil, false)

	if len(txn.Splits()) != 2 {
		t.Errorf("got %d splits, want a multi-currency transaction untouched", len(txn.Splits()))
	}
	if !txn.IsMCT() {
		t.Errorf("expected a multi-currency transaction")
	}
}

func TestTransactionMCTBalance(t *testing.T) {
	checking := NewAccount("Checking", Asset, "USD")
	sparkonto := NewAccount("Sparkonto", Asset, "EUR")
	txn := NewTransaction(day(2024, time.March, 10))
	txn.AddSplit(NewSplit(checking, USD(-100)))
	txn.AddSplit(NewSplit(sparkonto, EUR(90)))

	// with a 1:1 rate the converted total is -10 USD
	if err := txn.MCTBalance("USD", NullRateProvider{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txn.Splits()) != 3 {
		t.Fatalf("got %d splits, want a balancing third", len(txn.Splits()))
	}
	extra := txn.Splits()[2]
	if !extra.Unassigned() || !extra.Amount().Equal(USD(10)) {
		t.Errorf("got %v, want an unassigned 10 USD", extra.Amount())
	}
}

func TestTransactionSetAmount(t *testing.T) {
	checking := NewAccount("Checking", Asset, "USD")
	groceries := NewAccount("Groceries", Expense, "USD")

	t.Run("two splits", func(t *testing.T) {
		txn := NewSimpleTransaction(day(2024, time.March, 10), "food", checking, groceries, USD(50))
		if !txn.CanSetAmount() {
			t.Fatalf("expected a settable transaction")
		}
		if err := txn.SetAmount(USD(80)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := txn.Amount(); !got.Equal(USD(80)) {
			t.Errorf("got %v, want %v", got, USD(80))
		}
		if got := txn.Splits()[1].Amount(); !got.Equal(USD(-80)) {
			t.Errorf("got %v, want the from side at %v", got, USD(-80))
		}
	})

	t.Run("empty", func(t *testing.T) {
		txn := NewTransaction(day(2024, time.March, 10))
		if err := txn.SetAmount(USD(10)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(txn.Splits()) != 2 {
			t.Fatalf("got %d splits, want 2", len(txn.Splits()))
		}
		if got := txn.Amount(); !got.Equal(USD(10)) {
			t.Errorf("got %v, want %v", got, USD(10))
		}
	})

	t.Run("too many splits", func(t *testing.T) {
		txn := NewTransaction(day(2024, time.March, 10))
		txn.AddSplit(NewSplit(checking, USD(-100)))
		txn.AddSplit(NewSplit(groceries, USD(60)))
		txn.AddSplit(NewSplit(nil, USD(40)))
		if txn.CanSetAmount() {
			t.Fatalf("expected a non-settable transaction")
		}
		if err := txn.SetAmount(USD(80)); err == nil {
			t.Errorf("expected an error")
		}
	})

	t.Run("multi currency", func(t *testing.T) {
		sparkonto := NewAccount("Sparkonto", Asset, "EUR")
		txn := NewTransaction(day(2024, time.March, 10))
		txn.AddSplit(NewSplit(checking, USD(-100)))
		txn.AddSplit(NewSplit(sparkonto, EUR(90)))
		if txn.CanSetAmount() {
			t.Fatalf("expected a non-settable transaction")
		}
	})
}

func TestTransactionChangeDateDragsReconciliation(t *testing.T) {
	checking := NewAccount("Checking", Asset, "USD")
	groceries := NewAccount("Groceries", Expense, "USD")
	txn := NewSimpleTransaction(day(2024, time.March, 10), "food", checking, groceries, USD(50))
	onDate, later := txn.Splits()[0], txn.Splits()[1]
	onDate.reconciliationDate = day(2024, time.March, 10)
	later.reconciliationDate = day(2024, time.March, 20)

	date := day(2024, time.March, 15)
	if err := txn.Change(&TransactionPatch{Date: &date}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := onDate.ReconciliationDate(); got != date {
		t.Errorf("got %v, want the on-date reconciliation dragged to %v", got, date)
	}
	if got := later.ReconciliationDate(); got != day(2024, time.March, 20) {
		t.Errorf("got %v, want a later reconciliation untouched", got)
	}
}

func TestTransactionChangeDateClampsReconciliation(t *testing.T) {
	checking := NewAccount("Checking", Asset, "USD")
	groceries := NewAccount("Groceries", Expense, "USD")
	txn := NewSimpleTransaction(day(2024, time.March, 10), "food", checking, groceries, USD(50))
	txn.Splits()[0].reconciliationDate = day(2024, time.March, 12)

	date := day(2024, time.March, 15)
	if err := txn.Change(&TransactionPatch{Date: &date}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := txn.Splits()[0].ReconciliationDate(); got != date {
		t.Errorf("got %v, want the reconciliation clamped to %v", got, date)
	}
}

func TestTransactionChangeDateToFutureClearsReconciliation(t *testing.T) {
	checking := NewAccount("Checking", Asset, "USD")
	groceries := NewAccount("Groceries", Expense, "USD")
	txn := NewSimpleTransaction(day(2024, time.March, 10), "food", checking, groceries, USD(50))
	txn.Splits()[0].reconciliationDate = day(2024, time.March, 10)
	txn.Splits()[1].reconciliationDate = day(2024, time.March, 10)

	date := Today().Add(5)
	if err := txn.Change(&TransactionPatch{Date: &date}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, s := range txn.Splits() {
		if s.Reconciled() {
			t.Errorf("split %d: reconciliation must not survive a move into the future", i)
		}
	}
}

func TestTransactionChangeAccounts(t *testing.T) {
	checking := NewAccount("Checking", Asset, "USD")
	groceries := NewAccount("Groceries", Expense, "USD")
	restaurant := NewAccount("Restaurant", Expense, "USD")
	txn := NewSimpleTransaction(day(2024, time.March, 10), "food", checking, groceries, USD(50))

	if err := txn.Change(&TransactionPatch{To: restaurant}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := txn.Splits()[0].Account(); got != restaurant {
		t.Errorf("got %v, want %v", got, restaurant)
	}
	if got := txn.Splits()[1].Account(); got != checking {
		t.Errorf("got %v, want the from side untouched", got)
	}
}

func TestTransactionChangeCurrencyRedenominates(t *testing.T) {
	checking := NewAccount("Checking", Asset, "USD")
	groceries := NewAccount("Groceries", Expense, "USD")
	txn := NewSimpleTransaction(day(2024, time.March, 10), "food", checking, groceries, USD(50))
	txn.Splits()[0].reconciliationDate = day(2024, time.March, 10)

	currency := "EUR"
	if err := txn.Change(&TransactionPatch{Currency: &currency}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := txn.Splits()[0].Amount(); !got.Equal(EUR(50)) {
		t.Errorf("got %v, want the value kept as %v", got, EUR(50))
	}
	if txn.Splits()[0].Reconciled() {
		t.Errorf("reconciliation must not survive a currency change")
	}
}

func TestTransactionReassignAccount(t *testing.T) {
	checking := NewAccount("Checking", Asset, "USD")
	groceries := NewAccount("Groceries", Expense, "USD")
	savings := NewAccount("Savings", Asset, "USD")
	txn := NewSimpleTransaction(day(2024, time.March, 10), "food", checking, groceries, USD(50))
	txn.Splits()[1].reconciliationDate = day(2024, time.March, 10)

	txn.ReassignAccount(checking, savings)
	if got := txn.Splits()[1].Account(); got != savings {
		t.Errorf("got %v, want %v", got, savings)
	}
	if txn.Splits()[1].Reconciled() {
		t.Errorf("reconciliation must not survive an account move")
	}

	txn.ReassignAccount(savings, nil)
	if !txn.Splits()[1].Unassigned() {
		t.Errorf("expected the split left unassigned")
	}
}

func TestTransactionAffectedAccounts(t *testing.T) {
	checking := NewAccount("Checking", Asset, "USD")
	groceries := NewAccount("Groceries", Expense, "USD")
	txn := NewTransaction(day(2024, time.March, 10))
	txn.AddSplit(NewSplit(checking, USD(-100)))
	txn.AddSplit(NewSplit(groceries, USD(60)))
	txn.AddSplit(NewSplit(checking, USD(40)))
	txn.AddSplit(NewSplit(nil, USD(0)))

	got := txn.AffectedAccounts()
	if len(got) != 2 || got[0] != checking || got[1] != groceries {
		t.Errorf("got %v, want [checking groceries]", got)
	}
}

func TestTransactionSplittedSplitsPadsZeroes(t *testing.T) {
	txn := NewTransaction(day(2024, time.March, 10))
	txn.AddSplit(NewSplit(nil, NO(0)))
	txn.AddSplit(NewSplit(nil, NO(0)))

	froms, tos := txn.SplittedSplits()
	if len(froms) != 1 || len(tos) != 1 {
		t.Fatalf("got %d froms and %d tos, want 1 and 1", len(froms), len(tos))
	}
	if tos[0] != txn.Splits()[1] || froms[0] != txn.Splits()[0] {
		t.Errorf("the last zero split pads the to side")
	}
}

func TestTransactionMatches(t *testing.T) {
	checking := NewAccount("Checking", Asset, "USD")
	groceries := NewAccount("Groceries", Expense, "USD")
	groceries.group = "Food"
	txn := NewSimpleTransaction(day(2024, time.March, 10), "Weekly shopping", checking, groceries, USD(50))
	txn.payee = "Safeway"
	txn.checkno = "42"
	txn.Splits()[0].SetMemo("club card")
	fifty, fiftyOne := EUR(-50), USD(51)

	tests := []struct {
		name string
		q    Query
		want bool
	}{
		{"description substring", Query{Description: "SHOP"}, true},
		{"payee", Query{Payee: "safe"}, true},
		{"checkno exact", Query{Checkno: "42"}, true},
		{"checkno prefix misses", Query{Checkno: "4"}, false},
		{"memo", Query{Memo: "club"}, true},
		{"account", Query{Account: "check"}, true},
		{"group", Query{Group: "foo"}, true},
		{"amount absolute", Query{Amount: &fifty}, true},
		{"amount misses", Query{Amount: &fiftyOne}, false},
		{"empty", Query{}, false},
		{"any clause suffices", Query{Description: "nope", Payee: "safeway"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := txn.Matches(&tt.q); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransactionEqualContent(t *testing.T) {
	checking := NewAccount("Checking", Asset, "USD")
	groceries := NewAccount("Groceries", Expense, "USD")
	txn := NewSimpleTransaction(day(2024, time.March, 10), "food", checking, groceries, USD(50))

	same := txn.copy()
	same.position = 99 // position and mtime are not content
	if !txn.equalContent(same) {
		t.Errorf("a copy must compare equal")
	}

	other := txn.copy()
	other.Splits()[0].SetMemo("tip")
	if txn.equalContent(other) {
		t.Errorf("a memo change must break equality")
	}
}
