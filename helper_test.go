package moneyguru

import (
	"testing"
	"time"
)

// EUR is a helper for tests to create euro amounts from const
func EUR(v float64) Amount { return A(v, "EUR") }

// USD is a helper for tests to create usd amounts from const
func USD(v float64) Amount { return A(v, "USD") }

// NO is a helper for tests to create amounts with no currency set
func NO(v float64) Amount { return A(v, "") }

func day(y int, m time.Month, d int) Date { return NewDate(y, m, d) }

// newTestDocument returns a document seeded with a checking and a grocery
// account, in USD, with autosaving off.
func newTestDocument(t *testing.T) (doc *Document, checking, groceries *Account) {
	t.Helper()
	doc = NewDocument()
	var err error
	checking, err = doc.AddAccount("Checking", Asset, "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	groceries, err = doc.AddAccount("Groceries", Expense, "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return doc, checking, groceries
}

// addSpending records a simple checking-to-groceries transaction.
func addSpending(t *testing.T, doc *Document, on Date, desc string, amount Amount) *Transaction {
	t.Helper()
	txn := NewSimpleTransaction(on, desc, doc.FindAccount("Checking"), doc.FindAccount("Groceries"), amount)
	if err := doc.AddTransaction(txn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return txn
}

// addWeeklySchedule wires a weekly schedule over the same two accounts.
func addWeeklySchedule(t *testing.T, doc *Document, start Date, desc string, amount Amount) *Recurrence {
	t.Helper()
	ref := NewSimpleTransaction(start, desc, doc.FindAccount("Checking"), doc.FindAccount("Groceries"), amount)
	s, err := doc.NewSchedule(ref, RepeatWeekly, 1, Date{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

// cookedDates lists the dates of the cooked transactions matching the
// description, in cooked order. The cooking horizon tracks today, so
// schedule assertions should always narrow with In(...) filters.
func cookedDates(doc *Document, desc string, filters ...func(*Transaction) bool) []Date {
	var dates []Date
	for _, txn := range doc.CookedTransactions(filters...) {
		if txn.Description() == desc {
			dates = append(dates, txn.Date())
		}
	}
	return dates
}
