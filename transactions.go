package moneyguru

import (
	"iter"
	"sort"
)

// TransactionList holds the real (non-spawn) transactions of a document,
// kept sorted by (date, position). The sort is stable, so same-key
// transactions keep their relative order across re-sorts.
type TransactionList struct {
	transactions []*Transaction
}

// NewTransactionList returns a new empty transaction list.
func NewTransactionList() *TransactionList {
	return &TransactionList{transactions: make([]*Transaction, 0)}
}

func (l *TransactionList) Len() int { return len(l.transactions) }

func (l *TransactionList) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		a, b := l.transactions[i], l.transactions[j]
		if a.date != b.date {
			return a.date.Before(b.date)
		}
		return a.position < b.position
	})
}

// maxPositionAt returns the highest position among transactions on a date.
func (l *TransactionList) maxPositionAt(date Date) int {
	max := 0
	for _, t := range l.transactions {
		if t.date == date && t.position > max {
			max = t.position
		}
	}
	return max
}

// Add inserts the transaction in order. Unless keepPosition is set, the
// transaction goes to the end of its date group.
func (l *TransactionList) Add(t *Transaction, keepPosition bool) {
	if !keepPosition {
		t.position = l.maxPositionAt(t.date) + 1
	}
	l.transactions = append(l.transactions, t)
	l.stableSort()
}

// Remove unlinks the transaction. It keeps its position, so a later re-add
// restores it in place.
func (l *TransactionList) Remove(t *Transaction) {
	for i, x := range l.transactions {
		if x == t {
			l.transactions = append(l.transactions[:i], l.transactions[i+1:]...)
			return
		}
	}
}

// Contains reports whether the transaction is currently in the list.
func (l *TransactionList) Contains(t *Transaction) bool {
	for _, x := range l.transactions {
		if x == t {
			return true
		}
	}
	return false
}

// Reposition sends the transaction to the end of its date group and
// restores sort order; called after a date change.
func (l *TransactionList) Reposition(t *Transaction) {
	t.position = l.maxPositionAt(t.date) + 1
	l.stableSort()
}

// MoveBefore reorders 'txn' right before 'target' within its date group; a
// nil target (or one on another date) moves it to the end of the group.
func (l *TransactionList) MoveBefore(txn, target *Transaction) {
	if target == nil || target.date != txn.date {
		txn.position = l.maxPositionAt(txn.date) + 1
		l.stableSort()
		return
	}
	at := target.position
	for _, t := range l.transactions {
		if t != txn && t.date == txn.date && t.position >= at {
			t.position++
		}
	}
	txn.position = at
	l.stableSort()
}

// Transactions yields transactions in (date, position) order, one index and
// transaction at a time. Optional filters restrict the yielded set; a
// transaction must pass all of them.
func (l *TransactionList) Transactions(filters ...func(*Transaction) bool) iter.Seq2[int, *Transaction] {
	return func(yield func(int, *Transaction) bool) {
		i := 0
		for _, t := range l.transactions {
			match := true
			for _, f := range filters {
				if !f(t) {
					match = false
					break
				}
			}
			if !match {
				continue
			}
			if !yield(i, t) {
				return
			}
			i++
		}
	}
}

// In restricts to transactions within the date range, boundaries included.
func In(r Range) func(*Transaction) bool {
	return func(t *Transaction) bool { return r.Contains(t.date) }
}

// OnOrAfter restricts to transactions dated 'from' or later.
func OnOrAfter(from Date) func(*Transaction) bool {
	return func(t *Transaction) bool { return !t.date.Before(from) }
}

// Matching restricts to transactions matching the query.
func Matching(q *Query) func(*Transaction) bool {
	return func(t *Transaction) bool { return t.Matches(q) }
}

// FirstDate returns the date of the earliest transaction, or the zero date
// when the list is empty.
func (l *TransactionList) FirstDate() Date {
	if len(l.transactions) == 0 {
		return Date{}
	}
	return l.transactions[0].date
}
