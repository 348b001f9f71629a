package moneyguru

import (
	"iter"
	"sort"
)

// Entry is the projection of one split onto its account's register, with
// the running balances after it. Entries are derived state: the oven
// rebuilds them from transactions, they are never edited or persisted.
type Entry struct {
	split             *Split
	txn               *Transaction
	balance           Amount
	reconciledBalance Amount
}

func (e *Entry) Split() *Split             { return e.split }
func (e *Entry) Transaction() *Transaction { return e.txn }
func (e *Entry) Account() *Account         { return e.split.Account() }
func (e *Entry) Date() Date                { return e.txn.Date() }
func (e *Entry) Description() string       { return e.txn.Description() }
func (e *Entry) Payee() string             { return e.txn.Payee() }
func (e *Entry) Checkno() string           { return e.txn.Checkno() }
func (e *Entry) Amount() Amount            { return e.split.Amount() }
func (e *Entry) Reconciled() bool          { return e.split.Reconciled() }
func (e *Entry) ReconciliationDate() Date  { return e.split.ReconciliationDate() }
func (e *Entry) Balance() Amount           { return e.balance }
func (e *Entry) ReconciledBalance() Amount { return e.reconciledBalance }

// Transfer returns the accounts on the other side of the entry's
// transaction, for register display.
func (e *Entry) Transfer() []*Account {
	var accounts []*Account
	for _, s := range e.txn.Splits() {
		if s != e.split && s.Account() != nil {
			accounts = append(accounts, s.Account())
		}
	}
	return accounts
}

// EntryList is one account's register, in cooked (date, position) order.
// Running balances accumulate raw values under the account's own currency
// tag, so a foreign-currency split moves the balance by its face value.
type EntryList struct {
	account *Account
	entries []*Entry
}

func newEntryList(account *Account) *EntryList {
	return &EntryList{account: account}
}

func (l *EntryList) Account() *Account { return l.account }
func (l *EntryList) Len() int          { return len(l.entries) }

// add appends the split's entry and extends the running balances.
func (l *EntryList) add(split *Split, txn *Transaction) *Entry {
	balance := A(0, l.account.Currency())
	reconciled := balance
	if n := len(l.entries); n > 0 {
		balance = l.entries[n-1].balance
		reconciled = l.entries[n-1].reconciledBalance
	}
	e := &Entry{
		split:             split,
		txn:               txn,
		balance:           balance.addRaw(split.Amount()),
		reconciledBalance: reconciled,
	}
	if split.Reconciled() {
		e.reconciledBalance = reconciled.addRaw(split.Amount())
	}
	l.entries = append(l.entries, e)
	return e
}

// truncate drops entries dated on or after the date, keeping the prefix
// the oven can cook on top of.
func (l *EntryList) truncate(date Date) {
	i := sort.Search(len(l.entries), func(i int) bool {
		return !l.entries[i].Date().Before(date)
	})
	l.entries = l.entries[:i]
}

// Entries yields entries in register order, keeping only those accepted by
// every filter.
func (l *EntryList) Entries(filters ...func(*Entry) bool) iter.Seq2[int, *Entry] {
	return func(yield func(int, *Entry) bool) {
		i := 0
		for _, e := range l.entries {
			accepted := true
			for _, f := range filters {
				if !f(e) {
					accepted = false
					break
				}
			}
			if !accepted {
				continue
			}
			if !yield(i, e) {
				return
			}
			i++
		}
	}
}

// EntryIn keeps entries whose transaction date falls within the range.
func EntryIn(r Range) func(*Entry) bool {
	return func(e *Entry) bool { return r.Contains(e.Date()) }
}

// EntryReconciled keeps reconciled entries.
func EntryReconciled() func(*Entry) bool {
	return func(e *Entry) bool { return e.Reconciled() }
}

// Last returns the newest entry, or nil for an empty register.
func (l *EntryList) Last() *Entry {
	if len(l.entries) == 0 {
		return nil
	}
	return l.entries[len(l.entries)-1]
}

// BalanceAsOf returns the running balance at end of day. Entries are in
// date order, so a binary search finds the last entry on or before the
// date; before the first entry the balance is zero in the account's
// currency.
func (l *EntryList) BalanceAsOf(date Date) Amount {
	i := sort.Search(len(l.entries), func(i int) bool {
		return l.entries[i].Date().After(date)
	})
	if i == 0 {
		return A(0, l.account.Currency())
	}
	return l.entries[i-1].balance
}

// ReconciledBalanceAsOf is BalanceAsOf over reconciled entries only.
func (l *EntryList) ReconciledBalanceAsOf(date Date) Amount {
	i := sort.Search(len(l.entries), func(i int) bool {
		return l.entries[i].Date().After(date)
	})
	if i == 0 {
		return A(0, l.account.Currency())
	}
	return l.entries[i-1].reconciledBalance
}

// CashFlow sums the entry amounts over the range, the natural measure for
// income and expense accounts.
func (l *EntryList) CashFlow(r Range) Amount {
	total := A(0, l.account.Currency())
	for _, e := range l.Entries(EntryIn(r)) {
		total = total.addRaw(e.Amount())
	}
	return total
}
