package moneyguru

import (
	"strings"
	"time"
)

// Transaction is the double-entry unit: a dated, ordered list of splits that
// must sum to zero per currency.
//
// A transaction with a non-zero schedule id is a spawn: a virtual occurrence
// projected by a Recurrence, identified by (schedule id, recurrence date) and
// resolved through the document's schedule registry. Spawns are never
// persisted; materializing one turns it into a plain transaction.
type Transaction struct {
	date        Date
	description string
	payee       string
	checkno     string
	notes       string
	position    int
	mtime       time.Time
	splits      []*Split

	scheduleID     int64
	recurrenceDate Date
}

// NewTransaction returns an empty transaction on the given date.
func NewTransaction(date Date) *Transaction {
	return &Transaction{date: date, mtime: time.Now()}
}

// NewSimpleTransaction returns the common two-split transaction moving
// amount from one account to the other. Both accounts may be nil.
func NewSimpleTransaction(date Date, description string, from, to *Account, amount Amount) *Transaction {
	t := NewTransaction(date)
	t.description = description
	t.splits = []*Split{
		{account: to, amount: amount},
		{account: from, amount: amount.Neg()},
	}
	return t
}

func (t *Transaction) Date() Date           { return t.date }
func (t *Transaction) Description() string  { return t.description }
func (t *Transaction) Payee() string        { return t.payee }
func (t *Transaction) Checkno() string      { return t.checkno }
func (t *Transaction) Notes() string        { return t.notes }
func (t *Transaction) Position() int        { return t.position }
func (t *Transaction) Mtime() time.Time     { return t.mtime }
func (t *Transaction) Splits() []*Split     { return t.splits }
func (t *Transaction) ScheduleID() int64    { return t.scheduleID }
func (t *Transaction) RecurrenceDate() Date { return t.recurrenceDate }

// IsSpawn reports whether the transaction is a virtual schedule occurrence.
func (t *Transaction) IsSpawn() bool { return t.scheduleID != 0 }

// AddSplit appends a split. The caller is expected to Balance afterwards.
func (t *Transaction) AddSplit(s *Split) {
	t.splits = append(t.splits, s)
}

// RemoveSplit detaches a split. The caller is expected to Balance afterwards.
func (t *Transaction) RemoveSplit(s *Split) {
	for i, x := range t.splits {
		if x == s {
			t.splits = append(t.splits[:i], t.splits[i+1:]...)
			return
		}
	}
}

// SplittedSplits partitions splits into the from (money out) and to (money
// in) sides. Zero splits pad the to side first, then the from side.
func (t *Transaction) SplittedSplits() (froms, tos []*Split) {
	var nulls []*Split
	for _, s := range t.splits {
		switch {
		case s.amount.IsNegative():
			froms = append(froms, s)
		case s.amount.IsPositive():
			tos = append(tos, s)
		default:
			nulls = append(nulls, s)
		}
	}
	if len(tos) == 0 && len(nulls) > 0 {
		tos = append(tos, nulls[len(nulls)-1])
		nulls = nulls[:len(nulls)-1]
	}
	froms = append(froms, nulls...)
	return froms, tos
}

// IsMCT reports whether splits span more than one currency.
func (t *Transaction) IsMCT() bool {
	return len(t.currencies()) > 1
}

// currencies returns the distinct currencies of non-zero splits.
func (t *Transaction) currencies() []string {
	var curs []string
	for _, s := range t.splits {
		if s.amount.IsZero() {
			continue
		}
		cur := s.amount.Currency()
		found := false
		for _, c := range curs {
			if c == cur {
				found = true
				break
			}
		}
		if !found {
			curs = append(curs, cur)
		}
	}
	return curs
}

// CanSetAmount reports whether the transaction is simple enough for its
// amount to be rewritten as a single debit/credit pair.
func (t *Transaction) CanSetAmount() bool {
	return len(t.splits) <= 2 && !t.IsMCT()
}

// Amount returns the total moved by the transaction: the sum of its to side.
// It is the zero Amount for multi-currency transactions.
func (t *Transaction) Amount() Amount {
	if t.IsMCT() {
		return Amount{}
	}
	froms, tos := t.SplittedSplits()
	var total Amount
	if len(tos) > 0 {
		for _, s := range tos {
			total = total.addRaw(s.amount)
		}
		return total
	}
	for _, s := range froms {
		total = total.addRaw(s.amount)
	}
	return total.Neg()
}

// SetAmount rewrites the splits into a clean debit/credit pair carrying
// 'amount', preserving prior account assignments. It fails on transactions
// with more than two splits or spanning currencies.
func (t *Transaction) SetAmount(amount Amount) error {
	if !t.CanSetAmount() {
		return validationf("amount can only be set on single-currency transactions with at most two splits")
	}
	switch len(t.splits) {
	case 0:
		t.splits = []*Split{{amount: amount}, {amount: amount.Neg()}}
	case 1:
		t.splits[0].setAmount(amount)
		t.splits = append(t.splits, &Split{amount: amount.Neg()})
	default:
		froms, tos := t.SplittedSplits()
		if len(froms) == 1 && len(tos) == 1 {
			tos[0].setAmount(amount)
			froms[0].setAmount(amount.Neg())
		}
	}
	return nil
}

// TransactionPatch holds the fields of a bulk transaction update; a nil
// field means "leave untouched".
type TransactionPatch struct {
	Date        *Date
	Description *string
	Payee       *string
	Checkno     *string
	Notes       *string
	From        *Account
	To          *Account
	Amount      *Amount
	Currency    *string
}

// Change applies the patch. Date moves drag along reconciliation dates that
// sat on the old date, a move into the future clears them all, and whatever
// remains is clamped to the new date. A currency change re-denominates the
// split values without conversion and drops their reconciliations.
func (t *Transaction) Change(patch *TransactionPatch) error {
	if patch.Amount != nil && !t.CanSetAmount() {
		return validationf("amount can only be set on single-currency transactions with at most two splits")
	}
	if patch.Date != nil && *patch.Date != t.date {
		date := *patch.Date
		for _, s := range t.splits {
			if s.reconciliationDate == t.date {
				s.reconciliationDate = date
			}
		}
		t.date = date
		if date.After(Today()) {
			for _, s := range t.splits {
				s.reconciliationDate = Date{}
			}
		}
	}
	if patch.Description != nil {
		t.description = *patch.Description
	}
	if patch.Payee != nil {
		t.payee = *patch.Payee
	}
	if patch.Checkno != nil {
		t.checkno = *patch.Checkno
	}
	if patch.Notes != nil {
		t.notes = *patch.Notes
	}
	if patch.From != nil {
		if froms, _ := t.SplittedSplits(); len(froms) == 1 {
			froms[0].setAccount(patch.From)
		}
	}
	if patch.To != nil {
		if _, tos := t.SplittedSplits(); len(tos) == 1 {
			tos[0].setAccount(patch.To)
		}
	}
	if patch.Amount != nil {
		if err := t.SetAmount(*patch.Amount); err != nil {
			return err
		}
	}
	if patch.Currency != nil {
		for _, s := range t.splits {
			if !s.amount.IsZero() && s.amount.Currency() != *patch.Currency {
				s.amount = A(s.amount.value, *patch.Currency)
				s.reconciliationDate = Date{}
			}
		}
	}
	for _, s := range t.splits {
		if !s.reconciliationDate.IsZero() && s.reconciliationDate.Before(t.date) {
			s.reconciliationDate = t.date
		}
	}
	t.mtime = time.Now()
	return nil
}

// Balance restores the zero-sum invariant of a single-currency transaction
// by adjusting or creating one unassigned split. When 'strong' is one side
// of a two-split transaction and keepTwoSplits is set, the other side is
// mirrored instead of introducing a third split. Multi-currency
// transactions are left alone; they balance only on explicit request.
func (t *Transaction) Balance(strong *Split, keepTwoSplits bool) {
	if t.IsMCT() {
		return
	}
	var imbalance Amount
	for _, s := range t.splits {
		imbalance = imbalance.addRaw(s.amount)
	}
	if imbalance.IsZero() {
		return
	}
	if strong != nil && keepTwoSplits && len(t.splits) == 2 {
		weak := t.splits[0]
		if weak == strong {
			weak = t.splits[1]
		}
		weak.setAmount(strong.amount.Neg())
		return
	}
	var adjusted bool
	for _, s := range t.splits {
		if s.account == nil && s != strong {
			s.setAmount(A(s.amount.value.Sub(imbalance.value), imbalance.Currency()))
			adjusted = true
			break
		}
	}
	if !adjusted {
		t.splits = append(t.splits, &Split{amount: imbalance.Neg()})
	}
	// sweep unassigned splits that settled at zero
	kept := t.splits[:0]
	for _, s := range t.splits {
		if s != strong && s.account == nil && s.amount.IsZero() {
			continue
		}
		kept = append(kept, s)
	}
	t.splits = kept
}

// MCTBalance converts every split into the target currency at the
// transaction date and adjusts (or creates) one unassigned split in that
// currency so the converted total is zero.
func (t *Transaction) MCTBalance(target string, rates RateProvider) error {
	rates.EnsureRates(t.date, t.currencies())
	var total = A(0, target)
	for _, s := range t.splits {
		converted, err := ConvertAmount(s.amount, target, t.date, rates)
		if err != nil {
			return err
		}
		total = total.addRaw(converted)
	}
	if total.IsZero() {
		return nil
	}
	var balancer *Split
	for _, s := range t.splits {
		if s.account == nil && (s.amount.IsZero() || s.amount.Currency() == target) {
			balancer = s
			break
		}
	}
	if balancer == nil {
		t.splits = append(t.splits, &Split{amount: total.Neg()})
		return nil
	}
	adjusted, err := balancer.amount.Sub(total)
	if err != nil {
		return err
	}
	balancer.setAmount(adjusted)
	return nil
}

// AssignImbalance merges all unassigned splits of the target's currency into
// the target split and removes them. It is a no-op when the target itself is
// unassigned.
func (t *Transaction) AssignImbalance(target *Split) {
	if target == nil || target.account == nil {
		return
	}
	var absorbed Amount
	kept := t.splits[:0]
	for _, s := range t.splits {
		if s != target && s.account == nil && s.amount.SameCurrency(target.amount) {
			absorbed = absorbed.addRaw(s.amount)
			continue
		}
		kept = append(kept, s)
	}
	t.splits = kept
	if !absorbed.IsZero() {
		target.setAmount(target.amount.addRaw(absorbed))
	}
}

// AffectedAccounts returns the distinct accounts referenced by the splits.
func (t *Transaction) AffectedAccounts() []*Account {
	var accounts []*Account
	for _, s := range t.splits {
		if s.account == nil {
			continue
		}
		found := false
		for _, a := range accounts {
			if a == s.account {
				found = true
				break
			}
		}
		if !found {
			accounts = append(accounts, s.account)
		}
	}
	return accounts
}

// ReassignAccount moves every split sitting on 'from' over to 'to' (possibly
// nil, leaving them unassigned).
func (t *Transaction) ReassignAccount(from, to *Account) {
	for _, s := range t.splits {
		if s.account == from {
			s.setAccount(to)
		}
	}
}

// replicate copies the content of 'other' into t, deep-copying splits.
// Account pointers are shared; the transaction identity (the pointer) is
// untouched, which is what undo snapshots and spawn templates rely on.
func (t *Transaction) replicate(other *Transaction) {
	t.date = other.date
	t.description = other.description
	t.payee = other.payee
	t.checkno = other.checkno
	t.notes = other.notes
	t.position = other.position
	t.mtime = other.mtime
	t.scheduleID = other.scheduleID
	t.recurrenceDate = other.recurrenceDate
	t.splits = make([]*Split, len(other.splits))
	for i, s := range other.splits {
		t.splits[i] = s.copy()
	}
}

// copy returns a detached replica of the transaction.
func (t *Transaction) copy() *Transaction {
	c := &Transaction{}
	c.replicate(t)
	return c
}

// equalContent reports whether two transactions carry the same user-visible
// content: date, text fields and (account, amount, memo) per split.
func (t *Transaction) equalContent(other *Transaction) bool {
	if t.date != other.date || t.description != other.description ||
		t.payee != other.payee || t.checkno != other.checkno || t.notes != other.notes {
		return false
	}
	if len(t.splits) != len(other.splits) {
		return false
	}
	for i, s := range t.splits {
		o := other.splits[i]
		if s.account != o.account || !s.amount.Equal(o.amount) || s.memo != o.memo {
			return false
		}
	}
	return true
}

// Query is an OR-filter over transactions: a transaction matches when any
// present clause does. Check numbers compare exactly, amounts by absolute
// value whatever the currency, every other clause as a case-insensitive
// substring.
type Query struct {
	Description string
	Payee       string
	Checkno     string
	Memo        string
	Account     string
	Group       string
	Amount      *Amount
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Matches applies the query to the transaction.
func (t *Transaction) Matches(q *Query) bool {
	if q.Description != "" && containsFold(t.description, q.Description) {
		return true
	}
	if q.Payee != "" && containsFold(t.payee, q.Payee) {
		return true
	}
	if q.Checkno != "" && strings.EqualFold(t.checkno, q.Checkno) {
		return true
	}
	if q.Memo != "" {
		for _, s := range t.splits {
			if containsFold(s.memo, q.Memo) {
				return true
			}
		}
	}
	if q.Account != "" {
		for _, s := range t.splits {
			if s.account != nil && containsFold(s.account.Name(), q.Account) {
				return true
			}
		}
	}
	if q.Group != "" {
		for _, s := range t.splits {
			if s.account != nil && s.account.Group() != "" && containsFold(s.account.Group(), q.Group) {
				return true
			}
		}
	}
	if q.Amount != nil {
		want := q.Amount.value.Abs()
		for _, s := range t.splits {
			if s.amount.value.Abs().Equal(want) {
				return true
			}
		}
	}
	return false
}

func (t *Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", t.date)
	w.Optional("description", t.description)
	w.Optional("payee", t.payee)
	w.Optional("checkno", t.checkno)
	w.Optional("notes", t.notes)
	w.Optional("position", t.position)
	if !t.mtime.IsZero() {
		w.Append("mtime", t.mtime.Unix())
	}
	w.Append("splits", t.splits)
	return w.MarshalJSON()
}
