package moneyguru

// Split is one leg of a double-entry transaction: an amount applied to an
// account (or to no account at all, while the user is still editing). A split
// belongs to exactly one transaction.
type Split struct {
	account            *Account
	amount             Amount
	memo               string
	reference          string
	reconciliationDate Date
}

// NewSplit returns a split on the given account; a nil account leaves the
// split unassigned.
func NewSplit(account *Account, amount Amount) *Split {
	return &Split{account: account, amount: amount}
}

func (s *Split) Account() *Account        { return s.account }
func (s *Split) Amount() Amount           { return s.amount }
func (s *Split) Memo() string             { return s.memo }
func (s *Split) Reference() string        { return s.reference }
func (s *Split) ReconciliationDate() Date { return s.reconciliationDate }

// Unassigned reports whether the split has no account.
func (s *Split) Unassigned() bool { return s.account == nil }

// Reconciled reports whether the split has been cleared against a statement.
func (s *Split) Reconciled() bool { return !s.reconciliationDate.IsZero() }

// SetMemo changes the split memo.
func (s *Split) SetMemo(memo string) { s.memo = memo }

// setAccount moves the split to another account. Moving a split invalidates
// its reconciliation.
func (s *Split) setAccount(account *Account) {
	if s.account != account {
		s.account = account
		s.reconciliationDate = Date{}
	}
}

// setAmount rewrites the split amount. Changing the currency invalidates the
// reconciliation.
func (s *Split) setAmount(amount Amount) {
	if !amount.IsZero() && !s.amount.IsZero() && amount.Currency() != s.amount.Currency() {
		s.reconciliationDate = Date{}
	}
	s.amount = amount
}

// replicate copies every field of 'other' into s. Account pointers are
// shared, never cloned.
func (s *Split) replicate(other *Split) {
	*s = *other
}

// copy returns a detached replica of the split.
func (s *Split) copy() *Split {
	c := *s
	return &c
}

func (s *Split) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	if s.account != nil {
		w.Append("account", s.account.Name())
	}
	w.Append("amount", s.amount)
	w.Optional("memo", s.memo)
	w.Optional("reference", s.reference)
	if !s.reconciliationDate.IsZero() {
		w.Append("reconciliation_date", s.reconciliationDate)
	}
	return w.MarshalJSON()
}
