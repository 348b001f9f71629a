package moneyguru

import (
	"encoding/json"
	"fmt"
	"iter"
	"strings"
)

// AccountType classifies an account and fixes its debit/credit convention.
type AccountType int

const (
	Asset AccountType = iota
	Liability
	Income
	Expense
)

func (t AccountType) String() string {
	switch t {
	case Asset:
		return "asset"
	case Liability:
		return "liability"
	case Income:
		return "income"
	case Expense:
		return "expense"
	default:
		return "unknown"
	}
}

// IsBalanceSheet reports whether accounts of this type carry a running
// balance (assets and liabilities do, income and expenses do not).
func (t AccountType) IsBalanceSheet() bool { return t == Asset || t == Liability }

// IsCredit reports whether the natural sign of this account type is credit.
func (t AccountType) IsCredit() bool { return t == Liability || t == Income }

func ParseAccountType(str string) (AccountType, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "asset":
		return Asset, nil
	case "liability":
		return Liability, nil
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	default:
		return Asset, validationf("unknown account type %q", str)
	}
}

func (t AccountType) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", t.String())), nil
}

func (t *AccountType) UnmarshalJSON(data []byte) error {
	parsed, err := ParseAccountType(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Account is a named, typed financial account. Its identity is the struct
// pointer plus a stable numeric id that survives undo/redo splices; ids are
// never reused within a document.
type Account struct {
	id            int
	name          string
	typ           AccountType
	currency      string
	group         string
	accountNumber string
	notes         string
	reference     string
	inactive      bool
	autoCreated   bool
}

// NewAccount returns an unattached account. It gets its id when added to an
// AccountList.
func NewAccount(name string, typ AccountType, currency string) *Account {
	return &Account{name: name, typ: typ, currency: currency}
}

func (a *Account) ID() int               { return a.id }
func (a *Account) Name() string          { return a.name }
func (a *Account) Type() AccountType     { return a.typ }
func (a *Account) Currency() string      { return a.currency }
func (a *Account) Group() string         { return a.group }
func (a *Account) AccountNumber() string { return a.accountNumber }
func (a *Account) Notes() string         { return a.notes }
func (a *Account) Reference() string     { return a.reference }
func (a *Account) Inactive() bool        { return a.inactive }
func (a *Account) AutoCreated() bool     { return a.autoCreated }

func (a *Account) String() string { return a.name }

// replicate copies the content of 'other' into a, leaving the id alone.
func (a *Account) replicate(other *Account) {
	a.name = other.name
	a.typ = other.typ
	a.currency = other.currency
	a.group = other.group
	a.accountNumber = other.accountNumber
	a.notes = other.notes
	a.reference = other.reference
	a.inactive = other.inactive
	a.autoCreated = other.autoCreated
}

// copy returns a detached replica of the account, id included.
func (a *Account) copy() *Account {
	c := &Account{id: a.id}
	c.replicate(a)
	return c
}

// DisplayName prefixes the name with the account number when there is one.
func (a *Account) DisplayName() string {
	if a.accountNumber != "" {
		return a.accountNumber + " - " + a.name
	}
	return a.name
}

func (a *Account) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", a.id)
	w.Append("name", a.name)
	w.Append("type", a.typ)
	w.Optional("currency", a.currency)
	w.Optional("group", a.group)
	w.Optional("account_number", a.accountNumber)
	w.Optional("notes", a.notes)
	w.Optional("reference", a.reference)
	w.Optional("inactive", a.inactive)
	w.Optional("auto_created", a.autoCreated)
	return w.MarshalJSON()
}

func (a *Account) UnmarshalJSON(data []byte) error {
	var ja struct {
		ID            int         `json:"id"`
		Name          string      `json:"name"`
		Type          AccountType `json:"type"`
		Currency      string      `json:"currency"`
		Group         string      `json:"group"`
		AccountNumber string      `json:"account_number"`
		Notes         string      `json:"notes"`
		Reference     string      `json:"reference"`
		Inactive      bool        `json:"inactive"`
		AutoCreated   bool        `json:"auto_created"`
	}
	if err := json.Unmarshal(data, &ja); err != nil {
		return err
	}
	a.id = ja.ID
	a.name = ja.Name
	a.typ = ja.Type
	a.currency = ja.Currency
	a.group = ja.Group
	a.accountNumber = ja.AccountNumber
	a.notes = ja.Notes
	a.reference = ja.Reference
	a.inactive = ja.Inactive
	a.autoCreated = ja.AutoCreated
	return nil
}

// AccountPatch holds the fields of a bulk account update; a nil field means
// "leave untouched".
type AccountPatch struct {
	Name          *string
	Type          *AccountType
	Currency      *string
	Group         *string
	AccountNumber *string
	Notes         *string
	Reference     *string
	Inactive      *bool
}

// AccountList holds the accounts of a document in display order.
type AccountList struct {
	accounts  []*Account
	idCounter int
}

// NewAccountList returns a new empty account list.
func NewAccountList() *AccountList {
	return &AccountList{accounts: make([]*Account, 0)}
}

func (l *AccountList) Len() int { return len(l.accounts) }

// Accounts yields accounts in display order.
func (l *AccountList) Accounts() iter.Seq[*Account] {
	return func(yield func(*Account) bool) {
		for _, a := range l.accounts {
			if !yield(a) {
				return
			}
		}
	}
}

// Add registers the account, assigning a fresh id unless the account already
// carries one (re-adds during undo, loads from file).
func (l *AccountList) Add(a *Account) *Account {
	if a.id == 0 {
		l.idCounter++
		a.id = l.idCounter
	} else if a.id > l.idCounter {
		l.idCounter = a.id
	}
	l.accounts = append(l.accounts, a)
	return a
}

// Remove unlinks the account from the list. The account keeps its id, so a
// later re-add restores it unchanged.
func (l *AccountList) Remove(a *Account) {
	for i, x := range l.accounts {
		if x == a {
			l.accounts = append(l.accounts[:i], l.accounts[i+1:]...)
			return
		}
	}
}

// Contains reports whether the account is currently in the list.
func (l *AccountList) Contains(a *Account) bool {
	for _, x := range l.accounts {
		if x == a {
			return true
		}
	}
	return false
}

// Find looks an account up by name, case-insensitively. A name starting with
// an account's number matches that account too, so "4242 Groceries" finds
// the account numbered "4242".
func (l *AccountList) Find(name string) *Account {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, a := range l.accounts {
		if strings.ToLower(strings.TrimSpace(a.name)) == key {
			return a
		}
	}
	for _, a := range l.accounts {
		if a.accountNumber != "" && strings.HasPrefix(key, strings.ToLower(a.accountNumber)) {
			return a
		}
	}
	return nil
}

// FindReference looks an account up by its opaque external reference.
func (l *AccountList) FindReference(reference string) *Account {
	if reference == "" {
		return nil
	}
	for _, a := range l.accounts {
		if a.reference == reference {
			return a
		}
	}
	return nil
}

// HasName reports whether an account other than 'except' already holds the
// name, case-insensitively.
func (l *AccountList) HasName(name string, except *Account) bool {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, a := range l.accounts {
		if a != except && strings.ToLower(strings.TrimSpace(a.name)) == key {
			return true
		}
	}
	return false
}

// NewNameFrom derives a name that is free in the list: the base itself, then
// "base 2", "base 3", and so on.
func (l *AccountList) NewNameFrom(base string) string {
	name := base
	for i := 2; l.Find(name) != nil; i++ {
		name = fmt.Sprintf("%s %d", base, i)
	}
	return name
}

// Group is a named shelf for accounts of one type.
type Group struct {
	name string
	typ  AccountType
}

func (g *Group) Name() string      { return g.name }
func (g *Group) Type() AccountType { return g.typ }

func (g *Group) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("name", g.name)
	w.Append("type", g.typ)
	return w.MarshalJSON()
}

func (g *Group) UnmarshalJSON(data []byte) error {
	var jg struct {
		Name string      `json:"name"`
		Type AccountType `json:"type"`
	}
	if err := json.Unmarshal(data, &jg); err != nil {
		return err
	}
	g.name = jg.Name
	g.typ = jg.Type
	return nil
}

// GroupList holds the account groups of a document. Groups are derived
// entities: they exist exactly as long as an account references them (plus
// whatever an opened file declares, until the next prune).
type GroupList struct {
	groups []*Group
}

func NewGroupList() *GroupList { return &GroupList{groups: make([]*Group, 0)} }

func (l *GroupList) Len() int { return len(l.groups) }

func (l *GroupList) Groups() iter.Seq[*Group] {
	return func(yield func(*Group) bool) {
		for _, g := range l.groups {
			if !yield(g) {
				return
			}
		}
	}
}

func (l *GroupList) Find(name string, typ AccountType) *Group {
	for _, g := range l.groups {
		if g.typ == typ && strings.EqualFold(g.name, name) {
			return g
		}
	}
	return nil
}

// Ensure returns the group of that name and type, creating it if needed.
func (l *GroupList) Ensure(name string, typ AccountType) *Group {
	if g := l.Find(name, typ); g != nil {
		return g
	}
	g := &Group{name: name, typ: typ}
	l.groups = append(l.groups, g)
	return g
}

func (l *GroupList) Remove(g *Group) {
	for i, x := range l.groups {
		if x == g {
			l.groups = append(l.groups[:i], l.groups[i+1:]...)
			return
		}
	}
}
