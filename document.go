package moneyguru

import (
	"encoding/hex"
	"encoding/json"
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"
)

// autosaveInterval is the default number of mutations between two autosave
// snapshots.
const autosaveInterval = 10

// Properties are the document-wide settings persisted with the file. They
// are not undoable; changing them marks the document modified.
type Properties struct {
	DefaultCurrency string
	FirstWeekday    time.Weekday
	AheadMonths     int
	YearStartMonth  time.Month
}

// DefaultProperties returns the settings of a fresh document.
func DefaultProperties() Properties {
	return Properties{
		DefaultCurrency: "USD",
		FirstWeekday:    time.Monday,
		AheadMonths:     3,
		YearStartMonth:  time.January,
	}
}

func (p Properties) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("default_currency", p.DefaultCurrency)
	w.Append("first_weekday", int(p.FirstWeekday))
	w.Append("ahead_months", p.AheadMonths)
	w.Append("year_start_month", int(p.YearStartMonth))
	return w.MarshalJSON()
}

func (p *Properties) UnmarshalJSON(data []byte) error {
	var jp struct {
		DefaultCurrency string `json:"default_currency"`
		FirstWeekday    int    `json:"first_weekday"`
		AheadMonths     int    `json:"ahead_months"`
		YearStartMonth  int    `json:"year_start_month"`
	}
	if err := json.Unmarshal(data, &jp); err != nil {
		return err
	}
	p.DefaultCurrency = jp.DefaultCurrency
	p.FirstWeekday = time.Weekday(jp.FirstWeekday)
	p.AheadMonths = jp.AheadMonths
	p.YearStartMonth = time.Month(jp.YearStartMonth)
	return nil
}

// Document is the one mutation entry point of an open ledger. It owns the
// account, transaction and schedule registries, keeps the oven's cooked
// view current, and records every mutation into the undoer. Readers may
// walk the registries directly, but every modification must go through a
// Document method: that is what keeps undo, cooked state and groups
// consistent.
//
// The document expects a single goroutine. The only suspension point is
// the ScopeResolver call, made before any state is touched.
type Document struct {
	id    string
	props Properties

	accounts     *AccountList
	groups       *GroupList
	transactions *TransactionList
	schedules    *ScheduleList

	oven   *Oven
	undoer *Undoer

	rates RateProvider
	scope ScopeResolver

	step          int
	autosaveEvery int
	autosaveSink  func(*Snapshot)
	dirtyProps    bool
}

// NewDocument returns an empty document with default properties, a fresh
// document id, rate conversions at 1 and local-scope edits.
func NewDocument() *Document {
	id := uuid.New()
	d := &Document{
		id:            hex.EncodeToString(id[:]),
		props:         DefaultProperties(),
		accounts:      NewAccountList(),
		groups:        NewGroupList(),
		transactions:  NewTransactionList(),
		schedules:     NewScheduleList(),
		rates:         NullRateProvider{},
		scope:         LocalScope,
		autosaveEvery: autosaveInterval,
	}
	d.oven = NewOven(d.transactions, d.schedules)
	d.undoer = NewUndoer(d.accounts, d.transactions, d.schedules)
	return d
}

func (d *Document) DocumentID() string     { return d.id }
func (d *Document) Properties() Properties { return d.props }
func (d *Document) DefaultCurrency() string {
	return d.props.DefaultCurrency
}

// SetProperties replaces the document settings. Not undoable; the document
// becomes modified.
func (d *Document) SetProperties(p Properties) {
	if p == d.props {
		return
	}
	d.props = p
	d.dirtyProps = true
	d.touch()
}

// SetRateProvider wires the exchange-rate source used by multi-currency
// balancing.
func (d *Document) SetRateProvider(rates RateProvider) {
	if rates == nil {
		rates = NullRateProvider{}
	}
	d.rates = rates
}

// SetScopeResolver wires the local/global/cancel decision for edits
// touching schedule spawns.
func (d *Document) SetScopeResolver(scope ScopeResolver) {
	if scope == nil {
		scope = LocalScope
	}
	d.scope = scope
}

// SetAutosave wires a snapshot sink fired every 'every' mutations; 0 keeps
// the default interval, a nil sink disables autosaving.
func (d *Document) SetAutosave(every int, sink func(*Snapshot)) {
	if every < 1 {
		every = autosaveInterval
	}
	d.autosaveEvery = every
	d.autosaveSink = sink
}

// --- Readers

// Accounts yields the document's accounts in display order.
func (d *Document) Accounts() iter.Seq[*Account] { return d.accounts.Accounts() }

// FindAccount looks an account up by name (case-insensitive) or
// account-number prefix; nil when unknown.
func (d *Document) FindAccount(name string) *Account { return d.accounts.Find(name) }

// Groups yields the account groups currently referenced.
func (d *Document) Groups() iter.Seq[*Group] { return d.groups.Groups() }

// Schedules yields the schedules in creation order.
func (d *Document) Schedules() iter.Seq[*Recurrence] { return d.schedules.Schedules() }

// Schedule resolves a schedule id, nil when unknown.
func (d *Document) Schedule(id int64) *Recurrence { return d.schedules.Get(id) }

// Transactions yields the raw (non-spawn) transactions.
func (d *Document) Transactions(filters ...func(*Transaction) bool) iter.Seq2[int, *Transaction] {
	return d.transactions.Transactions(filters...)
}

// CookedTransactions yields the cooked sequence: real transactions merged
// with schedule spawns, in (date, position) order.
func (d *Document) CookedTransactions(filters ...func(*Transaction) bool) iter.Seq2[int, *Transaction] {
	return d.oven.Transactions(filters...)
}

// EntriesFor returns the account's cooked register.
func (d *Document) EntriesFor(account *Account) *EntryList { return d.oven.EntriesFor(account) }

// CookedUntil returns the current spawn horizon.
func (d *Document) CookedUntil() Date { return d.oven.CookedUntil() }

// EnsureCookedUntil extends the spawn horizon to cover 'until', generating
// the spawns a wider date range needs.
func (d *Document) EnsureCookedUntil(until Date) { d.oven.ContinueCooking(until) }

// --- Internal plumbing

// defaultHorizon is how far ahead spawns are generated without an explicit
// range: at least the end of the current year, and at least AheadMonths
// months out.
func (d *Document) defaultHorizon() Date {
	t := Today()
	eoy := t.EndOf(Yearly)
	ahead := t.StartOf(Monthly).AddMonth(d.props.AheadMonths).EndOf(Monthly)
	return maxDate(eoy, ahead)
}

// cook re-cooks from 'from' (zero recooks everything) and counts a step
// toward autosave.
func (d *Document) cook(from Date) {
	d.oven.Cook(from, d.defaultHorizon())
	d.touch()
}

func (d *Document) touch() {
	d.step++
	if d.autosaveSink != nil && d.step%d.autosaveEvery == 0 {
		d.autosaveSink(d.Snapshot())
	}
}

// commit seals a mutation: record for undo, refresh derived groups, recook
// from the earliest affected date.
func (d *Document) commit(action *Action, from Date) {
	d.undoer.Record(action)
	d.refreshGroups()
	d.cook(from)
}

// refreshGroups keeps the group registry congruent with account
// assignments: referenced groups exist, unreferenced ones go.
func (d *Document) refreshGroups() {
	used := make(map[*Group]bool)
	for a := range d.accounts.Accounts() {
		if a.group != "" {
			used[d.groups.Ensure(a.group, a.typ)] = true
		}
	}
	var stale []*Group
	for g := range d.groups.Groups() {
		if !used[g] {
			stale = append(stale, g)
		}
	}
	for _, g := range stale {
		d.groups.Remove(g)
	}
}

// pruneAutoCreated drops auto-created categories no split references
// anymore, recording the removals on the action so undo restores them.
func (d *Document) pruneAutoCreated(action *Action) {
	refs := make(map[*Account]int)
	for _, t := range d.transactions.Transactions() {
		for _, s := range t.splits {
			refs[s.account]++
		}
	}
	for s := range d.schedules.Schedules() {
		for _, split := range s.ref.splits {
			refs[split.account]++
		}
	}
	var stale []*Account
	for a := range d.accounts.Accounts() {
		if a.autoCreated && refs[a] == 0 {
			stale = append(stale, a)
		}
	}
	for _, a := range stale {
		action.DeletedAccount(a)
		d.accounts.Remove(a)
		d.oven.dropAccount(a)
	}
}

// scheduleOf resolves a spawn's owning schedule. A dangling schedule id is
// a programming error.
func (d *Document) scheduleOf(t *Transaction) *Recurrence {
	s := d.schedules.Get(t.scheduleID)
	if s == nil {
		panic("spawn has no owning schedule")
	}
	return s
}

// resolveScope asks the resolver when spawns are among the touched
// transactions. It reports whether the edit is global; Cancel surfaces as
// ErrAborted before anything was mutated.
func (d *Document) resolveScope(txns []*Transaction) (bool, error) {
	var spawns []*Transaction
	for _, t := range txns {
		if t.IsSpawn() {
			spawns = append(spawns, t)
		}
	}
	if len(spawns) == 0 {
		return false, nil
	}
	scope := ScopeLocal
	if d.scope != nil {
		scope = d.scope.ResolveScope(spawns)
	}
	switch scope {
	case ScopeCancel:
		return false, ErrAborted
	case ScopeGlobal:
		return true, nil
	default:
		return false, nil
	}
}

// --- Accounts

// NewAccount creates an account under a free name derived from
// "New account", in the default currency.
func (d *Document) NewAccount(typ AccountType, groupname string) *Account {
	name := d.accounts.NewNameFrom("New account")
	account := NewAccount(name, typ, d.props.DefaultCurrency)
	account.group = groupname
	action := NewAction("Add account")
	action.AddedAccount(account)
	d.accounts.Add(account)
	d.undoer.Record(action)
	d.refreshGroups()
	d.touch()
	return account
}

// AddAccount creates an account under an explicit name. An empty currency
// falls back to the document default.
func (d *Document) AddAccount(name string, typ AccountType, currency string) (*Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("account name cannot be empty")
	}
	if d.accounts.HasName(name, nil) {
		return nil, validationf("duplicate account name %q", name)
	}
	if currency == "" {
		currency = d.props.DefaultCurrency
	}
	if err := validateCurrency(currency); err != nil {
		return nil, err
	}
	account := NewAccount(name, typ, currency)
	action := NewAction("Add account")
	action.AddedAccount(account)
	d.accounts.Add(account)
	d.undoer.Record(action)
	d.touch()
	return account, nil
}

// EnsureAccount returns the account of that name, auto-creating it (with
// the auto-created flag, in the default currency) when missing. The old
// "type a new category name and it exists" behavior.
func (d *Document) EnsureAccount(name string, typ AccountType) *Account {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if found := d.accounts.Find(name); found != nil {
		return found
	}
	account := NewAccount(name, typ, d.props.DefaultCurrency)
	account.autoCreated = true
	action := NewAction("Add account")
	action.AddedAccount(account)
	d.accounts.Add(account)
	d.undoer.Record(action)
	d.touch()
	return account
}

// ChangeAccounts applies the patch to every account. Renames reject name
// collisions; a type change clears the group; a currency change is
// rejected while any of the account's entries is reconciled.
func (d *Document) ChangeAccounts(accounts []*Account, patch *AccountPatch) error {
	if len(accounts) == 0 {
		return nil
	}
	if patch.Name != nil {
		if len(accounts) > 1 {
			return validationf("cannot rename several accounts to one name")
		}
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return validationf("account name cannot be empty")
		}
		if d.accounts.HasName(name, accounts[0]) {
			return validationf("duplicate account name %q", name)
		}
	}
	if patch.Currency != nil {
		if err := validateCurrency(*patch.Currency); err != nil {
			return err
		}
		for _, a := range accounts {
			for range d.oven.EntriesFor(a).Entries(EntryReconciled()) {
				return validationf("cannot change the currency of %q: it has reconciled entries", a.name)
			}
		}
	}
	action := NewAction("Change account")
	for _, a := range accounts {
		action.ChangedAccount(a)
	}
	for _, a := range accounts {
		if patch.Name != nil {
			a.name = strings.TrimSpace(*patch.Name)
		}
		if patch.Type != nil && *patch.Type != a.typ {
			a.typ = *patch.Type
			a.group = ""
		}
		if patch.Currency != nil {
			a.currency = *patch.Currency
		}
		if patch.Group != nil {
			a.group = *patch.Group
		}
		if patch.AccountNumber != nil {
			a.accountNumber = *patch.AccountNumber
		}
		if patch.Notes != nil {
			a.notes = *patch.Notes
		}
		if patch.Reference != nil {
			a.reference = *patch.Reference
		}
		if patch.Inactive != nil {
			a.inactive = *patch.Inactive
		}
	}
	d.commit(action, Date{})
	return nil
}

// DeleteAccounts removes the accounts. Splits sitting on them move to
// 'reassignTo' (nil leaves them unassigned); with no reassignment, a real
// transaction whose every account is being deleted goes away entirely.
func (d *Document) DeleteAccounts(accounts []*Account, reassignTo *Account) error {
	if len(accounts) == 0 {
		return nil
	}
	doomed := make(map[*Account]bool)
	for _, a := range accounts {
		if !d.accounts.Contains(a) {
			return validationf("unknown account %q", a.name)
		}
		doomed[a] = true
	}
	if reassignTo != nil && doomed[reassignTo] {
		return validationf("cannot reassign to %q: it is being deleted", reassignTo.name)
	}

	action := NewAction("Remove account")
	for _, a := range accounts {
		action.DeletedAccount(a)
	}
	var dead, touched []*Transaction
	for _, t := range d.transactions.Transactions() {
		affected := t.AffectedAccounts()
		hit, all := false, len(affected) > 0
		for _, a := range affected {
			if doomed[a] {
				hit = true
			} else {
				all = false
			}
		}
		if !hit {
			continue
		}
		if reassignTo == nil && all {
			action.DeletedTransaction(t)
			dead = append(dead, t)
		} else {
			action.ChangedTransaction(t)
			touched = append(touched, t)
		}
	}
	var schedules []*Recurrence
	for s := range d.schedules.Schedules() {
		for _, a := range s.AffectedAccounts() {
			if doomed[a] {
				action.ChangedSchedule(s)
				schedules = append(schedules, s)
				break
			}
		}
	}

	for _, t := range dead {
		for s := range d.schedules.Schedules() {
			if s.MaterializedAt(t.date) == t {
				action.ChangedSchedule(s)
				s.forgetMaterialized(t)
			}
		}
		d.transactions.Remove(t)
	}
	for _, a := range accounts {
		for _, t := range touched {
			t.ReassignAccount(a, reassignTo)
		}
		for _, s := range schedules {
			s.ReassignAccount(a, reassignTo)
		}
		d.accounts.Remove(a)
		d.oven.dropAccount(a)
	}
	d.commit(action, Date{})
	return nil
}

// --- Transactions

// AddTransaction records a new real transaction, balancing it first.
func (d *Document) AddTransaction(t *Transaction) error {
	if t == nil || t.date.IsZero() {
		return validationf("transaction needs a date")
	}
	if t.IsSpawn() {
		return validationf("spawns are added by their schedule, not directly")
	}
	if d.transactions.Contains(t) {
		return validationf("transaction is already in the document")
	}
	if err := d.internalizeAccounts(t); err != nil {
		return err
	}
	t.Balance(nil, false)
	action := NewAction("Add transaction")
	action.AddedTransaction(t)
	d.transactions.Add(t, false)
	d.commit(action, t.date)
	return nil
}

// internalizeAccounts verifies every split account belongs to this
// document's registry.
func (d *Document) internalizeAccounts(t *Transaction) error {
	for _, s := range t.splits {
		if s.account != nil && !d.accounts.Contains(s.account) {
			return validationf("unknown account %q", s.account.name)
		}
	}
	return nil
}

// editTransactions runs one edit across the transactions: scope resolution
// when a single spawn is edited, validation of the whole edit on probe
// copies before any state is touched, then the mutation itself (local
// materialization, global template rewrite, or a plain change).
func (d *Document) editTransactions(txns []*Transaction, name string, mutate func(*Transaction) error) error {
	if len(txns) == 0 {
		return nil
	}
	global := false
	if len(txns) == 1 {
		g, err := d.resolveScope(txns)
		if err != nil {
			return err
		}
		global = g
	}
	probes := make([]*Transaction, len(txns))
	for i, t := range txns {
		if !t.IsSpawn() && !d.transactions.Contains(t) {
			return validationf("unknown transaction %q", t.description)
		}
		probe := t.copy()
		if err := mutate(probe); err != nil {
			return err
		}
		probes[i] = probe
	}

	action := NewAction(name)
	var from Date
	consider := func(dates ...Date) {
		for _, x := range dates {
			if x.IsZero() {
				continue
			}
			if from.IsZero() || x.Before(from) {
				from = x
			}
		}
	}
	for i, t := range txns {
		if t.IsSpawn() {
			sched := d.scheduleOf(t)
			action.ChangedSchedule(sched)
			oldStart := sched.Start()
			if global {
				sched.ChangeGlobally(probes[i])
				consider(oldStart, sched.Start(), t.recurrenceDate)
			} else {
				real := probes[i]
				real.scheduleID = 0
				real.recurrenceDate = Date{}
				sched.Materialize(t.recurrenceDate, real)
				action.AddedTransaction(real)
				d.transactions.Add(real, false)
				consider(t.recurrenceDate, real.date)
			}
			continue
		}
		action.ChangedTransaction(t)
		oldDate := t.date
		if err := mutate(t); err != nil {
			return err // cannot happen: the probe carried the same content
		}
		if t.date != oldDate {
			d.transactions.Reposition(t)
		}
		consider(oldDate, t.date)
	}
	d.pruneAutoCreated(action)
	d.commit(action, from)
	return nil
}

// ChangeTransactions applies the patch to every transaction. Editing a
// single spawn triggers scope resolution: local scope materializes the
// occurrence with the change, global scope rewrites the schedule template.
func (d *Document) ChangeTransactions(txns []*Transaction, patch *TransactionPatch) error {
	if patch.From != nil && !d.accounts.Contains(patch.From) {
		return validationf("unknown account %q", patch.From.name)
	}
	if patch.To != nil && !d.accounts.Contains(patch.To) {
		return validationf("unknown account %q", patch.To.name)
	}
	if patch.Date != nil && patch.Amount != nil && !patch.Amount.IsZero() {
		d.rates.EnsureRates(*patch.Date, []string{patch.Amount.Currency(), d.props.DefaultCurrency})
	}
	return d.editTransactions(txns, "Change transaction", func(t *Transaction) error {
		return t.Change(patch)
	})
}

// ReplaceTransaction rewrites the transaction's whole content (splits
// included) from an edited copy, the way a transaction panel saves its
// buffer. The edited copy's accounts must already belong to the document.
func (d *Document) ReplaceTransaction(t *Transaction, edited *Transaction) error {
	if err := d.internalizeAccounts(edited); err != nil {
		return err
	}
	return d.editTransactions([]*Transaction{t}, "Change transaction", func(x *Transaction) error {
		position, sid, rdate := x.position, x.scheduleID, x.recurrenceDate
		x.replicate(edited)
		x.position, x.scheduleID, x.recurrenceDate = position, sid, rdate
		x.mtime = time.Now()
		x.Balance(nil, false)
		return nil
	})
}

// DeleteTransactions removes the transactions. Deleting a spawn asks for
// scope: local suppresses the one occurrence, global stops the schedule
// the day before it.
func (d *Document) DeleteTransactions(txns ...*Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	global, err := d.resolveScope(txns)
	if err != nil {
		return err
	}
	for _, t := range txns {
		if !t.IsSpawn() && !d.transactions.Contains(t) {
			return validationf("unknown transaction %q", t.description)
		}
	}
	action := NewAction("Remove transaction")
	var from Date
	type suppression struct {
		sched *Recurrence
		date  Date
	}
	var pending []suppression
	for _, t := range txns {
		if from.IsZero() || t.date.Before(from) {
			from = t.date
		}
		if t.IsSpawn() {
			sched := d.scheduleOf(t)
			action.ChangedSchedule(sched)
			if global {
				sched.Truncate(t.recurrenceDate)
			} else {
				pending = append(pending, suppression{sched, t.recurrenceDate})
			}
			continue
		}
		action.DeletedTransaction(t)
		for s := range d.schedules.Schedules() {
			if s.MaterializedAt(t.date) == t {
				action.ChangedSchedule(s)
				s.forgetMaterialized(t)
			}
		}
		d.transactions.Remove(t)
	}
	// suppressions run last so other spawns in txns resolve cleanly
	for _, p := range pending {
		p.sched.DeleteAt(p.date)
	}
	d.pruneAutoCreated(action)
	d.commit(action, from)
	return nil
}

// DuplicateTransactions records detached copies of the transactions;
// duplicating a spawn yields a plain real transaction.
func (d *Document) DuplicateTransactions(txns ...*Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	action := NewAction("Duplicate transactions")
	var from Date
	for _, t := range txns {
		c := t.copy()
		c.scheduleID = 0
		c.recurrenceDate = Date{}
		action.AddedTransaction(c)
		d.transactions.Add(c, false)
		if from.IsZero() || c.date.Before(from) {
			from = c.date
		}
	}
	d.commit(action, from)
	return nil
}

// MaterializeSpawn turns the spawn into an untouched real transaction; the
// schedule stops spawning that occurrence.
func (d *Document) MaterializeSpawn(spawn *Transaction) (*Transaction, error) {
	if !spawn.IsSpawn() {
		return nil, validationf("transaction %q is not a spawn", spawn.description)
	}
	sched := d.scheduleOf(spawn)
	action := NewAction("Materialize transaction")
	action.ChangedSchedule(sched)
	real := spawn.copy()
	real.scheduleID = 0
	real.recurrenceDate = Date{}
	action.AddedTransaction(real)
	sched.Materialize(spawn.recurrenceDate, real)
	d.transactions.Add(real, false)
	d.commit(action, real.date)
	return real, nil
}

// CanMoveTransactions reports whether the transactions can be reordered:
// all real, all on one date.
func (d *Document) CanMoveTransactions(txns []*Transaction) bool {
	if len(txns) == 0 {
		return false
	}
	date := txns[0].date
	for _, t := range txns {
		if t.IsSpawn() || t.date != date {
			return false
		}
	}
	return true
}

// MoveTransactions reorders the transactions right before 'target' within
// their shared date group; a nil target moves them to the end of it.
func (d *Document) MoveTransactions(txns []*Transaction, target *Transaction) error {
	if !d.CanMoveTransactions(txns) {
		return validationf("only real transactions sharing a date can be reordered")
	}
	date := txns[0].date
	action := NewAction("Move transaction")
	for _, t := range d.transactions.Transactions(In(NewRange(date, date))) {
		action.ChangedTransaction(t)
	}
	for _, t := range txns {
		d.transactions.MoveBefore(t, target)
	}
	d.commit(action, date)
	return nil
}

// --- Reconciliation

// ToggleReconciled flips the reconciled state of the entries: all
// reconciled clears them, anything else reconciles them at their
// transaction date. Reconciling a spawn's entry materializes the spawn
// with that split reconciled, always a local operation.
func (d *Document) ToggleReconciled(entries ...*Entry) error {
	if len(entries) == 0 {
		return nil
	}
	allReconciled := true
	for _, e := range entries {
		if !e.Reconciled() {
			allReconciled = false
			break
		}
	}
	reconcile := !allReconciled

	action := NewAction("Change reconciliation")
	var from Date
	var spawned, real []*Entry
	for _, e := range entries {
		if from.IsZero() || e.Date().Before(from) {
			from = e.Date()
		}
		if e.txn.IsSpawn() {
			spawned = append(spawned, e)
		} else {
			real = append(real, e)
			action.ChangedTransaction(e.txn)
		}
	}
	if reconcile {
		for _, e := range spawned {
			sched := d.scheduleOf(e.txn)
			action.ChangedSchedule(sched)
			mat := e.txn.copy()
			mat.scheduleID = 0
			mat.recurrenceDate = Date{}
			if i := splitIndex(e.txn, e.split); i >= 0 {
				mat.splits[i].reconciliationDate = mat.date
			}
			action.AddedTransaction(mat)
			sched.Materialize(e.txn.recurrenceDate, mat)
			d.transactions.Add(mat, false)
		}
		for _, e := range real {
			e.split.reconciliationDate = e.txn.date
		}
	} else {
		for _, e := range real {
			e.split.reconciliationDate = Date{}
		}
	}
	d.commit(action, from)
	return nil
}

func splitIndex(t *Transaction, s *Split) int {
	for i, x := range t.splits {
		if x == s {
			return i
		}
	}
	return -1
}

// --- Schedules

// NewSchedule creates a schedule repeating the reference transaction from
// its own date; a zero stop means it runs forever. The reference is copied
// in; the caller's transaction stays detached.
func (d *Document) NewSchedule(ref *Transaction, repeat RepeatType, every int, stop Date) (*Recurrence, error) {
	if every < 1 {
		return nil, validationf("repeat interval must be at least 1, got %d", every)
	}
	if ref == nil || ref.date.IsZero() {
		return nil, validationf("schedule needs a reference transaction with a date")
	}
	if ref.IsSpawn() {
		return nil, validationf("a spawn cannot be a schedule reference")
	}
	if err := d.internalizeAccounts(ref); err != nil {
		return nil, err
	}
	template := ref.copy()
	template.Balance(nil, false)
	s := NewRecurrence(template, repeat, every)
	s.stop = stop
	action := NewAction("Add schedule")
	action.AddedSchedule(s)
	d.schedules.Add(s)
	d.commit(action, template.date)
	return s, nil
}

// ChangeSchedule reconfigures the schedule from a new reference
// transaction, rule and stop date. Materialized occurrences are not
// rewritten; that is what global-scope spawn edits do.
func (d *Document) ChangeSchedule(s *Recurrence, newRef *Transaction, repeat RepeatType, every int, stop Date) error {
	if !d.schedules.Contains(s) {
		return validationf("unknown schedule")
	}
	if every < 1 {
		return validationf("repeat interval must be at least 1, got %d", every)
	}
	if newRef == nil || newRef.date.IsZero() {
		return validationf("schedule needs a reference transaction with a date")
	}
	if err := d.internalizeAccounts(newRef); err != nil {
		return err
	}
	action := NewAction("Change schedule")
	action.ChangedSchedule(s)
	from := minDate(s.Start(), newRef.date)
	s.Change(newRef, repeat, every, stop)
	d.commit(action, from)
	return nil
}

// DeleteSchedules removes the schedules. Their materialized transactions
// are real and stay in the document.
func (d *Document) DeleteSchedules(schedules ...*Recurrence) error {
	if len(schedules) == 0 {
		return nil
	}
	var from Date
	for _, s := range schedules {
		if !d.schedules.Contains(s) {
			return validationf("unknown schedule")
		}
		if from.IsZero() || s.Start().Before(from) {
			from = s.Start()
		}
	}
	action := NewAction("Remove schedule")
	for _, s := range schedules {
		action.DeletedSchedule(s)
	}
	for _, s := range schedules {
		d.schedules.Remove(s)
	}
	d.commit(action, from)
	return nil
}

// --- Undo / redo

func (d *Document) CanUndo() bool           { return d.undoer.CanUndo() }
func (d *Document) CanRedo() bool           { return d.undoer.CanRedo() }
func (d *Document) UndoDescription() string { return d.undoer.UndoDescription() }
func (d *Document) RedoDescription() string { return d.undoer.RedoDescription() }

// Undo reverts the last action and recooks what it touched.
func (d *Document) Undo() error {
	action := d.undoer.Undo()
	if action == nil {
		return validationf("nothing to undo")
	}
	d.recookAfter(action)
	return nil
}

// Redo replays the last undone action and recooks what it touched.
func (d *Document) Redo() error {
	action := d.undoer.Redo()
	if action == nil {
		return validationf("nothing to redo")
	}
	d.recookAfter(action)
	return nil
}

func (d *Document) recookAfter(action *Action) {
	d.refreshGroups()
	switch {
	case action.touchesAccounts():
		d.cook(Date{})
	case !action.earliestDate().IsZero():
		d.cook(action.earliestDate())
	default:
		d.touch()
	}
}

// --- Modified state

// Modified reports whether the document drifted from its last save point.
func (d *Document) Modified() bool { return d.dirtyProps || d.undoer.Modified() }

// SetSavePoint marks the current state as saved; callers do this after
// writing the document out.
func (d *Document) SetSavePoint() {
	d.undoer.SetSavePoint()
	d.dirtyProps = false
}
