package moneyguru

import "iter"

// Snapshot is a detached deep copy of a document's full state: settings,
// accounts, groups, real transactions and schedules. Snapshots feed the
// file codec and the autosave cache; mutating the document afterwards
// never reaches into one.
type Snapshot struct {
	DocumentID   string
	Properties   Properties
	Accounts     []*Account
	Groups       []*Group
	Transactions []*Transaction
	Schedules    []*Recurrence
}

// Snapshot captures the current document state.
func (d *Document) Snapshot() *Snapshot {
	snap := &Snapshot{DocumentID: d.id, Properties: d.props}
	accounts := make(map[*Account]*Account)
	for a := range d.accounts.Accounts() {
		c := a.copy()
		accounts[a] = c
		snap.Accounts = append(snap.Accounts, c)
	}
	for g := range d.groups.Groups() {
		snap.Groups = append(snap.Groups, &Group{name: g.name, typ: g.typ})
	}
	txns := make(map[*Transaction]*Transaction)
	for _, t := range d.transactions.Transactions() {
		c := cloneTransaction(t, accounts)
		txns[t] = c
		snap.Transactions = append(snap.Transactions, c)
	}
	for s := range d.schedules.Schedules() {
		snap.Schedules = append(snap.Schedules, cloneSchedule(s, accounts, txns))
	}
	return snap
}

// RestoreSnapshot resets the document to the snapshot's state: registries
// are rebuilt from fresh clones, history is gone, and the cooked view is
// rebuilt from scratch. The snapshot itself stays untouched and reusable.
func (d *Document) RestoreSnapshot(snap *Snapshot) {
	if snap.DocumentID != "" {
		d.id = snap.DocumentID
	}
	d.props = snap.Properties
	d.accounts = NewAccountList()
	d.groups = NewGroupList()
	d.transactions = NewTransactionList()
	d.schedules = NewScheduleList()
	d.oven = NewOven(d.transactions, d.schedules)
	d.undoer = NewUndoer(d.accounts, d.transactions, d.schedules)
	d.dirtyProps = false

	accounts := make(map[*Account]*Account)
	for _, a := range snap.Accounts {
		c := a.copy()
		accounts[a] = c
		d.accounts.Add(c)
	}
	for _, g := range snap.Groups {
		d.groups.Ensure(g.name, g.typ)
	}
	txns := make(map[*Transaction]*Transaction)
	for _, t := range snap.Transactions {
		c := cloneTransaction(t, accounts)
		txns[t] = c
		d.transactions.Add(c, true)
	}
	d.transactions.stableSort()
	for _, s := range snap.Schedules {
		d.schedules.Add(cloneSchedule(s, accounts, txns))
	}
	d.refreshGroups()
	d.oven.Cook(Date{}, d.defaultHorizon())
}

// cloneTransaction deep-copies the transaction, rebinding split accounts
// through the old-to-new account map. Accounts missing from the map come
// out unassigned.
func cloneTransaction(t *Transaction, accounts map[*Account]*Account) *Transaction {
	c := t.copy()
	for _, s := range c.splits {
		if s.account != nil {
			s.account = accounts[s.account]
		}
	}
	return c
}

// cloneSchedule deep-copies the schedule, rebinding its template's split
// accounts and its materialized occurrences through the clone maps. A
// materialized transaction missing from the map degrades to a plain
// suppressed date.
func cloneSchedule(s *Recurrence, accounts map[*Account]*Account, txns map[*Transaction]*Transaction) *Recurrence {
	c := s.copy()
	for _, sp := range c.ref.splits {
		if sp.account != nil {
			sp.account = accounts[sp.account]
		}
	}
	for date, t := range c.materialized {
		if nt := txns[t]; nt != nil {
			c.materialized[date] = nt
		} else {
			delete(c.materialized, date)
			c.suppressed[date] = true
		}
	}
	return c
}

// AutosaveCache keeps the last few autosave snapshots in memory, evicting
// the oldest as new ones arrive. An optional sink receives evicted
// snapshots, which is where disk spilling hooks in. Wire it up with
// document.SetAutosave(every, cache.Put).
type AutosaveCache struct {
	capacity int
	snaps    []*Snapshot
	sink     func(*Snapshot)
}

// autosaveCacheSize is how many snapshots an AutosaveCache retains by
// default.
const autosaveCacheSize = 10

// NewAutosaveCache returns a cache holding up to 'capacity' snapshots;
// anything below 1 means the default size. The sink may be nil.
func NewAutosaveCache(capacity int, sink func(*Snapshot)) *AutosaveCache {
	if capacity < 1 {
		capacity = autosaveCacheSize
	}
	return &AutosaveCache{capacity: capacity, sink: sink}
}

// Put stores a snapshot, evicting the oldest one when full.
func (c *AutosaveCache) Put(s *Snapshot) {
	if s == nil {
		return
	}
	c.snaps = append(c.snaps, s)
	for len(c.snaps) > c.capacity {
		evicted := c.snaps[0]
		c.snaps = c.snaps[1:]
		if c.sink != nil {
			c.sink(evicted)
		}
	}
}

func (c *AutosaveCache) Len() int { return len(c.snaps) }

// Latest returns the most recent snapshot, nil when empty.
func (c *AutosaveCache) Latest() *Snapshot {
	if len(c.snaps) == 0 {
		return nil
	}
	return c.snaps[len(c.snaps)-1]
}

// Snapshots yields the cached snapshots, oldest first.
func (c *AutosaveCache) Snapshots() iter.Seq[*Snapshot] {
	return func(yield func(*Snapshot) bool) {
		for _, s := range c.snaps {
			if !yield(s) {
				return
			}
		}
	}
}
