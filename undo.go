package moneyguru

// change pairs a live object with a content snapshot of it. Undoing and
// redoing are the same operation, a content swap: the snapshot slot always
// holds the state of the other side of the timeline, while the live
// pointer stays the one every other object references.
type change[T interface {
	replicate(T)
	copy() T
}] struct {
	live     T
	snapshot T
}

func (c change[T]) swap() {
	tmp := c.live.copy()
	c.live.replicate(c.snapshot)
	c.snapshot.replicate(tmp)
}

// Action collects everything one document mutation did: the objects it
// added and deleted, held by identity, and pre-change snapshots of the
// ones it modified. Undoing re-splices the very same pointers, so
// references between splits, accounts and schedules survive any number of
// undo/redo round trips.
type Action struct {
	name string

	addedAccounts   []*Account
	deletedAccounts []*Account
	changedAccounts []change[*Account]

	addedTxns   []*Transaction
	deletedTxns []*Transaction
	changedTxns []change[*Transaction]

	addedSchedules   []*Recurrence
	deletedSchedules []*Recurrence
	changedSchedules []change[*Recurrence]
}

// NewAction starts recording a mutation under a user-visible name
// ("Add transaction", "Remove account").
func NewAction(name string) *Action {
	return &Action{name: name}
}

func (a *Action) Name() string { return a.name }

func (a *Action) AddedAccount(acc *Account)   { a.addedAccounts = append(a.addedAccounts, acc) }
func (a *Action) DeletedAccount(acc *Account) { a.deletedAccounts = append(a.deletedAccounts, acc) }

// ChangedAccount snapshots the account; call it before mutating. Repeat
// calls for the same account keep the first snapshot.
func (a *Action) ChangedAccount(acc *Account) {
	for _, c := range a.changedAccounts {
		if c.live == acc {
			return
		}
	}
	a.changedAccounts = append(a.changedAccounts, change[*Account]{acc, acc.copy()})
}

func (a *Action) AddedTransaction(t *Transaction) { a.addedTxns = append(a.addedTxns, t) }
func (a *Action) DeletedTransaction(t *Transaction) {
	a.deletedTxns = append(a.deletedTxns, t)
}

// ChangedTransaction snapshots the transaction; call it before mutating.
// Repeat calls for the same transaction keep the first snapshot.
func (a *Action) ChangedTransaction(t *Transaction) {
	for _, c := range a.changedTxns {
		if c.live == t {
			return
		}
	}
	a.changedTxns = append(a.changedTxns, change[*Transaction]{t, t.copy()})
}

func (a *Action) AddedSchedule(s *Recurrence)   { a.addedSchedules = append(a.addedSchedules, s) }
func (a *Action) DeletedSchedule(s *Recurrence) { a.deletedSchedules = append(a.deletedSchedules, s) }

// ChangedSchedule snapshots the schedule; call it before mutating. Repeat
// calls for the same schedule keep the first snapshot.
func (a *Action) ChangedSchedule(s *Recurrence) {
	for _, c := range a.changedSchedules {
		if c.live == s {
			return
		}
	}
	a.changedSchedules = append(a.changedSchedules, change[*Recurrence]{s, s.copy()})
}

func (a *Action) empty() bool {
	return len(a.addedAccounts)+len(a.deletedAccounts)+len(a.changedAccounts)+
		len(a.addedTxns)+len(a.deletedTxns)+len(a.changedTxns)+
		len(a.addedSchedules)+len(a.deletedSchedules)+len(a.changedSchedules) == 0
}

// touchesAccounts reports whether undoing or redoing the action moves
// account state, which invalidates cooked balances wholesale.
func (a *Action) touchesAccounts() bool {
	return len(a.addedAccounts)+len(a.deletedAccounts)+len(a.changedAccounts) > 0
}

// earliestDate returns the first date whose cooked output the action
// touches; zero when the action carries nothing dated.
func (a *Action) earliestDate() Date {
	var min Date
	consider := func(d Date) {
		if d.IsZero() {
			return
		}
		if min.IsZero() || d.Before(min) {
			min = d
		}
	}
	for _, t := range a.addedTxns {
		consider(t.date)
	}
	for _, t := range a.deletedTxns {
		consider(t.date)
	}
	for _, c := range a.changedTxns {
		consider(c.live.date)
		consider(c.snapshot.date)
	}
	for _, s := range a.addedSchedules {
		consider(s.ref.date)
	}
	for _, s := range a.deletedSchedules {
		consider(s.ref.date)
	}
	for _, c := range a.changedSchedules {
		consider(c.live.ref.date)
		consider(c.snapshot.ref.date)
	}
	return min
}

// Undoer keeps a document's undo and redo history over its three object
// registries. The save point marks the history position of the last save;
// recording a new action while the save point sits above the current
// position makes it unreachable, and the document stays modified until the
// next save.
type Undoer struct {
	accounts     *AccountList
	transactions *TransactionList
	schedules    *ScheduleList

	undoStack []*Action
	redoStack []*Action
	savePoint int
}

// NewUndoer returns an undoer splicing the given registries. The empty
// history counts as saved.
func NewUndoer(accounts *AccountList, transactions *TransactionList, schedules *ScheduleList) *Undoer {
	return &Undoer{accounts: accounts, transactions: transactions, schedules: schedules}
}

func (u *Undoer) CanUndo() bool { return len(u.undoStack) > 0 }
func (u *Undoer) CanRedo() bool { return len(u.redoStack) > 0 }

// UndoDescription names the action Undo would revert, "" when there is
// none.
func (u *Undoer) UndoDescription() string {
	if !u.CanUndo() {
		return ""
	}
	return u.undoStack[len(u.undoStack)-1].name
}

// RedoDescription names the action Redo would replay, "" when there is
// none.
func (u *Undoer) RedoDescription() string {
	if !u.CanRedo() {
		return ""
	}
	return u.redoStack[len(u.redoStack)-1].name
}

// Record pushes a completed action, discarding the redo line. An action
// that touched nothing is dropped whole: it must not dirty the document.
func (u *Undoer) Record(action *Action) {
	if action.empty() {
		return
	}
	u.redoStack = u.redoStack[:0]
	if u.savePoint > len(u.undoStack) {
		u.savePoint = -1
	}
	u.undoStack = append(u.undoStack, action)
}

// SetSavePoint pins the save point to the current history position.
func (u *Undoer) SetSavePoint() { u.savePoint = len(u.undoStack) }

// Modified reports whether the document drifted from its last saved state.
func (u *Undoer) Modified() bool { return u.savePoint != len(u.undoStack) }

// Clear wipes the history, marking the current state saved. Loading a
// document starts from here.
func (u *Undoer) Clear() {
	u.undoStack = nil
	u.redoStack = nil
	u.savePoint = 0
}

// Undo reverts the newest action and returns it, nil when the history is
// empty. Added objects are unspliced, deleted ones respliced at their old
// positions, changed ones swapped back.
func (u *Undoer) Undo() *Action {
	if !u.CanUndo() {
		return nil
	}
	action := u.undoStack[len(u.undoStack)-1]
	u.undoStack = u.undoStack[:len(u.undoStack)-1]

	for _, acc := range action.addedAccounts {
		u.accounts.Remove(acc)
	}
	for _, acc := range action.deletedAccounts {
		u.accounts.Add(acc)
	}
	for _, c := range action.changedAccounts {
		c.swap()
	}
	for _, t := range action.addedTxns {
		u.transactions.Remove(t)
	}
	for _, t := range action.deletedTxns {
		u.transactions.Add(t, true)
	}
	for _, c := range action.changedTxns {
		c.swap()
	}
	if len(action.changedTxns) > 0 {
		u.transactions.stableSort() // swaps may have moved dates
	}
	for _, s := range action.addedSchedules {
		u.schedules.Remove(s)
	}
	for _, s := range action.deletedSchedules {
		u.schedules.Add(s)
	}
	for _, c := range action.changedSchedules {
		c.swap()
	}

	u.redoStack = append(u.redoStack, action)
	return action
}

// Redo replays the last undone action and returns it, nil when there is
// none.
func (u *Undoer) Redo() *Action {
	if !u.CanRedo() {
		return nil
	}
	action := u.redoStack[len(u.redoStack)-1]
	u.redoStack = u.redoStack[:len(u.redoStack)-1]

	for _, acc := range action.addedAccounts {
		u.accounts.Add(acc)
	}
	for _, acc := range action.deletedAccounts {
		u.accounts.Remove(acc)
	}
	for _, c := range action.changedAccounts {
		c.swap()
	}
	for _, t := range action.addedTxns {
		u.transactions.Add(t, true)
	}
	for _, t := range action.deletedTxns {
		u.transactions.Remove(t)
	}
	for _, c := range action.changedTxns {
		c.swap()
	}
	if len(action.changedTxns) > 0 {
		u.transactions.stableSort()
	}
	for _, s := range action.addedSchedules {
		u.schedules.Add(s)
	}
	for _, s := range action.deletedSchedules {
		u.schedules.Remove(s)
	}
	for _, c := range action.changedSchedules {
		c.swap()
	}

	u.undoStack = append(u.undoStack, action)
	return action
}
