package moneyguru

import (
	"iter"
	"sort"
)

// Oven turns the raw transaction list and the schedules into cooked state:
// the merged sequence of real transactions and schedule spawns in (date,
// position) order, and one register of entries per account. Raw
// transactions are cooked whatever their date; spawns are generated up to
// the cooking horizon.
//
// Cooking is incremental. Cook(from, until) keeps everything dated before
// 'from' and rebuilds the rest, so the caller must pass a 'from' on or
// before every date whose cooked output changed. Spawns are regenerated
// from the current templates on every cook that covers them.
type Oven struct {
	transactions *TransactionList
	schedules    *ScheduleList

	cooked      []*Transaction
	entries     map[*Account]*EntryList
	cookedUntil Date
}

// NewOven returns an oven cooking from the given raw lists. Nothing is
// cooked until the first Cook call.
func NewOven(transactions *TransactionList, schedules *ScheduleList) *Oven {
	return &Oven{
		transactions: transactions,
		schedules:    schedules,
		entries:      make(map[*Account]*EntryList),
	}
}

// CookedUntil returns the spawn horizon: the last date through which
// schedule spawns have been generated.
func (o *Oven) CookedUntil() Date { return o.cookedUntil }

// Cook rebuilds cooked state from 'from' through 'until'. A zero 'from'
// recooks everything. The horizon never recedes: an 'until' before the
// current one extends to it. Real transactions are always cooked whatever
// their date; only spawn generation stops at the horizon.
func (o *Oven) Cook(from, until Date) {
	if o.cookedUntil.After(until) {
		until = o.cookedUntil
	}

	var prefix []*Transaction
	if from.IsZero() {
		o.entries = make(map[*Account]*EntryList)
	} else {
		from = o.reduceFrom(from)
		n := sort.Search(len(o.cooked), func(i int) bool {
			return !o.cooked[i].date.Before(from)
		})
		prefix = o.cooked[:n]
		for _, l := range o.entries {
			l.truncate(from)
		}
	}

	var batch []*Transaction
	for _, t := range o.transactions.Transactions(OnOrAfter(from)) {
		batch = append(batch, t)
	}
	for s := range o.schedules.Schedules() {
		for _, spawn := range s.Spawns(until) {
			if !spawn.date.Before(from) {
				batch = append(batch, spawn)
			}
		}
	}
	// Stable by (date, position): spawns carry position 0, so they come
	// before real transactions on their date, and spawns of distinct
	// schedules keep registration order.
	sort.SliceStable(batch, func(i, j int) bool {
		if batch[i].date != batch[j].date {
			return batch[i].date.Before(batch[j].date)
		}
		return batch[i].position < batch[j].position
	})

	o.cooked = append(prefix, batch...)
	o.cookedUntil = until

	for _, t := range batch {
		for _, s := range t.splits {
			if s.account == nil {
				continue
			}
			o.entriesFor(s.account).add(s, t)
		}
	}
}

// reduceFrom widens the recook window over the currently cooked
// transactions: it never lands after a cooked spawn (spawn content must
// always reflect the current template), and a split reconciled at or after
// 'from' pulls it back to its transaction's date. Walking newest first
// catches chains of date/reconciliation-date overlaps.
func (o *Oven) reduceFrom(from Date) Date {
	for i := len(o.cooked) - 1; i >= 0; i-- {
		t := o.cooked[i]
		if t.IsSpawn() {
			from = minDate(from, t.date)
			continue
		}
		for _, s := range t.splits {
			if rd := s.ReconciliationDate(); !rd.IsZero() && !rd.Before(from) {
				from = minDate(from, t.date)
			}
		}
	}
	return from
}

// ContinueCooking extends the spawn horizon. Cooking to u1 and continuing
// to u2 leaves the same state as cooking straight to u2.
func (o *Oven) ContinueCooking(until Date) {
	if !until.After(o.cookedUntil) {
		return
	}
	o.Cook(o.cookedUntil.Add(1), until)
}

func (o *Oven) entriesFor(account *Account) *EntryList {
	l, ok := o.entries[account]
	if !ok {
		l = newEntryList(account)
		o.entries[account] = l
	}
	return l
}

// EntriesFor returns the account's register. An account with no cooked
// splits has an empty one.
func (o *Oven) EntriesFor(account *Account) *EntryList {
	return o.entriesFor(account)
}

// dropAccount forgets the register of a deleted account.
func (o *Oven) dropAccount(account *Account) {
	delete(o.entries, account)
}

// Transactions yields cooked transactions, real and spawned, in (date,
// position) order, keeping only those accepted by every filter.
func (o *Oven) Transactions(filters ...func(*Transaction) bool) iter.Seq2[int, *Transaction] {
	return func(yield func(int, *Transaction) bool) {
		i := 0
		for _, t := range o.cooked {
			accepted := true
			for _, f := range filters {
				if !f(t) {
					accepted = false
					break
				}
			}
			if !accepted {
				continue
			}
			if !yield(i, t) {
				return
			}
			i++
		}
	}
}
