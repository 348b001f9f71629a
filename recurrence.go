package moneyguru

import (
	"fmt"
	"iter"
	"maps"
	"sort"
	"strings"
	"time"
)

// RepeatType is the stepping rule of a recurrence.
type RepeatType int

const (
	RepeatDaily RepeatType = iota
	RepeatWeekly
	RepeatMonthly
	RepeatYearly
	// RepeatWeekday repeats on the nth weekday of the month (3rd Tuesday);
	// months without that occurrence are skipped.
	RepeatWeekday
	// RepeatWeekdayLast repeats on the last weekday of the month.
	RepeatWeekdayLast
)

func (r RepeatType) String() string {
	switch r {
	case RepeatDaily:
		return "daily"
	case RepeatWeekly:
		return "weekly"
	case RepeatMonthly:
		return "monthly"
	case RepeatYearly:
		return "yearly"
	case RepeatWeekday:
		return "weekday"
	case RepeatWeekdayLast:
		return "weekday_last"
	default:
		return "unknown"
	}
}

func ParseRepeatType(str string) (RepeatType, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "daily":
		return RepeatDaily, nil
	case "weekly":
		return RepeatWeekly, nil
	case "monthly":
		return RepeatMonthly, nil
	case "yearly":
		return RepeatYearly, nil
	case "weekday":
		return RepeatWeekday, nil
	case "weekday_last":
		return RepeatWeekdayLast, nil
	default:
		return RepeatDaily, validationf("unknown repeat type %q", str)
	}
}

func (r RepeatType) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", r.String())), nil
}

func (r *RepeatType) UnmarshalJSON(data []byte) error {
	parsed, err := ParseRepeatType(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// incDate returns the occurrence 'count' steps after 'start'. Every
// occurrence is computed from the original start, never from the previous
// occurrence, so a monthly schedule anchored on the 31st clamps to short
// months without drifting. The second return value is false for the one
// rule that can skip a month entirely: the 5th weekday of a month.
func incDate(start Date, repeat RepeatType, count int) (Date, bool) {
	if count == 0 {
		return start, true
	}
	switch repeat {
	case RepeatDaily:
		return start.Add(count), true
	case RepeatWeekly:
		return start.Add(count * 7), true
	case RepeatMonthly:
		year, month := stepMonths(start, count)
		day := start.Day()
		if last := daysIn(year, month); day > last {
			day = last
		}
		return NewDate(year, month, day), true
	case RepeatYearly:
		year := start.Year() + count
		day := start.Day()
		if last := daysIn(year, start.Month()); day > last {
			day = last // Feb 29 anchors fall back to Feb 28
		}
		return NewDate(year, start.Month(), day), true
	case RepeatWeekday:
		year, month := stepMonths(start, count)
		weekday := start.Weekday()
		occurrence := (start.Day() - 1) / 7
		first := NewDate(year, month, 1).Weekday()
		day := 1 + int(7+weekday-first)%7 + 7*occurrence
		if day > daysIn(year, month) {
			return Date{}, false
		}
		return NewDate(year, month, day), true
	case RepeatWeekdayLast:
		year, month := stepMonths(start, count)
		weekday := start.Weekday()
		last := daysIn(year, month)
		lastWeekday := NewDate(year, month, last).Weekday()
		day := last - int(7+lastWeekday-weekday)%7
		return NewDate(year, month, day), true
	default:
		panic("unknown repeat type")
	}
}

// stepMonths advances (year, month) by count months, day-agnostic.
func stepMonths(start Date, count int) (int, time.Month) {
	months := start.Year()*12 + int(start.Month()) - 1 + count
	return months / 12, time.Month(months%12 + 1)
}

// Recurrence couples a repeat rule with a reference transaction and projects
// it into virtual spawn transactions. Exceptions are tracked by exact
// occurrence date: suppressed dates never spawn again, materialized dates
// map to the real transaction that replaced the occurrence.
type Recurrence struct {
	id     int64
	ref    *Transaction
	repeat RepeatType
	every  int
	stop   Date

	suppressed   map[Date]bool
	materialized map[Date]*Transaction
}

// NewRecurrence returns a schedule repeating 'ref' from its own date.
func NewRecurrence(ref *Transaction, repeat RepeatType, every int) *Recurrence {
	return &Recurrence{
		ref:          ref,
		repeat:       repeat,
		every:        every,
		suppressed:   make(map[Date]bool),
		materialized: make(map[Date]*Transaction),
	}
}

func (r *Recurrence) ID() int64          { return r.id }
func (r *Recurrence) Ref() *Transaction  { return r.ref }
func (r *Recurrence) Repeat() RepeatType { return r.repeat }
func (r *Recurrence) Every() int         { return r.every }
func (r *Recurrence) Start() Date        { return r.ref.date }
func (r *Recurrence) StopDate() Date     { return r.stop }

// SuppressedAt reports whether the occurrence at that date was deleted.
func (r *Recurrence) SuppressedAt(date Date) bool { return r.suppressed[date] }

// MaterializedAt returns the real transaction that replaced the occurrence
// at that date, if any.
func (r *Recurrence) MaterializedAt(date Date) *Transaction { return r.materialized[date] }

// Spawns projects the schedule into spawn transactions through 'until'
// (clamped to the stop date), skipping suppressed and materialized
// occurrences. Regenerating over overlapping ranges is idempotent: a date's
// disposition never depends on the queried range.
func (r *Recurrence) Spawns(until Date) []*Transaction {
	end := until
	if !r.stop.IsZero() && r.stop.Before(end) {
		end = r.stop
	}
	var spawns []*Transaction
	incsize := 0
	for {
		date, ok := incDate(r.ref.date, r.repeat, incsize)
		incsize += r.every
		if !ok {
			continue
		}
		if date.After(end) {
			break
		}
		if r.suppressed[date] || r.materialized[date] != nil {
			continue
		}
		spawn := r.ref.copy()
		spawn.scheduleID = r.id
		spawn.recurrenceDate = date
		spawn.date = date
		spawn.position = 0
		spawns = append(spawns, spawn)
	}
	return spawns
}

// DeleteAt suppresses the occurrence at that date.
func (r *Recurrence) DeleteAt(date Date) {
	r.suppressed[date] = true
	delete(r.materialized, date)
}

// Materialize records the real transaction standing in for the occurrence.
// The date never spawns again; the transaction itself lives in the
// document's transaction list.
func (r *Recurrence) Materialize(date Date, txn *Transaction) {
	delete(r.suppressed, date)
	r.materialized[date] = txn
}

// forgetMaterialized drops the binding to a deleted real transaction,
// leaving the occurrence suppressed so it does not resurface as a spawn.
func (r *Recurrence) forgetMaterialized(txn *Transaction) {
	for d, t := range r.materialized {
		if t == txn {
			delete(r.materialized, d)
			r.suppressed[d] = true
		}
	}
}

// Truncate stops the series the day before the occurrence: the global-scope
// deletion. Exceptions at unaffected dates stay intact.
func (r *Recurrence) Truncate(occurrence Date) {
	r.stop = occurrence.Add(-1)
}

// ChangeGlobally rewrites the reference template from an edited spawn. The
// date component only moves the series when the edited occurrence is the
// series start; otherwise it is ignored, so the occurrence grid and the
// recorded exceptions stay aligned. Materialized transactions whose content
// still equals the previous projection are rewritten too; diverged ones are
// left alone.
func (r *Recurrence) ChangeGlobally(edited *Transaction) {
	prev := r.ref.copy()
	if edited.recurrenceDate == r.ref.date && edited.date != r.ref.date {
		r.ref.date = edited.date
	}
	r.ref.description = edited.description
	r.ref.payee = edited.payee
	r.ref.checkno = edited.checkno
	r.ref.notes = edited.notes
	r.ref.splits = make([]*Split, len(edited.splits))
	for i, s := range edited.splits {
		r.ref.splits[i] = s.copy()
	}
	r.ref.mtime = time.Now()
	r.propagateToMaterialized(prev)
}

// propagateToMaterialized pushes the new template onto materialized
// transactions that still carried the previous one.
func (r *Recurrence) propagateToMaterialized(prev *Transaction) {
	for date, txn := range r.materialized {
		proj := prev.copy()
		proj.date = date
		if !txn.equalContent(proj) {
			continue
		}
		txn.description = r.ref.description
		txn.payee = r.ref.payee
		txn.checkno = r.ref.checkno
		txn.notes = r.ref.notes
		if len(txn.splits) == len(r.ref.splits) {
			for i, s := range txn.splits {
				s.setAccount(r.ref.splits[i].account)
				s.setAmount(r.ref.splits[i].amount)
			}
		} else {
			txn.splits = make([]*Split, len(r.ref.splits))
			for i, s := range r.ref.splits {
				txn.splits[i] = s.copy()
			}
		}
		txn.mtime = time.Now()
	}
}

// Change reconfigures the schedule: template content and start date come
// from 'newRef', the rule and stop date are set as given, then the
// schedule normalizes. Materialized transactions are not touched; that is
// ChangeGlobally's job.
func (r *Recurrence) Change(newRef *Transaction, repeat RepeatType, every int, stop Date) {
	r.ref.date = newRef.date
	r.ref.description = newRef.description
	r.ref.payee = newRef.payee
	r.ref.checkno = newRef.checkno
	r.ref.notes = newRef.notes
	r.ref.splits = make([]*Split, len(newRef.splits))
	for i, s := range newRef.splits {
		r.ref.splits[i] = s.copy()
	}
	r.ref.mtime = time.Now()
	r.repeat = repeat
	r.every = every
	r.stop = stop
	r.UpdateRef()
}

// UpdateRef normalizes the schedule: the start advances past suppressed
// leading occurrences, and exceptions before the start are dropped.
// Exceptions beyond the stop date are kept; they matter again if the stop
// date moves back out.
func (r *Recurrence) UpdateRef() {
	for r.suppressed[r.ref.date] {
		delete(r.suppressed, r.ref.date)
		next, ok := incDate(r.ref.date, r.repeat, r.every)
		if !ok {
			break
		}
		r.ref.date = next
	}
	for date := range r.suppressed {
		if date.Before(r.ref.date) {
			delete(r.suppressed, date)
		}
	}
	for date := range r.materialized {
		if date.Before(r.ref.date) {
			delete(r.materialized, date)
		}
	}
}

// AffectedAccounts returns the accounts referenced by the template.
func (r *Recurrence) AffectedAccounts() []*Account {
	return r.ref.AffectedAccounts()
}

// ReassignAccount rewrites the template splits sitting on 'from'.
func (r *Recurrence) ReassignAccount(from, to *Account) {
	r.ref.ReassignAccount(from, to)
}

// replicate copies the schedule state of 'other' into r: rule, stop date,
// exceptions, and the template content (into the same ref pointer). The id
// is left alone.
func (r *Recurrence) replicate(other *Recurrence) {
	r.repeat = other.repeat
	r.every = other.every
	r.stop = other.stop
	r.ref.replicate(other.ref)
	r.suppressed = maps.Clone(other.suppressed)
	r.materialized = maps.Clone(other.materialized)
}

// copy returns a detached replica of the schedule, sharing the materialized
// transaction pointers (those are identity-held by the document).
func (r *Recurrence) copy() *Recurrence {
	c := &Recurrence{id: r.id, ref: &Transaction{}}
	c.replicate(r)
	return c
}

func (r *Recurrence) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", r.id)
	w.Append("ref", r.ref)
	w.Append("repeat", r.repeat)
	w.Append("every", r.every)
	if !r.stop.IsZero() {
		w.Append("stop", r.stop)
	}
	if len(r.suppressed) > 0 {
		w.Append("suppressed", sortedDates(r.suppressed))
	}
	if len(r.materialized) > 0 {
		var dates []Date
		for d := range r.materialized {
			dates = append(dates, d)
		}
		sortDates(dates)
		w.Append("materialized", dates)
	}
	return w.MarshalJSON()
}

func sortedDates(set map[Date]bool) []Date {
	dates := make([]Date, 0, len(set))
	for d := range set {
		dates = append(dates, d)
	}
	sortDates(dates)
	return dates
}

func sortDates(dates []Date) {
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
}

// ScheduleList is the id-indexed registry of a document's schedules. Spawn
// transactions carry their schedule id and are resolved through it.
type ScheduleList struct {
	schedules []*Recurrence
	idCounter int64
}

// NewScheduleList returns a new empty schedule registry.
func NewScheduleList() *ScheduleList {
	return &ScheduleList{schedules: make([]*Recurrence, 0)}
}

func (l *ScheduleList) Len() int { return len(l.schedules) }

// Add registers the schedule, assigning a fresh id unless it carries one.
func (l *ScheduleList) Add(s *Recurrence) *Recurrence {
	if s.id == 0 {
		l.idCounter++
		s.id = l.idCounter
	} else if s.id > l.idCounter {
		l.idCounter = s.id
	}
	l.schedules = append(l.schedules, s)
	return s
}

func (l *ScheduleList) Remove(s *Recurrence) {
	for i, x := range l.schedules {
		if x == s {
			l.schedules = append(l.schedules[:i], l.schedules[i+1:]...)
			return
		}
	}
}

func (l *ScheduleList) Contains(s *Recurrence) bool {
	for _, x := range l.schedules {
		if x == s {
			return true
		}
	}
	return false
}

// Get resolves a schedule id; it returns nil for unknown ids.
func (l *ScheduleList) Get(id int64) *Recurrence {
	for _, s := range l.schedules {
		if s.id == id {
			return s
		}
	}
	return nil
}

// Schedules yields schedules in creation order.
func (l *ScheduleList) Schedules() iter.Seq[*Recurrence] {
	return func(yield func(*Recurrence) bool) {
		for _, s := range l.schedules {
			if !yield(s) {
				return
			}
		}
	}
}
