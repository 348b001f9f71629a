// Package rates stores daily exchange rates in a SQLite database and serves
// them to the ledger engine through the moneyguru.RateProvider interface.
//
// Rates are kept as the value of one unit of a currency in the base
// currency, one row per day. A lookup picks the nearest day at or before the
// requested one, then the nearest day after, and finally falls back to a
// rate of 1, so multi-currency balancing always resolves.
package rates

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/addone/moneyguru"
)

// DefaultBase is the currency the stored daily values are denominated in.
// The base only anchors SetRate: exchange rates come out as ratios of two
// stored values, so any consistent base yields the same conversions.
const DefaultBase = "USD"

const schema = `
-- Daily value of one unit of a currency, in the base currency.
CREATE TABLE IF NOT EXISTS rates (
    date     TEXT NOT NULL, -- YYYY-MM-DD
    currency TEXT NOT NULL, -- ISO 4217 code
    rate     TEXT NOT NULL, -- decimal string, exact
    PRIMARY KEY (date, currency)
);

CREATE INDEX IF NOT EXISTS idx_rates_currency_date
    ON rates(currency, date);
`

// DB is a SQLite-backed rate store. It is safe for concurrent lookups.
type DB struct {
	db   *sql.DB
	base string

	mu    sync.Mutex
	cache map[cacheKey]decimal.Decimal
}

type cacheKey struct {
	on       moneyguru.Date
	currency string
}

var _ moneyguru.RateProvider = (*DB)(nil)

// Open opens (or creates) the rate database at path. Use ":memory:" for an
// ephemeral store.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("rates: cannot open database %q: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("rates: cannot reach database %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("rates: cannot initialize schema: %w", err)
	}
	return &DB{
		db:    db,
		base:  DefaultBase,
		cache: make(map[cacheKey]decimal.Decimal),
	}, nil
}

func (r *DB) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Base returns the base currency of the stored values.
func (r *DB) Base() string { return r.base }

// SetRate records the value of one unit of the currency in the base
// currency on the given day, replacing any previous value for that day.
func (r *DB) SetRate(on moneyguru.Date, currency string, value decimal.Decimal) error {
	if on.IsZero() {
		return fmt.Errorf("rates: cannot set a rate on the zero date")
	}
	_, err := r.db.Exec(
		`INSERT OR REPLACE INTO rates (date, currency, rate) VALUES (?, ?, ?)`,
		on.String(), currency, value.String(),
	)
	if err != nil {
		return fmt.Errorf("rates: cannot store rate for %s on %s: %w", currency, on, err)
	}
	// a new value can shadow any fallback lookup, not just its own day
	r.mu.Lock()
	r.cache = make(map[cacheKey]decimal.Decimal)
	r.mu.Unlock()
	return nil
}

// GetRate returns the 'from' to 'to' conversion factor in effect on the
// given day. Unknown currencies convert at 1.
func (r *DB) GetRate(on moneyguru.Date, from, to string) (decimal.Decimal, error) {
	one := decimal.NewFromInt(1)
	if from == to {
		return one, nil
	}
	vfrom, okFrom, err := r.baseValue(on, from)
	if err != nil {
		return decimal.Decimal{}, err
	}
	vto, okTo, err := r.baseValue(on, to)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !okFrom || !okTo || vto.IsZero() {
		return one, nil
	}
	return vfrom.Div(vto), nil
}

// EnsureRates resolves the base values the given currencies will need on
// that day into the cache, so the per-split lookups that follow hit memory.
func (r *DB) EnsureRates(on moneyguru.Date, currencies []string) {
	for _, currency := range currencies {
		r.baseValue(on, currency)
	}
}

// DateRange returns the first and last day with a stored value for the
// currency, and whether there is any.
func (r *DB) DateRange(currency string) (first, last moneyguru.Date, ok bool) {
	var min, max sql.NullString
	err := r.db.QueryRow(
		`SELECT MIN(date), MAX(date) FROM rates WHERE currency = ?`, currency,
	).Scan(&min, &max)
	if err != nil || !min.Valid {
		return moneyguru.Date{}, moneyguru.Date{}, false
	}
	first, err = moneyguru.ParseDate(min.String)
	if err != nil {
		return moneyguru.Date{}, moneyguru.Date{}, false
	}
	last, err = moneyguru.ParseDate(max.String)
	if err != nil {
		return moneyguru.Date{}, moneyguru.Date{}, false
	}
	return first, last, true
}

// baseValue returns the stored value of one unit of the currency in the
// base currency, looking at the nearest day at or before 'on' first, then
// the nearest after.
func (r *DB) baseValue(on moneyguru.Date, currency string) (decimal.Decimal, bool, error) {
	if currency == r.base {
		return decimal.NewFromInt(1), true, nil
	}
	key := cacheKey{on: on, currency: currency}
	r.mu.Lock()
	if v, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return v, true, nil
	}
	r.mu.Unlock()

	var str string
	err := r.db.QueryRow(
		`SELECT rate FROM rates WHERE currency = ? AND date <= ? ORDER BY date DESC LIMIT 1`,
		currency, on.String(),
	).Scan(&str)
	if err == sql.ErrNoRows {
		err = r.db.QueryRow(
			`SELECT rate FROM rates WHERE currency = ? AND date > ? ORDER BY date ASC LIMIT 1`,
			currency, on.String(),
		).Scan(&str)
	}
	if err == sql.ErrNoRows {
		return decimal.Decimal{}, false, nil
	}
	if err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("rates: lookup for %s on %s failed: %w", currency, on, err)
	}
	value, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("rates: corrupt rate %q for %s: %w", str, currency, err)
	}
	r.mu.Lock()
	r.cache[key] = value
	r.mu.Unlock()
	return value, true, nil
}
