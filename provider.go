package moneyguru

import "github.com/shopspring/decimal"

// Scope is the answer to "does this edit apply to the whole schedule?",
// asked when a spawn or a materialized occurrence is edited or deleted.
type Scope int

const (
	// ScopeLocal confines the edit to the one occurrence.
	ScopeLocal Scope = iota
	// ScopeGlobal applies the edit to the schedule itself.
	ScopeGlobal
	// ScopeCancel aborts the operation before any mutation.
	ScopeCancel
)

func (s Scope) String() string {
	switch s {
	case ScopeLocal:
		return "local"
	case ScopeGlobal:
		return "global"
	case ScopeCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// A ScopeResolver decides the scope of an edit touching schedule spawns.
// Interactive frontends prompt the user; non-interactive ones answer a
// canned scope. The spawns argument carries the occurrences being edited,
// for display purposes.
type ScopeResolver interface {
	ResolveScope(spawns []*Transaction) Scope
}

// ScopeResolverFunc adapts a function to the ScopeResolver interface.
type ScopeResolverFunc func(spawns []*Transaction) Scope

func (f ScopeResolverFunc) ResolveScope(spawns []*Transaction) Scope { return f(spawns) }

// Canned resolvers for non-interactive use.
var (
	LocalScope  ScopeResolver = ScopeResolverFunc(func([]*Transaction) Scope { return ScopeLocal })
	GlobalScope ScopeResolver = ScopeResolverFunc(func([]*Transaction) Scope { return ScopeGlobal })
	CancelScope ScopeResolver = ScopeResolverFunc(func([]*Transaction) Scope { return ScopeCancel })
)

// A RateProvider answers exchange-rate lookups for multi-currency
// transactions. GetRate returns the 'from' to 'to' conversion factor in
// effect on the given day. EnsureRates announces the currencies a
// transaction needs on a day, letting the provider fetch or cache ahead of
// the lookups.
type RateProvider interface {
	GetRate(on Date, from, to string) (decimal.Decimal, error)
	EnsureRates(on Date, currencies []string)
}

// NullRateProvider converts everything at rate 1. It stands in when no
// rate database is wired, keeping multi-currency balancing deterministic.
type NullRateProvider struct{}

func (NullRateProvider) GetRate(Date, string, string) (decimal.Decimal, error) {
	return decimal.NewFromInt(1), nil
}

func (NullRateProvider) EnsureRates(Date, []string) {}

// ConvertAmount re-denominates the amount into the target currency at the
// provider's rate for that day. Amounts already in the target currency, and
// zero amounts, pass through untouched.
func ConvertAmount(a Amount, target string, on Date, rates RateProvider) (Amount, error) {
	if a.IsZero() || a.Currency() == target {
		return a, nil
	}
	rate, err := rates.GetRate(on, a.Currency(), target)
	if err != nil {
		return Amount{}, err
	}
	// re-tag, then Mul rounds to the target currency's exponent
	return A(a.value, target).Mul(rate), nil
}
