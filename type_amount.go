package moneyguru

import (
	"encoding/json"
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Amount represents an exact monetary value tagged with a currency code.
//
// Only the zero Amount is currency-agnostic: it compares equal to a zero
// Amount of any currency and adopts the other operand's currency in
// arithmetic. Any other cross-currency arithmetic fails with
// ErrCurrencyMismatch.
type Amount struct {
	value decimal.Decimal // in major units
	cur   string
}

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

func A[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Amount {
	return Amount{value: newDecimal(value), cur: currency}
}

// ParseAmount parses a decimal string into an Amount of the given currency.
func ParseAmount(str, currency string) (Amount, error) {
	value, err := decimal.NewFromString(str)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", str, err)
	}
	return Amount{value: value, cur: currency}, nil
}

// functions that require the full currency

// currency returns the amount's currency metadata.
func (a Amount) currency() money.Currency {
	// to get a never nil currency we go through the Money constructor
	return *money.New(0, a.cur).Currency()
}

// String returns the string representation of the amount.
func (a Amount) String() string {
	cur := a.currency()
	dec := a.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// SignedString is like String with an explicit sign, and "-" for zero.
func (a Amount) SignedString() string {
	if a.value.IsZero() {
		return "-"
	}
	if a.value.IsPositive() {
		return "+" + a.String()
	}
	return a.String()
}

func (a Amount) Currency() string { return a.cur }
func (a Amount) IsZero() bool     { return a.value.IsZero() }
func (a Amount) IsPositive() bool { return a.value.IsPositive() }
func (a Amount) IsNegative() bool { return a.value.IsNegative() }
func (a Amount) Sign() int        { return a.value.Sign() }
func (a Amount) Neg() Amount      { return Amount{value: a.value.Neg(), cur: a.cur} }
func (a Amount) Abs() Amount      { return Amount{value: a.value.Abs(), cur: a.cur} }

// Equal reports whether two amounts have the same value and currency.
// All zero amounts are equal, whatever currency they are tagged with.
func (a Amount) Equal(b Amount) bool {
	if a.value.IsZero() && b.value.IsZero() {
		return true
	}
	return a.value.Equal(b.value) && a.cur == b.cur
}

// SameCurrency reports whether the two amounts can take part in the same
// arithmetic: same currency, or at least one of them zero.
func (a Amount) SameCurrency(b Amount) bool {
	_, err := mergeCurrency(a, b)
	return err == nil
}

// mergeCurrency resolves the currency of a binary operation. A zero operand
// (or an empty currency tag) is weak and adopts the other side.
func mergeCurrency(a, b Amount) (string, error) {
	acur, bcur := a.cur, b.cur
	if a.value.IsZero() {
		acur = ""
	}
	if b.value.IsZero() {
		bcur = ""
	}
	switch {
	case acur == "":
		if bcur == "" {
			// keep whatever tag is around, for zero results
			if a.cur != "" {
				return a.cur, nil
			}
			return b.cur, nil
		}
		return bcur, nil
	case bcur == "":
		return acur, nil
	case acur != bcur:
		return "", fmt.Errorf("%w: %s != %s", ErrCurrencyMismatch, acur, bcur)
	default:
		return acur, nil
	}
}

// binary operators.

// Add returns a+b. Non-zero operands must share a currency.
func (a Amount) Add(b Amount) (Amount, error) {
	cur, err := mergeCurrency(a, b)
	if err != nil {
		return Amount{}, err
	}
	return Amount{value: a.value.Add(b.value), cur: cur}, nil
}

// Sub returns a-b. Non-zero operands must share a currency.
func (a Amount) Sub(b Amount) (Amount, error) {
	cur, err := mergeCurrency(a, b)
	if err != nil {
		return Amount{}, err
	}
	return Amount{value: a.value.Sub(b.value), cur: cur}, nil
}

// Mul multiplies by a plain number, rounded to the currency's exponent.
func (a Amount) Mul(n decimal.Decimal) Amount {
	return Amount{value: a.value.Mul(n).Round(int32(a.currency().Fraction)), cur: a.cur}
}

// Div divides by a plain number, rounded to the currency's exponent.
func (a Amount) Div(n decimal.Decimal) Amount {
	return Amount{value: a.value.DivRound(n, int32(a.currency().Fraction)), cur: a.cur}
}

// DivAmount divides two amounts of the same currency into a dimensionless
// ratio.
func (a Amount) DivAmount(b Amount) (decimal.Decimal, error) {
	if _, err := mergeCurrency(a, b); err != nil {
		return decimal.Decimal{}, err
	}
	return a.value.Div(b.value), nil
}

// addRaw accumulates the numeric value of b into a, whatever currency b
// carries. It backs the running-balance accumulation, where mixed-currency
// entries on one account add up under the account's own currency tag.
func (a Amount) addRaw(b Amount) Amount {
	cur := a.cur
	if cur == "" {
		cur = b.cur
	}
	return Amount{value: a.value.Add(b.value), cur: cur}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("currency", a.cur)
	w.Append("amount", a.value.Round(int32(a.currency().Fraction)))
	return w.MarshalJSON()
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var ja struct {
		Currency string          `json:"currency"`
		Value    decimal.Decimal `json:"amount"`
	}
	if err := json.Unmarshal(data, &ja); err != nil {
		return fmt.Errorf("invalid amount %q: %w", string(data), err)
	}
	a.cur = ja.Currency
	a.value = ja.Value
	return nil
}
