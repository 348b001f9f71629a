package moneyguru

import (
	"errors"
	"fmt"

	"github.com/Rhymond/go-money"
)

// Error taxonomy for mutation entry points.
//
// Aborted means the user cancelled the scope prompt before any state change;
// callers are expected to swallow it. CurrencyMismatch is arithmetic between
// non-zero amounts of different currencies. Validation covers every
// precondition failure (duplicate account name, currency change on a
// reconciled account, malformed repeat configuration); it is always checked
// before mutating, so a failed call leaves the document untouched.
// Programming errors (a spawn without its owning schedule) panic instead.
var (
	ErrAborted          = errors.New("operation aborted")
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrValidation       = errors.New("validation failed")
)

// validationf builds a Validation error with a formatted detail message.
func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// validateCurrency rejects currency codes missing from the ISO table.
func validateCurrency(code string) error {
	if money.GetCurrency(code) == nil {
		return validationf("unknown currency %q", code)
	}
	return nil
}
