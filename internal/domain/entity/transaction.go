package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	errs "github.com/ledgervault/ledgervault/internal/domain/error"
)

// Kind classifies a transaction as money in or money out. Amounts are stored
// as non-negative magnitudes; the kind carries the sign.
type Kind string

// Allowed transaction kinds
const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether the kind is one of the two allowed values
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// ISODate is the calendar date layout used throughout the store (no time
// component, matching the persisted TEXT representation)
const ISODate = "2006-01-02"

// Recommended category sets offered by the UI. Storage does not constrain
// categories beyond non-empty, so these are suggestions only.
var (
	IncomeCategories  = []string{"Salary", "Freelance", "Investment", "Gift", "Other"}
	ExpenseCategories = []string{"Fees", "Bills", "EMIs", "Investments", "Insurance", "Shopping", "Health", "Food", "Travel", "Other"}
)

// Transaction is a single ledger entry owned by a user
type Transaction struct {
	ID                 uint64
	UserID             uint64
	Amount             decimal.Decimal
	Kind               Kind
	Category           string
	Date               string
	Note               string
	Recurring          bool
	RecurringFrequency string
}

// Month returns the YYYY-MM bucket of the transaction date
func (t *Transaction) Month() string {
	if len(t.Date) < 7 {
		return t.Date
	}
	return t.Date[:7]
}

// ValidateDate checks that a date is a well-formed ISO calendar date
func ValidateDate(field, date string) error {
	if date == "" {
		return errs.NewValidationError(field, "must not be empty")
	}
	if _, err := time.Parse(ISODate, date); err != nil {
		return errs.NewValidationError(field, "must be an ISO date (YYYY-MM-DD)")
	}
	return nil
}

// Validate checks the transaction invariants: positive amount, known kind,
// non-empty category, well-formed date. The positive-amount rule covers
// user-entered transactions only; settling a zero-amount reminder records a
// zero-amount expense without passing through here.
func (t *Transaction) Validate() error {
	if !t.Amount.IsPositive() {
		return errs.NewValidationError("amount", "must be greater than zero")
	}
	if !t.Kind.Valid() {
		return errs.NewValidationError("kind", "must be income or expense")
	}
	if strings.TrimSpace(t.Category) == "" {
		return errs.NewValidationError("category", "must not be empty")
	}
	return ValidateDate("date", t.Date)
}
