package entity

import (
	"strings"

	"github.com/shopspring/decimal"

	errs "github.com/ledgervault/ledgervault/internal/domain/error"
)

// Reminder is an upcoming payment owned by a user. It is created pending and
// transitions to paid exactly once, atomically coupled with the creation of a
// matching expense transaction (settlement).
type Reminder struct {
	ID       uint64
	UserID   uint64
	Title    string
	Amount   decimal.Decimal
	DueDate  string
	Category string
	Paid     bool
}

// Validate checks the reminder invariants: non-empty title, amount >= 0,
// well-formed due date
func (r *Reminder) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errs.NewValidationError("title", "must not be empty")
	}
	if r.Amount.IsNegative() {
		return errs.NewValidationError("amount", "must not be negative")
	}
	return ValidateDate("due_date", r.DueDate)
}
