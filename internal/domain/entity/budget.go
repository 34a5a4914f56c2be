package entity

import (
	"strings"

	"github.com/shopspring/decimal"

	errs "github.com/ledgervault/ledgervault/internal/domain/error"
)

// DefaultBudgetPeriod is used when a budget is created without a period label
const DefaultBudgetPeriod = "monthly"

// Budget is a per-category spending limit owned by a user. Multiple budgets
// for the same category are allowed; editing-in-place is a UI convenience,
// not a storage constraint.
type Budget struct {
	ID       uint64
	UserID   uint64
	Category string
	Limit    decimal.Decimal
	Period   string
}

// Validate checks the budget invariants: non-empty category, limit > 0
func (b *Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return errs.NewValidationError("category", "must not be empty")
	}
	if !b.Limit.IsPositive() {
		return errs.NewValidationError("limit", "must be greater than zero")
	}
	return nil
}
