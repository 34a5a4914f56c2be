package aggregate

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ledgervault/ledgervault/internal/domain/entity"
	coreport "github.com/ledgervault/ledgervault/internal/domain/port/core"
	"github.com/ledgervault/ledgervault/internal/domain/port/store"
)

// DefaultTrendMonths is how many trailing month buckets the trend keeps
const DefaultTrendMonths = 6

// palette is the fixed color cycle for category slices, assigned by rank
var palette = []string{
	"#6366f1", "#a855f7", "#ec4899", "#f43f5e", "#f97316",
	"#eab308", "#22c55e", "#06b6d4", "#3b82f6",
}

// Totals are the headline figures for a user's ledger
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// CategorySlice is one category's summed expenses plus its display color
type CategorySlice struct {
	Name  string
	Total decimal.Decimal
	Color string
}

// MonthBucket is one calendar month's income and expense sums
type MonthBucket struct {
	// Month in YYYY-MM form
	Month   string
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Reader is the gateway read path the engine computes from. Derived views
// are pure functions of stored state; nothing here mutates.
type Reader interface {
	ListTransactions(ctx context.Context, userID uint64, filter *store.TransactionFilter) ([]entity.Transaction, error)
	ListBudgets(ctx context.Context, userID uint64) ([]entity.Budget, error)
}

// Engine computes derived aggregate views over a user's transactions
type Engine struct {
	reader       Reader
	timeProvider coreport.TimeProvider
}

// NewEngine creates an aggregation engine over the gateway read path
func NewEngine(reader Reader, timeProvider coreport.TimeProvider) *Engine {
	return &Engine{reader: reader, timeProvider: timeProvider}
}

// Totals returns income sum, expense sum and their balance
func (e *Engine) Totals(ctx context.Context, userID uint64) (Totals, error) {
	transactions, err := e.reader.ListTransactions(ctx, userID, nil)
	if err != nil {
		return Totals{}, err
	}
	return ComputeTotals(transactions), nil
}

// CategoryBreakdown returns expense sums per category, largest first
func (e *Engine) CategoryBreakdown(ctx context.Context, userID uint64) ([]CategorySlice, error) {
	transactions, err := e.reader.ListTransactions(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	return ComputeCategoryBreakdown(transactions), nil
}

// MonthlyTrend returns per-month income/expense buckets in ascending
// chronological order, keeping only the most recent limit buckets
func (e *Engine) MonthlyTrend(ctx context.Context, userID uint64, limit int) ([]MonthBucket, error) {
	transactions, err := e.reader.ListTransactions(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	return ComputeMonthlyTrend(transactions, limit), nil
}

// SafeToSpend returns the balance minus the unspent portion of this month's
// committed budget limits, floored at zero
func (e *Engine) SafeToSpend(ctx context.Context, userID uint64) (decimal.Decimal, error) {
	transactions, err := e.reader.ListTransactions(ctx, userID, nil)
	if err != nil {
		return decimal.Zero, err
	}
	budgets, err := e.reader.ListBudgets(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return ComputeSafeToSpend(transactions, budgets, e.timeProvider.CurrentMonth()), nil
}

// ComputeTotals sums income and expenses; balance is income minus expense
func ComputeTotals(transactions []entity.Transaction) Totals {
	t := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, tx := range transactions {
		switch tx.Kind {
		case entity.KindIncome:
			t.Income = t.Income.Add(tx.Amount)
		case entity.KindExpense:
			t.Expense = t.Expense.Add(tx.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expense)
	return t
}

// ComputeCategoryBreakdown sums expense rows per category, ordered
// descending by sum (category name breaks ties deterministically) and colors
// each slice by cycling the palette by rank
func ComputeCategoryBreakdown(transactions []entity.Transaction) []CategorySlice {
	sums := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		if tx.Kind != entity.KindExpense {
			continue
		}
		sums[tx.Category] = sums[tx.Category].Add(tx.Amount)
	}

	out := make([]CategorySlice, 0, len(sums))
	for name, total := range sums {
		out = append(out, CategorySlice{Name: name, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Name < out[j].Name
	})
	for i := range out {
		out[i].Color = palette[i%len(palette)]
	}
	return out
}

// ComputeMonthlyTrend groups by calendar month ascending and keeps the last
// limit buckets; a user with a long history sees their most recent months,
// not their first ones
func ComputeMonthlyTrend(transactions []entity.Transaction, limit int) []MonthBucket {
	if limit <= 0 {
		limit = DefaultTrendMonths
	}

	byMonth := make(map[string]*MonthBucket)
	for _, tx := range transactions {
		month := tx.Month()
		bucket, ok := byMonth[month]
		if !ok {
			bucket = &MonthBucket{Month: month, Income: decimal.Zero, Expense: decimal.Zero}
			byMonth[month] = bucket
		}
		switch tx.Kind {
		case entity.KindIncome:
			bucket.Income = bucket.Income.Add(tx.Amount)
		case entity.KindExpense:
			bucket.Expense = bucket.Expense.Add(tx.Amount)
		}
	}

	out := make([]MonthBucket, 0, len(byMonth))
	for _, b := range byMonth {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })

	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// ComputeSafeToSpend applies the headroom formula: the unspent part of the
// total committed budget limits for the current month is reserved, and only
// the balance beyond it counts as safe
func ComputeSafeToSpend(transactions []entity.Transaction, budgets []entity.Budget, currentMonth string) decimal.Decimal {
	totalLimits := decimal.Zero
	budgeted := make(map[string]bool)
	for _, b := range budgets {
		totalLimits = totalLimits.Add(b.Limit)
		budgeted[b.Category] = true
	}

	spent := decimal.Zero
	for _, tx := range transactions {
		if tx.Kind == entity.KindExpense && tx.Month() == currentMonth && budgeted[tx.Category] {
			spent = spent.Add(tx.Amount)
		}
	}

	remaining := totalLimits.Sub(spent)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	safe := ComputeTotals(transactions).Balance.Sub(remaining)
	if safe.IsNegative() {
		return decimal.Zero
	}
	return safe
}
