package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ledgervault/ledgervault/internal/domain/entity"
	errs "github.com/ledgervault/ledgervault/internal/domain/error"
	"github.com/ledgervault/ledgervault/internal/domain/port/store"
	"github.com/ledgervault/ledgervault/internal/infrastructure/adapter/model"
)

// CreateTransaction records a ledger entry for the user and returns its id
func (g *Gateway) CreateTransaction(ctx context.Context, userID uint64, t entity.Transaction) (uint64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	m := model.TransactionFromEntity(userID, t)
	m.ID = 0
	err := g.runTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(m).Error
	})
	if err != nil {
		return 0, mapEngineError(err)
	}
	if err := g.commit(ctx, "createTransaction"); err != nil {
		return 0, err
	}

	g.logger.Debug("Transaction created", map[string]any{
		"user_id": userID,
		"id":      m.ID,
		"kind":    m.Kind,
	})
	return m.ID, nil
}

// UpdateTransaction replaces the mutable fields of a transaction. Ownership
// is part of the lookup predicate: a row belonging to another user is simply
// not found.
func (g *Gateway) UpdateTransaction(ctx context.Context, userID, id uint64, t entity.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	var rows int64
	err := g.runTx(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&model.Transaction{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(map[string]any{
				"amount":              t.Amount,
				"type":                string(t.Kind),
				"category":            t.Category,
				"date":                t.Date,
				"description":         t.Note,
				"is_recurring":        t.Recurring,
				"recurring_frequency": t.RecurringFrequency,
			})
		rows = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return mapEngineError(err)
	}
	if rows == 0 {
		return errs.ErrNotFound
	}
	return g.commit(ctx, "updateTransaction")
}

// DeleteTransaction removes a transaction. Deleting an absent or foreign id
// is a no-op success.
func (g *Gateway) DeleteTransaction(ctx context.Context, userID, id uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var rows int64
	err := g.runTx(ctx, func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Transaction{})
		rows = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return mapEngineError(err)
	}
	if rows == 0 {
		return nil
	}
	return g.commit(ctx, "deleteTransaction")
}

// applyTransactionFilter narrows a scoped query; every value is bound
func applyTransactionFilter(q *gorm.DB, f *store.TransactionFilter) *gorm.DB {
	if f == nil {
		return q
	}
	if f.Kind != "" {
		q = q.Where("type = ?", string(f.Kind))
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Month != "" {
		q = q.Where("date LIKE ?", f.Month+"-%")
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(f.Search) + "%"
		q = q.Where(`description LIKE ? ESCAPE '\' OR category LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	return q
}

// ListTransactions returns the user's transactions ordered by date
// descending, ties broken by id descending (newest insertion first)
func (g *Gateway) ListTransactions(ctx context.Context, userID uint64, filter *store.TransactionFilter) ([]entity.Transaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.listTransactions(ctx, userID, filter)
}

// listTransactions is the lock-free inner read shared with the CSV exporter
func (g *Gateway) listTransactions(ctx context.Context, userID uint64, filter *store.TransactionFilter) ([]entity.Transaction, error) {
	var models []model.Transaction
	q := g.db.WithContext(ctx).Where("user_id = ?", userID)
	q = applyTransactionFilter(q, filter)
	if err := q.Order("date DESC, id DESC").Find(&models).Error; err != nil {
		return nil, mapEngineError(err)
	}

	out := make([]entity.Transaction, 0, len(models))
	for i := range models {
		out = append(out, models[i].ToEntity())
	}
	return out, nil
}
