package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ledgervault/ledgervault/internal/domain/entity"
	errs "github.com/ledgervault/ledgervault/internal/domain/error"
	"github.com/ledgervault/ledgervault/internal/infrastructure/adapter/model"
)

// CreateBudget records a spending threshold for the user and returns its id.
// No uniqueness applies to (user, category): multiple budgets per category
// are allowed.
func (g *Gateway) CreateBudget(ctx context.Context, userID uint64, b entity.Budget) (uint64, error) {
	if b.Period == "" {
		b.Period = entity.DefaultBudgetPeriod
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	m := model.BudgetFromEntity(userID, b)
	m.ID = 0
	err := g.runTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(m).Error
	})
	if err != nil {
		return 0, mapEngineError(err)
	}
	if err := g.commit(ctx, "createBudget"); err != nil {
		return 0, err
	}
	return m.ID, nil
}

// UpdateBudget replaces the mutable fields of a budget owned by the user
func (g *Gateway) UpdateBudget(ctx context.Context, userID, id uint64, b entity.Budget) error {
	if b.Period == "" {
		b.Period = entity.DefaultBudgetPeriod
	}
	if err := b.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	var rows int64
	err := g.runTx(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&model.Budget{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(map[string]any{
				"category":     b.Category,
				"amount_limit": b.Limit,
				"period":       b.Period,
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
	return g.commit(ctx, "updateBudget")
}

// DeleteBudget removes a budget; absent or foreign ids are a no-op success
func (g *Gateway) DeleteBudget(ctx context.Context, userID, id uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var rows int64
	err := g.runTx(ctx, func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Budget{})
		rows = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return mapEngineError(err)
	}
	if rows == 0 {
		return nil
	}
	return g.commit(ctx, "deleteBudget")
}

// ListBudgets returns every budget owned by the user in insertion order
func (g *Gateway) ListBudgets(ctx context.Context, userID uint64) ([]entity.Budget, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.listBudgets(ctx, userID)
}

// listBudgets is the lock-free inner read shared with aggregation callers
func (g *Gateway) listBudgets(ctx context.Context, userID uint64) ([]entity.Budget, error) {
	var models []model.Budget
	if err := g.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, mapEngineError(err)
	}

	out := make([]entity.Budget, 0, len(models))
	for i := range models {
		out = append(out, models[i].ToEntity())
	}
	return out, nil
}
