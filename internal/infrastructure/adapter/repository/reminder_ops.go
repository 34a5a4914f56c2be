package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ledgervault/ledgervault/internal/domain/entity"
	errs "github.com/ledgervault/ledgervault/internal/domain/error"
	"github.com/ledgervault/ledgervault/internal/infrastructure/adapter/model"
)

// CreateReminder records a pending payment reminder and returns its id
func (g *Gateway) CreateReminder(ctx context.Context, userID uint64, r entity.Reminder) (uint64, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	m := model.ReminderFromEntity(userID, r)
	m.ID = 0
	m.IsPaid = false
	err := g.runTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(m).Error
	})
	if err != nil {
		return 0, mapEngineError(err)
	}
	if err := g.commit(ctx, "createReminder"); err != nil {
		return 0, err
	}
	return m.ID, nil
}

// UpdateReminder replaces the editable fields of a reminder owned by the
// user. The paid flag is not editable here; it only changes via settlement.
func (g *Gateway) UpdateReminder(ctx context.Context, userID, id uint64, r entity.Reminder) error {
	if err := r.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	var rows int64
	err := g.runTx(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&model.Reminder{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(map[string]any{
				"title":    r.Title,
				"amount":   r.Amount,
				"due_date": r.DueDate,
				"category": r.Category,
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
	return g.commit(ctx, "updateReminder")
}

// DeleteReminder removes a reminder; absent or foreign ids are a no-op
// success
func (g *Gateway) DeleteReminder(ctx context.Context, userID, id uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var rows int64
	err := g.runTx(ctx, func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Reminder{})
		rows = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return mapEngineError(err)
	}
	if rows == 0 {
		return nil
	}
	return g.commit(ctx, "deleteReminder")
}

// ListReminders returns the user's reminders ordered by due date ascending;
// pendingOnly drops already-paid ones
func (g *Gateway) ListReminders(ctx context.Context, userID uint64, pendingOnly bool) ([]entity.Reminder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	q := g.db.WithContext(ctx).Where("user_id = ?", userID)
	if pendingOnly {
		q = q.Where("is_paid = ?", false)
	}

	var models []model.Reminder
	if err := q.Order("due_date ASC, id ASC").Find(&models).Error; err != nil {
		return nil, mapEngineError(err)
	}

	out := make([]entity.Reminder, 0, len(models))
	for i := range models {
		out = append(out, models[i].ToEntity())
	}
	return out, nil
}

// SettleReminder marks the reminder paid and records a matching expense
// transaction dated today, with the amount and category copied over and a
// note referencing the title. Both writes share one engine transaction and
// one snapshot save: either both become durable or neither does. The copied
// amount is exempt from the positive-amount rule of user-entered
// transactions: a zero-amount reminder settles into a zero-amount expense,
// keeping the ledger and the reminder history in agreement.
func (g *Gateway) SettleReminder(ctx context.Context, userID, reminderID uint64) (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var newTxID uint64
	err := g.runTx(ctx, func(tx *gorm.DB) error {
		var rem model.Reminder
		if err := tx.Where("id = ? AND user_id = ?", reminderID, userID).First(&rem).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrNotFound
			}
			return err
		}
		if rem.IsPaid {
			return errs.NewValidationError("reminder", "already settled")
		}

		if err := tx.Model(&rem).Update("is_paid", true).Error; err != nil {
			return err
		}

		expense := &model.Transaction{
			UserID:      userID,
			Amount:      rem.Amount,
			Kind:        string(entity.KindExpense),
			Category:    rem.Category,
			Date:        g.timeProvider.Today(),
			Description: "Settled: " + rem.Title,
		}
		if err := tx.Create(expense).Error; err != nil {
			return err
		}
		newTxID = expense.ID
		return nil
	})
	if err != nil {
		return 0, mapEngineError(err)
	}

	if err := g.commit(ctx, "settleReminder"); err != nil {
		return 0, err
	}

	g.logger.Info("Reminder settled", map[string]any{
		"user_id":        userID,
		"reminder_id":    reminderID,
		"transaction_id": newTxID,
	})
	return newTxID, nil
}
