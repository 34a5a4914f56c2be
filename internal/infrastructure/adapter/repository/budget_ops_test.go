package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgervault/ledgervault/internal/domain/entity"
	errs "github.com/ledgervault/ledgervault/internal/domain/error"
)

func TestBudgetCRUD(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, t.TempDir())
	userID := registerUser(t, env, "a@example.com")

	t.Run("create fills the default period", func(t *testing.T) {
		id, err := env.gateway.CreateBudget(ctx, userID, entity.Budget{
			Category: "Food", Limit: amount("300"),
		})
		require.NoError(t, err)
		assert.NotZero(t, id)

		budgets, err := env.gateway.ListBudgets(ctx, userID)
		require.NoError(t, err)
		require.Len(t, budgets, 1)
		assert.Equal(t, entity.DefaultBudgetPeriod, budgets[0].Period)
	})

	t.Run("multiple budgets per category are permitted", func(t *testing.T) {
		_, err := env.gateway.CreateBudget(ctx, userID, entity.Budget{
			Category: "Food", Limit: amount("150"),
		})
		require.NoError(t, err)

		budgets, err := env.gateway.ListBudgets(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, budgets, 2)
	})

	t.Run("rejects non-positive limits", func(t *testing.T) {
		_, err := env.gateway.CreateBudget(ctx, userID, entity.Budget{Category: "Food", Limit: amount("0")})
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
		_, err = env.gateway.CreateBudget(ctx, userID, entity.Budget{Category: "Food", Limit: amount("-10")})
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("update and delete", func(t *testing.T) {
		id, err := env.gateway.CreateBudget(ctx, userID, entity.Budget{
			Category: "Travel", Limit: amount("100"),
		})
		require.NoError(t, err)

		require.NoError(t, env.gateway.UpdateBudget(ctx, userID, id, entity.Budget{
			Category: "Travel", Limit: amount("120"),
		}))
		assert.ErrorIs(t, env.gateway.UpdateBudget(ctx, userID, 9999, entity.Budget{
			Category: "Travel", Limit: amount("120"),
		}), errs.ErrNotFound)

		require.NoError(t, env.gateway.DeleteBudget(ctx, userID, id))
		// idempotent
		require.NoError(t, env.gateway.DeleteBudget(ctx, userID, id))
	})
}
