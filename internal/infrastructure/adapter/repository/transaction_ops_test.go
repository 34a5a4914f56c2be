package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgervault/ledgervault/internal/domain/entity"
	errs "github.com/ledgervault/ledgervault/internal/domain/error"
	"github.com/ledgervault/ledgervault/internal/domain/port/store"
)

func TestTransactionCRUD(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, t.TempDir())
	userID := registerUser(t, env, "a@example.com")

	t.Run("create and list", func(t *testing.T) {
		id, err := env.gateway.CreateTransaction(ctx, userID, entity.Transaction{
			Amount:   amount("42.50"),
			Kind:     entity.KindExpense,
			Category: "Food",
			Date:     "2024-03-15",
			Note:     "groceries",
		})
		require.NoError(t, err)
		assert.NotZero(t, id)

		list, err := env.gateway.ListTransactions(ctx, userID, nil)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "groceries", list[0].Note)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		cases := map[string]entity.Transaction{
			"zero amount":      {Amount: amount("0"), Kind: entity.KindExpense, Category: "Food", Date: "2024-03-15"},
			"negative amount":  {Amount: amount("-5"), Kind: entity.KindExpense, Category: "Food", Date: "2024-03-15"},
			"bad kind":         {Amount: amount("5"), Kind: "transfer", Category: "Food", Date: "2024-03-15"},
			"empty category":   {Amount: amount("5"), Kind: entity.KindExpense, Category: "", Date: "2024-03-15"},
			"malformed date":   {Amount: amount("5"), Kind: entity.KindExpense, Category: "Food", Date: "15/03/2024"},
			"incomplete date":  {Amount: amount("5"), Kind: entity.KindExpense, Category: "Food", Date: "2024-03"},
			"impossible date":  {Amount: amount("5"), Kind: entity.KindExpense, Category: "Food", Date: "2024-13-45"},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := env.gateway.CreateTransaction(ctx, userID, tc)
				assert.ErrorIs(t, err, errs.ErrInvalidInput)
			})
		}
	})

	t.Run("update replaces fields", func(t *testing.T) {
		id, err := env.gateway.CreateTransaction(ctx, userID, entity.Transaction{
			Amount: amount("10"), Kind: entity.KindExpense, Category: "Food", Date: "2024-03-01",
		})
		require.NoError(t, err)

		err = env.gateway.UpdateTransaction(ctx, userID, id, entity.Transaction{
			Amount: amount("12.75"), Kind: entity.KindIncome, Category: "Gift", Date: "2024-03-02",
			Recurring: true, RecurringFrequency: "monthly",
		})
		require.NoError(t, err)

		list, err := env.gateway.ListTransactions(ctx, userID, &store.TransactionFilter{Category: "Gift"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.True(t, list[0].Amount.Equal(amount("12.75")))
		assert.Equal(t, entity.KindIncome, list[0].Kind)
		assert.True(t, list[0].Recurring)
		assert.Equal(t, "monthly", list[0].RecurringFrequency)
	})

	t.Run("update of absent id", func(t *testing.T) {
		err := env.gateway.UpdateTransaction(ctx, userID, 9999, entity.Transaction{
			Amount: amount("1"), Kind: entity.KindExpense, Category: "Food", Date: "2024-03-01",
		})
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		id, err := env.gateway.CreateTransaction(ctx, userID, entity.Transaction{
			Amount: amount("1"), Kind: entity.KindExpense, Category: "Food", Date: "2024-03-01",
		})
		require.NoError(t, err)

		require.NoError(t, env.gateway.DeleteTransaction(ctx, userID, id))
		require.NoError(t, env.gateway.DeleteTransaction(ctx, userID, id))
		require.NoError(t, env.gateway.DeleteTransaction(ctx, userID, 9999))
	})
}

func TestListTransactionsOrderingAndFilters(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, t.TempDir())
	userID := registerUser(t, env, "a@example.com")

	seed := []entity.Transaction{
		{Amount: amount("100"), Kind: entity.KindIncome, Category: "Salary", Date: "2024-01-31", Note: "january pay"},
		{Amount: amount("30"), Kind: entity.KindExpense, Category: "Food", Date: "2024-02-10", Note: "lunch"},
		{Amount: amount("50"), Kind: entity.KindExpense, Category: "Travel", Date: "2024-02-10", Note: "train ticket"},
		{Amount: amount("20"), Kind: entity.KindExpense, Category: "Food", Date: "2024-03-05"},
	}
	for _, tr := range seed {
		_, err := env.gateway.CreateTransaction(ctx, userID, tr)
		require.NoError(t, err)
	}

	t.Run("date descending, insertion order breaks ties", func(t *testing.T) {
		list, err := env.gateway.ListTransactions(ctx, userID, nil)
		require.NoError(t, err)
		require.Len(t, list, 4)
		assert.Equal(t, "2024-03-05", list[0].Date)
		// both 2024-02-10 rows: the later insertion first
		assert.Equal(t, "Travel", list[1].Category)
		assert.Equal(t, "Food", list[2].Category)
		assert.Equal(t, "2024-01-31", list[3].Date)
	})

	t.Run("filter by kind", func(t *testing.T) {
		list, err := env.gateway.ListTransactions(ctx, userID, &store.TransactionFilter{Kind: entity.KindIncome})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Salary", list[0].Category)
	})

	t.Run("filter by category and month", func(t *testing.T) {
		list, err := env.gateway.ListTransactions(ctx, userID, &store.TransactionFilter{
			Category: "Food", Month: "2024-02",
		})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "lunch", list[0].Note)
	})

	t.Run("search matches note and category", func(t *testing.T) {
		list, err := env.gateway.ListTransactions(ctx, userID, &store.TransactionFilter{Search: "ticket"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Travel", list[0].Category)

		list, err = env.gateway.ListTransactions(ctx, userID, &store.TransactionFilter{Search: "Trav"})
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("search wildcards are literal", func(t *testing.T) {
		list, err := env.gateway.ListTransactions(ctx, userID, &store.TransactionFilter{Search: "%"})
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestOwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, t.TempDir())
	userA := registerUser(t, env, "a@example.com")
	userB := registerUser(t, env, "b@example.com")

	txID, err := env.gateway.CreateTransaction(ctx, userA, entity.Transaction{
		Amount: amount("10"), Kind: entity.KindExpense, Category: "Food", Date: "2024-03-01",
	})
	require.NoError(t, err)
	budgetID, err := env.gateway.CreateBudget(ctx, userA, entity.Budget{Category: "Food", Limit: amount("100")})
	require.NoError(t, err)
	reminderID, err := env.gateway.CreateReminder(ctx, userA, entity.Reminder{
		Title: "Rent", Amount: amount("500"), DueDate: "2024-04-01", Category: "Bills",
	})
	require.NoError(t, err)

	t.Run("reads are scoped out", func(t *testing.T) {
		list, err := env.gateway.ListTransactions(ctx, userB, nil)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("updates on foreign rows fail", func(t *testing.T) {
		err := env.gateway.UpdateTransaction(ctx, userB, txID, entity.Transaction{
			Amount: amount("1"), Kind: entity.KindExpense, Category: "Food", Date: "2024-03-01",
		})
		assert.ErrorIs(t, err, errs.ErrNotFound)

		err = env.gateway.UpdateBudget(ctx, userB, budgetID, entity.Budget{Category: "Food", Limit: amount("1")})
		assert.ErrorIs(t, err, errs.ErrNotFound)

		err = env.gateway.UpdateReminder(ctx, userB, reminderID, entity.Reminder{
			Title: "Hijack", Amount: amount("1"), DueDate: "2024-04-01", Category: "Bills",
		})
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("settling a foreign reminder fails", func(t *testing.T) {
		_, err := env.gateway.SettleReminder(ctx, userB, reminderID)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("deletes on foreign rows are no-ops that change nothing", func(t *testing.T) {
		require.NoError(t, env.gateway.DeleteTransaction(ctx, userB, txID))
		require.NoError(t, env.gateway.DeleteBudget(ctx, userB, budgetID))
		require.NoError(t, env.gateway.DeleteReminder(ctx, userB, reminderID))

		list, err := env.gateway.ListTransactions(ctx, userA, nil)
		require.NoError(t, err)
		assert.Len(t, list, 1)
		budgets, err := env.gateway.ListBudgets(ctx, userA)
		require.NoError(t, err)
		assert.Len(t, budgets, 1)
		reminders, err := env.gateway.ListReminders(ctx, userA, false)
		require.NoError(t, err)
		assert.Len(t, reminders, 1)
	})
}

func TestInjectionSafety(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, t.TempDir())
	userID := registerUser(t, env, "a@example.com")

	hostile := `O'Brien's Bills`
	_, err := env.gateway.CreateTransaction(ctx, userID, entity.Transaction{
		Amount: amount("10"), Kind: entity.KindExpense, Category: hostile, Date: "2024-03-01",
		Note: `note with "quotes" and '; DROP TABLE transactions; --`,
	})
	require.NoError(t, err)
	_, err = env.gateway.CreateTransaction(ctx, userID, entity.Transaction{
		Amount: amount("5"), Kind: entity.KindExpense, Category: "Food", Date: "2024-03-02",
	})
	require.NoError(t, err)

	list, err := env.gateway.ListTransactions(ctx, userID, nil)
	require.NoError(t, err)
	require.Len(t, list, 2, "other rows must survive hostile values")

	list, err = env.gateway.ListTransactions(ctx, userID, &store.TransactionFilter{Category: hostile})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, hostile, list[0].Category)
	assert.Equal(t, `note with "quotes" and '; DROP TABLE transactions; --`, list[0].Note)

	list, err = env.gateway.ListTransactions(ctx, userID, &store.TransactionFilter{Search: "O'Brien"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
