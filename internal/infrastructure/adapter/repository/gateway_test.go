package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ledgervault/ledgervault/internal/domain/entity"
	errs "github.com/ledgervault/ledgervault/internal/domain/error"
	"github.com/ledgervault/ledgervault/internal/domain/port/persistence"
	"github.com/ledgervault/ledgervault/internal/infrastructure/adapter/database"
	"github.com/ledgervault/ledgervault/internal/infrastructure/adapter/kvstore"
	"github.com/ledgervault/ledgervault/internal/infrastructure/adapter/logger"
	"github.com/ledgervault/ledgervault/internal/infrastructure/adapter/snapshot"
	timeProvider "github.com/ledgervault/ledgervault/internal/infrastructure/adapter/time"
)

// fixedNow pins every test to one clock so settlement dates are predictable
var fixedNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

// flakyStore wraps a real blob store and fails writes on demand, for
// exercising the save-failure rollback path
type flakyStore struct {
	persistence.BlobStore
	failPuts bool
}

func (s *flakyStore) Put(key string, data []byte) error {
	if s.failPuts {
		return errors.New("simulated backing store write failure")
	}
	return s.BlobStore.Put(key, data)
}

type testEnv struct {
	gateway *Gateway
	engine  *database.Engine
	flaky   *flakyStore
	schema  *database.SchemaManager
}

// newTestEnv brings up the full stack over dir: file-backed blob store,
// in-memory engine, snapshot adapter and gateway. Reusing the same dir
// across envs models an application restart.
func newTestEnv(t *testing.T, dir string) *testEnv {
	t.Helper()

	log := logger.NewNoopLogger()

	fileStore, err := kvstore.NewFileStore(dir, log)
	require.NoError(t, err)
	flaky := &flakyStore{BlobStore: fileStore}

	engine, err := database.NewEngine(log, "error")
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })

	snaps := snapshot.NewAdapter(engine, flaky, log)
	require.NoError(t, snaps.Load(context.Background()))

	schema := database.NewSchemaManager(engine.DB(), log)
	require.NoError(t, schema.Ensure())
	require.NoError(t, snaps.Save(context.Background()))

	tp := timeProvider.NewFixedTimeProvider(fixedNow)
	gw := NewGateway(engine.DB(), snaps, tp, log, bcrypt.MinCost)

	return &testEnv{gateway: gw, engine: engine, flaky: flaky, schema: schema}
}

// registerUser is a shorthand for tests that just need an account
func registerUser(t *testing.T, env *testEnv, email string) uint64 {
	t.Helper()
	u, err := env.gateway.RegisterUser(context.Background(), email, "secret123", "")
	require.NoError(t, err)
	return u.ID
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDurabilityRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	env := newTestEnv(t, dir)
	userID := registerUser(t, env, "a@example.com")

	txID, err := env.gateway.CreateTransaction(ctx, userID, entity.Transaction{
		Amount:   amount("42.50"),
		Kind:     entity.KindExpense,
		Category: "Food",
		Date:     "2024-03-15",
	})
	require.NoError(t, err)
	require.NoError(t, env.engine.Close())

	// a second stack over the same directory models a restart
	reborn := newTestEnv(t, dir)

	user, err := reborn.gateway.Authenticate(ctx, "a@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)

	list, err := reborn.gateway.ListTransactions(ctx, userID, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, txID, list[0].ID)
	assert.True(t, list[0].Amount.Equal(amount("42.50")), "amount = %s", list[0].Amount)
	assert.Equal(t, entity.KindExpense, list[0].Kind)
	assert.Equal(t, "Food", list[0].Category)
	assert.Equal(t, "2024-03-15", list[0].Date)
}

func TestIdempotentSchemaInit(t *testing.T) {
	env := newTestEnv(t, t.TempDir())
	userID := registerUser(t, env, "a@example.com")

	// a second init on a live store must not lose data or duplicate tables
	require.NoError(t, env.schema.Ensure())
	require.NoError(t, env.schema.Verify())

	_, err := env.gateway.GetUser(context.Background(), userID)
	assert.NoError(t, err)
}

func TestCorruptSnapshotStartsFresh(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	env := newTestEnv(t, dir)
	registerUser(t, env, "a@example.com")
	require.NoError(t, env.engine.Close())

	log := logger.NewNoopLogger()
	fileStore, err := kvstore.NewFileStore(dir, log)
	require.NoError(t, err)
	require.NoError(t, fileStore.Put(persistence.KeySnapshot, []byte("definitely not a database")))

	reborn := newTestEnv(t, dir)
	_, err = reborn.gateway.Authenticate(ctx, "a@example.com", "secret123")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials, "corrupt snapshot should yield an empty store")
}

func TestPurgeAllUserData(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, t.TempDir())
	userA := registerUser(t, env, "a@example.com")
	userB := registerUser(t, env, "b@example.com")

	for _, u := range []uint64{userA, userB} {
		_, err := env.gateway.CreateTransaction(ctx, u, entity.Transaction{
			Amount: amount("10"), Kind: entity.KindExpense, Category: "Food", Date: "2024-03-01",
		})
		require.NoError(t, err)
		_, err = env.gateway.CreateBudget(ctx, u, entity.Budget{Category: "Food", Limit: amount("100")})
		require.NoError(t, err)
		_, err = env.gateway.CreateReminder(ctx, u, entity.Reminder{Title: "Rent", Amount: amount("500"), DueDate: "2024-04-01", Category: "Bills"})
		require.NoError(t, err)
	}

	require.NoError(t, env.gateway.PurgeAllUserData(ctx, userA))

	txs, err := env.gateway.ListTransactions(ctx, userA, nil)
	require.NoError(t, err)
	assert.Empty(t, txs)
	budgets, err := env.gateway.ListBudgets(ctx, userA)
	require.NoError(t, err)
	assert.Empty(t, budgets)
	reminders, err := env.gateway.ListReminders(ctx, userA, false)
	require.NoError(t, err)
	assert.Empty(t, reminders)

	// the account itself and the other user's data survive
	_, err = env.gateway.GetUser(ctx, userA)
	assert.NoError(t, err)
	txs, err = env.gateway.ListTransactions(ctx, userB, nil)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestExportSnapshotIsValidImage(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, t.TempDir())
	registerUser(t, env, "a@example.com")

	blob, err := env.gateway.ExportSnapshot(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, blob)
	// native sqlite dump format
	assert.Equal(t, "SQLite format 3\x00", string(blob[:16]))
}
