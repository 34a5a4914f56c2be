package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ledgervault/ledgervault/internal/domain/entity"
	errs "github.com/ledgervault/ledgervault/internal/domain/error"
	"github.com/ledgervault/ledgervault/internal/domain/port/core"
	"github.com/ledgervault/ledgervault/internal/domain/port/persistence"
	"github.com/ledgervault/ledgervault/internal/domain/port/store"
	"github.com/ledgervault/ledgervault/internal/domain/usecase/aggregate"
	"github.com/ledgervault/ledgervault/internal/domain/usecase/session"
)

// DefaultTheme is used until the user picks one
const DefaultTheme = "dark"

// Facade is the single surface exposed to the presentation layer. It couples
// the gate's active session to every data operation so callers never pass a
// user id themselves, and it is the only path to stored data.
type Facade struct {
	gate       *session.Gate
	gateway    store.Gateway
	aggregates *aggregate.Engine
	blobs      persistence.BlobStore
	logger     core.Logger
}

// NewFacade assembles the application surface
func NewFacade(
	gate *session.Gate,
	gateway store.Gateway,
	aggregates *aggregate.Engine,
	blobs persistence.BlobStore,
	logger core.Logger,
) *Facade {
	return &Facade{
		gate:       gate,
		gateway:    gateway,
		aggregates: aggregates,
		blobs:      blobs,
		logger:     logger,
	}
}

// activeUser returns the signed-in account id. Data access requires an open,
// unlocked session; a locked session must pass its PIN first.
func (f *Facade) activeUser() (uint64, error) {
	if f.gate.State() == session.StateLocked {
		return 0, errs.ErrSessionLocked
	}
	userID, ok := f.gate.UserID()
	if !ok {
		return 0, errs.ErrInvalidCredentials
	}
	return userID, nil
}

// --- session ---

// Register creates an account and signs it in
func (f *Facade) Register(ctx context.Context, email, secret string, currency entity.Currency) (*entity.User, error) {
	return f.gate.Register(ctx, email, secret, currency)
}

// SignIn opens a session for existing credentials
func (f *Facade) SignIn(ctx context.Context, email, secret string) (*entity.User, error) {
	return f.gate.SignIn(ctx, email, secret)
}

// Resume restores the persisted session, possibly landing in the locked state
func (f *Facade) Resume(ctx context.Context) (session.State, error) {
	return f.gate.Resume(ctx)
}

// SubmitPin verifies or establishes the PIN for the active session
func (f *Facade) SubmitPin(ctx context.Context, pin string) (store.PinStatus, error) {
	return f.gate.SubmitPin(ctx, pin)
}

// ClearPin removes the active account's PIN
func (f *Facade) ClearPin(ctx context.Context) error {
	return f.gate.ClearPin(ctx)
}

// SignOut closes the session and forgets the persisted identity
func (f *Facade) SignOut() error {
	return f.gate.SignOut()
}

// SessionState returns the gate's current state
func (f *Facade) SessionState() session.State {
	return f.gate.State()
}

// CurrentUser returns the signed-in account record
func (f *Facade) CurrentUser(ctx context.Context) (*entity.User, error) {
	userID, err := f.activeUser()
	if err != nil {
		return nil, err
	}
	return f.gateway.GetUser(ctx, userID)
}

// SetCurrency changes the active account's preferred currency
func (f *Facade) SetCurrency(ctx context.Context, currency entity.Currency) error {
	userID, err := f.activeUser()
	if err != nil {
		return err
	}
	return f.gateway.SetCurrency(ctx, userID, currency)
}

// --- transactions ---

func (f *Facade) CreateTransaction(ctx context.Context, tx entity.Transaction) (uint64, error) {
	userID, err := f.activeUser()
	if err != nil {
		return 0, err
	}
	return f.gateway.CreateTransaction(ctx, userID, tx)
}

func (f *Facade) UpdateTransaction(ctx context.Context, id uint64, tx entity.Transaction) error {
	userID, err := f.activeUser()
	if err != nil {
		return err
	}
	return f.gateway.UpdateTransaction(ctx, userID, id, tx)
}

func (f *Facade) DeleteTransaction(ctx context.Context, id uint64) error {
	userID, err := f.activeUser()
	if err != nil {
		return err
	}
	return f.gateway.DeleteTransaction(ctx, userID, id)
}

func (f *Facade) ListTransactions(ctx context.Context, filter *store.TransactionFilter) ([]entity.Transaction, error) {
	userID, err := f.activeUser()
	if err != nil {
		return nil, err
	}
	return f.gateway.ListTransactions(ctx, userID, filter)
}

// --- budgets ---

func (f *Facade) CreateBudget(ctx context.Context, b entity.Budget) (uint64, error) {
	userID, err := f.activeUser()
	if err != nil {
		return 0, err
	}
	return f.gateway.CreateBudget(ctx, userID, b)
}

func (f *Facade) UpdateBudget(ctx context.Context, id uint64, b entity.Budget) error {
	userID, err := f.activeUser()
	if err != nil {
		return err
	}
	return f.gateway.UpdateBudget(ctx, userID, id, b)
}

func (f *Facade) DeleteBudget(ctx context.Context, id uint64) error {
	userID, err := f.activeUser()
	if err != nil {
		return err
	}
	return f.gateway.DeleteBudget(ctx, userID, id)
}

func (f *Facade) ListBudgets(ctx context.Context) ([]entity.Budget, error) {
	userID, err := f.activeUser()
	if err != nil {
		return nil, err
	}
	return f.gateway.ListBudgets(ctx, userID)
}

// --- reminders ---

func (f *Facade) CreateReminder(ctx context.Context, r entity.Reminder) (uint64, error) {
	userID, err := f.activeUser()
	if err != nil {
		return 0, err
	}
	return f.gateway.CreateReminder(ctx, userID, r)
}

func (f *Facade) UpdateReminder(ctx context.Context, id uint64, r entity.Reminder) error {
	userID, err := f.activeUser()
	if err != nil {
		return err
	}
	return f.gateway.UpdateReminder(ctx, userID, id, r)
}

func (f *Facade) DeleteReminder(ctx context.Context, id uint64) error {
	userID, err := f.activeUser()
	if err != nil {
		return err
	}
	return f.gateway.DeleteReminder(ctx, userID, id)
}

func (f *Facade) ListReminders(ctx context.Context, pendingOnly bool) ([]entity.Reminder, error) {
	userID, err := f.activeUser()
	if err != nil {
		return nil, err
	}
	return f.gateway.ListReminders(ctx, userID, pendingOnly)
}

// SettleReminder marks the reminder paid and records the matching expense
func (f *Facade) SettleReminder(ctx context.Context, reminderID uint64) (uint64, error) {
	userID, err := f.activeUser()
	if err != nil {
		return 0, err
	}
	return f.gateway.SettleReminder(ctx, userID, reminderID)
}

// --- aggregates ---

func (f *Facade) Totals(ctx context.Context) (aggregate.Totals, error) {
	userID, err := f.activeUser()
	if err != nil {
		return aggregate.Totals{}, err
	}
	return f.aggregates.Totals(ctx, userID)
}

func (f *Facade) CategoryBreakdown(ctx context.Context) ([]aggregate.CategorySlice, error) {
	userID, err := f.activeUser()
	if err != nil {
		return nil, err
	}
	return f.aggregates.CategoryBreakdown(ctx, userID)
}

func (f *Facade) MonthlyTrend(ctx context.Context, limit int) ([]aggregate.MonthBucket, error) {
	userID, err := f.activeUser()
	if err != nil {
		return nil, err
	}
	return f.aggregates.MonthlyTrend(ctx, userID, limit)
}

func (f *Facade) SafeToSpend(ctx context.Context) (decimal.Decimal, error) {
	userID, err := f.activeUser()
	if err != nil {
		return decimal.Zero, err
	}
	return f.aggregates.SafeToSpend(ctx, userID)
}

// --- maintenance and export ---

// PurgeAllData deletes every transaction, budget and reminder owned by the
// active account
func (f *Facade) PurgeAllData(ctx context.Context) error {
	userID, err := f.activeUser()
	if err != nil {
		return err
	}
	return f.gateway.PurgeAllUserData(ctx, userID)
}

// ExportSnapshot returns the raw database blob for external backup
func (f *Facade) ExportSnapshot(ctx context.Context) ([]byte, error) {
	if _, err := f.activeUser(); err != nil {
		return nil, err
	}
	return f.gateway.ExportSnapshot(ctx)
}

// ExportCSV renders the active account's filtered transactions as CSV
func (f *Facade) ExportCSV(ctx context.Context, filter *store.TransactionFilter) ([]byte, error) {
	userID, err := f.activeUser()
	if err != nil {
		return nil, err
	}
	return f.gateway.ExportCSV(ctx, userID, filter)
}

// --- theme ---

// Theme returns the stored theme preference, defaulting when unset
func (f *Facade) Theme() string {
	raw, ok, err := f.blobs.Get(persistence.KeyTheme)
	if err != nil || !ok || len(raw) == 0 {
		return DefaultTheme
	}
	return string(raw)
}

// SetTheme persists the theme preference
func (f *Facade) SetTheme(theme string) error {
	return f.blobs.Put(persistence.KeyTheme, []byte(theme))
}
