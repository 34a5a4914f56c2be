package store

import (
	"context"

	"github.com/ledgervault/ledgervault/internal/domain/entity"
)

// PinStatus is the outcome of a successful VerifyOrSetPin call
type PinStatus string

const (
	// PinEstablished means no PIN existed and the submitted one was stored
	PinEstablished PinStatus = "established"
	// PinAccepted means the submitted PIN matched the stored one
	PinAccepted PinStatus = "accepted"
)

// TransactionFilter narrows ListTransactions and ExportCSV. Zero-valued
// fields are ignored.
type TransactionFilter struct {
	Kind     entity.Kind
	Category string
	// Month restricts to a YYYY-MM calendar month
	Month string
	// Search matches a substring of the note or the category
	Search string
}

// Gateway is the sole entry point for all data access. Every operation takes
// the authenticated user id and scopes reads and writes to rows owned by it;
// every statement issued underneath uses parameter binding. Mutating
// operations return only after their durable snapshot save completed.
type Gateway interface {
	// RegisterUser creates an account. An empty currency selects the default.
	RegisterUser(ctx context.Context, email, secret string, currency entity.Currency) (*entity.User, error)
	// Authenticate verifies credentials and returns the account record
	Authenticate(ctx context.Context, email, secret string) (*entity.User, error)
	// GetUser returns the account record by id
	GetUser(ctx context.Context, userID uint64) (*entity.User, error)
	// VerifyOrSetPin establishes the PIN when none is set, otherwise compares
	VerifyOrSetPin(ctx context.Context, userID uint64, pin string) (PinStatus, error)
	// ClearPin removes the PIN; clearing an absent PIN is a no-op
	ClearPin(ctx context.Context, userID uint64) error
	// SetCurrency changes the account's preferred currency
	SetCurrency(ctx context.Context, userID uint64, currency entity.Currency) error

	CreateTransaction(ctx context.Context, userID uint64, tx entity.Transaction) (uint64, error)
	UpdateTransaction(ctx context.Context, userID, id uint64, tx entity.Transaction) error
	// DeleteTransaction is idempotent: deleting an absent or foreign id is a
	// no-op success
	DeleteTransaction(ctx context.Context, userID, id uint64) error
	// ListTransactions returns the user's transactions ordered by date
	// descending, ties broken by id descending
	ListTransactions(ctx context.Context, userID uint64, filter *TransactionFilter) ([]entity.Transaction, error)

	CreateBudget(ctx context.Context, userID uint64, b entity.Budget) (uint64, error)
	UpdateBudget(ctx context.Context, userID, id uint64, b entity.Budget) error
	DeleteBudget(ctx context.Context, userID, id uint64) error
	ListBudgets(ctx context.Context, userID uint64) ([]entity.Budget, error)

	CreateReminder(ctx context.Context, userID uint64, r entity.Reminder) (uint64, error)
	UpdateReminder(ctx context.Context, userID, id uint64, r entity.Reminder) error
	DeleteReminder(ctx context.Context, userID, id uint64) error
	// ListReminders returns the user's reminders ordered by due date
	// ascending; pendingOnly drops already-paid ones
	ListReminders(ctx context.Context, userID uint64, pendingOnly bool) ([]entity.Reminder, error)
	// SettleReminder marks the reminder paid and records a matching expense
	// transaction dated today, atomically. It returns the new transaction id.
	SettleReminder(ctx context.Context, userID, reminderID uint64) (uint64, error)

	// PurgeAllUserData deletes every transaction, budget and reminder owned
	// by the user as one atomic set
	PurgeAllUserData(ctx context.Context, userID uint64) error

	// ExportSnapshot returns the raw database blob for user-initiated backup
	ExportSnapshot(ctx context.Context) ([]byte, error)
	// ExportCSV renders the filtered transactions as RFC 4180 CSV
	ExportCSV(ctx context.Context, userID uint64, filter *TransactionFilter) ([]byte, error)
}
