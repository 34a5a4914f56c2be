package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	errs "github.com/ledgervault/ledgervault/internal/domain/error"
	coreport "github.com/ledgervault/ledgervault/internal/domain/port/core"
	"github.com/ledgervault/ledgervault/internal/domain/port/persistence"
	"github.com/ledgervault/ledgervault/internal/domain/port/store"
	"github.com/ledgervault/ledgervault/internal/infrastructure/adapter/model"
)

// Gateway is the sole component that constructs and executes statements
// against the relational engine. Every statement goes through gorm parameter
// binding; user-supplied values never reach query text. All operations are
// sequenced through one mutex: the store is a single global critical section
// entered and exited per call, and a mutating call only returns after its
// snapshot save completed.
type Gateway struct {
	db           *gorm.DB
	snapshots    persistence.SnapshotManager
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	bcryptCost   int

	mu sync.Mutex
}

// compile-time contract check
var _ store.Gateway = (*Gateway)(nil)

// NewGateway creates the query gateway over an initialized engine
func NewGateway(
	db *gorm.DB,
	snapshots persistence.SnapshotManager,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	bcryptCost int,
) *Gateway {
	return &Gateway{
		db:           db,
		snapshots:    snapshots,
		timeProvider: timeProvider,
		logger:       logger,
		bcryptCost:   bcryptCost,
	}
}

// runTx executes fn inside an engine transaction. Multiple writes issued by
// one logical operation land in one transaction and later coalesce into one
// snapshot save.
func (g *Gateway) runTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

// commit makes the in-memory mutation durable. If the save fails, the
// in-memory state is rolled back to the last saved snapshot so memory and
// durable storage never diverge, and the operation reports failure.
func (g *Gateway) commit(ctx context.Context, operation string) error {
	if err := g.snapshots.Save(ctx); err != nil {
		g.logger.Error("Snapshot save failed, rolling back in-memory state", map[string]any{
			"operation": operation,
			"error":     err.Error(),
		})
		if rbErr := g.snapshots.Rollback(ctx); rbErr != nil {
			g.logger.Error("Rollback after failed save also failed", map[string]any{
				"operation": operation,
				"error":     rbErr.Error(),
			})
		}
		return errs.NewStorageError(operation, err)
	}
	return nil
}

// mapEngineError converts engine-level failures into the domain taxonomy
func mapEngineError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.ErrNotFound
	case isUniqueViolation(err):
		return errs.ErrDuplicateIdentity
	case errors.Is(err, errs.ErrInvalidInput),
		errors.Is(err, errs.ErrNotFound),
		errors.Is(err, errs.ErrDuplicateIdentity),
		errors.Is(err, errs.ErrInvalidCredentials),
		errors.Is(err, errs.ErrPinRejected):
		return err
	default:
		return errors.Join(errs.ErrInternal, err)
	}
}

// isUniqueViolation detects sqlite unique constraint failures
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// escapeLike neutralizes LIKE wildcards in user-entered search text
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// ExportSnapshot returns the raw database blob for user-initiated backup
func (g *Gateway) ExportSnapshot(ctx context.Context) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshots.Export(ctx)
}

// PurgeAllUserData deletes every transaction, budget and reminder owned by
// the user. The three deletions form one atomic set: they share a single
// engine transaction and a single snapshot save.
func (g *Gateway) PurgeAllUserData(ctx context.Context, userID uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	err := g.runTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Budget{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&model.Reminder{}).Error
	})
	if err != nil {
		return mapEngineError(err)
	}

	g.logger.Info("Purged all user data", map[string]any{
		"user_id": userID,
	})
	return g.commit(ctx, "purgeAllUserData")
}
