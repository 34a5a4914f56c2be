package database

import (
	"fmt"

	"gorm.io/gorm"

	errs "github.com/ledgervault/ledgervault/internal/domain/error"
	coreport "github.com/ledgervault/ledgervault/internal/domain/port/core"
	"github.com/ledgervault/ledgervault/internal/infrastructure/adapter/model"
)

// SchemaManager owns the table definitions of the store. The persisted blob
// carries no schema version tag, so Ensure is written to tolerate drift: it
// creates what is absent and adds missing columns additively, and never drops
// or rewrites existing data.
type SchemaManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewSchemaManager creates a new schema manager for the engine
func NewSchemaManager(db *gorm.DB, logger coreport.Logger) *SchemaManager {
	return &SchemaManager{db: db, logger: logger}
}

// managedModels lists every table of the store, in dependency order
func managedModels() []any {
	return []any{
		&model.User{},
		&model.Transaction{},
		&model.Budget{},
		&model.Reminder{},
	}
}

// Ensure creates the users, transactions, budgets and reminders tables if
// absent, with primary keys, user foreign keys and the kind CHECK constraint.
// It is safe to call on every startup and after every snapshot load. Failure
// is fatal for the store: callers must not proceed on error.
func (m *SchemaManager) Ensure() error {
	m.logger.Info("Ensuring store schema", map[string]any{
		"tables": []string{"users", "transactions", "budgets", "reminders"},
	})

	if err := m.db.AutoMigrate(managedModels()...); err != nil {
		m.logger.Error("Schema initialization failed", map[string]any{
			"error": err.Error(),
		})
		return fmt.Errorf("%w: %v", errs.ErrSchemaInit, err)
	}

	return nil
}

// Verify reports whether every managed table exists, without mutating
// anything. Used by tests and health probes.
func (m *SchemaManager) Verify() error {
	migrator := m.db.Migrator()
	for _, mdl := range managedModels() {
		if !migrator.HasTable(mdl) {
			return fmt.Errorf("%w: missing table for %T", errs.ErrSchemaInit, mdl)
		}
	}
	return nil
}
