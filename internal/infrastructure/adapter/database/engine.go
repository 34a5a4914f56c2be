package database

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	coreport "github.com/ledgervault/ledgervault/internal/domain/port/core"
)

// imageHeader prefixes every valid database image
var imageHeader = []byte("SQLite format 3\x00")

// memoryDSN keeps the whole database on a single in-memory connection.
// Foreign keys are enforced; the engine has no durable form of its own —
// durability comes from the snapshot adapter.
const memoryDSN = "file::memory:?_foreign_keys=on"

// Engine owns the in-memory relational engine. The connection pool is pinned
// to exactly one connection: an in-memory sqlite database lives and dies with
// its connection, and the store's concurrency model is a single writer
// sequenced per call anyway.
type Engine struct {
	db     *gorm.DB
	sqlDB  *sql.DB
	logger coreport.Logger
}

// NewEngine opens a fresh, empty in-memory engine
func NewEngine(logger coreport.Logger, logLevel string) (*Engine, error) {
	db, err := gorm.Open(sqlite.Open(memoryDSN), &gorm.Config{
		Logger: NewDatabaseLogger(logger, logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory engine: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get engine connection: %w", err)
	}

	// One connection, kept forever. A second connection would see a
	// different (empty) memory database.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	// A never-written database owns no pages and cannot be serialized, so
	// force the allocation of page 1 before anyone asks for a dump. The
	// table itself does not survive; the page does.
	if err := db.Exec("CREATE TABLE IF NOT EXISTS _bootstrap (id INTEGER)").Error; err != nil {
		return nil, fmt.Errorf("failed to prime engine storage: %w", err)
	}
	if err := db.Exec("DROP TABLE _bootstrap").Error; err != nil {
		return nil, fmt.Errorf("failed to prime engine storage: %w", err)
	}

	logger.Info("In-memory relational engine opened", map[string]any{
		"dsn": memoryDSN,
	})

	return &Engine{db: db, sqlDB: sqlDB, logger: logger}, nil
}

// DB exposes the gorm handle to the gateway layer
func (e *Engine) DB() *gorm.DB {
	return e.db
}

// withRawConn runs fn against the underlying sqlite driver connection
func (e *Engine) withRawConn(ctx context.Context, fn func(*sqlite3.SQLiteConn) error) error {
	conn, err := e.sqlDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire engine connection: %w", err)
	}
	defer conn.Close()

	return conn.Raw(func(driverConn any) error {
		sc, ok := driverConn.(*sqlite3.SQLiteConn)
		if !ok {
			return fmt.Errorf("unexpected driver connection type %T", driverConn)
		}
		return fn(sc)
	})
}

// Serialize dumps the entire database into its native binary image
func (e *Engine) Serialize(ctx context.Context) ([]byte, error) {
	var out []byte
	err := e.withRawConn(ctx, func(sc *sqlite3.SQLiteConn) error {
		data, err := sc.Serialize("main")
		if err != nil {
			return err
		}
		// the returned slice aliases sqlite-owned memory
		out = append([]byte(nil), data...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize engine: %w", err)
	}
	return out, nil
}

// Restore replaces the entire database state with a previous binary image.
// The image header is verified first: handing a non-database buffer to the
// engine leaves the pinned connection unusable, which would take every later
// restore down with it. A well-formed header with corrupt pages behind it
// still deserializes; callers decide validity via Check afterwards.
func (e *Engine) Restore(ctx context.Context, data []byte) error {
	if !bytes.HasPrefix(data, imageHeader) {
		return fmt.Errorf("failed to restore engine: not a database image")
	}
	err := e.withRawConn(ctx, func(sc *sqlite3.SQLiteConn) error {
		return sc.Deserialize(data, "main")
	})
	if err != nil {
		return fmt.Errorf("failed to restore engine: %w", err)
	}
	return nil
}

// Check probes the database for structural integrity. It fails when the
// restored image was not a valid database.
func (e *Engine) Check(ctx context.Context) error {
	var result string
	if err := e.db.WithContext(ctx).Raw("PRAGMA quick_check").Scan(&result).Error; err != nil {
		return fmt.Errorf("integrity probe failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity probe reported: %s", result)
	}
	return nil
}

// Close tears down the engine and its single connection
func (e *Engine) Close() error {
	e.logger.Info("Closing in-memory relational engine", nil)
	return e.sqlDB.Close()
}
