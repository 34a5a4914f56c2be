package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ledgervault/ledgervault/internal/app"
	"github.com/ledgervault/ledgervault/internal/domain/usecase/aggregate"
	"github.com/ledgervault/ledgervault/internal/domain/usecase/session"
	"github.com/ledgervault/ledgervault/internal/infrastructure/adapter/database"
	"github.com/ledgervault/ledgervault/internal/infrastructure/adapter/kvstore"
	"github.com/ledgervault/ledgervault/internal/infrastructure/adapter/logger"
	"github.com/ledgervault/ledgervault/internal/infrastructure/adapter/repository"
	"github.com/ledgervault/ledgervault/internal/infrastructure/adapter/snapshot"
	timeProvider "github.com/ledgervault/ledgervault/internal/infrastructure/adapter/time"
	"github.com/ledgervault/ledgervault/internal/infrastructure/config"
)

func main() {
	exportBackup := flag.Bool("export-backup", false, "write the full store snapshot to the backup file and exit")
	exportCSV := flag.Bool("export-csv", false, "write the resumed user's transactions as CSV and exit")
	outDir := flag.String("out", ".", "directory for exported files")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create logger
	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)
	appLogger.SetLevel(logger.ParseLevel(cfg.Logger.Level))
	defer func() { _ = appLogger.Flush() }()

	// Open the backing key-value store
	blobs, err := kvstore.NewFileStore(cfg.Store.DataDir, appLogger)
	if err != nil {
		appLogger.Error("Failed to open backing store", map[string]any{
			"dir":   cfg.Store.DataDir,
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Bring up the in-memory relational engine
	engine, err := database.NewEngine(appLogger, cfg.Logger.Level)
	if err != nil {
		appLogger.Error("Failed to initialize engine", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() { _ = engine.Close() }()

	ctx := context.Background()

	// Restore the persisted snapshot, then make sure the schema exists on
	// whatever state came back (empty, restored, or reset after corruption)
	snapshots := snapshot.NewAdapter(engine, blobs, appLogger)
	if err := snapshots.Load(ctx); err != nil {
		appLogger.Error("Failed to load snapshot", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	schemaMgr := database.NewSchemaManager(engine.DB(), appLogger)
	if err := schemaMgr.Ensure(); err != nil {
		appLogger.Error("Failed to initialize schema", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Persist the post-migration image so the first rollback point already
	// carries the schema
	if err := snapshots.Save(ctx); err != nil {
		appLogger.Error("Failed to persist initial snapshot", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Initialize time provider and assemble the application surface
	tp := timeProvider.NewRealTimeProvider()
	gateway := repository.NewGateway(engine.DB(), snapshots, tp, appLogger, cfg.Store.BcryptCost)
	aggregates := aggregate.NewEngine(gateway, tp)
	gate := session.NewGate(gateway, blobs, appLogger)
	facade := app.NewFacade(gate, gateway, aggregates, blobs, appLogger)

	state, err := facade.Resume(ctx)
	if err != nil {
		appLogger.Error("Failed to resume session", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	switch {
	case *exportBackup:
		if err := writeBackup(ctx, gateway, filepath.Join(*outDir, cfg.Export.BackupFile)); err != nil {
			appLogger.Error("Backup export failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	case *exportCSV:
		if err := writeCSV(ctx, facade, state, filepath.Join(*outDir, cfg.Export.CSVFile)); err != nil {
			appLogger.Error("CSV export failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	default:
		appLogger.Info("Store ready", map[string]any{
			"env":     cfg.Environment,
			"dataDir": blobs.Dir(),
			"session": string(state),
			"theme":   facade.Theme(),
		})
	}
}

// writeBackup dumps the full engine snapshot. The backup is whole-store, so
// it does not need an open session.
func writeBackup(ctx context.Context, gateway *repository.Gateway, path string) error {
	blob, err := gateway.ExportSnapshot(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, blob, 0o600); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bytes)\n", path, len(blob))
	return nil
}

// writeCSV exports the resumed user's full transaction history. A locked or
// absent session cannot export.
func writeCSV(ctx context.Context, facade *app.Facade, state session.State, path string) error {
	if state != session.StateAuthenticated {
		return fmt.Errorf("csv export needs an open session, current state is %q", state)
	}
	data, err := facade.ExportCSV(ctx, nil)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bytes)\n", path, len(data))
	return nil
}
