package snapshot

import (
	"context"
	"fmt"

	coreport "github.com/ledgervault/ledgervault/internal/domain/port/core"
	"github.com/ledgervault/ledgervault/internal/domain/port/persistence"
)

// Engine is what the adapter needs from the relational engine: dump, restore
// and a validity probe for freshly restored images.
type Engine interface {
	persistence.SnapshotSource
	Check(ctx context.Context) error
}

// Adapter implements full-snapshot durability: the entire engine state is
// serialized into one blob per save, fully replacing the previous one. It
// also keeps the last successfully saved image in memory so a failed save can
// roll the engine back to the exact durable state.
type Adapter struct {
	engine   Engine
	store    persistence.BlobStore
	logger   coreport.Logger
	lastGood []byte
}

// NewAdapter creates a snapshot adapter over the engine and blob store
func NewAdapter(engine Engine, store persistence.BlobStore, logger coreport.Logger) *Adapter {
	return &Adapter{engine: engine, store: store, logger: logger}
}

// Load restores the engine from the persisted blob. An absent blob leaves
// the engine empty. A corrupt blob is discarded and the engine starts empty
// as well — this is a personal local store with no recovery authority, so a
// fresh start beats refusing to run.
func (a *Adapter) Load(ctx context.Context) error {
	// image of the pristine empty database, kept for corruption recovery
	pristine, err := a.engine.Serialize(ctx)
	if err != nil {
		return fmt.Errorf("failed to capture pristine image: %w", err)
	}

	blob, ok, err := a.store.Get(persistence.KeySnapshot)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	if !ok {
		a.logger.Info("No snapshot found, starting with an empty store", nil)
		a.lastGood = pristine
		return nil
	}

	if err := a.restoreChecked(ctx, blob); err != nil {
		a.logger.Warn("Snapshot is corrupt, discarding it and starting fresh", map[string]any{
			"bytes": len(blob),
			"error": err.Error(),
		})
		if derr := a.store.Delete(persistence.KeySnapshot); derr != nil {
			a.logger.Warn("Failed to remove corrupt snapshot", map[string]any{
				"error": derr.Error(),
			})
		}
		if rerr := a.engine.Restore(ctx, pristine); rerr != nil {
			return fmt.Errorf("failed to reset engine after corrupt snapshot: %w", rerr)
		}
		a.lastGood = pristine
		return nil
	}

	a.logger.Info("Snapshot loaded", map[string]any{
		"bytes": len(blob),
	})
	a.lastGood = blob
	return nil
}

// restoreChecked restores an image and probes it for validity
func (a *Adapter) restoreChecked(ctx context.Context, blob []byte) error {
	if err := a.engine.Restore(ctx, blob); err != nil {
		return err
	}
	return a.engine.Check(ctx)
}

// Save serializes the entire engine state and writes it to the backing
// store, replacing the previous blob. On success the image becomes the new
// rollback point. Callers must treat a Save failure as "the mutation did not
// happen" and call Rollback.
func (a *Adapter) Save(ctx context.Context) error {
	data, err := a.engine.Serialize(ctx)
	if err != nil {
		return fmt.Errorf("failed to serialize engine: %w", err)
	}

	if err := a.store.Put(persistence.KeySnapshot, data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	a.lastGood = data
	a.logger.Debug("Snapshot saved", map[string]any{
		"bytes": len(data),
	})
	return nil
}

// Rollback restores the engine to the last successfully saved image,
// discarding any in-memory mutations made since. Keeps memory and durable
// storage consistent after a failed save.
func (a *Adapter) Rollback(ctx context.Context) error {
	if a.lastGood == nil {
		return fmt.Errorf("no saved snapshot to roll back to")
	}
	if err := a.engine.Restore(ctx, a.lastGood); err != nil {
		return fmt.Errorf("failed to roll back engine: %w", err)
	}
	a.logger.Warn("Engine rolled back to last saved snapshot", map[string]any{
		"bytes": len(a.lastGood),
	})
	return nil
}

// Export returns the current engine state as a raw blob for user-initiated
// backup. Read-only: the durable blob is not touched.
func (a *Adapter) Export(ctx context.Context) ([]byte, error) {
	return a.engine.Serialize(ctx)
}
