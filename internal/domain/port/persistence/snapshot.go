package persistence

import "context"

// SnapshotSource is the in-memory relational engine's dump interface. The
// serialized form is the engine's native binary database image.
type SnapshotSource interface {
	// Serialize dumps the entire current database state
	Serialize(ctx context.Context) ([]byte, error)
	// Restore replaces the entire database state with a previous dump
	Restore(ctx context.Context, data []byte) error
}

// SnapshotManager coordinates full-snapshot durability between the engine and
// the blob store. Exactly one save happens per successful mutating gateway
// operation; a mutation is only reported successful once its save completed.
type SnapshotManager interface {
	// Load restores the engine from the persisted blob at startup. An absent
	// blob starts an empty store; a corrupt blob is discarded and also starts
	// an empty store. Neither case is an error.
	Load(ctx context.Context) error
	// Save serializes the engine and writes the blob, replacing the previous
	// one. On success the new blob becomes the rollback point.
	Save(ctx context.Context) error
	// Rollback restores the engine to the last successfully saved blob,
	// discarding any in-memory mutations made since
	Rollback(ctx context.Context) error
	// Export returns the current state as a raw blob for backup, without
	// touching the durable copy
	Export(ctx context.Context) ([]byte, error)
}
