package persistence

// Backing store keys. One key holds the entire serialized database, one the
// last-authenticated identity for session resumption, one the theme choice.
const (
	KeySnapshot = "expense_db"
	KeySession  = "user"
	KeyTheme    = "theme"
)

// BlobStore is the durable key-value backing store. Values are opaque byte
// blobs; the snapshot adapter owns their meaning.
type BlobStore interface {
	// Get returns the value for key. The second result is false when the key
	// has never been written (which is not an error).
	Get(key string) ([]byte, bool, error)
	// Put writes the value for key, fully replacing any previous value. The
	// write must be atomic: a crash mid-write may lose the new value but must
	// never leave a truncated one.
	Put(key string, data []byte) error
	// Delete removes the key. Deleting an absent key is a no-op.
	Delete(key string) error
}
