// Package kvstore provides a small durable key/value cache for client-only
// state (checked-item mirrors, the logged-in user). It is best-effort by
// contract: consumers read through Cell, which swallows storage failures and
// exposes them for observability instead of raising them.
package kvstore

// Store is the storage capability injected into everything that needs
// durable client-side state. Implementations must be safe for concurrent use.
type Store interface {
	// Read returns the raw value and true if the key exists.
	Read(key string) ([]byte, bool, error)
	// Write stores the raw value under key, overwriting any previous value.
	Write(key string, value []byte) error
	// Delete removes the key. Deleting an absent key is not an error.
	Delete(key string) error
}
