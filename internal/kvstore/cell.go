package kvstore

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Cell is a JSON-typed view over a single key. All failures are captured
// rather than returned: this state is best-effort, never authoritative, and
// must not block the caller's primary workflow. The presentation layer can
// inspect LastWrite/LastErr to render a sync indicator.
type Cell[T any] struct {
	store Store
	key   string

	mu        sync.Mutex
	lastWrite *time.Time
	lastErr   error
}

// NewCell binds a typed cell to one key of the store.
func NewCell[T any](store Store, key string) *Cell[T] {
	return &Cell[T]{store: store, key: key}
}

// Read returns the decoded value, or fallback when the key is absent, the
// store is unavailable, or the stored payload does not parse. A corrupt
// payload is deleted so the next write starts clean.
func (c *Cell[T]) Read(fallback T) T {
	raw, ok, err := c.store.Read(c.key)
	if err != nil {
		c.setErr(err)
		return fallback
	}
	if !ok {
		return fallback
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		_ = c.store.Delete(c.key)
		c.setErr(fmt.Errorf("corrupt value for %q: %w", c.key, err))
		return fallback
	}
	return v
}

// Write serializes and stores the value. Failures are captured, not raised.
func (c *Cell[T]) Write(v T) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.setErr(fmt.Errorf("encoding value for %q: %w", c.key, err))
		return
	}
	if err := c.store.Write(c.key, raw); err != nil {
		c.setErr(err)
		return
	}
	now := time.Now()
	c.mu.Lock()
	c.lastWrite = &now
	c.lastErr = nil
	c.mu.Unlock()
}

// Clear removes the key. Failures are captured, not raised.
func (c *Cell[T]) Clear() {
	if err := c.store.Delete(c.key); err != nil {
		c.setErr(err)
	}
}

// LastWrite returns the time of the last successful write, or nil.
func (c *Cell[T]) LastWrite() *time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastWrite
}

// LastErr returns the most recent storage error, or nil after a successful
// write.
func (c *Cell[T]) LastErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Cell[T]) setErr(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}
