// Package engine owns the in-memory packing-list aggregate and mediates
// every read and write against the remote service. Mutations apply
// optimistically: local state updates at once, a background save follows, and
// the server's canonical response (with freshly assigned IDs) replaces the
// optimistic snapshot. On save failure the optimistic state is kept and the
// error is surfaced until the next successful round-trip.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/svillanueva/mochila/internal/domain"
	"github.com/svillanueva/mochila/internal/kvstore"
	"github.com/svillanueva/mochila/internal/remote"
)

const requestTimeout = 15 * time.Second

// errNoop marks a mutation that addressed an unknown or unconfirmed entity.
// Such operations are rejected silently: diagnostic only, no state change.
var errNoop = errors.New("no-op")

// CheckedCell mirrors the checked state of confirmed items, keyed
// "<categoryID>:<itemID>". Best-effort client-side cache, never the source
// of truth.
type CheckedCell = kvstore.Cell[map[string]bool]

// Engine is the single source of truth for the current aggregate. One
// instance per mounted view; safe for concurrent use.
type Engine struct {
	client  remote.ListClient
	checked *CheckedCell
	obs     Observer

	mu         sync.Mutex
	cond       *sync.Cond
	list       *domain.PackingList
	loading    bool
	errMsg     string
	lastSynced *time.Time

	// Single-slot persist queue: at most one save in flight, and at most one
	// pending snapshot. A newer mutation replaces a pending-but-unsent
	// snapshot, so the latest state always wins without overlapping saves.
	pending *domain.PackingList
	saving  bool
}

// New creates an engine. checked may be nil to disable the checked-items
// mirror; obs may be nil.
func New(client remote.ListClient, checked *CheckedCell, obs Observer) *Engine {
	e := &Engine{
		client:  client,
		checked: checked,
		obs:     observerOrNoop(obs),
	}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// Load fetches the aggregate from the server. On failure the engine starts
// with an empty local list and records the error; the caller can keep
// working offline-optimistic. The returned error mirrors Err().
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	e.loading = true
	e.errMsg = ""
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	start := time.Now()
	list, err := e.client.Get(ctx)
	e.obs.OnSync(SyncEvent{
		Op:       "load",
		Duration: time.Since(start),
		Success:  err == nil,
		Err:      err,
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	e.loading = false
	if err != nil {
		e.list = domain.NewPackingList()
		e.errMsg = err.Error()
		return err
	}
	if list.ID != nil {
		e.list = list
	} else {
		// Server has no persisted list for this user yet.
		e.list = domain.NewPackingList()
	}
	now := time.Now()
	e.lastSynced = &now
	return nil
}

// Reset discards local state, including any pending save, and resynchronizes
// from the server. Confirm-gating the action is the caller's concern.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	e.pending = nil
	for e.saving {
		e.cond.Wait()
	}
	e.list = nil
	e.mu.Unlock()
	return e.Load(ctx)
}

// AddCategory appends a new unconfirmed category at the end of the sequence.
func (e *Engine) AddCategory(title string) error {
	if err := domain.ValidateTitle(title); err != nil {
		e.obs.OnRejected("addCategory", err.Error())
		return err
	}
	e.mutate("addCategory", func(l *domain.PackingList) error {
		l.Categories = append(l.Categories, domain.Category{
			Title:        title,
			DisplayOrder: len(l.Categories),
			Items:        []domain.Item{},
		})
		return nil
	})
	return nil
}

// EditCategoryTitle replaces the title of a confirmed category in place.
// Unknown or unconfirmed IDs are a silent no-op.
func (e *Engine) EditCategoryTitle(categoryID int64, title string) error {
	if err := domain.ValidateTitle(title); err != nil {
		e.obs.OnRejected("editCategoryTitle", err.Error())
		return err
	}
	e.mutate("editCategoryTitle", func(l *domain.PackingList) error {
		idx := l.CategoryIndexByID(categoryID)
		if idx < 0 {
			return fmt.Errorf("%w: unknown category %d", errNoop, categoryID)
		}
		l.Categories[idx].Title = title
		return nil
	})
	return nil
}

// DeleteCategory removes a confirmed category and everything in it.
func (e *Engine) DeleteCategory(categoryID int64) error {
	e.mutate("deleteCategory", func(l *domain.PackingList) error {
		idx := l.CategoryIndexByID(categoryID)
		if idx < 0 {
			return fmt.Errorf("%w: unknown category %d", errNoop, categoryID)
		}
		l.Categories = append(l.Categories[:idx], l.Categories[idx+1:]...)
		return nil
	})
	return nil
}

// AddItem appends a new unchecked, unconfirmed item to a confirmed category.
func (e *Engine) AddItem(categoryID int64, text string) error {
	if err := domain.ValidateText(text); err != nil {
		e.obs.OnRejected("addItem", err.Error())
		return err
	}
	e.mutate("addItem", func(l *domain.PackingList) error {
		idx := l.CategoryIndexByID(categoryID)
		if idx < 0 {
			return fmt.Errorf("%w: unknown category %d", errNoop, categoryID)
		}
		cat := &l.Categories[idx]
		cat.Items = append(cat.Items, domain.Item{
			Text:         text,
			DisplayOrder: len(cat.Items),
		})
		return nil
	})
	return nil
}

// EditItemText replaces a confirmed item's text in place.
func (e *Engine) EditItemText(categoryID, itemID int64, text string) error {
	if err := domain.ValidateText(text); err != nil {
		e.obs.OnRejected("editItemText", err.Error())
		return err
	}
	e.mutate("editItemText", func(l *domain.PackingList) error {
		cat, item, err := locate(l, categoryID, itemID)
		if err != nil {
			return err
		}
		cat.Items[item].Text = text
		return nil
	})
	return nil
}

// DeleteItem removes a confirmed item from its category.
func (e *Engine) DeleteItem(categoryID, itemID int64) error {
	e.mutate("deleteItem", func(l *domain.PackingList) error {
		cat, item, err := locate(l, categoryID, itemID)
		if err != nil {
			return err
		}
		cat.Items = append(cat.Items[:item], cat.Items[item+1:]...)
		return nil
	})
	return nil
}

// ToggleItem flips a confirmed item's checked state.
func (e *Engine) ToggleItem(categoryID, itemID int64) error {
	e.mutate("toggleItem", func(l *domain.PackingList) error {
		cat, item, err := locate(l, categoryID, itemID)
		if err != nil {
			return err
		}
		cat.Items[item].IsChecked = !cat.Items[item].IsChecked
		return nil
	})
	return nil
}

// ReorderCategories moves the category at from to position to.
func (e *Engine) ReorderCategories(from, to int) error {
	return e.mutate("reorderCategories", func(l *domain.PackingList) error {
		moved, err := domain.ReorderCategories(l.Categories, from, to)
		if err != nil {
			return err
		}
		l.Categories = moved
		return nil
	})
}

// ReorderItems moves one item within a confirmed category.
func (e *Engine) ReorderItems(categoryID int64, from, to int) error {
	return e.mutate("reorderItems", func(l *domain.PackingList) error {
		idx := l.CategoryIndexByID(categoryID)
		if idx < 0 {
			return fmt.Errorf("%w: unknown category %d", errNoop, categoryID)
		}
		moved, err := domain.ReorderItems(l.Categories[idx].Items, from, to)
		if err != nil {
			return err
		}
		l.Categories[idx].Items = moved
		return nil
	})
}

// MoveItemAcrossCategories moves the item at fromIdx in the source category
// to toIdx in the destination category, renumbering both.
func (e *Engine) MoveItemAcrossCategories(fromCategoryID, toCategoryID int64, fromIdx, toIdx int) error {
	return e.mutate("moveItemAcrossCategories", func(l *domain.PackingList) error {
		src := l.CategoryIndexByID(fromCategoryID)
		if src < 0 {
			return fmt.Errorf("%w: unknown category %d", errNoop, fromCategoryID)
		}
		dst := l.CategoryIndexByID(toCategoryID)
		if dst < 0 {
			return fmt.Errorf("%w: unknown category %d", errNoop, toCategoryID)
		}
		if src == dst {
			moved, err := domain.ReorderItems(l.Categories[src].Items, fromIdx, toIdx)
			if err != nil {
				return err
			}
			l.Categories[src].Items = moved
			return nil
		}
		return domain.MoveItemAcrossCategories(&l.Categories[src], &l.Categories[dst], fromIdx, toIdx)
	})
}

// Categories returns a deep copy of the current category sequence.
func (e *Engine) Categories() []domain.Category {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.list == nil {
		return nil
	}
	return e.list.Clone().Categories
}

// Snapshot returns a deep copy of the full aggregate, or nil before Load.
func (e *Engine) Snapshot() *domain.PackingList {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.list.Clone()
}

// ListID returns the aggregate's server identity, or nil if never persisted.
func (e *Engine) ListID() *int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.list == nil {
		return nil
	}
	return e.list.ID
}

// IsLoading reports whether a load or save round-trip is in progress.
func (e *Engine) IsLoading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading || e.saving
}

// Err returns the last remote error message, or "" when the last round-trip
// succeeded.
func (e *Engine) Err() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errMsg
}

// LastSynced returns the time of the last successful round-trip, or nil.
func (e *Engine) LastSynced() *time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSynced
}

// Wait blocks until no save is pending or in flight. CLI commands call this
// before exiting so a queued save is not dropped.
func (e *Engine) Wait() {
	e.mu.Lock()
	for e.saving || e.pending != nil {
		e.cond.Wait()
	}
	e.mu.Unlock()
}

// mutate applies fn to a clone of the aggregate. On success the clone is
// renumbered, committed as the new optimistic state, and queued for persist.
// errNoop results are reported as diagnostics and absorbed; anything else
// (index preconditions) is returned to the caller. No partially applied
// state is ever observable.
func (e *Engine) mutate(op string, fn func(*domain.PackingList) error) error {
	e.mu.Lock()
	if e.list == nil {
		e.mu.Unlock()
		e.obs.OnRejected(op, "list not loaded")
		return nil
	}
	next := e.list.Clone()
	if err := fn(next); err != nil {
		e.mu.Unlock()
		if errors.Is(err, errNoop) {
			e.obs.OnRejected(op, strings.TrimPrefix(err.Error(), errNoop.Error()+": "))
			return nil
		}
		e.obs.OnRejected(op, err.Error())
		return err
	}
	next.Renumber()
	e.list = next
	e.errMsg = ""
	e.pending = next.Clone()
	e.loading = true
	if !e.saving {
		e.saving = true
		go e.persistLoop()
	}
	e.mu.Unlock()
	return nil
}

// persistLoop drains the single-slot queue. Saves never overlap; a snapshot
// queued while one is in flight is sent afterwards, so the last response can
// never clobber a newer local state.
func (e *Engine) persistLoop() {
	e.mu.Lock()
	for e.pending != nil {
		snap := e.pending
		e.pending = nil
		e.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		start := time.Now()
		saved, err := e.client.Save(ctx, snap)
		cancel()
		e.obs.OnSync(SyncEvent{
			Op:         "save",
			Duration:   time.Since(start),
			Success:    err == nil,
			Err:        err,
			Categories: len(snap.Categories),
		})

		e.mu.Lock()
		if err != nil {
			// Keep the optimistic state so the user's edit is not lost;
			// surface the error until the next successful round-trip.
			e.errMsg = err.Error()
			continue
		}
		now := time.Now()
		e.lastSynced = &now
		e.errMsg = ""
		if e.pending == nil && e.list != nil {
			// Adopt the canonical aggregate with server-assigned IDs. If a
			// newer mutation is already queued, skip: local state is ahead.
			e.list = saved
			e.mirrorCheckedLocked()
		}
	}
	e.saving = false
	e.loading = false
	e.cond.Broadcast()
	e.mu.Unlock()
}

// CheckedKey is the checked-items cache key for one confirmed item.
func CheckedKey(categoryID, itemID int64) string {
	return fmt.Sprintf("%d:%d", categoryID, itemID)
}

// mirrorCheckedLocked writes the checked state of confirmed items to the
// client-side cache. Best-effort; storage failures stay inside the cell.
func (e *Engine) mirrorCheckedLocked() {
	if e.checked == nil {
		return
	}
	m := make(map[string]bool)
	for _, cat := range e.list.Categories {
		if cat.ID == nil {
			continue
		}
		for _, it := range cat.Items {
			if it.ID == nil {
				continue
			}
			m[CheckedKey(*cat.ID, *it.ID)] = it.IsChecked
		}
	}
	e.checked.Write(m)
}

func locate(l *domain.PackingList, categoryID, itemID int64) (*domain.Category, int, error) {
	idx := l.CategoryIndexByID(categoryID)
	if idx < 0 {
		return nil, 0, fmt.Errorf("%w: unknown category %d", errNoop, categoryID)
	}
	cat := &l.Categories[idx]
	item := cat.ItemIndexByID(itemID)
	if item < 0 {
		return nil, 0, fmt.Errorf("%w: unknown item %d in category %d", errNoop, itemID, categoryID)
	}
	return cat, item, nil
}
