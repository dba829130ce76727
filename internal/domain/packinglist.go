package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrEmptyTitle indicates a category title that is blank after trimming.
	ErrEmptyTitle = errors.New("category title must not be blank")

	// ErrEmptyText indicates an item text that is blank after trimming.
	ErrEmptyText = errors.New("item text must not be blank")
)

// PackingList is the aggregate root: one user's packing list, persisted as a
// single unit by the remote service. A nil ID means the list has never been
// saved remotely.
type PackingList struct {
	ID         *int64     `json:"id,omitempty"`
	Categories []Category `json:"categories"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// Category groups items under a title. A nil ID means the category was
// created locally and has not been confirmed by the server yet.
type Category struct {
	ID           *int64 `json:"id,omitempty"`
	Title        string `json:"title"`
	DisplayOrder int    `json:"displayOrder"`
	Items        []Item `json:"items"`
}

// Item is a single checklist entry. A nil ID means unconfirmed.
type Item struct {
	ID           *int64 `json:"id,omitempty"`
	Text         string `json:"text"`
	IsChecked    bool   `json:"isChecked"`
	DisplayOrder int    `json:"displayOrder"`
}

// NewPackingList returns an empty, unpersisted aggregate.
func NewPackingList() *PackingList {
	return &PackingList{Categories: []Category{}}
}

// Clone returns a deep copy of the aggregate. The engine hands out snapshots
// and applies mutations to copies, so callers never share backing arrays.
func (l *PackingList) Clone() *PackingList {
	if l == nil {
		return nil
	}
	out := &PackingList{
		ID:        cloneInt64(l.ID),
		CreatedAt: cloneTime(l.CreatedAt),
		UpdatedAt: cloneTime(l.UpdatedAt),
	}
	out.Categories = make([]Category, len(l.Categories))
	for i, c := range l.Categories {
		out.Categories[i] = c.clone()
	}
	return out
}

func (c Category) clone() Category {
	out := c
	out.ID = cloneInt64(c.ID)
	out.Items = make([]Item, len(c.Items))
	for i, it := range c.Items {
		out.Items[i] = it
		out.Items[i].ID = cloneInt64(it.ID)
	}
	return out
}

// Renumber re-derives every DisplayOrder from array position, at both levels.
// Called immediately before any remote save so the contiguity invariant holds
// on the wire no matter which mutation produced the snapshot.
func (l *PackingList) Renumber() {
	for i := range l.Categories {
		l.Categories[i].DisplayOrder = i
		for j := range l.Categories[i].Items {
			l.Categories[i].Items[j].DisplayOrder = j
		}
	}
}

// CategoryIndexByID returns the position of the category with the given
// confirmed ID, or -1. Unconfirmed categories (nil ID) never match.
func (l *PackingList) CategoryIndexByID(id int64) int {
	for i, c := range l.Categories {
		if c.ID != nil && *c.ID == id {
			return i
		}
	}
	return -1
}

// ItemIndexByID returns the position of the item with the given confirmed ID
// within the category, or -1. Unconfirmed items never match.
func (c *Category) ItemIndexByID(id int64) int {
	for i, it := range c.Items {
		if it.ID != nil && *it.ID == id {
			return i
		}
	}
	return -1
}

// ValidateTitle rejects blank category titles.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// ValidateText rejects blank item texts.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	return nil
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
