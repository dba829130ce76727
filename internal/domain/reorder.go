package domain

import "fmt"

// ErrIndexOutOfRange reports a reorder call with indices outside the
// sequence. Callers are expected to only pass indices they observed from the
// current rendered sequence; anything else is a precondition violation.
type ErrIndexOutOfRange struct {
	From, To, Len int
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("reorder indices out of range: from=%d to=%d len=%d", e.From, e.To, e.Len)
}

// splice moves the element at from to position to: remove at from, insert
// into the shortened sequence at to. Standard array move, not a swap.
// The input slice is not modified.
func splice[T any](s []T, from, to int) ([]T, error) {
	n := len(s)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, &ErrIndexOutOfRange{From: from, To: to, Len: n}
	}
	out := make([]T, 0, n)
	out = append(out, s[:from]...)
	out = append(out, s[from+1:]...)
	out = append(out[:to], append([]T{s[from]}, out[to:]...)...)
	return out, nil
}

// ReorderCategories moves one category from index from to index to and
// renumbers every category's DisplayOrder to match its new position.
func ReorderCategories(cats []Category, from, to int) ([]Category, error) {
	moved, err := splice(cats, from, to)
	if err != nil {
		return nil, err
	}
	for i := range moved {
		moved[i].DisplayOrder = i
	}
	return moved, nil
}

// ReorderItems moves one item within a single category's item sequence and
// renumbers every item's DisplayOrder.
func ReorderItems(items []Item, from, to int) ([]Item, error) {
	moved, err := splice(items, from, to)
	if err != nil {
		return nil, err
	}
	for i := range moved {
		moved[i].DisplayOrder = i
	}
	return moved, nil
}

// MoveItemAcrossCategories removes the item at fromIdx in src and inserts it
// at toIdx in dst (toIdx == len(dst.Items) appends). Both categories are
// renumbered. Cross-category drags are the one move that touches two
// sequences; it is still two independent splices, one per level.
func MoveItemAcrossCategories(src, dst *Category, fromIdx, toIdx int) error {
	if fromIdx < 0 || fromIdx >= len(src.Items) {
		return &ErrIndexOutOfRange{From: fromIdx, To: toIdx, Len: len(src.Items)}
	}
	if toIdx < 0 || toIdx > len(dst.Items) {
		return &ErrIndexOutOfRange{From: fromIdx, To: toIdx, Len: len(dst.Items)}
	}

	it := src.Items[fromIdx]
	src.Items = append(append([]Item{}, src.Items[:fromIdx]...), src.Items[fromIdx+1:]...)

	items := make([]Item, 0, len(dst.Items)+1)
	items = append(items, dst.Items[:toIdx]...)
	items = append(items, it)
	items = append(items, dst.Items[toIdx:]...)
	dst.Items = items

	for i := range src.Items {
		src.Items[i].DisplayOrder = i
	}
	for i := range dst.Items {
		dst.Items[i].DisplayOrder = i
	}
	return nil
}
