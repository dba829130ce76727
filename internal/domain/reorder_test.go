package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cat(id int64, title string, items ...Item) Category {
	return Category{ID: &id, Title: title, Items: items}
}

func item(id int64, text string) Item {
	return Item{ID: &id, Text: text}
}

func titles(cats []Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.Title
	}
	return out
}

func texts(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Text
	}
	return out
}

func TestReorderCategories_MoveForward(t *testing.T) {
	cats := []Category{cat(1, "A"), cat(2, "B"), cat(3, "C")}

	moved, err := ReorderCategories(cats, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "A"}, titles(moved))
	for i, c := range moved {
		assert.Equal(t, i, c.DisplayOrder)
	}
}

func TestReorderCategories_MoveBackward(t *testing.T) {
	cats := []Category{cat(1, "A"), cat(2, "B"), cat(3, "C")}

	moved, err := ReorderCategories(cats, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, titles(moved))
}

func TestReorderCategories_SwapOfTwo(t *testing.T) {
	cats := []Category{
		cat(1, "A", item(10, "x")),
		cat(2, "B", item(20, "y")),
	}

	moved, err := ReorderCategories(cats, 0, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"B", "A"}, titles(moved))
	assert.Equal(t, 0, moved[0].DisplayOrder)
	assert.Equal(t, 1, moved[1].DisplayOrder)
	assert.Equal(t, "y", moved[0].Items[0].Text, "items travel with their category")
	assert.Equal(t, "x", moved[1].Items[0].Text)
}

func TestReorderCategories_DoesNotModifyInput(t *testing.T) {
	cats := []Category{cat(1, "A"), cat(2, "B"), cat(3, "C")}

	_, err := ReorderCategories(cats, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, titles(cats))
}

func TestReorderCategories_OutOfRange(t *testing.T) {
	cats := []Category{cat(1, "A"), cat(2, "B")}

	cases := []struct{ from, to int }{
		{-1, 0},
		{0, -1},
		{2, 0},
		{0, 2},
	}
	for _, tc := range cases {
		_, err := ReorderCategories(cats, tc.from, tc.to)
		var oor *ErrIndexOutOfRange
		require.ErrorAs(t, err, &oor, "from=%d to=%d", tc.from, tc.to)
		assert.Equal(t, 2, oor.Len)
	}
}

func TestReorderItems_ToFront(t *testing.T) {
	items := []Item{item(1, "p"), item(2, "q"), item(3, "r")}

	moved, err := ReorderItems(items, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"r", "p", "q"}, texts(moved))
	for i, it := range moved {
		assert.Equal(t, i, it.DisplayOrder)
	}
}

func TestReorderItems_PreservesMultiset(t *testing.T) {
	items := []Item{item(1, "p"), item(2, "q"), item(3, "r"), item(4, "s")}

	for from := 0; from < len(items); from++ {
		for to := 0; to < len(items); to++ {
			moved, err := ReorderItems(items, from, to)
			require.NoError(t, err)
			require.Len(t, moved, len(items))

			seen := map[string]bool{}
			for i, it := range moved {
				seen[it.Text] = true
				assert.Equal(t, i, it.DisplayOrder, "from=%d to=%d", from, to)
			}
			assert.Len(t, seen, len(items), "no element lost or duplicated")
		}
	}
}

func TestReorderItems_SamePosition(t *testing.T) {
	items := []Item{item(1, "p"), item(2, "q")}

	moved, err := ReorderItems(items, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"p", "q"}, texts(moved))
}

func TestMoveItemAcrossCategories(t *testing.T) {
	src := cat(1, "A", item(10, "x"), item(11, "y"))
	dst := cat(2, "B", item(20, "z"))

	require.NoError(t, MoveItemAcrossCategories(&src, &dst, 0, 1))

	assert.Equal(t, []string{"y"}, texts(src.Items))
	assert.Equal(t, []string{"z", "x"}, texts(dst.Items))
	for i, it := range src.Items {
		assert.Equal(t, i, it.DisplayOrder)
	}
	for i, it := range dst.Items {
		assert.Equal(t, i, it.DisplayOrder)
	}
}

func TestMoveItemAcrossCategories_AppendAtEnd(t *testing.T) {
	src := cat(1, "A", item(10, "x"))
	dst := cat(2, "B", item(20, "z"))

	require.NoError(t, MoveItemAcrossCategories(&src, &dst, 0, len(dst.Items)))
	assert.Equal(t, []string{"z", "x"}, texts(dst.Items))
	assert.Empty(t, src.Items)
}

func TestMoveItemAcrossCategories_OutOfRange(t *testing.T) {
	src := cat(1, "A", item(10, "x"))
	dst := cat(2, "B")

	var oor *ErrIndexOutOfRange
	require.ErrorAs(t, MoveItemAcrossCategories(&src, &dst, 1, 0), &oor)
	require.ErrorAs(t, MoveItemAcrossCategories(&src, &dst, 0, 1), &oor)
	assert.Len(t, src.Items, 1, "failed move must not change either side")
	assert.Empty(t, dst.Items)
}
