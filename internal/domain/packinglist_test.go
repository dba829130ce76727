package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClone_DeepCopies(t *testing.T) {
	id := int64(7)
	list := &PackingList{
		ID: &id,
		Categories: []Category{
			cat(1, "Clothes", item(10, "socks")),
		},
	}

	copied := list.Clone()
	copied.Categories[0].Title = "Gear"
	copied.Categories[0].Items[0].Text = "boots"
	*copied.Categories[0].Items[0].ID = 99

	assert.Equal(t, "Clothes", list.Categories[0].Title)
	assert.Equal(t, "socks", list.Categories[0].Items[0].Text)
	assert.Equal(t, int64(10), *list.Categories[0].Items[0].ID)
}

func TestClone_Nil(t *testing.T) {
	var list *PackingList
	assert.Nil(t, list.Clone())
}

func TestRenumber_DenseAtBothLevels(t *testing.T) {
	list := &PackingList{
		Categories: []Category{
			{Title: "A", DisplayOrder: 5, Items: []Item{
				{Text: "x", DisplayOrder: 3},
				{Text: "y", DisplayOrder: 9},
			}},
			{Title: "B", DisplayOrder: 2},
		},
	}

	list.Renumber()

	for i, c := range list.Categories {
		assert.Equal(t, i, c.DisplayOrder)
		for j, it := range c.Items {
			assert.Equal(t, j, it.DisplayOrder)
		}
	}
}

func TestCategoryIndexByID(t *testing.T) {
	list := &PackingList{
		Categories: []Category{
			cat(1, "A"),
			{Title: "unconfirmed"},
			cat(3, "C"),
		},
	}

	assert.Equal(t, 0, list.CategoryIndexByID(1))
	assert.Equal(t, 2, list.CategoryIndexByID(3))
	assert.Equal(t, -1, list.CategoryIndexByID(999))
}

func TestItemIndexByID_SkipsUnconfirmed(t *testing.T) {
	c := cat(1, "A", item(10, "x"))
	c.Items = append(c.Items, Item{Text: "pending"})

	assert.Equal(t, 0, c.ItemIndexByID(10))
	assert.Equal(t, -1, c.ItemIndexByID(11))
}

func TestValidateTitle(t *testing.T) {
	require.NoError(t, ValidateTitle("Clothes"))
	assert.ErrorIs(t, ValidateTitle(""), ErrEmptyTitle)
	assert.ErrorIs(t, ValidateTitle("   "), ErrEmptyTitle)
	assert.ErrorIs(t, ValidateText("\t\n"), ErrEmptyText)
}

func TestJSONShape(t *testing.T) {
	id := int64(1)
	list := &PackingList{
		ID: &id,
		Categories: []Category{
			{Title: "Clothes", DisplayOrder: 0, Items: []Item{
				{Text: "socks", IsChecked: true, DisplayOrder: 0},
			}},
		},
	}

	raw, err := json.Marshal(list)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": 1,
		"categories": [{
			"title": "Clothes",
			"displayOrder": 0,
			"items": [{"text": "socks", "isChecked": true, "displayOrder": 0}]
		}]
	}`, string(raw))
}

func TestJSONShape_OmitsUnconfirmedIDs(t *testing.T) {
	raw, err := json.Marshal(Category{Title: "New", Items: []Item{}})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"id"`)
}
