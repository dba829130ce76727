package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/svillanueva/mochila/internal/domain"
)

// resolveCategory finds a category by case-insensitive title, a unique title
// prefix, or a 1-based position. Only confirmed categories can be addressed
// by a mutation, so the match must carry a server ID.
func resolveCategory(cats []domain.Category, ref string) (*domain.Category, int, error) {
	if ref == "" {
		return nil, 0, fmt.Errorf("category is required")
	}

	for i := range cats {
		if strings.EqualFold(cats[i].Title, ref) {
			return confirmedCategory(&cats[i], i)
		}
	}

	var matches []int
	for i := range cats {
		if strings.HasPrefix(strings.ToLower(cats[i].Title), strings.ToLower(ref)) {
			matches = append(matches, i)
		}
	}
	switch len(matches) {
	case 0:
		// fall through to positional lookup
	case 1:
		return confirmedCategory(&cats[matches[0]], matches[0])
	default:
		return nil, 0, fmt.Errorf("category %q is ambiguous (%d matches)", ref, len(matches))
	}

	if pos, err := strconv.Atoi(ref); err == nil {
		if pos < 1 || pos > len(cats) {
			return nil, 0, fmt.Errorf("category position %d out of range (1-%d)", pos, len(cats))
		}
		return confirmedCategory(&cats[pos-1], pos-1)
	}

	return nil, 0, fmt.Errorf("category not found: %q", ref)
}

// resolveItem finds an item inside a category by case-insensitive text,
// unique prefix, or 1-based position.
func resolveItem(cat *domain.Category, ref string) (*domain.Item, int, error) {
	if ref == "" {
		return nil, 0, fmt.Errorf("item is required")
	}

	for i := range cat.Items {
		if strings.EqualFold(cat.Items[i].Text, ref) {
			return confirmedItem(cat, &cat.Items[i], i)
		}
	}

	var matches []int
	for i := range cat.Items {
		if strings.HasPrefix(strings.ToLower(cat.Items[i].Text), strings.ToLower(ref)) {
			matches = append(matches, i)
		}
	}
	switch len(matches) {
	case 0:
	case 1:
		return confirmedItem(cat, &cat.Items[matches[0]], matches[0])
	default:
		return nil, 0, fmt.Errorf("item %q is ambiguous (%d matches)", ref, len(matches))
	}

	if pos, err := strconv.Atoi(ref); err == nil {
		if pos < 1 || pos > len(cat.Items) {
			return nil, 0, fmt.Errorf("item position %d out of range (1-%d)", pos, len(cat.Items))
		}
		return confirmedItem(cat, &cat.Items[pos-1], pos-1)
	}

	return nil, 0, fmt.Errorf("item not found in %q: %q", cat.Title, ref)
}

func confirmedCategory(c *domain.Category, idx int) (*domain.Category, int, error) {
	if c.ID == nil {
		return nil, 0, fmt.Errorf("category %q has not been saved remotely yet; try again in a moment", c.Title)
	}
	return c, idx, nil
}

func confirmedItem(cat *domain.Category, it *domain.Item, idx int) (*domain.Item, int, error) {
	if it.ID == nil {
		return nil, 0, fmt.Errorf("item %q in %q has not been saved remotely yet; try again in a moment", it.Text, cat.Title)
	}
	return it, idx, nil
}
