package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/svillanueva/mochila/internal/domain"
)

// FormatPackingList renders the category tree as indented text. Unconfirmed
// entities (not yet saved remotely) are marked with "*".
func FormatPackingList(cats []domain.Category) string {
	if len(cats) == 0 {
		return StyleDim.Render("Packing list is empty. Add a category with: mochila category add <title>")
	}

	var b strings.Builder
	for i, cat := range cats {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(StyleHeader.Render(fmt.Sprintf("%d. %s%s", i+1, cat.Title, pendingMark(cat.ID))))
		b.WriteString("\n")
		if len(cat.Items) == 0 {
			b.WriteString(StyleDim.Render("   (no items)"))
			b.WriteString("\n")
			continue
		}
		for j, it := range cat.Items {
			b.WriteString(fmt.Sprintf("   %s %s\n", Checkbox(it.IsChecked),
				itemStyle(it.IsChecked).Render(fmt.Sprintf("%d. %s%s", j+1, it.Text, pendingMark(it.ID)))))
		}
	}
	return b.String()
}

// Checkbox renders the checked state of an item.
func Checkbox(checked bool) string {
	if checked {
		return StyleGreen.Render("[x]")
	}
	return StyleDim.Render("[ ]")
}

// FormatSyncStatus renders the persistent status indicator: saving, saved at
// a time, or a sticky error message.
func FormatSyncStatus(loading bool, errMsg string, lastSynced *time.Time) string {
	switch {
	case loading:
		return StyleYellow.Render("saving…")
	case errMsg != "":
		return StyleRed.Render("not saved: " + errMsg)
	case lastSynced != nil:
		return StyleGreen.Render("saved " + lastSynced.Format("15:04:05"))
	default:
		return StyleDim.Render("not synced yet")
	}
}

// Progress summarizes checked items across the whole list, e.g. "3/7 packed".
func Progress(cats []domain.Category) string {
	var checked, total int
	for _, cat := range cats {
		for _, it := range cat.Items {
			total++
			if it.IsChecked {
				checked++
			}
		}
	}
	if total == 0 {
		return ""
	}
	style := StyleYellow
	if checked == total {
		style = StyleGreen
	}
	return style.Render(fmt.Sprintf("%d/%d packed", checked, total))
}

func itemStyle(checked bool) lipgloss.Style {
	if checked {
		return StyleDim
	}
	return StyleFg
}

func pendingMark(id *int64) string {
	if id == nil {
		return StyleYellow.Render(" *")
	}
	return ""
}
