package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/svillanueva/mochila/internal/cli/formatter"
	"github.com/svillanueva/mochila/internal/domain"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive checklist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), app)
		},
	}
}

func runTUI(ctx context.Context, app *App) error {
	app.ensureLoaded(ctx)

	p := tea.NewProgram(newChecklistModel(app), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	// Don't drop a save that is still queued or in flight.
	app.Engine.Wait()
	return nil
}

// tuiRow is one visible line: a category header or an item under it.
type tuiRow struct {
	catIdx  int
	itemIdx int // -1 for category rows
}

type inputMode int

const (
	modeNone inputMode = iota
	modeAddCategory
	modeAddItem
	modeRename // category title or item text, depending on the row
)

type tickMsg time.Time

// checklistModel renders the packing list and maps keyboard moves onto the
// engine's mutation surface.
type checklistModel struct {
	app    *App
	cats   []domain.Category
	rows   []tuiRow
	cursor int
	mode   inputMode
	input  textinput.Model
	width  int
	height int
}

func newChecklistModel(app *App) *checklistModel {
	ti := textinput.New()
	ti.CharLimit = 120
	m := &checklistModel{app: app, input: ti}
	m.refresh()
	return m
}

func (m *checklistModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refresh re-reads the engine's snapshot and rebuilds the visible rows.
func (m *checklistModel) refresh() {
	m.cats = m.app.Engine.Categories()
	m.rows = m.rows[:0]
	for ci := range m.cats {
		m.rows = append(m.rows, tuiRow{catIdx: ci, itemIdx: -1})
		for ii := range m.cats[ci].Items {
			m.rows = append(m.rows, tuiRow{catIdx: ci, itemIdx: ii})
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *checklistModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tickMsg:
		// Pick up server-confirmed IDs and sync-status changes.
		m.refresh()
		return m, tick()
	case tea.KeyMsg:
		if m.mode != modeNone {
			return m.updateInput(msg)
		}
		return m.updateNavigation(msg)
	}
	return m, nil
}

func (m *checklistModel) updateNavigation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case " ":
		if row, ok := m.currentRow(); ok && row.itemIdx >= 0 {
			cat := m.cats[row.catIdx]
			it := cat.Items[row.itemIdx]
			if cat.ID != nil && it.ID != nil {
				m.app.Engine.ToggleItem(*cat.ID, *it.ID)
				m.refresh()
			}
		}

	case "K": // move up within its sequence
		m.moveCurrent(-1)
	case "J": // move down
		m.moveCurrent(1)

	case "A":
		m.mode = modeAddCategory
		m.input.Placeholder = "New category title"
		m.input.SetValue("")
		m.input.Focus()
	case "a":
		if row, ok := m.currentRow(); ok && m.cats[row.catIdx].ID != nil {
			m.mode = modeAddItem
			m.input.Placeholder = "New item for " + m.cats[row.catIdx].Title
			m.input.SetValue("")
			m.input.Focus()
		}
	case "e":
		if row, ok := m.currentRow(); ok {
			cat := m.cats[row.catIdx]
			if row.itemIdx < 0 && cat.ID != nil {
				m.mode = modeRename
				m.input.SetValue(cat.Title)
				m.input.Focus()
			} else if row.itemIdx >= 0 && cat.ID != nil && cat.Items[row.itemIdx].ID != nil {
				m.mode = modeRename
				m.input.SetValue(cat.Items[row.itemIdx].Text)
				m.input.Focus()
			}
		}
	case "d":
		if row, ok := m.currentRow(); ok {
			cat := m.cats[row.catIdx]
			if cat.ID == nil {
				break
			}
			if row.itemIdx < 0 {
				m.app.Engine.DeleteCategory(*cat.ID)
			} else if it := cat.Items[row.itemIdx]; it.ID != nil {
				m.app.Engine.DeleteItem(*cat.ID, *it.ID)
			}
			m.refresh()
		}
	case "r":
		// Flush any outstanding save first so its response cannot land on
		// top of the freshly loaded aggregate.
		m.app.Engine.Wait()
		m.app.Engine.Load(context.Background())
		m.refresh()
	}
	return m, nil
}

// moveCurrent reorders the row under the cursor one step up or down within
// its own sequence, keeping the cursor on the moved element.
func (m *checklistModel) moveCurrent(delta int) {
	row, ok := m.currentRow()
	if !ok {
		return
	}
	cat := m.cats[row.catIdx]

	if row.itemIdx < 0 {
		to := row.catIdx + delta
		if to < 0 || to >= len(m.cats) {
			return
		}
		if m.app.Engine.ReorderCategories(row.catIdx, to) == nil {
			m.refresh()
			m.cursorTo(tuiRow{catIdx: to, itemIdx: -1})
		}
		return
	}

	if cat.ID == nil {
		return
	}
	to := row.itemIdx + delta
	if to < 0 || to >= len(cat.Items) {
		return
	}
	if m.app.Engine.ReorderItems(*cat.ID, row.itemIdx, to) == nil {
		m.refresh()
		m.cursorTo(tuiRow{catIdx: row.catIdx, itemIdx: to})
	}
}

func (m *checklistModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.input.Blur()
		return m, nil
	case "enter":
		m.commitInput()
		m.mode = modeNone
		m.input.Blur()
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *checklistModel) commitInput() {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		return
	}

	switch m.mode {
	case modeAddCategory:
		m.app.Engine.AddCategory(value)
	case modeAddItem:
		if row, ok := m.currentRow(); ok && m.cats[row.catIdx].ID != nil {
			m.app.Engine.AddItem(*m.cats[row.catIdx].ID, value)
		}
	case modeRename:
		row, ok := m.currentRow()
		if !ok {
			return
		}
		cat := m.cats[row.catIdx]
		if cat.ID == nil {
			return
		}
		if row.itemIdx < 0 {
			m.app.Engine.EditCategoryTitle(*cat.ID, value)
		} else if it := cat.Items[row.itemIdx]; it.ID != nil {
			m.app.Engine.EditItemText(*cat.ID, *it.ID, value)
		}
	}
}

func (m *checklistModel) currentRow() (tuiRow, bool) {
	if len(m.rows) == 0 || m.cursor < 0 || m.cursor >= len(m.rows) {
		return tuiRow{}, false
	}
	return m.rows[m.cursor], true
}

func (m *checklistModel) cursorTo(target tuiRow) {
	for i, r := range m.rows {
		if r == target {
			m.cursor = i
			return
		}
	}
}

func (m *checklistModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render("mochila · packing list"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(formatter.StyleDim.Render("Empty list. Press A to add a category."))
		b.WriteString("\n")
	}

	for i, row := range m.rows {
		cursor := "  "
		if i == m.cursor {
			cursor = formatter.StyleCursor.Render("→ ")
		}
		cat := m.cats[row.catIdx]
		if row.itemIdx < 0 {
			b.WriteString(fmt.Sprintf("%s%s\n", cursor, formatter.StyleHeader.Render(cat.Title)))
			continue
		}
		it := cat.Items[row.itemIdx]
		b.WriteString(fmt.Sprintf("%s  %s %s\n", cursor, formatter.Checkbox(it.IsChecked), it.Text))
	}

	b.WriteString("\n")
	if m.mode != modeNone {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if p := formatter.Progress(m.cats); p != "" {
		b.WriteString(p)
		b.WriteString("  ")
	}
	b.WriteString(formatter.FormatSyncStatus(m.app.Engine.IsLoading(), m.app.Engine.Err(), m.app.Engine.LastSynced()))
	b.WriteString("\n")
	b.WriteString(formatter.StyleDim.Render("space toggle · a/A add · e edit · d delete · J/K move · r reload · q quit"))
	return b.String()
}
