package cli

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/svillanueva/mochila/internal/domain"
	"github.com/svillanueva/mochila/internal/engine"
)

// memoryServer is an in-memory remote.ListClient: Save assigns IDs the way
// the camp server does.
type memoryServer struct {
	mu     sync.Mutex
	list   *domain.PackingList
	nextID int64
}

func newMemoryServer() *memoryServer {
	return &memoryServer{nextID: 100}
}

func (s *memoryServer) Get(ctx context.Context) (*domain.PackingList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.list == nil {
		return domain.NewPackingList(), nil
	}
	return s.list.Clone(), nil
}

func (s *memoryServer) Save(ctx context.Context, list *domain.PackingList) (*domain.PackingList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := list.Clone()
	if saved.ID == nil {
		saved.ID = s.assign()
	}
	for i := range saved.Categories {
		if saved.Categories[i].ID == nil {
			saved.Categories[i].ID = s.assign()
		}
		for j := range saved.Categories[i].Items {
			if saved.Categories[i].Items[j].ID == nil {
				saved.Categories[i].Items[j].ID = s.assign()
			}
		}
	}
	s.list = saved.Clone()
	return saved, nil
}

func (s *memoryServer) assign() *int64 {
	id := s.nextID
	s.nextID++
	return &id
}

func newTestModel(t *testing.T) (*checklistModel, *engine.Engine) {
	t.Helper()
	srv := newMemoryServer()
	list := domain.NewPackingList()
	list.ID = srv.assign()
	list.Categories = []domain.Category{
		{ID: srv.assign(), Title: "Clothes", Items: []domain.Item{
			{ID: srv.assign(), Text: "socks"},
			{ID: srv.assign(), Text: "hat"},
		}},
		{ID: srv.assign(), Title: "Gear", Items: []domain.Item{
			{ID: srv.assign(), Text: "rope"},
		}},
	}
	list.Renumber()
	srv.list = list

	e := engine.New(srv, nil, nil)
	require.NoError(t, e.Load(context.Background()))

	return newChecklistModel(&App{Engine: e}), e
}

func press(m *checklistModel, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

func TestTUI_RowsFlattened(t *testing.T) {
	m, _ := newTestModel(t)

	// 2 category headers + 3 items
	require.Len(t, m.rows, 5)
	assert.Equal(t, -1, m.rows[0].itemIdx)
	assert.Equal(t, 0, m.rows[1].itemIdx)
}

func TestTUI_ToggleItemUnderCursor(t *testing.T) {
	m, e := newTestModel(t)

	press(m, "j")       // move onto "socks"
	press(m, "space")   // toggle
	e.Wait()

	assert.True(t, e.Categories()[0].Items[0].IsChecked)

	press(m, "space")
	e.Wait()
	assert.False(t, e.Categories()[0].Items[0].IsChecked)
}

func TestTUI_MoveItemDown(t *testing.T) {
	m, e := newTestModel(t)

	press(m, "j") // onto "socks"
	press(m, "J") // move it below "hat"
	e.Wait()

	items := e.Categories()[0].Items
	assert.Equal(t, "hat", items[0].Text)
	assert.Equal(t, "socks", items[1].Text)
	assert.Equal(t, 0, items[0].DisplayOrder)
	assert.Equal(t, 1, items[1].DisplayOrder)

	// Cursor followed the moved item.
	row, ok := m.currentRow()
	require.True(t, ok)
	assert.Equal(t, 1, row.itemIdx)
}

func TestTUI_MoveCategoryDown(t *testing.T) {
	m, e := newTestModel(t)

	press(m, "J") // move "Clothes" below "Gear"
	e.Wait()

	cats := e.Categories()
	assert.Equal(t, "Gear", cats[0].Title)
	assert.Equal(t, "Clothes", cats[1].Title)
}

func TestTUI_AddCategory(t *testing.T) {
	m, e := newTestModel(t)

	press(m, "A")
	require.Equal(t, modeAddCategory, m.mode)
	m.input.SetValue("Food")
	press(m, "enter")
	e.Wait()
	m.refresh()

	cats := e.Categories()
	require.Len(t, cats, 3)
	assert.Equal(t, "Food", cats[2].Title)
	assert.NotNil(t, cats[2].ID, "confirmed after background save")
}

func TestTUI_AddItemBlankIgnored(t *testing.T) {
	m, e := newTestModel(t)

	press(m, "a")
	require.Equal(t, modeAddItem, m.mode)
	m.input.SetValue("   ")
	press(m, "enter")
	e.Wait()

	assert.Len(t, e.Categories()[0].Items, 2, "blank input must not create an item")
	assert.Equal(t, modeNone, m.mode)
}

func TestTUI_DeleteItem(t *testing.T) {
	m, e := newTestModel(t)

	press(m, "j", "d") // delete "socks"
	e.Wait()

	items := e.Categories()[0].Items
	require.Len(t, items, 1)
	assert.Equal(t, "hat", items[0].Text)
	assert.Equal(t, 0, items[0].DisplayOrder)
}

func TestTUI_EditItemText(t *testing.T) {
	m, e := newTestModel(t)

	press(m, "j", "e")
	require.Equal(t, modeRename, m.mode)
	assert.Equal(t, "socks", m.input.Value(), "prefilled with current text")
	m.input.SetValue("wool socks")
	press(m, "enter")
	e.Wait()

	assert.Equal(t, "wool socks", e.Categories()[0].Items[0].Text)
}

func TestTUI_EscCancelsInput(t *testing.T) {
	m, e := newTestModel(t)

	press(m, "A")
	m.input.SetValue("Scratch")
	press(m, "esc")
	e.Wait()

	assert.Equal(t, modeNone, m.mode)
	assert.Len(t, e.Categories(), 2)
}

// staleSaveServer holds Save on a gate and never stores the snapshot, so a
// reload can be interleaved with an in-flight save whose response differs
// from the server's current state.
type staleSaveServer struct {
	*memoryServer
	gate chan struct{}
}

func (s *staleSaveServer) Save(ctx context.Context, list *domain.PackingList) (*domain.PackingList, error) {
	<-s.gate
	return list.Clone(), nil
}

func TestTUI_ReloadWaitsForInFlightSave(t *testing.T) {
	srv := newMemoryServer()
	list := domain.NewPackingList()
	list.ID = srv.assign()
	list.Categories = []domain.Category{
		{ID: srv.assign(), Title: "Clothes", Items: []domain.Item{
			{ID: srv.assign(), Text: "socks"},
		}},
	}
	list.Renumber()
	srv.list = list

	gated := &staleSaveServer{memoryServer: srv, gate: make(chan struct{})}
	e := engine.New(gated, nil, nil)
	require.NoError(t, e.Load(context.Background()))
	m := newChecklistModel(&App{Engine: e})

	press(m, "j", "space") // toggle's save goes in flight, held by the gate

	// Another client adds a category server-side meanwhile.
	srv.mu.Lock()
	srv.list.Categories = append(srv.list.Categories, domain.Category{
		ID: srv.assign(), Title: "Shared", Items: []domain.Item{},
	})
	srv.list.Renumber()
	srv.mu.Unlock()

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(gated.gate)
	}()

	// The reload must drain the in-flight save first; otherwise its response
	// lands on top of the freshly fetched aggregate.
	press(m, "r")

	cats := e.Categories()
	require.Len(t, cats, 2)
	assert.Equal(t, "Shared", cats[1].Title)
}

func TestTUI_ViewShowsStatusLine(t *testing.T) {
	m, e := newTestModel(t)

	press(m, "j", "space")
	e.Wait()
	m.refresh()

	view := m.View()
	assert.Contains(t, view, "Clothes")
	assert.Contains(t, view, "1/3 packed")
	assert.Contains(t, view, "saved ")
}
