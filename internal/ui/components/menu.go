package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/boostup/folio/internal/ui/theme"
)

// MenuItem represents a single item in a menu.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a selectable list. A horizontal menu moves with left/right and
// renders on one line; a vertical one moves with up/down.
type Menu struct {
	Items      []MenuItem
	Selected   int
	Horizontal bool
}

// NewMenu creates a new vertical menu with the given items.
func NewMenu(items []MenuItem) Menu {
	selected := 0
	for i, item := range items {
		if !item.Disabled {
			selected = i
			break
		}
	}
	return Menu{
		Items:    items,
		Selected: selected,
	}
}

// NewTabs creates a horizontal menu.
func NewTabs(items []MenuItem) Menu {
	m := NewMenu(items)
	m.Horizontal = true
	return m
}

// Init returns nil (no initial command).
func (m Menu) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	prev, next := "up", "down"
	if m.Horizontal {
		prev, next = "left", "right"
	}

	switch kmsg.String() {
	case prev, "k", "h":
		m.Prev()
	case next, "j", "l":
		m.Next()
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}

	return m, nil
}

// Prev moves to the previous enabled item, staying put at the start.
func (m *Menu) Prev() {
	for i := m.Selected - 1; i >= 0; i-- {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

// Next moves to the next enabled item, staying put at the end.
func (m *Menu) Next() {
	for i := m.Selected + 1; i < len(m.Items); i++ {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

// View renders the menu.
func (m Menu) View() string {
	parts := make([]string, 0, len(m.Items))
	for i, item := range m.Items {
		switch {
		case i == m.Selected:
			parts = append(parts, theme.Selected.Render("▸ "+item.Label))
		case item.Disabled:
			parts = append(parts, lipgloss.NewStyle().Foreground(theme.Border).Render("  "+item.Label))
		default:
			parts = append(parts, theme.Unselected.Render("  "+item.Label))
		}
	}
	if m.Horizontal {
		return strings.Join(parts, "   ")
	}
	return strings.Join(parts, "\n") + "\n"
}
