package placeholder

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/boostup/folio/internal/screen"
	"github.com/boostup/folio/internal/ui/layout"
	"github.com/boostup/folio/internal/ui/theme"
)

// PlaceholderScreen stands in for a screen that could not be mounted.
type PlaceholderScreen struct {
	title  string
	reason string
}

var (
	_ screen.Screen          = (*PlaceholderScreen)(nil)
	_ screen.KeyHintProvider = (*PlaceholderScreen)(nil)
)

// New creates a PlaceholderScreen explaining why title is unavailable.
func New(title, reason string) *PlaceholderScreen {
	return &PlaceholderScreen{title: title, reason: reason}
}

func (p *PlaceholderScreen) Init() tea.Cmd {
	return nil
}

func (p *PlaceholderScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return p, nil
}

func (p *PlaceholderScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

func (p *PlaceholderScreen) View(width, height int) string {
	body := "╌╌ Unavailable ╌╌"
	if p.reason != "" {
		body += "\n\n" + theme.Problem.Render(p.reason)
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(body)
}

func (p *PlaceholderScreen) Title() string {
	return p.title
}
