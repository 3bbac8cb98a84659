package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/boostup/folio/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Disposer is implemented by screens that own timers or goroutines. The
// router calls Dispose when the screen leaves the stack; after it returns
// the screen must not emit further messages.
type Disposer interface {
	Dispose()
}

// Dispose calls s.Dispose if s implements Disposer.
func Dispose(s Screen) {
	if d, ok := s.(Disposer); ok {
		d.Dispose()
	}
}

// ResizeMsg carries the content area size (terminal size minus the header
// and footer). The app sends it on window resize and after navigation.
type ResizeMsg struct {
	Width  int
	Height int
}
