package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/boostup/folio/internal/ui/theme"
)

// Button is a pill button with an optional icon after the label.
type Button struct {
	Label   string
	Icon    string
	Active  bool
	OnPress func() tea.Cmd
}

// NewButton creates a new button.
func NewButton(label, icon string, active bool, onPress func() tea.Cmd) Button {
	return Button{
		Label:   label,
		Icon:    icon,
		Active:  active,
		OnPress: onPress,
	}
}

// Update handles key events.
func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	if !b.Active {
		return b, nil
	}

	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		if kmsg.String() == "enter" && b.OnPress != nil {
			return b, b.OnPress()
		}
	}

	return b, nil
}

// View renders the button.
func (b Button) View() string {
	label := " " + b.Label
	if b.Icon != "" {
		label += " " + b.Icon
	}
	label += " "
	if b.Active {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
