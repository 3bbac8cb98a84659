package components

import (
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
)

// ClipboardWriter writes text to a clipboard.
type ClipboardWriter func(text string) error

// SystemClipboard writes through the OS clipboard tools.
var SystemClipboard ClipboardWriter = clipboard.WriteAll

// Copy returns a command that writes text with write. When the system
// clipboard is unavailable (no xclip/pbcopy, remote session) it falls back to
// the terminal clipboard escape sequence.
func Copy(text string, write ClipboardWriter) tea.Cmd {
	if write == nil {
		write = SystemClipboard
	}
	return func() tea.Msg {
		if err := write(text); err != nil {
			return tea.SetClipboard(text)()
		}
		return nil
	}
}
