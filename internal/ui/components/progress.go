package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/boostup/folio/internal/sequencer"
	"github.com/boostup/folio/internal/ui/theme"
)

// PhaseProgress is the segmented bar under the approach cards: one segment
// per stage, filled once seen, with the active one marked.
type PhaseProgress struct {
	Snapshot sequencer.Snapshot
	Width    int
}

// NewPhaseProgress creates a progress bar for a sequencer snapshot.
func NewPhaseProgress(snap sequencer.Snapshot, width int) PhaseProgress {
	return PhaseProgress{Snapshot: snap, Width: width}
}

// Seen returns how many stages have been revealed.
func (p PhaseProgress) Seen() int {
	return len(p.Snapshot.SeenSet())
}

// View renders the bar followed by a status label.
func (p PhaseProgress) View() string {
	stages := sequencer.Stages()
	label := p.status()
	labelWidth := lipgloss.Width(label) + 2

	segWidth := (p.Width - labelWidth - (len(stages) - 1)) / len(stages)
	if segWidth < 3 {
		segWidth = 3
	}

	segs := make([]string, 0, len(stages))
	for _, stage := range stages {
		style := theme.ProgressEmpty
		if p.Snapshot.HasSeen(stage) {
			style = theme.ProgressFilled
		}
		fill := strings.Repeat(" ", segWidth)
		if p.Snapshot.IsActive(stage) {
			mid := segWidth / 2
			fill = strings.Repeat(" ", mid) + "◆" + strings.Repeat(" ", segWidth-mid-1)
			style = style.Foreground(theme.BgDark)
		}
		segs = append(segs, style.Render(fill))
	}

	return strings.Join(segs, " ") + "  " + label
}

func (p PhaseProgress) status() string {
	snap := p.Snapshot
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	switch {
	case snap.Stopped:
		return dim.Render("stopped")
	case snap.Done:
		return theme.Copied.Render("complete")
	case snap.Active.Valid():
		return theme.Highlight.Render(snap.Active.String())
	default:
		return dim.Render(fmt.Sprintf("starting (%d/%d)", p.Seen(), sequencer.StageCount))
	}
}
