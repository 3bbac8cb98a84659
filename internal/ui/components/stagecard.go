package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/boostup/folio/internal/content"
	"github.com/boostup/folio/internal/sequencer"
	"github.com/boostup/folio/internal/ui/theme"
)

const (
	effectRows  = 4
	entryFrames = 3
)

// StageCard renders one approach stage. It starts idle with a "Phase N"
// badge and switches to the stage content the first time it is revealed;
// it never goes back to idle.
type StageCard struct {
	Stage       int
	Title       string
	Description string

	cfg    content.RevealConfig
	mode   sequencer.Mode
	active bool
	reveal *Reveal
	entry  int
}

// NewStageCard creates an idle card for the 1-based stage.
func NewStageCard(stage int, s content.Stage) *StageCard {
	return &StageCard{
		Stage:       stage,
		Title:       s.Title,
		Description: s.Description,
		cfg:         s.Reveal,
		mode:        sequencer.ModeIdle,
	}
}

// Apply takes a display decision and reports whether this call moved the
// card from idle to revealed.
func (c *StageCard) Apply(d sequencer.Display) bool {
	c.active = d.Active
	if d.EffectMounted && c.reveal == nil {
		c.reveal = NewReveal(c.cfg, c.Stage)
	}
	if d.Mode == sequencer.ModeRevealed && c.mode == sequencer.ModeIdle {
		c.mode = sequencer.ModeRevealed
		c.entry = 0
		return true
	}
	return false
}

// Step advances the effect and the content entry animation by one frame.
func (c *StageCard) Step() {
	if c.reveal != nil {
		c.reveal.Step()
	}
	if c.mode == sequencer.ModeRevealed && c.entry < entryFrames {
		c.entry++
	}
}

func (c *StageCard) Mode() sequencer.Mode { return c.mode }

func (c *StageCard) Active() bool { return c.active }

func (c *StageCard) EffectMounted() bool { return c.reveal != nil }

// Entering reports whether the content entry animation is still playing.
func (c *StageCard) Entering() bool {
	return c.mode == sequencer.ModeRevealed && c.entry < entryFrames
}

// Effect returns the mounted reveal effect, or nil.
func (c *StageCard) Effect() *Reveal { return c.reveal }

// View renders the card at the given outer width.
func (c *StageCard) View(width int) string {
	inner := width - 4
	if inner < 8 {
		inner = 8
	}

	var body string
	if c.mode == sequencer.ModeIdle {
		badge := theme.Badge.Render(fmt.Sprintf("Phase %d", c.Stage))
		body = lipgloss.Place(inner, effectRows+4, lipgloss.Center, lipgloss.Center, badge)
	} else {
		body = c.content(inner)
	}

	border := theme.Border
	if c.active {
		border = theme.Primary
	}

	parts := []string{}
	if c.reveal != nil {
		parts = append(parts, c.reveal.View(inner, effectRows))
	}
	parts = append(parts, body)

	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Render(strings.Join(parts, "\n"))
}

// content mirrors the staggered entry: the title first, then the copy.
func (c *StageCard) content(width int) string {
	title := theme.Title.Width(width)
	if c.entry == 0 {
		title = title.Faint(true)
	}
	out := title.Render(c.Title)
	if c.entry >= 2 {
		out += "\n\n" + theme.Soft.Width(width).Align(lipgloss.Center).Render(c.Description)
	}
	return out
}
