package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Color palette: deep navy page with a lavender accent
var (
	Primary   = lipgloss.Color("#CBACF9") // Lavender
	Secondary = lipgloss.Color("#10B981") // Emerald
	Accent    = lipgloss.Color("#E2CBFF") // Light Lavender
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#FFFFFF") // White
	TextSoft  = lipgloss.Color("#E4ECFF") // Card copy
	TextDim   = lipgloss.Color("#BEC1DD") // Muted
	BgDark    = lipgloss.Color("#000319") // Page
	BgCard    = lipgloss.Color("#04071D") // Card
	Border    = lipgloss.Color("#363749") // Slate
	Ring      = lipgloss.Color("#393BB2") // Badge ring
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Text).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Soft = lipgloss.NewStyle().
		Foreground(TextSoft)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Highlight = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)
)

// Layout
var (
	Header = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Footer = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Copied = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Problem = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Primary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	// Badge is the "Phase N" pill shown on an idle stage card.
	Badge = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Ring).
		Padding(0, 2)

	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(BgDark).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Background(BgCard).
			Foreground(Text).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)

// RGB converts an 8-bit triple into a terminal color.
func RGB(r, g, b uint8) color.Color {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Dim scales a color towards black; f is clamped to [0, 1].
func Dim(c color.Color, f float64) color.Color {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	r, g, b, _ := c.RGBA()
	return color.RGBA{
		R: uint8(float64(r>>8) * f),
		G: uint8(float64(g>>8) * f),
		B: uint8(float64(b>>8) * f),
		A: 0xff,
	}
}
