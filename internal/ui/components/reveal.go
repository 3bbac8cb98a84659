package components

import (
	"image/color"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/boostup/folio/internal/content"
	"github.com/boostup/folio/internal/ui/theme"
)

const (
	// revealScale is the frame count for a speed-1 reveal to fill the grid.
	revealScale = 40.0
	// flickerEvery is how many frames a dot keeps its opacity.
	flickerEvery   = 5
	defaultDotSize = 3
)

var (
	defaultRevealColors = []content.RGB{{52, 211, 153}}
	opacities           = [...]float64{0.3, 0.3, 0.3, 0.5, 0.5, 0.5, 0.8, 0.8, 0.8, 1}

	containerColors = map[string]color.Color{
		"bg-emerald-900": lipgloss.Color("#064E3B"),
		"bg-pink-900":    lipgloss.Color("#831843"),
		"bg-sky-600":     lipgloss.Color("#0284C7"),
		"bg-black":       lipgloss.Color("#000000"),
	}
)

// Reveal is a dot-matrix effect: dots light up from the center outwards and
// keep flickering once the grid is full.
type Reveal struct {
	speed  float64
	colors []color.Color
	base   color.Color
	glyph  string
	seed   uint32
	frame  int
}

// NewReveal builds an effect from a stage's reveal config. The seed keeps
// neighbouring cards from flickering in lockstep.
func NewReveal(cfg content.RevealConfig, seed int) *Reveal {
	speed := cfg.AnimationSpeed
	if speed <= 0 {
		speed = 1
	}

	rgbs := cfg.Colors
	if len(rgbs) == 0 {
		rgbs = defaultRevealColors
	}
	colors := make([]color.Color, len(rgbs))
	for i, c := range rgbs {
		colors[i] = theme.RGB(c[0], c[1], c[2])
	}

	return &Reveal{
		speed:  speed,
		colors: colors,
		base:   containerColor(cfg.ContainerClass),
		glyph:  dotGlyph(cfg.DotSize),
		seed:   uint32(seed),
	}
}

// Step advances one animation frame.
func (r *Reveal) Step() { r.frame++ }

// Frame returns the number of frames played.
func (r *Reveal) Frame() int { return r.frame }

// Progress is the reveal front in [0, 1].
func (r *Reveal) Progress() float64 {
	return math.Min(1, float64(r.frame)*r.speed/revealScale)
}

// Done reports whether every dot has been lit.
func (r *Reveal) Done() bool { return r.Progress() >= 1 }

// Glyph returns the dot character.
func (r *Reveal) Glyph() string { return r.glyph }

// View renders the grid at the current frame. Each dot is two cells wide.
func (r *Reveal) View(width, height int) string {
	cols := width / 2
	if cols <= 0 || height <= 0 {
		return ""
	}
	progress := r.Progress()
	bg := lipgloss.NewStyle().Background(r.base)
	flick := uint32(r.frame / flickerEvery)

	rows := make([]string, height)
	for y := 0; y < height; y++ {
		var sb strings.Builder
		for x := 0; x < cols; x++ {
			if progress == 0 || r.threshold(x, y, cols, height) > progress {
				sb.WriteString(bg.Render("  "))
				continue
			}
			h := mix(uint32(x), uint32(y), r.seed, flick)
			c := r.colors[int(h%uint32(len(r.colors)))]
			op := opacities[int((h>>8)%uint32(len(opacities)))]
			sb.WriteString(bg.Foreground(theme.Dim(c, op)).Render(r.glyph + " "))
		}
		if width%2 == 1 {
			sb.WriteString(bg.Render(" "))
		}
		rows[y] = sb.String()
	}
	return strings.Join(rows, "\n")
}

// threshold is when a cell lights up: mostly its distance from the center,
// plus some jitter.
func (r *Reveal) threshold(x, y, cols, rows int) float64 {
	cx, cy := float64(cols-1)/2, float64(rows-1)/2
	maxDist := math.Hypot(cx, cy)
	dist := 0.0
	if maxDist > 0 {
		dist = math.Hypot(float64(x)-cx, float64(y)-cy) / maxDist
	}
	jitter := float64(mix(uint32(x), uint32(y), r.seed, 0xfeed)%1000) / 1000
	return 0.7*dist + 0.3*jitter
}

func mix(a, b, c, d uint32) uint32 {
	h := a*73856093 ^ b*19349663 ^ c*83492791 ^ d*2654435761
	h ^= h >> 13
	h *= 0x5bd1e995
	h ^= h >> 15
	return h
}

func dotGlyph(size int) string {
	if size == 0 {
		size = defaultDotSize
	}
	switch {
	case size <= 1:
		return "·"
	case size == 2:
		return "•"
	default:
		return "●"
	}
}

// containerColor maps the first background utility class to a color.
func containerColor(class string) color.Color {
	for _, tok := range strings.Fields(class) {
		if c, ok := containerColors[tok]; ok {
			return c
		}
	}
	return theme.BgCard
}
