package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/boostup/folio/internal/content"
	"github.com/boostup/folio/internal/router"
	"github.com/boostup/folio/internal/screen"
	"github.com/boostup/folio/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	wordsStart   = 500 * time.Millisecond
	wordStagger  = 200 * time.Millisecond
	wordFade     = 1000 * time.Millisecond

	// highlightFrom is the first word index drawn in the accent color.
	highlightFrom = 4
)

type tickMsg time.Time

type wordState int

const (
	wordHidden wordState = iota
	wordFading
	wordShown
)

// WelcomeScreen shows the brand banner and generates the hero line word by
// word before handing over to the home screen.
type WelcomeScreen struct {
	site         content.Site
	words        []string
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(site content.Site, homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		site:        site,
		words:       strings.Fields(site.HeroWords),
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// totalDur is when the last word has fully faded in.
func (w *WelcomeScreen) totalDur() time.Duration {
	if len(w.words) == 0 {
		return wordsStart
	}
	return wordsStart + time.Duration(len(w.words)-1)*wordStagger + wordFade
}

// Done reports whether the whole hero line is visible.
func (w *WelcomeScreen) Done() bool {
	return w.elapsed >= w.totalDur()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < w.totalDur() {
			w.elapsed += tickInterval
		}
		if w.Done() {
			return w, nil
		}
		return w, tick()

	case tea.KeyPressMsg:
		// Any key skips the rest of the animation.
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

func (w *WelcomeScreen) wordAt(i int) wordState {
	start := wordsStart + time.Duration(i)*wordStagger
	switch {
	case w.elapsed < start:
		return wordHidden
	case w.elapsed < start+wordFade/2:
		return wordFading
	default:
		return wordShown
	}
}

func (w *WelcomeScreen) heroLine() string {
	parts := make([]string, len(w.words))
	for i, word := range w.words {
		style := theme.Body.Bold(true)
		if i >= highlightFrom {
			style = theme.Highlight
		}
		switch w.wordAt(i) {
		case wordHidden:
			parts[i] = strings.Repeat(" ", lipgloss.Width(word))
		case wordFading:
			parts[i] = style.Faint(true).Render(word)
		default:
			parts[i] = style.Render(word)
		}
	}
	return strings.Join(parts, " ")
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{
		lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(strings.ToUpper(w.site.Tagline)),
		"",
		RenderBanner(w.site.Brand, width),
		"",
		lipgloss.NewStyle().MaxWidth(width).Render(w.heroLine()),
	}

	if w.Done() {
		sections = append(sections, "",
			theme.Soft.Render(w.site.HeroSubtitle),
			"",
			theme.Hint.Render("press any key to continue"),
		)
	}

	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
