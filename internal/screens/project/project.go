// Package project is the detail page for a single showcase project.
package project

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/boostup/folio/internal/content"
	"github.com/boostup/folio/internal/journal"
	"github.com/boostup/folio/internal/router"
	"github.com/boostup/folio/internal/screen"
	"github.com/boostup/folio/internal/ui/components"
	"github.com/boostup/folio/internal/ui/layout"
	"github.com/boostup/folio/internal/ui/theme"
)

// Options wires a project screen.
type Options struct {
	Content   *content.Content
	ID        int
	Journal   *journal.Recorder
	Clipboard components.ClipboardWriter
	Logger    *zap.Logger

	// Back builds the screen shown on esc, normally a fresh home scrolled
	// to the projects section.
	Back func() screen.Screen
	// Open builds the screen for another project id.
	Open func(id int) screen.Screen
}

// ProjectScreen shows one project with previous/next navigation.
type ProjectScreen struct {
	opts    Options
	project *content.Project
	prev    *content.Project
	next    *content.Project
	copied  bool
	log     *zap.Logger
}

var (
	_ screen.Screen          = (*ProjectScreen)(nil)
	_ screen.KeyHintProvider = (*ProjectScreen)(nil)
)

// New creates the screen. An unknown id yields the not-found view.
func New(opts Options) *ProjectScreen {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &ProjectScreen{opts: opts, log: log.Named("project")}
	if opts.Content == nil {
		return s
	}
	if p, err := opts.Content.Project(opts.ID); err == nil {
		s.project = &p
		s.prev, s.next = opts.Content.Neighbors(opts.ID)
	}
	return s
}

// Found reports whether the id resolved to a project.
func (s *ProjectScreen) Found() bool { return s.project != nil }

func (s *ProjectScreen) Init() tea.Cmd {
	if s.project == nil {
		s.log.Info("project not found", zap.Int("id", s.opts.ID))
		return nil
	}
	return s.opts.Journal.ProjectViewed(s.project.ID)
}

func (s *ProjectScreen) Title() string {
	if s.project == nil {
		return "Not Found"
	}
	return fmt.Sprintf("Project %d", s.project.ID)
}

func (s *ProjectScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Esc", Description: "Back to Home"}}
	if s.project == nil {
		return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if s.prev != nil || s.next != nil {
		hints = append(hints, layout.KeyHint{Key: "←→", Description: "Prev/Next"})
	}
	return append(hints,
		layout.KeyHint{Key: "c", Description: "Copy link"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
}

func (s *ProjectScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "esc", "b", "backspace":
		return s, s.replaceWith(s.opts.Back)
	case "left", "h":
		if s.prev != nil {
			return s, s.open(s.prev.ID)
		}
	case "right", "l":
		if s.next != nil {
			return s, s.open(s.next.ID)
		}
	case "c", "s", "enter":
		return s, s.copyLink()
	}
	return s, nil
}

func (s *ProjectScreen) open(id int) tea.Cmd {
	if s.opts.Open == nil {
		return nil
	}
	return s.replaceWith(func() screen.Screen { return s.opts.Open(id) })
}

func (s *ProjectScreen) replaceWith(build func() screen.Screen) tea.Cmd {
	if build == nil {
		return nil
	}
	next := build()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (s *ProjectScreen) copyLink() tea.Cmd {
	if s.project == nil || s.project.Link == "" {
		return nil
	}
	s.copied = true
	return tea.Batch(
		components.Copy(s.project.Link, s.opts.Clipboard),
		s.opts.Journal.LinkCopied(s.project.Link),
	)
}

func (s *ProjectScreen) View(width, height int) string {
	if s.project == nil {
		return s.notFoundView(width, height)
	}
	p := s.project

	cw := width - 8
	if cw > 100 {
		cw = 100
	}
	if cw < 20 {
		cw = 20
	}

	label := "Check Live Site"
	if s.copied {
		label = "Link is Copied!"
	}

	lines := []string{
		theme.Hint.Render("← Back to Home (esc)"),
		"",
		theme.Title.Width(cw).Render(p.Title),
		"",
		lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw).Align(lipgloss.Center).Render(p.Description),
		"",
		lipgloss.PlaceHorizontal(cw, lipgloss.Center, renderIcons(p.Icons)),
		"",
		lipgloss.PlaceHorizontal(cw, lipgloss.Center, theme.Soft.Render(p.Link)),
		"",
		lipgloss.PlaceHorizontal(cw, lipgloss.Center, components.NewButton(label, "↗", s.copied, nil).View()),
		"",
		s.navRow(cw),
	}

	card := theme.Card.BorderForeground(theme.Primary).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (s *ProjectScreen) navRow(cw int) string {
	left, right := "", ""
	if s.prev != nil {
		left = theme.Unselected.Render("← Previous Project")
	}
	if s.next != nil {
		right = theme.Unselected.Render("Next Project →")
	}
	gap := cw - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (s *ProjectScreen) notFoundView(width, height int) string {
	msg := theme.Problem.Render("404") + "\n\n" +
		theme.Body.Render(fmt.Sprintf("Project %d not found", s.opts.ID)) + "\n\n" +
		theme.Hint.Render("press esc to go back home")
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(msg)
}

func renderIcons(icons []string) string {
	pill := lipgloss.NewStyle().Foreground(theme.Accent).Background(theme.BgDark).Padding(0, 1)
	out := make([]string, len(icons))
	for i, ic := range icons {
		out[i] = pill.Render(ic)
	}
	return strings.Join(out, " ")
}
