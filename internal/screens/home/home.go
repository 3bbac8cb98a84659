package home

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"

	"github.com/boostup/folio/internal/content"
	"github.com/boostup/folio/internal/journal"
	"github.com/boostup/folio/internal/router"
	"github.com/boostup/folio/internal/screen"
	"github.com/boostup/folio/internal/sequencer"
	"github.com/boostup/folio/internal/ui/components"
	"github.com/boostup/folio/internal/ui/layout"
	"github.com/boostup/folio/internal/ui/theme"
)

const (
	frameInterval = 100 * time.Millisecond
	// chromeRows is the nav row plus the status row above the viewport.
	chromeRows  = 2
	sectionGap  = "\n\n\n"
	tabLabelMax = 24
)

// ErrNoContent is returned when the home screen is built without content.
var ErrNoContent = errors.New("home: no content")

type frameMsg struct {
	owner *HomeScreen
}

// Options wires the home screen.
type Options struct {
	Content   *content.Content
	Sequencer sequencer.Config
	Clock     sequencer.Clock // nil uses the system clock
	Logger    *zap.Logger
	Journal   *journal.Recorder
	Clipboard components.ClipboardWriter

	// OpenProject builds the detail screen that replaces home on enter.
	OpenProject func(id int) screen.Screen

	// Anchor scrolls to a nav anchor once the screen has a size.
	Anchor string
}

// HomeScreen is the single scrolling page. It owns the approach sequencer
// and tears it down in Dispose.
type HomeScreen struct {
	opts     Options
	c        *content.Content
	log      *zap.Logger
	approach *approachSection
	tabs     components.Menu

	vp      viewport.Model
	width   int
	height  int
	sized   bool
	offsets map[string]int

	anchor        int
	pendingAnchor string
	copied        bool
	status        string
	animating     bool
	disposed      bool
}

var (
	_ screen.Screen          = (*HomeScreen)(nil)
	_ screen.Disposer        = (*HomeScreen)(nil)
	_ screen.KeyHintProvider = (*HomeScreen)(nil)
)

// New creates a HomeScreen. The sequencer is created here and started in Init.
func New(opts Options) (*HomeScreen, error) {
	if opts.Content == nil {
		return nil, ErrNoContent
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("home")

	approach, err := newApproachSection(opts.Content.Stages, opts.Sequencer, opts.Clock, log)
	if err != nil {
		return nil, fmt.Errorf("approach: %w", err)
	}

	items := make([]components.MenuItem, len(opts.Content.Projects))
	for i, p := range opts.Content.Projects {
		items[i] = components.MenuItem{Label: ansi.Truncate(fmt.Sprintf("%d. %s", i+1, p.Title), tabLabelMax, "…")}
	}

	return &HomeScreen{
		opts:          opts,
		c:             opts.Content,
		log:           log,
		approach:      approach,
		tabs:          components.NewTabs(items),
		vp:            viewport.New(),
		anchor:        -1,
		pendingAnchor: opts.Anchor,
	}, nil
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.approach.start()
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// Dispose stops the approach timeline. Safe to call more than once.
func (h *HomeScreen) Dispose() {
	if h.disposed {
		return
	}
	h.disposed = true
	h.approach.close()
	h.log.Debug("disposed")
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Sections"},
		{Key: "←→", Description: "Project"},
		{Key: "Enter", Description: "Open"},
		{Key: "c", Description: "Copy email"},
		{Key: "r", Description: "Replay"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if h.disposed {
		return h, nil
	}

	switch msg := msg.(type) {
	case screen.ResizeMsg:
		h.resize(msg.Width, msg.Height)
		return h, nil

	case phaseMsg:
		if msg.owner != h.approach {
			return h, nil
		}
		cmds := []tea.Cmd{h.approach.wait()}
		for _, stage := range h.approach.sync() {
			h.log.Debug("stage revealed", zap.Int("stage", stage))
			cmds = append(cmds, h.opts.Journal.StageRevealed(stage))
		}
		cmds = append(cmds, h.startFrames())
		h.refresh()
		return h, tea.Batch(cmds...)

	case frameMsg:
		if msg.owner != h {
			return h, nil
		}
		h.approach.step()
		h.refresh()
		return h, h.nextFrame()

	case tea.KeyPressMsg:
		return h, h.handleKey(msg)

	case tea.MouseWheelMsg:
		var cmd tea.Cmd
		h.vp, cmd = h.vp.Update(msg)
		h.syncAnchor()
		return h, cmd
	}

	return h, nil
}

func (h *HomeScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	n := len(h.c.Nav)

	switch key {
	case "tab":
		if n > 0 {
			h.jump((h.anchor + 1) % n)
		}
		return nil
	case "shift+tab":
		if n > 0 {
			i := h.anchor - 1
			if i < 0 {
				i = n - 1
			}
			h.jump(i)
		}
		return nil
	case "left", "h":
		h.tabs.Prev()
		h.refresh()
		return nil
	case "right", "l":
		h.tabs.Next()
		h.refresh()
		return nil
	case "enter":
		return h.openSelected()
	case "c":
		return h.copyEmail()
	case "r":
		if err := h.approach.replay(); err != nil {
			h.status = h.approach.replayHint(err)
		} else {
			h.status = "replaying the approach"
			h.approach.sync()
			h.log.Debug("replay")
		}
		h.refresh()
		return nil
	case "home", "g":
		h.vp.GotoTop()
		h.syncAnchor()
		return nil
	case "end", "G":
		h.vp.GotoBottom()
		h.syncAnchor()
		return nil
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		if i := int(key[0] - '1'); i < n {
			h.jump(i)
		}
		return nil
	}

	var cmd tea.Cmd
	h.vp, cmd = h.vp.Update(msg)
	h.syncAnchor()
	return cmd
}

func (h *HomeScreen) openSelected() tea.Cmd {
	if h.opts.OpenProject == nil || len(h.c.Projects) == 0 {
		return nil
	}
	p := h.c.Projects[h.tabs.Selected]
	next := h.opts.OpenProject(p.ID)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (h *HomeScreen) copyEmail() tea.Cmd {
	email := h.c.Site.Email
	h.copied = true
	h.status = "Email is Copied!"
	h.refresh()
	return tea.Batch(
		components.Copy(email, h.opts.Clipboard),
		h.opts.Journal.EmailCopied(email),
	)
}

// jump scrolls to the i-th nav anchor.
func (h *HomeScreen) jump(i int) {
	h.anchor = i
	if off, ok := h.offsets[h.c.Nav[i].Anchor]; ok {
		h.vp.SetYOffset(off)
	}
}

// jumpTo scrolls to a named anchor.
func (h *HomeScreen) jumpTo(anchor string) bool {
	for i, item := range h.c.Nav {
		if item.Anchor == anchor {
			h.jump(i)
			return true
		}
	}
	return false
}

// syncAnchor highlights the last anchor at or above the viewport top.
func (h *HomeScreen) syncAnchor() {
	y := h.vp.YOffset()
	best, bestOff := -1, -1
	for i, item := range h.c.Nav {
		off, ok := h.offsets[item.Anchor]
		if ok && off <= y && off > bestOff {
			best, bestOff = i, off
		}
	}
	h.anchor = best
}

func (h *HomeScreen) startFrames() tea.Cmd {
	if h.animating || !h.approach.animating() {
		return nil
	}
	h.animating = true
	return h.nextFrame()
}

func (h *HomeScreen) nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{owner: h}
	})
}

func (h *HomeScreen) resize(width, height int) {
	h.width, h.height = width, height
	h.vp.SetWidth(width)
	h.vp.SetHeight(max(1, height-chromeRows))
	h.sized = true
	h.refresh()
	if h.pendingAnchor != "" {
		if !h.jumpTo(h.pendingAnchor) {
			h.log.Warn("unknown anchor", zap.String("anchor", h.pendingAnchor))
		}
		h.pendingAnchor = ""
	}
}

func (h *HomeScreen) refresh() {
	if !h.sized {
		return
	}
	page, offsets := h.render(h.width)
	h.offsets = offsets
	h.vp.SetContent(page)
}

// render builds the whole page and records the first line of each anchor.
func (h *HomeScreen) render(width int) (string, map[string]int) {
	cw := contentWidth(width)
	c := h.c

	type section struct {
		anchor string
		body   string
	}
	sections := []section{
		{"", renderHero(c.Site, cw)},
		{"about", renderAbout(c.Grid, cw)},
		{"projects", renderProjects(c.Projects, h.tabs, cw)},
		{"testimonials", renderTestimonials(c.Testimonials, c.Companies, cw)},
		{"experience", renderExperience(c.Experience, cw)},
		{"approach", h.approach.view(cw)},
		{"blogs", renderBlogs(c.Blogs, cw)},
		{"contact", renderContact(c.Site, c.Social, h.copied, cw)},
	}

	offsets := make(map[string]int, len(sections))
	var sb strings.Builder
	line := 0
	for i, s := range sections {
		if i > 0 {
			sb.WriteString(sectionGap)
			line += strings.Count(sectionGap, "\n")
		}
		if s.anchor != "" {
			offsets[s.anchor] = line
		}
		body := lipgloss.PlaceHorizontal(width, lipgloss.Center, s.body)
		sb.WriteString(body)
		line += lipgloss.Height(body) - 1
	}
	return sb.String(), offsets
}

func (h *HomeScreen) View(width, height int) string {
	names := make([]string, len(h.c.Nav))
	for i, item := range h.c.Nav {
		names[i] = item.Name
	}
	nav := layout.RenderNav(names, h.anchor, width)

	status := ""
	if h.status != "" {
		style := theme.Hint
		if h.copied && h.status == "Email is Copied!" {
			style = theme.Copied
		}
		status = lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(h.status))
	}

	var body string
	if h.sized {
		body = h.vp.View()
	} else {
		page, _ := h.render(width)
		body = lipgloss.NewStyle().MaxHeight(max(1, height-chromeRows)).Render(page)
	}
	return nav + "\n" + status + "\n" + body
}
