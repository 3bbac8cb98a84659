package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/boostup/folio/internal/content"
	"github.com/boostup/folio/internal/journal"
	"github.com/boostup/folio/internal/router"
	"github.com/boostup/folio/internal/screen"
	"github.com/boostup/folio/internal/screens/home"
	"github.com/boostup/folio/internal/screens/placeholder"
	"github.com/boostup/folio/internal/screens/project"
	"github.com/boostup/folio/internal/screens/welcome"
	"github.com/boostup/folio/internal/sequencer"
	"github.com/boostup/folio/internal/store"
	"github.com/boostup/folio/internal/ui/components"
	"github.com/boostup/folio/internal/ui/layout"
)

// ErrNoContent is returned when the app is built without content.
var ErrNoContent = errors.New("app: no content")

// sessionEndTimeout bounds the final journal write after the program exits.
const sessionEndTimeout = 2 * time.Second

// Options holds dependencies for the app.
type Options struct {
	Content   *content.Content
	Sequencer sequencer.Config
	Clock     sequencer.Clock // nil uses the system clock
	Logger    *zap.Logger
	Journal   *journal.Recorder // nil disables the visit journal
	Clipboard components.ClipboardWriter

	// StartProject opens the detail page of this project id instead of the
	// welcome screen. Zero means start normally.
	StartProject int
	// SkipWelcome starts on the home page.
	SkipWelcome bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	log    *zap.Logger
	router *router.Router
	width  int
	height int
}

// New validates the options and builds the model with its first screen.
func New(opts Options) (AppModel, error) {
	if opts.Content == nil {
		return AppModel{}, ErrNoContent
	}
	if err := opts.Sequencer.Validate(); err != nil {
		return AppModel{}, err
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	m := AppModel{opts: opts, log: opts.Logger.Named("app")}
	m.router = router.New(m.initialScreen())
	return m, nil
}

func (m AppModel) initialScreen() screen.Screen {
	switch {
	case m.opts.StartProject != 0:
		return m.projectScreen(m.opts.StartProject)
	case m.opts.SkipWelcome:
		return m.homeScreen("")
	default:
		return welcome.New(m.opts.Content.Site, func() screen.Screen {
			return m.homeScreen("")
		})
	}
}

// homeScreen mounts a fresh home page. Every mount owns a new sequencer, so
// the seen stages start over.
func (m AppModel) homeScreen(anchor string) screen.Screen {
	h, err := home.New(home.Options{
		Content:     m.opts.Content,
		Sequencer:   m.opts.Sequencer,
		Clock:       m.opts.Clock,
		Logger:      m.opts.Logger,
		Journal:     m.opts.Journal,
		Clipboard:   m.opts.Clipboard,
		OpenProject: m.projectScreen,
		Anchor:      anchor,
	})
	if err != nil {
		m.log.Error("mount home", zap.Error(err))
		return placeholder.New("Home", err.Error())
	}
	return h
}

func (m AppModel) projectScreen(id int) screen.Screen {
	return project.New(project.Options{
		Content:   m.opts.Content,
		ID:        id,
		Journal:   m.opts.Journal,
		Clipboard: m.opts.Clipboard,
		Logger:    m.opts.Logger,
		Back: func() screen.Screen {
			return m.homeScreen("projects")
		},
		Open: m.projectScreen,
	})
}

func (m AppModel) Init() tea.Cmd {
	var cmd tea.Cmd
	if active := m.router.Active(); active != nil {
		cmd = active.Init()
	}
	return tea.Batch(cmd, m.opts.Journal.Cmd(store.KindSessionStart, ""))
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.router.Update(m.contentSize())

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case router.PushScreenMsg, router.PopScreenMsg, router.ReplaceScreenMsg:
		cmd := m.router.Update(msg)
		// The new top screen has not seen the window size yet.
		return m, tea.Batch(cmd, m.router.Update(m.contentSize()))
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// contentSize is the area between the header and the footer.
func (m AppModel) contentSize() screen.ResizeMsg {
	header := layout.RenderHeader(m.brand(), m.title(), m.status(), m.width)
	footer := layout.RenderFooter(m.hints(), m.width)
	h := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if h < 0 {
		h = 0
	}
	return screen.ResizeMsg{Width: m.width, Height: h}
}

func (m AppModel) brand() string {
	return m.opts.Content.Site.Brand
}

func (m AppModel) title() string {
	if active := m.router.Active(); active != nil {
		return active.Title()
	}
	return ""
}

func (m AppModel) status() string {
	return m.opts.Sequencer.Policy.String()
}

func (m AppModel) hints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	return []layout.KeyHint{
		{Key: "Any key", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

// render draws the full frame, or nothing before the first window size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	header := layout.RenderHeader(m.brand(), m.title(), m.status(), m.width)
	footer := layout.RenderFooter(m.hints(), m.width)

	size := m.contentSize()
	content := m.router.View(size.Width, size.Height)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Close disposes every mounted screen, which stops the home sequencer.
func (m AppModel) Close() {
	m.router.Close()
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	endCtx, cancel := context.WithTimeout(context.Background(), sessionEndTimeout)
	defer cancel()
	_ = opts.Journal.Record(endCtx, store.KindSessionEnd, "")

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
