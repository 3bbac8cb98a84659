package app

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boostup/folio/internal/content"
	"github.com/boostup/folio/internal/journal"
	"github.com/boostup/folio/internal/router"
	"github.com/boostup/folio/internal/sequencer"
	"github.com/boostup/folio/internal/store"
)

func newTestModel(t *testing.T, mut func(*Options)) (AppModel, *sequencer.ManualClock) {
	t.Helper()
	clock := sequencer.NewManualClock(time.Unix(0, 0))
	opts := Options{
		Content:   content.MustDefault(),
		Sequencer: sequencer.DefaultConfig(),
		Clock:     clock,
		Clipboard: func(string) error { return nil },
	}
	if mut != nil {
		mut(&opts)
	}
	m, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m, clock
}

func resize(m AppModel, w, h int) AppModel {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return updated.(AppModel)
}

func TestNewValidates(t *testing.T) {
	_, err := New(Options{})
	assert.ErrorIs(t, err, ErrNoContent)

	_, err = New(Options{Content: content.MustDefault(), Sequencer: sequencer.Config{}})
	assert.ErrorIs(t, err, sequencer.ErrInvalidConfig)
}

func TestInitialScreen(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*Options)
		title string
	}{
		{"welcome", nil, ""},
		{"skip welcome", func(o *Options) { o.SkipWelcome = true }, "Home"},
		{"start project", func(o *Options) { o.StartProject = 2 }, "Project 2"},
		{"unknown project", func(o *Options) { o.StartProject = 99 }, "Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t, tt.mut)
			assert.Equal(t, tt.title, m.title())
		})
	}
}

func TestContentSizeExcludesChrome(t *testing.T) {
	m, _ := newTestModel(t, func(o *Options) { o.SkipWelcome = true })
	m = resize(m, 120, 40)

	size := m.contentSize()
	assert.Equal(t, 120, size.Width)
	assert.Less(t, size.Height, 40)
	assert.Greater(t, size.Height, 30)
}

func TestCtrlCQuits(t *testing.T) {
	m, _ := newTestModel(t, nil)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView(t *testing.T) {
	m, _ := newTestModel(t, func(o *Options) { o.StartProject = 1 })

	assert.Empty(t, m.render(), "nothing to draw before the first size")

	m = resize(m, 120, 40)
	out := ansi.Strip(m.render())
	assert.Contains(t, out, "BoostUp")
	assert.Contains(t, out, "Project 1")
	assert.Contains(t, out, "run-once")
	assert.Contains(t, out, "Copy link")

	m = resize(m, 40, 10)
	assert.Contains(t, ansi.Strip(m.render()), "Terminal too small")
}

func TestBackToHomeMountsFreshSequencer(t *testing.T) {
	m, clock := newTestModel(t, func(o *Options) { o.StartProject = 3 })
	m = resize(m, 120, 40)
	assert.Equal(t, 0, clock.Pending())

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, router.ReplaceScreenMsg{}, msg)

	updated, _ := m.Update(msg)
	m = updated.(AppModel)
	assert.Equal(t, "Home", m.title())
	assert.Equal(t, 1, clock.Pending(), "home started its timeline")

	out := ansi.Strip(m.render())
	assert.Contains(t, out, "[3 Projects]", "home is anchored at projects")

	m.Close()
	assert.Equal(t, 0, clock.Pending(), "closing the app stops the timeline")
}

func TestReplaceHomeStopsTimeline(t *testing.T) {
	m, clock := newTestModel(t, func(o *Options) { o.SkipWelcome = true })
	m = resize(m, 120, 40)
	_ = m.router.Active().Init()
	require.Equal(t, 1, clock.Pending())

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	m = updated.(AppModel)

	assert.Equal(t, "Project 1", m.title())
	assert.Equal(t, 0, clock.Pending())
}

func TestSessionJournal(t *testing.T) {
	name := strings.ReplaceAll(t.Name(), "/", "_")
	st, err := store.Open("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	rec := journal.New(st.EventRepo(), nil)
	m, _ := newTestModel(t, func(o *Options) {
		o.StartProject = 2
		o.Journal = rec
	})

	cmd := m.Init()
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if c != nil {
			assert.Nil(t, c())
		}
	}

	events, err := st.EventRepo().Recent(context.Background(), store.QueryOpts{SessionID: rec.SessionID()})
	require.NoError(t, err)
	kinds := make([]store.VisitKind, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
	}
	assert.ElementsMatch(t, []store.VisitKind{store.KindSessionStart, store.KindProjectViewed}, kinds)
}
