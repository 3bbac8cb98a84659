package home

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/boostup/folio/internal/content"
	"github.com/boostup/folio/internal/sequencer"
	"github.com/boostup/folio/internal/ui/components"
)

// minCardWidth is the narrowest card that still lays out side by side.
const minCardWidth = 30

// phaseMsg wakes the approach section after the sequencer applied a tick.
type phaseMsg struct {
	owner *approachSection
}

// approachSection owns the sequencer behind the "Our Approach" cards.
//
// The observer runs on the timer goroutine while the sequencer holds its
// lock, so it only does a non-blocking send on a one-slot channel. A waiting
// command turns that into a phaseMsg and the update loop reads the current
// snapshot, so coalesced wake-ups lose nothing.
type approachSection struct {
	seq    *sequencer.Sequencer
	wake   chan struct{}
	cards  []*components.StageCard
	snap   sequencer.Snapshot
	log    *zap.Logger
	closed bool
}

func newApproachSection(stages []content.Stage, cfg sequencer.Config, clock sequencer.Clock, log *zap.Logger) (*approachSection, error) {
	if len(stages) != sequencer.StageCount {
		return nil, fmt.Errorf("approach needs %d stages, got %d", sequencer.StageCount, len(stages))
	}

	a := &approachSection{
		wake: make(chan struct{}, 1),
		log:  log,
	}
	for i, st := range stages {
		a.cards = append(a.cards, components.NewStageCard(i+1, st))
	}

	opts := []sequencer.Option{
		sequencer.WithLogger(log),
		sequencer.WithObserver(func(sequencer.Snapshot) {
			select {
			case a.wake <- struct{}{}:
			default:
			}
		}),
	}
	if clock != nil {
		opts = append(opts, sequencer.WithClock(clock))
	}

	seq, err := sequencer.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	a.seq = seq
	return a, nil
}

// start kicks off the timeline and returns the waiting command.
func (a *approachSection) start() tea.Cmd {
	if err := a.seq.Start(); err != nil {
		a.log.Warn("approach start", zap.Error(err))
		return nil
	}
	return a.wait()
}

func (a *approachSection) wait() tea.Cmd {
	ch := a.wake
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return phaseMsg{owner: a}
	}
}

// sync applies the latest snapshot to the cards and returns the stages that
// were revealed by it.
func (a *approachSection) sync() []int {
	a.snap = a.seq.Snapshot()
	var revealed []int
	for _, st := range sequencer.Stages() {
		if a.cards[st.Index()].Apply(a.snap.Display(st)) {
			revealed = append(revealed, int(st))
		}
	}
	return revealed
}

// replay restarts a finished run-once timeline.
func (a *approachSection) replay() error {
	return a.seq.Replay()
}

// step advances every mounted effect one frame.
func (a *approachSection) step() {
	for _, c := range a.cards {
		c.Step()
	}
}

func (a *approachSection) animating() bool {
	for _, c := range a.cards {
		if c.EffectMounted() {
			return true
		}
	}
	return false
}

// close stops the sequencer and then releases the waiting command.
func (a *approachSection) close() {
	if a.closed {
		return
	}
	a.closed = true
	a.seq.Stop()
	close(a.wake)
}

func (a *approachSection) view(cw int) string {
	cards := make([]string, len(a.cards))
	cols := cw/minCardWidth >= len(a.cards)
	cardWidth := cw
	if cols {
		cardWidth = (cw - (len(a.cards) - 1)) / len(a.cards)
	}
	for i, c := range a.cards {
		cards[i] = c.View(cardWidth)
	}

	var row string
	if cols {
		spaced := make([]string, 0, 2*len(cards)-1)
		for i, c := range cards {
			if i > 0 {
				spaced = append(spaced, " ")
			}
			spaced = append(spaced, c)
		}
		row = lipgloss.JoinHorizontal(lipgloss.Top, spaced...)
	} else {
		row = strings.Join(cards, "\n")
	}

	progress := components.NewPhaseProgress(a.snap, cw).View()
	return strings.Join([]string{heading("Our", "Approach", cw), "", row, "", progress}, "\n")
}

// replayHint explains why a replay was refused.
func (a *approachSection) replayHint(err error) string {
	switch {
	case errors.Is(err, sequencer.ErrNotFinished) && a.seq.Config().Policy == sequencer.Cyclic:
		return "the approach loops on its own"
	case errors.Is(err, sequencer.ErrNotFinished):
		return "the approach is still playing"
	case errors.Is(err, sequencer.ErrNotStarted):
		return "the approach has not started yet"
	default:
		return "replay unavailable"
	}
}
