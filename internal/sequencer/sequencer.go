// Package sequencer drives the three-stage approach timeline: it activates
// one stage at a time on a fixed cadence and remembers which stages have
// already played their reveal.
package sequencer

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrInvalidConfig  = errors.New("invalid sequencer config")
	ErrAlreadyStarted = errors.New("sequencer already started")
	ErrNotStarted     = errors.New("sequencer not started")
	ErrNotFinished    = errors.New("sequencer timeline still running")
	ErrStopped        = errors.New("sequencer stopped")
)

// Observer is called after every applied tick with the new state. Observers
// run while the sequencer holds its lock: they must not block and must not
// call back into the Sequencer.
type Observer func(Snapshot)

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithClock sets the clock used to schedule ticks.
func WithClock(c Clock) Option {
	return func(s *Sequencer) { s.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Sequencer) { s.log = l }
}

// WithObserver registers an observer for applied ticks.
func WithObserver(o Observer) Option {
	return func(s *Sequencer) { s.observers = append(s.observers, o) }
}

type runState int

const (
	stateIdle runState = iota
	stateRunning
	stateDone
	stateStopped
)

// Sequencer owns the active phase and the seen set. Only its timer callbacks
// mutate them; everything else reads snapshots.
type Sequencer struct {
	cfg       Config
	clock     Clock
	log       *zap.Logger
	observers []Observer

	mu      sync.Mutex
	machine Machine
	state   runState
	timer   Timer
	// epoch is bumped whenever pending work is invalidated. A callback
	// scheduled under an older epoch is a no-op.
	epoch uint64
}

// New creates a Sequencer. It does not schedule anything until Start.
func New(cfg Config, opts ...Option) (*Sequencer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Sequencer{
		cfg:   cfg,
		clock: SystemClock(),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns the timeline settings.
func (s *Sequencer) Config() Config {
	return s.cfg
}

// Start schedules the first tick.
func (s *Sequencer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case stateStopped:
		return ErrStopped
	case stateRunning, stateDone:
		return ErrAlreadyStarted
	}
	s.state = stateRunning
	s.scheduleLocked()
	s.log.Debug("sequencer started",
		zap.Stringer("policy", s.cfg.Policy),
		zap.Duration("cadence", s.cfg.Cadence),
		zap.Duration("initial_delay", s.cfg.InitialDelay))
	return nil
}

// Replay restarts a finished run-once timeline from the beginning. Seen
// flags are kept, so replayed stages show their settled content.
func (s *Sequencer) Replay() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case stateStopped:
		return ErrStopped
	case stateIdle:
		return ErrNotStarted
	case stateRunning:
		return ErrNotFinished
	}
	s.epoch++
	s.machine.Rewind()
	s.state = stateRunning
	s.scheduleLocked()
	s.log.Debug("sequencer replay", zap.Int("ticks", s.machine.Ticks()))
	return nil
}

// Stop cancels all pending work. Once Stop returns, no tick is applied and no
// observer is called. Stop is idempotent.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateStopped {
		return
	}
	s.epoch++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.state = stateStopped
	s.log.Debug("sequencer stopped", zap.Int("ticks", s.machine.Ticks()))
}

// Snapshot returns a copy of the current state.
func (s *Sequencer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Sequencer) scheduleLocked() {
	epoch := s.epoch
	fire := func() { s.tick(epoch) }

	if s.cfg.Policy == Cyclic {
		s.timer = s.clock.Every(s.cfg.Cadence, fire)
		return
	}
	s.timer = s.clock.AfterFunc(s.cfg.InitialDelay, fire)
}

func (s *Sequencer) tick(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch || s.state != stateRunning {
		return
	}

	phase, changed := s.machine.Advance(s.cfg.Policy)
	if !changed {
		return
	}

	if s.cfg.Policy == RunOnce {
		if s.machine.Finished(RunOnce) {
			s.timer = nil
			s.state = stateDone
		} else {
			fire := func() { s.tick(epoch) }
			s.timer = s.clock.AfterFunc(s.cfg.Cadence, fire)
		}
	}

	s.log.Debug("sequencer tick",
		zap.Stringer("phase", phase),
		zap.Int("tick", s.machine.Ticks()))

	snap := s.snapshotLocked()
	for _, o := range s.observers {
		o(snap)
	}
}

func (s *Sequencer) snapshotLocked() Snapshot {
	return Snapshot{
		Active:  s.machine.Active(),
		Seen:    s.machine.seen,
		Ticks:   s.machine.Ticks(),
		Running: s.state == stateRunning,
		Done:    s.state == stateDone,
		Stopped: s.state == stateStopped,
	}
}

// Snapshot is a read-only copy of the sequencer state.
type Snapshot struct {
	Active  Phase
	Seen    [StageCount]bool
	Ticks   int
	Running bool
	Done    bool
	Stopped bool
}

// IsActive reports whether stage is the active one.
func (s Snapshot) IsActive(stage Phase) bool {
	return stage.Valid() && s.Active == stage
}

// HasSeen reports whether stage has played its reveal.
func (s Snapshot) HasSeen(stage Phase) bool {
	return stage.Valid() && s.Seen[stage.Index()]
}

// SeenSet lists the seen stages in order.
func (s Snapshot) SeenSet() []Phase {
	var out []Phase
	for _, p := range Stages() {
		if s.HasSeen(p) {
			out = append(out, p)
		}
	}
	return out
}

// Display returns the render decision for stage.
func (s Snapshot) Display(stage Phase) Display {
	return Decide(s.IsActive(stage), s.HasSeen(stage))
}
