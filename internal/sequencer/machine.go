package sequencer

// Machine is the sequencer's state: the active phase plus the per-stage
// seen flags. Seen flags only ever go from false to true.
type Machine struct {
	active Phase
	seen   [StageCount]bool
	ticks  int
}

// Active returns the active phase, PhaseNone before the first tick.
func (m *Machine) Active() Phase {
	return m.active
}

// HasSeen reports whether stage has been active at least once.
func (m *Machine) HasSeen(stage Phase) bool {
	if !stage.Valid() {
		return false
	}
	return m.seen[stage.Index()]
}

// Ticks returns the number of applied ticks.
func (m *Machine) Ticks() int {
	return m.ticks
}

// Advance applies one tick under the given policy. Run-once never moves past
// the last stage; the returned bool is false when nothing changed.
func (m *Machine) Advance(p Policy) (Phase, bool) {
	if p == RunOnce && m.active == LastPhase {
		return m.active, false
	}
	next := m.active.Next()
	m.active = next
	m.seen[next.Index()] = true
	m.ticks++
	return next, true
}

// Rewind clears the active phase so the timeline can start over. Seen flags
// are kept.
func (m *Machine) Rewind() {
	m.active = PhaseNone
}

// Finished reports whether a run-once timeline has reached its last stage.
func (m *Machine) Finished(p Policy) bool {
	return p == RunOnce && m.active == LastPhase
}
