package sequencer

import (
	"fmt"
	"strings"
)

// StageCount is the fixed number of stages in the approach sequence.
const StageCount = 3

// Phase identifies the active stage. PhaseNone means the sequence has not
// activated any stage yet.
type Phase int

const (
	PhaseNone Phase = iota
	PhasePlanning
	PhaseExecution
	PhaseAnalytics
)

// FirstPhase and LastPhase bound the stage ordinals.
const (
	FirstPhase = PhasePlanning
	LastPhase  = PhaseAnalytics
)

// Stages returns the stage ordinals in display order.
func Stages() []Phase {
	return []Phase{PhasePlanning, PhaseExecution, PhaseAnalytics}
}

// Valid reports whether p names one of the stages.
func (p Phase) Valid() bool {
	return p >= FirstPhase && p <= LastPhase
}

// Index returns the zero-based slot of a valid phase.
func (p Phase) Index() int {
	return int(p) - 1
}

// Next returns the phase after p, wrapping from the last stage to the first.
func (p Phase) Next() Phase {
	if p >= LastPhase || p < FirstPhase {
		return FirstPhase
	}
	return p + 1
}

func (p Phase) String() string {
	if !p.Valid() {
		return "none"
	}
	return fmt.Sprintf("phase %d", int(p))
}

// Policy selects how the timeline walks through the stages.
type Policy int

const (
	// RunOnce activates 1, 2, 3 once, each step scheduling the next.
	RunOnce Policy = iota
	// Cyclic activates 1, 2, 3, 1, ... on a fixed-rate repeating timer.
	Cyclic
)

func (p Policy) String() string {
	switch p {
	case RunOnce:
		return "run-once"
	case Cyclic:
		return "cyclic"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy parses a policy name as accepted by flags and content files.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "run-once", "runonce", "once":
		return RunOnce, nil
	case "cyclic", "cycle", "loop":
		return Cyclic, nil
	default:
		return 0, fmt.Errorf("%w: unknown policy %q (want run-once or cyclic)", ErrInvalidConfig, s)
	}
}
