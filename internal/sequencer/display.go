package sequencer

// Mode is what a stage card shows.
type Mode int

const (
	// ModeIdle shows the stage ordinal badge with no reveal effect.
	ModeIdle Mode = iota
	// ModeRevealed shows the stage title and description.
	ModeRevealed
)

func (m Mode) String() string {
	if m == ModeRevealed {
		return "revealed"
	}
	return "idle"
}

// Display is the render decision for one stage.
type Display struct {
	Mode          Mode
	Active        bool
	EffectMounted bool
}

// Decide maps a stage's (active, seen) pair to its display. A seen stage
// stays revealed and keeps its effect mounted after it stops being active.
func Decide(active, seen bool) Display {
	if !active && !seen {
		return Display{Mode: ModeIdle}
	}
	return Display{
		Mode:          ModeRevealed,
		Active:        active,
		EffectMounted: true,
	}
}
