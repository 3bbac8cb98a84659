package sequencer

import (
	"fmt"
	"time"
)

const (
	// DefaultCadence is the run-once period between stage activations.
	DefaultCadence = 3000 * time.Millisecond
	// DefaultInitialDelay is the pause before the run-once sequence activates
	// its first stage.
	DefaultInitialDelay = 500 * time.Millisecond
	// CyclicCadence is the fixed rate of the cyclic policy.
	CyclicCadence = 1200 * time.Millisecond
)

// Config holds the timeline settings.
type Config struct {
	Policy       Policy
	Cadence      time.Duration
	InitialDelay time.Duration
}

// DefaultConfig returns the run-once timeline: 500ms delay, then one stage
// every 3s, stopping after the last stage.
func DefaultConfig() Config {
	return Config{
		Policy:       RunOnce,
		Cadence:      DefaultCadence,
		InitialDelay: DefaultInitialDelay,
	}
}

// CyclicConfig returns the repeating timeline: one stage every 1.2s, forever.
func CyclicConfig() Config {
	return Config{
		Policy:  Cyclic,
		Cadence: CyclicCadence,
	}
}

// ConfigFor returns the default configuration for a policy.
func ConfigFor(p Policy) Config {
	if p == Cyclic {
		return CyclicConfig()
	}
	return DefaultConfig()
}

// Validate checks the timeline settings.
func (c Config) Validate() error {
	if c.Policy != RunOnce && c.Policy != Cyclic {
		return fmt.Errorf("%w: unknown policy %s", ErrInvalidConfig, c.Policy)
	}
	if c.Cadence <= 0 {
		return fmt.Errorf("%w: cadence must be positive, got %v", ErrInvalidConfig, c.Cadence)
	}
	if c.InitialDelay < 0 {
		return fmt.Errorf("%w: initial delay must not be negative, got %v", ErrInvalidConfig, c.InitialDelay)
	}
	if c.Policy == Cyclic && c.InitialDelay != 0 {
		return fmt.Errorf("%w: cyclic policy runs on a fixed rate and takes no initial delay", ErrInvalidConfig)
	}
	return nil
}
