package sequencer

import (
	"sort"
	"sync"
	"time"
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop cancels the callback. It returns false if the callback already
	// ran (one-shot) or the timer was already stopped.
	Stop() bool
}

// Clock schedules callbacks.
type Clock interface {
	// AfterFunc runs f once after d.
	AfterFunc(d time.Duration, f func()) Timer
	// Every runs f every d at a fixed rate until stopped. The first call
	// happens after d.
	Every(d time.Duration, f func()) Timer
}

// SystemClock returns a Clock backed by the runtime timers.
func SystemClock() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (systemClock) Every(d time.Duration, f func()) Timer {
	tk := &ticker{
		t:    time.NewTicker(d),
		done: make(chan struct{}),
	}
	go tk.loop(f)
	return tk
}

// ticker drives a fixed-rate callback from one goroutine.
type ticker struct {
	t    *time.Ticker
	done chan struct{}
	once sync.Once
}

func (tk *ticker) loop(f func()) {
	for {
		select {
		case <-tk.done:
			return
		case <-tk.t.C:
			select {
			case <-tk.done:
				return
			default:
			}
			f()
		}
	}
}

func (tk *ticker) Stop() bool {
	stopped := false
	tk.once.Do(func() {
		tk.t.Stop()
		close(tk.done)
		stopped = true
	})
	return stopped
}

// ManualClock is a Clock whose time only moves when Advance is called.
// Callbacks run synchronously on the goroutine calling Advance, in deadline
// order.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	nextID uint64
	timers []*manualTimer
}

// NewManualClock returns a ManualClock reading start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

type manualTimer struct {
	clock  *ManualClock
	id     uint64
	when   time.Time
	period time.Duration
	f      func()
	done   bool
}

// Now returns the clock's current time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	return c.schedule(d, 0, f)
}

func (c *ManualClock) Every(d time.Duration, f func()) Timer {
	if d <= 0 {
		panic("sequencer: non-positive interval for ManualClock.Every")
	}
	return c.schedule(d, d, f)
}

func (c *ManualClock) schedule(d, period time.Duration, f func()) *manualTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	t := &manualTimer{
		clock:  c,
		id:     c.nextID,
		when:   c.now.Add(d),
		period: period,
		f:      f,
	}
	c.timers = append(c.timers, t)
	return t
}

// Pending returns the number of scheduled callbacks.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Advance moves the clock forward by d, firing every callback that falls due
// on the way. Callbacks may schedule or stop timers.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		t := c.nextDueLocked(target)
		if t == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = t.when
		if t.period > 0 {
			t.when = t.when.Add(t.period)
		} else {
			t.done = true
			c.removeLocked(t)
		}
		f := t.f
		c.mu.Unlock()

		f()
	}
}

func (c *ManualClock) nextDueLocked(target time.Time) *manualTimer {
	if len(c.timers) == 0 {
		return nil
	}
	sort.SliceStable(c.timers, func(i, j int) bool {
		a, b := c.timers[i], c.timers[j]
		if a.when.Equal(b.when) {
			return a.id < b.id
		}
		return a.when.Before(b.when)
	})
	if c.timers[0].when.After(target) {
		return nil
	}
	return c.timers[0]
}

func (c *ManualClock) removeLocked(t *manualTimer) {
	for i, other := range c.timers {
		if other == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return
		}
	}
}

func (t *manualTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	c.removeLocked(t)
	return true
}
