package debounce

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid triggers into a single deferred execution.
// Each Trigger cancels any pending scheduled run and schedules a new one
// after the configured delay, so only the last trigger within the delay
// window actually executes. This backs the search-as-you-type flow where
// analysis runs once typing pauses.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a debouncer with the given delay.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the delay, superseding any previously
// scheduled function that has not yet fired.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending scheduled function.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
