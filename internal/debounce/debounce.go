// Package debounce delays an action until its input has been quiet for a window.
//
// A Debouncer is keyed by generation: every Trigger and Cancel bumps the
// generation, and the fire callback receives the generation it was armed
// with. Owners that hop the fired value onto another goroutine (an event
// loop) call IsCurrent before acting, which closes the race where a timer
// fires just as Cancel runs.
package debounce

import (
	"sync"
	"time"
)

// Func receives the last triggered value and the generation it was armed with.
type Func[T any] func(value T, gen uint64)

// Debouncer coalesces bursts of Trigger calls into a single callback.
type Debouncer[T any] struct {
	window time.Duration
	fn     Func[T]

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// New creates a debouncer that calls fn once Trigger has not been called for window.
func New[T any](window time.Duration, fn Func[T]) *Debouncer[T] {
	return &Debouncer[T]{window: window, fn: fn}
}

// Trigger records value as the latest input and restarts the quiescence window.
func (d *Debouncer[T]) Trigger(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen

	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		d.fn(value, gen)
	})
}

// Cancel drops any pending value. It reports whether a callback was pending.
func (d *Debouncer[T]) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}

// Pending reports whether a callback is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// IsCurrent reports whether gen is still the latest generation, meaning no
// Trigger or Cancel happened after the callback carrying gen was armed.
func (d *Debouncer[T]) IsCurrent(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen == d.gen
}
