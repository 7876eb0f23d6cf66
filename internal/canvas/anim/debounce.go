package anim

import "time"

// Debouncer runs fn once wait has elapsed without another Trigger. Time is
// frame time, advanced by Advance.
type Debouncer struct {
	wait      time.Duration
	fn        func()
	remaining time.Duration
	armed     bool
}

// NewDebouncer returns a debouncer for fn.
func NewDebouncer(wait time.Duration, fn func()) *Debouncer {
	return &Debouncer{wait: wait, fn: fn}
}

// Trigger (re)starts the wait.
func (d *Debouncer) Trigger() {
	d.remaining = d.wait
	d.armed = true
}

// Cancel disarms a pending call.
func (d *Debouncer) Cancel() {
	d.armed = false
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	return d.armed
}

// Advance counts down and fires once the wait is over.
func (d *Debouncer) Advance(dt time.Duration) {
	if !d.armed {
		return
	}
	d.remaining -= dt
	if d.remaining > 0 {
		return
	}
	d.armed = false
	if d.fn != nil {
		d.fn()
	}
}
