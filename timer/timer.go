// Package timer schedules one-shot and periodic callbacks against a simulated
// clock that the host advances once per frame.
package timer

import (
	"time"

	"github.com/lixenwraith/cadence/registry"
)

// Callback receives the time elapsed since the event last fired (or was scheduled)
type Callback func(dt time.Duration)

const oneShot time.Duration = -1

// Event is the handle returned by ScheduleOnce and ScheduleInterval
type Event struct {
	entry    *registry.Entry[*Event]
	callback Callback

	deadline time.Duration
	lastTick time.Duration
	interval time.Duration // oneShot for non-repeating events
}

// Cancel unschedules the event. Idempotent
func (e *Event) Cancel() {
	e.entry.Cancel()
}

// Cancelled reports whether the event will never fire again
func (e *Event) Cancelled() bool {
	return e.entry.Cancelled()
}

// SetCallback swaps the function invoked on firing. Harmless on a cancelled event
func (e *Event) SetCallback(cb Callback) {
	e.callback = cb
}

// Deadline returns the clock value at which the event next becomes due
func (e *Event) Deadline() time.Duration {
	return e.deadline
}

// Interval returns the repeat period, or zero and false for one-shot events
func (e *Event) Interval() (time.Duration, bool) {
	if e.interval == oneShot {
		return 0, false
	}
	return e.interval, true
}

// Timer is a deadline scheduler driven by Progress
type Timer struct {
	now    time.Duration
	events *registry.Registry[*Event]
	fired  uint64
}

// New creates a timer with its clock at zero
func New() *Timer {
	return &Timer{events: registry.New[*Event]()}
}

// Now returns the simulated clock value
func (t *Timer) Now() time.Duration {
	return t.now
}

// Live returns the number of scheduled, non-cancelled events
func (t *Timer) Live() int {
	return t.events.Len()
}

// Fired returns the total number of callback invocations
func (t *Timer) Fired() uint64 {
	return t.fired
}

// ScheduleOnce calls cb once, delay after now. A zero delay fires on the next Progress
func (t *Timer) ScheduleOnce(cb Callback, delay time.Duration) *Event {
	return t.schedule(cb, delay, oneShot)
}

// ScheduleInterval calls cb every interval, starting interval from now.
// A zero interval fires on every Progress
func (t *Timer) ScheduleInterval(cb Callback, interval time.Duration) *Event {
	if interval < 0 {
		interval = 0
	}
	return t.schedule(cb, interval, interval)
}

func (t *Timer) schedule(cb Callback, delay, interval time.Duration) *Event {
	if delay < 0 {
		delay = 0
	}
	ev := &Event{
		callback: cb,
		deadline: t.now + delay,
		lastTick: t.now,
		interval: interval,
	}
	ev.entry = t.events.Add(ev, 0)
	return ev
}

// Progress advances the clock by dt and fires every event whose deadline has been reached.
// Events scheduled by a firing callback wait for the next Progress call
func (t *Timer) Progress(dt time.Duration) {
	t.now += dt
	now := t.now

	t.events.Cycle(func(e *registry.Entry[*Event]) bool {
		ev := e.Value
		if ev.deadline > now {
			return false
		}

		if ev.interval == oneShot {
			e.Cancel()
		} else {
			// Fixed phase: next deadline derives from the previous one, not from now
			ev.deadline += ev.interval
		}
		elapsed := now - ev.lastTick
		ev.lastTick = now

		t.fired++
		if ev.callback != nil {
			ev.callback(elapsed)
		}
		return false
	})
}
