// Package await lets a task suspend until an event, a timer or a frame arrives.
//
// Every awaitable registers exactly one entry in the owning registry and releases
// it on every exit path: normal resumption, cancellation or panic.
package await

import (
	"time"

	"github.com/lixenwraith/cadence/events"
	"github.com/lixenwraith/cadence/render"
	"github.com/lixenwraith/cadence/task"
	"github.com/lixenwraith/cadence/timer"
)

// Option configures an event wait
type Option func(*options)

type options struct {
	topics   []events.Topic
	filter   events.Filter
	priority int
	consume  bool
}

// On restricts the wait to the given topics. No topics means every event
func On(topics ...events.Topic) Option {
	return func(o *options) { o.topics = append(o.topics, topics...) }
}

// Filter accepts only events for which f returns true
func Filter(f events.Filter) Option {
	return func(o *options) { o.filter = f }
}

// Priority sets the subscription priority. Lower values see events first
func Priority(p int) Option {
	return func(o *options) { o.priority = p }
}

// Consume stops delivery of a matched event to later subscribers
func Consume() Option {
	return func(o *options) { o.consume = true }
}

func collect(opts []Option) options {
	o := options{filter: events.AcceptAll}
	for _, opt := range opts {
		opt(&o)
	}
	if o.filter == nil {
		o.filter = events.AcceptAll
	}
	return o
}

// Event suspends t until the dispatcher delivers one matching event
func Event(t *task.Task, d *events.Dispatcher, opts ...Option) (events.Event, error) {
	o := collect(opts)
	delivered := false
	sub := d.Subscribe(o.topics, func(ev events.Event) bool {
		if delivered {
			return false
		}
		delivered = true
		t.Resume(ev)
		return o.consume
	}, o.priority)
	sub.SetFilter(o.filter)
	defer sub.Cancel()

	v, err := t.Suspend()
	if err != nil {
		return events.Event{}, err
	}
	return v.(events.Event), nil
}

// EventScope keeps one subscription alive across repeated waits.
// Events arriving while the task is not inside Next are dropped and never consumed
type EventScope struct {
	t       *task.Task
	sub     *events.Subscription
	consume bool
}

func ignore(events.Event) bool { return false }

// Events opens a scope for repeated waits on the same dispatcher
func Events(t *task.Task, d *events.Dispatcher, opts ...Option) *EventScope {
	o := collect(opts)
	sub := d.Subscribe(o.topics, ignore, o.priority)
	sub.SetFilter(o.filter)
	return &EventScope{t: t, sub: sub, consume: o.consume}
}

// Next suspends until the next matching event
func (s *EventScope) Next() (events.Event, error) {
	s.sub.SetFunc(func(ev events.Event) bool {
		s.sub.SetFunc(ignore)
		s.t.Resume(ev)
		return s.consume
	})
	defer s.sub.SetFunc(ignore)

	v, err := s.t.Suspend()
	if err != nil {
		return events.Event{}, err
	}
	return v.(events.Event), nil
}

// Close releases the subscription. Idempotent
func (s *EventScope) Close() {
	s.sub.Cancel()
}

// Sleep suspends t for d of timer time
func Sleep(t *task.Task, tm *timer.Timer, d time.Duration) error {
	ev := tm.ScheduleOnce(func(time.Duration) { t.Resume(nil) }, d)
	defer ev.Cancel()

	_, err := t.Suspend()
	return err
}

// TickScope delivers periodic timer ticks to one task
type TickScope struct {
	t       *task.Task
	ev      *timer.Event
	waiting bool
}

// Ticks opens a periodic timer scope. A zero interval ticks on every Progress.
// Ticks that fire while the task is not inside Next are dropped
func Ticks(t *task.Task, tm *timer.Timer, interval time.Duration) *TickScope {
	s := &TickScope{t: t}
	s.ev = tm.ScheduleInterval(func(dt time.Duration) {
		if !s.waiting {
			return
		}
		s.waiting = false
		s.t.Resume(dt)
	}, interval)
	return s
}

// Next suspends until the next tick and returns the time since the previous one
func (s *TickScope) Next() (time.Duration, error) {
	s.waiting = true
	v, err := s.t.Suspend()
	s.waiting = false
	if err != nil {
		return 0, err
	}
	return v.(time.Duration), nil
}

// Close cancels the periodic timer. Idempotent
func (s *TickScope) Close() {
	s.ev.Cancel()
}

// Frame suspends t until the executor reaches priority in its next frame
func Frame(t *task.Task, ex *render.Executor, priority int) error {
	var req *render.Request
	req = ex.Register(func() {
		req.Cancel()
		t.Resume(nil)
	}, priority)
	defer req.Cancel()

	_, err := t.Suspend()
	return err
}

// MoveOnAfter runs fn as a child of t with a time limit. When the limit expires first,
// fn is cancelled and timedOut is true. Otherwise fn's own error is returned
func MoveOnAfter(t *task.Task, tm *timer.Timer, timeout time.Duration, fn task.Func) (timedOut bool, err error) {
	winner, err := task.Race(t, fn, func(c *task.Task) error {
		return Sleep(c, tm, timeout)
	})
	if winner == 1 {
		return true, nil
	}
	return false, err
}
