package events

import (
	"slices"

	"github.com/lixenwraith/cadence/registry"
)

// StopDispatching, returned from a Func, keeps the event from lower-precedence subscribers
const StopDispatching = true

// Func receives a matching event. Returning true stops delivery of this event
type Func func(ev Event) bool

// Filter is a predicate an event must pass after topic matching
type Filter func(ev Event) bool

// AcceptAll is the default filter
func AcceptAll(Event) bool { return true }

// Handler processes routed events
// Components implement this interface to be registered on a Dispatcher
type Handler interface {
	// HandleEvent processes a single event
	// Called synchronously from Dispatch
	HandleEvent(ev Event)

	// Topics returns the topics this handler processes
	// The dispatcher uses this for registration
	Topics() []Topic
}

// Subscription is the handle for one registered subscriber
type Subscription struct {
	entry   *registry.Entry[*Subscription]
	fn      Func
	topics  []Topic
	filter  Filter
	consume bool
}

// Cancel unsubscribes. Idempotent
func (s *Subscription) Cancel() {
	s.entry.Cancel()
}

// Cancelled reports whether the subscription is gone
func (s *Subscription) Cancelled() bool {
	return s.entry.Cancelled()
}

// Priority returns the precedence key; lower values receive events first
func (s *Subscription) Priority() int {
	return s.entry.Priority()
}

// SetFunc replaces the callback, effective from the next matching event
func (s *Subscription) SetFunc(fn Func) {
	s.fn = fn
}

// SetTopics replaces the topic set. An empty set matches every topic
func (s *Subscription) SetTopics(topics ...Topic) {
	s.topics = slices.Clone(topics)
}

// Topics returns a copy of the topic set
func (s *Subscription) Topics() []Topic {
	return slices.Clone(s.topics)
}

// SetFilter replaces the predicate; nil restores AcceptAll
func (s *Subscription) SetFilter(f Filter) {
	if f == nil {
		f = AcceptAll
	}
	s.filter = f
}

// SetConsume makes an accepted event stop at this subscriber
func (s *Subscription) SetConsume(consume bool) {
	s.consume = consume
}

func (s *Subscription) matches(t Topic) bool {
	return len(s.topics) == 0 || slices.Contains(s.topics, t)
}

// Dispatcher delivers events to subscribers in priority order
//
// Architecture:
//   - Single-threaded dispatch, one event per cycle
//   - Subscribers added or changed during dispatch take effect from the next event
//   - Lower priority values are delivered first; equal priorities keep subscription order
//   - A subscriber can end delivery of the current event (consume)
type Dispatcher struct {
	subs       *registry.Registry[*Subscription]
	dispatched uint64
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{subs: registry.New[*Subscription]()}
}

// Subscribe registers fn for the given topics. An empty topic set matches every event
func (d *Dispatcher) Subscribe(topics []Topic, fn Func, priority int) *Subscription {
	s := &Subscription{
		fn:     fn,
		topics: slices.Clone(topics),
		filter: AcceptAll,
	}
	s.entry = d.subs.Add(s, priority)
	return s
}

// Register adds a handler for its declared topics
func (d *Dispatcher) Register(h Handler, priority int) *Subscription {
	return d.Subscribe(h.Topics(), func(ev Event) bool {
		h.HandleEvent(ev)
		return false
	}, priority)
}

// Dispatch delivers ev to every matching subscriber until one stops it
func (d *Dispatcher) Dispatch(ev Event) {
	d.dispatched++
	d.subs.Cycle(func(e *registry.Entry[*Subscription]) bool {
		s := e.Value
		if !s.matches(ev.Topic) || !s.filter(ev) {
			return false
		}
		stop := false
		if s.fn != nil {
			stop = s.fn(ev)
		}
		return stop || s.consume
	})
}

// Dispatched returns the number of events delivered so far
func (d *Dispatcher) Dispatched() uint64 {
	return d.dispatched
}

// Live returns the number of active subscriptions
func (d *Dispatcher) Live() int {
	return d.subs.Len()
}

// BlockInput swallows every input event at the given priority until the returned
// subscription is cancelled
func BlockInput(d *Dispatcher, priority int) *Subscription {
	return d.Subscribe(InputTopics, func(Event) bool { return StopDispatching }, priority)
}
