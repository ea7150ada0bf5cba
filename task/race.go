package task

import (
	"errors"
	"fmt"
)

// Race runs fns as child tasks of t and suspends t until the first of them finishes.
// The remaining children are cancelled synchronously before Race returns, so any
// registry entries they hold are released. The winner index and its error are returned.
// If t is cancelled while waiting, every child is cancelled and ErrCancelled is returned.
// A child that panics fails t with the same panic instead of returning it as an error
func Race(t *Task, fns ...Func) (int, error) {
	if len(fns) == 0 {
		return -1, errors.New("task: race without contenders")
	}

	children := make([]*Task, 0, len(fns))
	winner := -1
	waiting := false
	var failure *PanicError

	defer func() {
		for _, c := range children {
			c.Cancel()
		}
	}()

	for i, fn := range fns {
		c := Start(fmt.Sprintf("%s/race%d", t.name, i), fn)
		children = append(children, c)
		c.OnDone(func(c *Task) {
			// Only the first completion is ever delivered
			if winner >= 0 {
				return
			}
			winner = i
			var pe *PanicError
			if c.state == StateFailed && errors.As(c.err, &pe) && pe.Task == c.String() {
				c.panicClaimed = true
				failure = pe
			}
			if waiting {
				t.Resume(nil)
			}
		})
		if winner >= 0 {
			break
		}
	}

	if winner < 0 {
		waiting = true
		_, err := t.Suspend()
		waiting = false
		if failure != nil {
			panic(failure)
		}
		if err != nil {
			return -1, err
		}
	}

	return winner, children[winner].Err()
}

// Event hands a value to at most one waiting task. Firing with no waiter is a no-op
type Event struct {
	waiter *Task
}

// Wait suspends t until the next Fire
func (e *Event) Wait(t *Task) (any, error) {
	if e.waiter != nil && e.waiter != t {
		panic(fmt.Errorf("task: event already awaited by %s", e.waiter))
	}
	e.waiter = t
	defer func() {
		if e.waiter == t {
			e.waiter = nil
		}
	}()
	return t.Suspend()
}

// Fire resumes the waiting task with v
func (e *Event) Fire(v any) {
	w := e.waiter
	if w == nil {
		return
	}
	e.waiter = nil
	w.Resume(v)
}

// Waiting reports whether a task is parked on the event
func (e *Event) Waiting() bool {
	return e.waiter != nil
}
