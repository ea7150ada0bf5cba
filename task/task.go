// Package task runs cooperative tasks on top of goroutines.
//
// Every task body runs on its own goroutine, but control is handed over
// explicitly: whoever starts or resumes a task blocks until the task suspends
// again or finishes. At any instant exactly one task body or one host callback
// is executing, so tasks may touch registries without locks.
package task

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/rs/xid"
)

var (
	// ErrCancelled is returned from Suspend inside a cancelled task
	ErrCancelled = errors.New("task: cancelled")

	// ErrDoubleResume is raised when a task that is not suspended is resumed
	ErrDoubleResume = errors.New("task: resumed while not suspended")
)

// State is the lifecycle phase of a task
type State int

const (
	StateRunning State = iota
	StateSuspended
	StateFinished
	StateCancelled
	StateFailed
)

var stateNames = [...]string{"running", "suspended", "finished", "cancelled", "failed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// PanicError wraps a panic raised inside a task body
type PanicError struct {
	Task  string
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task %s panicked: %v", e.Task, e.Value)
}

// Unwrap exposes a panicked error value to errors.Is/As
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

type resumeMsg struct {
	value  any
	cancel bool
}

type yieldMsg struct {
	finished bool
	err      error
	panicked *PanicError
}

// Func is a task body. Returning ErrCancelled (or an error wrapping it) marks the task cancelled
type Func func(t *Task) error

// Task is a cooperatively scheduled unit of work
type Task struct {
	id   xid.ID
	name string

	resume chan resumeMsg
	yield  chan yieldMsg

	state           State
	cancelRequested bool
	err             error
	onDone          []func(*Task)

	// set when a parent takes over re-raising this task's panic
	panicClaimed bool
}

// Start creates a task and runs it until its first suspension or completion.
// A panic inside fn is re-raised in the caller as *PanicError
func Start(name string, fn Func) *Task {
	t := &Task{
		id:     xid.New(),
		name:   name,
		resume: make(chan resumeMsg),
		yield:  make(chan yieldMsg),
		state:  StateSuspended,
	}

	go t.run(fn)
	t.step(resumeMsg{})
	return t
}

func (t *Task) run(fn Func) {
	msg := <-t.resume
	var out yieldMsg
	defer func() {
		if r := recover(); r != nil {
			out.panicked = &PanicError{Task: t.String(), Value: r, Stack: debug.Stack()}
			out.err = out.panicked
		}
		out.finished = true
		t.yield <- out
	}()

	if msg.cancel {
		out.err = ErrCancelled
		return
	}
	out.err = fn(t)
}

// step hands control to the task goroutine and blocks until it gives control back
func (t *Task) step(msg resumeMsg) {
	t.state = StateRunning
	t.resume <- msg
	out := <-t.yield

	if !out.finished {
		t.state = StateSuspended
		return
	}

	t.err = out.err
	switch {
	case out.panicked != nil:
		t.state = StateFailed
	case out.err == nil:
		t.state = StateFinished
	case errors.Is(out.err, ErrCancelled):
		t.state = StateCancelled
	default:
		t.state = StateFailed
	}

	callbacks := t.onDone
	t.onDone = nil
	for _, cb := range callbacks {
		cb(t)
	}

	if out.panicked != nil && !t.panicClaimed {
		panic(out.panicked)
	}
}

// Suspend parks the calling task until Resume or Cancel. Must be called from the task's own body
func (t *Task) Suspend() (any, error) {
	if t.cancelRequested {
		return nil, ErrCancelled
	}
	t.yield <- yieldMsg{}
	msg := <-t.resume
	if msg.cancel {
		return nil, ErrCancelled
	}
	return msg.value, nil
}

// Resume continues a suspended task with v as the result of its Suspend call.
// Blocks until the task suspends again or finishes
func (t *Task) Resume(v any) {
	if t.state != StateSuspended {
		panic(fmt.Errorf("%w: %s is %s", ErrDoubleResume, t, t.state))
	}
	t.step(resumeMsg{value: v})
}

// Cancel makes the pending or next Suspend return ErrCancelled.
// A suspended task is resumed immediately and runs its cleanup before Cancel returns
func (t *Task) Cancel() {
	switch t.state {
	case StateSuspended:
		t.cancelRequested = true
		t.step(resumeMsg{cancel: true})
	case StateRunning:
		t.cancelRequested = true
	}
}

// CancelRequested reports whether Cancel was called on a task still running
func (t *Task) CancelRequested() bool {
	return t.cancelRequested
}

// OnDone registers cb to run once the task finishes, in the goroutine that observed completion.
// Runs immediately if the task is already done
func (t *Task) OnDone(cb func(*Task)) {
	if t.Done() {
		cb(t)
		return
	}
	t.onDone = append(t.onDone, cb)
}

// ID returns the unique task identifier
func (t *Task) ID() xid.ID {
	return t.id
}

// Name returns the label given at Start
func (t *Task) Name() string {
	return t.name
}

// State returns the current lifecycle phase
func (t *Task) State() State {
	return t.state
}

// Done reports whether the task body has returned
func (t *Task) Done() bool {
	return t.state >= StateFinished
}

// Err returns the body's error once done
func (t *Task) Err() error {
	return t.err
}

func (t *Task) String() string {
	if t.name == "" {
		return t.id.String()
	}
	return t.name + "#" + t.id.String()
}
