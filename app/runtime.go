// Package app hosts the frame loop: it pumps terminal input into the event
// dispatcher, advances the timer and runs the per-frame executor.
package app

import (
	"errors"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/cadence/audio"
	"github.com/lixenwraith/cadence/clock"
	"github.com/lixenwraith/cadence/config"
	"github.com/lixenwraith/cadence/events"
	"github.com/lixenwraith/cadence/offload"
	"github.com/lixenwraith/cadence/render"
	"github.com/lixenwraith/cadence/status"
	"github.com/lixenwraith/cadence/task"
	"github.com/lixenwraith/cadence/timer"
)

// ErrQuit may be returned by a main task to end the run without reporting an error
var ErrQuit = errors.New("app: quit")

// Main is the body of the application's root task
type Main func(t *task.Task, rt *Runtime) error

// Runtime bundles the services shared by every task of one host.
// Everything except Queue, Stats and Quit must only be used from task bodies
// and callbacks, which the host runs one at a time
type Runtime struct {
	Dispatcher *events.Dispatcher
	Timer      *timer.Timer
	Executor   *render.Executor
	Drawer     *render.Drawer[tcell.Screen]
	Screen     tcell.Screen
	Clock      *clock.PausableClock
	Audio      *audio.Player
	Offload    *offload.Pool
	Stats      *status.Registry
	Logger     zerolog.Logger
	Config     config.Config

	// Queue accepts events from any goroutine; they are dispatched on the next frame
	Queue *events.Queue

	quit atomic.Bool
}

// Quit asks the host to stop after the current frame. Safe from any goroutine
func (rt *Runtime) Quit() {
	rt.quit.Store(true)
}

// Quitting reports whether Quit was called
func (rt *Runtime) Quitting() bool {
	return rt.quit.Load()
}

// Post queues a user event for dispatch on the next frame. Safe from any goroutine
func (rt *Runtime) Post(topic events.Topic, payload any) {
	rt.Queue.Push(events.Event{Topic: topic, Payload: payload})
}
