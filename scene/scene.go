// Package scene runs one scene task at a time and switches between scenes
// through transitions.
package scene

import (
	"github.com/rs/zerolog"

	"github.com/lixenwraith/cadence/app"
	"github.com/lixenwraith/cadence/events"
	"github.com/lixenwraith/cadence/status"
	"github.com/lixenwraith/cadence/task"
)

// Scene is a named task body managed by a Switcher
type Scene struct {
	Name string
	Run  func(t *task.Task, sw *Switcher, rt *app.Runtime) error
}

// Transition animates a scene switch in three parts
//
//	current scene ---------|           |------------ next scene
//	                 Leave | Between   | Enter
//
// Leave runs while the current scene is still alive, Between after it was cancelled,
// and Enter alongside the next scene. Release frees anything the transition holds and
// is always called, even when the switch is cancelled midway
type Transition interface {
	Leave(t *task.Task, rt *app.Runtime) error
	Between(t *task.Task, rt *app.Runtime) error
	Enter(t *task.Task, rt *app.Runtime) error
	Release()
}

type noTransition struct{}

func (noTransition) Leave(*task.Task, *app.Runtime) error   { return nil }
func (noTransition) Between(*task.Task, *app.Runtime) error { return nil }
func (noTransition) Enter(*task.Task, *app.Runtime) error   { return nil }
func (noTransition) Release()                               {}

// NoTransition switches instantly
var NoTransition Transition = noTransition{}

type request struct {
	next       Scene
	transition Transition
}

// Switcher owns the running scene
//
// Architecture:
//   - Run is the switcher's own task; it parks on a one-waiter event between switches
//   - SwitchTo fires the event, so the switch starts synchronously inside the caller
//   - Requests made while a switch is in progress are dropped
//   - Input is blocked for the whole switch
type Switcher struct {
	requests  task.Event
	switching bool
	current   *task.Task
	currentID string

	// InputPriority is the dispatcher priority of the input block held during a switch
	InputPriority int

	logger zerolog.Logger
}

// NewSwitcher creates an idle switcher
func NewSwitcher(logger zerolog.Logger) *Switcher {
	return &Switcher{
		InputPriority: app.QuitPriority + 2,
		logger:        logger.With().Str("component", "scene").Logger(),
	}
}

// SwitchTo asks the switcher to move to next. Ignored while a switch is running or
// before Run has started. A scene calling this on itself should return soon after,
// since it is cancelled at its next suspension
func (s *Switcher) SwitchTo(next Scene, tr Transition) {
	if s.switching || !s.requests.Waiting() {
		s.logger.Debug().Str("scene", next.Name).Msg("switch request ignored")
		return
	}
	if tr == nil {
		tr = NoTransition
	}
	s.requests.Fire(request{next: next, transition: tr})
}

// Switching reports whether a transition is in progress
func (s *Switcher) Switching() bool {
	return s.switching
}

// Current returns the name of the active scene
func (s *Switcher) Current() string {
	return s.currentID
}

// Run starts first and serves switch requests until t is cancelled
func (s *Switcher) Run(t *task.Task, first Scene, rt *app.Runtime) error {
	defer func() {
		if s.current != nil && !s.current.Done() {
			s.current.Cancel()
		}
	}()
	s.start(first, rt)

	for {
		v, err := s.requests.Wait(t)
		if err != nil {
			return err
		}
		req := v.(request)

		s.switching = true
		err = s.switchTo(t, req, rt)
		s.switching = false
		if err != nil {
			return err
		}
	}
}

func (s *Switcher) switchTo(t *task.Task, req request, rt *app.Runtime) error {
	s.logger.Info().Str("from", s.currentID).Str("to", req.next.Name).Msg("switching scene")

	block := events.BlockInput(rt.Dispatcher, s.InputPriority)
	defer block.Cancel()
	defer req.transition.Release()

	if err := req.transition.Leave(t, rt); err != nil {
		return err
	}
	if s.current != nil {
		s.current.Cancel()
	}
	if err := req.transition.Between(t, rt); err != nil {
		return err
	}
	s.start(req.next, rt)
	return req.transition.Enter(t, rt)
}

func (s *Switcher) start(sc Scene, rt *app.Runtime) {
	s.currentID = sc.Name
	rt.Stats.Strings.Get(status.SceneCurrent).Store(sc.Name)
	s.current = task.Start("scene/"+sc.Name, func(st *task.Task) error {
		return sc.Run(st, s, rt)
	})
	s.current.OnDone(func(st *task.Task) {
		s.logger.Debug().Str("task", st.String()).Stringer("state", st.State()).Err(st.Err()).Msg("scene ended")
	})
}
