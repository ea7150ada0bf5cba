package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"runtime/debug"
	"sync/atomic"
	"time"

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

// QuitPriority is the dispatcher priority of the auto-quit handler; it sees input before anything else
const QuitPriority = math.MinInt

// Option customizes a Host
type Option func(*Host)

// WithLogger sets the host logger
func WithLogger(l zerolog.Logger) Option {
	return func(h *Host) { h.rt.Logger = l }
}

// WithTimeProvider replaces the system clock, mainly for tests
func WithTimeProvider(p clock.TimeProvider) Option {
	return func(h *Host) { h.provider = p }
}

// WithAudio sets the cue player
func WithAudio(p *audio.Player) Option {
	return func(h *Host) { h.rt.Audio = p }
}

// Host drives one Runtime
//
// Architecture:
//   - Input pump goroutine: screen.PollEvent -> Queue (lock-free MPSC)
//   - Frame: drain queue -> Dispatch each event -> Timer.Progress(dt) -> Executor.Run
//   - Executor phases: screen clear, drawer, overlays, screen show
//   - All task bodies and callbacks run on the frame goroutine, one at a time
type Host struct {
	rt       *Runtime
	provider clock.TimeProvider

	frameCount *atomic.Int64
	fps        *status.Float
	dispatched *atomic.Int64
	dropped    *atomic.Int64
	timerLive  *atomic.Int64
	execLive   *atomic.Int64
	paused     *atomic.Bool

	fpsWindow time.Duration
	fpsFrames int
}

// New builds a host over an uninitialized screen and initializes it
func New(cfg config.Config, screen tcell.Screen, opts ...Option) (*Host, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	h := &Host{
		rt: &Runtime{
			Dispatcher: events.NewDispatcher(),
			Timer:      timer.New(),
			Executor:   render.NewExecutor(),
			Drawer:     render.NewDrawer[tcell.Screen](),
			Screen:     screen,
			Stats:      status.NewRegistry(),
			Logger:     zerolog.Nop(),
			Config:     cfg,
			Queue:      events.NewQueue(),
		},
	}
	for _, opt := range opts {
		opt(h)
	}

	rt := h.rt
	rt.Clock = clock.NewPausable(h.provider)
	if rt.Audio == nil {
		rt.Audio = audio.NewPlayer(false, rt.Logger)
	}
	rt.Offload = offload.NewPool(runtime.NumCPU(), rt.Logger)

	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("app: init screen: %w", err)
	}
	screen.EnableMouse()
	screen.EnablePaste()

	h.bindMetrics()
	h.registerPipeline()
	return h, nil
}

// Runtime returns the services shared with tasks
func (h *Host) Runtime() *Runtime {
	return h.rt
}

func (h *Host) bindMetrics() {
	s := h.rt.Stats
	h.frameCount = s.Ints.Get(status.FrameCount)
	h.fps = s.Floats.Get(status.FrameFPS)
	h.dispatched = s.Ints.Get(status.EventsDispatched)
	h.dropped = s.Ints.Get(status.EventsDropped)
	h.timerLive = s.Ints.Get(status.TimerLive)
	h.execLive = s.Ints.Get(status.ExecLive)
	h.paused = s.Bools.Get(status.ClockPaused)
}

func (h *Host) registerPipeline() {
	rt := h.rt
	rt.Executor.Register(rt.Screen.Clear, render.PhaseClear)
	rt.Executor.Register(func() { rt.Drawer.Draw(rt.Screen) }, render.PhaseDraw)
	rt.Executor.Register(rt.Screen.Show, render.PhaseFlip)

	if rt.Config.Debug {
		rt.Drawer.Add(h.drawOverlay, render.LayerDebug)
	}

	if rt.Config.AutoQuit {
		sub := rt.Dispatcher.Subscribe([]events.Topic{events.TopicKey}, func(events.Event) bool {
			rt.Logger.Info().Msg("quit requested from keyboard")
			rt.Quit()
			return events.StopDispatching
		}, QuitPriority)
		sub.SetFilter(func(ev events.Event) bool {
			return events.KeyIs(tcell.KeyEscape)(ev) || events.KeyIs(tcell.KeyCtrlC)(ev)
		})
	}

	rt.Dispatcher.Subscribe([]events.Topic{events.TopicResize}, func(events.Event) bool {
		rt.Screen.Sync()
		return false
	}, QuitPriority+1)
}

const overlayWidth = 40

// drawOverlay prints every metric in the top-right corner
func (h *Host) drawOverlay(s tcell.Screen) {
	w, _ := s.Size()
	style := tcell.StyleDefault.Foreground(tcell.ColorYellow).Dim(true)
	for i, line := range h.rt.Stats.Lines() {
		render.Text(s, max(w-overlayWidth, 0), i, line, style)
	}
}

// Frame runs one host tick with dt of game time
func (h *Host) Frame(dt time.Duration) {
	rt := h.rt

	batch := rt.Queue.Consume()
	if warn := rt.Config.QueueWarn; warn > 0 && len(batch) >= warn {
		rt.Logger.Warn().Int("depth", len(batch)).Msg("input queue backlog")
	}
	for _, ev := range batch {
		rt.Dispatcher.Dispatch(ev)
	}

	rt.Timer.Progress(dt)
	rt.Executor.Run()

	h.publish(dt)
}

func (h *Host) publish(dt time.Duration) {
	rt := h.rt
	h.frameCount.Add(1)
	h.dispatched.Store(int64(rt.Dispatcher.Dispatched()))
	h.dropped.Store(int64(rt.Queue.Dropped()))
	h.timerLive.Store(int64(rt.Timer.Live()))
	h.execLive.Store(int64(rt.Executor.Live()))
	h.paused.Store(rt.Clock.IsPaused())

	h.fpsWindow += dt
	h.fpsFrames++
	if h.fpsWindow >= time.Second {
		h.fps.Store(float64(h.fpsFrames) / h.fpsWindow.Seconds())
		h.fpsWindow, h.fpsFrames = 0, 0
	}
}

// Run starts main as the root task and paces frames until it finishes, Quit is
// called or ctx ends. The main task is cancelled if still running on exit.
// A panic in any task or callback ends the run and is returned as an error
func (h *Host) Run(ctx context.Context, main Main) (err error) {
	rt := h.rt
	defer rt.Screen.Fini()

	var root *task.Task
	defer func() {
		if r := recover(); r != nil {
			rt.Logger.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("frame loop crashed")
			err = fmt.Errorf("app: crashed: %v", r)
			h.cancelRoot(root)
			return
		}
		if cerr := h.cancelRoot(root); cerr != nil {
			err = cerr
			return
		}
		if root != nil && err == nil {
			err = rootErr(root)
		}
	}()

	go h.pump()

	root = task.Start("main", func(t *task.Task) error { return main(t, rt) })
	root.OnDone(func(*task.Task) { rt.Quit() })

	ticker := time.NewTicker(rt.Config.FrameInterval())
	defer ticker.Stop()
	rt.Clock.Delta()

	for !rt.Quitting() {
		select {
		case <-ctx.Done():
			rt.Logger.Info().Err(ctx.Err()).Msg("context done")
			return nil
		case <-ticker.C:
			h.Frame(rt.Clock.Delta())
		}
	}
	return nil
}

// cancelRoot cancels the root task if it is still suspended so its registry
// entries are released. A panic raised by its cleanup is returned as an error
func (h *Host) cancelRoot(root *task.Task) (err error) {
	if root == nil || root.Done() {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			h.rt.Logger.Error().Interface("panic", r).Msg("main task cleanup crashed")
			err = fmt.Errorf("app: crashed: %v", r)
		}
	}()
	root.Cancel()
	return nil
}

func rootErr(root *task.Task) error {
	err := root.Err()
	if err == nil || errors.Is(err, task.ErrCancelled) || errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

// pump forwards terminal events until the screen is finalized
func (h *Host) pump() {
	for {
		ev := h.rt.Screen.PollEvent()
		if ev == nil {
			return
		}
		h.rt.Queue.Push(events.FromTcell(ev))
	}
}
