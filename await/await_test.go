package await

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/cadence/events"
	"github.com/lixenwraith/cadence/render"
	"github.com/lixenwraith/cadence/task"
	"github.com/lixenwraith/cadence/timer"
)

const ms = time.Millisecond

func key(payload any) events.Event {
	return events.Event{Topic: events.TopicKey, Payload: payload}
}

func TestEvent_ResumesOnceAndReleases(t *testing.T) {
	d := events.NewDispatcher()
	var got events.Event
	tk := task.Start("wait-key", func(t *task.Task) error {
		ev, err := Event(t, d, On(events.TopicKey))
		got = ev
		return err
	})
	assert.Equal(t, 1, d.Live())

	d.Dispatch(events.Event{Topic: events.TopicMouse})
	assert.False(t, tk.Done())

	d.Dispatch(key("a"))
	require.True(t, tk.Done())
	assert.NoError(t, tk.Err())
	assert.Equal(t, "a", got.Payload)
	assert.Equal(t, 0, d.Live())

	// A second event after completion must not resume again
	assert.NotPanics(t, func() { d.Dispatch(key("b")) })
}

func TestEvent_FilterAndConsume(t *testing.T) {
	d := events.NewDispatcher()
	var later []any
	d.Subscribe(nil, func(ev events.Event) bool {
		later = append(later, ev.Payload)
		return false
	}, 10)

	tk := task.Start("wait-b", func(t *task.Task) error {
		_, err := Event(t, d,
			On(events.TopicKey),
			Filter(func(ev events.Event) bool { return ev.Payload == "b" }),
			Priority(0),
			Consume(),
		)
		return err
	})

	d.Dispatch(key("a"))
	d.Dispatch(key("b"))
	d.Dispatch(key("c"))

	require.True(t, tk.Done())
	// "b" was consumed by the waiting task
	assert.Equal(t, []any{"a", "c"}, later)
}

func TestEvent_CancelReleasesSubscription(t *testing.T) {
	d := events.NewDispatcher()
	tk := task.Start("cancelled", func(t *task.Task) error {
		_, err := Event(t, d)
		return err
	})
	require.Equal(t, 1, d.Live())

	tk.Cancel()
	assert.Equal(t, task.StateCancelled, tk.State())
	assert.True(t, errors.Is(tk.Err(), task.ErrCancelled))
	assert.Equal(t, 0, d.Live())
}

func TestEvents_DropsBetweenWaits(t *testing.T) {
	d := events.NewDispatcher()
	tm := timer.New()
	var got []any

	tk := task.Start("painter", func(t *task.Task) error {
		scope := Events(t, d, On(events.TopicKey))
		defer scope.Close()
		for len(got) < 2 {
			ev, err := scope.Next()
			if err != nil {
				return err
			}
			got = append(got, ev.Payload)
			// Away from the scope for one tick; events in between are lost
			if err := Sleep(t, tm, 10*ms); err != nil {
				return err
			}
		}
		return nil
	})

	d.Dispatch(key(1))
	d.Dispatch(key(2)) // task is sleeping
	tm.Progress(10 * ms)
	d.Dispatch(key(3))
	tm.Progress(10 * ms)

	require.True(t, tk.Done())
	assert.Equal(t, []any{1, 3}, got)
	assert.Equal(t, 0, d.Live())
	assert.Equal(t, 0, tm.Live())
}

func TestEvents_IdleScopeDoesNotConsume(t *testing.T) {
	d := events.NewDispatcher()
	seen := 0
	d.Subscribe(nil, func(events.Event) bool { seen++; return false }, 5)

	var scope *EventScope
	tm := timer.New()
	task.Start("idle", func(t *task.Task) error {
		scope = Events(t, d, Consume())
		return Sleep(t, tm, time.Hour)
	})

	d.Dispatch(key("x"))
	assert.Equal(t, 1, seen)
	scope.Close()
}

func TestSleep_ResumesAfterDuration(t *testing.T) {
	tm := timer.New()
	tk := task.Start("sleeper", func(t *task.Task) error {
		return Sleep(t, tm, 100*ms)
	})

	tm.Progress(60 * ms)
	assert.False(t, tk.Done())
	tm.Progress(40 * ms)
	assert.True(t, tk.Done())
	assert.NoError(t, tk.Err())
}

func TestSleep_CancelUnschedules(t *testing.T) {
	tm := timer.New()
	tk := task.Start("sleeper", func(t *task.Task) error {
		return Sleep(t, tm, 100*ms)
	})
	require.Equal(t, 1, tm.Live())

	tk.Cancel()
	assert.Equal(t, 0, tm.Live())
	assert.NotPanics(t, func() { tm.Progress(200 * ms) })
}

func TestTicks_DeliversDT(t *testing.T) {
	tm := timer.New()
	var dts []time.Duration
	tk := task.Start("ticker", func(t *task.Task) error {
		ticks := Ticks(t, tm, 100*ms)
		defer ticks.Close()
		for range 3 {
			dt, err := ticks.Next()
			if err != nil {
				return err
			}
			dts = append(dts, dt)
		}
		return nil
	})

	tm.Progress(40 * ms)
	tm.Progress(40 * ms)
	tm.Progress(40 * ms)
	tm.Progress(80 * ms)
	tm.Progress(100 * ms)

	require.True(t, tk.Done())
	assert.Equal(t, []time.Duration{120 * ms, 80 * ms, 100 * ms}, dts)
	assert.Equal(t, 0, tm.Live())
}

func TestFrame_WaitsForExecutor(t *testing.T) {
	ex := render.NewExecutor()
	var order []string
	ex.Register(func() { order = append(order, "clear") }, render.PhaseClear)
	ex.Register(func() { order = append(order, "draw") }, render.PhaseDraw)

	tk := task.Start("frame", func(t *task.Task) error {
		for range 2 {
			if err := Frame(t, ex, render.PhaseUpdate); err != nil {
				return err
			}
			order = append(order, "task")
		}
		return nil
	})

	ex.Run()
	ex.Run()
	ex.Run()

	require.True(t, tk.Done())
	// The second wait registers mid-frame and starts with the following frame
	assert.Equal(t, []string{"clear", "task", "draw", "clear", "task", "draw", "clear", "draw"}, order)
	assert.Equal(t, 2, ex.Live())
}

func TestMoveOnAfter(t *testing.T) {
	t.Run("timeout", func(t *testing.T) {
		tm := timer.New()
		d := events.NewDispatcher()
		var timedOut bool
		tk := task.Start("skip", func(tk *task.Task) error {
			var err error
			timedOut, err = MoveOnAfter(tk, tm, 50*ms, func(c *task.Task) error {
				_, err := Event(c, d)
				return err
			})
			return err
		})

		tm.Progress(50 * ms)
		require.True(t, tk.Done())
		assert.True(t, timedOut)
		assert.NoError(t, tk.Err())
		assert.Equal(t, 0, d.Live())
		assert.Equal(t, 0, tm.Live())
	})

	t.Run("completes first", func(t *testing.T) {
		tm := timer.New()
		d := events.NewDispatcher()
		var timedOut bool
		tk := task.Start("skip", func(tk *task.Task) error {
			var err error
			timedOut, err = MoveOnAfter(tk, tm, 50*ms, func(c *task.Task) error {
				_, err := Event(c, d)
				return err
			})
			return err
		})

		tm.Progress(10 * ms)
		d.Dispatch(key("skip"))
		require.True(t, tk.Done())
		assert.False(t, timedOut)
		assert.Equal(t, 0, tm.Live())
	})

	t.Run("propagates error", func(t *testing.T) {
		tm := timer.New()
		boom := errors.New("boom")
		var timedOut bool
		var got error
		task.Start("skip", func(tk *task.Task) error {
			timedOut, got = MoveOnAfter(tk, tm, 50*ms, func(*task.Task) error { return boom })
			return nil
		})
		assert.False(t, timedOut)
		assert.ErrorIs(t, got, boom)
		assert.Equal(t, 0, tm.Live())
	})
}

func TestAnimate_RatioReachesOne(t *testing.T) {
	tm := timer.New()
	var frames []AnimFrame
	tk := task.Start("fade", func(t *task.Task) error {
		return Animate(t, tm, AnimOptions{Duration: 100 * ms}, func(f AnimFrame) bool {
			frames = append(frames, f)
			return true
		})
	})

	for range 4 {
		tm.Progress(30 * ms)
	}

	require.True(t, tk.Done())
	require.Len(t, frames, 4)
	assert.InDelta(t, 0.3, frames[0].Ratio, 1e-9)
	assert.Equal(t, 90*ms, frames[2].Elapsed)
	assert.Equal(t, 1.0, frames[3].Ratio)
	assert.Equal(t, 0, tm.Live())
}

func TestAnimate_StopsWhenFnDeclines(t *testing.T) {
	tm := timer.New()
	calls := 0
	tk := task.Start("loop", func(tk *task.Task) error {
		return Animate(tk, tm, AnimOptions{Step: 10 * ms}, func(f AnimFrame) bool {
			calls++
			assert.Zero(t, f.Ratio)
			return calls < 3
		})
	})

	for range 10 {
		tm.Progress(10 * ms)
	}
	require.True(t, tk.Done())
	assert.Equal(t, 3, calls)
}
