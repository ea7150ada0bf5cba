package demo

import (
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/cadence/app"
	"github.com/lixenwraith/cadence/audio"
	"github.com/lixenwraith/cadence/await"
	"github.com/lixenwraith/cadence/events"
	"github.com/lixenwraith/cadence/task"
)

// CountdownFrom is the first number shown by Countdown
const CountdownFrom = 3

// Countdown counts down once per second with a tick cue, then chimes.
// Any key skips the rest of the count and 'p' pauses game time.
// After the chime the next key ends the program
func Countdown(t *task.Task, rt *app.Runtime) error {
	title := newLabel(rt.Drawer, strconv.Itoa(CountdownFrom), 0, tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true))
	defer title.Close()
	hint := newLabel(rt.Drawer, "any key: skip   p: pause   esc: quit", -1, tcell.StyleDefault.Dim(true))
	defer hint.Close()

	pause := rt.Dispatcher.Subscribe([]events.Topic{events.TopicKey}, func(events.Event) bool {
		paused := rt.Clock.Toggle()
		rt.Logger.Debug().Bool("paused", paused).Msg("pause toggled")
		return events.StopDispatching
	}, -10)
	pause.SetFilter(events.RuneIs('p'))
	defer pause.Cancel()

	n := CountdownFrom
	rt.Audio.Play(audio.CueTick)
	ticker := rt.Timer.ScheduleInterval(func(time.Duration) {
		n--
		if n > 0 {
			title.Set(strconv.Itoa(n))
			rt.Audio.Play(audio.CueTick)
		}
	}, time.Second)
	defer ticker.Cancel()

	timedOut, err := await.MoveOnAfter(t, rt.Timer, CountdownFrom*time.Second, func(c *task.Task) error {
		_, err := await.Event(c, rt.Dispatcher, await.On(events.TopicKey))
		return err
	})
	if err != nil {
		return err
	}
	ticker.Cancel()
	if !timedOut {
		rt.Audio.Play(audio.CueBuzz)
		rt.Logger.Info().Int("remaining", n).Msg("countdown skipped")
	}

	title.Set("GO!")
	hint.Set("press any key to exit")
	rt.Audio.Play(audio.CueChime)

	if _, err := await.Event(t, rt.Dispatcher, await.On(events.TopicKey)); err != nil {
		return err
	}
	return app.ErrQuit
}
