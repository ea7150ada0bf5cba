package demo

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/cadence/app"
	"github.com/lixenwraith/cadence/audio"
	"github.com/lixenwraith/cadence/await"
	"github.com/lixenwraith/cadence/events"
	"github.com/lixenwraith/cadence/render"
	"github.com/lixenwraith/cadence/scene"
	"github.com/lixenwraith/cadence/task"
)

func titleScene() scene.Scene { return scene.Scene{Name: "title", Run: title} }
func ballScene() scene.Scene  { return scene.Scene{Name: "ball", Run: ball} }

// Scenes alternates between a title card and a bouncing ball; Enter switches with a fade
func Scenes(t *task.Task, rt *app.Runtime) error {
	sw := scene.NewSwitcher(rt.Logger)
	return sw.Run(t, titleScene(), rt)
}

// linger keeps a scene on screen until the switcher cancels it
func linger(t *task.Task) error {
	var never task.Event
	_, err := never.Wait(t)
	return err
}

func waitEnter(t *task.Task, rt *app.Runtime) error {
	_, err := await.Event(t, rt.Dispatcher, await.Filter(events.KeyIs(tcell.KeyEnter)))
	return err
}

func title(t *task.Task, sw *scene.Switcher, rt *app.Runtime) error {
	big := newLabel(rt.Drawer, "C A D E N C E", 0, tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true))
	defer big.Close()
	hint := newLabel(rt.Drawer, "enter: start   esc: quit", -1, tcell.StyleDefault.Dim(true))
	defer hint.Close()

	// Blink the hint until Enter
	blink := rt.Timer.ScheduleInterval(func(time.Duration) {
		hint.sprite.SetVisible(!hint.sprite.Visible())
	}, 500*time.Millisecond)
	defer blink.Cancel()

	if err := waitEnter(t, rt); err != nil {
		return err
	}
	rt.Audio.Play(audio.CueTick)
	sw.SwitchTo(ballScene(), scene.NewFade())
	return linger(t)
}

// Ball moves one cell per step and bounces off the screen edges
type Ball struct {
	X, Y   int
	DX, DY int
}

// Step advances the ball inside a w×h area
func (b *Ball) Step(w, h int) {
	if b.X+b.DX < 0 || b.X+b.DX >= w {
		b.DX = -b.DX
	}
	if b.Y+b.DY < 0 || b.Y+b.DY >= h {
		b.DY = -b.DY
	}
	b.X += b.DX
	b.Y += b.DY
}

func ball(t *task.Task, sw *scene.Switcher, rt *app.Runtime) error {
	b := &Ball{X: 1, Y: 1, DX: 1, DY: 1}
	sprite := render.NewSprite(rt.Drawer, func(s tcell.Screen) {
		s.SetContent(b.X, b.Y, '◉', nil, tcell.StyleDefault.Foreground(tcell.ColorRed))
	}, render.LayerEntities, true)
	defer sprite.Close()
	hint := newLabel(rt.Drawer, "enter: back   p: pause", -1, tcell.StyleDefault.Dim(true))
	defer hint.Close()

	pause := rt.Dispatcher.Subscribe([]events.Topic{events.TopicKey}, func(events.Event) bool {
		rt.Clock.Toggle()
		return events.StopDispatching
	}, -10)
	pause.SetFilter(events.RuneIs('p'))
	defer pause.Cancel()

	_, err := task.Race(t,
		func(c *task.Task) error {
			return await.Animate(c, rt.Timer, await.AnimOptions{Step: 50 * time.Millisecond}, func(await.AnimFrame) bool {
				w, h := rt.Screen.Size()
				b.Step(w, h-1)
				return true
			})
		},
		func(c *task.Task) error { return waitEnter(c, rt) },
	)
	if err != nil {
		return err
	}
	sw.SwitchTo(titleScene(), scene.NewFade())
	return linger(t)
}
