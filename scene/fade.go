package scene

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/cadence/app"
	"github.com/lixenwraith/cadence/await"
	"github.com/lixenwraith/cadence/render"
	"github.com/lixenwraith/cadence/task"
)

// shades from light to solid, indexed by coverage
var shades = [...]rune{'░', '▒', '▓', '█'}

// FadeTransition covers the screen with shade blocks, swaps scenes, then uncovers it.
// Holds per-switch state, so create one per SwitchTo call
type FadeTransition struct {
	Out      time.Duration
	In       time.Duration
	Interval time.Duration
	Color    tcell.Color
	Phase    render.Phase

	coverage float64
	req      *render.Request
}

// NewFade returns a fade with 300ms out, 100ms hold and 300ms in
func NewFade() *FadeTransition {
	return &FadeTransition{
		Out:      300 * time.Millisecond,
		In:       300 * time.Millisecond,
		Interval: 100 * time.Millisecond,
		Color:    tcell.ColorBlack,
		Phase:    render.PhaseOverlay,
	}
}

// Coverage returns how much of the screen is shaded, 0 to 1
func (f *FadeTransition) Coverage() float64 {
	return f.coverage
}

func (f *FadeTransition) Leave(t *task.Task, rt *app.Runtime) error {
	f.req = rt.Executor.Register(func() { f.shade(rt.Screen) }, f.Phase)
	return await.Animate(t, rt.Timer, await.AnimOptions{Duration: f.Out}, func(fr await.AnimFrame) bool {
		f.coverage = fr.Ratio
		return true
	})
}

func (f *FadeTransition) Between(t *task.Task, rt *app.Runtime) error {
	f.coverage = 1
	return await.Sleep(t, rt.Timer, f.Interval)
}

func (f *FadeTransition) Enter(t *task.Task, rt *app.Runtime) error {
	return await.Animate(t, rt.Timer, await.AnimOptions{Duration: f.In}, func(fr await.AnimFrame) bool {
		f.coverage = 1 - fr.Ratio
		return true
	})
}

func (f *FadeTransition) Release() {
	if f.req != nil {
		f.req.Cancel()
		f.req = nil
	}
	f.coverage = 0
}

func (f *FadeTransition) shade(s tcell.Screen) {
	idx := int(f.coverage*float64(len(shades)+1)) - 1
	if idx < 0 {
		return
	}
	r := shades[min(idx, len(shades)-1)]
	w, h := s.Size()
	render.Fill(s, 0, 0, w, h, r, tcell.StyleDefault.Foreground(f.Color).Background(f.Color))
}
