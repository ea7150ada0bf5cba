package demo

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/cadence/app"
	"github.com/lixenwraith/cadence/audio"
	"github.com/lixenwraith/cadence/await"
	"github.com/lixenwraith/cadence/events"
	"github.com/lixenwraith/cadence/render"
	"github.com/lixenwraith/cadence/task"
)

type point struct{ x, y int }

// Canvas is the set of painted cells
type Canvas struct {
	cells map[point]struct{}
}

func newCanvas() *Canvas {
	return &Canvas{cells: make(map[point]struct{})}
}

// Paint marks x,y
func (c *Canvas) Paint(x, y int) {
	c.cells[point{x, y}] = struct{}{}
}

// Clear removes every mark
func (c *Canvas) Clear() {
	clear(c.cells)
}

// Len returns the number of painted cells
func (c *Canvas) Len() int {
	return len(c.cells)
}

// String renders the painted area as rows of '#' and ' '
func (c *Canvas) String() string {
	if len(c.cells) == 0 {
		return ""
	}
	pts := slices.Collect(maps.Keys(c.cells))
	maxX, maxY := 0, 0
	for _, p := range pts {
		maxX, maxY = max(maxX, p.x), max(maxY, p.y)
	}
	var b strings.Builder
	for y := 0; y <= maxY; y++ {
		row := make([]byte, maxX+1)
		for x := range row {
			row[x] = ' '
			if _, ok := c.cells[point{x, y}]; ok {
				row[x] = '#'
			}
		}
		b.WriteString(strings.TrimRight(string(row), " "))
		b.WriteByte('\n')
	}
	return b.String()
}

func (c *Canvas) draw(s tcell.Screen) {
	style := tcell.StyleDefault.Foreground(tcell.ColorOrange)
	for p := range c.cells {
		s.SetContent(p.x, p.y, '●', nil, style)
	}
}

// PainterFile is where the painter saves its canvas
var PainterFile = filepath.Join(os.TempDir(), "cadence-painting.txt")

// Painter paints while the left button is held and clears on right click.
// 's' saves the canvas to PainterFile on a background worker
func Painter(t *task.Task, rt *app.Runtime) error {
	canvas := newCanvas()
	sprite := render.NewSprite(rt.Drawer, canvas.draw, render.LayerEntities, true)
	defer sprite.Close()
	status := newLabel(rt.Drawer, "drag: paint   right click: clear   s: save   esc: quit", -1, tcell.StyleDefault.Dim(true))
	defer status.Close()

	clearSub := rt.Dispatcher.Subscribe([]events.Topic{events.TopicMouse}, func(events.Event) bool {
		canvas.Clear()
		return events.StopDispatching
	}, -1)
	clearSub.SetFilter(events.ButtonsDown(tcell.Button2))
	defer clearSub.Cancel()

	which, err := task.Race(t,
		func(c *task.Task) error { return paint(c, rt, canvas) },
		func(c *task.Task) error { return saveLoop(c, rt, canvas, status) },
	)
	rt.Logger.Debug().Int("finished", which).Err(err).Msg("painter ended")
	return err
}

// paint draws along every drag of the primary button
func paint(t *task.Task, rt *app.Runtime, canvas *Canvas) error {
	motion := await.Events(t, rt.Dispatcher, await.On(events.TopicMouse), await.Filter(events.ButtonsDown(tcell.Button1)))
	defer motion.Close()
	for {
		ev, err := motion.Next()
		if err != nil {
			return err
		}
		x, y := ev.Mouse().Position()
		canvas.Paint(x, y)
	}
}

func saveLoop(t *task.Task, rt *app.Runtime, canvas *Canvas, status *label) error {
	for {
		if _, err := await.Event(t, rt.Dispatcher, await.Filter(events.RuneIs('s'))); err != nil {
			return err
		}
		snapshot := canvas.String()
		status.Set("saving...")
		err := rt.Offload.Run(t, rt.Timer, func(ctx context.Context) error {
			return os.WriteFile(PainterFile, []byte(snapshot), 0o644)
		}, rt.Config.PollingInterval)
		if err != nil {
			if errors.Is(err, task.ErrCancelled) {
				return err
			}
			rt.Logger.Error().Err(err).Msg("save failed")
			rt.Audio.Play(audio.CueBuzz)
			status.Set("save failed")
			continue
		}
		rt.Audio.Play(audio.CueChime)
		status.Set(fmt.Sprintf("saved %d cells to %s", canvas.Len(), filepath.Base(PainterFile)))
	}
}
