package await

import (
	"time"

	"github.com/lixenwraith/cadence/task"
	"github.com/lixenwraith/cadence/timer"
)

// AnimOptions configures Animate
type AnimOptions struct {
	// Duration bounds the animation. Zero or negative runs until fn returns false
	Duration time.Duration
	// Step is the tick interval. Zero ticks every frame
	Step time.Duration
}

// AnimFrame is the progress of one animation step
type AnimFrame struct {
	DT      time.Duration
	Elapsed time.Duration
	// Ratio is Elapsed/Duration clamped to [0,1]; always 0 for unbounded animations
	Ratio float64
}

// Animate calls fn once per tick until Duration has elapsed or fn returns false.
// The final frame of a bounded animation always carries Ratio 1
func Animate(t *task.Task, tm *timer.Timer, opts AnimOptions, fn func(AnimFrame) bool) error {
	ticks := Ticks(t, tm, opts.Step)
	defer ticks.Close()

	var elapsed time.Duration
	for opts.Duration <= 0 || elapsed < opts.Duration {
		dt, err := ticks.Next()
		if err != nil {
			return err
		}
		elapsed += dt

		frame := AnimFrame{DT: dt, Elapsed: elapsed}
		if opts.Duration > 0 {
			frame.Ratio = min(float64(elapsed)/float64(opts.Duration), 1)
		}
		if !fn(frame) {
			return nil
		}
	}
	return nil
}
