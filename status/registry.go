// Package status collects runtime counters published by the host loop.
package status

import (
	"strconv"
	"sync/atomic"
)

// Metric keys published by the host
const (
	FrameCount       = "frame.count"
	FrameFPS         = "frame.fps"
	EventsDispatched = "events.dispatched"
	EventsDropped    = "events.dropped"
	TimerLive        = "timer.live"
	ExecLive         = "exec.live"
	ClockPaused      = "clock.paused"
	SceneCurrent     = "scene.current"
)

// Registry is the metrics facade shared by the host, scenes and overlays
type Registry struct {
	Bools   *Map[atomic.Bool]
	Ints    *Map[atomic.Int64]
	Floats  *Map[Float]
	Strings *Map[String]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   newMap[atomic.Bool](),
		Ints:    newMap[atomic.Int64](),
		Floats:  newMap[Float](),
		Strings: newMap[String](),
	}
}

// Len returns the number of metrics across all types
func (r *Registry) Len() int {
	return r.Bools.Len() + r.Ints.Len() + r.Floats.Len() + r.Strings.Len()
}

// Lines renders every metric as "key value", grouped by type and sorted by key
func (r *Registry) Lines() []string {
	lines := make([]string, 0, r.Len())
	r.Bools.Range(func(k string, v *atomic.Bool) {
		lines = append(lines, k+" "+strconv.FormatBool(v.Load()))
	})
	r.Ints.Range(func(k string, v *atomic.Int64) {
		lines = append(lines, k+" "+strconv.FormatInt(v.Load(), 10))
	})
	r.Floats.Range(func(k string, v *Float) {
		lines = append(lines, k+" "+strconv.FormatFloat(v.Load(), 'f', 1, 64))
	})
	r.Strings.Range(func(k string, v *String) {
		lines = append(lines, k+" "+v.Load())
	})
	return lines
}
