package render

import (
	"github.com/lixenwraith/cadence/registry"
)

// DrawFunc paints onto a render target
type DrawFunc[S any] func(target S)

// DrawRequest is the handle of one Drawer registration
type DrawRequest[S any] struct {
	entry *registry.Entry[*DrawRequest[S]]
	draw  DrawFunc[S]
}

// Cancel removes the request from later frames. Idempotent
func (r *DrawRequest[S]) Cancel() {
	r.entry.Cancel()
}

// Cancelled reports whether the request was cancelled
func (r *DrawRequest[S]) Cancelled() bool {
	return r.entry.Cancelled()
}

// Priority returns the draw layer
func (r *DrawRequest[S]) Priority() int {
	return r.entry.Priority()
}

// SetDraw replaces the draw function
func (r *DrawRequest[S]) SetDraw(fn DrawFunc[S]) {
	r.draw = fn
}

// Drawer paints every registered request onto the frame's target, back to front
type Drawer[S any] struct {
	reqs *registry.Registry[*DrawRequest[S]]
}

// NewDrawer creates an empty drawer
func NewDrawer[S any]() *Drawer[S] {
	return &Drawer[S]{reqs: registry.New[*DrawRequest[S]]()}
}

// Add registers fn at the given layer
func (d *Drawer[S]) Add(fn DrawFunc[S], priority int) *DrawRequest[S] {
	r := &DrawRequest[S]{draw: fn}
	r.entry = d.reqs.Add(r, priority)
	return r
}

// Draw runs every live request against target
func (d *Drawer[S]) Draw(target S) {
	d.reqs.Cycle(func(e *registry.Entry[*DrawRequest[S]]) bool {
		if fn := e.Value.draw; fn != nil {
			fn(target)
		}
		return false
	})
}

// Live returns the number of active requests
func (d *Drawer[S]) Live() int {
	return d.reqs.Len()
}
