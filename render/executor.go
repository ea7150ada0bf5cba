package render

import (
	"github.com/lixenwraith/cadence/registry"
)

// Request is the handle of one per-frame executor registration
type Request struct {
	entry *registry.Entry[*Request]
	fn    func()
}

// Cancel stops the request from running in later frames. Idempotent
func (r *Request) Cancel() {
	r.entry.Cancel()
}

// Cancelled reports whether the request was cancelled
func (r *Request) Cancelled() bool {
	return r.entry.Cancelled()
}

// Priority returns the request's phase
func (r *Request) Priority() int {
	return r.entry.Priority()
}

// SetFunc replaces the function run every frame
func (r *Request) SetFunc(fn func()) {
	r.fn = fn
}

// Executor calls every registered function once per frame in priority order.
// Used to interleave clear, update, draw and flip work
type Executor struct {
	reqs   *registry.Registry[*Request]
	frames uint64
}

// NewExecutor creates an empty executor
func NewExecutor() *Executor {
	return &Executor{reqs: registry.New[*Request]()}
}

// Register adds fn at priority; it runs from the next frame on until cancelled
func (x *Executor) Register(fn func(), priority int) *Request {
	r := &Request{fn: fn}
	r.entry = x.reqs.Add(r, priority)
	return r
}

// Run executes one frame
func (x *Executor) Run() {
	x.frames++
	x.reqs.Cycle(func(e *registry.Entry[*Request]) bool {
		if fn := e.Value.fn; fn != nil {
			fn()
		}
		return false
	})
}

// Frames returns the number of Run calls
func (x *Executor) Frames() uint64 {
	return x.frames
}

// Live returns the number of active requests
func (x *Executor) Live() int {
	return x.reqs.Len()
}
