// Package registry provides the prioritized, cancellable entry container shared
// by the event dispatcher, the timer and the frame executor.
//
// Entries are never spliced out while a cycle iterates. Additions land in a
// pending buffer and are merged into the live snapshot at the start of the next
// cycle; cancellations are pruned lazily when the snapshot is rebuilt.
package registry

import (
	"errors"
	"slices"
)

// ErrReentrantCycle is raised when Cycle is called from inside a Cycle of the same registry
var ErrReentrantCycle = errors.New("registry: cycle invoked from within its own dispatch")

// Entry is one registered unit of work. Lower priority values are visited first
type Entry[T any] struct {
	// Value is the specialization payload (callback, topics, deadline)
	Value T

	priority  int
	cancelled bool
}

// Priority returns the ordering key fixed at registration
func (e *Entry[T]) Priority() int {
	return e.priority
}

// Cancel prevents any future visit. Idempotent; does not abort a running visit
func (e *Entry[T]) Cancel() {
	e.cancelled = true
}

// Cancelled reports whether the entry was cancelled
func (e *Entry[T]) Cancelled() bool {
	return e.cancelled
}

// Stats holds cumulative counters for one registry
type Stats struct {
	Cycles  uint64 // completed or aborted cycles
	Visits  uint64 // entries handed to a visitor
	Pruned  uint64 // cancelled entries dropped from a snapshot
	Stopped uint64 // cycles ended early by a visitor
}

// Registry is a double-buffered, priority-ordered set of entries.
// Not safe for concurrent use; built for reentrant use from a single goroutine
type Registry[T any] struct {
	// gens[cur] is the sorted live snapshot, gens[cur^1] is scratch for the next generation
	gens [2][]*Entry[T]
	cur  int

	// pending[pcur] collects additions for the next cycle, the other slot is being merged
	pending [2][]*Entry[T]
	pcur    int

	cycling bool
	stats   Stats
}

// New creates an empty registry
func New[T any]() *Registry[T] {
	return &Registry[T]{}
}

// Add registers value at priority. The entry becomes visible from the next cycle
func (r *Registry[T]) Add(value T, priority int) *Entry[T] {
	e := &Entry[T]{Value: value, priority: priority}
	r.pending[r.pcur] = append(r.pending[r.pcur], e)
	return e
}

// Len returns the number of live entries, including ones still pending
func (r *Registry[T]) Len() int {
	n := 0
	for _, e := range r.gens[r.cur] {
		if !e.cancelled {
			n++
		}
	}
	for slot, pend := range r.pending {
		// The other slot holds additions being merged by the running cycle
		if slot != r.pcur && !r.cycling {
			continue
		}
		for _, e := range pend {
			if !e.cancelled {
				n++
			}
		}
	}
	return n
}

// Stats returns a copy of the cumulative counters
func (r *Registry[T]) Stats() Stats {
	return r.stats
}

// Cycling reports whether a cycle is currently in progress
func (r *Registry[T]) Cycling() bool {
	return r.cycling
}

func byPriority[T any](a, b *Entry[T]) int {
	switch {
	case a.priority < b.priority:
		return -1
	case a.priority > b.priority:
		return 1
	}
	return 0
}

// Cycle visits every live entry once in priority order. Returning true from visit
// ends the cycle early; unvisited entries are kept for the next cycle.
// The generation swap runs even if visit panics
func (r *Registry[T]) Cycle(visit func(e *Entry[T]) bool) {
	if r.cycling {
		panic(ErrReentrantCycle)
	}
	r.cycling = true

	snap := r.gens[r.cur]
	added := r.pending[r.pcur]
	if len(added) > 0 {
		slices.SortStableFunc(added, byPriority[T])
		// New additions from visitors go to the other slot
		r.pcur ^= 1
	}

	next := r.gens[r.cur^1][:0]
	i, j := 0, 0
	stopped := false

	defer func() {
		// Retain everything the cycle did not reach, in merged order
		for i < len(snap) || j < len(added) {
			var e *Entry[T]
			if j >= len(added) || (i < len(snap) && snap[i].priority <= added[j].priority) {
				e = snap[i]
				i++
			} else {
				e = added[j]
				j++
			}
			if e.cancelled {
				r.stats.Pruned++
				continue
			}
			next = append(next, e)
		}

		clear(snap)
		r.gens[r.cur] = snap[:0]
		if len(added) > 0 {
			clear(added)
			r.pending[r.pcur^1] = added[:0]
		}
		r.gens[r.cur^1] = next
		r.cur ^= 1

		r.stats.Cycles++
		if stopped {
			r.stats.Stopped++
		}
		r.cycling = false
	}()

	for i < len(snap) || j < len(added) {
		var e *Entry[T]
		// Snapshot wins ties: older entries precede newer ones of equal priority
		if j >= len(added) || (i < len(snap) && snap[i].priority <= added[j].priority) {
			e = snap[i]
			i++
		} else {
			e = added[j]
			j++
		}
		if e.cancelled {
			r.stats.Pruned++
			continue
		}
		next = append(next, e)
		r.stats.Visits++
		if visit(e) {
			stopped = true
			return
		}
	}
}
