package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	name string
	fn   func()
}

func collect(r *Registry[*item]) []string {
	var got []string
	r.Cycle(func(e *Entry[*item]) bool {
		got = append(got, e.Value.name)
		if e.Value.fn != nil {
			e.Value.fn()
		}
		return false
	})
	return got
}

func TestCycle_LowerPriorityFirstAndStable(t *testing.T) {
	r := New[*item]()
	r.Add(&item{name: "5a"}, 5)
	r.Add(&item{name: "1"}, 1)
	r.Add(&item{name: "5b"}, 5)
	r.Add(&item{name: "3"}, 3)

	assert.Equal(t, []string{"1", "3", "5a", "5b"}, collect(r))
	// Order is preserved on replay
	assert.Equal(t, []string{"1", "3", "5a", "5b"}, collect(r))
}

func TestCycle_MergeKeepsOlderFirstOnTies(t *testing.T) {
	r := New[*item]()
	r.Add(&item{name: "old"}, 2)
	collect(r)

	r.Add(&item{name: "new"}, 2)
	r.Add(&item{name: "front"}, 0)
	r.Add(&item{name: "back"}, 9)

	assert.Equal(t, []string{"front", "old", "new", "back"}, collect(r))
}

func TestCycle_AddDuringCycleDeferredToNextCycle(t *testing.T) {
	r := New[*item]()
	var added bool
	r.Add(&item{name: "spawner", fn: func() {
		if !added {
			added = true
			// Would sort before the spawner if it were visible this cycle
			r.Add(&item{name: "child"}, -10)
		}
	}}, 0)

	assert.Equal(t, []string{"spawner"}, collect(r))
	assert.Equal(t, []string{"child", "spawner"}, collect(r))
}

func TestCycle_CancelUnvisitedPreventsFiring(t *testing.T) {
	r := New[*item]()
	var victim *Entry[*item]
	r.Add(&item{name: "killer", fn: func() { victim.Cancel() }}, 0)
	victim = r.Add(&item{name: "victim"}, 1)

	assert.Equal(t, []string{"killer"}, collect(r))
	assert.Equal(t, []string{"killer"}, collect(r))
	assert.Equal(t, 1, r.Len())
}

func TestCycle_CancelVisitedStopsFutureCycles(t *testing.T) {
	r := New[*item]()
	var self *Entry[*item]
	self = r.Add(&item{name: "once", fn: func() { self.Cancel() }}, 0)
	r.Add(&item{name: "stay"}, 1)

	assert.Equal(t, []string{"once", "stay"}, collect(r))
	assert.Equal(t, []string{"stay"}, collect(r))
	assert.Equal(t, uint64(1), r.Stats().Pruned)
}

func TestCycle_CancelBeforeFirstCycle(t *testing.T) {
	r := New[*item]()
	e := r.Add(&item{name: "gone"}, 0)
	e.Cancel()
	e.Cancel()

	assert.True(t, e.Cancelled())
	assert.Empty(t, collect(r))
	assert.Equal(t, 0, r.Len())
}

func TestCycle_EarlyStopRetainsUnvisited(t *testing.T) {
	r := New[*item]()
	r.Add(&item{name: "a"}, 0)
	r.Add(&item{name: "b"}, 1)
	r.Add(&item{name: "c"}, 2)

	var got []string
	r.Cycle(func(e *Entry[*item]) bool {
		got = append(got, e.Value.name)
		return e.Value.name == "a"
	})
	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, uint64(1), r.Stats().Stopped)

	assert.Equal(t, []string{"a", "b", "c"}, collect(r))
}

func TestCycle_EarlyStopDuringMergeRetainsPending(t *testing.T) {
	r := New[*item]()
	r.Add(&item{name: "a"}, 0)
	collect(r)

	r.Add(&item{name: "b"}, 1)
	r.Add(&item{name: "z"}, -1)

	r.Cycle(func(e *Entry[*item]) bool { return true })
	assert.Equal(t, []string{"z", "a", "b"}, collect(r))
}

func TestCycle_PanicKeepsRegistryConsistent(t *testing.T) {
	r := New[*item]()
	r.Add(&item{name: "a"}, 0)
	r.Add(&item{name: "boom", fn: func() { panic("callback failure") }}, 1)
	r.Add(&item{name: "c"}, 2)

	require.PanicsWithValue(t, "callback failure", func() { collect(r) })
	assert.False(t, r.Cycling())

	// Entry that raised and entries after it are all kept
	var got []string
	r.Cycle(func(e *Entry[*item]) bool {
		got = append(got, e.Value.name)
		return false
	})
	assert.Equal(t, []string{"a", "boom", "c"}, got)
}

func TestCycle_ReentrantCyclePanics(t *testing.T) {
	r := New[*item]()
	r.Add(&item{name: "nested", fn: func() { collect(r) }}, 0)

	assert.PanicsWithValue(t, ErrReentrantCycle, func() { collect(r) })
	assert.False(t, r.Cycling())
}

func TestLen_CountsPendingAndLive(t *testing.T) {
	r := New[*item]()
	r.Add(&item{name: "a"}, 0)
	collect(r)
	r.Add(&item{name: "b"}, 0)
	c := r.Add(&item{name: "c"}, 0)
	c.Cancel()

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 0, c.Priority())
}

func TestLen_InsideCycleCountsEntriesBeingMerged(t *testing.T) {
	r := New[*item]()
	r.Add(&item{name: "a"}, 0)
	r.Add(&item{name: "b"}, 1)

	var inside []int
	r.Cycle(func(e *Entry[*item]) bool {
		inside = append(inside, r.Len())
		if e.Value.name == "a" {
			r.Add(&item{name: "c"}, 2)
		}
		return false
	})

	assert.Equal(t, []int{2, 3}, inside)
	assert.Equal(t, 3, r.Len())
}

// TestCycle_InterleavedMutation drives a fixed pseudo-random schedule of adds and
// cancels from inside callbacks and checks that no cancelled entry ever fires after
// its cancellation and every entry fires in priority order
func TestCycle_InterleavedMutation(t *testing.T) {
	r := New[*item]()
	cancelled := make(map[string]bool)
	entries := make(map[string]*Entry[*item])
	seed := uint32(7)
	rnd := func(n int) int {
		seed = seed*1664525 + 1013904223
		return int(seed>>16) % n
	}

	names := 0
	var add func(prio int)
	add = func(prio int) {
		names++
		name := string(rune('A'+names%26)) + string(rune('0'+names/26%10))
		p := &item{name: name}
		p.fn = func() {
			switch rnd(4) {
			case 0:
				add(rnd(10))
			case 1:
				for n, e := range entries {
					if !cancelled[n] {
						e.Cancel()
						cancelled[n] = true
						break
					}
				}
			}
		}
		entries[name] = r.Add(p, prio)
	}
	for i := 0; i < 8; i++ {
		add(rnd(10))
	}

	for cycle := 0; cycle < 20; cycle++ {
		last := -1 << 31
		r.Cycle(func(e *Entry[*item]) bool {
			require.False(t, cancelled[e.Value.name], "cancelled entry %s fired", e.Value.name)
			require.GreaterOrEqual(t, e.Priority(), last)
			last = e.Priority()
			e.Value.fn()
			return false
		})
	}
}
