// Package clock measures frame time for the host loop.
package clock

import (
	"sync"
	"time"
)

// PausableClock reports game time, which stops advancing while paused
//
// Architecture:
//   - Game elapsed = real elapsed - total paused time
//   - Delta hands out game time in frame-sized slices; a paused frame yields zero
//   - Safe for use from the input goroutine and the frame loop
type PausableClock struct {
	mu sync.Mutex

	provider TimeProvider
	start    time.Time

	paused      bool
	pauseStart  time.Time
	totalPaused time.Duration

	lastDelta time.Duration // game elapsed at the previous Delta call
}

// NewPausable creates a running clock over provider. A nil provider means the system clock
func NewPausable(provider TimeProvider) *PausableClock {
	if provider == nil {
		provider = MonotonicProvider{}
	}
	return &PausableClock{provider: provider, start: provider.Now()}
}

func (pc *PausableClock) elapsedLocked() time.Duration {
	now := pc.provider.Now()
	if pc.paused {
		now = pc.pauseStart
	}
	return now.Sub(pc.start) - pc.totalPaused
}

// Elapsed returns game time since the clock was created
func (pc *PausableClock) Elapsed() time.Duration {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.elapsedLocked()
}

// Delta returns game time passed since the previous Delta call
func (pc *PausableClock) Delta() time.Duration {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	e := pc.elapsedLocked()
	dt := e - pc.lastDelta
	pc.lastDelta = e
	return dt
}

// Pause freezes game time. Idempotent
func (pc *PausableClock) Pause() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.pauseLocked()
}

func (pc *PausableClock) pauseLocked() {
	if pc.paused {
		return
	}
	pc.paused = true
	pc.pauseStart = pc.provider.Now()
}

// Resume continues game time. Idempotent
func (pc *PausableClock) Resume() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.resumeLocked()
}

func (pc *PausableClock) resumeLocked() {
	if !pc.paused {
		return
	}
	pc.totalPaused += pc.provider.Now().Sub(pc.pauseStart)
	pc.paused = false
	pc.pauseStart = time.Time{}
}

// Toggle flips the pause state and returns the new state
func (pc *PausableClock) Toggle() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.paused {
		pc.resumeLocked()
		return false
	}
	pc.pauseLocked()
	return true
}

// IsPaused returns the current pause state
func (pc *PausableClock) IsPaused() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.paused
}

// TotalPaused returns cumulative pause time, including a pause in progress
func (pc *PausableClock) TotalPaused() time.Duration {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	total := pc.totalPaused
	if pc.paused {
		total += pc.provider.Now().Sub(pc.pauseStart)
	}
	return total
}
