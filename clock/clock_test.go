package clock

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestMonotonicProvider(t *testing.T) {
	var provider MonotonicProvider

	t1 := provider.Now()
	time.Sleep(10 * time.Millisecond)
	t2 := provider.Now()

	if diff := t2.Sub(t1); diff < 10*time.Millisecond {
		t.Errorf("Expected at least 10ms difference, got %v", diff)
	}
}

func TestMockProvider(t *testing.T) {
	mock := NewMockProvider(epoch)
	if !mock.Now().Equal(epoch) {
		t.Errorf("Expected initial time %v, got %v", epoch, mock.Now())
	}

	mock.Advance(time.Hour)
	mock.Advance(30 * time.Minute)
	if expected := epoch.Add(90 * time.Minute); !mock.Now().Equal(expected) {
		t.Errorf("Expected %v after advances, got %v", expected, mock.Now())
	}

	mock.Set(epoch)
	if !mock.Now().Equal(epoch) {
		t.Errorf("Expected %v after Set, got %v", epoch, mock.Now())
	}
}

func TestPausableClock_Delta(t *testing.T) {
	mock := NewMockProvider(epoch)
	pc := NewPausable(mock)

	mock.Advance(16 * time.Millisecond)
	if dt := pc.Delta(); dt != 16*time.Millisecond {
		t.Errorf("Expected 16ms delta, got %v", dt)
	}
	if dt := pc.Delta(); dt != 0 {
		t.Errorf("Expected zero delta without time passing, got %v", dt)
	}
}

func TestPausableClock_PauseFreezesGameTime(t *testing.T) {
	mock := NewMockProvider(epoch)
	pc := NewPausable(mock)

	mock.Advance(100 * time.Millisecond)
	pc.Pause()
	pc.Pause()
	mock.Advance(time.Second)

	if !pc.IsPaused() {
		t.Fatal("Expected clock to be paused")
	}
	if e := pc.Elapsed(); e != 100*time.Millisecond {
		t.Errorf("Expected elapsed frozen at 100ms, got %v", e)
	}
	if dt := pc.Delta(); dt != 100*time.Millisecond {
		t.Errorf("Expected first delta of 100ms, got %v", dt)
	}
	mock.Advance(time.Second)
	if dt := pc.Delta(); dt != 0 {
		t.Errorf("Expected zero delta while paused, got %v", dt)
	}
	if p := pc.TotalPaused(); p != 2*time.Second {
		t.Errorf("Expected 2s paused so far, got %v", p)
	}

	pc.Resume()
	mock.Advance(50 * time.Millisecond)
	if dt := pc.Delta(); dt != 50*time.Millisecond {
		t.Errorf("Expected 50ms delta after resume, got %v", dt)
	}
	if e := pc.Elapsed(); e != 150*time.Millisecond {
		t.Errorf("Expected 150ms game time, got %v", e)
	}
}

func TestPausableClock_Toggle(t *testing.T) {
	pc := NewPausable(NewMockProvider(epoch))
	if !pc.Toggle() {
		t.Error("Expected Toggle to pause")
	}
	if pc.Toggle() {
		t.Error("Expected Toggle to resume")
	}
}

func TestPausableClock_ConcurrentToggle(t *testing.T) {
	pc := NewPausable(NewMockProvider(epoch))

	const n = 64
	var wg sync.WaitGroup
	var pauses atomic.Int32
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if pc.Toggle() {
				pauses.Add(1)
			}
		}()
	}
	wg.Wait()

	// An even number of toggles alternates exactly, so half of them paused
	if got := pauses.Load(); got != n/2 {
		t.Errorf("Expected %d pausing toggles, got %d", n/2, got)
	}
	if pc.IsPaused() {
		t.Error("Expected clock running after an even number of toggles")
	}
}
