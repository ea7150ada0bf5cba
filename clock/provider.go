package clock

import (
	"sync"
	"time"
)

// TimeProvider is a source of wall time
type TimeProvider interface {
	Now() time.Time
}

// MonotonicProvider reads the system clock, including its monotonic component
type MonotonicProvider struct{}

// Now returns time.Now()
func (MonotonicProvider) Now() time.Time {
	return time.Now()
}

// MockProvider is a manually driven time source for tests
type MockProvider struct {
	mu          sync.RWMutex
	currentTime time.Time
}

// NewMockProvider creates a mock starting at start
func NewMockProvider(start time.Time) *MockProvider {
	return &MockProvider{currentTime: start}
}

// Now returns the mocked time
func (m *MockProvider) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// Set jumps to t
func (m *MockProvider) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
}

// Advance moves the mocked time forward by d
func (m *MockProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}
