package mocks

import (
	"sync"
	"time"

	"github.com/SarvaniBalivada/sports-schedular/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing.
// It is safe to read from concurrent requests while a test advances it.
type MockClock struct {
	mu          sync.RWMutex
	CurrentTime time.Time
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.CurrentTime
}

// Advance moves the clock forward by the given duration
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.CurrentTime = c.CurrentTime.Add(d)
	c.mu.Unlock()
}

// Set sets the clock to the given time
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	c.CurrentTime = t
	c.mu.Unlock()
}
