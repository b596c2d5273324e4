package shared

import "time"

// Clock abstracts the wall clock so timestamps and retry waits can be controlled in tests
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// RealClock reads the system time in UTC
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// Sleep blocks for the given duration
func (RealClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// NewRealClock creates a RealClock instance
func NewRealClock() Clock {
	return RealClock{}
}

// MockClock returns a controllable time
type MockClock struct {
	CurrentTime time.Time
}

// NewMockClock creates a MockClock starting at the given time
func NewMockClock(startTime time.Time) *MockClock {
	return &MockClock{CurrentTime: startTime}
}

func (m *MockClock) Now() time.Time {
	return m.CurrentTime
}

// Sleep advances the mock clock without blocking
func (m *MockClock) Sleep(d time.Duration) {
	m.CurrentTime = m.CurrentTime.Add(d)
}

// Advance moves the mock clock forward by the given duration
func (m *MockClock) Advance(d time.Duration) {
	m.CurrentTime = m.CurrentTime.Add(d)
}
