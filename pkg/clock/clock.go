package clock

import "time"

// Clock abstracts the current time so time-dependent rules can be tested.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system time in UTC.
type RealClock struct{}

func New() Clock {
	return RealClock{}
}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// MockClock is a settable clock for tests.
type MockClock struct {
	current time.Time
}

func NewMock(start time.Time) *MockClock {
	return &MockClock{current: start}
}

func (m *MockClock) Now() time.Time {
	return m.current
}

func (m *MockClock) Set(t time.Time) {
	m.current = t
}

func (m *MockClock) Advance(d time.Duration) {
	m.current = m.current.Add(d)
}
