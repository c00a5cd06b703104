package framework

import (
	"time"

	"github.com/robotalks/twin.go/pkg/hal"
)

// NewSystemClock creates a millisecond clock counting from now.
// The reading wraps after about 49.7 days, like a microcontroller tick.
func NewSystemClock() hal.Clock {
	start := time.Now()
	return hal.ClockFunc(func() uint32 {
		return uint32(time.Since(start) / time.Millisecond)
	})
}

// Sleeper pauses for a duration. It's replaced in tests.
type Sleeper func(time.Duration)
