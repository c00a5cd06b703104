// Package hal defines the hardware collaborators driven by the bridge.
package hal

// ByteSource is a non-blocking byte stream, e.g. a UART receive buffer.
type ByteSource interface {
	// Available returns the number of bytes which can be read without blocking.
	Available() int
	// Peek returns the next byte without consuming it.
	// The result is undefined when Available returns 0.
	Peek() byte
	// Read consumes the next byte.
	// The result is undefined when Available returns 0.
	Read() byte
}

// ServoSink drives a positional servo.
type ServoSink interface {
	// SetAngle commands the servo to the angle in degrees.
	SetAngle(degrees int)
}

// Attacher is optionally implemented by sinks which need to bind to
// hardware before use.
type Attacher interface {
	Attach() error
}

// LEDSink drives the addressable LED grid.
type LEDSink interface {
	// SetBrightness sets the global brightness applied when presenting.
	SetBrightness(level uint8)
	// SetFrame stages all pixels for the next Present.
	SetFrame(f *Frame)
	// Present pushes the staged frame to the LEDs.
	Present()
}

// Clock is a monotonic millisecond clock which wraps around.
type Clock interface {
	NowMillis() uint32
}

// ClockFunc is func form of Clock.
type ClockFunc func() uint32

// NowMillis implements Clock.
func (f ClockFunc) NowMillis() uint32 {
	return f()
}

// Since returns elapsed milliseconds between then and now, wrap-safe.
func Since(now, then uint32) uint32 {
	return now - then
}
