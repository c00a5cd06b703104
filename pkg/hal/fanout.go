package hal

// ServoSinks drives multiple servos with the same commands.
type ServoSinks []ServoSink

// SetAngle implements ServoSink.
func (s ServoSinks) SetAngle(degrees int) {
	for _, sink := range s {
		sink.SetAngle(degrees)
	}
}

// Attach attaches every sink which needs it and returns the first error.
// Sinks after a failure are still attached.
func (s ServoSinks) Attach() (err error) {
	for _, sink := range s {
		if a, ok := sink.(Attacher); ok {
			if e := a.Attach(); e != nil && err == nil {
				err = e
			}
		}
	}
	return
}

// LEDSinks mirrors frames to multiple LED grids.
type LEDSinks []LEDSink

// SetBrightness implements LEDSink.
func (s LEDSinks) SetBrightness(level uint8) {
	for _, sink := range s {
		sink.SetBrightness(level)
	}
}

// SetFrame implements LEDSink.
func (s LEDSinks) SetFrame(f *Frame) {
	for _, sink := range s {
		sink.SetFrame(f)
	}
}

// Present implements LEDSink.
func (s LEDSinks) Present() {
	for _, sink := range s {
		sink.Present()
	}
}
