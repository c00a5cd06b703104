// Package sim provides actuators which only log, for running the bridge
// without hardware.
package sim

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/twin.go/pkg/hal"
)

// Servo logs angle changes.
type Servo struct {
	Angle int
	Moves int
}

// Attach implements hal.Attacher.
func (s *Servo) Attach() error {
	glog.Info("sim servo attached")
	return nil
}

// SetAngle implements hal.ServoSink.
func (s *Servo) SetAngle(degrees int) {
	if s.Moves > 0 && degrees == s.Angle {
		return
	}
	s.Angle = degrees
	s.Moves++
	glog.Infof("servo: %d°", degrees)
}

// LED logs presented frames when they change.
type LED struct {
	Brightness uint8
	Frame      hal.Frame
	Presents   int

	staged hal.Frame
	last   []byte
}

// SetBrightness implements hal.LEDSink.
func (l *LED) SetBrightness(level uint8) {
	l.Brightness = level
}

// SetFrame implements hal.LEDSink.
func (l *LED) SetFrame(f *hal.Frame) {
	l.staged = *f
}

// Present implements hal.LEDSink.
func (l *LED) Present() {
	l.Frame = l.staged
	state := append([]byte{l.Brightness}, l.Frame.Bytes()...)
	if l.Presents > 0 && bytes.Equal(state, l.last) {
		return
	}
	l.last = state
	l.Presents++
	if glog.V(1) {
		glog.Infof("led: brightness=%d\n%s", l.Brightness, Sketch(&l.Frame))
	} else {
		glog.Infof("led: brightness=%d center=%v", l.Brightness, l.Frame.At(3, 3))
	}
}

// Sketch draws a frame as text, one row per line, with the brightest
// channel of each pixel quantized to " .:*#".
func Sketch(f *hal.Frame) string {
	const shades = " .:*#"
	var sb strings.Builder
	for y := 0; y < hal.GridHeight; y++ {
		for x := 0; x < hal.GridWidth; x++ {
			c := f.At(x, y)
			max := c.R
			if c.G > max {
				max = c.G
			}
			if c.B > max {
				max = c.B
			}
			sb.WriteByte(shades[int(max)*(len(shades)-1)/255])
		}
		if y+1 < hal.GridHeight {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// String summarizes the LED state.
func (l *LED) String() string {
	return fmt.Sprintf("brightness=%d presents=%d", l.Brightness, l.Presents)
}
