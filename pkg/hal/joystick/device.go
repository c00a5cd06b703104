// Package joystick turns a local joystick into a gesture frontend: one
// axis points, one button asserts.
package joystick

import (
	"encoding/binary"
	"fmt"
	"io"
)

// EventSize is the size of a js_event record.
const EventSize = 8

// Event types of the Linux joystick API.
const (
	TypeButton uint8 = 0x01
	TypeAxis   uint8 = 0x02
	TypeInit   uint8 = 0x80
)

// AxisMax is the magnitude of a fully deflected axis.
const AxisMax = 32767

// Event is one js_event record.
type Event struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

// IsInit indicates the event reports initial state after open.
func (e Event) IsInit() bool {
	return e.Type&TypeInit != 0
}

// IsAxis indicates an axis movement.
func (e Event) IsAxis() bool {
	return e.Type&^TypeInit == TypeAxis
}

// IsButton indicates a button change.
func (e Event) IsButton() bool {
	return e.Type&^TypeInit == TypeButton
}

// String implements fmt.Stringer.
func (e Event) String() string {
	switch {
	case e.IsAxis():
		return fmt.Sprintf("axis %d: %d", e.Number, e.Value)
	case e.IsButton():
		return fmt.Sprintf("button %d: %d", e.Number, e.Value)
	}
	return fmt.Sprintf("type 0x%02x #%d: %d", e.Type, e.Number, e.Value)
}

// DecodeEvent decodes a little endian js_event record.
func DecodeEvent(b []byte) (ev Event, err error) {
	if len(b) < EventSize {
		return ev, io.ErrUnexpectedEOF
	}
	ev.Time = binary.LittleEndian.Uint32(b[0:4])
	ev.Value = int16(binary.LittleEndian.Uint16(b[4:6]))
	ev.Type, ev.Number = b[6], b[7]
	return ev, nil
}

// Device represents an opened joystick.
type Device interface {
	io.Closer
	// Index returns the index of the device on the system.
	Index() int
	// Name returns the name of the device.
	Name() string
	// ReadEvent blocks until the next event.
	ReadEvent() (Event, error)
}
