// Package line frames the L0 byte stream into candidate messages.
package line

import (
	"bytes"

	"github.com/robotalks/twin.go/pkg/hal"
)

// Capacity is the maximum length of a line. A longer line is dropped.
const Capacity = 128

// MessageStart is the first character of every candidate message.
const MessageStart = '{'

// Event indicates what happened after consuming a byte.
type Event int

const (
	// EventNone means the byte was buffered, or it was an empty line.
	EventNone Event = iota
	// EventLine means a candidate message is ready in Result.Line.
	EventLine
	// EventRejected means a line was terminated but doesn't look like a message.
	EventRejected
	// EventOverflow means the line exceeded Capacity and was dropped.
	EventOverflow
	// EventControlSkipped reports the first control byte skipped in the current line.
	EventControlSkipped
)

var eventNames = [...]string{"none", "line", "not_json", "overflow", "control"}

// String implements fmt.Stringer.
func (e Event) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return "unknown"
}

// Result indicates the result after one framing step.
type Result struct {
	Event Event
	// Line is the trimmed line for EventLine and EventRejected, and the
	// discarded content for EventOverflow. It aliases the framer buffer and
	// is only valid until the next Parse.
	Line []byte
	// Byte is the skipped byte for EventControlSkipped.
	Byte byte
}

// Handler is called when framing produces an event.
type Handler interface {
	HandleResult(Result)
}

// HandleResultFunc is func type of Handler.
type HandleResultFunc func(Result)

// HandleResult implements Handler.
func (f HandleResultFunc) HandleResult(r Result) {
	f(r)
}

// Framer accumulates printable bytes into lines.
type Framer struct {
	buf           [Capacity]byte
	size          int
	controlLogged bool
	overflow      bool
}

// Len returns the number of bytes pending in the current line.
func (f *Framer) Len() int {
	return f.size
}

// Reset drops any pending bytes.
func (f *Framer) Reset() {
	f.size, f.controlLogged, f.overflow = 0, false, false
}

// Parse consumes one byte.
func (f *Framer) Parse(b byte) (r Result) {
	switch {
	case b == '\n' || b == '\r':
		return f.terminate()
	case b >= 0x20 && b <= 0x7e:
		if f.overflow {
			return
		}
		if f.size >= len(f.buf) {
			r.Event, r.Line = EventOverflow, f.buf[:f.size]
			f.Reset()
			// the rest of the line is dropped until the next terminator.
			f.overflow = true
			return
		}
		f.buf[f.size] = b
		f.size++
	default:
		if !f.controlLogged {
			f.controlLogged = true
			r.Event, r.Byte = EventControlSkipped, b
		}
	}
	return
}

// Drain consumes all available bytes from src without blocking.
// A CR immediately followed by LF is folded into one terminator.
// It returns the number of bytes consumed.
func (f *Framer) Drain(src hal.ByteSource, h Handler) (n int) {
	for src.Available() > 0 {
		b := src.Read()
		n++
		if b == '\r' && src.Available() > 0 && src.Peek() == '\n' {
			src.Read()
			n++
		}
		if r := f.Parse(b); r.Event != EventNone && h != nil {
			h.HandleResult(r)
		}
	}
	return
}

func (f *Framer) terminate() (r Result) {
	line := bytes.TrimSpace(f.buf[:f.size])
	f.Reset()
	if len(line) == 0 {
		return
	}
	r.Line = line
	if line[0] == MessageStart {
		r.Event = EventLine
	} else {
		r.Event = EventRejected
	}
	return
}
