package twin

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/twin.go/pkg/l0/line"
)

// Observer receives diagnostics from the bridge. Implementations must
// not block: they are invoked from the control loop.
type Observer interface {
	// LineReceived reports a candidate message line before parsing.
	LineReceived(content []byte)
	// LineDropped reports bytes discarded by the framer.
	LineDropped(r line.Result)
	// InputRejected reports a message line which failed to parse.
	InputRejected(content []byte, err error)
	// InputAccepted reports the state after an input is committed.
	InputAccepted(state State)
	// ServoMoved reports a servo command.
	ServoMoved(from, to int, state State)
	// Heartbeat is emitted periodically while the loop runs, with the
	// received bytes still pending.
	Heartbeat(now uint32, rx Backlog, state State)
	// HardwareFault reports a collaborator failing to bind.
	HardwareFault(component string, err error)
}

// Backlog describes received bytes not consumed by the framer yet.
// Next is the first pending byte and only valid when Available > 0.
type Backlog struct {
	Available int
	Next      byte
}

func (b Backlog) String() string {
	if b.Available == 0 {
		return "pending=0"
	}
	return fmt.Sprintf("pending=%d next=0x%02x", b.Available, b.Next)
}

// RejectPreviewLen limits the content shown for a rejected line.
const RejectPreviewLen = 20

// LogObserver writes diagnostics to glog.
type LogObserver struct{}

// LineReceived implements Observer.
func (LogObserver) LineReceived(content []byte) {
	glog.V(2).Infof("RX (%d): %s", len(content), content)
}

// LineDropped implements Observer.
func (LogObserver) LineDropped(r line.Result) {
	switch r.Event {
	case line.EventControlSkipped:
		glog.Warningf("skipped control byte 0x%02x", r.Byte)
	case line.EventOverflow:
		glog.Warningf("line exceeds %d bytes, dropped", line.Capacity)
	case line.EventRejected:
		if len(r.Line) == 0 {
			return
		}
		glog.Warningf("ignored line, first char 0x%02x: %q", r.Line[0], preview(r.Line))
	}
}

// InputRejected implements Observer.
func (LogObserver) InputRejected(content []byte, err error) {
	glog.Warningf("rejected input %q: %v", preview(content), err)
}

// InputAccepted implements Observer.
func (LogObserver) InputAccepted(state State) {
	glog.V(1).Infof("input %s target=%d current=%d", state.Input, state.Actuation.Target, state.Actuation.Current)
}

// ServoMoved implements Observer.
func (LogObserver) ServoMoved(from, to int, state State) {
	glog.V(1).Infof("servo %d -> %d target=%d %s", from, to, state.Actuation.Target, state.Input)
}

// Heartbeat implements Observer.
func (LogObserver) Heartbeat(now uint32, rx Backlog, state State) {
	glog.Infof("heartbeat t=%dms %s %s servo=%d %s", now, rx, state.Phase(), state.Actuation.Current, state.Input)
}

// HardwareFault implements Observer.
func (LogObserver) HardwareFault(component string, err error) {
	glog.Errorf("%s unavailable: %v", component, err)
}

func preview(content []byte) string {
	if len(content) > RejectPreviewLen {
		content = content[:RejectPreviewLen]
	}
	return string(content)
}

// Observers fans out diagnostics to multiple observers.
type Observers []Observer

// LineReceived implements Observer.
func (o Observers) LineReceived(content []byte) {
	for _, ob := range o {
		ob.LineReceived(content)
	}
}

// LineDropped implements Observer.
func (o Observers) LineDropped(r line.Result) {
	for _, ob := range o {
		ob.LineDropped(r)
	}
}

// InputRejected implements Observer.
func (o Observers) InputRejected(content []byte, err error) {
	for _, ob := range o {
		ob.InputRejected(content, err)
	}
}

// InputAccepted implements Observer.
func (o Observers) InputAccepted(state State) {
	for _, ob := range o {
		ob.InputAccepted(state)
	}
}

// ServoMoved implements Observer.
func (o Observers) ServoMoved(from, to int, state State) {
	for _, ob := range o {
		ob.ServoMoved(from, to, state)
	}
}

// Heartbeat implements Observer.
func (o Observers) Heartbeat(now uint32, rx Backlog, state State) {
	for _, ob := range o {
		ob.Heartbeat(now, rx, state)
	}
}

// HardwareFault implements Observer.
func (o Observers) HardwareFault(component string, err error) {
	for _, ob := range o {
		ob.HardwareFault(component, err)
	}
}
