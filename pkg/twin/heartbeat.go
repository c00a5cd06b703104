package twin

import (
	fx "github.com/robotalks/twin.go/pkg/framework"
	"github.com/robotalks/twin.go/pkg/hal"
)

// Heartbeat reports the bridge state every Interval milliseconds.
// The first beat fires once the clock passes Interval after startup.
type Heartbeat struct {
	Interval uint32
	Bridge   *Bridge

	last uint32
}

// Control implements fx.Controller.
func (h *Heartbeat) Control(cc fx.ControlContext) error {
	h.Tick(cc.NowMillis())
	return nil
}

// Tick emits a heartbeat if due. It tolerates clock wraparound.
func (h *Heartbeat) Tick(now uint32) bool {
	if hal.Since(now, h.last) <= h.Interval {
		return false
	}
	h.last = now
	var rx Backlog
	if src := h.Bridge.Source; src != nil {
		if rx.Available = src.Available(); rx.Available > 0 {
			rx.Next = src.Peek()
		}
	}
	h.Bridge.Observer.Heartbeat(now, rx, h.Bridge.State)
	return true
}
