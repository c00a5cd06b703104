package twin

import (
	"github.com/robotalks/twin.go/pkg/l0/msgs"
)

// Actuation is the servo state. Target is always the image of the
// current input under TargetAngle; Current snaps to it every cycle.
type Actuation struct {
	Current int
	Target  int
}

// State is owned by the control loop: the last accepted input and the
// servo state derived from it.
type State struct {
	Input     msgs.Input
	Actuation Actuation
}

// NewState creates the startup state: centered and inactive.
func NewState(conf *Config) State {
	return State{
		Actuation: Actuation{Current: conf.AngleCenter, Target: conf.AngleCenter},
	}
}

// Phase names the operating phase.
func (s State) Phase() string {
	if s.Input.Active {
		return "tracking"
	}
	return "idle"
}
