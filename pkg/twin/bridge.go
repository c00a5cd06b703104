// Package twin mirrors a remote pointing gesture on a servo and an LED
// grid. Input arrives as L0 lines on a byte source, and every loop
// iteration drains the source, commits the newest valid input and pushes
// the derived state to the actuators.
package twin

import (
	"github.com/golang/glog"

	fx "github.com/robotalks/twin.go/pkg/framework"
	"github.com/robotalks/twin.go/pkg/hal"
	"github.com/robotalks/twin.go/pkg/l0/line"
	"github.com/robotalks/twin.go/pkg/l0/msgs"
)

// Bridge owns the state of the twin and drives the actuators from it.
// All methods must be called from the control loop goroutine.
type Bridge struct {
	Config   *Config
	State    State
	Source   hal.ByteSource
	Servo    hal.ServoSink
	LED      hal.LEDSink
	Observer Observer

	framer    line.Framer
	frame     hal.Frame
	now       uint32
	lastInput uint32
}

// NewBridge creates a Bridge in the startup state.
func NewBridge(conf *Config, src hal.ByteSource, servo hal.ServoSink, led hal.LEDSink) *Bridge {
	return &Bridge{
		Config:   conf,
		State:    NewState(conf),
		Source:   src,
		Servo:    servo,
		LED:      led,
		Observer: LogObserver{},
	}
}

// AddToLoop implements fx.LoopAdder.
func (b *Bridge) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvSense, fx.ControlFunc(b.sense))
	loop.AddController(fx.PrLvAcuate, fx.ControlFunc(b.actuate))
	if b.Config.HeartbeatIntervalMs > 0 {
		hb := &Heartbeat{Interval: uint32(b.Config.HeartbeatIntervalMs), Bridge: b}
		loop.AddController(fx.PrLvPostProc, hb)
	}
}

func (b *Bridge) sense(cc fx.ControlContext) error {
	b.now = cc.NowMillis()
	b.Receive()
	b.Expire(b.now)
	return nil
}

func (b *Bridge) actuate(fx.ControlContext) error {
	b.UpdateServo()
	b.UpdateLED()
	return nil
}

// Step runs one full cycle: receive, servo, LEDs.
func (b *Bridge) Step() {
	b.Receive()
	b.UpdateServo()
	b.UpdateLED()
}

// Receive drains all bytes currently available and applies complete
// messages in arrival order.
func (b *Bridge) Receive() int {
	if b.Source == nil {
		return 0
	}
	return b.framer.Drain(b.Source, b)
}

// HandleResult implements line.Handler.
func (b *Bridge) HandleResult(r line.Result) {
	if r.Event != line.EventLine {
		b.Observer.LineDropped(r)
		return
	}
	b.Observer.LineReceived(r.Line)
	b.HandleLine(r.Line)
}

// HandleLine parses one message line and commits it if valid.
// An invalid line leaves the state untouched.
func (b *Bridge) HandleLine(content []byte) error {
	in, err := msgs.ParseInput(content)
	if err != nil {
		b.Observer.InputRejected(content, err)
		return err
	}
	b.Apply(in)
	return nil
}

// Apply commits an input and recomputes the servo target.
func (b *Bridge) Apply(in msgs.Input) {
	b.State.Input = in
	b.State.Actuation.Target = b.Config.TargetAngle(in)
	b.lastInput = b.now
	b.Observer.InputAccepted(b.State)
}

// Reconfigure switches to a new calibration. The servo target follows
// on the next actuation.
func (b *Bridge) Reconfigure(conf *Config) {
	b.Config = conf
	b.State.Actuation.Target = conf.TargetAngle(b.State.Input)
	glog.Infof("calibration: angles %d/%d/%d brightness %d..%d",
		conf.AngleMin, conf.AngleCenter, conf.AngleMax, conf.BrightnessMin, conf.BrightnessMax)
}

// Expire releases an active gesture which hasn't been refreshed within
// InputTimeoutMs.
func (b *Bridge) Expire(now uint32) bool {
	timeout := b.Config.InputTimeoutMs
	if timeout <= 0 || !b.State.Input.Active {
		return false
	}
	if hal.Since(now, b.lastInput) <= uint32(timeout) {
		return false
	}
	b.now = now
	b.Apply(msgs.Input{X: b.State.Input.X})
	return true
}

// UpdateServo snaps the servo to the target. The sink is only commanded
// when the angle changes.
func (b *Bridge) UpdateServo() bool {
	act := &b.State.Actuation
	if act.Current == act.Target {
		return false
	}
	from := act.Current
	act.Current = act.Target
	if b.Servo != nil {
		b.Servo.SetAngle(act.Current)
	}
	b.Observer.ServoMoved(from, act.Current, b.State)
	return true
}

// UpdateLED renders the current input and presents it.
func (b *Bridge) UpdateLED() {
	if b.LED == nil {
		return
	}
	brightness := b.Config.Render(b.State.Input, &b.frame)
	if b.State.Input.Active {
		b.LED.SetBrightness(brightness)
	}
	b.LED.SetFrame(&b.frame)
	b.LED.Present()
}
