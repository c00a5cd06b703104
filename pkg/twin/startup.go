package twin

import (
	"time"

	fx "github.com/robotalks/twin.go/pkg/framework"
	"github.com/robotalks/twin.go/pkg/hal"
)

// Startup animation timing.
const (
	StartupFrames    = 5
	StartupFrameTime = 100 * time.Millisecond
)

// BringUp attaches the servo, runs the range test and plays the startup
// animation. A servo which fails to attach is reported once and the
// bridge keeps running with the LEDs alone.
func (b *Bridge) BringUp(sleep fx.Sleeper) {
	if sleep == nil {
		sleep = time.Sleep
	}
	if attacher, ok := b.Servo.(hal.Attacher); ok {
		if err := attacher.Attach(); err != nil {
			b.Observer.HardwareFault("servo", err)
		}
	}

	pause := b.Config.BringUpPause()
	center := b.Config.AngleCenter
	if b.Servo != nil {
		for _, angle := range []int{center, b.Config.AngleMin, center, b.Config.AngleMax, center} {
			b.Servo.SetAngle(angle)
			sleep(pause)
		}
	}
	b.State.Actuation = Actuation{Current: center, Target: b.Config.TargetAngle(b.State.Input)}

	if b.LED == nil {
		return
	}
	b.LED.SetBrightness(uint8(b.Config.BrightnessMax))
	for i := 0; i < StartupFrames; i++ {
		StartupFrame(i, &b.frame)
		b.LED.SetFrame(&b.frame)
		b.LED.Present()
		sleep(StartupFrameTime)
	}
	b.frame.Clear()
	b.LED.SetFrame(&b.frame)
	b.LED.Present()
}
