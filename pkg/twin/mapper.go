package twin

import (
	"math"

	"github.com/robotalks/twin.go/pkg/hal"
	"github.com/robotalks/twin.go/pkg/l0/msgs"
)

// Base colors by pointing direction.
var (
	ColorLeft    = hal.RGB{R: 0, G: 100, B: 255}
	ColorRight   = hal.RGB{R: 255, G: 100, B: 0}
	ColorNeutral = hal.RGB{R: 0, G: 255, B: 100}
)

// NeutralBand is the half width of the input range rendered neutral.
const NeutralBand = 0.1

// FalloffRadius is the distance from the grid center where pixels go dark.
const FalloffRadius = 5.0

// TargetAngle maps the input to a servo angle within [AngleMin, AngleMax].
// Inactive input always maps to AngleCenter.
func (c *Config) TargetAngle(in msgs.Input) int {
	if !in.Active {
		return c.AngleCenter
	}
	normalized := (in.X + 1) / 2
	angle := int(float64(c.AngleMin) + normalized*float64(c.AngleMax-c.AngleMin))
	return clampInt(angle, c.AngleMin, c.AngleMax)
}

// Brightness maps |x| linearly onto [BrightnessMin, BrightnessMax] in
// integer percent steps.
func (c *Config) Brightness(x float64) uint8 {
	percent := int(math.Min(math.Abs(x), 1) * 100)
	return uint8(c.BrightnessMin + percent*(c.BrightnessMax-c.BrightnessMin)/100)
}

// BaseColor picks the color bucket for x.
func BaseColor(x float64) hal.RGB {
	switch {
	case x < -NeutralBand:
		return ColorLeft
	case x > NeutralBand:
		return ColorRight
	}
	return ColorNeutral
}

// Falloff is the per-pixel intensity factor at a distance from the center.
func Falloff(distance float64) float64 {
	return msgs.Clamp(1-distance/FalloffRadius, 0, 1)
}

// Render draws the input into f and returns the frame brightness.
// Inactive input renders an all-off frame.
func (c *Config) Render(in msgs.Input, f *hal.Frame) uint8 {
	if !in.Active {
		f.Clear()
		return 0
	}
	base := BaseColor(in.X)
	for y := 0; y < hal.GridHeight; y++ {
		for x := 0; x < hal.GridWidth; x++ {
			f.Set(x, y, base.Scale(Falloff(hal.DistanceFromCenter(x, y))))
		}
	}
	return c.Brightness(in.X)
}

// StartupFrame renders step i of the startup ripple: every cell within
// distance i of the center is lit green.
func StartupFrame(i int, f *hal.Frame) {
	f.Clear()
	for y := 0; y < hal.GridHeight; y++ {
		for x := 0; x < hal.GridWidth; x++ {
			if hal.DistanceFromCenter(x, y) <= float64(i) {
				f.Set(x, y, hal.RGB{G: 255})
			}
		}
	}
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
