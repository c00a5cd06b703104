package hal

import (
	"fmt"
	"math"
)

// Grid dimensions of the LED matrix.
const (
	GridWidth  = 8
	GridHeight = 8
	PixelCount = GridWidth * GridHeight
)

// RGB is a pixel color.
type RGB struct {
	R, G, B uint8
}

// Scale multiplies each component by factor, truncating.
func (c RGB) Scale(factor float64) RGB {
	return RGB{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
	}
}

// IsOff reports whether all components are zero.
func (c RGB) IsOff() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// Frame holds all pixels of the grid, row-major.
type Frame [PixelCount]RGB

// Index maps grid coordinates to a pixel index.
func Index(x, y int) int {
	return y*GridWidth + x
}

// At gets the pixel at (x, y).
func (f *Frame) At(x, y int) RGB {
	return f[Index(x, y)]
}

// Set sets the pixel at (x, y).
func (f *Frame) Set(x, y int, c RGB) {
	f[Index(x, y)] = c
}

// Clear turns off all pixels.
func (f *Frame) Clear() {
	*f = Frame{}
}

// IsOff reports whether every pixel is off.
func (f *Frame) IsOff() bool {
	for _, c := range f {
		if !c.IsOff() {
			return false
		}
	}
	return true
}

// Bytes encodes the frame as R, G, B triples.
func (f *Frame) Bytes() []byte {
	b := make([]byte, 0, PixelCount*3)
	for _, c := range f {
		b = append(b, c.R, c.G, c.B)
	}
	return b
}

// SetBytes decodes R, G, B triples produced by Bytes.
func (f *Frame) SetBytes(b []byte) error {
	if len(b) != PixelCount*3 {
		return fmt.Errorf("frame needs %d bytes, got %d", PixelCount*3, len(b))
	}
	for i := range f {
		f[i] = RGB{R: b[i*3], G: b[i*3+1], B: b[i*3+2]}
	}
	return nil
}

// CenterX and CenterY locate the geometric center of the grid.
const (
	CenterX = float64(GridWidth-1) / 2
	CenterY = float64(GridHeight-1) / 2
)

// DistanceFromCenter returns the Euclidean distance of (x, y) from the grid center.
func DistanceFromCenter(x, y int) float64 {
	dx, dy := float64(x)-CenterX, float64(y)-CenterY
	return math.Sqrt(dx*dx + dy*dy)
}
