// Package msgs extracts gesture input from framed L0 lines and defines the
// messages published to remote sinks.
package msgs

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Input is the gesture state carried by one message.
type Input struct {
	// X is the horizontal pointing direction, -1 full left, +1 full right.
	X float64
	// Active indicates the gesture is asserted.
	Active bool
}

// String implements fmt.Stringer.
func (in Input) String() string {
	return fmt.Sprintf("x=%.3f active=%v", in.X, in.Active)
}

// Format renders the input as a line without terminator, in the shape
// ParseInput accepts.
func (in Input) Format() string {
	active := 0
	if in.Active {
		active = 1
	}
	return fmt.Sprintf(`{"x":%s,"active":%d}`, strconv.FormatFloat(in.X, 'f', -1, 64), active)
}

// Bounds of X. Values beyond the sanity bound are treated as garbage,
// values within it are clamped into the domain.
const (
	SanityMin = -2.0
	SanityMax = 2.0
	DomainMin = -1.0
	DomainMax = 1.0
)

// Field names.
const (
	FieldX      = "x"
	FieldActive = "active"
)

var (
	markerX      = []byte(`"x":`)
	markerActive = []byte(`"active":`)
)

// ParseInput extracts Input from a line shaped like {"x":<float>,"active":<0|1>}.
// It's a fixed-shape scanner rather than a JSON parser: whitespace around
// values and unknown trailing fields are tolerated.
func ParseInput(line []byte) (in Input, err error) {
	xIndex := bytes.Index(line, markerX)
	if xIndex < 0 {
		return in, &FieldError{Field: FieldX, Err: ErrMissingMarker}
	}
	activeIndex := bytes.Index(line, markerActive)
	if activeIndex < 0 {
		return in, &FieldError{Field: FieldActive, Err: ErrMissingMarker}
	}

	xStart := xIndex + len(markerX)
	xLen := bytes.IndexByte(line[xStart:], ',')
	if xLen < 0 {
		xLen = bytes.IndexByte(line[xStart:], '}')
	}
	if xLen < 0 {
		return in, &FieldError{Field: FieldX, Err: ErrMissingDelimiter}
	}
	xStr := string(bytes.TrimSpace(line[xStart : xStart+xLen]))
	x, perr := strconv.ParseFloat(xStr, 64)
	if perr != nil || math.IsNaN(x) {
		return in, &FieldError{Field: FieldX, Value: xStr, Err: ErrNotANumber}
	}
	if x < SanityMin || x > SanityMax {
		return in, &FieldError{Field: FieldX, Value: xStr, Err: ErrOutOfRange}
	}

	activeStart := activeIndex + len(markerActive)
	activeLen := bytes.IndexByte(line[activeStart:], '}')
	if activeLen < 0 {
		return in, &FieldError{Field: FieldActive, Err: ErrMissingDelimiter}
	}

	in.X = Clamp(x, DomainMin, DomainMax)
	in.Active = leadingInt(line[activeStart:activeStart+activeLen]) == 1
	return in, nil
}

// Clamp restricts v into [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// leadingInt parses the integer prefix of s after leading spaces.
// Anything unparsable yields 0, so trailing fields don't affect the value.
func leadingInt(s []byte) int64 {
	s = bytes.TrimLeft(s, " \t")
	var neg bool
	if len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	var v int64
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		v = v*10 + int64(c-'0')
		if v > math.MaxInt32 {
			break
		}
	}
	if neg {
		return -v
	}
	return v
}
