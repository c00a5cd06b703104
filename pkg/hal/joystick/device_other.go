//go:build !linux

package joystick

import "errors"

// ErrUnsupported is returned where the joystick API is unavailable.
var ErrUnsupported = errors.New("joystick: unsupported platform")

// Open opens a joystick device.
func Open(index int) (Device, error) {
	return nil, ErrUnsupported
}

// DetectAndOpen opens the first present device from startIndex.
func DetectAndOpen(startIndex int) (Device, error) {
	return nil, ErrUnsupported
}
