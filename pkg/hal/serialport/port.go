// Package serialport feeds the bridge from a serial device.
package serialport

import (
	"context"
	"io"
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"

	"github.com/robotalks/twin.go/pkg/hal"
)

// DefaultReadTimeout bounds a single read so the feeder notices
// cancellation.
const DefaultReadTimeout = 50 * time.Millisecond

// Port is the subset of serial.Port used here.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// Open opens a serial device.
func Open(path string, opts PortOptions) (Port, error) {
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, err
	}
	return port, nil
}

// Source copies received bytes into a ring the control loop drains.
// Bytes which don't fit are dropped, like a full UART buffer.
type Source struct {
	Port        Port
	Ring        *hal.Ring
	ReadTimeout time.Duration
}

// NewSource creates a Source with a default sized ring.
func NewSource(port Port) *Source {
	return &Source{Port: port, Ring: hal.NewRing(hal.DefaultRingSize), ReadTimeout: DefaultReadTimeout}
}

// Name implements framework.Named.
func (s *Source) Name() string {
	return "serial"
}

// Run implements framework.Runnable.
func (s *Source) Run(ctx context.Context) error {
	defer s.Port.Close()
	if err := s.Port.SetReadTimeout(s.ReadTimeout); err != nil {
		return err
	}
	buf := make([]byte, 64)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := s.Port.Read(buf)
		if n > 0 {
			if written := s.Ring.Write(buf[:n]); written < n {
				glog.V(3).Infof("serial: dropped %d bytes", n-written)
			}
		}
		if err != nil {
			return err
		}
	}
}
