package joystick

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/twin.go/pkg/hal"
	"github.com/robotalks/twin.go/pkg/l0/msgs"
)

// DefaultRetryInterval is the pause before reopening a device.
const DefaultRetryInterval = time.Second

// Source writes an input line into a ring whenever the tracked axis or
// button changes. Losing the device releases the gesture.
type Source struct {
	// DeviceIndex selects /dev/input/jsN, -1 detects the first one.
	DeviceIndex   int
	Axis          int
	Button        int
	RetryInterval time.Duration
	Ring          *hal.Ring

	// Opener opens the device. It defaults to Open or DetectAndOpen.
	Opener func(index int) (Device, error)
}

// NewSource creates a Source from a URL like js://0?axis=0&button=0.
// An empty host detects the device.
func NewSource(u *url.URL) (s *Source, err error) {
	s = &Source{
		DeviceIndex:   -1,
		RetryInterval: DefaultRetryInterval,
		Ring:          hal.NewRing(hal.DefaultRingSize),
	}
	q := u.Query()
	if s.DeviceIndex, err = parseIndex(u.Host, -1); err != nil {
		return nil, err
	}
	if s.Axis, err = parseIndex(q.Get("axis"), 0); err != nil {
		return nil, err
	}
	if s.Button, err = parseIndex(q.Get("button"), 0); err != nil {
		return nil, err
	}
	return s, nil
}

func parseIndex(val string, def int) (int, error) {
	if val == "" {
		return def, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid joystick index %q", val)
	}
	return n, nil
}

// Name implements framework.Named.
func (s *Source) Name() string {
	return "joystick"
}

// Run implements framework.Runnable.
func (s *Source) Run(ctx context.Context) error {
	retry := time.NewTimer(0)
	defer retry.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-retry.C:
		}
		dev, err := s.open()
		if err != nil || dev == nil {
			glog.V(1).Infof("joystick unavailable: %v", err)
			retry.Reset(s.RetryInterval)
			continue
		}
		glog.Infof("joystick %d %q opened", dev.Index(), dev.Name())
		err = s.track(ctx, dev)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		glog.Warningf("joystick %d lost: %v", dev.Index(), err)
		s.emit(msgs.Input{})
		retry.Reset(s.RetryInterval)
	}
}

func (s *Source) open() (Device, error) {
	if s.Opener != nil {
		return s.Opener(s.DeviceIndex)
	}
	if s.DeviceIndex >= 0 {
		return Open(s.DeviceIndex)
	}
	return DetectAndOpen(0)
}

func (s *Source) track(ctx context.Context, dev Device) error {
	defer dev.Close()
	evCh := make(chan Event)
	errCh := make(chan error, 1)
	go func() {
		for {
			ev, err := dev.ReadEvent()
			if err != nil {
				errCh <- err
				return
			}
			select {
			case evCh <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	var in msgs.Input
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return err
		case ev := <-evCh:
			glog.V(2).Infof("joystick %d %s", dev.Index(), ev)
			if s.apply(&in, ev) {
				s.emit(in)
			}
		}
	}
}

func (s *Source) apply(in *msgs.Input, ev Event) bool {
	prev := *in
	switch {
	case ev.IsAxis() && int(ev.Number) == s.Axis:
		in.X = msgs.Clamp(float64(ev.Value)/AxisMax, msgs.DomainMin, msgs.DomainMax)
	case ev.IsButton() && int(ev.Number) == s.Button:
		in.Active = ev.Value != 0
	}
	return *in != prev
}

func (s *Source) emit(in msgs.Input) {
	if !s.Ring.WriteLine([]byte(in.Format())) {
		glog.V(3).Infof("joystick: input dropped, ring full")
	}
}
