package joystick

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/twin.go/pkg/hal"
)

func TestDecodeEvent(t *testing.T) {
	ev, err := DecodeEvent([]byte{0x10, 0x27, 0, 0, 0x01, 0x80, TypeAxis | TypeInit, 3})
	require.NoError(t, err)
	require.Equal(t, Event{Time: 10000, Value: -32767, Type: TypeAxis | TypeInit, Number: 3}, ev)
	require.True(t, ev.IsInit())
	require.True(t, ev.IsAxis())
	require.False(t, ev.IsButton())
	require.Equal(t, "axis 3: -32767", ev.String())

	_, err = DecodeEvent([]byte{1, 2, 3})
	require.Equal(t, io.ErrUnexpectedEOF, err)
}

func TestNewSource(t *testing.T) {
	u, _ := url.Parse("js://1?axis=2&button=5")
	s, err := NewSource(u)
	require.NoError(t, err)
	require.Equal(t, 1, s.DeviceIndex)
	require.Equal(t, 2, s.Axis)
	require.Equal(t, 5, s.Button)

	u, _ = url.Parse("js://")
	s, err = NewSource(u)
	require.NoError(t, err)
	require.Equal(t, -1, s.DeviceIndex)

	u, _ = url.Parse("js://0?axis=x")
	_, err = NewSource(u)
	require.Error(t, err)
}

type fakeDevice struct {
	events []Event
	closed bool
}

func (d *fakeDevice) Close() error {
	d.closed = true
	return nil
}

func (d *fakeDevice) Index() int   { return 0 }
func (d *fakeDevice) Name() string { return "fake" }

func (d *fakeDevice) ReadEvent() (Event, error) {
	if len(d.events) == 0 {
		return Event{}, io.EOF
	}
	ev := d.events[0]
	d.events = d.events[1:]
	return ev, nil
}

func TestSourceRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dev := &fakeDevice{events: []Event{
		{Type: TypeAxis | TypeInit, Number: 0, Value: 0},
		{Type: TypeButton, Number: 0, Value: 1},
		{Type: TypeAxis, Number: 0, Value: AxisMax},
		{Type: TypeAxis, Number: 1, Value: 100},
		{Type: TypeButton, Number: 1, Value: 1},
		{Type: TypeButton, Number: 0, Value: 0},
	}}
	var opens int
	s := &Source{DeviceIndex: 0, RetryInterval: 1, Ring: hal.NewRing(0)}
	s.Opener = func(index int) (Device, error) {
		if opens++; opens == 1 {
			return dev, nil
		}
		cancel()
		return nil, errors.New("gone")
	}
	require.Equal(t, context.Canceled, s.Run(ctx))
	require.True(t, dev.closed)

	var out []byte
	for s.Ring.Available() > 0 {
		out = append(out, s.Ring.Read())
	}
	require.Equal(t, []string{
		`{"x":0,"active":1}`,
		`{"x":1,"active":1}`,
		`{"x":1,"active":0}`,
		`{"x":0,"active":0}`,
		"",
	}, strings.Split(string(out), "\n"))
}
