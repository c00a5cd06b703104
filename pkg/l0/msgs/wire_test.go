package msgs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLEDFrameWire(t *testing.T) {
	out := &LEDFrame{Brightness: 75, Pixels: []byte{255, 100, 0, 0, 0, 0}}
	data, err := Encode(out)
	require.NoError(t, err)

	var in LEDFrame
	require.NoError(t, Decode(data, &in))
	require.Equal(t, uint32(75), in.Brightness)
	require.Equal(t, out.Pixels, in.Pixels)
}

func TestServoCommandZeroAngle(t *testing.T) {
	data, err := Encode(&ServoCommand{})
	require.NoError(t, err)
	require.Empty(t, data)
}
