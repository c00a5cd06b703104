package twin

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/twin.go/pkg/l0/msgs"
)

func TestCalibrationReload(t *testing.T) {
	tb := newTestBridge()
	tb.Apply(msgs.Input{X: 1, Active: true})
	fn := filepath.Join(t.TempDir(), "calibration.toml")
	w := NewCalibrationWatcher(fn, defaultConfig, tb.Bridge)

	require.False(t, w.Reload())
	require.NoError(t, os.WriteFile(fn, []byte("angle_max = 150\n"), 0644))
	require.True(t, w.Reload())
	require.NoError(t, os.WriteFile(fn, []byte("angle_max = 10\n"), 0644))
	require.False(t, w.Reload())

	require.Equal(t, 120, tb.State.Actuation.Target)
	require.NoError(t, w.Control(nil))
	require.Equal(t, 150, tb.Config.AngleMax)
	require.Equal(t, 150, tb.State.Actuation.Target)
	tb.Step()
	require.Equal(t, []int{150}, tb.servo.angles)
}

func TestCalibrationWatcherRun(t *testing.T) {
	tb := newTestBridge()
	dir := t.TempDir()
	fn := filepath.Join(dir, "calibration.toml")
	w := NewCalibrationWatcher(fn, defaultConfig, tb.Bridge)
	w.Debounce = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		os.WriteFile(fn, []byte("angle_center = 100\n"), 0644)
		return len(w.updates) == 1
	}, 2*time.Second, 20*time.Millisecond)
	cancel()
	require.Equal(t, context.Canceled, <-done)

	require.NoError(t, w.Control(nil))
	require.Equal(t, 100, tb.Config.AngleCenter)
}
