package framework

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/twin.go/pkg/hal"
)

func TestLoopStepOrder(t *testing.T) {
	var now uint32 = 1000
	loop := NewLoop()
	loop.Clock = hal.ClockFunc(func() uint32 { return now })

	var trace []string
	record := func(name string) Controller {
		return ControlFunc(func(cc ControlContext) error {
			trace = append(trace, name)
			require.Equal(t, now, cc.NowMillis())
			require.NotNil(t, cc.Context())
			return nil
		})
	}
	loop.AddController(PrLvAcuate, record("acuate"))
	loop.AddController(PrLvSense, record("sense"))
	loop.AddController(PrLvControl, record("control"))
	loop.AddController(PrLvPostProc, ControlFunc(func(cc ControlContext) error {
		trace = append(trace, "post")
		require.Equal(t, PrLvPostProc, cc.PriorityLevel())
		return errors.New("ignored")
	}))

	loop.Step(context.Background())
	require.Equal(t, []string{"sense", "control", "acuate", "post"}, trace)

	now = 1001
	trace = nil
	var iteration uint64
	loop.AddController(PrLvIdle, ControlFunc(func(cc ControlContext) error {
		iteration = cc.Iteration()
		return nil
	}))
	loop.Step(context.Background())
	require.Len(t, trace, 4)
	require.Equal(t, uint64(2), iteration)
}

func TestLoopRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := NewLoop()
	var steps int
	loop.AddController(PrLvControl, ControlFunc(func(cc ControlContext) error {
		if steps++; steps == 3 {
			cancel()
		}
		return nil
	}))
	started := make(chan struct{})
	loop.AddRunnable(NamedRun("feeder", RunFunc(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})))

	require.Equal(t, context.Canceled, loop.Run(ctx))
	require.Equal(t, 3, steps)
	<-started
}

func TestRunnerWait(t *testing.T) {
	r := NewRunner()
	failed := errors.New("failed")
	r.Go(RunFunc(func(context.Context) error { return nil }),
		NamedRun("serial", RunFunc(func(context.Context) error { return failed })),
		RunFunc(func(context.Context) error { return context.Canceled }))
	err := r.Wait()
	require.Error(t, err)
	require.Equal(t, "serial: failed", err.Error())
	require.ErrorIs(t, err, failed)
	var re *RunnerError
	require.ErrorAs(t, err, &re)
	require.Equal(t, "serial", re.Name)
}

type testCloser struct {
	closed chan struct{}
}

func (c *testCloser) Close() error {
	close(c.closed)
	return nil
}

func TestRunWithContextCloser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	closer := &testCloser{closed: make(chan struct{})}
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := RunWithContextCloser(ctx, closer, func() error {
		<-closer.closed
		return io.EOF
	})
	require.Equal(t, context.Canceled, err)

	closer = &testCloser{closed: make(chan struct{})}
	err = RunWithContextCloser(context.Background(), closer, func() error { return io.EOF })
	require.Equal(t, io.EOF, err)
	<-closer.closed
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil).Aggregate())
	errs.Add(errors.New("a"), errors.New("b"))
	require.Equal(t, "2 errors:\n  a\n  b", errs.Aggregate().Error())
}

func TestSystemClock(t *testing.T) {
	clock := NewSystemClock()
	first := clock.NowMillis()
	time.Sleep(5 * time.Millisecond)
	require.True(t, hal.Since(clock.NowMillis(), first) >= 5)
}
