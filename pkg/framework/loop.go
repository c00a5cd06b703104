package framework

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/twin.go/pkg/hal"
)

// DefaultInterval is the pause between two iterations.
const DefaultInterval = time.Millisecond

// Loop runs controllers cooperatively: every iteration executes all
// controllers in priority order on one goroutine, then pauses for Interval.
// Controllers never block and share state without locks.
// Runnables are background feeders (e.g. transports) and must only
// communicate with controllers through thread-safe collaborators.
type Loop struct {
	Interval time.Duration
	Clock    hal.Clock

	controllers [PriorityLevels][]Controller
	runners     []Runnable
	iteration   uint64
}

// LoopAdder provides specific logic to add components to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

type loopIteration struct {
	ctx           context.Context
	now           uint32
	iteration     uint64
	priorityLevel int
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{Interval: DefaultInterval, Clock: NewSystemClock()}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers to the loop.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	l.controllers[priorityLevel] = append(l.controllers[priorityLevel], ctls...)
	return l
}

// AddRunnable adds Runnable implementions.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	runner := NewRunnerWith(ctx)
	runner.Go(l.runners...)
	defer func() {
		if err := runner.Wait(); err != nil {
			glog.Errorf("runner error: %v", err)
		}
	}()

	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()
	for {
		l.Step(ctx)
		timer.Reset(interval)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Step runs one iteration synchronously.
func (l *Loop) Step(ctx context.Context) {
	if l.Clock == nil {
		l.Clock = NewSystemClock()
	}
	l.iteration++
	iter := &loopIteration{ctx: ctx, now: l.Clock.NowMillis(), iteration: l.iteration}
	for i := 0; i < PriorityLevels; i++ {
		iter.priorityLevel = i
		for _, ctl := range l.controllers[i] {
			if err := ctl.Control(iter); err != nil {
				glog.Errorf("controller error: %v", err)
			}
		}
	}
}

func (t *loopIteration) Context() context.Context {
	return t.ctx
}

func (t *loopIteration) NowMillis() uint32 {
	return t.now
}

func (t *loopIteration) Iteration() uint64 {
	return t.iteration
}

func (t *loopIteration) PriorityLevel() int {
	return t.priorityLevel
}
