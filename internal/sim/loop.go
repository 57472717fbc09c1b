package sim

import (
	"context"
	"sync"
	"time"
)

// Surface receives frames. Draw is called from the loop goroutine only,
// once per tick, and must return before the next tick begins.
type Surface interface {
	Draw(Frame)
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(Frame)

// Draw implements Surface.
func (f SurfaceFunc) Draw(fr Frame) { f(fr) }

// DefaultInterval is one tick at 60 frames per second.
const DefaultInterval = time.Second / 60

// Loop schedules Engine.Step on a fixed interval and hands each frame to a
// Surface. A Loop runs at most once; Stop cancels it and is safe to call
// any number of times.
type Loop struct {
	engine   *Engine
	surface  Surface
	interval time.Duration

	once   sync.Once
	stop   chan struct{}
	done   chan struct{}
	closed sync.Once
}

// NewLoop creates a loop that steps engine every interval. A nil surface
// is allowed; the loop then simulates without drawing.
func NewLoop(engine *Engine, surface Surface, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		engine:   engine,
		surface:  surface,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run blocks, stepping the engine once per interval until ctx is done or
// Stop is called. Each tick completes its update and draw before the next
// one is considered; ticks that fall behind are dropped, not queued.
func (l *Loop) Run(ctx context.Context) {
	started := false
	l.once.Do(func() { started = true })
	if !started {
		return
	}
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.stop:
			return
		case <-ticker.C:
			l.frame()
		}
	}
}

func (l *Loop) frame() {
	f := l.engine.Step()
	if l.surface == nil || f.Blank() {
		return
	}
	l.surface.Draw(f)
}

// Stop cancels the tick chain. It waits for an in-flight tick to finish
// when the loop is running, so it must not be called from Draw.
func (l *Loop) Stop() {
	l.closed.Do(func() { close(l.stop) })
	started := true
	l.once.Do(func() { started = false })
	if started {
		<-l.done
	}
}
