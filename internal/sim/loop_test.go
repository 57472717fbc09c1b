package sim

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestLoop_DrawsUntilCancelled(t *testing.T) {
	e := newTestEngine(t, ThemeSpace, 1)
	var frames atomic.Int64
	loop := NewLoop(e, SurfaceFunc(func(Frame) { frames.Add(1) }), time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for frames.Load() < 5 {
		select {
		case <-deadline:
			t.Fatalf("only %d frames drawn", frames.Load())
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	<-done

	n := frames.Load()
	time.Sleep(10 * time.Millisecond)
	if frames.Load() != n {
		t.Error("frames drawn after cancellation")
	}
}

func TestLoop_StopIsIdempotent(t *testing.T) {
	e := newTestEngine(t, ThemeParticles, 1)
	loop := NewLoop(e, nil, time.Millisecond)

	done := make(chan struct{})
	go func() {
		loop.Run(context.Background())
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)

	loop.Stop()
	loop.Stop()
	<-done

	// A stopped loop does not start again.
	ran := make(chan struct{})
	go func() {
		loop.Run(context.Background())
		close(ran)
	}()
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("Run after Stop should return immediately")
	}
}

func TestLoop_StopBeforeRun(t *testing.T) {
	e := newTestEngine(t, ThemeSpace, 1)
	loop := NewLoop(e, nil, 0)
	loop.Stop()
	loop.Run(context.Background())
}

func TestLoop_BlankSurfaceSkipsDraw(t *testing.T) {
	e, err := New(DefaultConfig(ThemeSpace), NewSource(1), Size{})
	if err != nil {
		t.Fatal(err)
	}
	drawn := false
	loop := NewLoop(e, SurfaceFunc(func(Frame) { drawn = true }), time.Millisecond)
	loop.frame()
	loop.frame()
	if drawn {
		t.Error("blank frames should not be drawn")
	}
}
