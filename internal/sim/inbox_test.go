package sim

import (
	"sync"
	"testing"
)

func TestInbox_LatestWins(t *testing.T) {
	var b Inbox
	b.PostPointer(1, 1, false)
	b.PostPointer(2, 3, true)
	b.PostSize(10, 10)
	b.PostSize(640, 480)

	in := b.Take()
	if in.Pointer == nil || in.Pointer.Pos != (Vec{2, 3}) || !in.Pointer.Hover {
		t.Errorf("pointer = %+v, want {2 3} hovering", in.Pointer)
	}
	if in.Size == nil || *in.Size != (Size{W: 640, H: 480}) {
		t.Errorf("size = %+v, want 640x480", in.Size)
	}

	in = b.Take()
	if in.Size != nil {
		t.Error("size should be consumed by the previous Take")
	}
	if in.Pointer == nil {
		t.Error("pointer should persist until cleared")
	}

	b.ClearPointer()
	if in := b.Take(); in.Pointer != nil {
		t.Error("pointer should be nil after ClearPointer")
	}
}

func TestInbox_ConcurrentProducers(t *testing.T) {
	var b Inbox
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				b.PostPointer(float64(i), float64(j), false)
				b.PostSize(float64(i+1), float64(j+1))
			}
		}(i)
	}
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			default:
				b.Take()
			}
		}
	}()
	wg.Wait()
	close(done)

	in := b.Take()
	if in.Pointer == nil {
		t.Fatal("pointer lost")
	}
	if in.Pointer.Pos.Y != 999 {
		t.Errorf("final pointer y = %v, want 999", in.Pointer.Pos.Y)
	}
}
