package sim

import (
	"math"
	"testing"
)

func TestTrail_FirstFollowSnaps(t *testing.T) {
	tr := NewTrail(5, 0.3)
	if tr.Active() {
		t.Error("new trail should be inactive")
	}
	tr.Follow(Vec{10, 20})
	for i, p := range tr.Points {
		if p != (Vec{10, 20}) {
			t.Errorf("point %d = %v, want {10 20}", i, p)
		}
	}
}

func TestTrail_HeadPinned(t *testing.T) {
	tr := NewTrail(4, 0.5)
	targets := []Vec{{0, 0}, {5, 5}, {100, -3}, {7, 7}}
	for _, target := range targets {
		tr.Follow(target)
		if tr.Points[0] != target {
			t.Errorf("head = %v, want %v", tr.Points[0], target)
		}
	}
}

func TestTrail_GeometricConvergence(t *testing.T) {
	tests := []struct {
		name string
		ease float64
	}{
		{"reticle", 0.2},
		{"snake", 0.45},
		{"tight", 0.55},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTrail(3, tt.ease)
			tr.Follow(Vec{0, 0})
			tr.Follow(Vec{100, 0})

			// Head now fixed at 100; point 1 closes (1-k) of its gap per tick.
			gap := tr.Points[0].X - tr.Points[1].X
			for n := 0; n < 30; n++ {
				tr.Follow(Vec{100, 0})
				next := tr.Points[0].X - tr.Points[1].X
				want := gap * (1 - tt.ease)
				if math.Abs(next-want) > 1e-9 {
					t.Fatalf("tick %d: gap = %v, want %v", n, next, want)
				}
				gap = next
			}
			for i := 1; i < len(tr.Points); i++ {
				if d := tr.Points[i].Dist(tr.Points[i-1]); d > 1 {
					t.Errorf("point %d still %v from predecessor", i, d)
				}
			}
		})
	}
}

func TestTrail_ResetAndEmpty(t *testing.T) {
	tr := NewTrail(3, 0.3)
	tr.Follow(Vec{1, 1})
	tr.Reset()
	if tr.Snapshot() != nil {
		t.Error("snapshot after reset should be nil")
	}
	tr.Follow(Vec{9, 9})
	if tr.Points[2] != (Vec{9, 9}) {
		t.Errorf("follow after reset should snap, tail = %v", tr.Points[2])
	}

	empty := NewTrail(0, 0.3)
	empty.Follow(Vec{1, 1})
	if empty.Active() {
		t.Error("zero-length trail should never be active")
	}
}
