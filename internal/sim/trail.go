package sim

// Trail is a fixed-length chain of points that elastically follows the
// pointer. Point 0 is pinned to the raw pointer; every later point closes
// a fraction Ease of the gap to its predecessor each tick, so the gap
// shrinks by a factor of (1-Ease) per tick.
type Trail struct {
	Points []Vec
	Ease   float64
	primed bool
}

// NewTrail returns a trail of n points easing with factor ease.
func NewTrail(n int, ease float64) *Trail {
	return &Trail{Points: make([]Vec, n), Ease: ease}
}

// Follow advances the trail one tick toward target. The first call snaps
// every point to target so the trail does not sweep in from the origin.
func (t *Trail) Follow(target Vec) {
	if len(t.Points) == 0 {
		return
	}
	if !t.primed {
		for i := range t.Points {
			t.Points[i] = target
		}
		t.primed = true
		return
	}
	t.Points[0] = target
	for i := 1; i < len(t.Points); i++ {
		prev := t.Points[i-1]
		cur := t.Points[i]
		t.Points[i] = cur.Add(prev.Sub(cur).Scale(t.Ease))
	}
}

// Reset forgets the pointer; the next Follow snaps again.
func (t *Trail) Reset() {
	t.primed = false
}

// Active reports whether the trail has a position to draw.
func (t *Trail) Active() bool {
	return t.primed && len(t.Points) > 0
}

// Snapshot returns a copy of the points.
func (t *Trail) Snapshot() []Vec {
	if !t.Active() {
		return nil
	}
	out := make([]Vec, len(t.Points))
	copy(out, t.Points)
	return out
}
