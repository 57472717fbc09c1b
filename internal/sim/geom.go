package sim

import "math"

// Vec is a point or displacement on the drawing surface, in pixels.
type Vec struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Add returns v+o.
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Scale returns v*k.
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dist returns the distance between v and o.
func (v Vec) Dist(o Vec) float64 { return v.Sub(o).Len() }

// Finite reports whether both components are representable numbers.
func (v Vec) Finite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Size is the drawing surface extent in pixels.
type Size struct {
	W float64 `json:"w" msgpack:"w"`
	H float64 `json:"h" msgpack:"h"`
}

// Empty reports whether the surface has no drawable area.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// Outside reports whether p lies beyond the surface extended by margin on
// every side.
func (s Size) Outside(p Vec, margin float64) bool {
	return p.X < -margin || p.X > s.W+margin || p.Y < -margin || p.Y > s.H+margin
}

// wrap moves v to the opposite boundary when it leaves [-margin, extent+margin].
func wrap(v, extent, margin float64) float64 {
	switch {
	case v < -margin:
		return extent + margin
	case v > extent+margin:
		return -margin
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
