package sim

import "math"

// Edge names a side of the surface.
type Edge int

// Surface edges a rocket spawns beyond.
const (
	EdgeTop Edge = iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	default:
		return "unknown"
	}
}

// inward returns the heading, in radians, that points from e into the surface.
func (e Edge) inward() float64 {
	switch e {
	case EdgeTop:
		return math.Pi / 2
	case EdgeBottom:
		return -math.Pi / 2
	case EdgeLeft:
		return 0
	default:
		return math.Pi
	}
}

// Rocket wanders across the surface along a sinusoidally perturbed heading.
type Rocket struct {
	Pos       Vec     `json:"pos" msgpack:"pos"`
	Angle     float64 `json:"angle" msgpack:"angle"`
	BaseAngle float64 `json:"base" msgpack:"base"`
	Time      float64 `json:"t" msgpack:"t"`
	CurveFreq float64 `json:"-" msgpack:"-"`
	CurveAmp  float64 `json:"-" msgpack:"-"`
	Speed     float64 `json:"-" msgpack:"-"`
	Edge      Edge    `json:"edge" msgpack:"edge"`
}

func newRocket(src Source, size Size, cfg Config) Rocket {
	edge := Edge(int(src.Float64() * 4))
	if edge > EdgeRight {
		edge = EdgeRight
	}

	var pos Vec
	switch edge {
	case EdgeTop:
		pos = Vec{src.Float64() * size.W, -cfg.RocketBuffer}
	case EdgeBottom:
		pos = Vec{src.Float64() * size.W, size.H + cfg.RocketBuffer}
	case EdgeLeft:
		pos = Vec{-cfg.RocketBuffer, src.Float64() * size.H}
	default:
		pos = Vec{size.W + cfg.RocketBuffer, src.Float64() * size.H}
	}

	heading := edge.inward() + centered(src, cfg.RocketSpread)
	return Rocket{
		Pos:       pos,
		Angle:     heading,
		BaseAngle: heading,
		Time:      src.Float64() * 100,
		CurveFreq: cfg.RocketCurveFreq,
		CurveAmp:  cfg.RocketCurveAmp,
		Speed:     cfg.RocketSpeed,
		Edge:      edge,
	}
}

// Heading returns the unit vector of the current heading.
func (r Rocket) Heading() Vec {
	return Vec{math.Cos(r.Angle), math.Sin(r.Angle)}
}

// update advances the wander phase and moves one step along the heading.
// It reports whether the rocket is still inside the respawn limit.
func (r *Rocket) update(size Size, cfg Config) bool {
	r.Time += r.CurveFreq
	r.Angle = r.BaseAngle + math.Sin(r.Time)*r.CurveAmp
	r.Pos = r.Pos.Add(r.Heading().Scale(r.Speed))
	return !size.Outside(r.Pos, cfg.RocketLimit)
}
