package sim

import (
	"math"
	"sort"
)

// Satellite is a small craft drifting across the field. Depth in [0,1)
// scales its speed, size and brightness; deeper satellites paint first.
type Satellite struct {
	Pos   Vec     `json:"pos" msgpack:"pos"`
	Speed float64 `json:"speed" msgpack:"speed"`
	Size  float64 `json:"size" msgpack:"size"`
	Blink float64 `json:"blink" msgpack:"blink"`
	Angle float64 `json:"angle" msgpack:"angle"`
	Depth float64 `json:"depth" msgpack:"depth"`
}

func newSatellites(src Source, size Size, cfg Config) []Satellite {
	sats := make([]Satellite, cfg.SatelliteCount)
	for i := range sats {
		depth := src.Float64()
		sats[i] = Satellite{
			Pos:   Vec{src.Float64() * size.W, src.Float64() * size.H},
			Speed: 0.05 + depth*0.25,
			Size:  1 + depth*5,
			Blink: angle(src),
			Angle: centered(src, 0.3),
			Depth: depth,
		}
	}
	sort.SliceStable(sats, func(i, j int) bool { return sats[i].Depth < sats[j].Depth })
	return sats
}

func (s *Satellite) update(size Size, cfg Config) {
	s.Pos.X = wrap(s.Pos.X+s.Speed, size.W, cfg.SatelliteMargin)
	s.Pos.Y = wrap(s.Pos.Y+s.Speed*cfg.SatelliteDrift, size.H, cfg.SatelliteMargin)
	s.Blink += cfg.SatelliteBlink
}

// Lit reports whether the beacon is on this tick.
func (s Satellite) Lit() bool {
	return math.Sin(s.Blink) > 0.85
}
