package sim

import "math"

// Comet hues, in degrees.
const (
	HueCyan = 180
	HueBlue = 200
)

// Comet is a transient streak that fades as it falls.
type Comet struct {
	Pos     Vec     `json:"pos" msgpack:"pos"`
	Vel     Vec     `json:"vel" msgpack:"vel"`
	Length  float64 `json:"len" msgpack:"len"`
	Opacity float64 `json:"o" msgpack:"o"`
	Hue     int     `json:"hue" msgpack:"hue"`
}

func newComet(src Source, size Size, cfg Config) Comet {
	c := Comet{
		Pos:     Vec{src.Float64() * size.W, cfg.CometSpawnY},
		Vel:     Vec{centered(src, 12), between(src, 6, 14)},
		Length:  between(src, 100, 250),
		Opacity: 1,
		Hue:     HueCyan,
	}
	if src.Float64() > 0.5 {
		c.Hue = HueBlue
	}
	return c
}

// Tail returns the far end of the streak. The streak trails five ticks of
// motion, capped at the comet's length.
func (c Comet) Tail() Vec {
	speed := c.Vel.Len()
	if speed == 0 {
		return c.Pos
	}
	l := math.Min(speed*5, c.Length)
	return c.Pos.Sub(c.Vel.Scale(l / speed))
}

// update integrates and decays the comet and reports whether it survives.
func (c *Comet) update(size Size, cfg Config) bool {
	c.Pos = c.Pos.Add(c.Vel)
	c.Opacity -= cfg.CometDecay
	if c.Opacity <= 0 {
		return false
	}
	return !size.Outside(c.Pos, cfg.CometMargin)
}
