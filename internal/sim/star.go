package sim

// Star is a twinkling point that drifts slowly upward.
type Star struct {
	Pos     Vec     `json:"pos" msgpack:"pos"`
	Radius  float64 `json:"r" msgpack:"r"`
	Opacity float64 `json:"o" msgpack:"o"`
	Twinkle float64 `json:"-" msgpack:"-"` // signed opacity delta per tick
	Speed   float64 `json:"-" msgpack:"-"`
}

func newStar(src Source, size Size, cfg Config) Star {
	s := Star{
		Pos: Vec{src.Float64() * size.W, src.Float64() * size.H},
	}
	if chance(src, cfg.StarBigChance) {
		s.Radius = between(src, 1.2, 3.2)
	} else {
		s.Radius = between(src, 0.2, 1.0)
	}
	s.Opacity = src.Float64()
	s.Twinkle = between(src, cfg.StarTwinkleMin, cfg.StarTwinkleMin+cfg.StarTwinkleSpan)
	s.Speed = between(src, cfg.StarSpeedMin, cfg.StarSpeedMin+cfg.StarSpeedSpan)
	return s
}

func newStars(src Source, size Size, cfg Config) []Star {
	stars := make([]Star, cfg.StarCount)
	for i := range stars {
		stars[i] = newStar(src, size, cfg)
	}
	return stars
}

// update twinkles the star between cfg.StarMinOpacity and 1 and drifts it
// upward, re-entering at the bottom edge.
func (s *Star) update(size Size, cfg Config) {
	s.Opacity += s.Twinkle
	if s.Opacity > 1 {
		s.Opacity = 1
		s.Twinkle = -abs(s.Twinkle)
	} else if s.Opacity < cfg.StarMinOpacity {
		s.Opacity = cfg.StarMinOpacity
		s.Twinkle = abs(s.Twinkle)
	}

	s.Pos.Y -= s.Speed
	if s.Pos.Y < 0 {
		s.Pos.Y = size.H
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
