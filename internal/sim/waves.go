package sim

import "math"

// Wave is one flowing background polyline.
type Wave struct {
	Points []Vec   `json:"pts" msgpack:"pts"`
	Alpha  float64 `json:"alpha" msgpack:"alpha"`
}

var waveAlpha = []float64{0.05, 0.03, 0.05}

// waves samples cfg.WaveCount polylines across the surface at time t. Each
// wave is the sum of two sines with per-wave speed, offset and amplitude.
func waves(size Size, cfg Config, t float64) []Wave {
	if size.Empty() || cfg.WaveStep <= 0 {
		return nil
	}
	out := make([]Wave, cfg.WaveCount)
	for i := range out {
		fi := float64(i)
		offset := fi * 200
		speed := 0.001 + fi*0.0005
		amp := 50 + fi*20

		n := int(size.W/cfg.WaveStep) + 1
		pts := make([]Vec, 0, n)
		for x := 0.0; x <= size.W; x += cfg.WaveStep {
			y := size.H/2 +
				math.Sin(x*0.002+t*speed+offset)*amp +
				math.Sin(x*0.005-t*speed*0.5)*(amp/2)
			pts = append(pts, Vec{x, y})
		}
		out[i] = Wave{Points: pts, Alpha: waveAlpha[i%len(waveAlpha)]}
	}
	return out
}

// Grid describes evenly spaced background lines.
type Grid struct {
	Spacing float64 `json:"spacing" msgpack:"spacing"`
}

// Lines returns the x positions of vertical lines and y positions of
// horizontal lines that fall inside size.
func (g Grid) Lines(size Size) (xs, ys []float64) {
	if g.Spacing <= 0 {
		return nil, nil
	}
	for x := 0.0; x < size.W; x += g.Spacing {
		xs = append(xs, x)
	}
	for y := 0.0; y < size.H; y += g.Spacing {
		ys = append(ys, y)
	}
	return xs, ys
}
