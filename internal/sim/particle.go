package sim

import "math"

// Particle is a spinning cross that drifts and is pushed aside by the pointer.
type Particle struct {
	Pos   Vec     `json:"pos" msgpack:"pos"`
	Vel   Vec     `json:"-" msgpack:"-"`
	Size  float64 `json:"size" msgpack:"size"`
	Angle float64 `json:"angle" msgpack:"angle"`
	Spin  float64 `json:"-" msgpack:"-"`
}

// particleCount returns how many particles fill size at cfg's density.
func particleCount(size Size, cfg Config) int {
	if size.Empty() {
		return 0
	}
	return int(math.Ceil(size.W * size.H / cfg.ParticleArea))
}

func newParticles(src Source, size Size, cfg Config) []Particle {
	ps := make([]Particle, particleCount(size, cfg))
	for i := range ps {
		ps[i] = Particle{
			Pos:   Vec{src.Float64() * size.W, src.Float64() * size.H},
			Vel:   Vec{centered(src, cfg.ParticleSpeed), centered(src, cfg.ParticleSpeed)},
			Size:  between(src, 2, 6),
			Angle: angle(src),
			Spin:  centered(src, 0.02),
		}
	}
	return ps
}

// update drifts the particle, applies the pointer push and wraps it.
func (p *Particle) update(size Size, cfg Config, pointer *Vec) {
	p.Pos = p.Pos.Add(p.Vel)
	p.Angle += p.Spin

	if pointer != nil {
		p.Pos = p.Pos.Add(Repel(p.Pos, *pointer, cfg.RepelRadius, cfg.RepelStrength))
	}

	p.Pos.X = wrap(p.Pos.X, size.W, cfg.ParticleMargin)
	p.Pos.Y = wrap(p.Pos.Y, size.H, cfg.ParticleMargin)
}

// Repel returns the displacement that pushes pos away from pointer. Inside
// radius the push is strength*(radius-d)/radius along the pointer-to-pos
// direction; outside it, or at zero distance, there is none.
func Repel(pos, pointer Vec, radius, strength float64) Vec {
	d := pos.Sub(pointer)
	dist := d.Len()
	if dist == 0 || dist >= radius {
		return Vec{}
	}
	force := (radius - dist) / radius
	return d.Scale(force * strength / dist)
}

// Link is a faint line between two particles that are close together.
type Link struct {
	A     Vec     `json:"a" msgpack:"a"`
	B     Vec     `json:"b" msgpack:"b"`
	Alpha float64 `json:"alpha" msgpack:"alpha"`
}

// links returns a Link for every particle pair closer than maxDist. Alpha
// fades linearly with distance.
func links(ps []Particle, maxDist float64) []Link {
	var out []Link
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			d := ps[i].Pos.Dist(ps[j].Pos)
			if d < maxDist {
				out = append(out, Link{A: ps[i].Pos, B: ps[j].Pos, Alpha: 1 - d/maxDist})
			}
		}
	}
	return out
}
