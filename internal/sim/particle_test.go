package sim

import (
	"math"
	"testing"
)

func TestRepel(t *testing.T) {
	tests := []struct {
		name    string
		pos     Vec
		pointer Vec
		want    Vec
	}{
		{"outside radius", Vec{300, 0}, Vec{0, 0}, Vec{}},
		{"at radius", Vec{250, 0}, Vec{0, 0}, Vec{}},
		{"on pointer", Vec{5, 5}, Vec{5, 5}, Vec{}},
		{"halfway right", Vec{125, 0}, Vec{0, 0}, Vec{1.5, 0}},
		{"halfway up", Vec{0, -125}, Vec{0, 0}, Vec{0, -1.5}},
		{"close left", Vec{-25, 0}, Vec{0, 0}, Vec{-2.7, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Repel(tt.pos, tt.pointer, 250, 3)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("Repel(%v, %v) = %v, want %v", tt.pos, tt.pointer, got, tt.want)
			}
		})
	}
}

func TestParticle_RepelDoesNotChangeVelocity(t *testing.T) {
	cfg := DefaultConfig(ThemeParticles)
	p := Particle{Pos: Vec{400, 300}, Vel: Vec{0.1, -0.1}}
	pointer := Vec{390, 300}
	p.update(testSize, cfg, &pointer)

	if p.Vel != (Vec{0.1, -0.1}) {
		t.Errorf("velocity = %v, want unchanged", p.Vel)
	}
	if p.Pos.X <= 400.1 {
		t.Errorf("x = %v, want pushed right of 400.1", p.Pos.X)
	}
}

func TestParticle_Wrap(t *testing.T) {
	cfg := DefaultConfig(ThemeParticles)
	p := Particle{Pos: Vec{-10, 300}, Vel: Vec{-0.2, 0}}
	p.update(testSize, cfg, nil)
	if p.Pos.X != testSize.W+cfg.ParticleMargin {
		t.Errorf("x = %v, want %v", p.Pos.X, testSize.W+cfg.ParticleMargin)
	}
}

func TestLinks(t *testing.T) {
	ps := []Particle{
		{Pos: Vec{0, 0}},
		{Pos: Vec{90, 0}},
		{Pos: Vec{500, 0}},
	}
	got := links(ps, 180)
	if len(got) != 1 {
		t.Fatalf("links = %d, want 1", len(got))
	}
	if math.Abs(got[0].Alpha-0.5) > 1e-9 {
		t.Errorf("alpha = %v, want 0.5", got[0].Alpha)
	}
}

func TestWaves_Shape(t *testing.T) {
	cfg := DefaultConfig(ThemeParticles)
	ws := waves(Size{W: 100, H: 200}, cfg, 0)
	if len(ws) != 3 {
		t.Fatalf("waves = %d, want 3", len(ws))
	}
	for i, w := range ws {
		if len(w.Points) != 11 {
			t.Errorf("wave %d points = %d, want 11", i, len(w.Points))
		}
		amp := 50 + float64(i)*20
		for _, p := range w.Points {
			if math.Abs(p.Y-100) > amp*1.5+1e-9 {
				t.Errorf("wave %d y %v beyond amplitude", i, p.Y)
			}
		}
	}
}

func TestGrid_Lines(t *testing.T) {
	xs, ys := Grid{Spacing: 120}.Lines(Size{W: 300, H: 120})
	if len(xs) != 3 || len(ys) != 1 {
		t.Errorf("lines = %v / %v, want 3 vertical and 1 horizontal", xs, ys)
	}
}
