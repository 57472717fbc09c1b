package sim

import (
	"fmt"
	"math"
	"strings"
)

// Theme selects which entity families an Engine animates.
type Theme string

const (
	// ThemeSpace is the starfield: stars, satellites, comets, a wandering
	// rocket and the HUD reticle.
	ThemeSpace Theme = "space"
	// ThemeParticles is the drifting-cross field: grid, waves, particles
	// pushed by the pointer, connecting lines and an elastic pointer trail.
	ThemeParticles Theme = "particles"
)

// ParseTheme parses a theme name.
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "space":
		return ThemeSpace, nil
	case "particles", "particle":
		return ThemeParticles, nil
	default:
		return "", fmt.Errorf("unknown theme %q", s)
	}
}

// Next returns the other theme.
func (t Theme) Next() Theme {
	if t == ThemeParticles {
		return ThemeSpace
	}
	return ThemeParticles
}

// Config holds the tunables for one Engine. Distances are in pixels and
// rates are per tick.
type Config struct {
	Theme Theme

	// Stars
	StarCount       int
	StarBigChance   float64 // fraction of stars drawn large
	StarMinOpacity  float64 // twinkle reflects between this and 1
	StarTwinkleMin  float64
	StarTwinkleSpan float64
	StarSpeedMin    float64
	StarSpeedSpan   float64

	// Satellites
	SatelliteCount  int
	SatelliteMargin float64
	SatelliteBlink  float64 // phase advance per tick
	SatelliteDrift  float64 // vertical speed as a fraction of horizontal

	// Comets
	CometChance float64
	CometDecay  float64
	CometMargin float64
	CometSpawnY float64

	// Rocket
	RocketSpeed     float64
	RocketCurveFreq float64
	RocketCurveAmp  float64
	RocketBuffer    float64 // spawn distance outside the edge
	RocketLimit     float64 // respawn beyond this margin
	RocketSpread    float64 // heading jitter around the inward normal

	// Particles
	ParticleArea   float64 // one particle per this many square pixels
	ParticleMargin float64
	ParticleSpeed  float64
	RepelRadius    float64
	RepelStrength  float64
	LinkDistance   float64
	WaveCount      int
	WaveStep       float64
	GridSize       float64

	// Pointer trail
	TrailLength int
	TrailEase   float64
}

// DefaultConfig returns the tuning for theme.
func DefaultConfig(theme Theme) Config {
	cfg := Config{
		Theme: theme,

		StarCount:       350,
		StarBigChance:   0.1,
		StarMinOpacity:  0.2,
		StarTwinkleMin:  0.005,
		StarTwinkleSpan: 0.01,
		StarSpeedMin:    0.01,
		StarSpeedSpan:   0.03,

		SatelliteCount:  15,
		SatelliteMargin: 100,
		SatelliteBlink:  0.04,
		SatelliteDrift:  0.15,

		CometChance: 0.005,
		CometDecay:  0.01,
		CometMargin: 150,
		CometSpawnY: -100,

		RocketSpeed:     1.2,
		RocketCurveFreq: 0.02,
		RocketCurveAmp:  0.4,
		RocketBuffer:    100,
		RocketLimit:     200,
		RocketSpread:    1,

		ParticleArea:   18000,
		ParticleMargin: 10,
		ParticleSpeed:  0.4,
		RepelRadius:    250,
		RepelStrength:  3,
		LinkDistance:   180,
		WaveCount:      3,
		WaveStep:       10,
		GridSize:       120,

		// The space theme's reticle is a single eased follower.
		TrailLength: 2,
		TrailEase:   0.2,
	}
	if theme == ThemeParticles {
		cfg.TrailLength = 12
		cfg.TrailEase = 0.45
	}
	return cfg
}

// Smallest spacing, in pixels, accepted for grid lines and wave samples,
// and smallest area, in square pixels, accepted per particle.
const (
	MinSpacing      = 1.0
	MinParticleArea = 100.0
)

// Validate reports the first out-of-range setting. Comparisons are written
// so that NaN fails them.
func (c Config) Validate() error {
	if c.Theme != ThemeSpace && c.Theme != ThemeParticles {
		return fmt.Errorf("unknown theme %q", c.Theme)
	}
	if c.StarCount < 0 || c.SatelliteCount < 0 || c.WaveCount < 0 {
		return fmt.Errorf("entity counts must not be negative")
	}
	if !(c.CometChance >= 0 && c.CometChance <= 1) {
		return fmt.Errorf("comet chance %v outside [0,1]", c.CometChance)
	}
	if !(c.CometDecay > 0) {
		return fmt.Errorf("comet decay must be positive")
	}
	if c.TrailLength < 0 {
		return fmt.Errorf("trail length must not be negative")
	}
	if !(c.TrailEase > 0 && c.TrailEase <= 1) {
		return fmt.Errorf("trail ease %v outside (0,1]", c.TrailEase)
	}
	if !(c.ParticleArea >= MinParticleArea) {
		return fmt.Errorf("particle area %v below %v", c.ParticleArea, MinParticleArea)
	}
	if !(c.WaveStep >= MinSpacing) {
		return fmt.Errorf("wave step %v below %v", c.WaveStep, MinSpacing)
	}
	if !(c.GridSize >= MinSpacing) {
		return fmt.Errorf("grid size %v below %v", c.GridSize, MinSpacing)
	}
	distances := []struct {
		name string
		v    float64
	}{
		{"satellite margin", c.SatelliteMargin},
		{"comet margin", c.CometMargin},
		{"rocket buffer", c.RocketBuffer},
		{"rocket limit", c.RocketLimit},
		{"particle margin", c.ParticleMargin},
		{"repel radius", c.RepelRadius},
		{"link distance", c.LinkDistance},
	}
	for _, d := range distances {
		if !(d.v >= 0) || math.IsInf(d.v, 0) {
			return fmt.Errorf("%s %v must be finite and not negative", d.name, d.v)
		}
	}
	return nil
}

// Cost estimates the per-tick work of an engine drawing on size: the
// entities it moves and the particle pairs it tests for links.
func (c Config) Cost(size Size) (entities, pairs int64) {
	if size.Empty() {
		return 0, 0
	}
	switch c.Theme {
	case ThemeSpace:
		// Stars, satellites and the rocket; comets are transient.
		return int64(c.StarCount) + int64(c.SatelliteCount) + 1, 0
	case ThemeParticles:
		n := int64(particleCount(size, c))
		return n, n * (n - 1) / 2
	}
	return 0, 0
}
