package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-backdrop/internal/sim"
)

// Tuning is the YAML tuning file. Every field is optional; unset fields
// keep the theme default.
type Tuning struct {
	Stars      *StarTuning      `yaml:"stars,omitempty"`
	Satellites *SatelliteTuning `yaml:"satellites,omitempty"`
	Comets     *CometTuning     `yaml:"comets,omitempty"`
	Rocket     *RocketTuning    `yaml:"rocket,omitempty"`
	Particles  *ParticleTuning  `yaml:"particles,omitempty"`
	Trail      *TrailTuning     `yaml:"trail,omitempty"`
}

type StarTuning struct {
	Count       *int     `yaml:"count,omitempty"`
	BigChance   *float64 `yaml:"big_chance,omitempty"`
	MinOpacity  *float64 `yaml:"min_opacity,omitempty"`
	TwinkleMin  *float64 `yaml:"twinkle_min,omitempty"`
	TwinkleSpan *float64 `yaml:"twinkle_span,omitempty"`
	SpeedMin    *float64 `yaml:"speed_min,omitempty"`
	SpeedSpan   *float64 `yaml:"speed_span,omitempty"`
}

type SatelliteTuning struct {
	Count  *int     `yaml:"count,omitempty"`
	Margin *float64 `yaml:"margin,omitempty"`
	Blink  *float64 `yaml:"blink,omitempty"`
	Drift  *float64 `yaml:"drift,omitempty"`
}

type CometTuning struct {
	Chance *float64 `yaml:"chance,omitempty"`
	Decay  *float64 `yaml:"decay,omitempty"`
	Margin *float64 `yaml:"margin,omitempty"`
	SpawnY *float64 `yaml:"spawn_y,omitempty"`
}

type RocketTuning struct {
	Speed     *float64 `yaml:"speed,omitempty"`
	CurveFreq *float64 `yaml:"curve_freq,omitempty"`
	CurveAmp  *float64 `yaml:"curve_amp,omitempty"`
	Buffer    *float64 `yaml:"buffer,omitempty"`
	Limit     *float64 `yaml:"limit,omitempty"`
	Spread    *float64 `yaml:"spread,omitempty"`
}

type ParticleTuning struct {
	Area          *float64 `yaml:"area,omitempty"`
	Margin        *float64 `yaml:"margin,omitempty"`
	Speed         *float64 `yaml:"speed,omitempty"`
	RepelRadius   *float64 `yaml:"repel_radius,omitempty"`
	RepelStrength *float64 `yaml:"repel_strength,omitempty"`
	LinkDistance  *float64 `yaml:"link_distance,omitempty"`
	WaveCount     *int     `yaml:"wave_count,omitempty"`
	WaveStep      *float64 `yaml:"wave_step,omitempty"`
	GridSize      *float64 `yaml:"grid_size,omitempty"`
}

type TrailTuning struct {
	Length *int     `yaml:"length,omitempty"`
	Ease   *float64 `yaml:"ease,omitempty"`
}

// LoadTuning reads and parses the tuning file at path.
func LoadTuning(path string) (*Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tuning file: %w", err)
	}
	t, err := ParseTuning(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return t, nil
}

// ParseTuning decodes YAML tuning. Unknown keys are rejected so typos do
// not silently fall back to defaults.
func ParseTuning(data []byte) (*Tuning, error) {
	var t Tuning
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &t, nil
}

// Marshal encodes t back to YAML.
func (t *Tuning) Marshal() ([]byte, error) {
	return yaml.Marshal(t)
}

// ApplyTo overwrites the fields of cfg that t sets.
func (t *Tuning) ApplyTo(cfg *sim.Config) {
	if t == nil {
		return
	}
	if s := t.Stars; s != nil {
		setInt(&cfg.StarCount, s.Count)
		setFloat(&cfg.StarBigChance, s.BigChance)
		setFloat(&cfg.StarMinOpacity, s.MinOpacity)
		setFloat(&cfg.StarTwinkleMin, s.TwinkleMin)
		setFloat(&cfg.StarTwinkleSpan, s.TwinkleSpan)
		setFloat(&cfg.StarSpeedMin, s.SpeedMin)
		setFloat(&cfg.StarSpeedSpan, s.SpeedSpan)
	}
	if s := t.Satellites; s != nil {
		setInt(&cfg.SatelliteCount, s.Count)
		setFloat(&cfg.SatelliteMargin, s.Margin)
		setFloat(&cfg.SatelliteBlink, s.Blink)
		setFloat(&cfg.SatelliteDrift, s.Drift)
	}
	if c := t.Comets; c != nil {
		setFloat(&cfg.CometChance, c.Chance)
		setFloat(&cfg.CometDecay, c.Decay)
		setFloat(&cfg.CometMargin, c.Margin)
		setFloat(&cfg.CometSpawnY, c.SpawnY)
	}
	if r := t.Rocket; r != nil {
		setFloat(&cfg.RocketSpeed, r.Speed)
		setFloat(&cfg.RocketCurveFreq, r.CurveFreq)
		setFloat(&cfg.RocketCurveAmp, r.CurveAmp)
		setFloat(&cfg.RocketBuffer, r.Buffer)
		setFloat(&cfg.RocketLimit, r.Limit)
		setFloat(&cfg.RocketSpread, r.Spread)
	}
	if p := t.Particles; p != nil {
		setFloat(&cfg.ParticleArea, p.Area)
		setFloat(&cfg.ParticleMargin, p.Margin)
		setFloat(&cfg.ParticleSpeed, p.Speed)
		setFloat(&cfg.RepelRadius, p.RepelRadius)
		setFloat(&cfg.RepelStrength, p.RepelStrength)
		setFloat(&cfg.LinkDistance, p.LinkDistance)
		setInt(&cfg.WaveCount, p.WaveCount)
		setFloat(&cfg.WaveStep, p.WaveStep)
		setFloat(&cfg.GridSize, p.GridSize)
	}
	if tr := t.Trail; tr != nil {
		setInt(&cfg.TrailLength, tr.Length)
		setFloat(&cfg.TrailEase, tr.Ease)
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
