// Package baseline records seeded engine runs and checks that a replay
// reproduces them exactly.
package baseline

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/litescript/ls-backdrop/internal/sim"
)

// Tolerance is the largest per-coordinate difference Verify accepts.
const Tolerance = 1e-9

// Sample is the state of one tick.
type Sample struct {
	Tick      uint64     `json:"tick" msgpack:"tick"`
	Counts    sim.Counts `json:"counts" msgpack:"counts"`
	Rocket    *sim.Vec   `json:"rocket,omitempty" msgpack:"rocket,omitempty"`
	Positions []sim.Vec  `json:"positions" msgpack:"positions"`
}

// Recording is a seeded run of Ticks engine steps.
type Recording struct {
	ID        string     `json:"id"`
	Theme     sim.Theme  `json:"theme"`
	Seed      uint64     `json:"seed"`
	Size      sim.Size   `json:"size"`
	Ticks     int        `json:"ticks"`
	CreatedAt time.Time  `json:"created_at"`
	Config    sim.Config `json:"config"`
	Samples   []Sample   `json:"samples"`
}

// Record steps a fresh engine ticks times and captures every entity
// position on each tick.
func Record(cfg sim.Config, seed uint64, size sim.Size, ticks int) (*Recording, error) {
	if ticks <= 0 {
		return nil, fmt.Errorf("ticks must be positive, got %d", ticks)
	}
	if size.Empty() {
		return nil, fmt.Errorf("empty surface %vx%v", size.W, size.H)
	}

	samples, err := run(cfg, seed, size, ticks)
	if err != nil {
		return nil, err
	}

	return &Recording{
		ID:        uuid.NewString(),
		Theme:     cfg.Theme,
		Seed:      seed,
		Size:      size,
		Ticks:     ticks,
		CreatedAt: time.Now().UTC(),
		Config:    cfg,
		Samples:   samples,
	}, nil
}

func run(cfg sim.Config, seed uint64, size sim.Size, ticks int) ([]Sample, error) {
	engine, err := sim.New(cfg, sim.NewSource(seed), size)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	samples := make([]Sample, 0, ticks)
	for i := 0; i < ticks; i++ {
		f := engine.Step()
		s := Sample{
			Tick:      f.Tick,
			Counts:    f.Counts(),
			Positions: f.Positions(),
		}
		if f.Rocket != nil {
			p := f.Rocket.Pos
			s.Rocket = &p
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// Report is the outcome of a replay.
type Report struct {
	ID         string `json:"id"`
	Ticks      int    `json:"ticks"`
	Match      bool   `json:"match"`
	DivergedAt uint64 `json:"diverged_at,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// Verify replays rec with its own seed and config and reports the first
// tick whose state differs from the recording.
func Verify(rec *Recording) (Report, error) {
	if rec == nil {
		return Report{}, fmt.Errorf("nil recording")
	}
	report := Report{ID: rec.ID, Ticks: rec.Ticks}
	if rec.Ticks != len(rec.Samples) {
		return report, fmt.Errorf("recording has %d samples for %d ticks", len(rec.Samples), rec.Ticks)
	}

	replay, err := run(rec.Config, rec.Seed, rec.Size, rec.Ticks)
	if err != nil {
		return report, err
	}

	for i := range replay {
		if detail := diff(rec.Samples[i], replay[i]); detail != "" {
			report.DivergedAt = rec.Samples[i].Tick
			report.Detail = detail
			return report, nil
		}
	}
	report.Match = true
	return report, nil
}

func diff(want, got Sample) string {
	if want.Tick != got.Tick {
		return fmt.Sprintf("tick %d, want %d", got.Tick, want.Tick)
	}
	if want.Counts != got.Counts {
		return fmt.Sprintf("counts %+v, want %+v", got.Counts, want.Counts)
	}
	if len(want.Positions) != len(got.Positions) {
		return fmt.Sprintf("%d positions, want %d", len(got.Positions), len(want.Positions))
	}
	for i := range want.Positions {
		w, g := want.Positions[i], got.Positions[i]
		if math.Abs(w.X-g.X) > Tolerance || math.Abs(w.Y-g.Y) > Tolerance {
			return fmt.Sprintf("position %d at (%.3f, %.3f), want (%.3f, %.3f)", i, g.X, g.Y, w.X, w.Y)
		}
	}
	return ""
}
