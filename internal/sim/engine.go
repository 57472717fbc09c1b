// Package sim implements the backdrop animation engine: a deterministic,
// tick-driven simulation of decorative entities on a raster surface.
//
// An Engine owns all simulation state. Each call to Step drains the Inbox,
// advances every entity once and returns a Frame to paint. All randomness
// flows through an injected Source, so a seeded engine replays exactly.
package sim

import "fmt"

// Engine is the simulation state for one drawing surface.
type Engine struct {
	cfg   Config
	src   Source
	inbox *Inbox

	size  Size
	tick  uint64
	clock float64 // wave phase, advances one unit per tick

	stars      []Star
	satellites []Satellite
	comets     []Comet
	rocket     *Rocket
	particles  []Particle
	trail      *Trail
	pointer    *Pointer

	spawned  uint64
	respawns uint64
}

// New creates an engine for cfg drawing on a surface of size. A zero size
// yields an engine that produces blank frames until a size is posted.
func New(cfg Config, src Source, size Size) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if src == nil {
		return nil, fmt.Errorf("nil random source")
	}
	e := &Engine{
		cfg:   cfg,
		src:   src,
		inbox: &Inbox{},
		trail: NewTrail(cfg.TrailLength, cfg.TrailEase),
	}
	e.Resize(size)
	return e, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Inbox returns the mailbox event producers post to.
func (e *Engine) Inbox() *Inbox { return e.inbox }

// Size returns the current surface size.
func (e *Engine) Size() Size { return e.size }

// Tick returns the number of ticks simulated so far.
func (e *Engine) Tick() uint64 { return e.tick }

// Spawned returns the number of comets spawned so far.
func (e *Engine) Spawned() uint64 { return e.spawned }

// Respawns returns the number of rocket respawns so far.
func (e *Engine) Respawns() uint64 { return e.respawns }

// Resize sets the surface size and rebuilds the size-dependent collections
// from scratch. Comets and the rocket carry over.
func (e *Engine) Resize(size Size) {
	e.size = size
	e.stars, e.satellites, e.particles = nil, nil, nil
	if size.Empty() {
		return
	}

	switch e.cfg.Theme {
	case ThemeSpace:
		e.stars = newStars(e.src, size, e.cfg)
		e.satellites = newSatellites(e.src, size, e.cfg)
		if e.rocket == nil {
			r := newRocket(e.src, size, e.cfg)
			e.rocket = &r
		}
	case ThemeParticles:
		e.particles = newParticles(e.src, size, e.cfg)
	}
}

// Step drains the inbox, advances the simulation one tick and returns the
// frame to draw. Without a drawable surface it returns a blank frame and
// leaves the state untouched.
func (e *Engine) Step() Frame {
	in := e.inbox.Take()
	resized := false
	if in.Size != nil && *in.Size != e.size {
		e.Resize(*in.Size)
		resized = true
	}
	e.pointer = in.Pointer
	if e.pointer == nil {
		e.trail.Reset()
	}

	if e.size.Empty() {
		return Frame{Tick: e.tick, Theme: e.cfg.Theme, Size: e.size, Resized: resized}
	}

	e.tick++
	f := Frame{Tick: e.tick, Theme: e.cfg.Theme, Size: e.size, Resized: resized}

	switch e.cfg.Theme {
	case ThemeSpace:
		e.stepSpace(&f)
	case ThemeParticles:
		e.stepParticles(&f)
	}

	if e.pointer != nil {
		e.trail.Follow(e.pointer.Pos)
		f.Hover = e.pointer.Hover
	}
	f.Trail = e.trail.Snapshot()
	return f
}

func (e *Engine) stepSpace(f *Frame) {
	for i := range e.stars {
		e.stars[i].update(e.size, e.cfg)
	}
	for i := range e.satellites {
		e.satellites[i].update(e.size, e.cfg)
	}

	if chance(e.src, e.cfg.CometChance) {
		e.comets = append(e.comets, newComet(e.src, e.size, e.cfg))
		e.spawned++
		f.Spawned++
	}
	live := e.comets[:0]
	for _, c := range e.comets {
		if c.update(e.size, e.cfg) {
			live = append(live, c)
		}
	}
	e.comets = live

	if !e.rocket.update(e.size, e.cfg) {
		r := newRocket(e.src, e.size, e.cfg)
		e.rocket = &r
		e.respawns++
		f.Respawned = true
	}

	f.Stars = append([]Star(nil), e.stars...)
	f.Satellites = append([]Satellite(nil), e.satellites...)
	f.Comets = append([]Comet(nil), e.comets...)
	r := *e.rocket
	f.Rocket = &r
}

func (e *Engine) stepParticles(f *Frame) {
	e.clock++

	var pointer *Vec
	if e.pointer != nil {
		p := e.pointer.Pos
		pointer = &p
	}
	for i := range e.particles {
		e.particles[i].update(e.size, e.cfg, pointer)
	}

	f.Grid = Grid{Spacing: e.cfg.GridSize}
	f.Waves = waves(e.size, e.cfg, e.clock)
	f.Particles = append([]Particle(nil), e.particles...)
	f.Links = links(e.particles, e.cfg.LinkDistance)
}
