package sim

// Layer identifies one paint pass. Layers paint in ascending order.
type Layer int

// Paint passes, back to front.
const (
	LayerGrid Layer = iota
	LayerWaves
	LayerStars
	LayerSatellites
	LayerParticles
	LayerLinks
	LayerComets
	LayerRocket
	LayerTrail
)

var layerNames = [...]string{"grid", "waves", "stars", "satellites", "particles", "links", "comets", "rocket", "trail"}

func (l Layer) String() string {
	if l < 0 || int(l) >= len(layerNames) {
		return "unknown"
	}
	return layerNames[l]
}

// Frame is an immutable copy of everything drawn on one tick.
type Frame struct {
	Tick  uint64 `json:"tick" msgpack:"tick"`
	Theme Theme  `json:"theme" msgpack:"theme"`
	Size  Size   `json:"size" msgpack:"size"`

	Grid       Grid        `json:"grid" msgpack:"grid"`
	Waves      []Wave      `json:"waves,omitempty" msgpack:"waves,omitempty"`
	Stars      []Star      `json:"stars,omitempty" msgpack:"stars,omitempty"`
	Satellites []Satellite `json:"satellites,omitempty" msgpack:"satellites,omitempty"`
	Particles  []Particle  `json:"particles,omitempty" msgpack:"particles,omitempty"`
	Links      []Link      `json:"links,omitempty" msgpack:"links,omitempty"`
	Comets     []Comet     `json:"comets,omitempty" msgpack:"comets,omitempty"`
	Rocket     *Rocket     `json:"rocket,omitempty" msgpack:"rocket,omitempty"`
	Trail      []Vec       `json:"trail,omitempty" msgpack:"trail,omitempty"`
	Hover      bool        `json:"hover" msgpack:"hover"`

	// Per-tick happenings, for event logs.
	Spawned   int  `json:"spawned,omitempty" msgpack:"spawned,omitempty"`
	Respawned bool `json:"respawned,omitempty" msgpack:"respawned,omitempty"`
	Resized   bool `json:"resized,omitempty" msgpack:"resized,omitempty"`
}

// Blank reports whether the frame has nothing to draw.
func (f Frame) Blank() bool {
	return f.Size.Empty()
}

// Layers returns the non-empty layers of f in paint order.
func (f Frame) Layers() []Layer {
	if f.Blank() {
		return nil
	}
	var out []Layer
	if f.Grid.Spacing > 0 {
		out = append(out, LayerGrid)
	}
	if len(f.Waves) > 0 {
		out = append(out, LayerWaves)
	}
	if len(f.Stars) > 0 {
		out = append(out, LayerStars)
	}
	if len(f.Satellites) > 0 {
		out = append(out, LayerSatellites)
	}
	if len(f.Particles) > 0 {
		out = append(out, LayerParticles)
	}
	if len(f.Links) > 0 {
		out = append(out, LayerLinks)
	}
	if len(f.Comets) > 0 {
		out = append(out, LayerComets)
	}
	if f.Rocket != nil {
		out = append(out, LayerRocket)
	}
	if len(f.Trail) > 0 {
		out = append(out, LayerTrail)
	}
	return out
}

// Positions flattens every entity position in paint order.
func (f Frame) Positions() []Vec {
	var out []Vec
	for _, s := range f.Stars {
		out = append(out, s.Pos)
	}
	for _, s := range f.Satellites {
		out = append(out, s.Pos)
	}
	for _, p := range f.Particles {
		out = append(out, p.Pos)
	}
	for _, c := range f.Comets {
		out = append(out, c.Pos)
	}
	if f.Rocket != nil {
		out = append(out, f.Rocket.Pos)
	}
	out = append(out, f.Trail...)
	return out
}

// Counts summarizes entity totals in a frame.
type Counts struct {
	Stars      int `json:"stars"`
	Satellites int `json:"satellites"`
	Comets     int `json:"comets"`
	Particles  int `json:"particles"`
	Links      int `json:"links"`
}

// Counts returns the entity totals of f.
func (f Frame) Counts() Counts {
	return Counts{
		Stars:      len(f.Stars),
		Satellites: len(f.Satellites),
		Comets:     len(f.Comets),
		Particles:  len(f.Particles),
		Links:      len(f.Links),
	}
}
