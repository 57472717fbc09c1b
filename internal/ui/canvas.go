package ui

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/litescript/ls-backdrop/internal/sim"
)

// One terminal cell covers this many surface pixels.
const (
	CellWidth  = 8
	CellHeight = 16
)

const (
	glyphGrid      = '│'
	glyphGridH     = '─'
	glyphGridCross = '┼'
	glyphWave      = '~'
	glyphParticle  = '+'
	glyphLink      = '·'
	glyphComet     = '*'
	glyphExhaust   = '∙'
	glyphReticle   = '⊕'
	glyphTarget    = '◎'
	glyphTrailHead = '●'
	glyphTrail     = '•'
	glyphNebula    = '░'

	colorGrid       = "235"
	colorWaveBright = "#2A3B5C"
	colorWaveDim    = "#1E2A40"
	colorSatLit     = "#FF5555"
	colorSatNear    = "250"
	colorSatFar     = "242"
	colorParticle   = "#4FD1C5"
	colorParticleSm = "#2C7A7B"
	colorLink       = "#3B6E8F"
	colorLinkDim    = "#24465C"
	colorCometCyan  = "#7FFFFF"
	colorCometBlue  = "#7FBFFF"
	colorCometTail  = "#3C6E8C"
	colorRocket     = "#FFB86C"
	colorExhaust    = "#FF6E40"
	colorReticle    = "#9D4EDD"
	colorTarget     = "229"
	colorTrailHead  = "#E0B0FF"
	colorTrailMid   = "#9D4EDD"
	colorTrailTail  = "#5A3D7A"
	colorNebula     = "#1B1530"
)

// Rocket arrows indexed by heading octant, clockwise from east. Surface y
// grows downward.
var rocketArrows = [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

// SurfaceSize returns the pixel size of a cols x rows cell area.
func SurfaceSize(cols, rows int) sim.Size {
	if cols <= 0 || rows <= 0 {
		return sim.Size{}
	}
	return sim.Size{W: float64(cols * CellWidth), H: float64(rows * CellHeight)}
}

// PointAt returns the surface point at the center of cell (x, y).
func PointAt(x, y int) sim.Vec {
	return sim.Vec{
		X: (float64(x) + 0.5) * CellWidth,
		Y: (float64(y) + 0.5) * CellHeight,
	}
}

// Canvas is a grid of glyphs with a foreground color per cell.
type Canvas struct {
	width  int
	height int
	runes  [][]rune
	colors [][]lipgloss.Color
	drawn  [][]bool
}

// NewCanvas creates a blank canvas.
func NewCanvas(width, height int) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c := &Canvas{
		width:  width,
		height: height,
		runes:  make([][]rune, height),
		colors: make([][]lipgloss.Color, height),
		drawn:  make([][]bool, height),
	}
	for y := 0; y < height; y++ {
		c.runes[y] = make([]rune, width)
		c.colors[y] = make([]lipgloss.Color, width)
		c.drawn[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			c.runes[y][x] = ' '
		}
	}
	return c
}

// Width returns the canvas width in cells.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in cells.
func (c *Canvas) Height() int { return c.height }

func (c *Canvas) inside(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Set paints a cell. Points off the canvas are ignored.
func (c *Canvas) Set(x, y int, r rune, color lipgloss.Color) {
	if !c.inside(x, y) {
		return
	}
	c.runes[y][x] = r
	c.colors[y][x] = color
	c.drawn[y][x] = true
}

// shade paints a background cell that later layers treat as empty.
func (c *Canvas) shade(x, y int, r rune, color lipgloss.Color) {
	if !c.inside(x, y) {
		return
	}
	c.runes[y][x] = r
	c.colors[y][x] = color
}

// At returns the glyph and color of a cell.
func (c *Canvas) At(x, y int) (rune, lipgloss.Color) {
	if !c.inside(x, y) {
		return 0, ""
	}
	return c.runes[y][x], c.colors[y][x]
}

// Empty reports whether nothing but background occupies a cell.
func (c *Canvas) Empty(x, y int) bool {
	return c.inside(x, y) && !c.drawn[y][x]
}

// Text writes s starting at (x, y), clipping at the right edge.
func (c *Canvas) Text(x, y int, s string, color lipgloss.Color) {
	for i, r := range []rune(s) {
		c.Set(x+i, y, r, color)
	}
}

// Plain returns the glyphs without color.
func (c *Canvas) Plain() string {
	lines := make([]string, c.height)
	for y := range c.runes {
		lines[y] = string(c.runes[y])
	}
	return strings.Join(lines, "\n")
}

// Render returns the canvas with colors applied. Runs of one color share
// a single style.
func (c *Canvas) Render() string {
	var b strings.Builder
	for y := 0; y < c.height; y++ {
		start := 0
		for x := 1; x <= c.width; x++ {
			if x < c.width && c.colors[y][x] == c.colors[y][start] {
				continue
			}
			run := string(c.runes[y][start:x])
			if color := c.colors[y][start]; color != "" {
				run = lipgloss.NewStyle().Foreground(color).Render(run)
			}
			b.WriteString(run)
			start = x
		}
		if y < c.height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Rasterizer paints frames onto canvases.
type Rasterizer struct {
	noise opensimplex.Noise // nil disables the nebula shade
}

// NewRasterizer creates a rasterizer. With nebula set, empty cells get a
// slowly drifting noise shade seeded by seed.
func NewRasterizer(seed int64, nebula bool) Rasterizer {
	if !nebula {
		return Rasterizer{}
	}
	return Rasterizer{noise: opensimplex.NewNormalized(seed)}
}

// Draw rasterizes f onto a cols x rows canvas, layer by layer in paint
// order. The frame's surface is stretched to fill the canvas.
func (r Rasterizer) Draw(f sim.Frame, cols, rows int) *Canvas {
	c := NewCanvas(cols, rows)
	if f.Blank() || cols == 0 || rows == 0 {
		return c
	}
	p := projector{size: f.Size, cols: cols, rows: rows}

	if r.noise != nil {
		r.drawNebula(c, f.Tick)
	}
	for _, layer := range f.Layers() {
		switch layer {
		case sim.LayerGrid:
			drawGrid(c, p, f.Grid)
		case sim.LayerWaves:
			drawWaves(c, p, f.Waves)
		case sim.LayerStars:
			drawStars(c, p, f.Stars)
		case sim.LayerSatellites:
			drawSatellites(c, p, f.Satellites)
		case sim.LayerParticles:
			drawParticles(c, p, f.Particles)
		case sim.LayerLinks:
			drawLinks(c, p, f.Links)
		case sim.LayerComets:
			drawComets(c, p, f.Comets)
		case sim.LayerRocket:
			drawRocket(c, p, *f.Rocket)
		case sim.LayerTrail:
			if f.Theme == sim.ThemeSpace {
				drawReticle(c, p, f.Trail, f.Hover)
			} else {
				drawTrail(c, p, f.Trail)
			}
		}
	}
	return c
}

// Nebula noise is sampled at this spatial and temporal frequency.
const (
	nebulaScaleX    = 0.06
	nebulaScaleY    = 0.12
	nebulaDrift     = 0.002
	nebulaThreshold = 0.68
)

func (r Rasterizer) drawNebula(c *Canvas, tick uint64) {
	t := float64(tick) * nebulaDrift
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			if r.noise.Eval3(float64(x)*nebulaScaleX, float64(y)*nebulaScaleY, t) > nebulaThreshold {
				c.shade(x, y, glyphNebula, colorNebula)
			}
		}
	}
}

// projector maps surface pixels to canvas cells.
type projector struct {
	size       sim.Size
	cols, rows int
}

func (p projector) cell(v sim.Vec) (int, int) {
	x := int(math.Floor(v.X / p.size.W * float64(p.cols)))
	y := int(math.Floor(v.Y / p.size.H * float64(p.rows)))
	return x, y
}

func (p projector) col(x float64) int {
	return int(math.Floor(x / p.size.W * float64(p.cols)))
}

func (p projector) row(y float64) int {
	return int(math.Floor(y / p.size.H * float64(p.rows)))
}

// segment calls fn for each cell along the line from a to b.
func (p projector) segment(a, b sim.Vec, fn func(x, y int, t float64)) {
	ax, ay := p.cell(a)
	bx, by := p.cell(b)
	steps := max(abs(bx-ax), abs(by-ay))
	if steps == 0 {
		fn(ax, ay, 0)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := ax + int(math.Round(float64(bx-ax)*t))
		y := ay + int(math.Round(float64(by-ay)*t))
		fn(x, y, t)
	}
}

func drawGrid(c *Canvas, p projector, g sim.Grid) {
	xs, ys := g.Lines(p.size)
	cols := make(map[int]bool, len(xs))
	for _, x := range xs {
		cols[p.col(x)] = true
	}
	for _, yv := range ys {
		y := p.row(yv)
		for x := 0; x < c.width; x++ {
			c.Set(x, y, glyphGridH, colorGrid)
		}
	}
	rows := make(map[int]bool, len(ys))
	for _, y := range ys {
		rows[p.row(y)] = true
	}
	for x := range cols {
		for y := 0; y < c.height; y++ {
			glyph := rune(glyphGrid)
			if rows[y] {
				glyph = glyphGridCross
			}
			c.Set(x, y, glyph, colorGrid)
		}
	}
}

func drawWaves(c *Canvas, p projector, waves []sim.Wave) {
	for _, w := range waves {
		color := lipgloss.Color(colorWaveDim)
		if w.Alpha >= 0.05 {
			color = colorWaveBright
		}
		for _, pt := range w.Points {
			x, y := p.cell(pt)
			c.Set(x, y, glyphWave, color)
		}
	}
}

func drawStars(c *Canvas, p projector, stars []sim.Star) {
	for _, s := range stars {
		x, y := p.cell(s.Pos)
		glyph, color := starGlyph(s.Radius, s.Opacity)
		c.Set(x, y, glyph, color)
	}
}

// starGlyph picks a glyph by radius and a grayscale level by opacity.
func starGlyph(radius, opacity float64) (rune, lipgloss.Color) {
	level := 236 + int(math.Round(clampUnit(opacity)*19))
	color := lipgloss.Color(strconv.Itoa(level))
	switch {
	case radius >= 1.2 && opacity > 0.7:
		return '✦', color
	case radius >= 1.2:
		return '+', color
	case opacity > 0.6:
		return '·', color
	default:
		return '.', color
	}
}

func drawSatellites(c *Canvas, p projector, sats []sim.Satellite) {
	for _, s := range sats {
		x, y := p.cell(s.Pos)
		switch {
		case s.Lit():
			c.Set(x, y, '◆', colorSatLit)
		case s.Depth > 0.5:
			c.Set(x, y, '▪', colorSatNear)
		default:
			c.Set(x, y, '·', colorSatFar)
		}
	}
}

func drawParticles(c *Canvas, p projector, ps []sim.Particle) {
	for _, pt := range ps {
		x, y := p.cell(pt.Pos)
		color := lipgloss.Color(colorParticleSm)
		if pt.Size > 4 {
			color = colorParticle
		}
		c.Set(x, y, glyphParticle, color)
	}
}

// drawLinks fills only empty cells so the crosses stay visible.
func drawLinks(c *Canvas, p projector, links []sim.Link) {
	for _, l := range links {
		color := lipgloss.Color(colorLinkDim)
		if l.Alpha > 0.5 {
			color = colorLink
		}
		p.segment(l.A, l.B, func(x, y int, _ float64) {
			if c.Empty(x, y) {
				c.Set(x, y, glyphLink, color)
			}
		})
	}
}

func drawComets(c *Canvas, p projector, comets []sim.Comet) {
	for _, cm := range comets {
		tail := tailGlyph(cm.Vel)
		p.segment(cm.Tail(), cm.Pos, func(x, y int, t float64) {
			if t < 1 && t*cm.Opacity > 0.15 {
				c.Set(x, y, tail, colorCometTail)
			}
		})
		head := lipgloss.Color(colorCometCyan)
		if cm.Hue == sim.HueBlue {
			head = colorCometBlue
		}
		x, y := p.cell(cm.Pos)
		c.Set(x, y, glyphComet, head)
	}
}

// tailGlyph picks a streak glyph for a comet moving along v.
func tailGlyph(v sim.Vec) rune {
	switch {
	case math.Abs(v.X) < v.Y*0.3:
		return '|'
	case v.X > 0:
		return '\\'
	default:
		return '/'
	}
}

func drawRocket(c *Canvas, p projector, r sim.Rocket) {
	h := r.Heading()
	behind := r.Pos.Sub(sim.Vec{X: h.X * CellWidth, Y: h.Y * CellHeight})
	if x, y := p.cell(behind); c.Empty(x, y) {
		c.Set(x, y, glyphExhaust, colorExhaust)
	}
	x, y := p.cell(r.Pos)
	c.Set(x, y, rocketGlyph(r.Angle), colorRocket)
}

// rocketGlyph returns the arrow nearest to heading angle a.
func rocketGlyph(a float64) rune {
	octant := int(math.Round(a/(math.Pi/4))) % 8
	if octant < 0 {
		octant += 8
	}
	return rocketArrows[octant]
}

// drawReticle marks the eased pointer follower. Hovering an interactive
// element widens it with brackets.
func drawReticle(c *Canvas, p projector, trail []sim.Vec, hover bool) {
	if len(trail) == 0 {
		return
	}
	x, y := p.cell(trail[len(trail)-1])
	if !hover {
		c.Set(x, y, glyphReticle, colorReticle)
		return
	}
	c.Set(x, y, glyphTarget, colorTarget)
	c.Set(x-1, y, '[', colorTarget)
	c.Set(x+1, y, ']', colorTarget)
}

// drawTrail paints tail first so the head lands on top.
func drawTrail(c *Canvas, p projector, trail []sim.Vec) {
	n := len(trail)
	for i := n - 1; i >= 0; i-- {
		x, y := p.cell(trail[i])
		switch {
		case i == 0:
			c.Set(x, y, glyphTrailHead, colorTrailHead)
		case i < n/2:
			c.Set(x, y, glyphTrail, colorTrailMid)
		default:
			c.Set(x, y, glyphTrail, colorTrailTail)
		}
	}
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
