package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-backdrop/internal/sim"
)

const colorOverlay = "60"

// BackdropViewModel renders the latest frame as a full-width canvas.
type BackdropViewModel struct {
	width  int
	height int

	seed   int64
	nebula bool
	raster Rasterizer

	frame  sim.Frame
	paused bool
}

// NewBackdropViewModel creates a backdrop view. The nebula shade is seeded
// by seed so it matches across runs.
func NewBackdropViewModel(seed int64) BackdropViewModel {
	return BackdropViewModel{
		seed:   seed,
		nebula: true,
		raster: NewRasterizer(seed, true),
	}
}

// Init implements the Bubble Tea model interface.
func (m BackdropViewModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the viewport size.
func (m BackdropViewModel) SetSize(width, height int) BackdropViewModel {
	m.width = width
	m.height = height
	return m
}

// Surface returns the pixel size of the viewport.
func (m BackdropViewModel) Surface() sim.Size {
	return SurfaceSize(m.width, m.height)
}

// UpdateFrame replaces the frame to draw.
func (m BackdropViewModel) UpdateFrame(f sim.Frame) BackdropViewModel {
	m.frame = f
	return m
}

// SetPaused toggles the paused overlay.
func (m BackdropViewModel) SetPaused(paused bool) BackdropViewModel {
	m.paused = paused
	return m
}

// Update handles messages.
func (m BackdropViewModel) Update(msg tea.Msg) (BackdropViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "n":
			m.nebula = !m.nebula
			m.raster = NewRasterizer(m.seed, m.nebula)
		}
	}
	return m, nil
}

// View renders the backdrop.
func (m BackdropViewModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	var c *Canvas
	if m.frame.Blank() {
		c = NewCanvas(m.width, m.height)
		msg := "Waiting for first frame..."
		c.Text((m.width-len(msg))/2, m.height/2, msg, colorOverlay)
	} else {
		c = m.raster.Draw(m.frame, m.width, m.height)
	}

	if m.paused {
		label := " PAUSED "
		c.Text(m.width-len(label)-1, 0, label, lipgloss.Color(colorTarget))
	}
	return c.Render()
}
