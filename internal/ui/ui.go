// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-backdrop/internal/logging"
	"github.com/litescript/ls-backdrop/internal/sim"
	"github.com/litescript/ls-backdrop/internal/state"
	"github.com/litescript/ls-backdrop/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewBackdrop ViewMode = iota
	ViewStats
)

// Rows taken by the header (title, tabs) and the footer.
const (
	headerHeight = 2
	footerHeight = 1
)

// Msg types for Bubble Tea
type (
	// FrameTickMsg advances the engine one tick.
	FrameTickMsg time.Time
)

// Options configure the root model.
type Options struct {
	Theme    sim.Theme
	Seed     uint64
	Interval time.Duration

	// Configure returns the engine tuning for a theme. Nil uses the
	// built-in defaults.
	Configure func(sim.Theme) (sim.Config, error)

	Logger *logging.Logger
}

// Model is the root Bubble Tea model. It owns the engine and steps it on
// every frame tick; terminal events only post to the engine's inbox.
type Model struct {
	// Dependencies
	state  *state.Manager
	opts   Options
	logger *logging.Logger

	engine *sim.Engine
	theme  sim.Theme
	seed   uint64

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	paused    bool
	statusMsg string
	animTick  int

	// Sub-models
	backdrop BackdropViewModel
	stats    StatsViewModel

	snapshot state.Snapshot
}

// New creates a new root UI model.
func New(stateMgr *state.Manager, opts Options) (Model, error) {
	if opts.Interval <= 0 {
		opts.Interval = sim.DefaultInterval
	}
	if opts.Theme == "" {
		opts.Theme = sim.ThemeSpace
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	m := Model{
		state:    stateMgr,
		opts:     opts,
		logger:   logger.With("ui"),
		theme:    opts.Theme,
		seed:     opts.Seed,
		viewMode: ViewBackdrop,
		backdrop: NewBackdropViewModel(int64(opts.Seed)),
		stats:    NewStatsViewModel(),
	}
	engine, err := m.newEngine(m.theme, m.seed)
	if err != nil {
		return Model{}, err
	}
	m.engine = engine
	return m, nil
}

func (m Model) newEngine(theme sim.Theme, seed uint64) (*sim.Engine, error) {
	cfg := sim.DefaultConfig(theme)
	if m.opts.Configure != nil {
		var err error
		if cfg, err = m.opts.Configure(theme); err != nil {
			return nil, fmt.Errorf("configure %s: %w", theme, err)
		}
	}
	return sim.New(cfg, sim.NewSource(seed), m.backdrop.Surface())
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return frameTickCmd(m.opts.Interval)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1":
			m.viewMode = ViewBackdrop
		case "2":
			m.viewMode = ViewStats
			m.engine.Inbox().ClearPointer()

		case "tab":
			// Cycle through views
			m.viewMode = (m.viewMode + 1) % 2
			if m.viewMode != ViewBackdrop {
				m.engine.Inbox().ClearPointer()
			}

		case "t":
			m.restart(m.theme.Next(), m.seed)
			if m.state != nil {
				m.state.RecordTheme(m.theme, m.engine.Tick())
			}

		case "r":
			m.restart(m.theme, m.seed+1)

		case "p":
			m.paused = !m.paused
			m.backdrop = m.backdrop.SetPaused(m.paused)

		default:
			// Pass to active view
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Propagate to sub-models
		contentHeight := max(msg.Height-headerHeight-footerHeight, 0)
		m.backdrop = m.backdrop.SetSize(msg.Width, contentHeight)
		m.stats = m.stats.SetSize(msg.Width, contentHeight)

		size := m.backdrop.Surface()
		m.engine.Inbox().PostSize(size.W, size.H)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case FrameTickMsg:
		cmds = append(cmds, frameTickCmd(m.opts.Interval))
		m.animTick++
		if !m.paused {
			m.step()
		}

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

// handleMouse posts the pointer in surface pixels. Rows above the canvas
// are the interactive header, so the pointer hovers there.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.viewMode != ViewBackdrop {
		return
	}
	inbox := m.engine.Inbox()
	row := msg.Y - headerHeight
	if row >= m.backdrop.height {
		inbox.ClearPointer()
		return
	}
	p := PointAt(msg.X, row)
	inbox.PostPointer(p.X, p.Y, msg.Y < headerHeight)
}

// step advances the engine and publishes the frame.
func (m *Model) step() {
	f := m.engine.Step()
	if f.Blank() {
		return
	}
	m.backdrop = m.backdrop.UpdateFrame(f)
	if m.state != nil {
		m.state.Draw(f)
		m.snapshot = m.state.Snapshot()
		m.stats = m.stats.UpdateData(m.snapshot)
	}
}

// restart replaces the engine, keeping the surface size.
func (m *Model) restart(theme sim.Theme, seed uint64) {
	engine, err := m.newEngine(theme, seed)
	if err != nil {
		m.logger.Error("restart engine: %v", err)
		m.statusMsg = err.Error()
		return
	}
	m.engine = engine
	m.theme = theme
	m.seed = seed
	m.statusMsg = fmt.Sprintf("theme %s, seed %d", theme, seed)
	m.logger.Info("engine restarted: theme=%s seed=%d", theme, seed)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewBackdrop:
		m.backdrop, cmd = m.backdrop.Update(msg)
	}
	return cmd
}

// Theme returns the active theme.
func (m Model) Theme() sim.Theme { return m.theme }

// Seed returns the active seed.
func (m Model) Seed() uint64 { return m.seed }

// Paused reports whether frame ticks are ignored.
func (m Model) Paused() bool { return m.paused }

// Engine returns the active engine.
func (m Model) Engine() *sim.Engine { return m.engine }

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewBackdrop:
		content = m.backdrop.View()
	case ViewStats:
		content = m.stats.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	return m.renderTitle() + "\n" + m.renderTabs()
}

func (m Model) renderTitle() string {
	title := "ls-backdrop"
	runes := []rune(title)

	var b strings.Builder
	b.WriteString("  ")
	for col, r := range runes {
		style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(gradientColor(col, len(runes))))
		b.WriteString(style.Render(string(r)))
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  portfolio backdrop · v%s", version.Version)))
	return b.String()
}

// gradientColor returns a hex color for a position in the title gradient:
// blue -> purple -> magenta -> pink.
func gradientColor(col, width int) string {
	xRatio := float64(col) / float64(max(width, 1))

	var r, g, b float64
	if xRatio < 0.33 {
		// Blue to Purple
		t := xRatio / 0.33
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246
	} else if xRatio < 0.66 {
		// Purple to Magenta
		t := (xRatio - 0.33) / 0.33
		r = 139 + t*(217-139)
		g = 92 + t*(70-92)
		b = 246 + t*(239-246)
	} else {
		// Magenta to Pink
		t := (xRatio - 0.66) / 0.34
		r = 217 + t*(236-217)
		g = 70 + t*(72-70)
		b = 239 + t*(153-239)
	}

	return fmt.Sprintf("#%02X%02X%02X", clampByte(r), clampByte(g), clampByte(b))
}

func clampByte(v float64) int {
	return min(max(int(v), 0), 255)
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Backdrop", "[2] Stats"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	// Animated spinner frames
	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[(m.animTick/4)%len(spinnerFrames)]

	var status string
	if m.paused {
		status = accentStyle.Render("‖") + dimStyle.Render(" paused")
	} else {
		status = accentStyle.Render(spinner) + dimStyle.Render(fmt.Sprintf(" %s · tick %d", m.theme, m.engine.Tick()))
	}
	if m.statusMsg != "" {
		status += dimStyle.Render(" · " + m.statusMsg)
	}

	help := dimStyle.Render("t: theme | p: pause | r: reseed | n: nebula | tab: switch view | q: quit")
	return "  " + status + "  " + dimStyle.Render("|") + "  " + help
}

func frameTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameTickMsg(t)
	})
}
