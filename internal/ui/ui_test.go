package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-backdrop/internal/sim"
	"github.com/litescript/ls-backdrop/internal/state"
)

func newTestModel(t *testing.T, theme sim.Theme) (Model, *state.Manager) {
	t.Helper()
	mgr := state.NewManager(state.DefaultConfig())
	m, err := New(mgr, Options{Theme: theme, Seed: 1, Interval: time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m, mgr
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func tick() tea.Msg {
	return FrameTickMsg(time.Now())
}

func TestModel_BlankUntilSized(t *testing.T) {
	m, mgr := newTestModel(t, sim.ThemeSpace)
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() before size = %q", got)
	}
	send(m, tick(), tick())
	if mgr.HasFrame() {
		t.Error("no frame should be drawn before the window is sized")
	}
}

func TestModel_ResizeAndTick(t *testing.T) {
	m, mgr := newTestModel(t, sim.ThemeSpace)
	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 24}, tick())

	snap := mgr.Snapshot()
	want := sim.Size{W: 80 * CellWidth, H: float64((24 - headerHeight - footerHeight) * CellHeight)}
	if snap.Frame.Size != want {
		t.Errorf("frame size = %v, want %v", snap.Frame.Size, want)
	}
	if snap.Frame.Tick != 1 {
		t.Errorf("tick = %d, want 1", snap.Frame.Tick)
	}
	if snap.Totals.Resizes != 1 {
		t.Errorf("resizes = %d, want 1", snap.Totals.Resizes)
	}
	if snap.Counts.Stars != sim.DefaultConfig(sim.ThemeSpace).StarCount {
		t.Errorf("stars = %d", snap.Counts.Stars)
	}

	view := m.View()
	for _, want := range []string{"ls-backdrop", "[1] Backdrop", "[2] Stats", "q: quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModel_MouseHover(t *testing.T) {
	m, mgr := newTestModel(t, sim.ThemeSpace)
	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m = send(m, tea.MouseMsg{X: 10, Y: 0, Action: tea.MouseActionMotion}, tick())
	f := mgr.Snapshot().Frame
	if !f.Hover {
		t.Error("pointer on the header should hover")
	}
	if len(f.Trail) != 2 {
		t.Errorf("trail = %d points, want 2", len(f.Trail))
	}

	m = send(m, tea.MouseMsg{X: 10, Y: 8, Action: tea.MouseActionMotion}, tick())
	f = mgr.Snapshot().Frame
	if f.Hover {
		t.Error("pointer on the canvas should not hover")
	}
	if f.Trail[0] != PointAt(10, 8-headerHeight) {
		t.Errorf("trail head = %v, want %v", f.Trail[0], PointAt(10, 8-headerHeight))
	}

	// The footer row is off the canvas.
	send(m, tea.MouseMsg{X: 10, Y: 23, Action: tea.MouseActionMotion}, tick())
	if f = mgr.Snapshot().Frame; len(f.Trail) != 0 {
		t.Errorf("trail after leaving = %d points, want 0", len(f.Trail))
	}
}

func TestModel_ThemeToggle(t *testing.T) {
	m, mgr := newTestModel(t, sim.ThemeSpace)
	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 24}, tick(), key("t"), tick())

	if m.Theme() != sim.ThemeParticles {
		t.Errorf("theme = %s, want particles", m.Theme())
	}
	snap := mgr.Snapshot()
	if snap.Frame.Theme != sim.ThemeParticles || snap.Counts.Particles == 0 {
		t.Errorf("frame theme = %s with %d particles", snap.Frame.Theme, snap.Counts.Particles)
	}
	var sawTheme bool
	for _, e := range snap.Events {
		if e.Type == state.EventTheme && e.Detail == "particles" {
			sawTheme = true
		}
	}
	if !sawTheme {
		t.Error("theme switch should be logged")
	}

	m = send(m, key("t"))
	if m.Theme() != sim.ThemeSpace {
		t.Errorf("theme = %s, want space", m.Theme())
	}
}

func TestModel_PauseAndReseed(t *testing.T) {
	m, mgr := newTestModel(t, sim.ThemeParticles)
	m = send(m, tea.WindowSizeMsg{Width: 40, Height: 20}, tick(), key("p"), tick(), tick())

	if !m.Paused() {
		t.Error("p should pause")
	}
	if got := mgr.Snapshot().Totals.Frames; got != 1 {
		t.Errorf("frames while paused = %d, want 1", got)
	}

	m = send(m, key("p"), tick())
	if got := mgr.Snapshot().Totals.Frames; got != 2 {
		t.Errorf("frames after resume = %d, want 2", got)
	}

	m = send(m, key("r"))
	if m.Seed() != 2 {
		t.Errorf("seed = %d, want 2", m.Seed())
	}
	if m.Engine().Tick() != 0 {
		t.Errorf("reseeded engine tick = %d, want 0", m.Engine().Tick())
	}
}

func TestModel_SwitchViews(t *testing.T) {
	m, _ := newTestModel(t, sim.ThemeSpace)
	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 30}, tick())

	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.viewMode != ViewStats {
		t.Fatalf("viewMode = %d, want stats", m.viewMode)
	}
	if !strings.Contains(m.View(), "Backdrop Status") {
		t.Error("stats view should render")
	}

	m = send(m, key("1"))
	if m.viewMode != ViewBackdrop {
		t.Errorf("viewMode = %d, want backdrop", m.viewMode)
	}
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t, sim.ThemeSpace)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestNew_ConfigureError(t *testing.T) {
	mgr := state.NewManager(state.DefaultConfig())
	_, err := New(mgr, Options{
		Theme: sim.ThemeSpace,
		Configure: func(sim.Theme) (sim.Config, error) {
			cfg := sim.DefaultConfig(sim.ThemeSpace)
			cfg.TrailEase = 0
			return cfg, nil
		},
	})
	if err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestGradientColor(t *testing.T) {
	if got := gradientColor(0, 10); got != "#3B82F6" {
		t.Errorf("gradientColor(0) = %s, want #3B82F6", got)
	}
	for col := 0; col < 10; col++ {
		if c := gradientColor(col, 10); len(c) != 7 || c[0] != '#' {
			t.Errorf("gradientColor(%d) = %q", col, c)
		}
	}
}
