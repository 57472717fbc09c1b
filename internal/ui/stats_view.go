package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/litescript/ls-backdrop/internal/state"
)

// Styles for the stats view
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	eventStyles = map[state.EventType]lipgloss.Style{
		state.EventCometSpawn:    lipgloss.NewStyle().Foreground(lipgloss.Color(colorCometCyan)),
		state.EventRocketRespawn: lipgloss.NewStyle().Foreground(lipgloss.Color(colorRocket)),
		state.EventResize:        lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		state.EventTheme:         lipgloss.NewStyle().Foreground(lipgloss.Color(colorReticle)),
	}
)

// StatsViewModel shows running counters and the recent event log.
type StatsViewModel struct {
	width    int
	height   int
	snapshot state.Snapshot
	now      func() time.Time
}

// NewStatsViewModel creates a stats view.
func NewStatsViewModel() StatsViewModel {
	return StatsViewModel{now: time.Now}
}

// SetSize updates the viewport size.
func (m StatsViewModel) SetSize(width, height int) StatsViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with a new snapshot.
func (m StatsViewModel) UpdateData(snapshot state.Snapshot) StatsViewModel {
	m.snapshot = snapshot
	return m
}

type statRow struct {
	label string
	value string
}

func (m StatsViewModel) rows() []statRow {
	snap := m.snapshot
	f := snap.Frame
	c := snap.Counts

	last := "never"
	if !snap.LastFrame.IsZero() {
		last = humanize.RelTime(snap.LastFrame, m.now(), "ago", "from now")
	}

	return []statRow{
		{"Theme", string(f.Theme)},
		{"Surface", fmt.Sprintf("%.0f x %.0f px", f.Size.W, f.Size.H)},
		{"Tick", humanize.Comma(int64(f.Tick))},
		{"Frames drawn", humanize.Comma(int64(snap.Totals.Frames))},
		{"Stars", humanize.Comma(int64(c.Stars))},
		{"Satellites", humanize.Comma(int64(c.Satellites))},
		{"Comets", humanize.Comma(int64(c.Comets))},
		{"Particles", humanize.Comma(int64(c.Particles))},
		{"Links", humanize.Comma(int64(c.Links))},
		{"Comets spawned", humanize.Comma(int64(snap.Totals.Comets))},
		{"Rocket respawns", humanize.Comma(int64(snap.Totals.Respawns))},
		{"Resizes", humanize.Comma(int64(snap.Totals.Resizes))},
		{"Uptime", snap.Uptime.Round(time.Second).String()},
		{"Last frame", last},
	}
}

// View renders the stats view.
func (m StatsViewModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Backdrop Status"))
	b.WriteString("\n\n")

	rows := m.rows()
	for _, r := range rows {
		b.WriteString("  ")
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-16s", r.label)))
		b.WriteString(valueStyle.Render(r.value))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Recent Events"))
	b.WriteString("\n")

	// Title, blank, rows, blank, title
	room := m.height - len(rows) - 4
	if room < 1 {
		room = 1
	}
	events := m.snapshot.Events
	if len(events) > room {
		events = events[len(events)-room:]
	}
	if len(events) == 0 {
		b.WriteString(labelStyle.Render("  No events yet"))
		return b.String()
	}
	for i := len(events) - 1; i >= 0; i-- {
		b.WriteString(m.renderEvent(events[i]))
		if i > 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m StatsViewModel) renderEvent(e state.Event) string {
	style, ok := eventStyles[e.Type]
	if !ok {
		style = valueStyle
	}
	line := fmt.Sprintf("  %s  %s tick %-8s %s",
		e.Timestamp.Format("15:04:05"),
		style.Render(fmt.Sprintf("%-15s", e.Type)),
		humanize.Comma(int64(e.Tick)),
		e.Detail)
	return strings.TrimRight(line, " ")
}
