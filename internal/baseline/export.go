package baseline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// WriteJSON writes rec as indented JSON.
func (rec *Recording) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

// ReadJSON decodes a recording written by WriteJSON.
func ReadJSON(r io.Reader) (*Recording, error) {
	var rec Recording
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode recording: %w", err)
	}
	return &rec, nil
}

// summaryRows is how many sampled ticks the summary table shows.
const summaryRows = 10

// WriteSummary prints a header and a table of evenly spaced samples.
func WriteSummary(w io.Writer, rec *Recording) {
	fmt.Fprintf(w, "Baseline %s @ %s\n", rec.ID, rec.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "theme=%s seed=%d surface=%.0fx%.0f ticks=%s\n",
		rec.Theme, rec.Seed, rec.Size.W, rec.Size.H, humanize.Comma(int64(rec.Ticks)))
	fmt.Fprintln(w, strings.Repeat("─", 72))

	if len(rec.Samples) == 0 {
		fmt.Fprintln(w, "No samples")
		return
	}

	fmt.Fprintf(w, "%-8s %-6s %-6s %-6s %-9s %-6s %s\n",
		"Tick", "Stars", "Sats", "Comets", "Particles", "Links", "Rocket")
	fmt.Fprintln(w, strings.Repeat("─", 72))

	step := len(rec.Samples) / summaryRows
	if step < 1 {
		step = 1
	}
	var positions int
	for i, s := range rec.Samples {
		positions += len(s.Positions)
		if i%step != 0 && i != len(rec.Samples)-1 {
			continue
		}
		rocket := "-"
		if s.Rocket != nil {
			rocket = fmt.Sprintf("(%.0f, %.0f)", s.Rocket.X, s.Rocket.Y)
		}
		fmt.Fprintf(w, "%-8d %-6d %-6d %-6d %-9d %-6d %s\n",
			s.Tick, s.Counts.Stars, s.Counts.Satellites, s.Counts.Comets,
			s.Counts.Particles, s.Counts.Links, rocket)
	}

	fmt.Fprintf(w, "\nTotal: %s positions over %s ticks\n",
		humanize.Comma(int64(positions)), humanize.Comma(int64(len(rec.Samples))))
}
