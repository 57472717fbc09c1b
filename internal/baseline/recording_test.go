package baseline

import (
	"bytes"
	"strings"
	"testing"

	"github.com/litescript/ls-backdrop/internal/sim"
)

var testSize = sim.Size{W: 640, H: 480}

func TestRecord(t *testing.T) {
	cfg := sim.DefaultConfig(sim.ThemeSpace)
	rec, err := Record(cfg, 42, testSize, 50)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.ID == "" {
		t.Error("recording should have an ID")
	}
	if len(rec.Samples) != 50 {
		t.Fatalf("samples = %d, want 50", len(rec.Samples))
	}
	for i, s := range rec.Samples {
		if s.Tick != uint64(i+1) {
			t.Errorf("sample %d tick = %d, want %d", i, s.Tick, i+1)
		}
		if s.Counts.Stars != cfg.StarCount {
			t.Errorf("sample %d stars = %d, want %d", i, s.Counts.Stars, cfg.StarCount)
		}
		if s.Rocket == nil {
			t.Errorf("sample %d has no rocket", i)
		}
	}
}

func TestRecord_Errors(t *testing.T) {
	cfg := sim.DefaultConfig(sim.ThemeSpace)
	if _, err := Record(cfg, 1, testSize, 0); err == nil {
		t.Error("expected error for zero ticks")
	}
	if _, err := Record(cfg, 1, sim.Size{}, 10); err == nil {
		t.Error("expected error for empty surface")
	}
	cfg.CometDecay = 0
	if _, err := Record(cfg, 1, testSize, 10); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestVerify(t *testing.T) {
	for _, theme := range []sim.Theme{sim.ThemeSpace, sim.ThemeParticles} {
		t.Run(string(theme), func(t *testing.T) {
			rec, err := Record(sim.DefaultConfig(theme), 7, testSize, 200)
			if err != nil {
				t.Fatalf("Record: %v", err)
			}
			report, err := Verify(rec)
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if !report.Match {
				t.Errorf("replay diverged at tick %d: %s", report.DivergedAt, report.Detail)
			}
		})
	}
}

func TestVerify_Divergence(t *testing.T) {
	rec, err := Record(sim.DefaultConfig(sim.ThemeSpace), 7, testSize, 30)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	rec.Samples[11].Positions[0].X += 1

	report, err := Verify(rec)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if report.Match {
		t.Fatal("tampered recording should not match")
	}
	if report.DivergedAt != 12 {
		t.Errorf("DivergedAt = %d, want 12", report.DivergedAt)
	}
	if report.Detail == "" {
		t.Error("expected a divergence detail")
	}
}

func TestVerify_WrongSeed(t *testing.T) {
	rec, err := Record(sim.DefaultConfig(sim.ThemeParticles), 1, testSize, 5)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	rec.Seed = 2
	report, err := Verify(rec)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if report.Match || report.DivergedAt != 1 {
		t.Errorf("report = %+v, want divergence at tick 1", report)
	}
}

func TestVerify_Truncated(t *testing.T) {
	rec, err := Record(sim.DefaultConfig(sim.ThemeSpace), 1, testSize, 5)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	rec.Samples = rec.Samples[:3]
	if _, err := Verify(rec); err == nil {
		t.Error("expected error for truncated recording")
	}
	if _, err := Verify(nil); err == nil {
		t.Error("expected error for nil recording")
	}
}

func TestVerify_InvalidConfig(t *testing.T) {
	rec, err := Record(sim.DefaultConfig(sim.ThemeParticles), 1, testSize, 3)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	rec.Config.WaveCount = -1
	if _, err := Verify(rec); err == nil {
		t.Error("expected error replaying a recording with a negative wave count")
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	rec, err := Record(sim.DefaultConfig(sim.ThemeSpace), 9, testSize, 20)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	var buf bytes.Buffer
	if err := rec.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	back, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	report, err := Verify(back)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !report.Match {
		t.Errorf("decoded recording diverged at tick %d: %s", report.DivergedAt, report.Detail)
	}
}

func TestWriteSummary(t *testing.T) {
	rec, err := Record(sim.DefaultConfig(sim.ThemeSpace), 3, testSize, 1500)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	var buf bytes.Buffer
	WriteSummary(&buf, rec)
	out := buf.String()

	for _, want := range []string{rec.ID, "theme=space", "seed=3", "ticks=1,500", "Rocket", "Total:"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	WriteSummary(&buf, &Recording{ID: "empty"})
	if !strings.Contains(buf.String(), "No samples") {
		t.Error("empty recording should print No samples")
	}
}
