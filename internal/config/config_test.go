package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/litescript/ls-backdrop/internal/sim"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	s, err := FromEnv(mapLookup(nil))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if s != Defaults() {
		t.Errorf("FromEnv(empty) = %+v, want %+v", s, Defaults())
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	s, err := FromEnv(mapLookup(map[string]string{
		EnvTheme:    "Particles",
		EnvSeed:     "42",
		EnvFPS:      "60",
		EnvAddr:     "127.0.0.1:9000",
		EnvDB:       "/tmp/x.db",
		EnvLogLevel: "debug",
		EnvConfig:   "tuning.yaml",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	want := Settings{
		Theme:      sim.ThemeParticles,
		Seed:       42,
		FPS:        60,
		Addr:       "127.0.0.1:9000",
		DBPath:     "/tmp/x.db",
		LogLevel:   "debug",
		TuningPath: "tuning.yaml",
	}
	if s != want {
		t.Errorf("FromEnv = %+v, want %+v", s, want)
	}
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad theme", map[string]string{EnvTheme: "ocean"}},
		{"bad seed", map[string]string{EnvSeed: "-1"}},
		{"bad fps", map[string]string{EnvFPS: "fast"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromEnv(mapLookup(tt.env)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestClampFPS(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-5, MinFPS},
		{0, MinFPS},
		{1, 1},
		{30, 30},
		{120, 120},
		{500, MaxFPS},
	}
	for _, tt := range tests {
		if got := ClampFPS(tt.in); got != tt.want {
			t.Errorf("ClampFPS(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSettings_Interval(t *testing.T) {
	s := Settings{FPS: 50}
	if got := s.Interval(); got != 20*time.Millisecond {
		t.Errorf("Interval() = %v, want 20ms", got)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("BACKDROP_SEED=7\nBACKDROP_THEME=particles\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv does not override variables already set.
	t.Setenv(EnvSeed, "")
	os.Unsetenv(EnvSeed)
	t.Setenv(EnvTheme, "")
	os.Unsetenv(EnvTheme)

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Seed != 7 || s.Theme != sim.ThemeParticles {
		t.Errorf("Load = %+v, want seed 7 theme particles", s)
	}
}

func TestLoad_MissingEnvFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Errorf("Load(missing) = %v, want nil", err)
	}
}
