// Package config resolves runtime settings from the environment, an
// optional .env file and an optional YAML tuning file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/litescript/ls-backdrop/internal/sim"
)

// Environment variable names.
const (
	EnvTheme    = "BACKDROP_THEME"
	EnvSeed     = "BACKDROP_SEED"
	EnvFPS      = "BACKDROP_FPS"
	EnvAddr     = "BACKDROP_ADDR"
	EnvDB       = "BACKDROP_DB"
	EnvLogLevel = "BACKDROP_LOG_LEVEL"
	EnvConfig   = "BACKDROP_CONFIG"
)

const (
	DefaultFPS  = 30
	MinFPS      = 1
	MaxFPS      = 120
	DefaultAddr = ":8080"
	DefaultDB   = "backdrop.db"
)

// Settings are the resolved process-level options. Flags override them
// in main.
type Settings struct {
	Theme      sim.Theme
	Seed       uint64 // 0 picks a seed from the clock
	FPS        int
	Addr       string
	DBPath     string
	LogLevel   string
	TuningPath string
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() Settings {
	return Settings{
		Theme:    sim.ThemeSpace,
		FPS:      DefaultFPS,
		Addr:     DefaultAddr,
		DBPath:   DefaultDB,
		LogLevel: "info",
	}
}

// Load reads envFile (a missing file is not an error) and then overlays
// the process environment onto the defaults.
func Load(envFile string) (Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv overlays the variables visible through lookup onto the defaults.
func FromEnv(lookup func(string) (string, bool)) (Settings, error) {
	s := Defaults()

	if v, ok := lookup(EnvTheme); ok {
		theme, err := sim.ParseTheme(v)
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %w", EnvTheme, err)
		}
		s.Theme = theme
	}
	if v, ok := lookup(EnvSeed); ok && strings.TrimSpace(v) != "" {
		seed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %w", EnvSeed, err)
		}
		s.Seed = seed
	}
	if v, ok := lookup(EnvFPS); ok && strings.TrimSpace(v) != "" {
		fps, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %w", EnvFPS, err)
		}
		s.FPS = fps
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		s.Addr = v
	}
	if v, ok := lookup(EnvDB); ok && v != "" {
		s.DBPath = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		s.LogLevel = v
	}
	if v, ok := lookup(EnvConfig); ok {
		s.TuningPath = v
	}

	s.FPS = ClampFPS(s.FPS)
	return s, nil
}

// ClampFPS keeps a frame rate inside [MinFPS, MaxFPS].
func ClampFPS(fps int) int {
	if fps < MinFPS {
		return MinFPS
	} else if fps > MaxFPS {
		return MaxFPS
	}
	return fps
}

// Interval returns the tick interval for the configured frame rate.
func (s Settings) Interval() time.Duration {
	return time.Second / time.Duration(ClampFPS(s.FPS))
}

// EngineConfig returns the engine tuning for the selected theme with the
// tuning file, if any, applied on top.
func (s Settings) EngineConfig() (sim.Config, error) {
	return EngineConfig(s.Theme, s.TuningPath)
}

// EngineConfig builds the tuning for theme, applying the YAML file at path
// when path is not empty.
func EngineConfig(theme sim.Theme, path string) (sim.Config, error) {
	cfg := sim.DefaultConfig(theme)
	if path != "" {
		t, err := LoadTuning(path)
		if err != nil {
			return sim.Config{}, err
		}
		t.ApplyTo(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return sim.Config{}, fmt.Errorf("tuning: %w", err)
	}
	return cfg, nil
}
