// Command ls-backdrop runs the animated portfolio backdrop in the terminal,
// renders single frames headlessly, records and verifies deterministic
// baselines, or streams frames to browsers over WebSocket.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-backdrop/internal/baseline"
	"github.com/litescript/ls-backdrop/internal/config"
	"github.com/litescript/ls-backdrop/internal/logging"
	"github.com/litescript/ls-backdrop/internal/server"
	"github.com/litescript/ls-backdrop/internal/sim"
	"github.com/litescript/ls-backdrop/internal/state"
	"github.com/litescript/ls-backdrop/internal/ui"
)

// CLI flags for headless mode
var (
	asciiTicks  int
	cols        int
	rows        int
	noNebula    bool
	recordTicks int
	summaryMode bool
	jsonPath    string
	saveMode    bool
	verifyPath  string
	verifyID    string
	serveMode   bool
	width       float64
	height      float64
)

func main() {
	// Parse flags
	envFile := flag.String("env", ".env", "Environment file to load (missing is fine)")
	themeName := flag.String("theme", "", "Theme: space or particles")
	seed := flag.Uint64("seed", 0, "Random seed (0 picks one from the clock)")
	fps := flag.Int("fps", 0, "Frames per second (1-120)")
	tuningPath := flag.String("config", "", "YAML tuning file")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Write logs to file (the TUI logs nowhere otherwise)")
	dbPath := flag.String("db", "", "Recording database path")
	addr := flag.String("addr", "", "Listen address for -serve")
	flag.IntVar(&asciiTicks, "ascii", 0, "Print the frame after N ticks instead of the TUI")
	flag.IntVar(&cols, "cols", 100, "Columns for -ascii")
	flag.IntVar(&rows, "rows", 30, "Rows for -ascii")
	flag.BoolVar(&noNebula, "no-nebula", false, "Disable the nebula shade for -ascii")
	flag.IntVar(&recordTicks, "record", 0, "Record a baseline of N ticks")
	flag.BoolVar(&summaryMode, "summary", false, "Print a text summary of the recording")
	flag.StringVar(&jsonPath, "json", "", "Export the recording as JSON (use - for stdout)")
	flag.BoolVar(&saveMode, "save", false, "Save the recording to the database")
	flag.StringVar(&verifyPath, "verify", "", "Replay a recording JSON file and report divergence")
	flag.StringVar(&verifyID, "verify-id", "", "Replay a stored recording and report divergence")
	flag.BoolVar(&serveMode, "serve", false, "Serve frames over WebSocket and the HTTP API")
	flag.Float64Var(&width, "width", 1280, "Surface width in pixels for -record and -serve")
	flag.Float64Var(&height, "height", 720, "Surface height in pixels for -record and -serve")
	flag.Parse()

	settings, err := config.Load(*envFile)
	if err != nil {
		fatalf("%v", err)
	}
	if *themeName != "" {
		theme, err := sim.ParseTheme(*themeName)
		if err != nil {
			fatalf("%v", err)
		}
		settings.Theme = theme
	}
	if *seed != 0 {
		settings.Seed = *seed
	}
	if *fps != 0 {
		settings.FPS = config.ClampFPS(*fps)
	}
	if *tuningPath != "" {
		settings.TuningPath = *tuningPath
	}
	if *logLevel != "" {
		settings.LogLevel = *logLevel
	}
	if *dbPath != "" {
		settings.DBPath = *dbPath
	}
	if *addr != "" {
		settings.Addr = *addr
	}
	if settings.Seed == 0 {
		settings.Seed = uint64(time.Now().UnixNano())
	}

	// Validate the tuning up front so every mode fails the same way
	if _, err := settings.EngineConfig(); err != nil {
		fatalf("%v", err)
	}

	headless := asciiTicks > 0 || recordTicks > 0 || verifyPath != "" || verifyID != "" || serveMode

	// Set up logging
	level := logging.ParseLevel(settings.LogLevel)
	var logger *logging.Logger
	switch {
	case *logFile != "":
		logger, err = logging.OpenFile(*logFile, level)
		if err != nil {
			fatalf("%v", err)
		}
	case headless:
		logger = logging.New(level)
	default:
		logger = logging.Discard()
	}
	defer logger.Close()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	configure := func(theme sim.Theme) (sim.Config, error) {
		return config.EngineConfig(theme, settings.TuningPath)
	}

	if headless {
		if err := runHeadless(ctx, settings, configure, logger); err != nil {
			logger.Close()
			fatalf("%v", err)
		}
		return
	}

	// Create TUI model
	model, err := ui.New(state.NewManager(state.DefaultConfig()), ui.Options{
		Theme:     settings.Theme,
		Seed:      settings.Seed,
		Interval:  settings.Interval(),
		Configure: configure,
		Logger:    logger,
	})
	if err != nil {
		fatalf("%v", err)
	}
	logger.Info("starting TUI: theme=%s seed=%d fps=%d", settings.Theme, settings.Seed, settings.FPS)

	// Run TUI (blocks until quit)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// runHeadless handles every mode that does not start the TUI.
func runHeadless(ctx context.Context, settings config.Settings, configure func(sim.Theme) (sim.Config, error), logger *logging.Logger) error {
	cfg, err := configure(settings.Theme)
	if err != nil {
		return err
	}
	surface := sim.Size{W: width, H: height}

	switch {
	case serveMode:
		return runServer(ctx, settings, cfg, surface, configure, logger)
	case verifyPath != "" || verifyID != "":
		return runVerify(ctx, settings, logger)
	case recordTicks > 0:
		return runRecord(ctx, settings, cfg, surface, logger)
	default:
		return runASCII(settings, cfg)
	}
}

func runServer(ctx context.Context, settings config.Settings, cfg sim.Config, surface sim.Size, configure func(sim.Theme) (sim.Config, error), logger *logging.Logger) error {
	engine, err := sim.New(cfg, sim.NewSource(settings.Seed), surface)
	if err != nil {
		return err
	}

	var store *baseline.Store
	if settings.DBPath != "" {
		store, err = baseline.Open(settings.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	srv, err := server.New(server.Options{
		Engine:    engine,
		Store:     store,
		Interval:  settings.Interval(),
		Configure: configure,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	logger.Info("serving theme=%s seed=%d fps=%d db=%q", settings.Theme, settings.Seed, settings.FPS, settings.DBPath)
	return srv.Run(ctx, settings.Addr)
}

func runRecord(ctx context.Context, settings config.Settings, cfg sim.Config, surface sim.Size, logger *logging.Logger) error {
	rec, err := baseline.Record(cfg, settings.Seed, surface, recordTicks)
	if err != nil {
		return err
	}
	logger.Debug("recorded %s: %d ticks", rec.ID, rec.Ticks)

	// Export JSON if requested
	if jsonPath != "" {
		if err := writeJSON(rec, jsonPath); err != nil {
			return err
		}
	}

	if saveMode {
		store, err := baseline.Open(settings.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(ctx, rec); err != nil {
			return err
		}
		logger.Info("saved recording %s to %s", rec.ID, settings.DBPath)
	}

	// Print summary if requested, or when nothing else was asked for
	if summaryMode || (jsonPath == "" && !saveMode) {
		baseline.WriteSummary(os.Stdout, rec)
	}
	return nil
}

func writeJSON(rec *baseline.Recording, path string) error {
	if path == "-" {
		if err := rec.WriteJSON(os.Stdout); err != nil {
			return fmt.Errorf("write JSON to stdout: %w", err)
		}
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create recording file: %w", err)
	}
	defer f.Close()
	if err := rec.WriteJSON(f); err != nil {
		return fmt.Errorf("write JSON to file: %w", err)
	}
	return nil
}

func runVerify(ctx context.Context, settings config.Settings, logger *logging.Logger) error {
	var rec *baseline.Recording
	if verifyID != "" {
		store, err := baseline.Open(settings.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		if rec, err = store.Load(ctx, verifyID); err != nil {
			return fmt.Errorf("load %s: %w", verifyID, err)
		}
	} else {
		f, err := os.Open(verifyPath)
		if err != nil {
			return fmt.Errorf("open recording: %w", err)
		}
		defer f.Close()
		if rec, err = baseline.ReadJSON(f); err != nil {
			return err
		}
	}

	report, err := baseline.Verify(rec)
	if err != nil {
		return err
	}
	if !report.Match {
		return fmt.Errorf("recording %s diverged at tick %d: %s", report.ID, report.DivergedAt, report.Detail)
	}
	logger.Debug("verified %s", report.ID)
	fmt.Printf("recording %s: %d ticks match\n", report.ID, report.Ticks)
	return nil
}

// runASCII prints one frame rasterized to the terminal grid.
func runASCII(settings config.Settings, cfg sim.Config) error {
	if cols <= 0 || rows <= 0 {
		return fmt.Errorf("invalid grid %dx%d", cols, rows)
	}
	engine, err := sim.New(cfg, sim.NewSource(settings.Seed), ui.SurfaceSize(cols, rows))
	if err != nil {
		return err
	}
	var f sim.Frame
	for i := 0; i < asciiTicks; i++ {
		f = engine.Step()
	}

	canvas := ui.NewRasterizer(int64(settings.Seed), !noNebula).Draw(f, cols, rows)
	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(canvas.Render())
	} else {
		fmt.Println(canvas.Plain())
	}
	return nil
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
