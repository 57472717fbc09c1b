// Package server streams frames over WebSocket and exposes the engine
// state and the recording store over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/litescript/ls-backdrop/internal/baseline"
	"github.com/litescript/ls-backdrop/internal/logging"
	"github.com/litescript/ls-backdrop/internal/sim"
	"github.com/litescript/ls-backdrop/internal/state"
	"github.com/litescript/ls-backdrop/internal/version"
)

const (
	// MaxRecordTicks bounds a recording made over HTTP.
	MaxRecordTicks = 10000

	// maxSurface bounds a client-requested surface side, in pixels.
	maxSurface = 8192

	// A recording made over HTTP may sample at most maxRecordEntities
	// entity positions and test at most maxRecordPairs particle pairs,
	// summed over all of its ticks.
	maxRecordEntities = 4_000_000
	maxRecordPairs    = 200_000_000

	defaultEvents = 20
)

// Options configure a Server.
type Options struct {
	Engine   *sim.Engine
	State    *state.Manager
	Store    *baseline.Store // nil disables the recording endpoints
	Interval time.Duration

	// Configure returns the engine tuning for a theme; used for new
	// recordings. Nil uses the built-in defaults.
	Configure func(sim.Theme) (sim.Config, error)

	Logger *logging.Logger
}

// Server owns the animation loop for one shared engine.
type Server struct {
	engine    *sim.Engine
	cfg       sim.Config
	state     *state.Manager
	store     *baseline.Store
	configure func(sim.Theme) (sim.Config, error)
	interval  time.Duration
	started   time.Time

	// pointerOwner is the client that posted the latest pointer, or 0.
	pointerOwner atomic.Uint64

	loop   *sim.Loop
	hub    *Hub
	router *gin.Engine
	logger *logging.Logger
}

// New creates a server. It does not start the loop; see Start and Run.
func New(opts Options) (*Server, error) {
	if opts.Engine == nil {
		return nil, errors.New("server: nil engine")
	}
	if opts.State == nil {
		opts.State = state.NewManager(state.DefaultConfig())
	}
	if opts.Interval <= 0 {
		opts.Interval = sim.DefaultInterval
	}
	if opts.Configure == nil {
		opts.Configure = func(t sim.Theme) (sim.Config, error) { return sim.DefaultConfig(t), nil }
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.With("server")

	s := &Server{
		engine:    opts.Engine,
		cfg:       opts.Engine.Config(),
		state:     opts.State,
		store:     opts.Store,
		configure: opts.Configure,
		interval:  opts.Interval,
		started:   time.Now(),
		hub:       NewHub(logger.With("hub")),
		logger:    logger,
	}
	s.loop = sim.NewLoop(s.engine, s.state, s.interval)
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the client hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start runs the animation loop and the frame fan-out in the background
// until ctx is done or Stop is called.
func (s *Server) Start(ctx context.Context) {
	go s.loop.Run(ctx)
	go s.hub.Run(ctx, s.state)
}

// Stop halts the animation loop.
func (s *Server) Stop() {
	s.loop.Stop()
}

// Run starts the loop and serves HTTP on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.Start(ctx)
	defer s.Stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	}
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	r.GET("/ws", s.handleWebSocket)

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/config", s.handleConfig)
	api.GET("/frame", s.handleFrame)
	api.GET("/events", s.handleEvents)

	rec := api.Group("/recordings")
	rec.Use(s.requireStore)
	rec.POST("", s.handleCreateRecording)
	rec.GET("", s.handleListRecordings)
	rec.GET("/:id", s.handleGetRecording)
	rec.GET("/:id/verify", s.handleVerifyRecording)
	rec.DELETE("/:id", s.handleDeleteRecording)

	return r
}

// requestLogger logs each request at debug level.
func requestLogger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Version,
		"clients": s.hub.Clients(),
		"frames":  s.state.Snapshot().Totals.Frames,
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"theme":       s.cfg.Theme,
		"interval_ms": s.interval.Milliseconds(),
		"tuning":      s.cfg,
	})
}

// handleFrame returns the latest frame as JSON, or as msgpack with
// ?format=msgpack.
func (s *Server) handleFrame(c *gin.Context) {
	if !s.state.HasFrame() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no frame yet"})
		return
	}
	f := s.state.Snapshot().Frame
	if c.Query("format") == "msgpack" {
		data, err := msgpack.Marshal(f)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/msgpack", data)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *Server) handleEvents(c *gin.Context) {
	n := defaultEvents
	if q := c.Query("n"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "n must be a positive integer"})
			return
		}
		n = v
	}
	events := s.state.RecentEvents(n)
	if events == nil {
		events = []state.Event{}
	}
	c.JSON(http.StatusOK, events)
}

func (s *Server) requireStore(c *gin.Context) {
	if s.store == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "recording store disabled"})
		return
	}
	c.Next()
}

// RecordRequest asks for a new baseline recording.
type RecordRequest struct {
	Theme  string  `json:"theme"`
	Seed   uint64  `json:"seed"`
	Ticks  int     `json:"ticks" binding:"required,min=1"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handleCreateRecording(c *gin.Context) {
	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Ticks > MaxRecordTicks {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("ticks must be at most %d", MaxRecordTicks)})
		return
	}
	theme, err := sim.ParseTheme(req.Theme)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	size := sim.Size{W: req.Width, H: req.Height}
	if size.Empty() {
		size = s.defaultSurface()
	}
	if size.W > maxSurface || size.H > maxSurface {
		c.JSON(http.StatusBadRequest, gin.H{"error": "surface too large"})
		return
	}

	cfg, err := s.configure(theme)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := checkRecordCost(cfg, size, req.Ticks); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := baseline.Record(cfg, req.Seed, size, req.Ticks)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.Save(c.Request.Context(), rec); err != nil {
		s.logger.Error("save recording: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save recording"})
		return
	}
	s.logger.Info("recorded %s: theme=%s seed=%d ticks=%d", rec.ID, rec.Theme, rec.Seed, rec.Ticks)
	c.JSON(http.StatusCreated, rec.Info())
}

// checkRecordCost rejects recordings whose total work over ticks exceeds
// the HTTP budget.
func checkRecordCost(cfg sim.Config, size sim.Size, ticks int) error {
	entities, pairs := cfg.Cost(size)
	n := int64(ticks)
	if entities*n > maxRecordEntities {
		return fmt.Errorf("recording too large: %d entities over %d ticks exceeds %d samples",
			entities, ticks, maxRecordEntities)
	}
	if pairs*n > maxRecordPairs {
		return fmt.Errorf("recording too large: %d particle pairs over %d ticks exceeds %d checks",
			pairs, ticks, maxRecordPairs)
	}
	return nil
}

// defaultSurface is the surface recordings use when the request names none:
// the live surface, or 1280x720 before the first frame.
func (s *Server) defaultSurface() sim.Size {
	if size := s.state.Snapshot().Frame.Size; !size.Empty() {
		return size
	}
	return sim.Size{W: 1280, H: 720}
}

func (s *Server) handleListRecordings(c *gin.Context) {
	infos, err := s.store.List(c.Request.Context())
	if err != nil {
		s.logger.Error("list recordings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list recordings"})
		return
	}
	if infos == nil {
		infos = []baseline.Info{}
	}
	c.JSON(http.StatusOK, infos)
}

func (s *Server) handleGetRecording(c *gin.Context) {
	rec, ok := s.loadRecording(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleVerifyRecording(c *gin.Context) {
	rec, ok := s.loadRecording(c)
	if !ok {
		return
	}
	report, err := baseline.Verify(rec)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleDeleteRecording(c *gin.Context) {
	err := s.store.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, baseline.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "recording not found"})
		return
	}
	if err != nil {
		s.logger.Error("delete recording: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete recording"})
		return
	}
	c.Status(http.StatusNoContent)
}

// loadRecording writes the error response itself when it returns false.
func (s *Server) loadRecording(c *gin.Context) (*baseline.Recording, bool) {
	rec, err := s.store.Load(c.Request.Context(), c.Param("id"))
	if errors.Is(err, baseline.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "recording not found"})
		return nil, false
	}
	if err != nil {
		s.logger.Error("load recording: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recording"})
		return nil, false
	}
	return rec, true
}
