// Package state provides thread-safe storage of the latest frame, running
// counters and an event log shared between the loop and its observers.
package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/litescript/ls-backdrop/internal/sim"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventCometSpawn    EventType = "COMET_SPAWN"
	EventRocketRespawn EventType = "ROCKET_RESPAWN"
	EventResize        EventType = "RESIZE"
	EventTheme         EventType = "THEME"
)

// Event represents a notable change in the simulation.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Tick      uint64    `json:"tick"`
	Detail    string    `json:"detail,omitempty"`
}

// Totals are running counters across every frame seen.
type Totals struct {
	Frames   uint64 `json:"frames"`
	Comets   uint64 `json:"comets"`
	Respawns uint64 `json:"respawns"`
	Resizes  uint64 `json:"resizes"`
}

// Manager handles the shared frame state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	current   sim.Frame
	lastFrame time.Time
	started   time.Time
	totals    Totals

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	// Subscribers receive each frame; slow ones miss frames.
	subs      map[int]chan sim.Frame
	nextID    int
	subBuffer int

	now func() time.Time
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents int

	// SubscriberBuffer is the per-subscriber frame channel capacity.
	SubscriberBuffer int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents:        50,
		SubscriberBuffer: 4,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	if cfg.SubscriberBuffer <= 0 {
		cfg.SubscriberBuffer = 4
	}
	m := &Manager{
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
		subs:      make(map[int]chan sim.Frame),
		subBuffer: cfg.SubscriberBuffer,
		now:       time.Now,
	}
	m.started = m.now()
	return m
}

// Draw implements sim.Surface: it records the frame, derives events and
// fans the frame out to subscribers.
func (m *Manager) Draw(f sim.Frame) {
	m.Update(f)
}

// Update atomically records a new frame.
func (m *Manager) Update(f sim.Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.current = f
	m.lastFrame = now
	m.totals.Frames++

	m.detectEvents(f, now)

	for _, ch := range m.subs {
		select {
		case ch <- f:
		default:
		}
	}
}

// detectEvents turns the per-tick flags of f into log entries.
func (m *Manager) detectEvents(f sim.Frame, now time.Time) {
	if f.Resized {
		m.totals.Resizes++
		m.addEvent(Event{
			Type:      EventResize,
			Timestamp: now,
			Tick:      f.Tick,
			Detail:    formatSize(f.Size),
		})
	}
	for i := 0; i < f.Spawned; i++ {
		m.totals.Comets++
		m.addEvent(Event{Type: EventCometSpawn, Timestamp: now, Tick: f.Tick})
	}
	if f.Respawned && f.Rocket != nil {
		m.totals.Respawns++
		m.addEvent(Event{
			Type:      EventRocketRespawn,
			Timestamp: now,
			Tick:      f.Tick,
			Detail:    f.Rocket.Edge.String(),
		})
	}
}

// RecordTheme logs a theme switch.
func (m *Manager) RecordTheme(theme sim.Theme, tick uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addEvent(Event{Type: EventTheme, Timestamp: m.now(), Tick: tick, Detail: string(theme)})
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Subscribe returns a channel receiving every subsequent frame and a
// function that cancels the subscription. Frames are dropped for a
// subscriber whose buffer is full.
func (m *Manager) Subscribe(buffer int) (<-chan sim.Frame, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if buffer <= 0 {
		buffer = m.subBuffer
	}

	id := m.nextID
	m.nextID++
	ch := make(chan sim.Frame, buffer)
	m.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subs, id)
			close(ch)
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (m *Manager) Subscribers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs)
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Frame     sim.Frame
	Counts    sim.Counts
	LastFrame time.Time
	Uptime    time.Duration
	Totals    Totals
	Events    []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Frame:     m.current,
		Counts:    m.current.Counts(),
		LastFrame: m.lastFrame,
		Uptime:    m.now().Sub(m.started),
		Totals:    m.totals,
		Events:    m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// HasFrame returns true once at least one frame has been recorded.
func (m *Manager) HasFrame() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totals.Frames > 0
}

func formatSize(s sim.Size) string {
	return fmt.Sprintf("%.0fx%.0f", s.W, s.H)
}
