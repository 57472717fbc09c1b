package state

import (
	"sync"
	"testing"
	"time"

	"github.com/litescript/ls-backdrop/internal/sim"
)

func testFrame(tick uint64) sim.Frame {
	return sim.Frame{
		Tick:  tick,
		Theme: sim.ThemeSpace,
		Size:  sim.Size{W: 800, H: 600},
		Stars: make([]sim.Star, 3),
	}
}

func TestNewManager(t *testing.T) {
	m := NewManager(DefaultConfig())
	if m == nil {
		t.Fatal("NewManager returned nil")
	}
	if m.HasFrame() {
		t.Error("HasFrame should be false initially")
	}
	if ev := m.RecentEvents(10); ev != nil {
		t.Errorf("events = %v, want none", ev)
	}
}

func TestManager_Update(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.Update(testFrame(7))

	if !m.HasFrame() {
		t.Error("HasFrame should be true after Update")
	}
	snap := m.Snapshot()
	if snap.Frame.Tick != 7 {
		t.Errorf("Tick = %d, want 7", snap.Frame.Tick)
	}
	if snap.Counts.Stars != 3 {
		t.Errorf("Stars = %d, want 3", snap.Counts.Stars)
	}
	if snap.Totals.Frames != 1 {
		t.Errorf("Frames = %d, want 1", snap.Totals.Frames)
	}
}

func TestManager_Events(t *testing.T) {
	m := NewManager(DefaultConfig())

	f := testFrame(1)
	f.Resized = true
	m.Update(f)

	f = testFrame(2)
	f.Spawned = 2
	m.Update(f)

	f = testFrame(3)
	f.Respawned = true
	f.Rocket = &sim.Rocket{Edge: sim.EdgeLeft}
	m.Update(f)

	m.RecordTheme(sim.ThemeParticles, 3)

	events := m.RecentEvents(10)
	want := []EventType{EventResize, EventCometSpawn, EventCometSpawn, EventRocketRespawn, EventTheme}
	if len(events) != len(want) {
		t.Fatalf("events = %d, want %d", len(events), len(want))
	}
	for i, w := range want {
		if events[i].Type != w {
			t.Errorf("event %d = %s, want %s", i, events[i].Type, w)
		}
	}
	if events[0].Detail != "800x600" {
		t.Errorf("resize detail = %q, want 800x600", events[0].Detail)
	}
	if events[3].Detail != "left" {
		t.Errorf("respawn detail = %q, want left", events[3].Detail)
	}

	totals := m.Snapshot().Totals
	if totals.Comets != 2 || totals.Respawns != 1 || totals.Resizes != 1 {
		t.Errorf("totals = %+v", totals)
	}
}

func TestManager_EventRingBuffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEvents = 5
	m := NewManager(cfg)

	for i := 1; i <= 12; i++ {
		f := testFrame(uint64(i))
		f.Spawned = 1
		m.Update(f)
	}

	events := m.Snapshot().Events
	if len(events) != 5 {
		t.Fatalf("events = %d, want 5", len(events))
	}
	for i, e := range events {
		want := uint64(8 + i)
		if e.Tick != want {
			t.Errorf("event %d tick = %d, want %d (chronological)", i, e.Tick, want)
		}
	}

	recent := m.RecentEvents(2)
	if len(recent) != 2 || recent[1].Tick != 12 {
		t.Errorf("RecentEvents(2) = %+v", recent)
	}
}

func TestManager_Subscribe(t *testing.T) {
	m := NewManager(DefaultConfig())
	ch, cancel := m.Subscribe(1)
	if m.Subscribers() != 1 {
		t.Errorf("Subscribers = %d, want 1", m.Subscribers())
	}

	m.Update(testFrame(1))
	m.Update(testFrame(2)) // dropped, buffer full

	select {
	case f := <-ch:
		if f.Tick != 1 {
			t.Errorf("tick = %d, want 1", f.Tick)
		}
	case <-time.After(time.Second):
		t.Fatal("no frame delivered")
	}

	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after cancel")
	}
	if m.Subscribers() != 0 {
		t.Errorf("Subscribers = %d, want 0", m.Subscribers())
	}
	m.Update(testFrame(3))
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager(DefaultConfig())
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			f := testFrame(uint64(i))
			f.Spawned = i % 2
			m.Update(f)
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_ = m.Snapshot()
				_ = m.RecentEvents(5)
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_, cancel := m.Subscribe(0)
			cancel()
		}
	}()

	wg.Wait()
	if got := m.Snapshot().Totals.Frames; got != 200 {
		t.Errorf("Frames = %d, want 200", got)
	}
}

func TestManager_IsSurface(t *testing.T) {
	var _ sim.Surface = NewManager(DefaultConfig())
}
