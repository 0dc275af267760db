package main

import (
	"sync"
	"testing"
	"time"
)

// testRefreshMS keeps the render loop out of the way; tests present with
// DrawCanvas or present directly.
const testRefreshMS = 3600 * 1000

func testConfig(scale int, depth PixelDepth) Config {
	cfg := DefaultConfig()
	cfg.Backend = "headless"
	cfg.Scale = scale
	cfg.Depth = int(depth)
	cfg.RefreshMS = testRefreshMS
	return cfg
}

func newTestDisplayConfig(t testing.TB, cfg Config) (*RA8875, *HeadlessOutput) {
	t.Helper()
	d := NewRA8875(nil)
	if err := d.Begin(cfg); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	out, ok := d.Backend().(*HeadlessOutput)
	if !ok {
		t.Fatalf("expected headless backend, got %T", d.Backend())
	}
	return d, out
}

func newTestDisplay(t testing.TB, scale int) (*RA8875, *HeadlessOutput) {
	t.Helper()
	return newTestDisplayConfig(t, testConfig(scale, Depth32))
}

// fakeClock is a settable time source for the pointer idle tests.
type fakeClock struct {
	mu  sync.Mutex
	cur time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{cur: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.cur = c.cur.Add(d)
	c.mu.Unlock()
}

// recordingSink captures everything a device decoder produces.
type recordingSink struct {
	mu      sync.Mutex
	moves   [][2]int
	buttons []bool
	keys    []KeyEvent
	limit   int // reject keys beyond this many when > 0
}

func (s *recordingSink) PointerMoved(x, y int) {
	s.mu.Lock()
	s.moves = append(s.moves, [2]int{x, y})
	s.mu.Unlock()
}

func (s *recordingSink) PointerButton(down bool) {
	s.mu.Lock()
	s.buttons = append(s.buttons, down)
	s.mu.Unlock()
}

func (s *recordingSink) PushKey(ev KeyEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.limit > 0 && len(s.keys) >= s.limit {
		return false
	}
	s.keys = append(s.keys, ev)
	return true
}

// readPixel returns the logical colour of APP pixel (x, y).
func readPixel(d *RA8875, x, y int) uint16 {
	d.SetXY(x, y)
	return d.ReadData()
}

// framePixel returns the presented native pixel at physical (x, y).
func framePixel(t *testing.T, out *HeadlessOutput, x, y int) uint32 {
	t.Helper()
	f := out.Frame()
	if f == nil {
		t.Fatal("no frame presented")
	}
	return f.At(x, y)
}

// newClockedDisplay is newTestDisplay with the pointer clock under test
// control.
func newClockedDisplay(t testing.TB, scale int) (*RA8875, *HeadlessOutput, *fakeClock) {
	t.Helper()
	clk := newFakeClock()
	d := NewRA8875(nil)
	d.now = clk.Now
	if err := d.Begin(testConfig(scale, Depth32)); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	return d, d.Backend().(*HeadlessOutput), clk
}
