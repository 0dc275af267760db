// input_mouse.go - Pointer and touch state shared with the input goroutines

package main

import (
	"log/slog"
	"time"
)

// MouseSnapshot is the latest pointer position in APP coordinates.
// Idle is set once the pointer has not moved for the configured fade time.
type MouseSnapshot struct {
	X, Y int
	Idle bool
}

// mouseState is most-recent-wins: there is no motion history.
type mouseState struct {
	x, y     int
	valid    bool
	downs    int
	ups      int
	consumed int // presses returned by TouchRead
	lastMove time.Time
	touch    bool
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (d *RA8875) mouseFade() time.Duration {
	if d.cfg.MouseFadeMS <= 0 {
		return defaultMouseFadeMS * time.Millisecond
	}
	return d.cfg.MouseFade()
}

// GetMouse never blocks. It reports false until a position is known.
func (d *RA8875) GetMouse() (MouseSnapshot, bool) {
	fade := d.mouseFade()
	d.mouseMu.Lock()
	defer d.mouseMu.Unlock()
	if !d.mouse.valid {
		return MouseSnapshot{}, false
	}
	idle := d.now().Sub(d.mouse.lastMove) >= fade
	return MouseSnapshot{X: d.mouse.x, Y: d.mouse.y, Idle: idle}, true
}

// SetMouse records a pointer position in APP coordinates, clamped to the
// screen.
func (d *RA8875) SetMouse(x, y int) {
	x = clampInt(x, 0, APP_WIDTH-1)
	y = clampInt(y, 0, APP_HEIGHT-1)
	d.mouseMu.Lock()
	d.mouse.x, d.mouse.y = x, y
	d.mouse.valid = true
	d.mouse.lastMove = d.now()
	d.mouseMu.Unlock()
}

// PointerMoved takes physical coordinates from a backend.
func (d *RA8875) PointerMoved(rawX, rawY int) {
	x, y := d.res.ToApp(rawX), d.res.ToApp(rawY)
	if d.rotated.Load() {
		x = APP_WIDTH - 1 - x
		y = APP_HEIGHT - 1 - y
	}
	d.SetMouse(x, y)
}

// PointerButton counts presses and releases. A press also counts as
// activity so a faded cursor reappears.
func (d *RA8875) PointerButton(down bool) {
	d.mouseMu.Lock()
	if down {
		d.mouse.downs++
	} else {
		d.mouse.ups++
	}
	d.mouse.lastMove = d.now()
	d.mouseMu.Unlock()
}

// WarpCursor nudges the pointer n APP pixels in direction U, D, L or R
// (either case), clamped to the screen. An unknown pointer starts from
// the screen centre.
func (d *RA8875) WarpCursor(dir byte, n int) (int, int, bool) {
	var dx, dy int
	switch dir {
	case 'U', 'u':
		dy = -n
	case 'D', 'd':
		dy = n
	case 'L', 'l':
		dx = -n
	case 'R', 'r':
		dx = n
	default:
		return 0, 0, false
	}

	d.mouseMu.Lock()
	if !d.mouse.valid {
		d.mouse.x, d.mouse.y = APP_WIDTH/2, APP_HEIGHT/2
		d.mouse.valid = true
	}
	x := clampInt(d.mouse.x+dx, 0, APP_WIDTH-1)
	y := clampInt(d.mouse.y+dy, 0, APP_HEIGHT-1)
	d.mouse.x, d.mouse.y = x, y
	d.mouse.lastMove = d.now()
	d.mouseMu.Unlock()

	if w, ok := d.warper(); ok {
		rx, ry := d.res.ToRaw(x), d.res.ToRaw(y)
		if d.rotated.Load() {
			rx = d.res.Width - d.res.ToRaw(x+1)
			ry = d.res.Height - d.res.ToRaw(y+1)
		}
		logIsErr(d.log, slog.LevelWarn, w.WarpPointer(rx, ry), "op", "warp")
	}
	return x, y, true
}

func (d *RA8875) warper() (CursorWarper, bool) {
	if !d.DisplayReady() {
		return nil, false
	}
	w, ok := d.backend.(CursorWarper)
	return w, ok
}

// TouchEnable turns press reporting through Touched and TouchRead on or
// off. Presses seen while disabled are discarded.
func (d *RA8875) TouchEnable(on bool) {
	d.mouseMu.Lock()
	d.mouse.touch = on
	d.mouse.consumed = d.mouse.downs
	d.mouseMu.Unlock()
}

// Touched reports whether a press is waiting to be read.
func (d *RA8875) Touched() bool {
	d.mouseMu.Lock()
	defer d.mouseMu.Unlock()
	return d.mouse.touch && d.mouse.downs > d.mouse.consumed
}

// TouchRead consumes one press and returns the pointer position.
func (d *RA8875) TouchRead() (int, int) {
	d.mouseMu.Lock()
	defer d.mouseMu.Unlock()
	if d.mouse.downs > d.mouse.consumed {
		d.mouse.consumed++
	}
	return d.mouse.x, d.mouse.y
}
