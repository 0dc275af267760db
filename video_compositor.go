// video_compositor.go - Render thread for the RA8875 surface

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

/*
video_compositor.go - Render Thread

Each tick the compositor turns the canvas into one frame for the backend:
- Copies the canvas into the staging buffer under the canvas lock,
  rotating it when the display is turned
- Keeps the protected region as it was last published
- Draws the pointer arrow into staging when the host has no cursor of its own
- Presents staging, then runs a pending protected region repaint

Signal Flow:

  app draw calls ──→ ┌──────────┐  canvasMu   ┌─────────┐   ┌─────────┐
                     │  Canvas  │ ──────────→ │ Staging │ ─→│ Backend │
  PR callback ─────→ └──────────┘             └─────────┘   └─────────┘
                                     cursor overlay ─┘

The compositor never writes the canvas.
*/

package main

import (
	"log/slog"
	"time"
)

// cursorSpot is the pointer position the last frame was composed with.
type cursorSpot struct {
	x, y    int
	visible bool
}

// cursorArrow is FB_CURSOR_W APP pixels square; '#' is the outline.
var cursorArrow = [FB_CURSOR_W]string{
	"#",
	"##",
	"#.#",
	"#..#",
	"#...#",
	"#....#",
	"#.....#",
	"#......#",
	"#.......#",
	"#........#",
	"#.....#####",
	"#..#..#",
	"#.# #..#",
	"##  #..#",
	"#    #..#",
	"     ###",
}

// refreshLoop runs for the life of the process.
func (d *RA8875) refreshLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		d.present(false, nil)
		d.repaintPR()
	}
}

// DrawCanvas presents the canvas now instead of waiting for the next tick
// and runs any pending protected region repaint.
func (d *RA8875) DrawCanvas() {
	if !d.DisplayReady() {
		return
	}
	d.present(true, nil)
	d.repaintPR()
}

// present composes and pushes one frame. It does nothing when the canvas
// is clean and the pointer has not changed, unless forced. When publish is
// the current protected region its fresh pixels become the ones shown.
func (d *RA8875) present(force bool, publish *protectedRegion) {
	d.frameMu.Lock()
	defer d.frameMu.Unlock()

	spot := d.cursorSpot()
	pr := d.pr.Load()
	rotated := d.rotated.Load()

	d.canvasMu.Lock()
	if !force && !d.dirty && spot == d.lastSpot {
		d.canvasMu.Unlock()
		return
	}
	if rotated {
		d.stage.CopyRotated180(d.canvas)
	} else {
		d.stage.CopyFrom(d.canvas)
	}
	d.dirty = false
	d.canvasMu.Unlock()

	if pr != nil {
		x, y, w, h := pr.stageRect(d.res, rotated)
		switch {
		case publish == pr:
			d.prSnap.CopyRect(d.stage, x, y, w, h)
			d.prShown = pr
		case d.prShown == pr:
			d.stage.CopyRect(d.prSnap, x, y, w, h)
		}
	}

	d.lastSpot = spot
	if spot.visible {
		d.overlayCursor(spot, rotated)
	}
	if err := d.backend.Present(d.stage); err != nil {
		logIsErr(d.log, slog.LevelWarn, err, "backend", d.backend.Name())
	}
}

func (d *RA8875) cursorSpot() cursorSpot {
	if d.backend.NativeCursor() {
		return cursorSpot{}
	}
	m, ok := d.GetMouse()
	if !ok || m.Idle {
		return cursorSpot{}
	}
	return cursorSpot{x: m.X, y: m.Y, visible: true}
}

// overlayCursor draws the arrow into staging with its tip on the pointer.
func (d *RA8875) overlayCursor(spot cursorSpot, rotated bool) {
	s := d.res.Scale
	tipX, tipY := spot.x*s, spot.y*s
	if rotated {
		tipX = d.res.Width - (spot.x+1)*s
		tipY = d.res.Height - (spot.y+1)*s
	}
	edge := d.colors.native(BLACK)
	fill := d.colors.native(WHITE)
	for r, row := range cursorArrow {
		for c := 0; c < len(row); c++ {
			switch row[c] {
			case '#':
				d.stage.FillRect(tipX+c*s, tipY+r*s, s, s, edge)
			case '.':
				d.stage.FillRect(tipX+c*s, tipY+r*s, s, s, fill)
			}
		}
	}
}
