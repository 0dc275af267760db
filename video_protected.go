// video_protected.go - Protected region owned by a redraw callback

package main

// protectedRegion is a rectangle in APP coordinates whose pixels only its
// callback may write. The compositor shows the region as it was when the
// callback last returned, so a half repainted region never reaches the
// backend.
type protectedRegion struct {
	X, Y, W, H int
	redraw     func(d *RA8875)
}

// SetPR declares the protected rectangle and its callback and schedules a
// repaint. The callback runs on the render goroutine with no surface lock
// held and must repaint the whole rectangle through the normal drawing
// calls. Drawing into the rectangle from anywhere else is not supported.
func (d *RA8875) SetPR(x, y, w, h int, redraw func(d *RA8875)) {
	if w <= 0 || h <= 0 || redraw == nil {
		d.ClearPR()
		return
	}
	d.pr.Store(&protectedRegion{X: x, Y: y, W: w, H: h, redraw: redraw})
	d.prDirty.Store(true)
}

// DrawPR marks the protected region for repaint on the next render tick.
func (d *RA8875) DrawPR() {
	if d.pr.Load() != nil {
		d.prDirty.Store(true)
	}
}

// ClearPR removes the protected region; its rectangle follows the canvas
// again from the next frame.
func (d *RA8875) ClearPR() {
	d.pr.Store(nil)
	d.prDirty.Store(false)
	d.canvasMu.Lock()
	d.dirty = true
	d.canvasMu.Unlock()
}

// PRDirty reports whether a repaint is pending.
func (d *RA8875) PRDirty() bool {
	return d.prDirty.Load()
}

// stageRect maps the region to physical stage coordinates, following the
// display rotation.
func (pr *protectedRegion) stageRect(res Resolution, rotated bool) (x, y, w, h int) {
	x, y = res.ToRaw(pr.X), res.ToRaw(pr.Y)
	w, h = res.ToRaw(pr.W), res.ToRaw(pr.H)
	if rotated {
		x = res.Width - x - w
		y = res.Height - y - h
	}
	return x, y, w, h
}

// repaintPR runs a pending callback and publishes the result.
func (d *RA8875) repaintPR() {
	pr := d.pr.Load()
	if pr == nil || !d.prDirty.Swap(false) {
		return
	}
	pr.redraw(d)
	d.present(true, pr)
}
