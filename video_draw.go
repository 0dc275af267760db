// video_draw.go - Drawing primitives in APP and Raw coordinates

package main

import "math"

// draw runs fn on the canvas under the canvas lock and marks it dirty.
// It is a no-op before Begin.
func (d *RA8875) draw(fn func(b *PixelBuffer, s int)) {
	d.canvasMu.Lock()
	defer d.canvasMu.Unlock()
	if d.canvas == nil {
		return
	}
	fn(d.canvas, d.res.Scale)
	d.dirty = true
}

// rawCentre is the physical pixel that represents APP coordinate v.
func rawCentre(v, s int) int { return v*s + (s-1)/2 }

func (d *RA8875) FillScreen(c uint16) {
	d.draw(func(b *PixelBuffer, _ int) {
		b.Fill(d.colors.native(c))
	})
}

func (d *RA8875) DrawPixel(x, y int, c uint16) {
	if !inCoordRange(maxCoord, x, y) {
		return
	}
	d.draw(func(b *PixelBuffer, s int) {
		b.FillRect(x*s, y*s, s, s, d.colors.native(c))
	})
}

func (d *RA8875) DrawPixelRaw(x, y int, c uint16) {
	d.draw(func(b *PixelBuffer, _ int) {
		b.Set(x, y, d.colors.native(c))
	})
}

// DrawPixels paints a run of APP pixels along row y starting at x.
func (d *RA8875) DrawPixels(p []uint16, x, y int) {
	if len(p) == 0 || !inCoordRange(maxCoord, x, y) {
		return
	}
	d.draw(func(b *PixelBuffer, s int) {
		for i, c := range p {
			if x+i > APP_WIDTH {
				break
			}
			b.FillRect((x+i)*s, y*s, s, s, d.colors.native(c))
		}
	})
}

func (d *RA8875) DrawLine(x0, y0, x1, y1 int, c uint16) {
	d.DrawThickLine(x0, y0, x1, y1, 1, c)
}

// DrawThickLine draws between APP block centres with thickness t*scale.
func (d *RA8875) DrawThickLine(x0, y0, x1, y1, t int, c uint16) {
	if t < 1 {
		return
	}
	x0, y0, x1, y1, ok := clipLine(x0, y0, x1, y1, maxCoord)
	if !ok {
		return
	}
	t = min(t, APP_WIDTH+APP_HEIGHT)
	d.draw(func(b *PixelBuffer, s int) {
		rasterThickLine(b, rawCentre(x0, s), rawCentre(y0, s), rawCentre(x1, s), rawCentre(y1, s), t*s, d.colors.native(c))
	})
}

// DrawLineRaw draws in physical pixels with thickness t.
func (d *RA8875) DrawLineRaw(x0, y0, x1, y1, t int, c uint16) {
	if t < 1 {
		return
	}
	x0, y0, x1, y1, ok := clipLine(x0, y0, x1, y1, maxCoord)
	if !ok {
		return
	}
	d.draw(func(b *PixelBuffer, _ int) {
		t = min(t, b.Width+b.Height)
		rasterThickLine(b, x0, y0, x1, y1, t, d.colors.native(c))
	})
}

// outlineRect strokes [x, x+w] × [y, y+h] inclusive with the given stroke.
func outlineRect(b *PixelBuffer, x, y, w, h, stroke int, px uint32) {
	b.FillRect(x, y, w+stroke, stroke, px)
	b.FillRect(x, y+h, w+stroke, stroke, px)
	b.FillRect(x, y, stroke, h+stroke, px)
	b.FillRect(x+w, y, stroke, h+stroke, px)
}

// DrawRect outlines from (x,y) to (x+w,y+h) inclusive, as the controller
// does.
func (d *RA8875) DrawRect(x, y, w, h int, c uint16) {
	if w <= 0 || h <= 0 {
		return
	}
	x, w = clampExtent(x, w, APP_WIDTH)
	y, h = clampExtent(y, h, APP_HEIGHT)
	d.draw(func(b *PixelBuffer, s int) {
		outlineRect(b, x*s, y*s, w*s, h*s, s, d.colors.native(c))
	})
}

func (d *RA8875) DrawRectRaw(x, y, w, h int, c uint16) {
	if w <= 0 || h <= 0 {
		return
	}
	d.draw(func(b *PixelBuffer, _ int) {
		rx, rw := clampExtent(x, w, b.Width)
		ry, rh := clampExtent(y, h, b.Height)
		outlineRect(b, rx, ry, rw, rh, 1, d.colors.native(c))
	})
}

// FillRect fills [x, x+w) × [y, y+h).
func (d *RA8875) FillRect(x, y, w, h int, c uint16) {
	if w <= 0 || h <= 0 {
		return
	}
	x, w = clampExtent(x, w, APP_WIDTH)
	y, h = clampExtent(y, h, APP_HEIGHT)
	d.draw(func(b *PixelBuffer, s int) {
		b.FillRect(x*s, y*s, w*s, h*s, d.colors.native(c))
	})
}

func (d *RA8875) FillRectRaw(x, y, w, h int, c uint16) {
	if w <= 0 || h <= 0 {
		return
	}
	d.draw(func(b *PixelBuffer, _ int) {
		b.FillRect(x, y, w, h, d.colors.native(c))
	})
}

// rasterCircle is the midpoint outline.
func rasterCircle(b *PixelBuffer, x0, y0, r int, px uint32) {
	if r < 0 {
		return
	}
	f := 1 - r
	ddx, ddy := 1, -2*r
	x, y := 0, r

	b.Set(x0, y0+r, px)
	b.Set(x0, y0-r, px)
	b.Set(x0+r, y0, px)
	b.Set(x0-r, y0, px)
	for x < y {
		if f >= 0 {
			y--
			ddy += 2
			f += ddy
		}
		x++
		ddx += 2
		f += ddx
		b.Set(x0+x, y0+y, px)
		b.Set(x0-x, y0+y, px)
		b.Set(x0+x, y0-y, px)
		b.Set(x0-x, y0-y, px)
		b.Set(x0+y, y0+x, px)
		b.Set(x0-y, y0+x, px)
		b.Set(x0+y, y0-x, px)
		b.Set(x0-y, y0-x, px)
	}
}

// rasterFillCircle fills the midpoint disk with spans mirrored about both
// axes.
func rasterFillCircle(b *PixelBuffer, x0, y0, r int, px uint32) {
	if r < 0 {
		return
	}
	b.FillSpan(x0-r, x0+r, y0, px)
	f := 1 - r
	ddx, ddy := 1, -2*r
	x, y := 0, r
	for x < y {
		if f >= 0 {
			y--
			ddy += 2
			f += ddy
		}
		x++
		ddx += 2
		f += ddx
		b.FillSpan(x0-x, x0+x, y0+y, px)
		b.FillSpan(x0-x, x0+x, y0-y, px)
		b.FillSpan(x0-y, x0+y, y0+x, px)
		b.FillSpan(x0-y, x0+y, y0-x, px)
	}
}

// isqrt is floor(sqrt(n)) for n >= 0.
func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	r := int(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// rasterRing fills the annulus ri < d <= ro around (x0,y0) row by row.
func rasterRing(b *PixelBuffer, x0, y0, ro, ri int, px uint32) {
	if ro < 0 {
		return
	}
	for dy := -ro; dy <= ro; dy++ {
		xo := isqrt(ro*ro - dy*dy)
		if ri < 0 || absInt(dy) > ri {
			b.FillSpan(x0-xo, x0+xo, y0+dy, px)
			continue
		}
		xi := isqrt(ri*ri - dy*dy)
		b.FillSpan(x0-xo, x0-xi-1, y0+dy, px)
		b.FillSpan(x0+xi+1, x0+xo, y0+dy, px)
	}
}

// DrawCircle outlines a circle; the stroke is one APP pixel wide.
func (d *RA8875) DrawCircle(x0, y0, r int, c uint16) {
	if r < 0 || !inCoordRange(maxCoord, x0, y0, r) {
		return
	}
	d.draw(func(b *PixelBuffer, s int) {
		px := d.colors.native(c)
		if s == 1 {
			rasterCircle(b, x0, y0, r, px)
			return
		}
		ro := r*s + s/2
		rasterRing(b, rawCentre(x0, s), rawCentre(y0, s), ro, ro-s, px)
	})
}

func (d *RA8875) DrawCircleRaw(x0, y0, r int, c uint16) {
	if !inCoordRange(maxCoord, x0, y0, r) {
		return
	}
	d.draw(func(b *PixelBuffer, _ int) {
		rasterCircle(b, x0, y0, r, d.colors.native(c))
	})
}

func (d *RA8875) FillCircle(x0, y0, r int, c uint16) {
	if r < 0 || !inCoordRange(maxCoord, x0, y0, r) {
		return
	}
	d.draw(func(b *PixelBuffer, s int) {
		rasterFillCircle(b, rawCentre(x0, s), rawCentre(y0, s), r*s+(s-1)/2, d.colors.native(c))
	})
}

func (d *RA8875) FillCircleRaw(x0, y0, r int, c uint16) {
	if !inCoordRange(maxCoord, x0, y0, r) {
		return
	}
	d.draw(func(b *PixelBuffer, _ int) {
		rasterFillCircle(b, x0, y0, r, d.colors.native(c))
	})
}

// DrawTriangle outlines with three APP lines inside one lock hold.
// Triangles with a vertex beyond maxCoord are not drawn.
func (d *RA8875) DrawTriangle(x0, y0, x1, y1, x2, y2 int, c uint16) {
	if !inCoordRange(maxCoord, x0, y0, x1, y1, x2, y2) {
		return
	}
	d.draw(func(b *PixelBuffer, s int) {
		px := d.colors.native(c)
		ax, ay := rawCentre(x0, s), rawCentre(y0, s)
		bx, by := rawCentre(x1, s), rawCentre(y1, s)
		cx, cy := rawCentre(x2, s), rawCentre(y2, s)
		rasterThickLine(b, ax, ay, bx, by, s, px)
		rasterThickLine(b, bx, by, cx, cy, s, px)
		rasterThickLine(b, cx, cy, ax, ay, s, px)
	})
}

func (d *RA8875) FillTriangle(x0, y0, x1, y1, x2, y2 int, c uint16) {
	if !inCoordRange(maxCoord, x0, y0, x1, y1, x2, y2) {
		return
	}
	d.draw(func(b *PixelBuffer, s int) {
		rasterFillTriangle(b,
			rawCentre(x0, s), rawCentre(y0, s),
			rawCentre(x1, s), rawCentre(y1, s),
			rawCentre(x2, s), rawCentre(y2, s),
			d.colors.native(c))
	})
}

// rasterFillTriangle scan-fills between the long edge and the two short
// ones, top to bottom.
func rasterFillTriangle(b *PixelBuffer, x0, y0, x1, y1, x2, y2 int, px uint32) {
	if y0 > y1 {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}
	if y1 > y2 {
		x1, y1, x2, y2 = x2, y2, x1, y1
	}
	if y0 > y1 {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}

	if y0 == y2 {
		lo := min(x0, x1, x2)
		hi := max(x0, x1, x2)
		b.FillSpan(lo, hi, y0, px)
		return
	}

	dx01, dy01 := x1-x0, y1-y0
	dx02, dy02 := x2-x0, y2-y0
	dx12, dy12 := x2-x1, y2-y1
	sa, sb := 0, 0

	// upper part, including y1 when the lower edge is flat
	last := y1 - 1
	if y1 == y2 {
		last = y1
	}
	y := y0
	for ; y <= last; y++ {
		a := x0 + sa/dy01
		bx := x0 + sb/dy02
		sa += dx01
		sb += dx02
		b.FillSpan(a, bx, y, px)
	}

	sa = dx12 * (y - y1)
	sb = dx02 * (y - y0)
	for ; y <= y2; y++ {
		a := x1 + sa/dy12
		bx := x0 + sb/dy02
		sa += dx12
		sb += dx02
		b.FillSpan(a, bx, y, px)
	}
}
