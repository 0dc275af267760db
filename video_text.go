// video_text.go - Text rendering through golang.org/x/image/font faces

package main

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Glyph mask alpha at or above this paints a pixel (16 bit RGBA scale).
const glyphAlphaThreshold = 0x8000

func (d *RA8875) fontLocked() font.Face {
	if d.face == nil {
		return basicfont.Face7x13
	}
	return d.face
}

// SetFont selects the face used by Print. nil restores the built-in face.
// The face is referenced, not copied.
func (d *RA8875) SetFont(f font.Face) {
	d.canvasMu.Lock()
	d.face = f
	d.canvasMu.Unlock()
}

func (d *RA8875) SetTextColor(c uint16) {
	d.canvasMu.Lock()
	d.textColor = c
	d.canvasMu.Unlock()
}

// SetCursor places the text baseline origin in APP coordinates.
func (d *RA8875) SetCursor(x, y int) {
	d.canvasMu.Lock()
	d.cursorX, d.cursorY = x, y
	d.canvasMu.Unlock()
}

func (d *RA8875) CursorX() int {
	d.canvasMu.Lock()
	defer d.canvasMu.Unlock()
	return d.cursorX
}

func (d *RA8875) CursorY() int {
	d.canvasMu.Lock()
	defer d.canvasMu.Unlock()
	return d.cursorY
}

// Print draws s at the text cursor and advances it. '\n' returns to x=0
// one font line down.
func (d *RA8875) Print(s string) {
	if s == "" {
		return
	}
	d.draw(func(b *PixelBuffer, scale int) {
		face := d.fontLocked()
		lineH := face.Metrics().Height.Ceil()
		px := d.colors.native(d.textColor)
		prev := rune(-1)
		for _, r := range s {
			if r == '\n' {
				d.cursorX = 0
				d.cursorY += lineH
				prev = -1
				continue
			}
			if prev >= 0 {
				d.cursorX += face.Kern(prev, r).Round()
			}
			dot := fixed.P(d.cursorX, d.cursorY)
			dr, mask, mp, adv, ok := face.Glyph(dot, r)
			if !ok {
				dr, mask, mp, adv, ok = face.Glyph(dot, '?')
			}
			if ok && inCoordRange(maxCoord, d.cursorX, d.cursorY) {
				paintGlyph(b, scale, dr, mask, mp, px)
			}
			d.cursorX += adv.Round()
			prev = r
		}
	})
}

func (d *RA8875) Println(s string) {
	d.Print(s + "\n")
}

func (d *RA8875) Printf(format string, args ...any) {
	d.Print(fmt.Sprintf(format, args...))
}

func paintGlyph(b *PixelBuffer, scale int, dr image.Rectangle, mask image.Image, mp image.Point, px uint32) {
	for y := dr.Min.Y; y < dr.Max.Y; y++ {
		for x := dr.Min.X; x < dr.Max.X; x++ {
			_, _, _, a := mask.At(mp.X+x-dr.Min.X, mp.Y+y-dr.Min.Y).RGBA()
			if a >= glyphAlphaThreshold {
				b.FillRect(x*scale, y*scale, scale, scale, px)
			}
		}
	}
}

// TextBounds returns the APP box s would cover if printed with its
// baseline origin at (x, y). Only single line strings are measured.
func (d *RA8875) TextBounds(s string, x, y int) (x1, y1, w, h int) {
	if s == "" {
		return x, y, 0, 0
	}
	d.canvasMu.Lock()
	face := d.fontLocked()
	d.canvasMu.Unlock()

	bounds, _ := font.BoundString(face, s)
	x1 = x + bounds.Min.X.Floor()
	y1 = y + bounds.Min.Y.Floor()
	w = bounds.Max.X.Ceil() - bounds.Min.X.Floor()
	h = bounds.Max.Y.Ceil() - bounds.Min.Y.Floor()
	return x1, y1, w, h
}
