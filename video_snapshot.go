// video_snapshot.go - Canvas screenshots

package main

import (
	"image"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Snapshot copies the canvas into an RGBA image at physical resolution, or
// scaled down to APP size when appSize is set and the scale is above 1.
func (d *RA8875) Snapshot(appSize bool) image.Image {
	d.canvasMu.Lock()
	if d.canvas == nil {
		d.canvasMu.Unlock()
		return image.NewRGBA(image.Rect(0, 0, APP_WIDTH, APP_HEIGHT))
	}
	full := image.NewRGBA(image.Rect(0, 0, d.canvas.Width, d.canvas.Height))
	d.canvas.writeRGBA(full.Pix)
	scale := d.res.Scale
	d.canvasMu.Unlock()

	if !appSize || scale == 1 {
		return full
	}
	small := image.NewRGBA(image.Rect(0, 0, APP_WIDTH, APP_HEIGHT))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), full, full.Bounds(), draw.Src, nil)
	return small
}

// WriteBMP encodes Snapshot as a BMP file.
func (d *RA8875) WriteBMP(w io.Writer, appSize bool) error {
	return bmp.Encode(w, d.Snapshot(appSize))
}
