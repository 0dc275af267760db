// video_pixels.go - Bounds-checked native pixel buffers and RGB565 colour model

package main

import (
	"encoding/binary"
	"hash/crc32"
)

// PixelDepth is the native pixel size in bits.
type PixelDepth int

const (
	Depth16 PixelDepth = 16
	Depth32 PixelDepth = 32
)

// Bytes returns the number of bytes per native pixel.
func (d PixelDepth) Bytes() int { return int(d) / 8 }

// Logical RGB565 colours.
const (
	BLACK   uint16 = 0x0000
	WHITE   uint16 = 0xFFFF
	RED     uint16 = 0xF800
	GREEN   uint16 = 0x07E0
	BLUE    uint16 = 0x001F
	CYAN    uint16 = 0x07FF
	MAGENTA uint16 = 0xF81F
	YELLOW  uint16 = 0xFFE0
)

// RGB565 packs 8-bit channels into a logical colour.
func RGB565(r, g, b uint8) uint16 {
	return uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3
}

// RGB565Channels expands a logical colour to full-range 8-bit channels.
func RGB565Channels(c uint16) (r, g, b uint8) {
	r = uint8(255 * uint32((c&0xF800)>>11) / 31)
	g = uint8(255 * uint32((c&0x07E0)>>5) / 63)
	b = uint8(255 * uint32(c&0x001F) / 31)
	return r, g, b
}

// rgb565To32 shifts the 565 fields into XRGB8888 without rescaling so the
// conversion is exactly reversible by rgb32To565.
func rgb565To32(c uint16) uint32 {
	v := uint32(c)
	return (v&0xF800)<<8 | (v&0x07E0)<<5 | (v&0x001F)<<3
}

func rgb32To565(c uint32) uint16 {
	return RGB565(uint8(c>>16), uint8(c>>8), uint8(c))
}

// luminance weights 0.30/0.59/0.11 in 8-bit fixed point.
func luminance565(c uint16) uint8 {
	r := uint32((c & 0xF800) >> 8)
	g := uint32((c & 0x07E0) >> 3)
	b := uint32((c & 0x001F) << 3)
	return uint8((77*r + 151*g + 28*b) >> 8)
}

// colorModel converts logical colours to the configured native format.
type colorModel struct {
	depth PixelDepth
	mono  bool
}

func (m colorModel) native(c uint16) uint32 {
	if m.mono {
		y := luminance565(c)
		if m.depth == Depth16 {
			return uint32(RGB565(y, y, y))
		}
		l := uint32(y)
		return l<<16 | l<<8 | l
	}
	if m.depth == Depth16 {
		return uint32(c)
	}
	return rgb565To32(c)
}

func (m colorModel) logical(px uint32) uint16 {
	if m.depth == Depth16 {
		return uint16(px)
	}
	return rgb32To565(px)
}

// PixelBuffer is a packed little-endian native pixel image. Every accessor
// clips: coordinates outside the buffer are ignored on write and read as 0.
type PixelBuffer struct {
	Width  int
	Height int
	Stride int // bytes per row
	Depth  PixelDepth
	Pix    []byte
}

func NewPixelBuffer(width, height int, depth PixelDepth) *PixelBuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	stride := width * depth.Bytes()
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Stride: stride,
		Depth:  depth,
		Pix:    make([]byte, stride*height),
	}
}

func (b *PixelBuffer) offset(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return 0, false
	}
	off := y*b.Stride + x*b.Depth.Bytes()
	if off+b.Depth.Bytes() > len(b.Pix) {
		return 0, false
	}
	return off, true
}

func (b *PixelBuffer) put(off int, px uint32) {
	if b.Depth == Depth16 {
		binary.LittleEndian.PutUint16(b.Pix[off:], uint16(px))
		return
	}
	binary.LittleEndian.PutUint32(b.Pix[off:], px)
}

// Set writes one native pixel.
func (b *PixelBuffer) Set(x, y int, px uint32) {
	if off, ok := b.offset(x, y); ok {
		b.put(off, px)
	}
}

// At reads one native pixel.
func (b *PixelBuffer) At(x, y int) uint32 {
	off, ok := b.offset(x, y)
	if !ok {
		return 0
	}
	if b.Depth == Depth16 {
		return uint32(binary.LittleEndian.Uint16(b.Pix[off:]))
	}
	return binary.LittleEndian.Uint32(b.Pix[off:])
}

// FillSpan writes px on row y from x0 to x1 inclusive.
func (b *PixelBuffer) FillSpan(x0, x1, y int, px uint32) {
	if y < 0 || y >= b.Height {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if x1 < 0 || x0 >= b.Width {
		return
	}
	x0 = max(x0, 0)
	x1 = min(x1, b.Width-1)
	bpp := b.Depth.Bytes()
	off := y*b.Stride + x0*bpp
	for x := x0; x <= x1; x++ {
		b.put(off, px)
		off += bpp
	}
}

// FillRect writes px over the w×h rectangle at (x, y).
func (b *PixelBuffer) FillRect(x, y, w, h int, px uint32) {
	if w <= 0 || h <= 0 {
		return
	}
	x0, x1 := max(x, 0), min(satAdd(x, w), b.Width)
	y0, y1 := max(y, 0), min(satAdd(y, h), b.Height)
	if x0 >= x1 {
		return
	}
	for row := y0; row < y1; row++ {
		b.FillSpan(x0, x1-1, row, px)
	}
}

// Fill writes px over the whole buffer.
func (b *PixelBuffer) Fill(px uint32) {
	if b.Height == 0 || b.Width == 0 {
		return
	}
	b.FillSpan(0, b.Width-1, 0, px)
	row := b.Pix[:b.Width*b.Depth.Bytes()]
	for y := 1; y < b.Height; y++ {
		copy(b.Pix[y*b.Stride:], row)
	}
}

// SameShape reports whether two buffers can be copied into each other.
func (b *PixelBuffer) SameShape(o *PixelBuffer) bool {
	return b.Width == o.Width && b.Height == o.Height && b.Depth == o.Depth && b.Stride == o.Stride
}

// CopyFrom copies src into b. Shapes must match.
func (b *PixelBuffer) CopyFrom(src *PixelBuffer) {
	if !b.SameShape(src) {
		return
	}
	copy(b.Pix, src.Pix)
}

// CopyRect copies the w×h rectangle at (x, y) from src.
func (b *PixelBuffer) CopyRect(src *PixelBuffer, x, y, w, h int) {
	if !b.SameShape(src) {
		return
	}
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, b.Width), min(y+h, b.Height)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	bpp := b.Depth.Bytes()
	for row := y0; row < y1; row++ {
		start := row*b.Stride + x0*bpp
		end := row*b.Stride + x1*bpp
		copy(b.Pix[start:end], src.Pix[start:end])
	}
}

// CopyRotated180 copies src into b turned half a revolution.
func (b *PixelBuffer) CopyRotated180(src *PixelBuffer) {
	if !b.SameShape(src) {
		return
	}
	for y := 0; y < src.Height; y++ {
		dy := src.Height - 1 - y
		for x := 0; x < src.Width; x++ {
			b.Set(src.Width-1-x, dy, src.At(x, y))
		}
	}
}

// Checksum returns a CRC32 of the pixel memory.
func (b *PixelBuffer) Checksum() uint32 {
	return crc32.ChecksumIEEE(b.Pix)
}

// writeRGBA expands the buffer into 8-bit RGBA (R,G,B,A byte order).
func (b *PixelBuffer) writeRGBA(dst []byte) {
	b.writeChannels(dst, 4, 0, 1, 2)
}

// writeBGRA expands the buffer into X11 order (B,G,R,A).
func (b *PixelBuffer) writeBGRA(dst []byte) {
	b.writeChannels(dst, 4, 2, 1, 0)
}

// writeRGB24 expands the buffer into packed 24-bit RGB.
func (b *PixelBuffer) writeRGB24(dst []byte) {
	b.writeChannels(dst, 3, 0, 1, 2)
}

func (b *PixelBuffer) writeChannels(dst []byte, n, ri, gi, bi int) {
	i := 0
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if i+n > len(dst) {
				return
			}
			r, g, bl := b.rgb8(x, y)
			dst[i+ri] = r
			dst[i+gi] = g
			dst[i+bi] = bl
			if n == 4 {
				dst[i+3] = 0xFF
			}
			i += n
		}
	}
}

func (b *PixelBuffer) rgb8(x, y int) (r, g, bl uint8) {
	px := b.At(x, y)
	if b.Depth == Depth16 {
		return RGB565Channels(uint16(px))
	}
	return uint8(px >> 16), uint8(px >> 8), uint8(px)
}
