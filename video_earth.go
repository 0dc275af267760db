// video_earth.go - Day/night earth map sampler

package main

import (
	"encoding/binary"
	"fmt"
	"math"
)

// SetEarthPix installs day and night maps: RGB565 little endian,
// EarthW×EarthH of the current resolution. The slices are read only and
// referenced, not copied.
func (d *RA8875) SetEarthPix(day, night []byte) {
	d.canvasMu.Lock()
	d.earthDay, d.earthNight = day, night
	d.canvasMu.Unlock()
}

func earthMapBytes(res Resolution) int {
	return res.EarthW * res.EarthH * 2
}

// unmapEarth releases a map from a failed load.
var unmapEarth = unmapEarthFile

// LoadEarthMaps maps both files read only. A missing file or one whose size
// does not match the compiled map dimensions is an error.
func LoadEarthMaps(dayPath, nightPath string, res Resolution) ([]byte, []byte, error) {
	want := earthMapBytes(res)
	day, err := mapEarthFile(dayPath, want)
	if err != nil {
		return nil, nil, err
	}
	night, err := mapEarthFile(nightPath, want)
	if err != nil {
		_ = unmapEarth(day)
		return nil, nil, err
	}
	return day, night, nil
}

func earthSizeError(path string, got int64, want int) error {
	return &DisplayError{
		Operation: "earth map",
		Details:   fmt.Sprintf("%s is %d bytes, want %d", path, got, want),
	}
}

// PlotEarth paints APP pixel (x0,y0) from the earth maps. lat0/lng0 is the
// location of the pixel's top left corner in radians; dlatr/dlngr and
// dlatd/dlngd are the changes per APP pixel to the right and downward.
// Each of the scale×scale physical pixels is sampled separately, so the
// cost depends only on the scale. fractDay blends from night (0) to day (1).
func (d *RA8875) PlotEarth(x0, y0 int, lat0, lng0, dlatr, dlngr, dlatd, dlngd, fractDay float32) {
	d.canvasMu.Lock()
	defer d.canvasMu.Unlock()
	want := earthMapBytes(d.res)
	if d.canvas == nil || len(d.earthDay) < want || len(d.earthNight) < want || !inCoordRange(maxCoord, x0, y0) {
		return
	}
	s := d.res.Scale
	fs := float32(s)
	fractDay = min(max(fractDay, 0), 1)
	for k := 0; k < s; k++ {
		for m := 0; m < s; m++ {
			fm, fk := float32(m), float32(k)
			lat := lat0 + (fm*dlatr+fk*dlatd)/fs
			lng := lng0 + (fm*dlngr+fk*dlngd)/fs
			off := earthOffset(d.res, lat, lng)
			day := binary.LittleEndian.Uint16(d.earthDay[off:])
			night := binary.LittleEndian.Uint16(d.earthNight[off:])
			c := blend565(night, day, fractDay)
			d.canvas.Set(x0*s+m, y0*s+k, d.colors.native(c))
		}
	}
	d.dirty = true
}

// earthOffset returns the byte offset of the map pixel at lat/lng, wrapping
// longitude and clamping latitude.
func earthOffset(res Resolution, lat, lng float32) int {
	const pi = float32(math.Pi)
	lng = float32(math.Mod(float64(lng+pi), 2*math.Pi))
	if lng < 0 {
		lng += 2 * pi
	}
	lat = min(max(lat, -pi/2), pi/2)

	ex := int(float32(res.EarthW) * lng / (2 * pi))
	ey := int(float32(res.EarthH) * (pi/2 - lat) / pi)
	ex = clampInt(ex, 0, res.EarthW-1)
	ey = clampInt(ey, 0, res.EarthH-1)
	return 2 * (ey*res.EarthW + ex)
}

// blend565 mixes a toward b by f in [0,1] channel by channel.
func blend565(a, b uint16, f float32) uint16 {
	if f <= 0 {
		return a
	}
	if f >= 1 {
		return b
	}
	ar, ag, ab := RGB565Channels(a)
	br, bg, bb := RGB565Channels(b)
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*f + 0.5)
	}
	return RGB565(mix(ar, br), mix(ag, bg), mix(ab, bb))
}

// EarthLoaded reports whether both maps are installed for the current mode.
func (d *RA8875) EarthLoaded() bool {
	d.canvasMu.Lock()
	defer d.canvasMu.Unlock()
	want := earthMapBytes(d.res)
	return len(d.earthDay) >= want && len(d.earthNight) >= want
}
