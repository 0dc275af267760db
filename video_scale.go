// video_scale.go - APP to Raw coordinate scaling

package main

import "fmt"

// Logical drawing space, independent of the physical resolution.
const (
	APP_WIDTH  = 800
	APP_HEIGHT = 480

	FB_CURSOR_W = 16 // APP units
)

// Resolution describes one compiled-in physical mode.
type Resolution struct {
	Scale  int
	Width  int // physical pixels
	Height int
	EarthW int // earth map pixels
	EarthH int
}

var Resolutions = map[int]Resolution{
	1: {Scale: 1, Width: 800, Height: 480, EarthW: 660, EarthH: 330},
	2: {Scale: 2, Width: 1600, Height: 960, EarthW: 1320, EarthH: 660},
	3: {Scale: 3, Width: 2400, Height: 1440, EarthW: 1980, EarthH: 990},
	4: {Scale: 4, Width: 3200, Height: 1920, EarthW: 2640, EarthH: 1320},
}

func resolutionFor(scale int) (Resolution, error) {
	r, ok := Resolutions[scale]
	if !ok {
		return Resolution{}, fmt.Errorf("no compiled resolution for scale %d", scale)
	}
	return r, nil
}

// ToRaw maps an APP coordinate or length to physical pixels.
func (r Resolution) ToRaw(v int) int { return v * r.Scale }

// ToApp maps a physical coordinate to APP space, rounding toward
// negative infinity so every raw pixel of an S×S block lands on the same
// APP pixel.
func (r Resolution) ToApp(v int) int {
	if v < 0 {
		return (v - r.Scale + 1) / r.Scale
	}
	return v / r.Scale
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d (x%d)", r.Width, r.Height, r.Scale)
}
