// video_clip.go - Overflow-safe coordinate limits for the rasterisers

package main

import "math"

// maxCoord bounds every coordinate handed to a rasteriser, APP or Raw.
// Scaled by at most 4 it stays far from integer overflow, and it is well
// beyond any visible physical pixel.
const maxCoord = 1 << 16

// inCoordRange reports whether every v lies in [-lim, lim].
func inCoordRange(lim int, vs ...int) bool {
	for _, v := range vs {
		if v < -lim || v > lim {
			return false
		}
	}
	return true
}

// satAdd is a+b saturated to the int range.
func satAdd(a, b int) int {
	c := a + b
	if b > 0 && c < a {
		return math.MaxInt
	}
	if b < 0 && c > a {
		return math.MinInt
	}
	return c
}

// clampExtent trims the span [v, v+n) to [-1, limit+1] and returns the new
// start and length. What lies inside [0, limit) is unchanged.
func clampExtent(v, n, limit int) (int, int) {
	end := satAdd(v, n)
	v = clampInt(v, -1, limit+1)
	end = clampInt(end, -1, limit+1)
	return v, end - v
}

// clipLine cuts the segment to the square [-lim, lim]². Segments already
// inside are returned untouched. ok is false when nothing remains.
func clipLine(x0, y0, x1, y1, lim int) (ax, ay, bx, by int, ok bool) {
	if inCoordRange(lim, x0, y0, x1, y1) {
		return x0, y0, x1, y1, true
	}
	fx, fy := float64(x0), float64(y0)
	dx, dy := float64(x1)-fx, float64(y1)-fy
	l := float64(lim)
	t0, t1 := 0.0, 1.0
	for _, e := range [4][2]float64{{-dx, fx + l}, {dx, l - fx}, {-dy, fy + l}, {dy, l - fy}} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, r)
		}
	}
	snap := func(v float64) int {
		return int(min(max(math.Round(v), -l), l))
	}
	return snap(fx + t0*dx), snap(fy + t0*dy), snap(fx + t1*dx), snap(fy + t1*dy), true
}
