// video_draw_line.go - Bresenham lines with overlap and thick lines

package main

// Extra pixels set at each minor-axis step of a Bresenham line
const (
	overlapNone  = 0
	overlapMajor = 1 // before the minor step
	overlapMinor = 2 // after the minor step
	overlapBoth  = overlapMajor | overlapMinor
)

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func signInt(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// rasterLine draws a one pixel line from (x0,y0) to (x1,y1) inclusive.
func rasterLine(b *PixelBuffer, x0, y0, x1, y1, overlap int, px uint32) {
	if y0 == y1 {
		b.FillSpan(x0, x1, y0, px)
		return
	}
	if x0 == x1 {
		b.FillRect(x0, min(y0, y1), 1, absInt(y1-y0)+1, px)
		return
	}
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := signInt(x1-x0), signInt(y1-y0)
	dx2, dy2 := dx<<1, dy<<1

	b.Set(x0, y0, px)
	if dx > dy {
		err := dy2 - dx
		for x0 != x1 {
			x0 += sx
			if err >= 0 {
				if overlap&overlapMajor != 0 {
					b.Set(x0, y0, px)
				}
				y0 += sy
				if overlap&overlapMinor != 0 {
					b.Set(x0-sx, y0, px)
				}
				err -= dx2
			}
			err += dy2
			b.Set(x0, y0, px)
		}
		return
	}
	err := dx2 - dy
	for y0 != y1 {
		y0 += sy
		if err >= 0 {
			if overlap&overlapMajor != 0 {
				b.Set(x0, y0, px)
			}
			x0 += sx
			if overlap&overlapMinor != 0 {
				b.Set(x0, y0-sy, px)
			}
			err -= dy2
		}
		err += dx2
		b.Set(x0, y0, px)
	}
}

// perpWalk returns n+1 points of a Bresenham walk from the origin along
// (qx, qy), origin first.
func perpWalk(qx, qy, n int) [][2]int {
	pts := make([][2]int, 0, n+1)
	x, y := 0, 0
	pts = append(pts, [2]int{x, y})
	ax, ay := absInt(qx), absInt(qy)
	sx, sy := signInt(qx), signInt(qy)
	if ax >= ay {
		err := 2*ay - ax
		for i := 0; i < n; i++ {
			x += sx
			if err >= 0 {
				y += sy
				err -= 2 * ax
			}
			err += 2 * ay
			pts = append(pts, [2]int{x, y})
		}
		return pts
	}
	err := 2*ax - ay
	for i := 0; i < n; i++ {
		y += sy
		if err >= 0 {
			x += sx
			err -= 2 * ay
		}
		err += 2 * ax
		pts = append(pts, [2]int{x, y})
	}
	return pts
}

// rasterThickLine draws t parallel Bresenham lines, stepped along the
// perpendicular of the nominal line and centred on it. A strand that moved
// diagonally from its neighbour gets major overlap so no gaps open between
// strands. Axis-aligned lines become rectangle fills.
func rasterThickLine(b *PixelBuffer, x0, y0, x1, y1, t int, px uint32) {
	if t <= 1 {
		rasterLine(b, x0, y0, x1, y1, overlapNone, px)
		return
	}
	back := (t - 1) / 2
	if y0 == y1 {
		b.FillRect(min(x0, x1), y0-back, absInt(x1-x0)+1, t, px)
		return
	}
	if x0 == x1 {
		b.FillRect(x0-back, min(y0, y1), t, absInt(y1-y0)+1, px)
		return
	}

	qx, qy := -(y1 - y0), x1-x0
	behind := perpWalk(-qx, -qy, back)
	ahead := perpWalk(qx, qy, t-1-back)

	strands := make([][2]int, 0, t)
	for i := len(behind) - 1; i >= 1; i-- {
		strands = append(strands, behind[i])
	}
	strands = append(strands, ahead...)

	for i, o := range strands {
		overlap := overlapNone
		if i > 0 {
			prev := strands[i-1]
			if prev[0] != o[0] && prev[1] != o[1] {
				overlap = overlapMajor
			}
		}
		rasterLine(b, x0+o[0], y0+o[1], x1+o[0], y1+o[1], overlap, px)
	}
}
