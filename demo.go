// demo.go - Clock face run by "ra8875emu run"

package main

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"
)

// Layout in APP coordinates
const (
	clockX, clockY, clockR = 200, 270, 150

	timeX, timeY, timeW, timeH = 450, 30, 330, 40

	mapX, mapY, mapW, mapH = 450, 110, 330, 165

	echoY = 440

	touchMarkR = 6
)

// clockDemo draws an analog clock, a digital clock kept in the protected
// region, a day/night map when earth maps are loaded, and echoes input.
type clockDemo struct {
	d   *RA8875
	now func() time.Time

	// text cursor and colour are shared by every writer
	textMu sync.Mutex

	lastSec  int
	lastMap  time.Time
	lastKeys []byte
}

func newClockDemo(d *RA8875) *clockDemo {
	return &clockDemo{d: d, now: time.Now, lastSec: -1}
}

func (c *clockDemo) text(x, y int, color uint16, s string) {
	c.textMu.Lock()
	defer c.textMu.Unlock()
	c.d.SetTextColor(color)
	c.d.SetCursor(x, y)
	c.d.Print(s)
}

func (c *clockDemo) drawStatic() {
	d := c.d
	d.FillScreen(BLACK)
	c.text(10, 20, WHITE, "RA8875 emulator "+Version)
	d.DrawRect(timeX-2, timeY-2, timeW+3, timeH+3, CYAN)
	d.DrawRect(mapX-2, mapY-2, mapW+3, mapH+3, CYAN)
	d.DrawLine(0, echoY-20, APP_WIDTH-1, echoY-20, BLUE)
	d.SetPR(timeX, timeY, timeW, timeH, c.drawTime)
}

// drawTime repaints the whole protected rectangle.
func (c *clockDemo) drawTime(d *RA8875) {
	t := c.now()
	d.FillRect(timeX, timeY, timeW, timeH, BLACK)
	c.text(timeX+10, timeY+26, YELLOW, t.Format("15:04:05 Mon 02 Jan"))
}

func (c *clockDemo) drawHands(t time.Time) {
	d := c.d
	d.FillCircle(clockX, clockY, clockR, BLACK)
	d.DrawCircle(clockX, clockY, clockR, WHITE)
	for h := 0; h < 12; h++ {
		a := float64(h) * math.Pi / 6
		x0, y0 := polar(clockX, clockY, clockR-12, a)
		x1, y1 := polar(clockX, clockY, clockR-2, a)
		d.DrawThickLine(x0, y0, x1, y1, 2, WHITE)
	}

	sec := float64(t.Second())
	minute := float64(t.Minute()) + sec/60
	hour := float64(t.Hour()%12) + minute/60
	hx, hy := polar(clockX, clockY, clockR*5/10, hour*math.Pi/6)
	mx, my := polar(clockX, clockY, clockR*8/10, minute*math.Pi/30)
	sx, sy := polar(clockX, clockY, clockR*9/10, sec*math.Pi/30)
	d.DrawThickLine(clockX, clockY, hx, hy, 4, GREEN)
	d.DrawThickLine(clockX, clockY, mx, my, 2, GREEN)
	d.DrawLine(clockX, clockY, sx, sy, RED)
	d.FillCircle(clockX, clockY, 4, RED)
}

// polar measures a clockwise from 12 o'clock.
func polar(cx, cy, r int, a float64) (int, int) {
	x := float64(cx) + float64(r)*math.Sin(a)
	y := float64(cy) - float64(r)*math.Cos(a)
	return int(math.Round(x)), int(math.Round(y))
}

// drawMap plots an equirectangular world with the current terminator.
func (c *clockDemo) drawMap(t time.Time) {
	d := c.d
	if !d.EarthLoaded() {
		d.FillRect(mapX, mapY, mapW, mapH, BLACK)
		c.text(mapX+10, mapY+mapH/2, WHITE, "no earth maps configured")
		return
	}
	slat, slng := subSolar(t)
	dlng := float32(2 * math.Pi / mapW)
	dlat := float32(-math.Pi / mapH)
	for y := 0; y < mapH; y++ {
		lat := float32(math.Pi/2) + float32(y)*dlat
		for x := 0; x < mapW; x++ {
			lng := float32(-math.Pi) + float32(x)*dlng
			d.PlotEarth(mapX+x, mapY+y, lat, lng, 0, dlng, dlat, 0, dayFraction(lat, lng, slat, slng))
		}
	}
}

// subSolar returns the latitude and longitude, in radians, where the sun
// is overhead. Good to about a degree.
func subSolar(t time.Time) (lat, lng float32) {
	t = t.UTC()
	doy := float64(t.YearDay())
	decl := 23.44 * math.Pi / 180 * math.Sin(2*math.Pi*(doy-81)/365)
	hours := float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
	lon := -(hours - 12) * math.Pi / 12
	return float32(decl), float32(lon)
}

// dayFraction is 1 in daylight, 0 at night, with a soft twilight band.
func dayFraction(lat, lng, slat, slng float32) float32 {
	cosz := math.Sin(float64(lat))*math.Sin(float64(slat)) +
		math.Cos(float64(lat))*math.Cos(float64(slat))*math.Cos(float64(lng-slng))
	f := float32(cosz*4 + 0.5)
	return min(max(f, 0), 1)
}

// echoInput drains the key queue and shows the last keys and touches.
func (c *clockDemo) echoInput() {
	d := c.d
	changed := false
	for {
		ev, ok := d.GetChar()
		if !ok {
			break
		}
		changed = true
		ch := ev.Char
		if ch < 0x20 || ch > 0x7e {
			ch = '.'
		}
		c.lastKeys = append(c.lastKeys, ch)
		if len(c.lastKeys) > 40 {
			c.lastKeys = c.lastKeys[len(c.lastKeys)-40:]
		}
	}
	if changed {
		d.FillRect(0, echoY-14, APP_WIDTH/2, 20, BLACK)
		c.text(10, echoY, WHITE, "keys: "+string(c.lastKeys))
	}
	if d.Touched() {
		x, y := d.TouchRead()
		d.FillRect(APP_WIDTH/2, echoY-14, APP_WIDTH/2, 20, BLACK)
		c.text(APP_WIDTH/2+10, echoY, WHITE, fmt.Sprintf("touch: %d,%d", x, y))
		if !nearTime(x, y) {
			d.DrawCircle(x, y, touchMarkR, MAGENTA)
		}
	}
}

// nearTime reports whether a touch marker at (x, y) would reach into the
// protected time rectangle, which only drawTime may paint.
func nearTime(x, y int) bool {
	return x+touchMarkR >= timeX && x-touchMarkR < timeX+timeW &&
		y+touchMarkR >= timeY && y-touchMarkR < timeY+timeH
}

// tick advances the face to now.
func (c *clockDemo) tick() {
	t := c.now()
	if t.Second() != c.lastSec {
		c.lastSec = t.Second()
		c.drawHands(t)
		c.d.DrawPR()
	}
	if t.Sub(c.lastMap) >= time.Minute {
		c.lastMap = t
		c.drawMap(t)
	}
	c.echoInput()
}

// run draws until ctx is cancelled.
func (c *clockDemo) run(ctx context.Context) {
	c.d.TouchEnable(true)
	c.drawStatic()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		c.tick()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
