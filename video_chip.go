// video_chip.go - RA8875 display surface

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-errors/errors"
	"golang.org/x/image/font"
)

// Surface lifecycle
const (
	stateUninitialized int32 = iota
	stateInitializing
	stateReady
)

// RA8875 emulates the controller's drawing and input command set on top of
// one host DisplayBackend. All buffers and locks are owned here and every
// goroutine it starts is handed the receiver explicitly.
//
// Lock order: frameMu may be held while taking canvasMu or mouseMu.
// canvasMu, mouseMu and kbMu are never held together.
type RA8875 struct {
	state atomic.Int32

	cfg     Config
	res     Resolution
	colors  colorModel
	backend DisplayBackend
	log     *slog.Logger
	now     func() time.Time

	rotated atomic.Bool

	// Canvas and everything drawn into it
	canvasMu   sync.Mutex
	canvas     *PixelBuffer
	dirty      bool
	face       font.Face
	textColor  uint16
	cursorX    int // text cursor, APP baseline
	cursorY    int
	readX      int // memory read cursor, APP
	readY      int
	earthDay   []byte
	earthNight []byte

	// Compositor
	frameMu  sync.Mutex
	stage    *PixelBuffer
	prSnap   *PixelBuffer
	prShown  *protectedRegion
	lastSpot cursorSpot

	pr      atomic.Pointer[protectedRegion]
	prDirty atomic.Bool

	mouseMu sync.Mutex
	mouse   mouseState

	kbMu sync.Mutex
	keys keyQueue
}

// NewRA8875 returns an uninitialized surface. A nil logger discards.
func NewRA8875(logger *slog.Logger) *RA8875 {
	if logger == nil {
		logger = discardLogger()
	}
	return &RA8875{
		log:       logger,
		now:       time.Now,
		textColor: WHITE,
		res:       Resolutions[1],
	}
}

func (d *RA8875) fail(op, details string, err error) error {
	d.state.Store(stateUninitialized)
	return errors.Wrap(&DisplayError{Operation: op, Details: details, Err: err}, 1)
}

// Begin allocates the canvas, opens the configured backend and starts the
// render and input goroutines. Errors are fatal to the appliance and carry
// a stack trace.
func (d *RA8875) Begin(cfg Config) error {
	if !d.state.CompareAndSwap(stateUninitialized, stateInitializing) {
		return errors.Wrap(&DisplayError{Operation: "begin", Details: "display already initialized"}, 0)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return d.fail("begin", "invalid configuration", err)
	}
	res, err := resolutionFor(cfg.Scale)
	if err != nil {
		return d.fail("begin", "resolution", err)
	}

	var day, night []byte
	if cfg.EarthDay != "" {
		day, night, err = LoadEarthMaps(cfg.EarthDay, cfg.EarthNight, res)
		if err != nil {
			return d.fail("begin", "earth maps", err)
		}
	}

	name, err := cfg.ResolveBackend()
	if err != nil {
		return d.fail("begin", "backend", err)
	}
	backend, err := NewDisplayBackend(name)
	if err != nil {
		return d.fail("begin", "backend "+name, err)
	}
	depth := cfg.PixelDepth()
	dc := DisplayConfig{
		Width:       res.Width,
		Height:      res.Height,
		Scale:       res.Scale,
		Depth:       depth,
		Title:       "HamClock",
		Fullscreen:  cfg.Fullscreen,
		Logger:      d.log,
		FBDevice:    cfg.FBDevice,
		TTYDevice:   cfg.TTYDevice,
		MouseDevice: cfg.MouseDevice,
	}
	if err := backend.Open(dc); err != nil {
		return d.fail("begin", "open "+name, err)
	}

	d.canvasMu.Lock()
	d.cfg = cfg
	d.res = res
	d.colors = colorModel{depth: depth, mono: cfg.Mono}
	d.backend = backend
	d.canvas = NewPixelBuffer(res.Width, res.Height, depth)
	d.canvas.Fill(d.colors.native(BLACK))
	d.dirty = true
	d.earthDay, d.earthNight = day, night
	d.canvasMu.Unlock()

	d.frameMu.Lock()
	d.stage = NewPixelBuffer(res.Width, res.Height, depth)
	d.prSnap = NewPixelBuffer(res.Width, res.Height, depth)
	d.frameMu.Unlock()

	d.rotated.Store(cfg.Rotate)

	if err := backend.StartInput(d); err != nil {
		return d.fail("begin", "input "+name, err)
	}
	d.state.Store(stateReady)
	d.log.Info("display ready", "backend", name, "mode", res.String(), "depth", int(depth))

	go d.refreshLoop(cfg.RefreshInterval())
	return nil
}

// DisplayReady reports whether Begin has completed.
func (d *RA8875) DisplayReady() bool {
	return d.state.Load() == stateReady
}

// Width and Height are APP dimensions and never depend on the physical mode.
func (d *RA8875) Width() int  { return APP_WIDTH }
func (d *RA8875) Height() int { return APP_HEIGHT }

func (d *RA8875) Resolution() Resolution {
	d.canvasMu.Lock()
	defer d.canvasMu.Unlock()
	return d.res
}

func (d *RA8875) Backend() DisplayBackend {
	if !d.DisplayReady() {
		return nil
	}
	return d.backend
}

// SetRotation selects 0 (normal) or 2 (180 degrees). Other values are ignored.
func (d *RA8875) SetRotation(r int) {
	switch r {
	case 0, 2:
	default:
		return
	}
	d.frameMu.Lock()
	d.rotated.Store(r == 2)
	d.prShown = nil
	d.frameMu.Unlock()
	d.DrawPR()
	d.canvasMu.Lock()
	d.dirty = true
	d.canvasMu.Unlock()
}

func (d *RA8875) Rotation() int {
	if d.rotated.Load() {
		return 2
	}
	return 0
}

// ScreenSize reports the host screen size in physical pixels.
func (d *RA8875) ScreenSize() (int, int) {
	if !d.DisplayReady() {
		return 0, 0
	}
	return d.backend.ScreenSize()
}

// SetFullscreen is forwarded to backends that can switch; it is a no-op
// on the others.
func (d *RA8875) SetFullscreen(on bool) {
	if !d.DisplayReady() {
		return
	}
	if fc, ok := d.backend.(FullscreenCapable); ok {
		logIsErr(d.log, slog.LevelWarn, fc.SetFullscreen(on), "backend", d.backend.Name())
	}
}

// RawPixels returns the canvas at physical resolution as packed RGB24.
func (d *RA8875) RawPixels() []byte {
	d.canvasMu.Lock()
	defer d.canvasMu.Unlock()
	if d.canvas == nil {
		return nil
	}
	out := make([]byte, d.canvas.Width*d.canvas.Height*3)
	d.canvas.writeRGB24(out)
	return out
}

// CanvasChecksum is taken under the canvas lock, so it never observes a
// primitive half way through.
func (d *RA8875) CanvasChecksum() uint32 {
	d.canvasMu.Lock()
	defer d.canvasMu.Unlock()
	if d.canvas == nil {
		return 0
	}
	return d.canvas.Checksum()
}

// SetXY positions the memory read cursor in APP coordinates.
func (d *RA8875) SetXY(x, y int) {
	d.canvasMu.Lock()
	d.readX, d.readY = x, y
	d.canvasMu.Unlock()
}

// ReadData returns the APP pixel under the read cursor as RGB565 and
// advances the cursor along the row, wrapping to the next one.
func (d *RA8875) ReadData() uint16 {
	d.canvasMu.Lock()
	defer d.canvasMu.Unlock()
	if d.canvas == nil {
		return 0
	}
	s := d.res.Scale
	c := d.colors.logical(d.canvas.At(d.readX*s, d.readY*s))
	d.readX++
	if d.readX >= APP_WIDTH {
		d.readX = 0
		d.readY++
	}
	return c
}
