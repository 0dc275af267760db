//go:build !headless && linux

package main

import (
	"image"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xgraphics"
	"github.com/BurntSushi/xgbutil/xwindow"
	"golang.design/x/clipboard"
)

func init() {
	RegisterBackend("x11", func() DisplayBackend { return &X11Output{} })
	compiledFeatures = append(compiledFeatures, "backend:x11 (xgbutil)")
}

// X11 keysyms handled outside the Latin-1 range
const (
	keysymBackSpace = 0xff08
	keysymTab       = 0xff09
	keysymReturn    = 0xff0d
	keysymEscape    = 0xff1b
	keysymLeft      = 0xff51
	keysymUp        = 0xff52
	keysymRight     = 0xff53
	keysymDown      = 0xff54
	keysymKPEnter   = 0xff8d
	keysymDelete    = 0xffff
)

// X11Output draws into an xgraphics image backed window at physical size.
type X11Output struct {
	mu     sync.Mutex
	log    *slog.Logger
	xu     *xgbutil.XUtil
	win    *xwindow.Window
	img    *xgraphics.Image
	width  int
	height int
	sink   InputSink
	done   chan struct{}

	clipboardOnce sync.Once
	clipboardOK   bool
}

func (x *X11Output) Name() string { return "x11" }

func (x *X11Output) Open(cfg DisplayConfig) error {
	x.log = cfg.Logger
	if x.log == nil {
		x.log = discardLogger()
	}
	xu, err := xgbutil.NewConn()
	if err != nil {
		return &DisplayError{Operation: "open", Details: "X11 connection", Err: err}
	}
	keybind.Initialize(xu)

	win, err := xwindow.Generate(xu)
	if err != nil {
		return &DisplayError{Operation: "open", Details: "window id", Err: err}
	}
	win.Create(xu.RootWin(), 0, 0, cfg.Width, cfg.Height, xproto.CwBackPixel, 0)
	if err := win.Listen(
		xproto.EventMaskExposure,
		xproto.EventMaskPointerMotion,
		xproto.EventMaskButtonPress,
		xproto.EventMaskButtonRelease,
		xproto.EventMaskKeyPress,
		xproto.EventMaskStructureNotify,
	); err != nil {
		return &DisplayError{Operation: "open", Details: "select input", Err: err}
	}
	if cfg.Title != "" {
		_ = ewmh.WmNameSet(xu, win.Id, cfg.Title)
		_ = icccm.WmNameSet(xu, win.Id, cfg.Title)
	}
	x.done = make(chan struct{})
	win.WMGracefulClose(func(w *xwindow.Window) {
		xevent.Detach(w.X, w.Id)
		w.Destroy()
		xevent.Quit(w.X)
	})

	img := xgraphics.New(xu, image.Rect(0, 0, cfg.Width, cfg.Height))
	if err := img.XSurfaceSet(win.Id); err != nil {
		return &DisplayError{Operation: "open", Details: "image surface", Err: err}
	}

	x.mu.Lock()
	x.xu, x.win, x.img = xu, win, img
	x.width, x.height = cfg.Width, cfg.Height
	x.mu.Unlock()

	xevent.ExposeFun(func(_ *xgbutil.XUtil, _ xevent.ExposeEvent) {
		x.mu.Lock()
		x.img.XPaint(x.win.Id)
		x.mu.Unlock()
	}).Connect(xu, win.Id)

	win.Map()
	if cfg.Fullscreen {
		return x.SetFullscreen(true)
	}
	return nil
}

// Done is closed when the window is closed by the window manager.
func (x *X11Output) Done() <-chan struct{} {
	return x.done
}

func (x *X11Output) Present(stage *PixelBuffer) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if stage.Width != x.width || stage.Height != x.height {
		return &DisplayError{Operation: "present", Details: "frame size does not match window"}
	}
	stage.writeBGRA(x.img.Pix)
	x.img.XDraw()
	x.img.XPaint(x.win.Id)
	return nil
}

// StartInput hooks pointer and key events and runs the X event loop.
func (x *X11Output) StartInput(sink InputSink) error {
	x.mu.Lock()
	xu, id := x.xu, x.win.Id
	x.sink = sink
	x.mu.Unlock()

	xevent.MotionNotifyFun(func(_ *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		sink.PointerMoved(int(ev.EventX), int(ev.EventY))
	}).Connect(xu, id)
	xevent.ButtonPressFun(func(_ *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		if ev.Detail == xproto.ButtonIndex1 {
			sink.PointerMoved(int(ev.EventX), int(ev.EventY))
			sink.PointerButton(true)
		}
	}).Connect(xu, id)
	xevent.ButtonReleaseFun(func(_ *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		if ev.Detail == xproto.ButtonIndex1 {
			sink.PointerButton(false)
		}
	}).Connect(xu, id)
	xevent.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		x.handleKeyPress(xu, ev)
	}).Connect(xu, id)

	go func() {
		defer close(x.done)
		xevent.Main(xu)
		x.log.Info("x11 event loop ended")
	}()
	return nil
}

func (x *X11Output) handleKeyPress(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
	shift := ev.State&xproto.ModMaskShift != 0
	ctrl := ev.State&xproto.ModMaskControl != 0
	col := byte(0)
	if shift {
		col = 1
	}
	keysym := keybind.KeysymGet(xu, ev.Detail, col)
	if keysym == 0 {
		keysym = keybind.KeysymGet(xu, ev.Detail, 0)
	}
	if ctrl && (keysym == 'v' || keysym == 'V') {
		x.handleClipboardPaste()
		return
	}
	if c, ok := x11KeysymChar(uint32(keysym), ctrl); ok {
		x.sink.PushKey(KeyEvent{Char: c, Control: ctrl, Shift: shift})
	}
}

// x11KeysymChar maps a keysym to a queue character. Latin-1 printable
// keysyms equal their ASCII code.
func x11KeysymChar(keysym uint32, ctrl bool) (byte, bool) {
	switch keysym {
	case keysymReturn, keysymKPEnter:
		return CHAR_NL, true
	case keysymBackSpace:
		return CHAR_BS, true
	case keysymTab:
		return CHAR_TAB, true
	case keysymEscape:
		return CHAR_ESC, true
	case keysymDelete:
		return CHAR_DEL, true
	case keysymLeft:
		return CHAR_LEFT, true
	case keysymRight:
		return CHAR_RIGHT, true
	case keysymUp:
		return CHAR_UP, true
	case keysymDown:
		return CHAR_DOWN, true
	}
	if keysym < 0x20 || keysym > 0x7e {
		return 0, false
	}
	c := byte(keysym)
	if ctrl {
		switch {
		case c >= 'a' && c <= 'z':
			return c - 'a' + 1, true
		case c >= 'A' && c <= 'Z':
			return c - 'A' + 1, true
		}
	}
	return c, true
}

// Clipboard paste: Ctrl+V
func (x *X11Output) handleClipboardPaste() {
	x.clipboardOnce.Do(func() {
		x.clipboardOK = clipboard.Init() == nil
	})
	if !x.clipboardOK {
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) > 0 {
		pasteText(x.sink, normalizePasteText(data))
	}
}

func (x *X11Output) ScreenSize() (int, int) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.xu == nil {
		return 0, 0
	}
	s := x.xu.Screen()
	return int(s.WidthInPixels), int(s.HeightInPixels)
}

func (x *X11Output) NativeCursor() bool { return true }

func (x *X11Output) SetFullscreen(on bool) error {
	x.mu.Lock()
	xu, id := x.xu, x.win.Id
	x.mu.Unlock()
	action := ewmh.StateRemove
	if on {
		action = ewmh.StateAdd
	}
	if err := ewmh.WmStateReq(xu, id, action, "_NET_WM_STATE_FULLSCREEN"); err != nil {
		return &DisplayError{Operation: "fullscreen", Details: "EWMH state request", Err: err}
	}
	return nil
}

func (x *X11Output) WarpPointer(rawX, rawY int) error {
	x.mu.Lock()
	xu, id := x.xu, x.win.Id
	x.mu.Unlock()
	err := xproto.WarpPointerChecked(xu.Conn(), 0, id, 0, 0, 0, 0, int16(rawX), int16(rawY)).Check()
	if err != nil {
		return &DisplayError{Operation: "warp", Details: "WarpPointer", Err: err}
	}
	return nil
}
