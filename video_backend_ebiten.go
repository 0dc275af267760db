//go:build !headless

// video_backend_ebiten.go - Windowed Ebiten backend

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

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"
)

func init() {
	RegisterBackend("window", func() DisplayBackend { return NewEbitenOutput(nil) })
	compiledFeatures = append(compiledFeatures, "backend:window (ebiten)")
}

// EbitenOutput shows frames in a resizable window. Ebiten scales the
// physical frame to the window, so pointer positions arrive in physical
// pixels.
type EbitenOutput struct {
	log *slog.Logger

	window      *ebiten.Image
	width       int
	height      int
	fullscreen  bool
	frameBuffer []byte // RGBA
	bufferMutex sync.RWMutex
	frameCount  uint64
	vsyncChan   chan struct{}
	done        chan struct{}

	sink      InputSink
	lastX     int
	lastY     int
	touchDown map[ebiten.TouchID]bool

	clipboardOnce sync.Once
	clipboardOK   bool
}

func NewEbitenOutput(logger *slog.Logger) *EbitenOutput {
	if logger == nil {
		logger = discardLogger()
	}
	return &EbitenOutput{
		log:       logger,
		vsyncChan: make(chan struct{}, 1),
		done:      make(chan struct{}),
		lastX:     -1,
		lastY:     -1,
		touchDown: make(map[ebiten.TouchID]bool),
	}
}

func (eo *EbitenOutput) Name() string { return "window" }

func (eo *EbitenOutput) Open(cfg DisplayConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return &DisplayError{Operation: "open", Details: "window size must be positive"}
	}
	eo.bufferMutex.Lock()
	if cfg.Logger != nil {
		eo.log = cfg.Logger
	}
	eo.width = cfg.Width
	eo.height = cfg.Height
	eo.fullscreen = cfg.Fullscreen
	eo.frameBuffer = make([]byte, cfg.Width*cfg.Height*4)
	eo.bufferMutex.Unlock()

	title := cfg.Title
	if title == "" {
		title = "RA8875"
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)
	ebiten.SetFullscreen(cfg.Fullscreen)

	go func() {
		defer close(eo.done)
		if err := ebiten.RunGame(eo); err != nil {
			eo.log.Error("ebiten stopped", "err", err)
		}
	}()

	// Wait for first Draw call to ensure Ebiten is ready
	select {
	case <-eo.vsyncChan:
	case <-eo.done:
		return &DisplayError{Operation: "open", Details: "window closed before first frame"}
	}
	return nil
}

// Done is closed when the window goes away.
func (eo *EbitenOutput) Done() <-chan struct{} {
	return eo.done
}

func (eo *EbitenOutput) Present(stage *PixelBuffer) error {
	eo.bufferMutex.Lock()
	defer eo.bufferMutex.Unlock()
	if stage.Width != eo.width || stage.Height != eo.height {
		return &DisplayError{Operation: "present", Details: "frame size does not match window"}
	}
	stage.writeRGBA(eo.frameBuffer)
	return nil
}

func (eo *EbitenOutput) StartInput(sink InputSink) error {
	eo.bufferMutex.Lock()
	eo.sink = sink
	eo.bufferMutex.Unlock()
	return nil
}

func (eo *EbitenOutput) ScreenSize() (int, int) {
	if m := ebiten.Monitor(); m != nil {
		return m.Size()
	}
	eo.bufferMutex.RLock()
	defer eo.bufferMutex.RUnlock()
	return eo.width, eo.height
}

func (eo *EbitenOutput) NativeCursor() bool { return true }

func (eo *EbitenOutput) SetFullscreen(on bool) error {
	eo.bufferMutex.Lock()
	eo.fullscreen = on
	w, h := eo.width, eo.height
	eo.bufferMutex.Unlock()
	ebiten.SetFullscreen(on)
	if !on {
		ebiten.SetWindowSize(w, h)
	}
	return nil
}

func (eo *EbitenOutput) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		eo.bufferMutex.RLock()
		on := !eo.fullscreen
		eo.bufferMutex.RUnlock()
		_ = eo.SetFullscreen(on)
	}

	eo.bufferMutex.RLock()
	sink := eo.sink
	eo.bufferMutex.RUnlock()
	if sink == nil {
		return nil
	}
	eo.handlePointerInput(sink)
	eo.handleKeyboardInput(sink)
	return nil
}

func (eo *EbitenOutput) handlePointerInput(sink InputSink) {
	x, y := ebiten.CursorPosition()
	if x != eo.lastX || y != eo.lastY {
		eo.lastX, eo.lastY = x, y
		sink.PointerMoved(x, y)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		sink.PointerButton(true)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		sink.PointerButton(false)
	}

	// Touch screens behave as a pointer with one button
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		tx, ty := ebiten.TouchPosition(id)
		sink.PointerMoved(tx, ty)
		sink.PointerButton(true)
		eo.touchDown[id] = true
	}
	for id := range eo.touchDown {
		if inpututil.IsTouchJustReleased(id) {
			sink.PointerButton(false)
			delete(eo.touchDown, id)
		}
	}
}

func (eo *EbitenOutput) handleKeyboardInput(sink InputSink) {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)

	// Clipboard paste: Ctrl+Shift+V
	if ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		eo.handleClipboardPaste(sink)
		return
	}

	// Printable input path.
	for _, r := range ebiten.AppendInputChars(nil) {
		if b, ok := runeToInputByte(r); ok {
			sink.PushKey(KeyEvent{Char: b, Control: ctrl, Shift: shift})
		}
	}

	// Control letters produce no input chars
	if ctrl {
		for _, k := range inpututil.AppendJustPressedKeys(nil) {
			if c, ok := controlLetter(k.String()); ok {
				sink.PushKey(KeyEvent{Char: c, Control: true, Shift: shift})
			}
		}
	}

	for _, key := range specialKeys {
		if inpututil.IsKeyJustPressed(key) {
			if c, ok := translateSpecialKey(key); ok {
				sink.PushKey(KeyEvent{Char: c, Control: ctrl, Shift: shift})
			}
		}
	}
}

var specialKeys = []ebiten.Key{
	ebiten.KeyEnter,
	ebiten.KeyNumpadEnter,
	ebiten.KeyBackspace,
	ebiten.KeyTab,
	ebiten.KeyEscape,
	ebiten.KeyArrowUp,
	ebiten.KeyArrowDown,
	ebiten.KeyArrowRight,
	ebiten.KeyArrowLeft,
	ebiten.KeyDelete,
}

func runeToInputByte(r rune) (byte, bool) {
	if r < 0x20 || r > 0x7E {
		return 0, false
	}
	return byte(r), true
}

// controlLetter maps a key name "A".."Z" to its control code.
func controlLetter(name string) (byte, bool) {
	if len(name) != 1 || name[0] < 'A' || name[0] > 'Z' {
		return 0, false
	}
	return name[0] - 'A' + 1, true
}

func translateSpecialKey(key ebiten.Key) (byte, bool) {
	switch key {
	case ebiten.KeyEnter, ebiten.KeyNumpadEnter:
		return CHAR_NL, true
	case ebiten.KeyBackspace:
		return CHAR_BS, true
	case ebiten.KeyTab:
		return CHAR_TAB, true
	case ebiten.KeyEscape:
		return CHAR_ESC, true
	case ebiten.KeyArrowUp:
		return CHAR_UP, true
	case ebiten.KeyArrowDown:
		return CHAR_DOWN, true
	case ebiten.KeyArrowRight:
		return CHAR_RIGHT, true
	case ebiten.KeyArrowLeft:
		return CHAR_LEFT, true
	case ebiten.KeyDelete:
		return CHAR_DEL, true
	default:
		return 0, false
	}
}

func (eo *EbitenOutput) handleClipboardPaste(sink InputSink) {
	eo.clipboardOnce.Do(func() {
		eo.clipboardOK = clipboard.Init() == nil
	})
	if !eo.clipboardOK {
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return
	}
	pasteText(sink, normalizePasteText(data))
}

func (eo *EbitenOutput) Draw(screen *ebiten.Image) {
	eo.bufferMutex.RLock()
	if eo.window == nil {
		eo.window = ebiten.NewImage(eo.width, eo.height)
	}
	eo.window.WritePixels(eo.frameBuffer)
	eo.bufferMutex.RUnlock()
	screen.DrawImage(eo.window, nil)

	eo.frameCount++
	select {
	case eo.vsyncChan <- struct{}{}:
	default:
	}
}

func (eo *EbitenOutput) Layout(_, _ int) (int, int) {
	eo.bufferMutex.RLock()
	defer eo.bufferMutex.RUnlock()
	return eo.width, eo.height
}
