// video_interface.go - Display backend interface for the RA8875 emulator

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
	"fmt"
	"log/slog"
	"sort"
)

// DisplayError provides detailed error context for display operations
type DisplayError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *DisplayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("display %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("display %s failed: %s", e.Operation, e.Details)
}

func (e *DisplayError) Unwrap() error { return e.Err }

// DisplayConfig is what a backend needs to open its surface
type DisplayConfig struct {
	Width      int // physical pixels
	Height     int
	Scale      int
	Depth      PixelDepth
	Title      string
	Fullscreen bool
	Logger     *slog.Logger

	// Linux console devices, used by the fb backend only
	FBDevice    string
	TTYDevice   string
	MouseDevice string
}

// InputSink receives translated host input. Pointer coordinates are
// physical pixels of the presented frame; the sink maps them to APP space.
type InputSink interface {
	PointerMoved(rawX, rawY int)
	PointerButton(down bool)
	PushKey(ev KeyEvent) bool
}

// DisplayBackend is one host surface. Exactly one is opened per process.
type DisplayBackend interface {
	Name() string
	Open(cfg DisplayConfig) error
	// Present pushes one composed frame. The buffer is only valid for the
	// duration of the call.
	Present(stage *PixelBuffer) error
	// StartInput spawns the backend's input readers. They run until exit.
	StartInput(sink InputSink) error
	ScreenSize() (w, h int)
	// NativeCursor reports whether the host draws the pointer itself.
	NativeCursor() bool
}

// Optional interfaces for enhanced functionality
type FullscreenCapable interface {
	SetFullscreen(on bool) error
}

type CursorWarper interface {
	WarpPointer(rawX, rawY int) error
}

type backendFactory func() DisplayBackend

var backendRegistry = map[string]backendFactory{}

// RegisterBackend makes a backend selectable by name. Called from init.
func RegisterBackend(name string, f backendFactory) {
	backendRegistry[name] = f
}

// NewDisplayBackend creates a new backend instance by configured name
func NewDisplayBackend(name string) (DisplayBackend, error) {
	f, ok := backendRegistry[name]
	if !ok {
		return nil, &DisplayError{
			Operation: "backend creation",
			Details:   fmt.Sprintf("unknown or uncompiled backend %q (have %v)", name, BackendNames()),
		}
	}
	return f(), nil
}

// BackendNames lists the backends compiled into this binary.
func BackendNames() []string {
	names := make([]string, 0, len(backendRegistry))
	for n := range backendRegistry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func backendCompiled(name string) bool {
	_, ok := backendRegistry[name]
	return ok
}
