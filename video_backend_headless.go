package main

import (
	"sync"
	"sync/atomic"
)

func init() {
	RegisterBackend("headless", func() DisplayBackend { return &HeadlessOutput{} })
}

// HeadlessOutput keeps the last presented frame in memory. It has no
// input devices; tests drive input through Sink.
type HeadlessOutput struct {
	mu         sync.Mutex
	config     DisplayConfig
	opened     bool
	last       *PixelBuffer
	sink       InputSink
	frameCount uint64
	fullscreen bool
}

func (h *HeadlessOutput) Name() string { return "headless" }

func (h *HeadlessOutput) Open(cfg DisplayConfig) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.opened {
		return &DisplayError{Operation: "open", Details: "headless output already open"}
	}
	h.config = cfg
	h.fullscreen = cfg.Fullscreen
	h.last = NewPixelBuffer(cfg.Width, cfg.Height, cfg.Depth)
	h.opened = true
	return nil
}

func (h *HeadlessOutput) Present(stage *PixelBuffer) error {
	h.mu.Lock()
	if h.last == nil || !h.last.SameShape(stage) {
		h.mu.Unlock()
		return &DisplayError{Operation: "present", Details: "frame shape does not match opened mode"}
	}
	h.last.CopyFrom(stage)
	h.mu.Unlock()
	atomic.AddUint64(&h.frameCount, 1)
	return nil
}

func (h *HeadlessOutput) StartInput(sink InputSink) error {
	h.mu.Lock()
	h.sink = sink
	h.mu.Unlock()
	return nil
}

func (h *HeadlessOutput) ScreenSize() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.config.Width, h.config.Height
}

func (h *HeadlessOutput) NativeCursor() bool { return false }

func (h *HeadlessOutput) SetFullscreen(on bool) error {
	h.mu.Lock()
	h.fullscreen = on
	h.mu.Unlock()
	return nil
}

// Frame returns a copy of the last presented frame.
func (h *HeadlessOutput) Frame() *PixelBuffer {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last == nil {
		return nil
	}
	cp := NewPixelBuffer(h.last.Width, h.last.Height, h.last.Depth)
	cp.CopyFrom(h.last)
	return cp
}

func (h *HeadlessOutput) FrameCount() uint64 {
	return atomic.LoadUint64(&h.frameCount)
}

// Sink returns the input sink handed to StartInput.
func (h *HeadlessOutput) Sink() InputSink {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sink
}

func (h *HeadlessOutput) Fullscreen() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fullscreen
}
