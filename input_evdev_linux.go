//go:build linux

// input_evdev_linux.go - Device reader goroutines for the framebuffer backend

package main

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

const inputRetryDelay = 500 * time.Millisecond

// EVIOCGABS(abs) from linux/input.h
const eviocgabsBase = 0x80184540

// absinfo from linux/input.h
type absinfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

func readAbsAxis(fd int, axis uint) (absAxis, error) {
	var ai absinfo
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(eviocgabsBase+axis), uintptr(unsafe.Pointer(&ai)))
	if errno != 0 {
		return absAxis{}, errno
	}
	return absAxis{min: ai.Minimum, max: ai.Maximum}, nil
}

// deviceReader reopens path after errors and hands every read to handle.
// It never returns; the process owns the devices for its lifetime.
type deviceReader struct {
	path   string
	log    *slog.Logger
	bufLen int
	opened func(f *os.File) error
	handle func(data []byte)
}

func (r *deviceReader) run() {
	buf := make([]byte, r.bufLen)
	for {
		f, err := os.Open(r.path)
		if err != nil {
			r.log.Warn("input device open failed", "device", r.path, "err", err)
			time.Sleep(inputRetryDelay)
			continue
		}
		if r.opened != nil {
			if err := r.opened(f); err != nil {
				r.log.Warn("input device setup failed", "device", r.path, "err", err)
			}
		}
		r.log.Debug("input device opened", "device", r.path)
		for {
			n, err := f.Read(buf)
			if n > 0 {
				r.handle(buf[:n])
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					r.log.Warn("input device read failed", "device", r.path, "err", err)
				}
				break
			}
		}
		f.Close()
		time.Sleep(inputRetryDelay)
	}
}

func startKeyboardReader(path string, sink InputSink, logger *slog.Logger) {
	var kb evdevKeyboard
	r := &deviceReader{
		path:   path,
		log:    logger,
		bufLen: inputEventSize * 64,
		handle: func(data []byte) {
			for _, ev := range decodeInputEvents(data) {
				if k, ok := kb.handle(ev); ok {
					sink.PushKey(k)
				}
			}
		},
	}
	go r.run()
}

func startMiceReader(path string, w, h int, sink InputSink, logger *slog.Logger) {
	m := newPS2Mouse(w, h)
	r := &deviceReader{
		path:   path,
		log:    logger,
		bufLen: 3 * 64,
		handle: func(data []byte) {
			for _, u := range m.feed(data) {
				if u.Moved {
					sink.PointerMoved(u.X, u.Y)
				}
				if u.Changed {
					sink.PointerButton(u.Down)
				}
			}
		},
	}
	go r.run()
}

func startTouchReader(path string, w, h int, sink InputSink, logger *slog.Logger) {
	t := &evdevTouch{w: w, h: h}
	r := &deviceReader{
		path:   path,
		log:    logger,
		bufLen: inputEventSize * 64,
		opened: func(f *os.File) error {
			fd := int(f.Fd())
			ax, err := readAbsAxis(fd, ABS_X)
			if err != nil {
				return err
			}
			ay, err := readAbsAxis(fd, ABS_Y)
			if err != nil {
				return err
			}
			t.ax, t.ay = ax, ay
			return nil
		},
		handle: func(data []byte) {
			for _, ev := range decodeInputEvents(data) {
				t.handle(ev, sink)
			}
		},
	}
	go r.run()
}
