package main

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// terminalRetryDelay is the pause after a failed read before trying again.
const terminalRetryDelay = 250 * time.Millisecond

// TerminalHost reads raw stdin and feeds bytes into the key queue. It is the
// keyboard of last resort when the framebuffer backend finds no evdev
// keyboard.
type TerminalHost struct {
	sink         InputSink
	log          *slog.Logger
	in           io.Reader
	fd           int
	done         chan struct{}
	stop         chan struct{}
	stopped      sync.Once
	oldTermState *term.State
	retryDelay   time.Duration
}

// NewTerminalHost creates a host adapter that reads in into sink. When in is
// a terminal it is switched to raw mode by Start.
func NewTerminalHost(sink InputSink, in io.Reader, logger *slog.Logger) *TerminalHost {
	if logger == nil {
		logger = discardLogger()
	}
	h := &TerminalHost{
		sink: sink,
		log:  logger,
		in:   in,
		fd:         -1,
		done:       make(chan struct{}),
		stop:       make(chan struct{}),
		retryDelay: terminalRetryDelay,
	}
	if f, ok := in.(*os.File); ok {
		h.fd = int(f.Fd())
	}
	return h
}

// stdinIsTerminal reports whether the console fallback can be used.
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Start begins reading in a goroutine. Call Stop to restore the terminal.
func (h *TerminalHost) Start() {
	// Put terminal in raw mode to disable OS-level echo and line buffering.
	if h.fd >= 0 && term.IsTerminal(h.fd) {
		oldState, err := term.MakeRaw(h.fd)
		if err != nil {
			h.log.Warn("terminal raw mode failed", "err", err)
		} else {
			h.oldTermState = oldState
		}
	}

	go func() {
		defer close(h.done)
		buf := make([]byte, 64)
		for {
			n, err := h.in.Read(buf)
			for _, b := range buf[:n] {
				h.sink.PushKey(consoleEvent(b))
			}
			if err == nil {
				continue
			}
			if err == io.EOF {
				return
			}
			h.log.Warn("terminal read failed", "err", err)
			select {
			case <-h.stop:
				return
			case <-time.After(h.retryDelay):
			}
		}
	}()
}

// consoleEvent translates one raw terminal byte. Other control bytes are
// reported as Ctrl with the byte itself as the character.
func consoleEvent(b byte) KeyEvent {
	switch b {
	// Raw mode sends CR for Enter
	case '\r':
		return KeyEvent{Char: CHAR_NL}
	// Modern terminals send DEL for Backspace
	case 0x7F:
		return KeyEvent{Char: CHAR_BS}
	case CHAR_NL, CHAR_TAB, CHAR_BS, CHAR_ESC:
		return KeyEvent{Char: b}
	}
	if b < 0x20 {
		return KeyEvent{Char: b, Control: true}
	}
	return KeyEvent{Char: b}
}

// Done is closed when the reader hits EOF, or fails after Stop.
func (h *TerminalHost) Done() <-chan struct{} {
	return h.done
}

// Stop restores the terminal mode saved by Start. A reader blocked in Read
// finishes at its next error.
func (h *TerminalHost) Stop() {
	h.stopped.Do(func() {
		close(h.stop)
		if h.oldTermState != nil {
			_ = term.Restore(h.fd, h.oldTermState)
			h.oldTermState = nil
		}
	})
}
