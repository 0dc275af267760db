//go:build linux

// input_evdev.go - Linux input_event, keymap and PS/2 packet decoding

package main

import (
	"encoding/binary"
	"unsafe"

	"golang.org/x/sys/unix"
)

// input_event layout: struct timeval, then type, code and value
var inputEventSize = int(unsafe.Sizeof(unix.Timeval{})) + 8

type inputEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

// decodeInputEvents decodes every whole event in buf. A trailing partial
// event is ignored.
func decodeInputEvents(buf []byte) []inputEvent {
	n := len(buf) / inputEventSize
	evs := make([]inputEvent, 0, n)
	tv := inputEventSize - 8
	for i := 0; i < n; i++ {
		p := buf[i*inputEventSize+tv:]
		evs = append(evs, inputEvent{
			Type:  binary.NativeEndian.Uint16(p[0:]),
			Code:  binary.NativeEndian.Uint16(p[2:]),
			Value: int32(binary.NativeEndian.Uint32(p[4:])),
		})
	}
	return evs
}

// Key codes from linux/input-event-codes.h
const (
	KEY_LEFTCTRL   = 29
	KEY_LEFTSHIFT  = 42
	KEY_RIGHTSHIFT = 54
	KEY_KPENTER    = 96
	KEY_RIGHTCTRL  = 97
	KEY_UP         = 103
	KEY_LEFT       = 105
	KEY_RIGHT      = 106
	KEY_DOWN       = 108
	KEY_DELETE     = 111

	BTN_LEFT  = 0x110
	BTN_TOUCH = 0x14a
)

// US layout for keycodes 0..57, indexed by keycode
const (
	keymapNormal  = "\x00\x1b1234567890-=\b\tqwertyuiop[]\n\x00asdfghjkl;'`\x00\\zxcvbnm,./\x00*\x00 "
	keymapShifted = "\x00\x1b!@#$%^&*()_+\b\tQWERTYUIOP{}\n\x00ASDFGHJKL:\"~\x00|ZXCVBNM<>?\x00*\x00 "
)

// evdevKeyboard tracks modifiers across events from one device.
type evdevKeyboard struct {
	lshift, rshift bool
	lctrl, rctrl   bool
}

func (k *evdevKeyboard) shift() bool { return k.lshift || k.rshift }
func (k *evdevKeyboard) ctrl() bool  { return k.lctrl || k.rctrl }

// handle returns the key produced by ev, if any. Presses and autorepeats
// produce keys; releases only update modifiers.
func (k *evdevKeyboard) handle(ev inputEvent) (KeyEvent, bool) {
	if ev.Type != EV_KEY {
		return KeyEvent{}, false
	}
	down := ev.Value != 0
	switch ev.Code {
	case KEY_LEFTSHIFT:
		k.lshift = down
		return KeyEvent{}, false
	case KEY_RIGHTSHIFT:
		k.rshift = down
		return KeyEvent{}, false
	case KEY_LEFTCTRL:
		k.lctrl = down
		return KeyEvent{}, false
	case KEY_RIGHTCTRL:
		k.rctrl = down
		return KeyEvent{}, false
	}
	if !down {
		return KeyEvent{}, false
	}

	c, ok := evdevKeyChar(ev.Code, k.shift())
	if !ok {
		return KeyEvent{}, false
	}
	if k.ctrl() {
		switch {
		case c >= 'a' && c <= 'z':
			c = c - 'a' + 1
		case c >= 'A' && c <= 'Z':
			c = c - 'A' + 1
		}
	}
	return KeyEvent{Char: c, Control: k.ctrl(), Shift: k.shift()}, true
}

func evdevKeyChar(code uint16, shift bool) (byte, bool) {
	switch code {
	case KEY_KPENTER:
		return CHAR_NL, true
	case KEY_UP:
		return CHAR_UP, true
	case KEY_DOWN:
		return CHAR_DOWN, true
	case KEY_LEFT:
		return CHAR_LEFT, true
	case KEY_RIGHT:
		return CHAR_RIGHT, true
	case KEY_DELETE:
		return CHAR_DEL, true
	}
	if int(code) >= len(keymapNormal) {
		return 0, false
	}
	m := keymapNormal
	if shift {
		m = keymapShifted
	}
	c := m[code]
	return c, c != 0
}

// ps2Mouse decodes the 3-byte packets of /dev/input/mice into an absolute
// physical position.
type ps2Mouse struct {
	pkt    [3]byte
	n      int
	x, y   int
	w, h   int
	button bool
}

func newPS2Mouse(w, h int) *ps2Mouse {
	return &ps2Mouse{w: w, h: h, x: w / 2, y: h / 2}
}

// ps2Update is one decoded packet.
type ps2Update struct {
	X, Y    int
	Moved   bool
	Changed bool // button state differs from the previous packet
	Down    bool
}

// feed consumes raw bytes and returns one update per complete packet.
// Bytes that cannot start a packet are dropped until the stream resyncs.
func (m *ps2Mouse) feed(data []byte) []ps2Update {
	var out []ps2Update
	for _, b := range data {
		if m.n == 0 && b&0x08 == 0 {
			continue
		}
		m.pkt[m.n] = b
		m.n++
		if m.n < len(m.pkt) {
			continue
		}
		m.n = 0

		dx := int(int8(m.pkt[1]))
		dy := -int(int8(m.pkt[2]))
		down := m.pkt[0]&0x01 != 0
		u := ps2Update{Moved: dx != 0 || dy != 0, Changed: down != m.button, Down: down}
		m.x = clampInt(m.x+dx, 0, m.w-1)
		m.y = clampInt(m.y+dy, 0, m.h-1)
		m.button = down
		u.X, u.Y = m.x, m.y
		out = append(out, u)
	}
	return out
}

// absAxis maps a touch panel axis onto [0, size).
type absAxis struct {
	min, max int32
}

func (a absAxis) scale(v int32, size int) int {
	if a.max <= a.min || size <= 0 {
		return 0
	}
	p := int64(v-a.min) * int64(size-1) / int64(a.max-a.min)
	return clampInt(int(p), 0, size-1)
}

// evdevTouch accumulates EV_ABS updates and reports them on EV_SYN.
type evdevTouch struct {
	ax, ay absAxis
	w, h   int
	x, y   int32
	moved  bool
}

// handle feeds one event to sink.
func (t *evdevTouch) handle(ev inputEvent, sink InputSink) {
	switch ev.Type {
	case EV_ABS:
		switch ev.Code {
		case ABS_X:
			t.x = ev.Value
			t.moved = true
		case ABS_Y:
			t.y = ev.Value
			t.moved = true
		}
	case EV_KEY:
		if ev.Code == BTN_TOUCH || ev.Code == BTN_LEFT {
			t.flush(sink)
			sink.PointerButton(ev.Value != 0)
		}
	case EV_SYN:
		t.flush(sink)
	}
}

func (t *evdevTouch) flush(sink InputSink) {
	if !t.moved {
		return
	}
	t.moved = false
	sink.PointerMoved(t.ax.scale(t.x, t.w), t.ay.scale(t.y, t.h))
}
