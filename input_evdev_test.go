//go:build linux

package main

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeInputEvents(evs ...inputEvent) []byte {
	buf := make([]byte, len(evs)*inputEventSize)
	tv := inputEventSize - 8
	for i, ev := range evs {
		p := buf[i*inputEventSize+tv:]
		binary.NativeEndian.PutUint16(p[0:], ev.Type)
		binary.NativeEndian.PutUint16(p[2:], ev.Code)
		binary.NativeEndian.PutUint32(p[4:], uint32(ev.Value))
	}
	return buf
}

func TestDecodeInputEvents(t *testing.T) {
	want := []inputEvent{
		{Type: EV_KEY, Code: 30, Value: 1},
		{Type: EV_ABS, Code: ABS_Y, Value: -7},
		{Type: EV_SYN},
	}
	buf := encodeInputEvents(want...)
	assert.Equal(t, want, decodeInputEvents(buf))
	assert.Equal(t, want[:2], decodeInputEvents(buf[:len(buf)-1]), "partial events are ignored")
	assert.Empty(t, decodeInputEvents(nil))
}

func keyEv(code uint16, value int32) inputEvent {
	return inputEvent{Type: EV_KEY, Code: code, Value: value}
}

func TestEvdevKeyboard(t *testing.T) {
	var k evdevKeyboard

	ev, ok := k.handle(keyEv(30, 1))
	require.True(t, ok)
	assert.Equal(t, KeyEvent{Char: 'a'}, ev)

	_, ok = k.handle(keyEv(30, 0))
	assert.False(t, ok, "releases produce nothing")

	ev, ok = k.handle(keyEv(30, 2))
	require.True(t, ok, "autorepeat produces a key")
	assert.Equal(t, byte('a'), ev.Char)

	k.handle(keyEv(KEY_LEFTSHIFT, 1))
	ev, _ = k.handle(keyEv(30, 1))
	assert.Equal(t, KeyEvent{Char: 'A', Shift: true}, ev)
	ev, _ = k.handle(keyEv(2, 1))
	assert.Equal(t, byte('!'), ev.Char)
	k.handle(keyEv(KEY_LEFTSHIFT, 0))

	k.handle(keyEv(KEY_RIGHTCTRL, 1))
	ev, _ = k.handle(keyEv(46, 1))
	assert.Equal(t, KeyEvent{Char: 3, Control: true}, ev)
	k.handle(keyEv(KEY_RIGHTCTRL, 0))

	for code, want := range map[uint16]byte{
		28: '\n', 14: '\b', 57: ' ', 44: 'z',
		KEY_KPENTER: CHAR_NL, KEY_UP: CHAR_UP, KEY_LEFT: CHAR_LEFT, KEY_DELETE: CHAR_DEL,
	} {
		ev, ok := k.handle(keyEv(code, 1))
		require.True(t, ok, "code %d", code)
		assert.Equal(t, want, ev.Char, "code %d", code)
	}

	_, ok = k.handle(keyEv(200, 1))
	assert.False(t, ok, "unmapped codes are dropped")
	_, ok = k.handle(inputEvent{Type: EV_REL, Code: 30, Value: 1})
	assert.False(t, ok)
}

func TestKeymapLength(t *testing.T) {
	assert.Len(t, keymapNormal, 58)
	assert.Len(t, keymapShifted, 58)
}

func TestPS2MouseFeed(t *testing.T) {
	m := newPS2Mouse(800, 480)
	ups := m.feed([]byte{0x08, 5, 3})
	require.Len(t, ups, 1)
	assert.Equal(t, ps2Update{X: 405, Y: 237, Moved: true}, ups[0])

	ups = m.feed([]byte{0x09, 0, 0})
	require.Len(t, ups, 1)
	assert.True(t, ups[0].Changed)
	assert.True(t, ups[0].Down)
	assert.False(t, ups[0].Moved)

	ups = m.feed([]byte{0x09, 0, 0})
	assert.False(t, ups[0].Changed, "held button is not a new press")
}

func TestPS2MouseResync(t *testing.T) {
	m := newPS2Mouse(800, 480)
	// leading bytes without the sync bit are dropped
	ups := m.feed([]byte{0x00, 0x01, 0x08, 0xFF})
	assert.Empty(t, ups)
	ups = m.feed([]byte{0x01})
	require.Len(t, ups, 1, "packets can span reads")
	assert.Equal(t, 399, ups[0].X)
	assert.Equal(t, 239, ups[0].Y)
}

func TestPS2MouseClamps(t *testing.T) {
	m := newPS2Mouse(100, 50)
	var last ps2Update
	for i := 0; i < 10; i++ {
		ups := m.feed([]byte{0x08, 0x7F, 0x80})
		last = ups[len(ups)-1]
	}
	assert.Equal(t, 99, last.X)
	assert.Equal(t, 49, last.Y)
}

func TestAbsAxisScale(t *testing.T) {
	a := absAxis{min: 100, max: 4000}
	assert.Equal(t, 0, a.scale(100, 800))
	assert.Equal(t, 799, a.scale(4000, 800))
	assert.Equal(t, 0, a.scale(-50, 800))
	assert.Equal(t, 799, a.scale(9000, 800))
	assert.Equal(t, 0, absAxis{}.scale(10, 800), "an empty range maps to 0")
}

func TestEvdevTouch(t *testing.T) {
	tt := &evdevTouch{ax: absAxis{0, 799}, ay: absAxis{0, 479}, w: 800, h: 480}
	sink := &recordingSink{}

	tt.handle(inputEvent{Type: EV_ABS, Code: ABS_X, Value: 100}, sink)
	tt.handle(inputEvent{Type: EV_ABS, Code: ABS_Y, Value: 200}, sink)
	assert.Empty(t, sink.moves, "position is reported on sync")
	tt.handle(inputEvent{Type: EV_KEY, Code: BTN_TOUCH, Value: 1}, sink)
	assert.Equal(t, [][2]int{{100, 200}}, sink.moves, "a press flushes the pending position first")
	assert.Equal(t, []bool{true}, sink.buttons)

	tt.handle(inputEvent{Type: EV_SYN}, sink)
	assert.Len(t, sink.moves, 1, "nothing new to report")

	tt.handle(inputEvent{Type: EV_ABS, Code: ABS_X, Value: 300}, sink)
	tt.handle(inputEvent{Type: EV_SYN}, sink)
	assert.Equal(t, [2]int{300, 200}, sink.moves[1])

	tt.handle(inputEvent{Type: EV_KEY, Code: BTN_LEFT, Value: 0}, sink)
	assert.Equal(t, []bool{true, false}, sink.buttons)
}
