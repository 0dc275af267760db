//go:build !headless && linux

package main

import "testing"

func TestX11KeysymChar(t *testing.T) {
	cases := []struct {
		keysym uint32
		ctrl   bool
		want   byte
		ok     bool
	}{
		{keysymReturn, false, CHAR_NL, true},
		{keysymKPEnter, false, CHAR_NL, true},
		{keysymBackSpace, false, CHAR_BS, true},
		{keysymDelete, false, CHAR_DEL, true},
		{keysymUp, false, CHAR_UP, true},
		{'a', false, 'a', true},
		{'c', true, 3, true},
		{'Z', true, 26, true},
		{'5', true, '5', true},
		{0xffbe, false, 0, false}, // F1
		{0x00e9, false, 0, false}, // eacute
	}
	for _, tc := range cases {
		got, ok := x11KeysymChar(tc.keysym, tc.ctrl)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("keysym 0x%04x ctrl=%v: got 0x%02X,%v want 0x%02X,%v", tc.keysym, tc.ctrl, got, ok, tc.want, tc.ok)
		}
	}
}
