// video_text_test.go - Text cursor and glyph rendering tests

package main

import (
	"testing"

	"golang.org/x/image/font/inconsolata"
)

func TestPrintAdvancesCursor(t *testing.T) {
	d, _ := newTestDisplay(t, 1)
	d.SetCursor(10, 20)
	d.Print("abc")
	if d.CursorX() != 10+3*7 || d.CursorY() != 20 {
		t.Fatalf("cursor at %d,%d after three glyphs", d.CursorX(), d.CursorY())
	}
	d.Print("\nxy")
	if d.CursorX() != 14 || d.CursorY() != 33 {
		t.Fatalf("newline should return to x=0 one line down, cursor at %d,%d", d.CursorX(), d.CursorY())
	}
}

func TestPrintPaintsAboveBaseline(t *testing.T) {
	for _, scale := range []int{1, 3} {
		d, _ := newTestDisplay(t, scale)
		d.SetTextColor(YELLOW)
		d.SetCursor(100, 50)
		d.Print("H")
		lit := 0
		for y := 50 - 13; y < 50+3; y++ {
			for x := 98; x < 110; x++ {
				c := readPixel(d, x, y)
				if c == YELLOW {
					lit++
					if x < 100 || x >= 107 || y < 50-11 || y >= 50+2 {
						t.Fatalf("scale %d: glyph pixel outside its cell at %d,%d", scale, x, y)
					}
				} else if c != BLACK {
					t.Fatalf("scale %d: stray colour 0x%04X", scale, c)
				}
			}
		}
		if lit == 0 {
			t.Fatalf("scale %d: nothing painted", scale)
		}
	}
}

func TestPrintfAndPrintln(t *testing.T) {
	d, _ := newTestDisplay(t, 1)
	d.SetCursor(0, 15)
	d.Printf("%02d", 7)
	if d.CursorX() != 14 {
		t.Fatalf("Printf advanced to %d", d.CursorX())
	}
	d.Println("")
	if d.CursorX() != 0 || d.CursorY() != 28 {
		t.Fatalf("Println left the cursor at %d,%d", d.CursorX(), d.CursorY())
	}
}

func TestTextBounds(t *testing.T) {
	d, _ := newTestDisplay(t, 1)
	x1, y1, w, h := d.TextBounds("ab", 10, 20)
	if x1 != 10 || y1 != 20-11 || h != 13 {
		t.Fatalf("bounds %d,%d %dx%d", x1, y1, w, h)
	}
	if w < 12 || w > 14 {
		t.Fatalf("two glyph width %d", w)
	}
	if _, _, w, h := d.TextBounds("", 5, 5); w != 0 || h != 0 {
		t.Fatal("empty string has no extent")
	}
	if d.CursorX() != 0 {
		t.Fatal("TextBounds must not move the cursor")
	}
}

func TestSetFont(t *testing.T) {
	d, _ := newTestDisplay(t, 1)
	d.SetFont(inconsolata.Regular8x16)
	d.SetCursor(0, 20)
	d.Print("ab")
	if d.CursorX() != 16 {
		t.Fatalf("8 pixel face advanced to %d", d.CursorX())
	}
	d.SetFont(nil)
	d.Print("a")
	if d.CursorX() != 23 {
		t.Fatalf("built-in face restored badly, cursor %d", d.CursorX())
	}
}
