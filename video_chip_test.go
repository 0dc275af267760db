// video_chip_test.go - Display surface lifecycle and memory read tests

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
	"errors"
	"testing"
)

func TestBeginTwiceFails(t *testing.T) {
	d, _ := newTestDisplay(t, 1)
	if !d.DisplayReady() {
		t.Fatal("display not ready after Begin")
	}
	err := d.Begin(testConfig(1, Depth32))
	if err == nil {
		t.Fatal("second Begin must fail")
	}
	var de *DisplayError
	if !errors.As(err, &de) || de.Operation != "begin" {
		t.Fatalf("expected a begin DisplayError, got %v", err)
	}
	if !d.DisplayReady() {
		t.Fatal("failed second Begin must leave the display running")
	}
}

func TestBeginInvalidConfigResets(t *testing.T) {
	d := NewRA8875(nil)
	err := d.Begin(testConfig(7, Depth32))
	if err == nil {
		t.Fatal("scale 7 must be rejected")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Path != "scale" {
		t.Fatalf("expected scale ValidationError, got %v", err)
	}
	if d.DisplayReady() || d.Backend() != nil {
		t.Fatal("failed Begin left the display half initialized")
	}
	if err := d.Begin(testConfig(1, Depth16)); err != nil {
		t.Fatalf("Begin after a failed attempt: %v", err)
	}
}

func TestBeginMissingEarthMaps(t *testing.T) {
	cfg := testConfig(1, Depth32)
	cfg.EarthDay = "/nonexistent/day.bin"
	cfg.EarthNight = "/nonexistent/night.bin"
	d := NewRA8875(nil)
	if err := d.Begin(cfg); err == nil {
		t.Fatal("missing earth maps must fail Begin")
	}
	if d.DisplayReady() {
		t.Fatal("display ready after failed Begin")
	}
}

func TestAppDimensions(t *testing.T) {
	for scale := 1; scale <= 4; scale++ {
		d, _ := newTestDisplay(t, scale)
		if d.Width() != 800 || d.Height() != 480 {
			t.Fatalf("scale %d: APP size %dx%d", scale, d.Width(), d.Height())
		}
		res := d.Resolution()
		if res.Width != 800*scale || res.Height != 480*scale {
			t.Fatalf("scale %d: physical size %s", scale, res)
		}
		if got := len(d.RawPixels()); got != res.Width*res.Height*3 {
			t.Fatalf("scale %d: RawPixels has %d bytes", scale, got)
		}
	}
}

func TestReadDataRoundTrip(t *testing.T) {
	for _, depth := range []PixelDepth{Depth16, Depth32} {
		d, _ := newTestDisplayConfig(t, testConfig(2, depth))
		colors := []uint16{0x1234, RED, GREEN, 0xBEEF}
		d.DrawPixels(colors, 10, 20)
		d.SetXY(10, 20)
		for i, want := range colors {
			if got := d.ReadData(); got != want {
				t.Fatalf("depth %d pixel %d: got 0x%04X want 0x%04X", depth, i, got, want)
			}
		}
	}
}

func TestReadDataWraps(t *testing.T) {
	d, _ := newTestDisplay(t, 1)
	d.DrawPixel(799, 5, RED)
	d.DrawPixel(0, 6, BLUE)
	d.SetXY(799, 5)
	if d.ReadData() != RED || d.ReadData() != BLUE {
		t.Fatal("read cursor must wrap to the start of the next row")
	}
}

func TestMonoReadsGrey(t *testing.T) {
	cfg := testConfig(1, Depth32)
	cfg.Mono = true
	d, _ := newTestDisplayConfig(t, cfg)
	d.FillScreen(RED)
	r, g, b := RGB565Channels(readPixel(d, 0, 0))
	if r != b || r == 0 || absInt(int(r)-int(g)) > 4 {
		t.Fatalf("mono canvas holds colour %d,%d,%d", r, g, b)
	}
}

func TestBeginFillsBlack(t *testing.T) {
	d, _ := newTestDisplay(t, 1)
	for _, b := range d.RawPixels()[:3*800] {
		if b != 0 {
			t.Fatal("fresh canvas is not black")
		}
	}
}
