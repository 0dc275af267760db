// video_compositor_test.go - Tests and benchmarks for video compositor

package main

import (
	"bytes"
	"sync"
	"testing"
	"time"
)

func TestPresentCopiesCanvas(t *testing.T) {
	d, out := newTestDisplay(t, 1)
	d.FillRect(0, 0, 10, 10, RED)
	d.DrawCanvas()
	if got := framePixel(t, out, 5, 5); got != rgb565To32(RED) {
		t.Fatalf("expected red in frame, got 0x%08X", got)
	}
	if got := framePixel(t, out, 10, 10); got != 0 {
		t.Fatalf("expected black outside the fill, got 0x%08X", got)
	}
}

func TestPresentSkipsCleanFrames(t *testing.T) {
	d, out := newTestDisplay(t, 1)
	d.DrawCanvas()
	n := out.FrameCount()
	d.present(false, nil)
	d.present(false, nil)
	if out.FrameCount() != n {
		t.Fatalf("clean canvas was presented again: %d -> %d", n, out.FrameCount())
	}
	d.DrawPixel(1, 1, WHITE)
	d.present(false, nil)
	if out.FrameCount() != n+1 {
		t.Fatalf("dirty canvas not presented: %d frames", out.FrameCount())
	}
}

func TestDrawCanvasBeforeBegin(t *testing.T) {
	d := NewRA8875(nil)
	d.DrawCanvas()
	d.SetPR(0, 0, 10, 10, func(*RA8875) { t.Fatal("callback ran before Begin") })
	d.DrawCanvas()
}

func TestCursorOverlayLeavesCanvasAlone(t *testing.T) {
	d, out, clk := newClockedDisplay(t, 1)
	d.SetMouse(100, 100)
	d.DrawCanvas()

	// row 2 of the arrow is "#.#"
	if got := framePixel(t, out, 101, 102); got != rgb565To32(WHITE) {
		t.Fatalf("cursor fill missing, got 0x%08X", got)
	}
	if got := readPixel(d, 101, 102); got != BLACK {
		t.Fatalf("cursor leaked into the canvas: 0x%04X", got)
	}

	clk.Advance(defaultMouseFadeMS * time.Millisecond)
	d.present(false, nil)
	if got := framePixel(t, out, 101, 102); got != 0 {
		t.Fatalf("idle cursor still drawn: 0x%08X", got)
	}

	d.PointerButton(true)
	d.present(false, nil)
	if got := framePixel(t, out, 101, 102); got != rgb565To32(WHITE) {
		t.Fatal("press did not bring the cursor back")
	}
}

func TestCursorOverlayRotated(t *testing.T) {
	d, out, _ := newClockedDisplay(t, 1)
	d.SetRotation(2)
	d.SetMouse(100, 100)
	d.DrawCanvas()
	if got := framePixel(t, out, 799-100, 479-100); got != 0 {
		t.Fatalf("rotated arrow tip should be outline, got 0x%08X", got)
	}
	if got := framePixel(t, out, 799-100+1, 479-100+2); got != rgb565To32(WHITE) {
		t.Fatalf("rotated arrow fill missing, got 0x%08X", got)
	}
}

func TestProtectedRegionRepaintOnDemand(t *testing.T) {
	d, out := newTestDisplay(t, 1)
	calls := 0
	d.SetPR(50, 60, 20, 10, func(d *RA8875) {
		calls++
		d.FillRect(50, 60, 20, 10, GREEN)
	})
	if !d.PRDirty() {
		t.Fatal("SetPR must schedule a repaint")
	}
	d.DrawCanvas()
	if calls != 1 || d.PRDirty() {
		t.Fatalf("expected one repaint, got %d (dirty %v)", calls, d.PRDirty())
	}
	if got := framePixel(t, out, 55, 65); got != rgb565To32(GREEN) {
		t.Fatalf("repaint not published, got 0x%08X", got)
	}

	d.DrawCanvas()
	d.DrawCanvas()
	if calls != 1 {
		t.Fatalf("callback ran without DrawPR: %d calls", calls)
	}
	d.DrawPR()
	d.DrawPR()
	d.DrawCanvas()
	if calls != 2 {
		t.Fatalf("repeated DrawPR should coalesce into one repaint, got %d calls", calls)
	}
}

func TestProtectedRegionNeverTears(t *testing.T) {
	d, out := newTestDisplay(t, 1)
	entered := make(chan struct{})
	release := make(chan struct{})
	first := true
	d.SetPR(100, 100, 50, 50, func(d *RA8875) {
		if first {
			first = false
			d.FillRect(100, 100, 50, 50, GREEN)
			return
		}
		d.FillRect(100, 100, 25, 50, RED)
		close(entered)
		<-release
		d.FillRect(125, 100, 25, 50, RED)
	})
	d.DrawCanvas()

	d.DrawPR()
	done := make(chan struct{})
	go func() {
		d.DrawCanvas()
		close(done)
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("repaint callback never ran")
	}
	d.present(true, nil)
	for _, x := range []int{110, 140} {
		if got := framePixel(t, out, x, 120); got != rgb565To32(GREEN) {
			t.Fatalf("half painted region reached the backend at x=%d: 0x%08X", x, got)
		}
	}
	if got := readPixel(d, 110, 120); got != RED {
		t.Fatal("callback writes must land in the canvas immediately")
	}

	close(release)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("DrawCanvas did not return after the callback")
	}
	for _, x := range []int{110, 140} {
		if got := framePixel(t, out, x, 120); got != rgb565To32(RED) {
			t.Fatalf("finished repaint not published at x=%d: 0x%08X", x, got)
		}
	}
}

func TestClearProtectedRegion(t *testing.T) {
	d, out := newTestDisplay(t, 1)
	d.SetPR(0, 0, 10, 10, func(d *RA8875) { d.FillRect(0, 0, 10, 10, GREEN) })
	d.DrawCanvas()
	d.ClearPR()
	d.FillRect(0, 0, 10, 10, BLUE)
	d.DrawCanvas()
	if got := framePixel(t, out, 5, 5); got != rgb565To32(BLUE) {
		t.Fatalf("cleared region should follow the canvas, got 0x%08X", got)
	}
}

func TestProtectedRegionStageRect(t *testing.T) {
	pr := &protectedRegion{X: 10, Y: 20, W: 30, H: 40}
	res := Resolutions[2]
	if x, y, w, h := pr.stageRect(res, false); x != 20 || y != 40 || w != 60 || h != 80 {
		t.Fatalf("unrotated rect %d,%d %dx%d", x, y, w, h)
	}
	if x, y, _, _ := pr.stageRect(res, true); x != 1600-20-60 || y != 960-40-80 {
		t.Fatalf("rotated rect origin %d,%d", x, y)
	}
}

func TestConcurrentDrawingNeverTears(t *testing.T) {
	d, out := newTestDisplay(t, 1)
	d.FillScreen(RED)

	red, blue := solidChecksum(RED), solidChecksum(BLUE)

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		var wg sync.WaitGroup
		for _, c := range []uint16{RED, BLUE} {
			wg.Add(1)
			go func(c uint16) {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					d.FillScreen(c)
				}
			}(c)
		}
		for i := 0; i < 50; i++ {
			d.present(true, nil)
			sum := out.Frame().Checksum()
			if sum != red && sum != blue {
				t.Errorf("frame %d mixes two fills", i)
				break
			}
		}
		wg.Wait()
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("drawing and presenting deadlocked")
	}
}

// solidChecksum is the checksum of an APP sized 32 bit frame filled with c.
func solidChecksum(c uint16) uint32 {
	b := NewPixelBuffer(APP_WIDTH, APP_HEIGHT, Depth32)
	b.Fill(rgb565To32(c))
	return b.Checksum()
}

func TestRenderLoopAlongsideDrawing(t *testing.T) {
	cfg := testConfig(1, Depth32)
	cfg.RefreshMS = 2
	d, out := newTestDisplayConfig(t, cfg)
	d.FillScreen(RED)
	red, blue := solidChecksum(RED), solidChecksum(BLUE)
	start := out.FrameCount()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for _, c := range []uint16{RED, BLUE} {
		wg.Add(1)
		go func(c uint16) {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					d.FillScreen(c)
				}
			}
		}(c)
	}

	deadline := time.After(5 * time.Second)
	samples := 0
loop:
	for samples < 200 || out.FrameCount() < start+20 {
		select {
		case <-deadline:
			t.Errorf("render loop presented %d frames in 5s", out.FrameCount()-start)
			break loop
		default:
		}
		if sum := d.CanvasChecksum(); sum != red && sum != blue {
			t.Errorf("canvas sample %d mixes two fills", samples)
			break
		}
		if f := out.Frame(); f != nil {
			if sum := f.Checksum(); sum != red && sum != blue {
				t.Errorf("presented frame mixes two fills after %d samples", samples)
				break
			}
		}
		samples++
	}
	close(stop)
	wg.Wait()
}

func TestProtectedRegionRepaintIdempotent(t *testing.T) {
	d, out := newTestDisplay(t, 2)
	calls := 0
	d.SetPR(40, 30, 80, 24, func(d *RA8875) {
		calls++
		d.FillRect(40, 30, 80, 24, BLUE)
		d.DrawLine(40, 30, 119, 53, RED)
		d.SetTextColor(YELLOW)
		d.SetCursor(44, 48)
		d.Print("12:34")
	})
	d.DrawCanvas()
	first := out.Frame()
	canvas := d.CanvasChecksum()

	d.DrawPR()
	d.DrawCanvas()
	second := out.Frame()
	if calls != 2 {
		t.Fatalf("expected two repaints, got %d", calls)
	}
	if d.CanvasChecksum() != canvas {
		t.Fatal("second repaint changed the canvas")
	}
	if !bytes.Equal(first.Pix, second.Pix) {
		t.Fatal("second repaint changed the presented region")
	}
	if got := framePixel(t, out, 2*40+1, 2*30+10); got != rgb565To32(BLUE) {
		t.Fatalf("region background missing: 0x%08X", got)
	}
}

func TestRotatedFrame(t *testing.T) {
	d, out := newTestDisplay(t, 1)
	d.SetRotation(1)
	if d.Rotation() != 0 {
		t.Fatal("unsupported rotation must be ignored")
	}
	d.SetRotation(2)
	d.DrawPixel(0, 0, RED)
	d.DrawCanvas()
	if got := framePixel(t, out, 799, 479); got != rgb565To32(RED) {
		t.Fatalf("pixel 0,0 should appear at 799,479, got 0x%08X", got)
	}
	if got := framePixel(t, out, 0, 0); got != 0 {
		t.Fatal("unrotated position still set")
	}
	if readPixel(d, 0, 0) != RED {
		t.Fatal("rotation must not touch the canvas")
	}
}

func TestScaledFrameBlock(t *testing.T) {
	d, out := newTestDisplay(t, 2)
	d.DrawPixel(3, 4, RED)
	d.DrawCanvas()
	for _, p := range [][2]int{{6, 8}, {7, 8}, {6, 9}, {7, 9}} {
		if got := framePixel(t, out, p[0], p[1]); got != rgb565To32(RED) {
			t.Fatalf("block pixel %v missing", p)
		}
	}
	if framePixel(t, out, 8, 8) != 0 || framePixel(t, out, 6, 10) != 0 {
		t.Fatal("APP pixel spilled outside its block")
	}
}

func BenchmarkPresent(b *testing.B) {
	d, _ := newTestDisplay(b, 2)
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		d.present(true, nil)
	}
}

func BenchmarkPresentRotated(b *testing.B) {
	d, _ := newTestDisplay(b, 2)
	d.SetRotation(2)
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		d.present(true, nil)
	}
}
