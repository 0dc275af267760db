//go:build linux

// video_backend_fb.go - Linux framebuffer console backend

package main

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

func init() {
	RegisterBackend("fb", func() DisplayBackend { return &FramebufferOutput{} })
	compiledFeatures = append(compiledFeatures, "backend:fb (linux framebuffer, evdev)")
}

// linux/fb.h and linux/kd.h
const (
	FBIOGET_VSCREENINFO = 0x4600
	FBIOPUT_VSCREENINFO = 0x4601
	FBIOGET_FSCREENINFO = 0x4602

	KDSETMODE   = 0x4B3A
	KD_TEXT     = 0x00
	KD_GRAPHICS = 0x01
)

type fbBitfield struct {
	Offset   uint32
	Length   uint32
	MsbRight uint32
}

type fbVarScreeninfo struct {
	Xres         uint32
	Yres         uint32
	XresVirtual  uint32
	YresVirtual  uint32
	Xoffset      uint32
	Yoffset      uint32
	BitsPerPixel uint32
	Grayscale    uint32
	Red          fbBitfield
	Green        fbBitfield
	Blue         fbBitfield
	Transp       fbBitfield
	Nonstd       uint32
	Activate     uint32
	Height       uint32
	Width        uint32
	AccelFlags   uint32
	Pixclock     uint32
	LeftMargin   uint32
	RightMargin  uint32
	UpperMargin  uint32
	LowerMargin  uint32
	HsyncLen     uint32
	VsyncLen     uint32
	Sync         uint32
	Vmode        uint32
	Rotate       uint32
	Colorspace   uint32
	Reserved     [4]uint32
}

type fbFixScreeninfo struct {
	ID           [16]byte
	SmemStart    uintptr
	SmemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	XPanStep     uint16
	YPanStep     uint16
	YWrapStep    uint16
	LineLength   uint32
	MmioStart    uintptr
	MmioLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

func fbIoctl(fd int, req uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(arg))
	if errno != 0 {
		return os.NewSyscallError("ioctl", errno)
	}
	return nil
}

// FramebufferOutput writes frames straight into the mapped fb memory.
// The stage is copied into the top left corner when the mode is larger.
type FramebufferOutput struct {
	mu     sync.Mutex
	log    *slog.Logger
	cfg    DisplayConfig
	dev    *os.File
	tty    *os.File
	mem    []byte
	vinfo  fbVarScreeninfo
	finfo  fbFixScreeninfo
	width  int
	height int
	bpp    int

	// console is the stdin keyboard when no evdev keyboard exists
	console *TerminalHost
}

func (f *FramebufferOutput) Name() string { return "fb" }

func (f *FramebufferOutput) Open(cfg DisplayConfig) error {
	f.log = cfg.Logger
	if f.log == nil {
		f.log = discardLogger()
	}
	f.cfg = cfg

	dev, err := os.OpenFile(cfg.FBDevice, os.O_RDWR, os.ModeDevice)
	if err != nil {
		return &DisplayError{Operation: "open", Details: cfg.FBDevice, Err: err}
	}
	fd := int(dev.Fd())

	var vinfo fbVarScreeninfo
	if err := fbIoctl(fd, FBIOGET_VSCREENINFO, unsafe.Pointer(&vinfo)); err != nil {
		dev.Close()
		return &DisplayError{Operation: "open", Details: "FBIOGET_VSCREENINFO", Err: err}
	}

	// Ask for the mode; drivers are free to ignore it
	want := vinfo
	want.Xres, want.Yres = uint32(cfg.Width), uint32(cfg.Height)
	want.XresVirtual, want.YresVirtual = want.Xres, want.Yres
	want.Xoffset, want.Yoffset = 0, 0
	want.BitsPerPixel = uint32(cfg.Depth)
	if err := fbIoctl(fd, FBIOPUT_VSCREENINFO, unsafe.Pointer(&want)); err != nil {
		f.log.Warn("framebuffer mode change refused", "device", cfg.FBDevice, "err", err)
	}
	if err := fbIoctl(fd, FBIOGET_VSCREENINFO, unsafe.Pointer(&vinfo)); err != nil {
		dev.Close()
		return &DisplayError{Operation: "open", Details: "FBIOGET_VSCREENINFO", Err: err}
	}
	var finfo fbFixScreeninfo
	if err := fbIoctl(fd, FBIOGET_FSCREENINFO, unsafe.Pointer(&finfo)); err != nil {
		dev.Close()
		return &DisplayError{Operation: "open", Details: "FBIOGET_FSCREENINFO", Err: err}
	}

	if int(vinfo.Xres) < cfg.Width || int(vinfo.Yres) < cfg.Height {
		dev.Close()
		return &DisplayError{
			Operation: "open",
			Details:   fmt.Sprintf("framebuffer is %dx%d, need %dx%d", vinfo.Xres, vinfo.Yres, cfg.Width, cfg.Height),
		}
	}
	switch vinfo.BitsPerPixel {
	case 16, 32:
	default:
		dev.Close()
		return &DisplayError{Operation: "open", Details: fmt.Sprintf("unsupported framebuffer depth %d", vinfo.BitsPerPixel)}
	}

	mem, err := unix.Mmap(fd, 0, int(finfo.SmemLen), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		dev.Close()
		return &DisplayError{Operation: "open", Details: "mmap", Err: err}
	}

	f.mu.Lock()
	f.dev, f.mem = dev, mem
	f.vinfo, f.finfo = vinfo, finfo
	f.width, f.height = int(vinfo.Xres), int(vinfo.Yres)
	f.bpp = int(vinfo.BitsPerPixel)
	f.mu.Unlock()

	f.graphicsMode(cfg.TTYDevice)
	f.log.Info("framebuffer opened", "device", cfg.FBDevice, "mode", fmt.Sprintf("%dx%d", f.width, f.height), "bpp", f.bpp, "line_length", finfo.LineLength)
	return nil
}

// graphicsMode hides the console text cursor. Failure is not fatal.
func (f *FramebufferOutput) graphicsMode(path string) {
	if path == "" {
		return
	}
	tty, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		f.log.Warn("console tty open failed", "device", path, "err", err)
		return
	}
	if err := unix.IoctlSetInt(int(tty.Fd()), KDSETMODE, KD_GRAPHICS); err != nil {
		f.log.Warn("KD_GRAPHICS failed", "device", path, "err", err)
		tty.Close()
		return
	}
	f.tty = tty
}

// Close restores text mode and unmaps the framebuffer.
func (f *FramebufferOutput) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.console != nil {
		f.console.Stop()
		f.console = nil
	}
	if f.tty != nil {
		_ = unix.IoctlSetInt(int(f.tty.Fd()), KDSETMODE, KD_TEXT)
		f.tty.Close()
		f.tty = nil
	}
	var err error
	if f.mem != nil {
		err = unix.Munmap(f.mem)
		f.mem = nil
	}
	if f.dev != nil {
		f.dev.Close()
		f.dev = nil
	}
	return err
}

func (f *FramebufferOutput) Present(stage *PixelBuffer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mem == nil {
		return &DisplayError{Operation: "present", Details: "framebuffer not open"}
	}
	if stage.Width > f.width || stage.Height > f.height {
		return &DisplayError{Operation: "present", Details: "frame larger than framebuffer mode"}
	}
	fbPresent(f.mem, int(f.finfo.LineLength), f.bpp, int(f.vinfo.Xoffset), int(f.vinfo.Yoffset), stage)
	return nil
}

// fbPresent copies stage row by row into mem, converting between 16 and
// 32 bits per pixel when the mode and the stage differ.
func fbPresent(mem []byte, lineLength, bpp, xoff, yoff int, stage *PixelBuffer) {
	dstBytes := bpp / 8
	for y := 0; y < stage.Height; y++ {
		off := (yoff+y)*lineLength + xoff*dstBytes
		if off+stage.Width*dstBytes > len(mem) {
			return
		}
		dst := mem[off : off+stage.Width*dstBytes]
		src := stage.Pix[y*stage.Stride : y*stage.Stride+stage.Width*stage.Depth.Bytes()]
		switch {
		case stage.Depth.Bytes() == dstBytes:
			copy(dst, src)
		case stage.Depth == Depth16:
			for x := 0; x < stage.Width; x++ {
				c := binary.LittleEndian.Uint16(src[x*2:])
				binary.LittleEndian.PutUint32(dst[x*4:], rgb565To32(c))
			}
		default:
			for x := 0; x < stage.Width; x++ {
				c := binary.LittleEndian.Uint32(src[x*4:])
				binary.LittleEndian.PutUint16(dst[x*2:], rgb32To565(c))
			}
		}
	}
}

// StartInput starts one reader per discovered device. Without an evdev
// keyboard the console itself is read when stdin is a terminal.
func (f *FramebufferOutput) StartInput(sink InputSink) error {
	w, h := f.cfg.Width, f.cfg.Height
	devs, err := DiscoverInputDevices()
	if err != nil {
		f.log.Warn("input discovery failed", "path", procInputDevices, "err", err)
	}

	if kb, ok := findDevice(devs, InputDevice.IsKeyboard); ok {
		f.log.Info("keyboard", "device", kb.EventPath(), "name", kb.Name)
		startKeyboardReader(kb.EventPath(), sink, f.log)
	} else if stdinIsTerminal() {
		f.log.Info("keyboard", "device", "stdin")
		h := NewTerminalHost(sink, os.Stdin, f.log)
		h.Start()
		f.mu.Lock()
		f.console = h
		f.mu.Unlock()
	} else {
		f.log.Warn("no keyboard found")
	}

	if touch, ok := findDevice(devs, InputDevice.IsTouch); ok {
		f.log.Info("touch", "device", touch.EventPath(), "name", touch.Name)
		startTouchReader(touch.EventPath(), w, h, sink, f.log)
	} else if f.cfg.MouseDevice != "" {
		if _, err := os.Stat(f.cfg.MouseDevice); err == nil {
			f.log.Info("pointer", "device", f.cfg.MouseDevice)
			startMiceReader(f.cfg.MouseDevice, w, h, sink, f.log)
		}
	}
	return nil
}

func (f *FramebufferOutput) ScreenSize() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.width, f.height
}

func (f *FramebufferOutput) NativeCursor() bool { return false }
