// input_devices.go - Input device discovery from /proc/bus/input/devices

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const procInputDevices = "/proc/bus/input/devices"

// Event type bits in the "B: EV=" bitmap
const (
	EV_SYN = 0x00
	EV_KEY = 0x01
	EV_REL = 0x02
	EV_ABS = 0x03
	EV_REP = 0x14
)

const (
	ABS_X = 0x00
	ABS_Y = 0x01
)

// InputDevice is one block of /proc/bus/input/devices.
type InputDevice struct {
	Name     string
	Handlers []string
	EV       uint64
	ABS      uint64 // lowest word of the ABS bitmap
}

func (d InputDevice) hasHandler(prefix string) (string, bool) {
	for _, h := range d.Handlers {
		if strings.HasPrefix(h, prefix) {
			return h, true
		}
	}
	return "", false
}

// EventPath is /dev/input/eventN, or "" when the device has no evdev node.
func (d InputDevice) EventPath() string {
	if h, ok := d.hasHandler("event"); ok {
		return "/dev/input/" + h
	}
	return ""
}

// IsKeyboard: the kbd handler plus key and autorepeat events.
func (d InputDevice) IsKeyboard() bool {
	_, kbd := d.hasHandler("kbd")
	return kbd && d.EV&(1<<EV_KEY) != 0 && d.EV&(1<<EV_REP) != 0
}

// IsPointer: a mouseN handler.
func (d InputDevice) IsPointer() bool {
	_, ok := d.hasHandler("mouse")
	return ok
}

// IsTouch: absolute X and Y axes.
func (d InputDevice) IsTouch() bool {
	return d.EV&(1<<EV_ABS) != 0 && d.ABS&(1<<ABS_X) != 0 && d.ABS&(1<<ABS_Y) != 0
}

func (d InputDevice) Kind() string {
	var kinds []string
	if d.IsKeyboard() {
		kinds = append(kinds, "keyboard")
	}
	if d.IsTouch() {
		kinds = append(kinds, "touch")
	} else if d.IsPointer() {
		kinds = append(kinds, "pointer")
	}
	if len(kinds) == 0 {
		return "other"
	}
	return strings.Join(kinds, ",")
}

// ParseInputDevices reads the /proc/bus/input/devices format.
func ParseInputDevices(r io.Reader) ([]InputDevice, error) {
	var (
		devs []InputDevice
		cur  InputDevice
		open bool
	)
	flush := func() {
		if open {
			devs = append(devs, cur)
		}
		cur = InputDevice{}
		open = false
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			flush()
			continue
		}
		if len(line) < 3 || line[1] != ':' {
			continue
		}
		open = true
		body := strings.TrimSpace(line[2:])
		switch line[0] {
		case 'N':
			cur.Name = strings.Trim(strings.TrimPrefix(body, "Name="), `"`)
		case 'H':
			cur.Handlers = strings.Fields(strings.TrimPrefix(body, "Handlers="))
		case 'B':
			key, val, ok := strings.Cut(body, "=")
			if !ok {
				continue
			}
			bits, err := parseBitmapLow(val)
			if err != nil {
				return nil, fmt.Errorf("%s bitmap %q: %w", key, val, err)
			}
			switch key {
			case "EV":
				cur.EV = bits
			case "ABS":
				cur.ABS = bits
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return devs, nil
}

// parseBitmapLow returns the least significant word of a space separated
// hex bitmap, most significant word first.
func parseBitmapLow(s string) (uint64, error) {
	words := strings.Fields(s)
	if len(words) == 0 {
		return 0, nil
	}
	return strconv.ParseUint(words[len(words)-1], 16, 64)
}

// DiscoverInputDevices lists the devices the kernel reports.
func DiscoverInputDevices() ([]InputDevice, error) {
	f, err := os.Open(procInputDevices)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseInputDevices(f)
}

func findDevice(devs []InputDevice, want func(InputDevice) bool) (InputDevice, bool) {
	for _, d := range devs {
		if want(d) && d.EventPath() != "" {
			return d, true
		}
	}
	return InputDevice{}, false
}
