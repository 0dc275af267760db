package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProcDevices = `I: Bus=0019 Vendor=0000 Product=0001 Version=0000
N: Name="Power Button"
P: Phys=PNP0C0C/button/input0
H: Handlers=kbd event0
B: PROP=0
B: EV=3
B: KEY=10000000000000 0

I: Bus=0011 Vendor=0001 Product=0001 Version=ab41
N: Name="AT Translated Set 2 keyboard"
P: Phys=isa0060/serio0/input0
H: Handlers=sysrq kbd leds event1
B: PROP=0
B: EV=120013
B: KEY=402000000 3803078f800d001 feffffdfffefffff fffffffffffffffe
B: MSC=10
B: LED=7

I: Bus=0003 Vendor=046d Product=c077 Version=0111
N: Name="Logitech USB Optical Mouse"
H: Handlers=mouse0 event2
B: PROP=0
B: EV=17
B: KEY=70000 0 0 0 0
B: REL=903

I: Bus=0018 Vendor=0416 Product=038f Version=0100
N: Name="raspberrypi-ts"
H: Handlers=mouse1 event3
B: PROP=2
B: EV=b
B: KEY=400 0 0 0 0 0 0 0 0 0 0
B: ABS=2608000 3
`

func TestParseInputDevices(t *testing.T) {
	devs, err := ParseInputDevices(strings.NewReader(sampleProcDevices))
	require.NoError(t, err)
	require.Len(t, devs, 4)

	assert.Equal(t, "Power Button", devs[0].Name)
	assert.Equal(t, "other", devs[0].Kind(), "no autorepeat, not a keyboard")

	kb := devs[1]
	assert.Equal(t, []string{"sysrq", "kbd", "leds", "event1"}, kb.Handlers)
	assert.Equal(t, uint64(0x120013), kb.EV)
	assert.True(t, kb.IsKeyboard())
	assert.Equal(t, "/dev/input/event1", kb.EventPath())
	assert.Equal(t, "keyboard", kb.Kind())

	assert.Equal(t, "pointer", devs[2].Kind())
	assert.False(t, devs[2].IsTouch())

	ts := devs[3]
	assert.Equal(t, uint64(3), ts.ABS)
	assert.True(t, ts.IsTouch())
	assert.Equal(t, "touch", ts.Kind(), "touch wins over the mouse handler")
}

func TestParseInputDevicesBadBitmap(t *testing.T) {
	_, err := ParseInputDevices(strings.NewReader("N: Name=\"x\"\nB: EV=zz\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EV bitmap")
}

func TestParseInputDevicesNoTrailingBlank(t *testing.T) {
	devs, err := ParseInputDevices(strings.NewReader("N: Name=\"a\"\nH: Handlers=event7"))
	require.NoError(t, err)
	require.Len(t, devs, 1)
	assert.Equal(t, "/dev/input/event7", devs[0].EventPath())
}

func TestFindDevice(t *testing.T) {
	devs := []InputDevice{
		{Name: "no node", Handlers: []string{"kbd"}, EV: 1<<EV_KEY | 1<<EV_REP},
		{Name: "real", Handlers: []string{"kbd", "event4"}, EV: 1<<EV_KEY | 1<<EV_REP},
	}
	d, ok := findDevice(devs, InputDevice.IsKeyboard)
	require.True(t, ok)
	assert.Equal(t, "real", d.Name)

	_, ok = findDevice(devs, InputDevice.IsTouch)
	assert.False(t, ok)
}

func TestParseBitmapLow(t *testing.T) {
	v, err := parseBitmapLow("ffff 10")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x10), v)
	v, err = parseBitmapLow("")
	require.NoError(t, err)
	assert.Zero(t, v)
}
