//go:build !tinygo

package hal

import (
	"sync"

	"tinygo.org/x/drivers/touch"
)

// Raw range the simulated controller reports across the panel. It matches
// the default calibration, so a fresh host device needs no calibration pass.
const (
	hostRawMinX = 200
	hostRawMaxX = 3900
	hostRawMinY = 300
	hostRawMaxY = 3800

	hostPressure = 100
)

// hostTouch turns pointer positions in panel pixels into raw readings.
type hostTouch struct {
	mu      sync.Mutex
	width   int
	height  int
	pressed bool
	x, y    int
}

func newHostTouch(width, height int) *hostTouch {
	return &hostTouch{width: width, height: height}
}

// set records the pointer. Positions outside the panel release it.
func (t *hostTouch) set(x, y int, pressed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		pressed = false
	}
	t.pressed = pressed
	t.x, t.y = x, y
}

func (t *hostTouch) ReadTouchPoint() touch.Point {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.pressed {
		return touch.Point{}
	}
	return touch.Point{
		X: toRaw(t.x, t.width, hostRawMinX, hostRawMaxX),
		Y: toRaw(t.y, t.height, hostRawMinY, hostRawMaxY),
		Z: hostPressure,
	}
}

func toRaw(v, size, lo, hi int) int {
	if size <= 1 {
		return lo
	}
	return lo + v*(hi-lo)/(size-1)
}
