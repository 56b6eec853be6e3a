package hal

import (
	"errors"
	"image/color"
	"time"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/touch"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// Surface is a pixel panel. Every tinygo display driver with FillRectangle
// satisfies it.
type Surface interface {
	drivers.Displayer
	FillRectangle(x, y, width, height int16, c color.RGBA) error
}

// Cells is a display that renders character cells natively.
type Cells interface {
	FlushCell(col, row int, glyph rune, fg, bg color.RGBA) error
	Present() error
}

// Display exposes exactly one of its two faces; the other returns nil.
type Display interface {
	Surface() Surface
	Cells() Cells
}

// TouchSensor reports raw panel readings. Z is zero while nothing touches
// the panel.
type TouchSensor = touch.Pointer

// Backlight drives the panel backlight, 0 (off) to 100.
type Backlight interface {
	SetLevel(level uint8)
}

// Flash provides raw access to non-volatile memory.
//
// It is intentionally low-level: addresses and erase blocks only.
type Flash interface {
	SizeBytes() uint32
	EraseBlockBytes() uint32
	ReadAt(p []byte, off uint32) (int, error)
	WriteAt(p []byte, off uint32) (int, error)
	Erase(off, size uint32) error
}

// SystemStats is a point-in-time resource reading.
type SystemStats struct {
	CPUPercent    float64
	MemUsedBytes  uint64
	MemTotalBytes uint64
	HeapBytes     uint64
	Uptime        time.Duration
}

// Stats samples resource usage.
type Stats interface {
	Sample() (SystemStats, error)
}

// HAL provides the only contact point between the OS and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Touch() TouchSensor
	Backlight() Backlight
	Flash() Flash
	Stats() Stats
}

// Program is what the platform runners drive: one Step per frame, each
// returning the delay before the next.
type Program interface {
	Step() (time.Duration, error)
	Close() error
}
