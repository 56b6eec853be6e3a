//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// HostConfig describes the simulated device.
type HostConfig struct {
	Width  int
	Height int

	// FlashPath backs the simulated flash chip. Empty means no flash.
	FlashPath string
	FlashSize uint32

	// LogWriter receives log lines. Nil means stdout.
	LogWriter io.Writer
}

func (c HostConfig) withDefaults() HostConfig {
	if c.Width <= 0 {
		c.Width = 240
	}
	if c.Height <= 0 {
		c.Height = 320
	}
	if c.LogWriter == nil {
		c.LogWriter = os.Stdout
	}
	return c
}

type hostHAL struct {
	logger    *hostLogger
	display   hostDisplay
	touch     *hostTouch
	backlight *hostBacklight
	flash     Flash
	stats     Stats
	closers   []io.Closer
}

// newHost builds a host HAL. cells replaces the pixel framebuffer when set.
func newHost(cfg HostConfig, cells Cells) (*hostHAL, error) {
	cfg = cfg.withDefaults()
	logger := &hostLogger{w: cfg.LogWriter}
	h := &hostHAL{
		logger:    logger,
		touch:     newHostTouch(cfg.Width, cfg.Height),
		backlight: &hostBacklight{logger: logger, level: 100},
		flash:     stubFlash{},
		stats:     newHostStats(),
	}
	if cells != nil {
		h.display = hostDisplay{cells: cells}
	} else {
		h.display = hostDisplay{fb: newHostFramebuffer(cfg.Width, cfg.Height)}
	}
	if cfg.FlashPath != "" {
		f, err := newHostFlash(cfg.FlashPath, cfg.FlashSize)
		if err != nil {
			return nil, fmt.Errorf("open flash: %w", err)
		}
		h.flash = f
		h.closers = append(h.closers, f)
	}
	return h, nil
}

func (h *hostHAL) Logger() Logger       { return h.logger }
func (h *hostHAL) Display() Display     { return h.display }
func (h *hostHAL) Touch() TouchSensor   { return h.touch }
func (h *hostHAL) Backlight() Backlight { return h.backlight }
func (h *hostHAL) Flash() Flash         { return h.flash }
func (h *hostHAL) Stats() Stats         { return h.stats }

func (h *hostHAL) close() error {
	var first error
	for _, c := range h.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type hostDisplay struct {
	fb    *hostFramebuffer
	cells Cells
}

func (d hostDisplay) Surface() Surface {
	if d.fb == nil {
		return nil
	}
	return d.fb
}

func (d hostDisplay) Cells() Cells { return d.cells }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

// hostBacklight remembers the level so runners can dim what they draw.
type hostBacklight struct {
	mu       sync.Mutex
	level    uint8
	logger   *hostLogger
	onChange func(level uint8)
}

func (b *hostBacklight) SetLevel(level uint8) {
	if level > 100 {
		level = 100
	}
	b.mu.Lock()
	b.level = level
	onChange := b.onChange
	b.mu.Unlock()

	b.logger.WriteLineString(fmt.Sprintf("backlight: %d", level))
	if onChange != nil {
		onChange(level)
	}
}

func (b *hostBacklight) Level() uint8 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.level
}
