//go:build !tinygo

package hal

import (
	"image/color"
	"sync"
)

// hostFramebuffer is an in-memory RGB565 panel. The window runner blits it.
type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte
	frames uint64
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	stride := width * 2
	return &hostFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
	}
}

func (f *hostFramebuffer) Size() (x, y int16) { return int16(f.width), int16(f.height) }

func (f *hostFramebuffer) SetPixel(x, y int16, c color.RGBA) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setLocked(int(x), int(y), rgb565(c.R, c.G, c.B))
}

func (f *hostFramebuffer) setLocked(x, y int, pixel uint16) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	off := y*f.stride + x*2
	f.buf[off] = byte(pixel)
	f.buf[off+1] = byte(pixel >> 8)
}

func (f *hostFramebuffer) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	pixel := rgb565(c.R, c.G, c.B)
	for yy := int(y); yy < int(y)+int(height); yy++ {
		for xx := int(x); xx < int(x)+int(width); xx++ {
			f.setLocked(xx, yy, pixel)
		}
	}
	return nil
}

// Display marks a finished frame. The window picks it up on its next draw.
func (f *hostFramebuffer) Display() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames++
	return nil
}

func (f *hostFramebuffer) at(x, y int) uint16 {
	f.mu.Lock()
	defer f.mu.Unlock()
	off := y*f.stride + x*2
	return uint16(f.buf[off]) | uint16(f.buf[off+1])<<8
}

func (f *hostFramebuffer) snapshotRGB565(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.buf)
}
