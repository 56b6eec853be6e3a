//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"image/color"
	"io"
	"path/filepath"
	"testing"
	"time"
)

func TestFramebufferSurface(t *testing.T) {
	fb := newHostFramebuffer(8, 4)
	var s Surface = fb

	if w, h := s.Size(); w != 8 || h != 4 {
		t.Fatalf("Size() = %d,%d", w, h)
	}
	red := color.RGBA{R: 255, A: 255}
	if err := s.FillRectangle(6, 2, 4, 4, red); err != nil {
		t.Fatal(err)
	}
	if got := fb.at(7, 3); got != rgb565(255, 0, 0) {
		t.Fatalf("pixel 7,3 = %#04x", got)
	}
	if got := fb.at(5, 3); got != 0 {
		t.Fatalf("pixel 5,3 = %#04x, want untouched", got)
	}
	s.SetPixel(-1, 0, red)
	s.SetPixel(0, 0, color.RGBA{B: 255, A: 255})
	if got := fb.at(0, 0); got != rgb565(0, 0, 255) {
		t.Fatalf("pixel 0,0 = %#04x", got)
	}
	if err := s.Display(); err != nil || fb.frames != 1 {
		t.Fatalf("Display() = %v, frames %d", err, fb.frames)
	}
}

func TestTouchRawMapping(t *testing.T) {
	tp := newHostTouch(240, 320)
	if pt := tp.ReadTouchPoint(); pt.Z != 0 {
		t.Fatalf("idle point = %+v", pt)
	}

	tp.set(0, 0, true)
	if pt := tp.ReadTouchPoint(); pt.X != hostRawMinX || pt.Y != hostRawMinY || pt.Z == 0 {
		t.Fatalf("top-left = %+v", pt)
	}
	tp.set(239, 319, true)
	if pt := tp.ReadTouchPoint(); pt.X != hostRawMaxX || pt.Y != hostRawMaxY {
		t.Fatalf("bottom-right = %+v", pt)
	}
	tp.set(240, 10, true)
	if pt := tp.ReadTouchPoint(); pt.Z != 0 {
		t.Fatalf("off-panel point = %+v, want released", pt)
	}
}

func TestHostFlash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pocket.flash")
	f, err := newHostFlash(path, 2*hostFlashEraseBlockBytes)
	if err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 4)
	if _, err := f.ReadAt(buf, 0); err != nil {
		t.Fatal(err)
	}
	if buf[0] != 0xFF {
		t.Fatalf("new image byte = %#02x, want erased", buf[0])
	}

	if _, err := f.WriteAt([]byte{0x0F}, 10); err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteAt([]byte{0xF0}, 10); !errors.Is(err, ErrFlashWriteRequiresErase) {
		t.Fatalf("rewrite err = %v", err)
	}
	if err := f.Erase(1, hostFlashEraseBlockBytes); err == nil {
		t.Fatal("unaligned erase succeeded")
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	f, err = newHostFlash(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if f.SizeBytes() != 2*hostFlashEraseBlockBytes {
		t.Fatalf("reopened size = %d", f.SizeBytes())
	}
	if _, err := f.ReadAt(buf[:1], 10); err != nil || buf[0] != 0x0F {
		t.Fatalf("reopened byte = %#02x, err %v", buf[0], err)
	}
}

func TestBacklightClampsAndNotifies(t *testing.T) {
	var seen []uint8
	b := &hostBacklight{logger: &hostLogger{w: io.Discard}, onChange: func(l uint8) { seen = append(seen, l) }}
	b.SetLevel(150)
	b.SetLevel(40)
	if b.Level() != 40 {
		t.Fatalf("Level() = %d", b.Level())
	}
	if len(seen) != 2 || seen[0] != 100 {
		t.Fatalf("notified %v", seen)
	}
}

func TestDim(t *testing.T) {
	if dim(200, 100) != 200 || dim(200, 50) != 100 || dim(200, 0) != 0 {
		t.Fatal("dim scaling off")
	}
}

type countingProgram struct {
	steps  int
	closed bool
	fail   int
}

func (p *countingProgram) Step() (time.Duration, error) {
	p.steps++
	if p.fail > 0 && p.steps == p.fail {
		return 0, errors.New("boom")
	}
	return time.Millisecond, nil
}

func (p *countingProgram) Close() error {
	p.closed = true
	return nil
}

func TestRunHeadlessFrames(t *testing.T) {
	prog := &countingProgram{}
	cfg := HeadlessConfig{Host: HostConfig{LogWriter: io.Discard}, Frames: 5}
	err := RunHeadless(context.Background(), cfg, func(h HAL) (Program, error) {
		if h.Display().Surface() == nil || h.Display().Cells() != nil {
			t.Error("headless display should be a pixel surface")
		}
		return prog, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if prog.steps != 5 || !prog.closed {
		t.Fatalf("steps=%d closed=%v", prog.steps, prog.closed)
	}
}

func TestRunHeadlessStopsOnStepError(t *testing.T) {
	prog := &countingProgram{fail: 3}
	cfg := HeadlessConfig{Host: HostConfig{LogWriter: io.Discard}}
	err := RunHeadless(context.Background(), cfg, func(HAL) (Program, error) { return prog, nil })
	if err == nil || prog.steps != 3 || !prog.closed {
		t.Fatalf("err=%v steps=%d closed=%v", err, prog.steps, prog.closed)
	}
}

func TestNewHostWithoutFlash(t *testing.T) {
	h, err := newHost(HostConfig{LogWriter: io.Discard}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.Flash().ReadAt(make([]byte, 1), 0); !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("flash read err = %v", err)
	}
	if _, err := h.Stats().Sample(); err != nil {
		t.Logf("stats unavailable here: %v", err)
	}
}
