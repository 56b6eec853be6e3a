package app

import (
	"errors"
	"testing"
)

func TestFaultPaintsSurface(t *testing.T) {
	h := newFakeHAL()
	Fault(h, errors.New("render: flush cell 0,0: spi timeout"))

	s := h.display.surface.(*fakeSurface)
	if s.fills != 1 || s.first != faultBG || s.frames != 1 {
		t.Fatalf("fills=%d first=%v frames=%d", s.fills, s.first, s.frames)
	}
	for _, want := range []string{"Pocket fault", "render", "spi timeout"} {
		if !h.log.contains(want) {
			t.Fatalf("log missing %q: %q", want, h.log.lines)
		}
	}
}

func TestFaultPaintsCells(t *testing.T) {
	h := newFakeHAL()
	cells := &fakeCells{cells: make(map[[2]int]rune)}
	h.display = fakeDisplay{cells: cells}
	Fault(h, describePanic("index out of range"))

	if cells.presents != 1 {
		t.Fatalf("presents = %d", cells.presents)
	}
	if cells.cells[[2]int{0, 0}] != 'P' {
		t.Fatalf("cell 0,0 = %q", cells.cells[[2]int{0, 0}])
	}
	if !h.log.contains("panic") {
		t.Fatalf("log = %q", h.log.lines)
	}
}

func TestTakeRunes(t *testing.T) {
	tests := []struct {
		in         string
		n          int16
		head, tail string
	}{
		{"hello", 10, "hello", ""},
		{"hello world", 5, "hello", " world"},
		{"héllo", 2, "hé", "llo"},
		{"", 3, "", ""},
	}
	for _, tt := range tests {
		head, tail := takeRunes(tt.in, tt.n)
		if head != tt.head || tail != tt.tail {
			t.Errorf("takeRunes(%q, %d) = %q, %q", tt.in, tt.n, head, tail)
		}
	}
}
