package app

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"pocket/hal"
	"pocket/internal/buildinfo"
	"pocket/pocketos/config"
	"pocket/pocketos/grid"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

const (
	faultCellW = 6
	faultCellH = 10
)

var (
	faultFG = grid.Base3.RGBA()
	faultBG = grid.Red.RGBA()
)

// Fault logs err and paints it over the whole display. It does not halt.
func Fault(h hal.HAL, err error) {
	lines := faultLines(err)
	if l := h.Logger(); l != nil {
		for _, line := range lines {
			l.WriteLineString(line)
		}
	}

	d := h.Display()
	if d == nil {
		return
	}
	if s := d.Surface(); s != nil {
		paintFaultSurface(s, lines)
		return
	}
	if c := d.Cells(); c != nil {
		paintFaultCells(c, lines)
	}
}

func faultLines(err error) []string {
	lines := []string{"Pocket fault", "version: " + buildinfo.String(), ""}
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	for _, part := range strings.Split(msg, ": ") {
		lines = append(lines, part)
	}
	return lines
}

func paintFaultSurface(s hal.Surface, lines []string) {
	w, h := s.Size()
	_ = s.FillRectangle(0, 0, w, h, faultBG)

	cols := w / faultCellW
	if cols <= 0 {
		cols = 1
	}
	font := &proggy.TinySZ8pt7b
	y := int16(0)
	for _, line := range lines {
		for {
			if y+faultCellH > h {
				_ = s.Display()
				return
			}
			chunk, rest := takeRunes(line, cols)
			drawTextLine(s, font, 0, y+faultCellH-2, chunk, faultFG)
			y += faultCellH
			line = strings.TrimLeft(rest, " ")
			if line == "" {
				break
			}
		}
	}
	_ = s.Display()
}

func paintFaultCells(c hal.Cells, lines []string) {
	// The grid may be gone by now; assume the stock panel size.
	panel := config.Default().Display
	cols, rows := panel.Cols(), panel.Rows()
	row := 0
	for _, line := range lines {
		for row < rows {
			chunk, rest := takeRunes(line, int16(cols))
			for col := 0; col < cols; col++ {
				r, size := utf8.DecodeRuneInString(chunk)
				if size == 0 {
					r = ' '
				}
				chunk = chunk[size:]
				_ = c.FlushCell(col, row, r, faultFG, faultBG)
			}
			row++
			line = strings.TrimLeft(rest, " ")
			if line == "" {
				break
			}
		}
	}
	for ; row < rows; row++ {
		for col := 0; col < cols; col++ {
			_ = c.FlushCell(col, row, ' ', faultFG, faultBG)
		}
	}
	_ = c.Present()
}

func drawTextLine(d hal.Surface, font tinyfont.Fonter, x0, baseline int16, s string, fg color.RGBA) {
	x := x0
	for _, r := range s {
		tinyfont.DrawChar(d, font, x, baseline, r, fg)
		x += faultCellW
	}
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}

// describePanic turns a recovered value into an error.
func describePanic(v any) error {
	if err, ok := v.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", v)
}
