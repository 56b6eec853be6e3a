package grid

import (
	"fmt"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// FillDisplayer is a pixel display that can fill rectangles natively.
type FillDisplayer interface {
	drivers.Displayer
	FillRectangle(x, y, width, height int16, c color.RGBA) error
}

// PixelTarget rasterizes cells onto a pixel display: a background rectangle
// per cell, then the glyph.
type PixelTarget struct {
	d     FillDisplayer
	font  tinyfont.Fonter
	cellW int16
	cellH int16

	// baseline is the glyph origin offset from the top of a cell.
	baseline int16
}

// NewPixelTarget returns a target drawing cellW x cellH cells with the
// system font.
func NewPixelTarget(d FillDisplayer, cellW, cellH int) *PixelTarget {
	return NewPixelTargetFont(d, &proggy.TinySZ8pt7b, cellW, cellH)
}

// NewPixelTargetFont is NewPixelTarget with an explicit font.
func NewPixelTargetFont(d FillDisplayer, font tinyfont.Fonter, cellW, cellH int) *PixelTarget {
	return &PixelTarget{
		d:        d,
		font:     font,
		cellW:    int16(cellW),
		cellH:    int16(cellH),
		baseline: int16(cellH) - 2,
	}
}

func (p *PixelTarget) FlushCell(col, row int, glyph rune, fg, bg color.RGBA) error {
	x := int16(col) * p.cellW
	y := int16(row) * p.cellH
	if err := p.d.FillRectangle(x, y, p.cellW, p.cellH, bg); err != nil {
		return fmt.Errorf("fill: %w", err)
	}
	if glyph != ' ' && glyph != 0 {
		tinyfont.DrawChar(p.d, p.font, x, y+p.baseline, glyph, fg)
	}
	return nil
}

func (p *PixelTarget) Present() error {
	return p.d.Display()
}
