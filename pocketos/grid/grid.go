// Package grid implements the character-cell framebuffer.
//
// Every write compares against the attributes last flushed to the display, so
// Render only touches cells whose visible state actually differs.
package grid

import (
	"fmt"
	"image/color"
)

// Cell is one character slot of the screen.
type Cell struct {
	Glyph rune
	FG    Color
	BG    Color

	shown  look
	dirty  bool
	queued bool
}

type look struct {
	glyph rune
	fg    Color
	bg    Color
}

// Dirty reports whether the cell differs from what was last flushed.
func (c *Cell) Dirty() bool { return c.dirty }

func (c *Cell) look() look { return look{glyph: c.Glyph, fg: c.FG, bg: c.BG} }

// Target is the display collaborator a grid flushes into.
type Target interface {
	FlushCell(col, row int, glyph rune, fg, bg color.RGBA) error
}

// Presenter is implemented by targets that buffer flushed cells and need an
// explicit commit once a render pass wrote anything.
type Presenter interface {
	Present() error
}

// Grid is a fixed-size cell framebuffer with per-cell change tracking.
type Grid struct {
	cols  int
	rows  int
	cells []Cell

	// pending holds indexes of cells that were marked dirty since the last
	// render. Entries whose cell was reverted to its flushed look are skipped.
	pending []int
}

// New returns a grid of cols*rows blank cells. All cells start dirty: nothing
// has been flushed yet.
func New(cols, rows int) *Grid {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	g := &Grid{
		cols:    cols,
		rows:    rows,
		cells:   make([]Cell, cols*rows),
		pending: make([]int, 0, cols*rows),
	}
	for i := range g.cells {
		c := &g.cells[i]
		c.Glyph = ' '
		c.FG = Black
		c.BG = Black
		c.dirty = true
		c.queued = true
		g.pending = append(g.pending, i)
	}
	return g
}

func (g *Grid) Cols() int { return g.cols }
func (g *Grid) Rows() int { return g.rows }

// At returns the cell at x, y.
func (g *Grid) At(x, y int) (Cell, bool) {
	if !g.inBounds(x, y) {
		return Cell{}, false
	}
	return g.cells[y*g.cols+x], true
}

// DirtyCount returns the number of cells that Render would flush.
func (g *Grid) DirtyCount() int {
	n := 0
	for _, i := range g.pending {
		if g.cells[i].dirty {
			n++
		}
	}
	return n
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.cols && y < g.rows
}

func (g *Grid) set(i int, glyph rune, fg, bg Color) {
	c := &g.cells[i]
	if c.Glyph == glyph && c.FG == fg && c.BG == bg {
		return
	}
	c.Glyph = glyph
	c.FG = fg
	c.BG = bg
	c.dirty = c.look() != c.shown
	if c.dirty && !c.queued {
		c.queued = true
		g.pending = append(g.pending, i)
	}
}

// Clear overwrites every cell.
func (g *Grid) Clear(glyph rune, fg, bg Color) {
	for i := range g.cells {
		g.set(i, glyph, fg, bg)
	}
}

// Put writes one cell. Coordinates outside the grid are ignored.
func (g *Grid) Put(x, y int, glyph rune, fg, bg Color) {
	if !g.inBounds(x, y) {
		return
	}
	g.set(y*g.cols+x, glyph, fg, bg)
}

// WriteText writes text left to right starting at x, y and truncates at the
// right edge.
func (g *Grid) WriteText(x, y int, text string, fg, bg Color) {
	if y < 0 || y >= g.rows {
		return
	}
	for _, r := range text {
		if x >= g.cols {
			return
		}
		g.Put(x, y, r, fg, bg)
		x++
	}
}

// CenterText writes text horizontally centered on row y.
func (g *Grid) CenterText(y int, text string, fg, bg Color) {
	n := 0
	for range text {
		n++
	}
	x := (g.cols - n) / 2
	if x < 0 {
		x = 0
	}
	g.WriteText(x, y, text, fg, bg)
}

// Fill writes glyph into the rectangle [x0,x1)x[y0,y1).
func (g *Grid) Fill(x0, y0, x1, y1 int, glyph rune, fg, bg Color) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			g.Put(x, y, glyph, fg, bg)
		}
	}
}

// Invalidate forces every cell to be flushed on the next render, for targets
// that lost their contents.
func (g *Grid) Invalidate() {
	g.pending = g.pending[:0]
	for i := range g.cells {
		c := &g.cells[i]
		c.dirty = true
		c.queued = true
		g.pending = append(g.pending, i)
	}
}

// Render flushes dirty cells to t and clears their dirty flags. It returns
// the number of cells written. Work is proportional to the number of cells
// changed since the previous render.
func (g *Grid) Render(t Target) (int, error) {
	n := 0
	for k, i := range g.pending {
		c := &g.cells[i]
		if !c.dirty {
			c.queued = false
			continue
		}
		col, row := i%g.cols, i/g.cols
		if err := t.FlushCell(col, row, c.Glyph, c.FG.RGBA(), c.BG.RGBA()); err != nil {
			g.pending = append(g.pending[:0], g.pending[k:]...)
			return n, fmt.Errorf("flush cell %d,%d: %w", col, row, err)
		}
		c.shown = c.look()
		c.dirty = false
		c.queued = false
		n++
	}
	g.pending = g.pending[:0]

	if n > 0 {
		if p, ok := t.(Presenter); ok {
			if err := p.Present(); err != nil {
				return n, fmt.Errorf("present: %w", err)
			}
		}
	}
	return n, nil
}
