package touch

import (
	"errors"
	"time"

	"pocket/pocketos/grid"

	tinytouch "tinygo.org/x/drivers/touch"
)

// Corner targets, in capture order.
const (
	TopLeft = iota
	TopRight
	BottomLeft
	BottomRight
	corners
)

// Calibrator runs the guided four-corner capture. A corner is accepted once
// contact has been held on it for the settle time; the next corner needs a
// release first.
//
// It is frame driven: call Feed once per frame with a raw sensor reading.
type Calibrator struct {
	cols, rows   int
	cellW, cellH int
	settle       time.Duration

	step     int
	touching bool
	held     bool
	since    time.Time
	samples  [corners]tinytouch.Point
}

// NewCalibrator returns a calibrator for a cols x rows grid of cellW x cellH
// pixel cells.
func NewCalibrator(cols, rows, cellW, cellH int, settle time.Duration) *Calibrator {
	return &Calibrator{cols: cols, rows: rows, cellW: cellW, cellH: cellH, settle: settle}
}

// Step returns the index of the corner being captured.
func (c *Calibrator) Step() int { return c.step }

// Done reports whether all corners have been captured.
func (c *Calibrator) Done() bool { return c.step >= corners }

// Pressing reports whether a contact is being held but not yet accepted.
func (c *Calibrator) Pressing() bool { return c.touching && !c.held }

// Feed consumes one raw reading and reports whether it completed a corner.
// Transient sensor errors leave the capture state unchanged.
func (c *Calibrator) Feed(pt tinytouch.Point, err error, now time.Time) bool {
	if c.Done() {
		return false
	}
	if err != nil {
		if !errors.Is(err, ErrNoContact) {
			return false
		}
		c.touching = false
		c.held = false
		return false
	}

	if !c.touching {
		c.touching = true
		c.since = now
	}
	if c.held || now.Sub(c.since) < c.settle {
		return false
	}
	c.samples[c.step] = pt
	c.step++
	c.held = true
	return true
}

// targetCell returns the top-left cell of the 2x2 target block for a corner.
func (c *Calibrator) targetCell(corner int) (x, y int) {
	switch corner {
	case TopRight:
		return c.cols - 3, 1
	case BottomLeft:
		return 1, c.rows - 3
	case BottomRight:
		return c.cols - 3, c.rows - 3
	default:
		return 1, 1
	}
}

// targetPixel returns the pixel at the center of a corner's target block.
func (c *Calibrator) targetPixel(corner int) (x, y int) {
	cx, cy := c.targetCell(corner)
	return (cx + 1) * c.cellW, (cy + 1) * c.cellH
}

// Result extrapolates the captured corners to the raw extents of the full
// panel. Only meaningful once Done.
func (c *Calibrator) Result() Calibration {
	tl, tr := c.samples[TopLeft], c.samples[TopRight]
	bl, br := c.samples[BottomLeft], c.samples[BottomRight]

	leftRaw := (tl.X + bl.X) / 2
	rightRaw := (tr.X + br.X) / 2
	topRaw := (tl.Y + tr.Y) / 2
	bottomRaw := (bl.Y + br.Y) / 2

	leftPx, topPx := c.targetPixel(TopLeft)
	rightPx, bottomPx := c.targetPixel(BottomRight)
	width := c.cols * c.cellW
	height := c.rows * c.cellH

	minX, maxX := extrapolate(leftRaw, rightRaw, leftPx, rightPx, width-1)
	minY, maxY := extrapolate(topRaw, bottomRaw, topPx, bottomPx, height-1)
	return Calibration{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// extrapolate extends the raw readings taken at pixels p0 and p1 to pixels 0
// and last. Readings that do not increase with the pixel axis give a
// degenerate range.
func extrapolate(r0, r1, p0, p1, last int) (lo, hi uint16) {
	if p1 <= p0 || r1 <= r0 {
		return clampRaw(r0), clampRaw(r0)
	}
	span := r1 - r0
	dp := p1 - p0
	lo = clampRaw(r0 - p0*span/dp)
	hi = clampRaw(r1 + (last-p1)*span/dp)
	return lo, hi
}

func clampRaw(v int) uint16 {
	if v < 0 {
		return 0
	}
	if v > 0xFFFF {
		return 0xFFFF
	}
	return uint16(v)
}

// Draw paints the capture screen for the current corner.
func (c *Calibrator) Draw(g *grid.Grid) {
	color := grid.Base01
	if c.Pressing() {
		color = grid.Green
	}

	g.Clear(' ', grid.Base03, grid.Base03)
	mid := g.Rows() / 2
	g.CenterText(mid-1, "TOUCH CALIBRATION", color, grid.Base03)
	g.CenterText(mid+1, "Hold the marked corner", grid.Base1, grid.Base03)
	if c.Done() {
		return
	}
	x, y := c.targetCell(c.step)
	g.Fill(x, y, x+2, y+2, ' ', color, color)
}
