// Package runtimetest provides helpers for testing apps outside the frame
// loop.
package runtimetest

import (
	"image/color"
	"io"
	"log/slog"
	"time"

	"pocket/pocketos/buttons"
	"pocket/pocketos/grid"
	"pocket/pocketos/runtime"
	"pocket/pocketos/store"
	"pocket/pocketos/system"
	"pocket/pocketos/touch"

	tinytouch "tinygo.org/x/drivers/touch"
)

// NewContext returns a 40x32 grid context with 6x10 cells, an empty registry,
// an in-memory store and a discarding logger.
func NewContext(now time.Time) *runtime.Context {
	return &runtime.Context{
		Grid:     grid.New(40, 32),
		Buttons:  buttons.NewRegistry(16),
		Settings: system.View{UserBrightness: 100, EffectiveBrightness: 100},
		Now:      now,
		CellW:    6,
		CellH:    10,
		Store:    store.NewMemory(),
		Log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Down returns a touch-down input at x, y with no button event.
func Down(x, y uint16) runtime.InputEvents {
	return runtime.InputEvents{Touch: touch.Event{Kind: touch.Down, X: x, Y: y}}
}

// Released returns the input of a button release.
func Released(id buttons.ID) runtime.InputEvents {
	return runtime.InputEvents{
		Touch:  touch.Event{Kind: touch.Up},
		Button: buttons.Event{Kind: buttons.Released, ID: id},
	}
}

// Row returns the glyphs of row y.
func Row(g *grid.Grid, y int) string {
	out := make([]rune, 0, g.Cols())
	for x := 0; x < g.Cols(); x++ {
		c, _ := g.At(x, y)
		out = append(out, c.Glyph)
	}
	return string(out)
}

// Sensor replays raw samples and reports no contact once they run out.
type Sensor struct {
	points []tinytouch.Point
	errs   []error
}

// Touch queues a contact at raw x, y.
func (s *Sensor) Touch(x, y int) {
	s.points = append(s.points, tinytouch.Point{X: x, Y: y, Z: 1})
	s.errs = append(s.errs, nil)
}

// Release queues a no-contact reading.
func (s *Sensor) Release() {
	s.points = append(s.points, tinytouch.Point{})
	s.errs = append(s.errs, touch.ErrNoContact)
}

func (s *Sensor) SampleAxes() (tinytouch.Point, error) {
	if len(s.points) == 0 {
		return tinytouch.Point{}, touch.ErrNoContact
	}
	pt, err := s.points[0], s.errs[0]
	s.points, s.errs = s.points[1:], s.errs[1:]
	return pt, err
}

// Target counts flushed cells.
type Target struct {
	Flushed int
}

func (t *Target) FlushCell(col, row int, glyph rune, fg, bg color.RGBA) error {
	t.Flushed++
	return nil
}
