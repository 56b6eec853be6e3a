// Package touch turns raw touch-controller samples into a calibrated
// press / drag / release gesture stream.
package touch

import (
	"errors"
	"fmt"
	"log/slog"

	tinytouch "tinygo.org/x/drivers/touch"
)

// ErrNoContact is returned by a Sensor when nothing is touching the panel.
var ErrNoContact = errors.New("touch: no contact")

// Sensor is the raw touch-controller collaborator.
//
// SampleAxes returns ErrNoContact when the panel is not touched. Any other
// error is treated as a transient read failure.
type Sensor interface {
	SampleAxes() (tinytouch.Point, error)
}

// Kind is the gesture phase of an Event.
type Kind uint8

const (
	None Kind = iota
	Down
	Move
	Up
)

func (k Kind) String() string {
	switch k {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	default:
		return "none"
	}
}

// Event is one calibrated touch sample. X and Y are only meaningful for Down
// and Move.
type Event struct {
	Kind Kind
	X    uint16
	Y    uint16
}

func (e Event) String() string {
	if e.Kind == Up || e.Kind == None {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s(%d,%d)", e.Kind, e.X, e.Y)
}

// Poller synthesizes Down/Move/Up edges from a level-only sensor.
type Poller struct {
	sensor Sensor
	cal    Calibration
	maxX   uint16
	maxY   uint16
	log    *slog.Logger

	down bool
}

// NewPoller returns a poller mapping into a width x height pixel space.
func NewPoller(s Sensor, cal Calibration, width, height int, log *slog.Logger) *Poller {
	if log == nil {
		log = slog.Default()
	}
	p := &Poller{sensor: s, cal: cal, log: log}
	if width > 0 {
		p.maxX = uint16(width - 1)
	}
	if height > 0 {
		p.maxY = uint16(height - 1)
	}
	return p
}

func (p *Poller) Calibration() Calibration { return p.cal }

// SetCalibration replaces the mapping used by later polls.
func (p *Poller) SetCalibration(c Calibration) { p.cal = c }

// Sensor returns the underlying raw sensor.
func (p *Poller) Sensor() Sensor { return p.sensor }

// Touching reports whether a contact is open.
func (p *Poller) Touching() bool { return p.down }

// Reset forgets an open contact without emitting Up.
func (p *Poller) Reset() { p.down = false }

// Poll reads the sensor once and returns at most one event.
func (p *Poller) Poll() (Event, bool) {
	pt, err := p.sensor.SampleAxes()
	if err != nil {
		if errors.Is(err, ErrNoContact) {
			if p.down {
				p.down = false
				return Event{Kind: Up}, true
			}
			return Event{}, false
		}
		p.log.Debug("touch sample failed", "err", err)
		return Event{}, false
	}

	x := MapAxis(pt.X, int(p.cal.MinX), int(p.cal.MaxX), p.maxX)
	y := MapAxis(pt.Y, int(p.cal.MinY), int(p.cal.MaxY), p.maxY)
	if p.down {
		return Event{Kind: Move, X: x, Y: y}, true
	}
	p.down = true
	return Event{Kind: Down, X: x, Y: y}, true
}

// PointerSensor adapts a tinygo touch.Pointer. Readings below MinPressure
// count as no contact.
type PointerSensor struct {
	P           tinytouch.Pointer
	MinPressure int
}

func (s PointerSensor) SampleAxes() (tinytouch.Point, error) {
	pt := s.P.ReadTouchPoint()
	threshold := s.MinPressure
	if threshold <= 0 {
		threshold = 1
	}
	if pt.Z < threshold {
		return tinytouch.Point{}, ErrNoContact
	}
	return pt, nil
}
