// Package buttons maps touch gestures onto named rectangular hit-zones.
package buttons

import (
	"errors"
	"fmt"

	"pocket/pocketos/touch"
)

// ErrRegistryFull is returned when registering past the registry capacity.
var ErrRegistryFull = errors.New("buttons: registry full")

// ID names a button.
type ID string

// Back is the default navigation button every secondary screen registers.
const Back ID = "BACK"

// BackRect is where Back lives, in screen pixels.
var BackRect = Rect{XMin: 0, YMin: 0, XMax: 20, YMax: 20}

// Rect is a hit-zone in screen pixels with inclusive bounds.
type Rect struct {
	XMin uint16
	YMin uint16
	XMax uint16
	YMax uint16
}

// Contains reports whether x, y lies inside r.
func (r Rect) Contains(x, y uint16) bool {
	return x >= r.XMin && x <= r.XMax && y >= r.YMin && y <= r.YMax
}

// Kind is the phase of a button Event.
type Kind uint8

const (
	Pressed Kind = iota + 1
	Released
)

func (k Kind) String() string {
	switch k {
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	default:
		return "none"
	}
}

// Event reports a button activation change.
type Event struct {
	Kind Kind
	ID   ID
}

func (e Event) String() string { return fmt.Sprintf("%s(%s)", e.Kind, e.ID) }

type entry struct {
	id   ID
	rect Rect
}

// Registry holds the registered buttons in registration order and tracks the
// single active one.
type Registry struct {
	cap     int
	entries []entry

	active    ID
	hasActive bool
	dirty     bool
}

// NewRegistry returns an empty registry that accepts up to capacity buttons.
func NewRegistry(capacity int) *Registry {
	if capacity < 0 {
		capacity = 0
	}
	return &Registry{cap: capacity, entries: make([]entry, 0, capacity)}
}

func (r *Registry) Cap() int { return r.cap }
func (r *Registry) Len() int { return len(r.entries) }

// Register adds a button. Registering an existing id moves its hit-zone and
// keeps its position in the scan order.
func (r *Registry) Register(id ID, rect Rect) error {
	for i := range r.entries {
		if r.entries[i].id == id {
			r.entries[i].rect = rect
			r.dirty = true
			return nil
		}
	}
	if len(r.entries) >= r.cap {
		return fmt.Errorf("register %q: %w", id, ErrRegistryFull)
	}
	r.entries = append(r.entries, entry{id: id, rect: rect})
	r.dirty = true
	return nil
}

// MustRegister is Register for statically known button sets. Overflowing the
// registry is a configuration bug, so it panics.
func (r *Registry) MustRegister(id ID, rect Rect) {
	if err := r.Register(id, rect); err != nil {
		panic(err)
	}
}

// RegisterDefaults registers the navigation buttons of secondary screens.
func (r *Registry) RegisterDefaults() {
	r.MustRegister(Back, BackRect)
}

// Clear removes every button and any activation.
func (r *Registry) Clear() {
	if len(r.entries) == 0 && !r.hasActive {
		return
	}
	r.entries = r.entries[:0]
	r.active = ""
	r.hasActive = false
	r.dirty = true
}

// Rect returns the hit-zone of id.
func (r *Registry) Rect(id ID) (Rect, bool) {
	for _, e := range r.entries {
		if e.id == id {
			return e.rect, true
		}
	}
	return Rect{}, false
}

// Active returns the button currently held down.
func (r *Registry) Active() (ID, bool) { return r.active, r.hasActive }

// Dirty reports whether the button chrome needs redrawing.
func (r *Registry) Dirty() bool { return r.dirty }

// HitTest returns the first registered button containing x, y.
func (r *Registry) HitTest(x, y uint16) (ID, bool) {
	for _, e := range r.entries {
		if e.rect.Contains(x, y) {
			return e.id, true
		}
	}
	return "", false
}

// Update feeds one touch event and returns the resulting button event, if
// any.
//
// Down and Move activate the first button under the point; re-entering the
// active button reports nothing. Up releases the active button wherever the
// contact ended.
func (r *Registry) Update(ev touch.Event) (Event, bool) {
	switch ev.Kind {
	case touch.Down, touch.Move:
		id, ok := r.HitTest(ev.X, ev.Y)
		if !ok || (r.hasActive && r.active == id) {
			return Event{}, false
		}
		r.active = id
		r.hasActive = true
		r.dirty = true
		return Event{Kind: Pressed, ID: id}, true

	case touch.Up:
		if !r.hasActive {
			return Event{}, false
		}
		id := r.active
		r.active = ""
		r.hasActive = false
		r.dirty = true
		return Event{Kind: Released, ID: id}, true
	}
	return Event{}, false
}
