// Package runtime hosts the active app and runs the per-frame pipeline:
// touch, buttons, app dispatch, redraw, power.
package runtime

import (
	"log/slog"
	"time"

	"pocket/hal"
	"pocket/pocketos/buttons"
	"pocket/pocketos/grid"
	"pocket/pocketos/store"
	"pocket/pocketos/system"
	"pocket/pocketos/touch"
)

// AppID names one of the app variants. The zero value means "no app".
type AppID uint8

const (
	None AppID = iota
	Home
	ColorPicker
	Snake
	Settings
	Diagnostic
)

func (id AppID) String() string {
	switch id {
	case Home:
		return "home"
	case ColorPicker:
		return "color"
	case Snake:
		return "snake"
	case Settings:
		return "settings"
	case Diagnostic:
		return "diag"
	default:
		return "none"
	}
}

// InputEvents is what an app sees in one frame. Zero-kind events mean
// nothing happened.
type InputEvents struct {
	Touch  touch.Event
	Button buttons.Event
}

// Response reports an app's intent to the runtime.
type Response struct {
	Redraw  bool
	Command system.Command
	Switch  AppID
}

// Dirty asks for a redraw.
func Dirty() Response { return Response{Redraw: true} }

// SwitchTo asks the runtime to replace the active app with id.
func SwitchTo(id AppID) Response { return Response{Switch: id} }

// Command hands cmd to the runtime.
func Command(cmd system.Command) Response { return Response{Command: cmd} }

// Context is what an app may touch during a call.
type Context struct {
	Grid     *grid.Grid
	Buttons  *buttons.Registry
	Settings system.View
	Now      time.Time

	CellW, CellH int

	Store store.Store
	Stats hal.Stats
	Log   *slog.Logger
}

// App is the contract every variant implements.
//
// Init is called once after the variant is constructed, with an empty button
// registry. Update is called once per frame. Render is only called when the
// app or the button layer asked for a redraw. Name must be constant.
type App interface {
	Init(ctx *Context) Response
	Update(in InputEvents, ctx *Context) Response
	Render(ctx *Context)
	Name() string
}

// Table is the fixed set of variants the runtime can construct.
type Table map[AppID]func() App
