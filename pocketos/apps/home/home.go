// Package home is the launcher screen.
package home

import (
	"pocket/pocketos/buttons"
	"pocket/pocketos/grid"
	"pocket/pocketos/runtime"
)

// Launcher entries, top to bottom.
var entries = []struct {
	id   buttons.ID
	rect buttons.Rect
	app  runtime.AppID
}{
	{"TEST", buttons.Rect{XMin: 0, YMin: 60, XMax: 80, YMax: 80}, runtime.Diagnostic},
	{"COLOR", buttons.Rect{XMin: 0, YMin: 90, XMax: 80, YMax: 110}, runtime.ColorPicker},
	{"SNAKE", buttons.Rect{XMin: 0, YMin: 120, XMax: 80, YMax: 140}, runtime.Snake},
	{"SETTINGS", buttons.Rect{XMin: 0, YMin: 150, XMax: 80, YMax: 170}, runtime.Settings},
}

type App struct{}

func New() runtime.App { return &App{} }

func (a *App) Name() string { return "HOME" }

func (a *App) Init(ctx *runtime.Context) runtime.Response {
	ctx.Grid.Clear(' ', grid.Base03, grid.Base03)
	for _, e := range entries {
		ctx.Buttons.MustRegister(e.id, e.rect)
	}
	return runtime.Dirty()
}

func (a *App) Update(in runtime.InputEvents, ctx *runtime.Context) runtime.Response {
	if in.Button.Kind != buttons.Released {
		return runtime.Response{}
	}
	for _, e := range entries {
		if e.id == in.Button.ID {
			return runtime.SwitchTo(e.app)
		}
	}
	return runtime.Response{}
}

func (a *App) Render(ctx *runtime.Context) {
	ctx.Grid.WriteText(0, 3, "Welcome!", grid.Base3, grid.Base03)
	ctx.Grid.WriteText(0, 4, "Select an app to get started.", grid.Base2, grid.Base03)
}
