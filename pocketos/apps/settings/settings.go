// Package settings shows build info and lets the user change brightness and
// recalibrate the touch panel.
package settings

import (
	"fmt"

	"pocket/internal/buildinfo"
	"pocket/pocketos/buttons"
	"pocket/pocketos/grid"
	"pocket/pocketos/runtime"
	"pocket/pocketos/system"
)

const (
	Dimmer    buttons.ID = "-"
	Brighter  buttons.ID = "+"
	Calibrate buttons.ID = "CALIBRATE"

	BrightnessStep = 10
	MinBrightness  = 10
)

var layout = []struct {
	id   buttons.ID
	rect buttons.Rect
}{
	{Dimmer, buttons.Rect{XMin: 0, YMin: 100, XMax: 47, YMax: 129}},
	{Brighter, buttons.Rect{XMin: 192, YMin: 100, XMax: 239, YMax: 129}},
	{Calibrate, buttons.Rect{XMin: 60, YMin: 200, XMax: 179, YMax: 229}},
}

type App struct{}

func New() runtime.App { return &App{} }

func (a *App) Name() string { return "SETTINGS" }

func (a *App) Init(ctx *runtime.Context) runtime.Response {
	ctx.Grid.Clear(' ', grid.Base03, grid.Base03)
	ctx.Buttons.RegisterDefaults()
	for _, b := range layout {
		ctx.Buttons.MustRegister(b.id, b.rect)
	}
	return runtime.Dirty()
}

func (a *App) Update(in runtime.InputEvents, ctx *runtime.Context) runtime.Response {
	if in.Button.Kind != buttons.Released {
		return runtime.Response{}
	}
	level := int(ctx.Settings.UserBrightness)
	switch in.Button.ID {
	case buttons.Back:
		return runtime.SwitchTo(runtime.Home)
	case Dimmer:
		level -= BrightnessStep
	case Brighter:
		level += BrightnessStep
	case Calibrate:
		return runtime.Command(system.StartCalibration())
	default:
		return runtime.Response{}
	}
	level = max(MinBrightness, min(100, level))
	return runtime.Response{Redraw: true, Command: system.SetBrightness(uint8(level))}
}

func (a *App) Render(ctx *runtime.Context) {
	g := ctx.Grid
	g.WriteText(0, 3, "> ABOUT:", grid.Base3, grid.Base02)
	g.WriteText(0, 4, fmt.Sprintf("V: %s", buildinfo.String()), grid.Base3, grid.Base03)

	g.WriteText(0, 7, "> DISPLAY:", grid.Base3, grid.Base02)
	g.Fill(8, 11, g.Cols()-8, 12, ' ', grid.Base03, grid.Base03)
	g.CenterText(11, fmt.Sprintf("Brightness %3d%%", ctx.Settings.UserBrightness), grid.Base2, grid.Base03)

	cal := ctx.Settings.Calibration
	g.WriteText(0, 15, "> INPUT:", grid.Base3, grid.Base02)
	g.Fill(0, 16, g.Cols(), 18, ' ', grid.Base03, grid.Base03)
	g.WriteText(0, 16, fmt.Sprintf("X: %d..%d", cal.MinX, cal.MaxX), grid.Base1, grid.Base03)
	g.WriteText(0, 17, fmt.Sprintf("Y: %d..%d", cal.MinY, cal.MaxY), grid.Base1, grid.Base03)
}
