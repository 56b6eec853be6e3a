// Package color shows the palette as tappable swatches.
package color

import (
	"pocket/pocketos/buttons"
	"pocket/pocketos/grid"
	"pocket/pocketos/runtime"
	"pocket/pocketos/touch"
)

type swatch struct {
	name  string
	color grid.Color
}

var swatches = []swatch{
	{"YELLOW", grid.Yellow},
	{"ORANGE", grid.Orange},
	{"RED", grid.Red},
	{"MAGENTA", grid.Magenta},
	{"VIOLET", grid.Violet},
	{"BLUE", grid.Blue},
	{"CYAN", grid.Cyan},
	{"GREEN", grid.Green},
}

// Swatch area, in cells.
const (
	firstCol    = 4
	swatchWidth = 4
	firstRow    = 3
	labelRow    = 2
)

type App struct {
	selected int // index into swatches, -1 for none
}

func New() runtime.App { return &App{selected: -1} }

func (a *App) Name() string { return "COLOR" }

// Selected returns the name of the last tapped swatch.
func (a *App) Selected() (string, bool) {
	if a.selected < 0 {
		return "", false
	}
	return swatches[a.selected].name, true
}

func (a *App) Init(ctx *runtime.Context) runtime.Response {
	ctx.Grid.Clear(' ', grid.Base03, grid.Base03)
	ctx.Buttons.RegisterDefaults()
	return runtime.Dirty()
}

func (a *App) Update(in runtime.InputEvents, ctx *runtime.Context) runtime.Response {
	if in.Button == (buttons.Event{Kind: buttons.Released, ID: buttons.Back}) {
		return runtime.SwitchTo(runtime.Home)
	}
	if in.Touch.Kind != touch.Down && in.Touch.Kind != touch.Move {
		return runtime.Response{}
	}
	i, ok := a.hit(int(in.Touch.X)/ctx.CellW, int(in.Touch.Y)/ctx.CellH, ctx.Grid.Rows())
	if !ok || i == a.selected {
		return runtime.Response{}
	}
	a.selected = i
	return runtime.Dirty()
}

func (a *App) hit(col, row, rows int) (int, bool) {
	if row < firstRow || row >= rows || col < firstCol {
		return 0, false
	}
	i := (col - firstCol) / swatchWidth
	if i >= len(swatches) {
		return 0, false
	}
	return i, true
}

func (a *App) Render(ctx *runtime.Context) {
	g := ctx.Grid
	for i, s := range swatches {
		x0 := firstCol + i*swatchWidth
		glyph := ' '
		if i == a.selected {
			glyph = '*'
		}
		g.Fill(x0, firstRow, x0+swatchWidth, g.Rows(), glyph, grid.Base3, s.color)
	}

	g.Fill(firstCol, labelRow, g.Cols(), labelRow+1, ' ', grid.Base03, grid.Base03)
	if name, ok := a.Selected(); ok {
		g.CenterText(labelRow, name, grid.Base3, grid.Base03)
	}
}
