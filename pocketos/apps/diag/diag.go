// Package diag is the hardware test screen: it plots touches, blinks a line
// to show the frame loop is alive and prints host statistics.
package diag

import (
	"fmt"
	"time"

	"pocket/hal"
	"pocket/pocketos/buttons"
	"pocket/pocketos/grid"
	"pocket/pocketos/runtime"
	"pocket/pocketos/touch"
)

const (
	blinkEvery = 200 * time.Millisecond
	statsEvery = time.Second

	plotTop = 10
)

type App struct {
	blink     bool
	lastBlink time.Time

	stats     hal.SystemStats
	statsErr  error
	lastStats time.Time

	last    touch.Event
	plotted int
}

func New() runtime.App { return &App{} }

func (a *App) Name() string { return "TEST" }

func (a *App) Init(ctx *runtime.Context) runtime.Response {
	ctx.Grid.Clear(' ', grid.Base03, grid.Base03)
	ctx.Buttons.RegisterDefaults()
	a.lastBlink = ctx.Now
	a.sample(ctx)
	return runtime.Dirty()
}

func (a *App) sample(ctx *runtime.Context) {
	a.lastStats = ctx.Now
	if ctx.Stats == nil {
		a.statsErr = hal.ErrNotImplemented
		return
	}
	a.stats, a.statsErr = ctx.Stats.Sample()
}

func (a *App) Update(in runtime.InputEvents, ctx *runtime.Context) runtime.Response {
	if in.Button == (buttons.Event{Kind: buttons.Released, ID: buttons.Back}) {
		return runtime.SwitchTo(runtime.Home)
	}

	dirty := false
	switch in.Touch.Kind {
	case touch.Down, touch.Move:
		a.last = in.Touch
		col, row := int(in.Touch.X)/ctx.CellW, int(in.Touch.Y)/ctx.CellH
		if row >= plotTop {
			ctx.Grid.Put(col, row, 'X', grid.Red, grid.Violet)
			a.plotted++
		}
		if in.Touch.Kind == touch.Down {
			ctx.Log.Info("contact", "x", in.Touch.X, "y", in.Touch.Y)
		}
		dirty = true
	case touch.Up:
		a.last = in.Touch
		ctx.Log.Info("released")
		dirty = true
	}

	if ctx.Now.Sub(a.lastBlink) >= blinkEvery {
		a.blink = !a.blink
		a.lastBlink = ctx.Now
		dirty = true
	}
	if ctx.Now.Sub(a.lastStats) >= statsEvery {
		a.sample(ctx)
		dirty = true
	}

	if dirty {
		return runtime.Dirty()
	}
	return runtime.Response{}
}

func (a *App) Render(ctx *runtime.Context) {
	g := ctx.Grid
	if a.blink {
		g.WriteText(0, 3, "Hello Pocket!", grid.Base03, grid.Red)
	} else {
		g.WriteText(0, 3, "Hello Pocket!", grid.Base2, grid.Base03)
	}

	lines := a.statLines(ctx)
	for i, l := range lines {
		y := 5 + i
		g.Fill(0, y, g.Cols(), y+1, ' ', grid.Base1, grid.Base03)
		g.WriteText(0, y, l, grid.Base1, grid.Base03)
	}
}

func (a *App) statLines(ctx *runtime.Context) []string {
	touchLine := "Touch: -"
	if a.last.Kind == touch.Down || a.last.Kind == touch.Move {
		touchLine = fmt.Sprintf("Touch: %d,%d (%d)", a.last.X, a.last.Y, a.plotted)
	}
	power := fmt.Sprintf("Power: %s %d%%", ctx.Settings.Power, ctx.Settings.EffectiveBrightness)
	if a.statsErr != nil {
		return []string{touchLine, power, "Stats: n/a"}
	}
	s := a.stats
	return []string{
		touchLine,
		power,
		fmt.Sprintf("CPU: %.1f%%", s.CPUPercent),
		fmt.Sprintf("Mem: %d/%d MiB", s.MemUsedBytes>>20, s.MemTotalBytes>>20),
		fmt.Sprintf("Heap: %d KiB", s.HeapBytes>>10),
	}
}
