// Package snake is the snake game. Tapping the left or right half of the
// screen turns the snake; touching a wall or itself ends the game.
package snake

import (
	"fmt"
	"time"

	"pocket/pocketos/buttons"
	"pocket/pocketos/grid"
	"pocket/pocketos/runtime"
	"pocket/pocketos/store"
	"pocket/pocketos/touch"
)

// Playing field in cells; max bounds are exclusive.
const (
	fieldMinX = 2
	fieldMinY = 4
	fieldMaxX = 38
	fieldMaxY = 29

	maxLength = 256
	stepEvery = 200 * time.Millisecond
)

type point struct {
	x int
	y int
}

type dir uint8

const (
	north dir = iota
	east
	south
	west
)

func (d dir) left() dir  { return (d + 3) % 4 }
func (d dir) right() dir { return (d + 1) % 4 }

func (p point) step(d dir) point {
	switch d {
	case north:
		p.y--
	case east:
		p.x++
	case south:
		p.y++
	case west:
		p.x--
	}
	return p
}

func inField(p point) bool {
	return p.x >= fieldMinX && p.x < fieldMaxX && p.y >= fieldMinY && p.y < fieldMaxY
}

type state uint8

const (
	stateStart state = iota
	statePlaying
	stateDead
)

type App struct {
	state    state
	snake    []point
	heading  dir
	turned   bool
	food     point
	score    int
	best     int
	lastStep time.Time
	rng      uint32
}

func New() runtime.App { return &App{} }

func (a *App) Name() string { return "SNAKE" }

func (a *App) Init(ctx *runtime.Context) runtime.Response {
	ctx.Grid.Clear(' ', grid.Base03, grid.Base03)
	ctx.Buttons.RegisterDefaults()

	if ctx.Store != nil {
		if v, ok := store.ReadUint32(ctx.Store, store.KeySnakeHigh); ok {
			a.best = int(v)
		}
	}
	a.rng = uint32(ctx.Now.UnixNano())
	a.lastStep = ctx.Now
	return runtime.Dirty()
}

func (a *App) Update(in runtime.InputEvents, ctx *runtime.Context) runtime.Response {
	if in.Button == (buttons.Event{Kind: buttons.Released, ID: buttons.Back}) {
		return runtime.SwitchTo(runtime.Home)
	}

	if in.Button.Kind == 0 && in.Touch.Kind == touch.Down {
		if a.state != statePlaying {
			a.reset(ctx.Now)
			return runtime.Dirty()
		}
		if !a.turned {
			if int(in.Touch.X) < ctx.Grid.Cols()*ctx.CellW/2 {
				a.heading = a.heading.left()
			} else {
				a.heading = a.heading.right()
			}
			a.turned = true
		}
	}

	if a.state == statePlaying && ctx.Now.Sub(a.lastStep) >= stepEvery {
		a.lastStep = ctx.Now
		a.advance()
		if a.state == stateDead {
			a.gameOver(ctx)
		}
		return runtime.Dirty()
	}
	return runtime.Response{}
}

func (a *App) reset(now time.Time) {
	a.snake = append(a.snake[:0], point{x: 10, y: 10})
	a.heading = east
	a.turned = false
	a.score = 0
	a.state = statePlaying
	a.lastStep = now
	a.spawnFood()
}

// advance moves the snake one cell.
func (a *App) advance() {
	a.turned = false
	next := a.snake[0].step(a.heading)
	grow := next == a.food

	body := a.snake
	if !grow {
		body = body[:len(body)-1]
	}
	if !inField(next) || occupied(body, next) {
		a.state = stateDead
		return
	}

	if grow && len(a.snake) < maxLength {
		a.snake = append(a.snake, point{})
	}
	copy(a.snake[1:], a.snake[:len(a.snake)-1])
	a.snake[0] = next

	if grow {
		a.score++
		a.spawnFood()
	}
}

func (a *App) gameOver(ctx *runtime.Context) {
	if a.score <= a.best {
		return
	}
	a.best = a.score
	if ctx.Store == nil {
		return
	}
	if err := store.WriteUint32(ctx.Store, store.KeySnakeHigh, uint32(a.best)); err != nil {
		ctx.Log.Warn("high score not saved", "score", a.best, "err", err)
	}
}

func occupied(body []point, p point) bool {
	for _, s := range body {
		if s == p {
			return true
		}
	}
	return false
}

func (a *App) spawnFood() {
	w, h := fieldMaxX-fieldMinX, fieldMaxY-fieldMinY
	for tries := 0; tries < 1024; tries++ {
		a.rng = xorshift32(a.rng)
		x := int(a.rng % uint32(w))
		a.rng = xorshift32(a.rng)
		y := int(a.rng % uint32(h))
		p := point{x: fieldMinX + x, y: fieldMinY + y}
		if !occupied(a.snake, p) {
			a.food = p
			return
		}
	}
	a.food = point{x: fieldMinX, y: fieldMinY}
}

func xorshift32(x uint32) uint32 {
	if x == 0 {
		x = 0x6d2b79f5
	}
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	return x
}

func (a *App) Render(ctx *runtime.Context) {
	g := ctx.Grid
	g.Fill(fieldMinX, fieldMinY, fieldMaxX, fieldMaxY, ' ', grid.Base01, grid.Base01)

	g.Fill(4, 2, g.Cols(), 3, ' ', grid.Base03, grid.Base03)
	g.CenterText(2, fmt.Sprintf("Score: %d  Best: %d", a.score, a.best), grid.Base3, grid.Cyan)

	for _, p := range a.snake {
		g.Put(p.x, p.y, 'X', grid.Violet, grid.Blue)
	}
	if a.state != stateStart {
		g.Put(a.food.x, a.food.y, '#', grid.Green, grid.Base01)
	}

	switch a.state {
	case stateStart:
		g.CenterText(10, "SNAKE", grid.Base3, grid.Blue)
		g.CenterText(13, "Tap to rotate", grid.Base1, grid.Base01)
		g.CenterText(14, "<- LEFT | RIGHT ->", grid.Base1, grid.Base01)
		g.CenterText(16, "Tap to start", grid.Base3, grid.Base01)
	case stateDead:
		g.CenterText(14, "GAME OVER!", grid.Base3, grid.Red)
		g.CenterText(16, "Tap to reset", grid.Base3, grid.Base01)
	}
}
