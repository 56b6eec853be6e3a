//go:build !tinygo

package hal

import (
	"context"
	"image/color"
	"io"
	"sync"
	"time"

	"github.com/gdamore/tcell"
	"github.com/mattn/go-runewidth"
)

// TerminalConfig controls the terminal runner. Each grid cell is one
// terminal cell; CellW and CellH give the pixel size touch is mapped into.
type TerminalConfig struct {
	Host         HostConfig
	Cols, Rows   int
	CellW, CellH int
}

// RunTerminal draws the cell grid straight into the terminal with tcell. The
// mouse acts as the touch panel; Esc or Ctrl-C quits.
func RunTerminal(ctx context.Context, cfg TerminalConfig, newProgram ProgramFunc) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()
	screen.Clear()

	host := cfg.Host
	host.Width = cfg.Cols * cfg.CellW
	host.Height = cfg.Rows * cfg.CellH
	if host.LogWriter == nil {
		host.LogWriter = io.Discard
	}

	cells := newTermCells(screen, cfg.Cols, cfg.Rows)
	h, err := newHost(host, cells)
	if err != nil {
		return err
	}
	h.backlight.onChange = cells.setLevel
	s, err := startProgram(h, newProgram)
	if err != nil {
		return shutdown(nil, h, err)
	}
	return shutdown(s, h, runTerminal(ctx, screen, h, s, cfg))
}

func runTerminal(ctx context.Context, screen tcell.Screen, h *hostHAL, s *stepper, cfg TerminalConfig) error {
	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(events)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	t := time.NewTimer(0)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					return nil
				}
			case *tcell.EventMouse:
				col, row := ev.Position()
				pressed := ev.Buttons()&tcell.Button1 != 0
				h.touch.set(col*cfg.CellW+cfg.CellW/2, row*cfg.CellH+cfg.CellH/2, pressed)
			case *tcell.EventResize:
				screen.Sync()
			}

		case now := <-t.C:
			if err := s.step(now); err != nil {
				return err
			}
			t.Reset(s.wait(time.Now()))
		}
	}
}

type termCell struct {
	glyph  rune
	fg, bg color.RGBA
}

// termCells keeps the undimmed cells so a backlight change can restyle the
// whole screen.
type termCells struct {
	mu     sync.Mutex
	screen tcell.Screen
	cols   int
	rows   int
	cells  []termCell
	level  uint8
}

func newTermCells(screen tcell.Screen, cols, rows int) *termCells {
	return &termCells{
		screen: screen,
		cols:   cols,
		rows:   rows,
		cells:  make([]termCell, cols*rows),
		level:  100,
	}
}

func (t *termCells) FlushCell(col, row int, glyph rune, fg, bg color.RGBA) error {
	if col < 0 || row < 0 || col >= t.cols || row >= t.rows {
		return nil
	}
	if glyph == 0 {
		glyph = ' '
	}
	// Wide and zero-width runes would shift the rest of the row.
	if runewidth.RuneWidth(glyph) != 1 {
		glyph = '?'
	}
	c := termCell{glyph: glyph, fg: fg, bg: bg}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.cells[row*t.cols+col] = c
	t.put(col, row, c)
	return nil
}

func (t *termCells) Present() error {
	t.screen.Show()
	return nil
}

func (t *termCells) put(col, row int, c termCell) {
	if c.glyph == 0 {
		c.glyph = ' '
	}
	t.screen.SetContent(col, row, c.glyph, nil, termStyle(c.fg, c.bg, t.level))
}

func (t *termCells) setLevel(level uint8) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if level == t.level {
		return
	}
	t.level = level
	for i, c := range t.cells {
		t.put(i%t.cols, i/t.cols, c)
	}
	t.screen.Show()
}

func termStyle(fg, bg color.RGBA, level uint8) tcell.Style {
	return tcell.StyleDefault.
		Foreground(termColor(fg, level)).
		Background(termColor(bg, level))
}

func termColor(c color.RGBA, level uint8) tcell.Color {
	return tcell.NewRGBColor(int32(dim(c.R, level)), int32(dim(c.G, level)), int32(dim(c.B, level)))
}
