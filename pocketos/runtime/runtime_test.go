package runtime

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"testing"
	"time"

	"pocket/pocketos/buttons"
	"pocket/pocketos/grid"
	"pocket/pocketos/power"
	"pocket/pocketos/store"
	"pocket/pocketos/system"
	"pocket/pocketos/touch"

	tinytouch "tinygo.org/x/drivers/touch"
)

var identity = touch.Calibration{MinX: 0, MinY: 0, MaxX: 239, MaxY: 319}

type sample struct {
	pt  tinytouch.Point
	err error
}

func at(x, y int) sample { return sample{pt: tinytouch.Point{X: x, Y: y, Z: 1}} }

var release = sample{err: touch.ErrNoContact}

// scriptSensor replays samples, then reports no contact.
type scriptSensor struct {
	samples []sample
}

func (s *scriptSensor) SampleAxes() (tinytouch.Point, error) {
	if len(s.samples) == 0 {
		return tinytouch.Point{}, touch.ErrNoContact
	}
	next := s.samples[0]
	s.samples = s.samples[1:]
	return next.pt, next.err
}

type nullTarget struct {
	flushed int
	err     error
}

func (t *nullTarget) FlushCell(col, row int, glyph rune, fg, bg color.RGBA) error {
	if t.err != nil {
		return t.err
	}
	t.flushed++
	return nil
}

type recordBacklight struct {
	levels []uint8
}

func (b *recordBacklight) SetLevel(level uint8) { b.levels = append(b.levels, level) }

type failingStore struct{}

func (failingStore) Read(string) ([]byte, bool)  { return nil, false }
func (failingStore) Write(string, []byte) error { return errors.New("flash worn out") }

// fakeApp records every call into a shared journal.
type fakeApp struct {
	name    string
	journal *[]string
	init    func(ctx *Context) Response
	update  func(in InputEvents, ctx *Context) Response
}

func (a *fakeApp) note(call string) { *a.journal = append(*a.journal, a.name+"."+call) }

func (a *fakeApp) Init(ctx *Context) Response {
	a.note("init")
	if a.init != nil {
		return a.init(ctx)
	}
	return Response{}
}

func (a *fakeApp) Update(in InputEvents, ctx *Context) Response {
	a.note("update")
	if a.update != nil {
		return a.update(in, ctx)
	}
	return Response{}
}

func (a *fakeApp) Render(ctx *Context) { a.note("render") }
func (a *fakeApp) Name() string        { return a.name }

type harness struct {
	rt        *Runtime
	sensor    *scriptSensor
	target    *nullTarget
	backlight *recordBacklight
	buttons   *buttons.Registry
	store     store.Store
	journal   []string
	now       time.Time
}

func quietLog() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newHarness(t *testing.T, cal touch.Calibration, initial AppID, table func(h *harness) Table) *harness {
	t.Helper()
	h := &harness{
		sensor:    &scriptSensor{},
		target:    &nullTarget{},
		backlight: &recordBacklight{},
		buttons:   buttons.NewRegistry(8),
		store:     store.NewMemory(),
		now:       time.Unix(1000, 0),
	}
	rt, err := New(Config{
		Grid:      grid.New(40, 32),
		Target:    h.target,
		Buttons:   h.buttons,
		Touch:     touch.NewPoller(h.sensor, cal, 240, 320, quietLog()),
		Power:     power.New(power.DefaultConfig(), 100, h.now, quietLog()),
		Backlight: h.backlight,
		Store:     h.store,
		Log:       quietLog(),
		Apps:      table(h),
		Initial:   initial,
		Settings:  system.Settings{UserBrightness: 100},
		CellW:     6,
		CellH:     10,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.rt = rt
	return h
}

func (h *harness) frame(t *testing.T, s ...sample) {
	t.Helper()
	h.sensor.samples = append(h.sensor.samples, s...)
	if _, err := h.rt.Frame(h.now); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	h.now = h.now.Add(16 * time.Millisecond)
}

func (h *harness) app(name string, init func(*Context) Response, update func(InputEvents, *Context) Response) func() App {
	return func() App {
		return &fakeApp{name: name, journal: &h.journal, init: init, update: update}
	}
}

func backToHome(in InputEvents, ctx *Context) Response {
	if in.Button == (buttons.Event{Kind: buttons.Released, ID: buttons.Back}) {
		return SwitchTo(Home)
	}
	return Response{}
}

func registerBack(ctx *Context) Response {
	ctx.Buttons.RegisterDefaults()
	return Dirty()
}

func TestBackButtonSwitchesHome(t *testing.T) {
	var seen []buttons.Event
	h := newHarness(t, identity, Settings, func(h *harness) Table {
		return Table{
			Home: h.app("HOME", func(*Context) Response { return Dirty() }, nil),
			Settings: h.app("SETTINGS", registerBack, func(in InputEvents, ctx *Context) Response {
				if in.Button.Kind != 0 {
					seen = append(seen, in.Button)
				}
				return backToHome(in, ctx)
			}),
		}
	})

	h.frame(t)
	h.frame(t, at(5, 5))
	if len(seen) != 1 || seen[0] != (buttons.Event{Kind: buttons.Pressed, ID: buttons.Back}) {
		t.Fatalf("after down: button events = %v", seen)
	}
	if h.rt.Active() != Settings {
		t.Fatalf("switched on press: active = %v", h.rt.Active())
	}

	h.journal = nil
	h.frame(t, release)
	if len(seen) != 2 || seen[1] != (buttons.Event{Kind: buttons.Released, ID: buttons.Back}) {
		t.Fatalf("after up: button events = %v", seen)
	}
	if h.rt.Active() != Home || h.rt.ActiveName() != "HOME" {
		t.Fatalf("active = %v (%q), want home", h.rt.Active(), h.rt.ActiveName())
	}
	want := []string{"SETTINGS.update", "HOME.init", "HOME.render"}
	if fmt.Sprint(h.journal) != fmt.Sprint(want) {
		t.Fatalf("journal = %v, want %v", h.journal, want)
	}
	if h.buttons.Len() != 0 {
		t.Fatalf("stale buttons after switch: %d", h.buttons.Len())
	}
}

func TestInitBeforeUpdateAndNoUpdateAfterSwitch(t *testing.T) {
	h := newHarness(t, identity, Snake, func(h *harness) Table {
		return Table{
			Home:  h.app("HOME", nil, nil),
			Snake: h.app("SNAKE", nil, func(InputEvents, *Context) Response { return SwitchTo(Home) }),
		}
	})
	for i := 0; i < 3; i++ {
		h.frame(t)
	}

	want := []string{"SNAKE.init", "SNAKE.update", "HOME.init", "HOME.update", "HOME.update"}
	if fmt.Sprint(h.journal) != fmt.Sprint(want) {
		t.Fatalf("journal = %v, want %v", h.journal, want)
	}
}

func TestInitRedrawIsAuthoritative(t *testing.T) {
	h := newHarness(t, identity, Snake, func(h *harness) Table {
		return Table{
			Home: h.app("HOME", nil, nil),
			Snake: h.app("SNAKE", nil, func(InputEvents, *Context) Response {
				return Response{Redraw: true, Switch: Home}
			}),
		}
	})
	h.frame(t)

	for _, call := range h.journal {
		if call == "HOME.render" || call == "SNAKE.render" {
			t.Fatalf("rendered although the incoming init did not ask: %v", h.journal)
		}
	}
}

func TestRegistryClearedOnSwitch(t *testing.T) {
	h := newHarness(t, identity, Home, func(h *harness) Table {
		return Table{
			Home: h.app("HOME", func(ctx *Context) Response {
				ctx.Buttons.MustRegister("GO", buttons.Rect{XMin: 0, YMin: 60, XMax: 80, YMax: 80})
				return Dirty()
			}, func(in InputEvents, _ *Context) Response {
				if in.Button.Kind == buttons.Released && in.Button.ID == "GO" {
					return SwitchTo(Snake)
				}
				return Response{}
			}),
			Snake: h.app("SNAKE", registerBack, backToHome),
		}
	})

	h.frame(t)
	for i := 0; i < 5; i++ {
		h.frame(t, at(10, 70))
		h.frame(t, release)
		if _, ok := h.buttons.Rect("GO"); ok {
			t.Fatalf("round %d: home button survived the switch", i)
		}
		h.frame(t, at(5, 5))
		h.frame(t, release)
		if h.buttons.Len() != 1 {
			t.Fatalf("round %d: %d buttons registered on home, want 1", i, h.buttons.Len())
		}
	}
}

func TestSetBrightnessCommand(t *testing.T) {
	h := newHarness(t, identity, Settings, func(h *harness) Table {
		return Table{
			Settings: h.app("SETTINGS", nil, func(in InputEvents, _ *Context) Response {
				if in.Touch.Kind == touch.Down {
					return Command(system.SetBrightness(40))
				}
				return Response{}
			}),
		}
	})
	h.frame(t)
	h.frame(t, at(100, 100))

	if got := h.rt.Settings().UserBrightness; got != 40 {
		t.Fatalf("UserBrightness = %d, want 40", got)
	}
	if n := len(h.backlight.levels); n != 1 || h.backlight.levels[0] != 40 {
		t.Fatalf("backlight writes = %v, want [40]", h.backlight.levels)
	}
	if v, ok := h.store.Read(store.KeyBrightness); !ok || v[0] != 40 {
		t.Fatalf("persisted brightness = %v, %v", v, ok)
	}
}

func TestStoreFailureIsNotFatal(t *testing.T) {
	h := newHarness(t, identity, Settings, func(h *harness) Table {
		return Table{
			Settings: h.app("SETTINGS", nil, func(InputEvents, *Context) Response {
				return Command(system.SetBrightness(10))
			}),
		}
	})
	h.rt.store = failingStore{}
	h.frame(t)
	if got := h.rt.Settings().UserBrightness; got != 10 {
		t.Fatalf("UserBrightness = %d, want 10", got)
	}
}

func TestBacklightFollowsPowerEdges(t *testing.T) {
	h := newHarness(t, identity, Home, func(h *harness) Table {
		return Table{Home: h.app("HOME", nil, nil)}
	})
	for i := 0; i < 5000; i++ {
		h.frame(t)
	}
	// 5000 frames of 16ms is 80s of inactivity.
	want := []uint8{50, 0}
	if fmt.Sprint(h.backlight.levels) != fmt.Sprint(want) {
		t.Fatalf("backlight writes = %v, want %v", h.backlight.levels, want)
	}

	h.frame(t, at(50, 50))
	if got := h.backlight.levels[len(h.backlight.levels)-1]; got != 100 {
		t.Fatalf("after touch backlight = %d, want 100", got)
	}
}

func TestDisplayErrorIsFatal(t *testing.T) {
	h := newHarness(t, identity, Home, func(h *harness) Table {
		return Table{Home: h.app("HOME", nil, nil)}
	})
	boom := errors.New("spi timeout")
	h.target.err = boom
	if _, err := h.rt.Frame(h.now); !errors.Is(err, boom) {
		t.Fatalf("Frame err = %v, want %v", err, boom)
	}
}

func TestBootsIntoCalibration(t *testing.T) {
	h := newHarness(t, touch.Calibration{}, Home, func(h *harness) Table {
		return Table{Home: h.app("HOME", registerBack, nil)}
	})
	h.frame(t)
	if !h.rt.Calibrating() {
		t.Fatal("runtime did not start calibrating with a degenerate calibration")
	}

	for _, p := range [][2]int{{12, 20}, {228, 20}, {12, 300}, {228, 300}} {
		h.frame(t, at(p[0], p[1]))
		h.frame(t, release)
	}
	if h.rt.Calibrating() {
		t.Fatal("still calibrating after four corners")
	}

	got := h.rt.Settings().Calibration
	if got != identity {
		t.Fatalf("calibration = %+v, want %+v", got, identity)
	}
	raw, ok := h.store.Read(store.KeyCalibration)
	if !ok {
		t.Fatal("calibration not persisted")
	}
	if dec, ok := touch.DecodeCalibration(raw); !ok || dec != identity {
		t.Fatalf("persisted calibration = %+v, %v", dec, ok)
	}
	if h.buttons.Len() != 1 {
		t.Fatalf("home not re-initialized: %d buttons", h.buttons.Len())
	}
}

func TestStatusBarShowsAppName(t *testing.T) {
	h := newHarness(t, identity, Home, func(h *harness) Table {
		return Table{Home: h.app("HOME", func(*Context) Response { return Dirty() }, nil)}
	})
	h.frame(t)

	x := h.rt.statusCol() + 1
	var got []rune
	for i := 0; i < 4; i++ {
		c, _ := h.rt.grid.At(x+i, 0)
		got = append(got, c.Glyph)
	}
	if string(got) != "HOME" {
		t.Fatalf("status bar = %q, want HOME", string(got))
	}
}

func TestNewRequiresInitialApp(t *testing.T) {
	_, err := New(Config{
		Grid:    grid.New(1, 1),
		Target:  &nullTarget{},
		Buttons: buttons.NewRegistry(1),
		Touch:   touch.NewPoller(&scriptSensor{}, identity, 240, 320, nil),
		Power:   power.New(power.DefaultConfig(), 100, time.Unix(0, 0), nil),
		Apps:    Table{},
	})
	if err == nil {
		t.Fatal("New accepted an empty app table")
	}
}
