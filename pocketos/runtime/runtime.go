package runtime

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pocket/hal"
	"pocket/pocketos/buttons"
	"pocket/pocketos/grid"
	"pocket/pocketos/power"
	"pocket/pocketos/store"
	"pocket/pocketos/system"
	"pocket/pocketos/touch"
)

// Config wires the runtime to its collaborators. Grid, Target, Buttons,
// Touch, Power and Apps are required.
type Config struct {
	Grid    *grid.Grid
	Target  grid.Target
	Buttons *buttons.Registry
	Touch   *touch.Poller
	Power   *power.Controller

	Backlight hal.Backlight
	Store     store.Store
	Stats     hal.Stats
	Log       *slog.Logger

	Apps    Table
	Initial AppID

	Settings     system.Settings
	CellW, CellH int
	Settle       time.Duration
}

// Runtime owns the active app and the per-frame pipeline.
type Runtime struct {
	grid      *grid.Grid
	target    grid.Target
	buttons   *buttons.Registry
	touch     *touch.Poller
	power     *power.Controller
	backlight hal.Backlight
	store     store.Store
	stats     hal.Stats
	log       *slog.Logger

	apps    Table
	initial AppID

	settings     system.Settings
	cellW, cellH int
	settle       time.Duration

	started  bool
	active   App
	activeID AppID
	appDirty bool
	calib    *touch.Calibrator
	status   string
}

// New validates cfg and returns a runtime. No app is started until the first
// frame.
func New(cfg Config) (*Runtime, error) {
	switch {
	case cfg.Grid == nil:
		return nil, errors.New("runtime: grid is required")
	case cfg.Target == nil:
		return nil, errors.New("runtime: display target is required")
	case cfg.Buttons == nil:
		return nil, errors.New("runtime: button registry is required")
	case cfg.Touch == nil:
		return nil, errors.New("runtime: touch poller is required")
	case cfg.Power == nil:
		return nil, errors.New("runtime: power controller is required")
	}
	if cfg.Initial == None {
		cfg.Initial = Home
	}
	if _, ok := cfg.Apps[cfg.Initial]; !ok {
		return nil, fmt.Errorf("runtime: no app registered for %s", cfg.Initial)
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemory()
	}
	cfg.Settings.Calibration = cfg.Touch.Calibration()
	if cfg.CellW <= 0 {
		cfg.CellW = 6
	}
	if cfg.CellH <= 0 {
		cfg.CellH = 10
	}
	return &Runtime{
		grid:      cfg.Grid,
		target:    cfg.Target,
		buttons:   cfg.Buttons,
		touch:     cfg.Touch,
		power:     cfg.Power,
		backlight: cfg.Backlight,
		store:     cfg.Store,
		stats:     cfg.Stats,
		log:       cfg.Log,
		apps:      cfg.Apps,
		initial:   cfg.Initial,
		settings:  cfg.Settings,
		cellW:     cfg.CellW,
		cellH:     cfg.CellH,
		settle:    cfg.Settle,
	}, nil
}

// Active returns the id of the running app.
func (r *Runtime) Active() AppID { return r.activeID }

// ActiveName returns the name of the running app, or "" before the first
// frame.
func (r *Runtime) ActiveName() string {
	if r.active == nil {
		return ""
	}
	return r.active.Name()
}

// Calibrating reports whether the touch calibration screen is up.
func (r *Runtime) Calibrating() bool { return r.calib != nil }

// Settings returns a snapshot of the shared settings.
func (r *Runtime) Settings() system.View { return r.settings.View() }

// start brings up the initial app, or the calibration screen when the touch
// calibration is unusable.
func (r *Runtime) start(now time.Time) {
	r.started = true
	r.settings.Power = r.power.Mode()
	r.settings.EffectiveBrightness = r.power.State().EffectiveBrightness
	r.switchTo(r.initial, now)
	if !r.settings.Calibration.Valid() {
		r.log.Warn("touch calibration unusable, calibrating", "calibration", r.settings.Calibration)
		r.apply(system.StartCalibration(), now)
	}
}

// Frame runs one frame at now and returns how long to wait before the next.
// A display error is fatal and returned as is.
func (r *Runtime) Frame(now time.Time) (time.Duration, error) {
	if !r.started {
		r.start(now)
	}
	if r.calib != nil {
		r.calibrationFrame(now)
	} else {
		r.appFrame(now)
	}

	if _, err := r.grid.Render(r.target); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}

	level, changed := r.power.Update(now, r.settings.UserBrightness)
	r.settings.EffectiveBrightness = level
	r.settings.Power = r.power.Mode()
	if changed && r.backlight != nil {
		r.backlight.SetLevel(level)
	}
	return r.power.FrameDelay(), nil
}

func (r *Runtime) appFrame(now time.Time) {
	var in InputEvents
	if ev, ok := r.touch.Poll(); ok {
		in.Touch = ev
		r.power.RegisterActivity(now)
		if bev, ok := r.buttons.Update(ev); ok {
			in.Button = bev
		}
		r.log.Debug("input", "touch", ev, "button", in.Button)
	}

	ctx := r.context(now)
	resp := r.active.Update(in, ctx)
	if resp.Redraw {
		r.appDirty = true
	}
	r.apply(resp.Command, now)
	if resp.Switch != None {
		r.switchTo(resp.Switch, now)
	}
	if r.calib != nil {
		return
	}

	if r.appDirty || r.buttons.Dirty() {
		ctx = r.context(now)
		r.active.Render(ctx)
		r.buttons.Draw(r.grid, r.cellW, r.cellH)
		r.appDirty = false
		r.status = ""
	}
	r.drawStatus()
}

// switchTo discards the active app and initializes a fresh id. The new app's
// init response decides the redraw for this frame.
func (r *Runtime) switchTo(id AppID, now time.Time) {
	newApp, ok := r.apps[id]
	if !ok {
		r.log.Error("switch to unknown app", "app", id)
		return
	}
	from := r.ActiveName()

	r.buttons.Clear()
	r.active = newApp()
	r.activeID = id

	resp := r.active.Init(r.context(now))
	r.appDirty = resp.Redraw
	r.status = ""
	if resp.Switch != None {
		r.log.Warn("switch requested from init ignored", "app", r.active.Name(), "to", resp.Switch)
	}
	r.log.Info("app switch", "from", from, "to", r.active.Name())
	r.apply(resp.Command, now)
}

// apply carries out a system command. Only the runtime writes settings.
func (r *Runtime) apply(cmd system.Command, now time.Time) {
	if cmd.Kind == system.CmdNone {
		return
	}
	if !r.settings.Apply(cmd) {
		return
	}
	r.log.Debug("system command", "cmd", cmd)

	switch cmd.Kind {
	case system.CmdSetBrightness:
		r.persist(store.KeyBrightness, []byte{r.settings.UserBrightness})

	case system.CmdStartCalibration:
		r.buttons.Clear()
		r.touch.Reset()
		r.calib = touch.NewCalibrator(r.grid.Cols(), r.grid.Rows(), r.cellW, r.cellH, r.settle)

	case system.CmdApplyCalibration:
		r.calib = nil
		r.touch.SetCalibration(cmd.Calibration)
		r.touch.Reset()
		r.log.Info("touch calibrated", "calibration", cmd.Calibration)
		r.persist(store.KeyCalibration, cmd.Calibration.Encode())
		// Back to a fresh copy of the app that was running.
		r.switchTo(r.activeID, now)
	}
}

// calibrationFrame feeds the raw sensor straight into the calibrator. Once
// every corner is captured it waits for release and applies the result.
func (r *Runtime) calibrationFrame(now time.Time) {
	pt, err := r.touch.Sensor().SampleAxes()
	if err == nil {
		r.power.RegisterActivity(now)
	}
	if r.calib.Feed(pt, err, now) {
		r.log.Debug("calibration corner captured", "step", r.calib.Step(), "x", pt.X, "y", pt.Y)
	}
	r.calib.Draw(r.grid)

	if r.calib.Done() && errors.Is(err, touch.ErrNoContact) {
		cal := r.calib.Result()
		if !cal.Valid() {
			r.log.Warn("calibration degenerate, retrying", "calibration", cal)
			r.calib = touch.NewCalibrator(r.grid.Cols(), r.grid.Rows(), r.cellW, r.cellH, r.settle)
			return
		}
		r.apply(system.ApplyCalibration(cal), now)
	}
}

// persist is best-effort: a failed write is logged and otherwise ignored.
func (r *Runtime) persist(key string, val []byte) {
	if err := r.store.Write(key, val); err != nil {
		r.log.Warn("store write failed", "key", key, "err", err)
	}
}

func (r *Runtime) context(now time.Time) *Context {
	return &Context{
		Grid:     r.grid,
		Buttons:  r.buttons,
		Settings: r.settings.View(),
		Now:      now,
		CellW:    r.cellW,
		CellH:    r.cellH,
		Store:    r.store,
		Stats:    r.stats,
		Log:      r.log.With("app", r.ActiveName()),
	}
}
