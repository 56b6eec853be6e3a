// Package app wires the OS together on top of a HAL.
package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"pocket/hal"
	"pocket/pocketos/apps"
	"pocket/pocketos/buttons"
	"pocket/pocketos/config"
	"pocket/pocketos/grid"
	"pocket/pocketos/logging"
	"pocket/pocketos/power"
	"pocket/pocketos/runtime"
	"pocket/pocketos/store"
	"pocket/pocketos/system"
	"pocket/pocketos/touch"
)

// System is the booted OS. It implements hal.Program.
type System struct {
	rt     *runtime.Runtime
	log    *slog.Logger
	store  store.Store
	closer io.Closer
	clock  func() time.Time
}

// New boots the OS on h with cfg. Nothing is drawn until the first Step.
func New(h hal.HAL, cfg config.Config) (*System, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	log := logging.New(h.Logger(), level)

	target, err := newTarget(h.Display(), cfg.Display)
	if err != nil {
		return nil, err
	}
	st, closer, err := openStore(h, cfg.Store, log)
	if err != nil {
		return nil, err
	}

	cal := loadCalibration(st, cfg.Touch.Calibration, log)
	brightness := loadBrightness(st, cfg.Power.Brightness)
	now := time.Now()

	sensor := touch.PointerSensor{P: h.Touch(), MinPressure: cfg.Touch.PressureThreshold}
	poller := touch.NewPoller(sensor, cal, cfg.Display.Width, cfg.Display.Height, log)
	pc := power.New(cfg.Power.Controller(), brightness, now, log)
	if bl := h.Backlight(); bl != nil {
		bl.SetLevel(brightness)
	}

	rt, err := runtime.New(runtime.Config{
		Grid:      grid.New(cfg.Display.Cols(), cfg.Display.Rows()),
		Target:    target,
		Buttons:   buttons.NewRegistry(cfg.Buttons.Capacity),
		Touch:     poller,
		Power:     pc,
		Backlight: h.Backlight(),
		Store:     st,
		Stats:     h.Stats(),
		Log:       log,
		Apps:      apps.Table(),
		Initial:   runtime.Home,
		Settings: system.Settings{
			UserBrightness:      brightness,
			EffectiveBrightness: brightness,
		},
		CellW:  cfg.Display.CellWidth,
		CellH:  cfg.Display.CellHeight,
		Settle: cfg.Touch.Settle,
	})
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}

	log.Info("pocket started",
		"cols", cfg.Display.Cols(), "rows", cfg.Display.Rows(),
		"store", cfg.Store.Backend, "brightness", brightness)
	return &System{rt: rt, log: log, store: st, closer: closer, clock: time.Now}, nil
}

// Step runs one frame and returns the delay before the next.
func (s *System) Step() (time.Duration, error) {
	return s.rt.Frame(s.clock())
}

// Close releases the store.
func (s *System) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Runtime exposes the app runtime.
func (s *System) Runtime() *runtime.Runtime { return s.rt }

func newTarget(d hal.Display, cfg config.Display) (grid.Target, error) {
	if d == nil {
		return nil, errors.New("no display")
	}
	if s := d.Surface(); s != nil {
		return grid.NewPixelTarget(s, cfg.CellWidth, cfg.CellHeight), nil
	}
	if c := d.Cells(); c != nil {
		return c, nil
	}
	return nil, errors.New("display has neither a surface nor cells")
}

// loadCalibration prefers a stored calibration over the configured one.
func loadCalibration(st store.Store, def touch.Calibration, log *slog.Logger) touch.Calibration {
	b, ok := st.Read(store.KeyCalibration)
	if !ok {
		return def
	}
	cal, ok := touch.DecodeCalibration(b)
	if !ok || !cal.Valid() {
		log.Warn("stored calibration ignored", "len", len(b))
		return def
	}
	return cal
}

func loadBrightness(st store.Store, def uint8) uint8 {
	b, ok := st.Read(store.KeyBrightness)
	if !ok || len(b) != 1 || b[0] > 100 {
		return def
	}
	return b[0]
}

// flashStoreBytes is the flash region the settings table may use.
const flashStoreBytes = 16 * 1024

// openFlashStore opens the key/value table on f. A corrupt table is erased
// and started over.
func openFlashStore(f hal.Flash, log *slog.Logger) (store.Store, error) {
	if f == nil || f.SizeBytes() == 0 || f.EraseBlockBytes() == 0 {
		return nil, fmt.Errorf("flash store: %w", hal.ErrNotImplemented)
	}
	size := uint32(flashStoreBytes)
	if bs := f.EraseBlockBytes(); size%bs != 0 {
		size = (size/bs + 1) * bs
	}
	if size > f.SizeBytes() {
		size = f.SizeBytes()
	}

	kv, err := store.OpenFlashKV(f, size)
	if errors.Is(err, store.ErrCorrupt) {
		log.Warn("flash store corrupt, erasing", "err", err)
		if err := f.Erase(0, size); err != nil {
			return nil, fmt.Errorf("erase flash store: %w", err)
		}
		kv, err = store.OpenFlashKV(f, size)
	}
	if err != nil {
		return nil, fmt.Errorf("open flash store: %w", err)
	}
	return kv, nil
}
