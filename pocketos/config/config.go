// Package config holds the device configuration and its defaults.
package config

import (
	"errors"
	"time"

	"pocket/pocketos/power"
	"pocket/pocketos/touch"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Store backends.
const (
	BackendBadger = "badger"
	BackendFlash  = "flash"
	BackendMemory = "memory"
)

type Config struct {
	Display Display `yaml:"display"`
	Touch   Touch   `yaml:"touch"`
	Power   Power   `yaml:"power"`
	Buttons Buttons `yaml:"buttons"`
	Store   Store   `yaml:"store"`
	Log     Log     `yaml:"log"`
}

type Display struct {
	Width      int `yaml:"width" validate:"gt=0,lte=4096"`
	Height     int `yaml:"height" validate:"gt=0,lte=4096"`
	CellWidth  int `yaml:"cell_width" validate:"gt=0,ltefield=Width"`
	CellHeight int `yaml:"cell_height" validate:"gt=0,ltefield=Height"`
}

// Cols and Rows give the cell grid size.
func (d Display) Cols() int { return d.Width / d.CellWidth }
func (d Display) Rows() int { return d.Height / d.CellHeight }

type Touch struct {
	// Calibration may be degenerate; the device then boots into calibration.
	Calibration       touch.Calibration `yaml:"calibration"`
	PressureThreshold int               `yaml:"pressure_threshold" validate:"gte=0"`
	Settle            time.Duration     `yaml:"settle" validate:"gte=0"`
}

type Power struct {
	IdleAfter   time.Duration `yaml:"idle_after" validate:"gt=0"`
	SleepAfter  time.Duration `yaml:"sleep_after" validate:"gtfield=IdleAfter"`
	Brightness  uint8         `yaml:"brightness" validate:"lte=100"`
	ActiveFrame time.Duration `yaml:"active_frame" validate:"gt=0"`
	IdleFrame   time.Duration `yaml:"idle_frame" validate:"gtefield=ActiveFrame"`
	SleepFrame  time.Duration `yaml:"sleep_frame" validate:"gtefield=IdleFrame"`
}

// Controller returns the power controller settings.
func (p Power) Controller() power.Config {
	return power.Config{
		IdleAfter:   p.IdleAfter,
		SleepAfter:  p.SleepAfter,
		ActiveFrame: p.ActiveFrame,
		IdleFrame:   p.IdleFrame,
		SleepFrame:  p.SleepFrame,
	}
}

type Buttons struct {
	Capacity int `yaml:"capacity" validate:"gte=1,lte=64"`
}

type Store struct {
	Backend string `yaml:"backend" validate:"oneof=badger flash memory"`
	Path    string `yaml:"path" validate:"required_if=Backend badger"`
}

type Log struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// Default returns the stock configuration of the 240x320 panel.
func Default() Config {
	p := power.DefaultConfig()
	return Config{
		Display: Display{Width: 240, Height: 320, CellWidth: 6, CellHeight: 10},
		Touch: Touch{
			Calibration:       touch.Calibration{MinX: 200, MinY: 300, MaxX: 3900, MaxY: 3800},
			PressureThreshold: 1,
			Settle:            600 * time.Millisecond,
		},
		Power: Power{
			IdleAfter:   p.IdleAfter,
			SleepAfter:  p.SleepAfter,
			Brightness:  100,
			ActiveFrame: p.ActiveFrame,
			IdleFrame:   p.IdleFrame,
			SleepFrame:  p.SleepFrame,
		},
		Buttons: Buttons{Capacity: 16},
		Store:   Store{Backend: BackendBadger, Path: "pocket.db"},
		Log:     Log{Level: "info"},
	}
}
