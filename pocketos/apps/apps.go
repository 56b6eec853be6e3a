// Package apps lists the app variants built into the firmware.
package apps

import (
	"pocket/pocketos/apps/color"
	"pocket/pocketos/apps/diag"
	"pocket/pocketos/apps/home"
	"pocket/pocketos/apps/settings"
	"pocket/pocketos/apps/snake"
	"pocket/pocketos/runtime"
)

// Table returns the constructors for every variant.
func Table() runtime.Table {
	return runtime.Table{
		runtime.Home:        home.New,
		runtime.ColorPicker: color.New,
		runtime.Snake:       snake.New,
		runtime.Settings:    settings.New,
		runtime.Diagnostic:  diag.New,
	}
}
