//go:build !tinygo && !cgo

package hal

import "errors"

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Host  HostConfig
	Scale int
}

func RunWindow(_ WindowConfig, _ ProgramFunc) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
