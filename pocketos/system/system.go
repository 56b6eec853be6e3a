// Package system holds the settings shared by every app and the commands apps
// use to change them.
package system

import (
	"fmt"

	"pocket/pocketos/power"
	"pocket/pocketos/touch"
)

// CommandKind selects a system command.
type CommandKind uint8

const (
	CmdNone CommandKind = iota
	CmdSetBrightness
	CmdStartCalibration
	CmdApplyCalibration
)

func (k CommandKind) String() string {
	switch k {
	case CmdSetBrightness:
		return "set-brightness"
	case CmdStartCalibration:
		return "start-calibration"
	case CmdApplyCalibration:
		return "apply-calibration"
	default:
		return "none"
	}
}

// Command is a system-level intent an app hands to the runtime.
type Command struct {
	Kind        CommandKind
	Brightness  uint8
	Calibration touch.Calibration
}

func (c Command) String() string {
	switch c.Kind {
	case CmdSetBrightness:
		return fmt.Sprintf("%s(%d)", c.Kind, c.Brightness)
	case CmdApplyCalibration:
		return fmt.Sprintf("%s(%+v)", c.Kind, c.Calibration)
	default:
		return c.Kind.String()
	}
}

func SetBrightness(level uint8) Command {
	return Command{Kind: CmdSetBrightness, Brightness: level}
}

func StartCalibration() Command { return Command{Kind: CmdStartCalibration} }

func ApplyCalibration(c touch.Calibration) Command {
	return Command{Kind: CmdApplyCalibration, Calibration: c}
}

// Settings is owned by the runtime, which is its only writer.
type Settings struct {
	UserBrightness      uint8
	EffectiveBrightness uint8
	Power               power.Mode
	Calibration         touch.Calibration
	Calibrating         bool
}

// View is the read-only copy of Settings handed to apps each frame.
type View struct {
	UserBrightness      uint8
	EffectiveBrightness uint8
	Power               power.Mode
	Calibration         touch.Calibration
	Calibrating         bool
}

// View returns a snapshot of s.
func (s *Settings) View() View {
	return View(*s)
}

// Apply carries out cmd. It reports whether a setting changed; starting a
// calibration is handled by the runtime and only flags Calibrating here.
func (s *Settings) Apply(cmd Command) bool {
	switch cmd.Kind {
	case CmdSetBrightness:
		level := cmd.Brightness
		if level > 100 {
			level = 100
		}
		if level == s.UserBrightness {
			return false
		}
		s.UserBrightness = level
		return true
	case CmdStartCalibration:
		if s.Calibrating {
			return false
		}
		s.Calibrating = true
		return true
	case CmdApplyCalibration:
		changed := s.Calibrating || cmd.Calibration != s.Calibration
		s.Calibrating = false
		s.Calibration = cmd.Calibration
		return changed
	}
	return false
}
