// Package power throttles frame rate and backlight by idle time.
package power

import (
	"log/slog"
	"time"
)

// Mode is the power state, ordered by decreasing activity.
type Mode uint8

const (
	Active Mode = iota
	Idle
	Sleep
)

func (m Mode) String() string {
	switch m {
	case Active:
		return "active"
	case Idle:
		return "idle"
	case Sleep:
		return "sleep"
	default:
		return "unknown"
	}
}

// Config holds the thresholds and frame cadence per mode.
type Config struct {
	IdleAfter  time.Duration
	SleepAfter time.Duration

	ActiveFrame time.Duration
	IdleFrame   time.Duration
	SleepFrame  time.Duration
}

// DefaultConfig matches the firmware defaults.
func DefaultConfig() Config {
	return Config{
		IdleAfter:   10 * time.Second,
		SleepAfter:  60 * time.Second,
		ActiveFrame: 16 * time.Millisecond,
		IdleFrame:   200 * time.Millisecond,
		SleepFrame:  400 * time.Millisecond,
	}
}

// State is a snapshot of the controller.
type State struct {
	Mode                Mode
	LastActivity        time.Time
	UserBrightness      uint8
	EffectiveBrightness uint8
}

// Controller is the idle/active/sleep state machine.
type Controller struct {
	cfg Config
	log *slog.Logger

	mode         Mode
	lastActivity time.Time
	user         uint8
	effective    uint8
}

// New returns a controller in Active mode with activity recorded at now.
// The backlight is assumed to already be at brightness.
func New(cfg Config, brightness uint8, now time.Time, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	b := clampLevel(brightness)
	return &Controller{
		cfg:          cfg,
		log:          log,
		mode:         Active,
		lastActivity: now,
		user:         b,
		effective:    b,
	}
}

func (c *Controller) Mode() Mode { return c.mode }

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	return State{
		Mode:                c.mode,
		LastActivity:        c.lastActivity,
		UserBrightness:      c.user,
		EffectiveBrightness: c.effective,
	}
}

// RegisterActivity records user input at now.
func (c *Controller) RegisterActivity(now time.Time) {
	if now.After(c.lastActivity) {
		c.lastActivity = now
	}
}

// Update recomputes the mode at now for the given user brightness. It returns
// the backlight level to apply and true only when the mode or the effective
// level changed since the previous update.
func (c *Controller) Update(now time.Time, userBrightness uint8) (uint8, bool) {
	c.user = clampLevel(userBrightness)
	elapsed := now.Sub(c.lastActivity)

	mode := Active
	switch {
	case elapsed > c.cfg.SleepAfter:
		mode = Sleep
	case elapsed > c.cfg.IdleAfter:
		mode = Idle
	}

	var effective uint8
	switch mode {
	case Active:
		effective = c.user
	case Idle:
		effective = c.user / 2
	case Sleep:
		effective = 0
	}

	changed := mode != c.mode || effective != c.effective
	if mode != c.mode {
		c.log.Info("power mode", "from", c.mode, "to", mode, "brightness", effective)
	}
	c.mode = mode
	c.effective = effective
	return effective, changed
}

// FrameDelay returns how long to wait before the next frame in the current
// mode.
func (c *Controller) FrameDelay() time.Duration {
	switch c.mode {
	case Idle:
		return c.cfg.IdleFrame
	case Sleep:
		return c.cfg.SleepFrame
	default:
		return c.cfg.ActiveFrame
	}
}

// AwaitFrame blocks for FrameDelay.
func (c *Controller) AwaitFrame() {
	time.Sleep(c.FrameDelay())
}

func clampLevel(v uint8) uint8 {
	if v > 100 {
		return 100
	}
	return v
}
