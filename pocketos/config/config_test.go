//go:build !tinygo

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pocket/pocketos/touch"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := Validate(c); err != nil {
		t.Fatalf("Validate(Default()) = %v", err)
	}
	if c.Display.Cols() != 40 || c.Display.Rows() != 32 {
		t.Fatalf("grid = %dx%d, want 40x32", c.Display.Cols(), c.Display.Rows())
	}
	if !c.Touch.Calibration.Valid() {
		t.Fatal("default calibration is degenerate")
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	doc := []byte(`
power:
  idle_after: 5s
  brightness: 60
touch:
  calibration: {min_x: 100, min_y: 100, max_x: 4000, max_y: 4000}
store:
  backend: memory
log:
  level: debug
`)
	c := Default()
	if err := Parse(doc, &c); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Power.IdleAfter != 5*time.Second || c.Power.Brightness != 60 {
		t.Fatalf("power = %+v", c.Power)
	}
	if c.Power.SleepAfter != 60*time.Second {
		t.Fatalf("SleepAfter = %v, want default 60s", c.Power.SleepAfter)
	}
	if c.Touch.Calibration != (touch.Calibration{MinX: 100, MinY: 100, MaxX: 4000, MaxY: 4000}) {
		t.Fatalf("calibration = %+v", c.Touch.Calibration)
	}
	if c.Display.Width != 240 || c.Store.Backend != BackendMemory || c.Log.Level != "debug" {
		t.Fatalf("config = %+v", c)
	}
}

func TestValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"sleep before idle", "power: {idle_after: 30s, sleep_after: 10s}"},
		{"brightness over 100", "power: {brightness: 120}"},
		{"idle frame faster than active", "power: {active_frame: 100ms, idle_frame: 50ms}"},
		{"unknown backend", "store: {backend: s3}"},
		{"badger without path", "store: {backend: badger, path: ''}"},
		{"unknown level", "log: {level: trace}"},
		{"zero capacity", "buttons: {capacity: 0}"},
		{"cell wider than panel", "display: {width: 4, cell_width: 6}"},
	}
	for _, tt := range tests {
		c := Default()
		err := Parse([]byte(tt.doc), &c)
		if !errors.Is(err, ErrInvalid) {
			t.Fatalf("%s: err = %v, want ErrInvalid", tt.name, err)
		}
	}
}

func TestParseSyntaxError(t *testing.T) {
	c := Default()
	err := Parse([]byte("power: [1, 2"), &c)
	if err == nil || errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want a parse error", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	c, err := Load(filepath.Join(dir, "missing.yaml"))
	if err != nil || c != Default() {
		t.Fatalf("Load(missing) = %+v, %v", c, err)
	}

	path := filepath.Join(dir, "pocket.yaml")
	if err := os.WriteFile(path, []byte("buttons: {capacity: 8}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err = Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Buttons.Capacity != 8 {
		t.Fatalf("Capacity = %d, want 8", c.Buttons.Capacity)
	}
}

func TestMarshalRoundTripsThroughLoad(t *testing.T) {
	want := Default()
	want.Power.Brightness = 42
	data, err := Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got := Config{}
	if err := Parse(data, &got); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got != want {
		t.Fatalf("round trip = %+v, want %+v", got, want)
	}
}

func TestPowerController(t *testing.T) {
	p := Default().Power.Controller()
	if p.IdleAfter != 10*time.Second || p.SleepFrame != 400*time.Millisecond {
		t.Fatalf("Controller() = %+v", p)
	}
}
