package apps

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"pocket/pocketos/buttons"
	"pocket/pocketos/grid"
	"pocket/pocketos/power"
	"pocket/pocketos/runtime"
	"pocket/pocketos/runtime/runtimetest"
	"pocket/pocketos/store"
	"pocket/pocketos/system"
	"pocket/pocketos/touch"
)

func TestTableNamesAreStable(t *testing.T) {
	want := map[runtime.AppID]string{
		runtime.Home:        "HOME",
		runtime.ColorPicker: "COLOR",
		runtime.Snake:       "SNAKE",
		runtime.Settings:    "SETTINGS",
		runtime.Diagnostic:  "TEST",
	}
	table := Table()
	if len(table) != len(want) {
		t.Fatalf("table has %d apps, want %d", len(table), len(want))
	}
	for id, name := range want {
		newApp, ok := table[id]
		if !ok {
			t.Fatalf("no constructor for %v", id)
		}
		if a, b := newApp().Name(), newApp().Name(); a != name || b != name {
			t.Fatalf("%v names = %q, %q; want %q", id, a, b, name)
		}
	}
}

func TestLaunchAndReturn(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Unix(0, 0)
	sensor := &runtimetest.Sensor{}
	reg := buttons.NewRegistry(16)
	rt, err := runtime.New(runtime.Config{
		Grid:     grid.New(40, 32),
		Target:   &runtimetest.Target{},
		Buttons:  reg,
		Touch:    touch.NewPoller(sensor, touch.Calibration{MaxX: 239, MaxY: 319}, 240, 320, log),
		Power:    power.New(power.DefaultConfig(), 100, now, log),
		Store:    store.NewMemory(),
		Log:      log,
		Apps:     Table(),
		Settings: system.Settings{UserBrightness: 100},
	})
	if err != nil {
		t.Fatalf("runtime.New: %v", err)
	}

	frame := func() {
		t.Helper()
		if _, err := rt.Frame(now); err != nil {
			t.Fatalf("Frame: %v", err)
		}
		now = now.Add(16 * time.Millisecond)
	}

	frame()
	if rt.Active() != runtime.Home {
		t.Fatalf("boot app = %v, want home", rt.Active())
	}

	sensor.Touch(20, 130)
	sensor.Release()
	frame()
	frame()
	if rt.Active() != runtime.Snake {
		t.Fatalf("after tapping SNAKE active = %v", rt.Active())
	}
	if _, ok := reg.Rect("SNAKE"); ok {
		t.Fatal("home buttons leaked into snake")
	}

	sensor.Touch(5, 5)
	sensor.Release()
	frame()
	frame()
	if rt.Active() != runtime.Home {
		t.Fatalf("after BACK active = %v", rt.Active())
	}
}
