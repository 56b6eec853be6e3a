package settings

import (
	"strings"
	"testing"
	"time"

	"pocket/pocketos/buttons"
	"pocket/pocketos/runtime"
	"pocket/pocketos/runtime/runtimetest"
	"pocket/pocketos/system"
)

func TestBrightnessButtons(t *testing.T) {
	tests := []struct {
		user uint8
		id   buttons.ID
		want uint8
	}{
		{100, Dimmer, 90},
		{100, Brighter, 100},
		{55, Brighter, 65},
		{15, Dimmer, MinBrightness},
		{MinBrightness, Dimmer, MinBrightness},
	}
	for _, tt := range tests {
		ctx := runtimetest.NewContext(time.Unix(0, 0))
		ctx.Settings.UserBrightness = tt.user
		a := New()
		a.Init(ctx)

		resp := a.Update(runtimetest.Released(tt.id), ctx)
		if resp.Command != system.SetBrightness(tt.want) || !resp.Redraw {
			t.Fatalf("%d %s: response = %+v, want set-brightness(%d)", tt.user, tt.id, resp, tt.want)
		}
	}
}

func TestCalibrateAndBack(t *testing.T) {
	ctx := runtimetest.NewContext(time.Unix(0, 0))
	a := New()
	a.Init(ctx)
	if ctx.Buttons.Len() != 1+len(layout) {
		t.Fatalf("registered %d buttons, want %d", ctx.Buttons.Len(), 1+len(layout))
	}
	if resp := a.Update(runtimetest.Released(Calibrate), ctx); resp.Command.Kind != system.CmdStartCalibration {
		t.Fatalf("CALIBRATE response = %+v", resp)
	}
	if resp := a.Update(runtimetest.Released(buttons.Back), ctx); resp.Switch != runtime.Home {
		t.Fatalf("BACK response = %+v", resp)
	}
}

func TestRenderShowsBrightness(t *testing.T) {
	ctx := runtimetest.NewContext(time.Unix(0, 0))
	ctx.Settings.UserBrightness = 70
	a := New()
	a.Init(ctx)
	a.Render(ctx)
	if row := runtimetest.Row(ctx.Grid, 11); !strings.Contains(row, "Brightness  70%") {
		t.Fatalf("row 11 = %q", row)
	}
	if row := runtimetest.Row(ctx.Grid, 4); !strings.HasPrefix(row, "V: ") {
		t.Fatalf("row 4 = %q", row)
	}
}
