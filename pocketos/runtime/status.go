package runtime

import (
	"fmt"
	"strings"

	"pocket/pocketos/buttons"
	"pocket/pocketos/grid"
	"pocket/pocketos/power"
)

// Status bar colors.
var (
	StatusFG = grid.Base1
	StatusBG = grid.Base02
)

// statusCol is the first column right of the BACK button.
func (r *Runtime) statusCol() int {
	return int(buttons.BackRect.XMax)/r.cellW + 1
}

// drawStatus writes the app name and power state on row 0. It only touches
// the grid when the text changed.
func (r *Runtime) drawStatus() {
	if r.active == nil || r.grid.Rows() == 0 {
		return
	}
	right := fmt.Sprintf("%s %3d%%", strings.ToUpper(r.settings.Power.String()), r.settings.EffectiveBrightness)
	if r.settings.Power == power.Sleep {
		right = "SLEEP"
	}
	left := r.active.Name()

	x0 := r.statusCol()
	width := r.grid.Cols() - x0
	if width <= 0 {
		return
	}
	pad := width - len(left) - len(right) - 1
	if pad < 1 {
		pad = 1
	}
	line := " " + left + strings.Repeat(" ", pad) + right
	if line == r.status {
		return
	}
	r.status = line
	r.grid.Fill(x0, 0, r.grid.Cols(), 1, ' ', StatusFG, StatusBG)
	r.grid.WriteText(x0, 0, line, StatusFG, StatusBG)
}
