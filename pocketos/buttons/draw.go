package buttons

import "pocket/pocketos/grid"

// Chrome colors.
var (
	FaceColor   = grid.Base02
	ActiveColor = grid.Blue
	LabelColor  = grid.Base2
)

// Draw paints every registered button onto g, with cellW x cellH pixel cells,
// and clears the dirty flag.
func (r *Registry) Draw(g *grid.Grid, cellW, cellH int) {
	if cellW <= 0 || cellH <= 0 {
		return
	}
	for _, e := range r.entries {
		bg := FaceColor
		if r.hasActive && r.active == e.id {
			bg = ActiveColor
		}
		x0, y0 := int(e.rect.XMin)/cellW, int(e.rect.YMin)/cellH
		x1, y1 := int(e.rect.XMax)/cellW, int(e.rect.YMax)/cellH
		g.Fill(x0, y0, x1+1, y1+1, ' ', LabelColor, bg)

		label := string(e.id)
		if e.id == Back {
			label = "<"
		}
		w := x1 - x0 + 1
		n := len([]rune(label))
		lx := x0
		if n < w {
			lx = x0 + (w-n)/2
		}
		ly := y0 + (y1-y0)/2
		// Labels stay inside the button.
		for i, ch := range []rune(label) {
			if lx+i > x1 {
				break
			}
			g.Put(lx+i, ly, ch, LabelColor, bg)
		}
	}
	r.dirty = false
}
