//go:build !tinygo && cgo

package hal

import (
	"image"
	"time"

	"pocket/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Host  HostConfig
	Scale int
}

// RunWindow opens a desktop window showing the framebuffer. The left mouse
// button acts as the touch panel. It blocks until the window closes.
func RunWindow(cfg WindowConfig, newProgram ProgramFunc) error {
	h, err := newHost(cfg.Host, nil)
	if err != nil {
		return err
	}
	s, err := startProgram(h, newProgram)
	if err != nil {
		return shutdown(nil, h, err)
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 2
	}

	fb := h.display.fb
	g := &hostGame{h: h, fb: fb, s: s}
	ebiten.SetWindowTitle("Pocket (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(fb.width*cfg.Scale, fb.height*cfg.Scale)
	ebiten.SetTPS(60)
	return shutdown(s, h, ebiten.RunGame(g))
}

type hostGame struct {
	h       *hostHAL
	fb      *hostFramebuffer
	s       *stepper
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
}

func (g *hostGame) Update() error {
	x, y := ebiten.CursorPosition()
	g.h.touch.set(x, y, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))

	now := time.Now()
	if !g.s.due(now) {
		return nil
	}
	return g.s.step(now)
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.fb
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGB565(g.scratch)
	level := g.h.backlight.Level()

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = dim(r, level)
		dst[j+1] = dim(gg, level)
		dst[j+2] = dim(b, level)
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.fb.width, g.fb.height
}
