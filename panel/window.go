package panel

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RunWindow opens a desktop window showing the surface and drives the
// machine at the display rate. Space pauses, N steps one frame while
// paused, Escape quits. It blocks until the window closes.
func (pn *Panel) RunWindow() error {
	g := &game{pn: pn}
	ebiten.SetWindowTitle(pn.title)
	ebiten.SetWindowSize(pn.fb.width*2, pn.fb.height*2)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type game struct {
	pn      *Panel
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.pn.paused = !g.pn.paused
	}
	step := !g.pn.paused
	if g.pn.paused && inpututil.IsKeyJustPressed(ebiten.KeyN) {
		step = true
	}

	if step && g.pn.halted == nil {
		if _, err := g.pn.stepFrame(); err != nil {
			// The window stays open on the fault report for inspection.
			g.pn.halted = err
			g.pn.drawFault(err)
		}
	}
	if g.pn.halted == nil {
		g.pn.refreshStatus()
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	fb := g.pn.fb
	if g.img == nil || g.img.Bounds().Dx() != fb.width || g.img.Bounds().Dy() != fb.height {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGB565(g.scratch)

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.ReplacePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.pn.fb.width, g.pn.fb.height
}
