//go:build ebiten

package app

import (
	"image/color"

	"github.com/alanazinkin/CellularAutomata-sub000/internal/core"
	"github.com/alanazinkin/CellularAutomata-sub000/internal/render"
	"github.com/alanazinkin/CellularAutomata-sub000/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     *core.Simulation
	painter *render.GridPainter
	overlay *ui.Overlay

	palette []color.RGBA
	initial []int
	buf     []uint8

	scale    int
	paused   bool
	tickOnce bool
}

// New constructs a Game for the provided simulation. The simulation's current
// states become the pattern the R key resets to.
func New(sim *core.Simulation, scale int) *Game {
	size := sim.Size()
	buf := sim.DisplayBuffer(nil)
	initial := make([]int, len(buf))
	for i, ord := range buf {
		initial[i] = int(ord)
	}
	return &Game{
		sim:     sim,
		painter: render.NewGridPainter(size.W, size.H),
		overlay: ui.NewOverlay(sim),
		palette: sim.Model().Palette(),
		initial: initial,
		buf:     buf,
		scale:   scale,
	}
}

// Update handles per-frame input and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyZ) {
		g.sim.RollbackOnce()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sim.Reset(g.initial)
	}

	g.overlay.Update()

	if !g.paused || g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
	}
	return nil
}

// Draw renders the committed states through the model's palette.
func (g *Game) Draw(screen *ebiten.Image) {
	g.buf = g.sim.DisplayBuffer(g.buf)
	g.painter.Blit(screen, g.buf, g.palette, g.scale)
	g.overlay.Draw(screen)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W * g.scale, s.H * g.scale
}
